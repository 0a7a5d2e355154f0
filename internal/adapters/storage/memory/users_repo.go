package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"pediatric-dosage/internal/domain/admin"
)

type userRepo struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]admin.User
	now    func() time.Time
}

func NewUserRepo() admin.UserRepository {
	return &userRepo{
		nextID: 1,
		byID:   make(map[int64]admin.User),
		now:    time.Now,
	}
}

func (r *userRepo) List(ctx context.Context) ([]admin.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]admin.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Username) < strings.ToLower(out[j].Username)
	})
	return out, nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (admin.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return admin.User{}, admin.ErrNotFound
	}
	return u, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (admin.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return admin.User{}, admin.ErrNotFound
}

func (r *userRepo) Create(ctx context.Context, u admin.User) (admin.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.usernameTaken(u.Username, 0) {
		return admin.User{}, admin.ErrConflict
	}

	u.ID = r.nextID
	r.nextID++
	if u.CreatedAt.IsZero() {
		u.CreatedAt = r.now().UTC()
	}
	r.byID[u.ID] = u
	return u, nil
}

func (r *userRepo) Update(ctx context.Context, u admin.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[u.ID]; !ok {
		return admin.ErrNotFound
	}
	if r.usernameTaken(u.Username, u.ID) {
		return admin.ErrConflict
	}
	r.byID[u.ID] = u
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return admin.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// usernameTaken asume el lock tomado.
func (r *userRepo) usernameTaken(username string, exceptID int64) bool {
	for id, u := range r.byID {
		if id != exceptID && u.Username == username {
			return true
		}
	}
	return false
}
