package postgrest

import (
	"context"
	"errors"
	"time"

	"pediatric-dosage/internal/domain/admin"
)

type UsersRepo struct {
	c *Client
}

func NewUsersRepo(c *Client) *UsersRepo {
	return &UsersRepo{c: c}
}

type userRow struct {
	ID         int64     `json:"userid,omitempty"`
	Usuario    string    `json:"usuario"`
	Contrasena string    `json:"contraseña"`
	CreatedAt  time.Time `json:"created_at"`
}

func (row userRow) user() admin.User {
	return admin.User{
		ID:           row.ID,
		Username:     row.Usuario,
		PasswordHash: row.Contrasena,
		CreatedAt:    row.CreatedAt,
	}
}

func usersQuery() *Query {
	return From("users").Select("userid", "usuario", "contraseña", "created_at")
}

func (r *UsersRepo) List(ctx context.Context) ([]admin.User, error) {
	var rows []userRow
	if _, err := r.c.Get(ctx, usersQuery().Order("usuario", true), &rows); err != nil {
		return nil, err
	}
	out := make([]admin.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.user())
	}
	return out, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (admin.User, error) {
	return r.getOne(ctx, usersQuery().Eq("userid", id))
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (admin.User, error) {
	return r.getOne(ctx, usersQuery().Eq("usuario", username))
}

func (r *UsersRepo) getOne(ctx context.Context, q *Query) (admin.User, error) {
	var rows []userRow
	if _, err := r.c.Get(ctx, q.Limit(1), &rows); err != nil {
		return admin.User{}, err
	}
	if len(rows) == 0 {
		return admin.User{}, admin.ErrNotFound
	}
	return rows[0].user(), nil
}

func (r *UsersRepo) Create(ctx context.Context, u admin.User) (admin.User, error) {
	var created []userRow
	err := r.c.Insert(ctx, "users", []userRow{{
		Usuario:    u.Username,
		Contrasena: u.PasswordHash,
		CreatedAt:  u.CreatedAt,
	}}, &created)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return admin.User{}, admin.ErrConflict
		}
		return admin.User{}, err
	}
	if len(created) == 0 {
		return admin.User{}, errors.New("users: insert returned no rows")
	}
	return created[0].user(), nil
}

func (r *UsersRepo) Update(ctx context.Context, u admin.User) error {
	patch := map[string]any{
		"usuario":    u.Username,
		"contraseña": u.PasswordHash,
	}
	var updated []userRow
	if err := r.c.Update(ctx, From("users").Eq("userid", u.ID), patch, &updated); err != nil {
		if errors.Is(err, ErrConflict) {
			return admin.ErrConflict
		}
		return err
	}
	if len(updated) == 0 {
		return admin.ErrNotFound
	}
	return nil
}

func (r *UsersRepo) Delete(ctx context.Context, id int64) error {
	var deleted []userRow
	if err := r.c.Delete(ctx, From("users").Eq("userid", id), &deleted); err != nil {
		return err
	}
	if len(deleted) == 0 {
		return admin.ErrNotFound
	}
	return nil
}
