package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"pediatric-dosage/internal/domain/consultations"
)

type consultationRepo struct {
	mu     sync.RWMutex
	nextID int64
	items  []consultations.Record
	now    func() time.Time
}

func NewConsultationRepo() consultations.Repository {
	return &consultationRepo{nextID: 1, now: time.Now}
}

func (r *consultationRepo) Create(ctx context.Context, rec consultations.Record) (consultations.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec.ID = r.nextID
	r.nextID++
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = r.now().UTC()
	}
	rec.DilutionMl = cloneF64(rec.DilutionMl)
	rec.InfusionMinutes = cloneF64(rec.InfusionMinutes)

	r.items = append(r.items, rec)
	return rec, nil
}

func (r *consultationRepo) List(ctx context.Context, filter consultations.ListFilter) ([]consultations.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filter = filter.Normalize()

	matched := make([]consultations.Record, 0)
	for _, rec := range r.items {
		if filter.Matches(rec) {
			rec.DilutionMl = cloneF64(rec.DilutionMl)
			rec.InfusionMinutes = cloneF64(rec.InfusionMinutes)
			matched = append(matched, rec)
		}
	}

	// más recientes primero
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if filter.Offset >= len(matched) {
		return []consultations.Record{}, nil
	}
	matched = matched[filter.Offset:]
	if len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func cloneF64(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
