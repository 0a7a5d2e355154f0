package memory

import (
	"context"
	"sort"
	"sync"

	"pediatric-dosage/internal/domain/catalog"
)

type catalogRepo struct {
	mu   sync.RWMutex
	byID map[int64]catalog.Medication
}

// NewCatalogRepo arma un catálogo en memoria. Si meds es nil usa SeedCatalog.
func NewCatalogRepo(meds []catalog.Medication) catalog.Repository {
	if meds == nil {
		meds = SeedCatalog()
	}
	r := &catalogRepo{byID: make(map[int64]catalog.Medication, len(meds))}
	for _, m := range meds {
		r.byID[m.ID] = catalog.CloneMedication(m)
	}
	return r
}

func (r *catalogRepo) ListMedications(ctx context.Context) ([]catalog.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]catalog.Medication, 0, len(r.byID))
	for _, m := range r.byID {
		out = append(out, catalog.CloneMedication(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *catalogRepo) GetMedication(ctx context.Context, id int64) (catalog.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	if !ok {
		return catalog.Medication{}, catalog.ErrNotFound
	}
	return catalog.CloneMedication(m), nil
}
