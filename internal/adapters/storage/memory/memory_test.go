package memory

import (
	"context"
	"testing"
	"time"

	"pediatric-dosage/internal/domain/admin"
	"pediatric-dosage/internal/domain/catalog"
	"pediatric-dosage/internal/domain/consultations"
	"pediatric-dosage/internal/domain/dosage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogRepo_ReturnsCopies(t *testing.T) {
	repo := NewCatalogRepo(nil)
	ctx := context.Background()

	m, err := repo.GetMedication(ctx, 2)
	require.NoError(t, err)
	require.NotEmpty(t, m.Rules)
	*m.Rules[0].IntervalMin = 99
	m.Presentations[0].ConcMg = -1

	again, err := repo.GetMedication(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 4.0, *again.Rules[0].IntervalMin)
	assert.Equal(t, 120.0, again.Presentations[0].ConcMg)

	_, err = repo.GetMedication(ctx, 404)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestSeedCatalog_Shape(t *testing.T) {
	meds := SeedCatalog()
	require.Len(t, meds, 5)

	dexa := meds[4]
	assert.Equal(t, "Dexametasona", dexa.GenericName)
	assert.True(t, dexa.HasRoute(dosage.RouteIntravenous))
	_, ok := catalog.RuleFor(dexa, dosage.RouteIntravenous)
	assert.False(t, ok)

	ceftri := meds[2]
	assert.True(t, ceftri.HasRoute(dosage.RouteIntramuscular))
}

func TestConsultationRepo_ListNewestFirstWithPaging(t *testing.T) {
	repo := NewConsultationRepo()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, consultations.Record{
			RouteID:      1,
			MedicationID: int64(i + 1),
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, consultations.Record{RouteID: 2, MedicationID: 9, CreatedAt: base})
	require.NoError(t, err)

	oral, err := repo.List(ctx, consultations.ListFilter{Route: dosage.RouteOral})
	require.NoError(t, err)
	require.Len(t, oral, 3)
	assert.Equal(t, int64(3), oral[0].MedicationID)
	assert.Equal(t, int64(1), oral[2].MedicationID)

	page, err := repo.List(ctx, consultations.ListFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, page, 2)

	empty, err := repo.List(ctx, consultations.ListFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestUserRepo_UniqueUsername(t *testing.T) {
	repo := NewUserRepo()
	ctx := context.Background()

	a, err := repo.Create(ctx, admin.User{Username: "ana", PasswordHash: "x"})
	require.NoError(t, err)
	b, err := repo.Create(ctx, admin.User{Username: "bruno", PasswordHash: "x"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, admin.User{Username: "ana"})
	assert.ErrorIs(t, err, admin.ErrConflict)

	b.Username = "ana"
	assert.ErrorIs(t, repo.Update(ctx, b), admin.ErrConflict)

	require.NoError(t, repo.Delete(ctx, a.ID))
	assert.ErrorIs(t, repo.Delete(ctx, a.ID), admin.ErrNotFound)

	_, err = repo.GetByUsername(ctx, "ana")
	assert.ErrorIs(t, err, admin.ErrNotFound)
}

func TestSnapshotStore_TTL(t *testing.T) {
	store := NewSnapshotStore(time.Minute).(*snapshotStore)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, consultations.Snapshot{ID: "s1"}))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.ID)

	now = now.Add(time.Minute)
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, consultations.ErrSnapshotNotFound)

	assert.Error(t, store.Save(ctx, consultations.Snapshot{}))
}

func TestTableBrowser(t *testing.T) {
	ctx := context.Background()
	cat := NewCatalogRepo(nil)
	cons := NewConsultationRepo()
	users := NewUserRepo()
	_, err := users.Create(ctx, admin.User{Username: "ana", PasswordHash: "secret-hash"})
	require.NoError(t, err)

	b := NewTableBrowser(cat, cons, users)

	tables, err := b.ListTables(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(tables))
	counts := map[string]int64{}
	for _, tb := range tables {
		names = append(names, tb.Name)
		counts[tb.Name] = tb.Rows
	}
	assert.Equal(t, []string{"consulta_dosis", "medicamento", "presentacion_medicamento", "regla_dosis", "users"}, names)
	assert.Equal(t, int64(5), counts["medicamento"])
	assert.Equal(t, int64(7), counts["presentacion_medicamento"])
	assert.Equal(t, int64(0), counts["consulta_dosis"])

	page, err := b.Rows(ctx, "presentacion_medicamento", 2, 1)
	require.NoError(t, err)
	require.Len(t, page.Rows, 2)
	assert.Equal(t, int64(2), page.Rows[0]["id_presentacion"])
	assert.Equal(t, int64(7), page.Total)

	page, err = b.Rows(ctx, "users", 25, 0)
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.NotContains(t, page.Rows[0], "contraseña")

	_, err = b.Rows(ctx, "pg_authid", 10, 0)
	assert.ErrorIs(t, err, admin.ErrUnknownTable)
}
