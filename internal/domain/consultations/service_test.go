package consultations

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"pediatric-dosage/internal/domain/catalog"
	"pediatric-dosage/internal/domain/dosage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type stubCatalog struct {
	meds []catalog.Medication
}

func (s *stubCatalog) ListMedications(ctx context.Context) ([]catalog.Medication, error) {
	return s.meds, nil
}

func (s *stubCatalog) GetMedication(ctx context.Context, id int64) (catalog.Medication, error) {
	for _, m := range s.meds {
		if m.ID == id {
			return m, nil
		}
	}
	return catalog.Medication{}, catalog.ErrNotFound
}

type memSnapshots struct {
	mu    sync.Mutex
	items map[string]Snapshot
}

func (m *memSnapshots) Save(ctx context.Context, s Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[s.ID] = s
	return nil
}

func (m *memSnapshots) Get(ctx context.Context, id string) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.items[id]
	if !ok {
		return Snapshot{}, ErrSnapshotNotFound
	}
	return s, nil
}

type recordingRepo struct {
	mu      sync.Mutex
	created []Record
	err     error
	lists   int
}

func (r *recordingRepo) Create(ctx context.Context, rec Record) (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return Record{}, r.err
	}
	rec.ID = int64(len(r.created) + 1)
	r.created = append(r.created, rec)
	return rec, nil
}

func (r *recordingRepo) List(ctx context.Context, filter ListFilter) ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	out := []Record{}
	for _, rec := range r.created {
		if filter.Matches(rec) {
			out = append(out, rec)
		}
	}
	if filter.Offset >= len(out) {
		return []Record{}, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

type recordingRenderer struct {
	rendered []Snapshot
}

func (r *recordingRenderer) Render(w io.Writer, s Snapshot) error {
	r.rendered = append(r.rendered, s)
	_, err := io.WriteString(w, "%PDF-test")
	return err
}

type countingExporter struct {
	got []Record
}

func (c *countingExporter) Export(w io.Writer, records []Record) error {
	c.got = records
	_, err := io.WriteString(w, "xlsx")
	return err
}

func fp(v float64) *float64 { return &v }

type fixture struct {
	svc      *Service
	repo     *recordingRepo
	renderer *recordingRenderer
	exporter *countingExporter
	logs     *observer.ObservedLogs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	meds := catalog.Assemble(
		[]catalog.Medication{{ID: 1, GenericName: "Amoxicilina", TypeName: "Antibiótico"}, {ID: 2, GenericName: "Dexametasona"}},
		[]dosage.Presentation{
			{ID: 10, MedicationID: 1, Route: dosage.RouteOral, Form: "Suspensión", ConcMg: 250, ConcVol: 5},
			{ID: 11, MedicationID: 1, Route: dosage.RouteIntravenous, Form: "Vial", ConcMg: 250, ConcVol: 5},
			{ID: 20, MedicationID: 2, Route: dosage.RouteIntravenous, Form: "Ampolla", ConcMg: 4, ConcVol: 1},
		},
		[]dosage.DosingRule{
			{MedicationID: 1, Route: dosage.RouteOral, DoseMin: 10, DoseMax: 20, Scheme: dosage.SchemePerKgPerDose},
			{MedicationID: 1, Route: dosage.RouteIntravenous, DoseMin: 10, DoseMax: 20, Scheme: dosage.SchemePerKgPerDose},
		},
	)

	core, logs := observer.New(zap.DebugLevel)
	f := &fixture{
		repo:     &recordingRepo{},
		renderer: &recordingRenderer{},
		exporter: &countingExporter{},
		logs:     logs,
	}
	f.svc = NewService(Deps{
		Catalog:   catalog.NewService(&stubCatalog{meds: meds}),
		Snapshots: &memSnapshots{items: map[string]Snapshot{}},
		Repo:      f.repo,
		Report:    f.renderer,
		History:   f.exporter,
		Logger:    zap.New(core),
	})
	f.svc.now = func() time.Time { return time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC) }
	return f
}

func oralRequest() CalculateRequest {
	return CalculateRequest{
		Route:          dosage.RouteOral,
		MedicationID:   1,
		PresentationID: 10,
		WeightKg:       fp(10),
		Dose:           fp(15),
		IntervalHours:  fp(8),
	}
}

func TestCalculate_BuildsSnapshotAndRecord(t *testing.T) {
	f := newFixture(t)

	snap, err := f.svc.Calculate(context.Background(), oralRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, "Amoxicilina", snap.Medication.GenericName)
	assert.Equal(t, 3.0, snap.Result.MlPerDose)

	rec := snap.Record
	assert.Equal(t, 1, rec.RouteID)
	assert.Equal(t, int64(1), rec.MedicationID)
	assert.Equal(t, int64(10), rec.PresentationID)
	assert.Equal(t, 10.0, rec.WeightKg)
	assert.Equal(t, 15.0, rec.Dose)
	assert.Equal(t, "mg/kg/dosis", rec.DoseUnit)
	assert.Equal(t, 3, rec.DosesPerDay)
	assert.Nil(t, rec.DilutionMl)
	assert.Nil(t, rec.InfusionMinutes)

	// calcular no escribe historial
	assert.Empty(t, f.repo.created)

	got, err := f.svc.GetSnapshot(context.Background(), snap.ID)
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestCalculate_IVRecordCarriesInfusion(t *testing.T) {
	f := newFixture(t)

	req := oralRequest()
	req.Route = dosage.RouteIntravenous
	req.PresentationID = 11
	req.DilutionMl = fp(100)
	req.InfusionMinutes = fp(60)

	snap, err := f.svc.Calculate(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, snap.Result.Infusion)
	assert.Equal(t, 34, snap.Result.Infusion.DropsPerMin)

	require.NotNil(t, snap.Record.DilutionMl)
	require.NotNil(t, snap.Record.InfusionMinutes)
	assert.Equal(t, 100.0, *snap.Record.DilutionMl)
	assert.Equal(t, 60.0, *snap.Record.InfusionMinutes)
	assert.Equal(t, 2, snap.Record.RouteID)
}

func TestCalculate_IVWithoutInfusionTimeOmitsDilution(t *testing.T) {
	f := newFixture(t)

	req := oralRequest()
	req.Route = dosage.RouteIntravenous
	req.PresentationID = 11
	req.DilutionMl = fp(50)

	snap, err := f.svc.Calculate(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, snap.Result.Infusion)
	assert.Nil(t, snap.Record.DilutionMl)
}

func TestCalculate_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		mod  func(*CalculateRequest)
		want error
	}{
		{"intramuscular", func(r *CalculateRequest) { r.Route = dosage.RouteIntramuscular }, dosage.ErrUnsupportedRoute},
		{"unknown route", func(r *CalculateRequest) { r.Route = "" }, dosage.ErrUnsupportedRoute},
		{"no medication", func(r *CalculateRequest) { r.MedicationID = 0 }, dosage.ErrMissingSelection},
		{"medication not in catalog", func(r *CalculateRequest) { r.MedicationID = 99 }, dosage.ErrMissingSelection},
		{"presentation of other route", func(r *CalculateRequest) { r.PresentationID = 11 }, dosage.ErrMissingSelection},
		{"no rule for route", func(r *CalculateRequest) {
			r.Route = dosage.RouteIntravenous
			r.MedicationID = 2
			r.PresentationID = 20
		}, dosage.ErrNoRuleForRoute},
		{"missing weight", func(r *CalculateRequest) { r.WeightKg = nil }, dosage.ErrInvalidWeight},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := oralRequest()
			tc.mod(&req)
			_, err := f.svc.Calculate(ctx, req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
			_, ok := dosage.KindOf(err)
			assert.True(t, ok)
		})
	}
}

func TestExport_PersistsAndRendersSameSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.svc.Calculate(ctx, oralRequest())
	require.NoError(t, err)

	var buf bytes.Buffer
	res, err := f.svc.Export(ctx, snap.ID, &buf)
	require.NoError(t, err)

	assert.True(t, res.Persisted)
	assert.Empty(t, res.AuditWarning)
	assert.Equal(t, "%PDF-test", buf.String())

	require.Len(t, f.repo.created, 1)
	persisted := f.repo.created[0]
	persisted.ID = 0
	assert.Equal(t, snap.Record, persisted)

	require.Len(t, f.renderer.rendered, 1)
	assert.Equal(t, snap, f.renderer.rendered[0])
}

func TestExport_SoftFailsWhenAuditWriteFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.repo.err = errors.New("store unavailable")

	snap, err := f.svc.Calculate(ctx, oralRequest())
	require.NoError(t, err)

	var buf bytes.Buffer
	res, err := f.svc.Export(ctx, snap.ID, &buf)
	require.NoError(t, err)

	assert.False(t, res.Persisted)
	assert.Contains(t, res.AuditWarning, "store unavailable")
	assert.Equal(t, "%PDF-test", buf.String())
	require.Len(t, f.renderer.rendered, 1)
	assert.Equal(t, snap.Result, f.renderer.rendered[0].Result)

	warnings := f.logs.FilterMessage("audit record not persisted; report generated anyway").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, snap.ID, warnings[0].ContextMap()["snapshot_id"])
}

func TestExport_UnknownSnapshot(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Export(context.Background(), "5b0f1c3e-9d7a-4a51-9a7e-0b3c2f6d4e11", io.Discard)
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	_, err = f.svc.Export(context.Background(), "not-a-uuid", io.Discard)
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Empty(t, f.renderer.rendered)
}

func TestValidateRecord(t *testing.T) {
	valid := Record{RouteID: 2, MedicationID: 1, PresentationID: 1, WeightKg: 10, Dose: 15, IntervalHours: 8}
	require.NoError(t, ValidateRecord(valid))

	bad := valid
	bad.InfusionMinutes = fp(0)
	assert.ErrorIs(t, ValidateRecord(bad), ErrInvalidRecord)

	bad = valid
	bad.DilutionMl = fp(-1)
	assert.ErrorIs(t, ValidateRecord(bad), ErrInvalidRecord)

	bad = valid
	bad.RouteID = 3
	assert.ErrorIs(t, ValidateRecord(bad), ErrInvalidRecord)

	bad = valid
	bad.WeightKg = 0
	assert.ErrorIs(t, ValidateRecord(bad), ErrInvalidRecord)
}

func TestHistoryAndExportHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		snap, err := f.svc.Calculate(ctx, oralRequest())
		require.NoError(t, err)
		_, err = f.svc.Export(ctx, snap.ID, io.Discard)
		require.NoError(t, err)
	}

	items, err := f.svc.History(ctx, ListFilter{Route: dosage.RouteOral})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = f.svc.History(ctx, ListFilter{Route: dosage.RouteIntravenous})
	require.NoError(t, err)
	assert.Empty(t, items)

	from := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err = f.svc.History(ctx, ListFilter{From: &from, To: &to})
	assert.ErrorIs(t, err, ErrInvalidInput)

	var buf bytes.Buffer
	n, err := f.svc.ExportHistory(ctx, &buf, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, f.exporter.got, 2)
	assert.Equal(t, "xlsx", buf.String())
}

func TestExportHistory_PagesPastListLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	total := 2*MaxListLimit + 3
	for i := 0; i < total; i++ {
		f.repo.created = append(f.repo.created, Record{
			ID: int64(i + 1), RouteID: 1, MedicationID: 1, PresentationID: 10,
			WeightKg: 10, Dose: 15, DoseUnit: "mg/kg/dosis", IntervalHours: 8, DosesPerDay: 3,
		})
	}

	var buf bytes.Buffer
	n, err := f.svc.ExportHistory(ctx, &buf, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, total, n)
	require.Len(t, f.exporter.got, total)
	assert.Equal(t, int64(1), f.exporter.got[0].ID)
	assert.Equal(t, int64(total), f.exporter.got[total-1].ID)
	assert.Equal(t, 3, f.repo.lists)

	// limit explícito corta aunque supere una página
	n, err = f.svc.ExportHistory(ctx, io.Discard, ListFilter{Limit: MaxListLimit + 10})
	require.NoError(t, err)
	assert.Equal(t, MaxListLimit+10, n)

	n, err = f.svc.ExportHistory(ctx, io.Discard, ListFilter{Offset: total - 2})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestListFilter_Normalize(t *testing.T) {
	f := ListFilter{Limit: 0, Offset: -3}.Normalize()
	assert.Equal(t, DefaultListLimit, f.Limit)
	assert.Equal(t, 0, f.Offset)

	f = ListFilter{Limit: 10_000}.Normalize()
	assert.Equal(t, MaxListLimit, f.Limit)
}
