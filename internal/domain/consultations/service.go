package consultations

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"pediatric-dosage/internal/domain/catalog"
	"pediatric-dosage/internal/domain/dosage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrInvalidRecord    = errors.New("invalid consultation record")
)

type Deps struct {
	Catalog   *catalog.Service
	Snapshots SnapshotStore
	Repo      Repository
	Report    ReportRenderer
	History   HistoryExporter
	Logger    *zap.Logger
}

type Service struct {
	catalog   *catalog.Service
	snapshots SnapshotStore
	repo      Repository
	report    ReportRenderer
	history   HistoryExporter
	log       *zap.Logger

	now   func() time.Time
	newID func() string
}

func NewService(d Deps) *Service {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		catalog:   d.Catalog,
		snapshots: d.Snapshots,
		repo:      d.Repo,
		report:    d.Report,
		history:   d.History,
		log:       log.Named("consultations"),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// CalculateRequest es lo que envía el formulario: selección + datos del paciente.
type CalculateRequest struct {
	Route          dosage.Route
	MedicationID   int64
	PresentationID int64

	WeightKg        *float64
	Dose            *float64
	IntervalHours   *float64
	DilutionMl      *float64
	InfusionMinutes *float64
}

// Calculate resuelve la selección contra el catálogo, calcula y guarda el snapshot.
// Los rechazos de validación se devuelven como *dosage.ValidationError.
func (s *Service) Calculate(ctx context.Context, req CalculateRequest) (Snapshot, error) {
	if !req.Route.Supported() {
		return Snapshot{}, dosage.ErrUnsupportedRoute
	}
	if req.MedicationID <= 0 || req.PresentationID <= 0 {
		return Snapshot{}, dosage.ErrMissingSelection
	}

	sel, err := s.catalog.Resolve(ctx, req.Route, req.MedicationID, req.PresentationID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return Snapshot{}, dosage.ErrMissingSelection
		}
		return Snapshot{}, fmt.Errorf("resolve selection: %w", err)
	}

	in := dosage.Input{
		Route:           req.Route,
		WeightKg:        req.WeightKg,
		Dose:            req.Dose,
		IntervalHours:   req.IntervalHours,
		DilutionMl:      req.DilutionMl,
		InfusionMinutes: req.InfusionMinutes,
	}

	res, err := dosage.Calculate(in, sel.Rule, sel.Presentation)
	if err != nil {
		return Snapshot{}, err
	}

	now := s.now().UTC()
	snap := Snapshot{
		ID:        s.newID(),
		CreatedAt: now,
		Route:     req.Route,
		Medication: MedicationRef{
			ID:          sel.Medication.ID,
			GenericName: sel.Medication.GenericName,
			BrandName:   sel.Medication.BrandName,
			TypeName:    sel.Medication.TypeName,
		},
		Presentation: *sel.Presentation,
		Rule:         *sel.Rule,
		Input:        in,
		Result:       res,
	}
	snap.Record = buildRecord(snap)

	if err := s.snapshots.Save(ctx, snap); err != nil {
		return Snapshot{}, fmt.Errorf("save snapshot: %w", err)
	}
	return snap, nil
}

// buildRecord arma la fila de auditoría. Dilución y tiempo solo se guardan
// si hubo cálculo de goteo.
func buildRecord(s Snapshot) Record {
	rec := Record{
		RouteID:        s.Route.ID(),
		MedicationID:   s.Medication.ID,
		PresentationID: s.Presentation.ID,
		WeightKg:       *s.Input.WeightKg,
		Dose:           *s.Input.Dose,
		DoseUnit:       s.Result.Scheme.Label(),
		IntervalHours:  *s.Input.IntervalHours,
		DosesPerDay:    s.Result.DosesPerDay,
		CreatedAt:      s.CreatedAt,
	}
	if inf := s.Result.Infusion; inf != nil {
		dil := inf.DilutionMl
		minutes := inf.InfusionMinutes
		rec.DilutionMl = &dil
		rec.InfusionMinutes = &minutes
	}
	return rec
}

func (s *Service) GetSnapshot(ctx context.Context, id string) (Snapshot, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Snapshot{}, ErrInvalidInput
	}
	return s.snapshots.Get(ctx, id)
}

// ExportResult describe lo que pasó al exportar.
// AuditWarning != "" significa que el historial no se guardó pero el reporte sí se generó.
type ExportResult struct {
	Snapshot     Snapshot
	Record       Record
	Persisted    bool
	AuditWarning string
}

// Export guarda el registro del snapshot y escribe el reporte en w.
// Si falla la persistencia se registra el error y el reporte se genera igual.
func (s *Service) Export(ctx context.Context, id string, w io.Writer) (ExportResult, error) {
	snap, err := s.GetSnapshot(ctx, id)
	if err != nil {
		return ExportResult{}, err
	}

	if err := ValidateRecord(snap.Record); err != nil {
		return ExportResult{}, err
	}

	out := ExportResult{Snapshot: snap, Record: snap.Record}

	saved, err := s.repo.Create(ctx, snap.Record)
	if err != nil {
		s.log.Warn("audit record not persisted; report generated anyway",
			zap.String("snapshot_id", snap.ID),
			zap.Int64("medication_id", snap.Record.MedicationID),
			zap.Error(err),
		)
		out.AuditWarning = "No se pudo guardar el historial: " + err.Error()
	} else {
		out.Record = saved
		out.Persisted = true
	}

	if err := s.report.Render(w, snap); err != nil {
		return out, fmt.Errorf("render report: %w", err)
	}
	return out, nil
}

// ValidateRecord repite los controles previos al insert sobre el registro congelado.
func ValidateRecord(r Record) error {
	route := r.Route()
	switch {
	case !route.Supported():
		return fmt.Errorf("%w: route", ErrInvalidRecord)
	case r.MedicationID <= 0 || r.PresentationID <= 0:
		return fmt.Errorf("%w: selection", ErrInvalidRecord)
	case !(r.WeightKg > 0):
		return fmt.Errorf("%w: weight", ErrInvalidRecord)
	case !(r.Dose > 0):
		return fmt.Errorf("%w: dose", ErrInvalidRecord)
	case !(r.IntervalHours > 0):
		return fmt.Errorf("%w: interval", ErrInvalidRecord)
	}

	if route == dosage.RouteIntravenous {
		if r.InfusionMinutes != nil && !(*r.InfusionMinutes > 0) {
			return fmt.Errorf("%w: infusion time", ErrInvalidRecord)
		}
		if r.DilutionMl != nil && !(*r.DilutionMl >= 0) {
			return fmt.Errorf("%w: dilution", ErrInvalidRecord)
		}
	}
	return nil
}

func (s *Service) History(ctx context.Context, filter ListFilter) ([]Record, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, ErrInvalidInput
	}
	return s.repo.List(ctx, filter.Normalize())
}

// ExportHistory escribe el historial filtrado como planilla. Recorre el repo
// de a MaxListLimit filas: Limit == 0 exporta todo lo que matchee el filtro.
func (s *Service) ExportHistory(ctx context.Context, w io.Writer, filter ListFilter) (int, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return 0, ErrInvalidInput
	}

	want := filter.Limit
	page := filter
	if page.Offset < 0 {
		page.Offset = 0
	}

	records := []Record{}
	for {
		page.Limit = MaxListLimit
		if want > 0 && want-len(records) < page.Limit {
			page.Limit = want - len(records)
		}

		batch, err := s.repo.List(ctx, page)
		if err != nil {
			return 0, err
		}
		records = append(records, batch...)
		page.Offset += len(batch)

		if len(batch) < page.Limit || (want > 0 && len(records) >= want) {
			break
		}
	}

	if err := s.history.Export(w, records); err != nil {
		return 0, fmt.Errorf("export history: %w", err)
	}
	return len(records), nil
}
