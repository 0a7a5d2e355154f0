package postgrest

import (
	"context"
	"errors"
	"time"

	"pediatric-dosage/internal/domain/consultations"
)

type ConsultationsRepo struct {
	c *Client
}

func NewConsultationsRepo(c *Client) *ConsultationsRepo {
	return &ConsultationsRepo{c: c}
}

type consultaRow struct {
	ID                      int64     `json:"id_consulta,omitempty"`
	IDVia                   int       `json:"id_via"`
	IDMedicamento           int64     `json:"id_medicamento"`
	IDPresentacion          int64     `json:"id_presentacion"`
	PesoPacienteKg          float64   `json:"peso_paciente_kg"`
	DosisIngresada          float64   `json:"dosis_ingresada"`
	UnidadDosisIngresada    string    `json:"unidad_dosis_ingresada"`
	IntervaloHoras          float64   `json:"intervalo_horas"`
	NumeroTomasDia          int       `json:"numero_tomas_dia"`
	VolumenDilucionMl       *float64  `json:"volumen_dilucion_ml"`
	TiempoAdministracionMin *float64  `json:"tiempo_administracion_min"`
	FechaConsulta           time.Time `json:"fecha_consulta"`
}

func toRow(rec consultations.Record) consultaRow {
	return consultaRow{
		IDVia:                   rec.RouteID,
		IDMedicamento:           rec.MedicationID,
		IDPresentacion:          rec.PresentationID,
		PesoPacienteKg:          rec.WeightKg,
		DosisIngresada:          rec.Dose,
		UnidadDosisIngresada:    rec.DoseUnit,
		IntervaloHoras:          rec.IntervalHours,
		NumeroTomasDia:          rec.DosesPerDay,
		VolumenDilucionMl:       rec.DilutionMl,
		TiempoAdministracionMin: rec.InfusionMinutes,
		FechaConsulta:           rec.CreatedAt,
	}
}

func (row consultaRow) record() consultations.Record {
	return consultations.Record{
		ID:              row.ID,
		RouteID:         row.IDVia,
		MedicationID:    row.IDMedicamento,
		PresentationID:  row.IDPresentacion,
		WeightKg:        row.PesoPacienteKg,
		Dose:            row.DosisIngresada,
		DoseUnit:        row.UnidadDosisIngresada,
		IntervalHours:   row.IntervaloHoras,
		DosesPerDay:     row.NumeroTomasDia,
		DilutionMl:      row.VolumenDilucionMl,
		InfusionMinutes: row.TiempoAdministracionMin,
		CreatedAt:       row.FechaConsulta,
	}
}

func (r *ConsultationsRepo) Create(ctx context.Context, rec consultations.Record) (consultations.Record, error) {
	var created []consultaRow
	if err := r.c.Insert(ctx, "consulta_dosis", []consultaRow{toRow(rec)}, &created); err != nil {
		return consultations.Record{}, err
	}
	if len(created) == 0 {
		return consultations.Record{}, errors.New("consulta_dosis: insert returned no rows")
	}
	return created[0].record(), nil
}

func (r *ConsultationsRepo) List(ctx context.Context, filter consultations.ListFilter) ([]consultations.Record, error) {
	filter = filter.Normalize()

	q := From("consulta_dosis").Select("*")
	if filter.Route != "" {
		q.Eq("id_via", filter.Route.ID())
	}
	if filter.MedicationID > 0 {
		q.Eq("id_medicamento", filter.MedicationID)
	}
	if filter.From != nil {
		q.Gte("fecha_consulta", *filter.From)
	}
	if filter.To != nil {
		q.Lte("fecha_consulta", *filter.To)
	}
	q.Order("fecha_consulta", false).
		Order("id_consulta", false).
		Limit(filter.Limit).
		Offset(filter.Offset)

	var rows []consultaRow
	if _, err := r.c.Get(ctx, q, &rows); err != nil {
		return nil, err
	}

	out := make([]consultations.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.record())
	}
	return out, nil
}
