package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"pediatric-dosage/internal/domain/consultations"
)

type ConsultationsRepo struct {
	db *sql.DB
}

func NewConsultationsRepo(db *sql.DB) *ConsultationsRepo {
	return &ConsultationsRepo{db: db}
}

func (r *ConsultationsRepo) Create(ctx context.Context, rec consultations.Record) (consultations.Record, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO consulta_dosis (
			id_via, id_medicamento, id_presentacion,
			peso_paciente_kg, dosis_ingresada, unidad_dosis_ingresada,
			intervalo_horas, numero_tomas_dia,
			volumen_dilucion_ml, tiempo_administracion_min,
			fecha_consulta
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id_consulta
	`,
		rec.RouteID,
		rec.MedicationID,
		rec.PresentationID,
		rec.WeightKg,
		rec.Dose,
		rec.DoseUnit,
		rec.IntervalHours,
		rec.DosesPerDay,
		nullFloat(rec.DilutionMl),
		nullFloat(rec.InfusionMinutes),
		rec.CreatedAt,
	)
	if err := row.Scan(&rec.ID); err != nil {
		return consultations.Record{}, fmt.Errorf("insert consulta_dosis: %w", err)
	}
	return rec, nil
}

func (r *ConsultationsRepo) List(ctx context.Context, filter consultations.ListFilter) ([]consultations.Record, error) {
	filter = filter.Normalize()

	where := []string{"1=1"}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Route != "" {
		where = append(where, "id_via = "+arg(filter.Route.ID()))
	}
	if filter.MedicationID > 0 {
		where = append(where, "id_medicamento = "+arg(filter.MedicationID))
	}
	if filter.From != nil {
		where = append(where, "fecha_consulta >= "+arg(*filter.From))
	}
	if filter.To != nil {
		where = append(where, "fecha_consulta <= "+arg(*filter.To))
	}

	q := `
		SELECT
			id_consulta, id_via, id_medicamento, id_presentacion,
			peso_paciente_kg, dosis_ingresada, unidad_dosis_ingresada,
			intervalo_horas, numero_tomas_dia,
			volumen_dilucion_ml, tiempo_administracion_min,
			fecha_consulta
		FROM consulta_dosis
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY fecha_consulta DESC, id_consulta DESC
		LIMIT ` + arg(filter.Limit) + ` OFFSET ` + arg(filter.Offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query consulta_dosis: %w", err)
	}
	defer rows.Close()

	out := make([]consultations.Record, 0)
	for rows.Next() {
		var (
			rec      consultations.Record
			dilution sql.NullFloat64
			minutes  sql.NullFloat64
		)
		if err := rows.Scan(
			&rec.ID, &rec.RouteID, &rec.MedicationID, &rec.PresentationID,
			&rec.WeightKg, &rec.Dose, &rec.DoseUnit,
			&rec.IntervalHours, &rec.DosesPerDay,
			&dilution, &minutes,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		rec.DilutionMl = floatPtr(dilution)
		rec.InfusionMinutes = floatPtr(minutes)
		out = append(out, rec)
	}
	return out, rows.Err()
}
