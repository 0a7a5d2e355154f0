package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"pediatric-dosage/internal/domain/catalog"
	"pediatric-dosage/internal/domain/dosage"
)

type CatalogRepo struct {
	db *sql.DB
}

func NewCatalogRepo(db *sql.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

const (
	selectMedications = `
		SELECT
			m.id_medicamento, m.nombre_generico, COALESCE(m.nombre_comercial, ''),
			COALESCE(t.nombre_tipo, ''), COALESCE(t.descripcion, '')
		FROM medicamento m
		LEFT JOIN tipo_medicamento t ON t.id_tipo = m.id_tipo`

	selectPresentations = `
		SELECT
			id_presentacion, id_medicamento, id_via,
			COALESCE(forma_farmaceutica, ''),
			concentracion_cantidad, concentracion_unidad,
			volumen_cantidad, volumen_unidad
		FROM presentacion_medicamento`

	selectRules = `
		SELECT
			r.id_medicamento, r.id_via, r.dosis_min, r.dosis_max,
			r.intervalo_min_horas, r.intervalo_max_horas, r.tomas_por_dia_min,
			COALESCE(e.aplicacion, '')
		FROM regla_dosis r
		LEFT JOIN esquema_dosis e ON e.id_esquema = r.id_esquema`
)

func (r *CatalogRepo) ListMedications(ctx context.Context) ([]catalog.Medication, error) {
	meds, err := r.queryMedications(ctx, selectMedications+` ORDER BY m.nombre_generico`)
	if err != nil {
		return nil, err
	}
	pres, err := r.queryPresentations(ctx, selectPresentations+` ORDER BY id_presentacion`)
	if err != nil {
		return nil, err
	}
	rules, err := r.queryRules(ctx, selectRules+` ORDER BY r.id_medicamento, r.id_regla`)
	if err != nil {
		return nil, err
	}
	return catalog.Assemble(meds, pres, rules), nil
}

func (r *CatalogRepo) GetMedication(ctx context.Context, id int64) (catalog.Medication, error) {
	meds, err := r.queryMedications(ctx, selectMedications+` WHERE m.id_medicamento = $1`, id)
	if err != nil {
		return catalog.Medication{}, err
	}
	if len(meds) == 0 {
		return catalog.Medication{}, catalog.ErrNotFound
	}
	pres, err := r.queryPresentations(ctx, selectPresentations+` WHERE id_medicamento = $1 ORDER BY id_presentacion`, id)
	if err != nil {
		return catalog.Medication{}, err
	}
	rules, err := r.queryRules(ctx, selectRules+` WHERE r.id_medicamento = $1 ORDER BY r.id_regla`, id)
	if err != nil {
		return catalog.Medication{}, err
	}
	return catalog.Assemble(meds, pres, rules)[0], nil
}

func (r *CatalogRepo) queryMedications(ctx context.Context, q string, args ...any) ([]catalog.Medication, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query medicamento: %w", err)
	}
	defer rows.Close()

	out := make([]catalog.Medication, 0)
	for rows.Next() {
		var m catalog.Medication
		if err := rows.Scan(&m.ID, &m.GenericName, &m.BrandName, &m.TypeName, &m.TypeDescription); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *CatalogRepo) queryPresentations(ctx context.Context, q string, args ...any) ([]dosage.Presentation, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query presentacion_medicamento: %w", err)
	}
	defer rows.Close()

	out := make([]dosage.Presentation, 0)
	for rows.Next() {
		var (
			p     dosage.Presentation
			viaID int
		)
		if err := rows.Scan(
			&p.ID, &p.MedicationID, &viaID,
			&p.Form,
			&p.ConcMg, &p.ConcUnit,
			&p.ConcVol, &p.VolUnit,
		); err != nil {
			return nil, err
		}
		p.Route = dosage.RouteFromID(viaID)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *CatalogRepo) queryRules(ctx context.Context, q string, args ...any) ([]dosage.DosingRule, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query regla_dosis: %w", err)
	}
	defer rows.Close()

	out := make([]dosage.DosingRule, 0)
	for rows.Next() {
		var (
			rule       dosage.DosingRule
			viaID      int
			intMin     sql.NullFloat64
			intMax     sql.NullFloat64
			dosesMin   sql.NullInt64
			aplicacion string
		)
		if err := rows.Scan(
			&rule.MedicationID, &viaID, &rule.DoseMin, &rule.DoseMax,
			&intMin, &intMax, &dosesMin,
			&aplicacion,
		); err != nil {
			return nil, err
		}
		rule.Route = dosage.RouteFromID(viaID)
		rule.Scheme = dosage.SchemeFromLabel(aplicacion)
		rule.IntervalMin = floatPtr(intMin)
		rule.IntervalMax = floatPtr(intMax)
		if dosesMin.Valid {
			n := int(dosesMin.Int64)
			rule.DosesPerDay = &n
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}
