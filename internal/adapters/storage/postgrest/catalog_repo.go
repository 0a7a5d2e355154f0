package postgrest

import (
	"context"

	"pediatric-dosage/internal/domain/catalog"
	"pediatric-dosage/internal/domain/dosage"
)

type CatalogRepo struct {
	c *Client
}

func NewCatalogRepo(c *Client) *CatalogRepo {
	return &CatalogRepo{c: c}
}

type medicamentoRow struct {
	ID              int64  `json:"id_medicamento"`
	NombreGenerico  string `json:"nombre_generico"`
	NombreComercial string `json:"nombre_comercial"`
	Tipo            *struct {
		NombreTipo  string `json:"nombre_tipo"`
		Descripcion string `json:"descripcion"`
	} `json:"tipo_medicamento"`
}

type presentacionRow struct {
	ID                    int64   `json:"id_presentacion"`
	IDMedicamento         int64   `json:"id_medicamento"`
	IDVia                 int     `json:"id_via"`
	FormaFarmaceutica     string  `json:"forma_farmaceutica"`
	ConcentracionCantidad float64 `json:"concentracion_cantidad"`
	ConcentracionUnidad   string  `json:"concentracion_unidad"`
	VolumenCantidad       float64 `json:"volumen_cantidad"`
	VolumenUnidad         string  `json:"volumen_unidad"`
}

type reglaRow struct {
	IDMedicamento     int64    `json:"id_medicamento"`
	IDVia             int      `json:"id_via"`
	DosisMin          float64  `json:"dosis_min"`
	DosisMax          float64  `json:"dosis_max"`
	IntervaloMinHoras *float64 `json:"intervalo_min_horas"`
	IntervaloMaxHoras *float64 `json:"intervalo_max_horas"`
	TomasPorDiaMin    *int     `json:"tomas_por_dia_min"`
	Esquema           *struct {
		Aplicacion string `json:"aplicacion"`
	} `json:"esquema_dosis"`
}

func medicationQuery() *Query {
	return From("medicamento").Select(
		"id_medicamento",
		"nombre_generico",
		"nombre_comercial",
		"tipo_medicamento(nombre_tipo, descripcion)",
	)
}

func presentationQuery() *Query {
	return From("presentacion_medicamento").Select(
		"id_presentacion",
		"id_medicamento",
		"id_via",
		"forma_farmaceutica",
		"concentracion_cantidad",
		"concentracion_unidad",
		"volumen_cantidad",
		"volumen_unidad",
	)
}

func ruleQuery() *Query {
	return From("regla_dosis").Select(
		"id_medicamento",
		"id_via",
		"dosis_min",
		"dosis_max",
		"intervalo_min_horas",
		"intervalo_max_horas",
		"tomas_por_dia_min",
		"esquema_dosis(aplicacion)",
	)
}

func (r *CatalogRepo) ListMedications(ctx context.Context) ([]catalog.Medication, error) {
	return r.load(ctx,
		medicationQuery().Order("nombre_generico", true),
		presentationQuery().Order("id_presentacion", true),
		ruleQuery().Order("id_medicamento", true),
	)
}

func (r *CatalogRepo) GetMedication(ctx context.Context, id int64) (catalog.Medication, error) {
	meds, err := r.load(ctx,
		medicationQuery().Eq("id_medicamento", id),
		presentationQuery().Eq("id_medicamento", id).Order("id_presentacion", true),
		ruleQuery().Eq("id_medicamento", id),
	)
	if err != nil {
		return catalog.Medication{}, err
	}
	if len(meds) == 0 {
		return catalog.Medication{}, catalog.ErrNotFound
	}
	return meds[0], nil
}

func (r *CatalogRepo) load(ctx context.Context, mq, pq, rq *Query) ([]catalog.Medication, error) {
	var medRows []medicamentoRow
	if _, err := r.c.Get(ctx, mq, &medRows); err != nil {
		return nil, err
	}
	if len(medRows) == 0 {
		return []catalog.Medication{}, nil
	}

	var presRows []presentacionRow
	if _, err := r.c.Get(ctx, pq, &presRows); err != nil {
		return nil, err
	}
	var ruleRows []reglaRow
	if _, err := r.c.Get(ctx, rq, &ruleRows); err != nil {
		return nil, err
	}

	meds := make([]catalog.Medication, 0, len(medRows))
	for _, m := range medRows {
		med := catalog.Medication{
			ID:          m.ID,
			GenericName: m.NombreGenerico,
			BrandName:   m.NombreComercial,
		}
		if m.Tipo != nil {
			med.TypeName = m.Tipo.NombreTipo
			med.TypeDescription = m.Tipo.Descripcion
		}
		meds = append(meds, med)
	}

	pres := make([]dosage.Presentation, 0, len(presRows))
	for _, p := range presRows {
		pres = append(pres, dosage.Presentation{
			ID:           p.ID,
			MedicationID: p.IDMedicamento,
			Route:        dosage.RouteFromID(p.IDVia),
			Form:         p.FormaFarmaceutica,
			ConcMg:       p.ConcentracionCantidad,
			ConcUnit:     p.ConcentracionUnidad,
			ConcVol:      p.VolumenCantidad,
			VolUnit:      p.VolumenUnidad,
		})
	}

	rules := make([]dosage.DosingRule, 0, len(ruleRows))
	for _, rr := range ruleRows {
		label := ""
		if rr.Esquema != nil {
			label = rr.Esquema.Aplicacion
		}
		rules = append(rules, dosage.DosingRule{
			MedicationID: rr.IDMedicamento,
			Route:        dosage.RouteFromID(rr.IDVia),
			DoseMin:      rr.DosisMin,
			DoseMax:      rr.DosisMax,
			Scheme:       dosage.SchemeFromLabel(label),
			IntervalMin:  rr.IntervaloMinHoras,
			IntervalMax:  rr.IntervaloMaxHoras,
			DosesPerDay:  rr.TomasPorDiaMin,
		})
	}

	return catalog.Assemble(meds, pres, rules), nil
}
