package memory

import (
	"context"
	"sort"

	"pediatric-dosage/internal/domain/admin"
	"pediatric-dosage/internal/domain/catalog"
	"pediatric-dosage/internal/domain/consultations"
)

// tableBrowser expone los repos en memoria con los nombres de tabla del store real.
type tableBrowser struct {
	catalog       catalog.Repository
	consultations consultations.Repository
	users         admin.UserRepository
}

func NewTableBrowser(cat catalog.Repository, cons consultations.Repository, users admin.UserRepository) admin.TableBrowser {
	return &tableBrowser{catalog: cat, consultations: cons, users: users}
}

type tableSource struct {
	columns []string
	rows    func(ctx context.Context) ([]map[string]any, error)
}

func (b *tableBrowser) sources() map[string]tableSource {
	return map[string]tableSource{
		"medicamento": {
			columns: []string{"id_medicamento", "nombre_generico", "nombre_comercial", "tipo"},
			rows: func(ctx context.Context) ([]map[string]any, error) {
				meds, err := b.catalog.ListMedications(ctx)
				if err != nil {
					return nil, err
				}
				out := make([]map[string]any, 0, len(meds))
				for _, m := range meds {
					out = append(out, map[string]any{
						"id_medicamento":   m.ID,
						"nombre_generico":  m.GenericName,
						"nombre_comercial": m.BrandName,
						"tipo":             m.TypeName,
					})
				}
				return out, nil
			},
		},
		"presentacion_medicamento": {
			columns: []string{"id_presentacion", "id_medicamento", "id_via", "forma_farmaceutica", "concentracion_cantidad", "concentracion_unidad", "volumen_cantidad", "volumen_unidad"},
			rows: func(ctx context.Context) ([]map[string]any, error) {
				meds, err := b.catalog.ListMedications(ctx)
				if err != nil {
					return nil, err
				}
				out := make([]map[string]any, 0)
				for _, m := range meds {
					for _, p := range m.Presentations {
						out = append(out, map[string]any{
							"id_presentacion":        p.ID,
							"id_medicamento":         p.MedicationID,
							"id_via":                 p.Route.ID(),
							"forma_farmaceutica":     p.Form,
							"concentracion_cantidad": p.ConcMg,
							"concentracion_unidad":   p.ConcUnit,
							"volumen_cantidad":       p.ConcVol,
							"volumen_unidad":         p.VolUnit,
						})
					}
				}
				sort.SliceStable(out, func(i, j int) bool {
					return out[i]["id_presentacion"].(int64) < out[j]["id_presentacion"].(int64)
				})
				return out, nil
			},
		},
		"regla_dosis": {
			columns: []string{"id_medicamento", "id_via", "dosis_min", "dosis_max", "esquema", "intervalo_min_horas", "intervalo_max_horas"},
			rows: func(ctx context.Context) ([]map[string]any, error) {
				meds, err := b.catalog.ListMedications(ctx)
				if err != nil {
					return nil, err
				}
				out := make([]map[string]any, 0)
				for _, m := range meds {
					for _, r := range m.Rules {
						out = append(out, map[string]any{
							"id_medicamento":      r.MedicationID,
							"id_via":              r.Route.ID(),
							"dosis_min":           r.DoseMin,
							"dosis_max":           r.DoseMax,
							"esquema":             r.Scheme.Label(),
							"intervalo_min_horas": derefF64(r.IntervalMin),
							"intervalo_max_horas": derefF64(r.IntervalMax),
						})
					}
				}
				return out, nil
			},
		},
		"consulta_dosis": {
			columns: []string{"id_consulta", "id_via", "id_medicamento", "id_presentacion", "peso_paciente_kg", "dosis_ingresada", "unidad_dosis_ingresada", "intervalo_horas", "numero_tomas_dia", "volumen_dilucion_ml", "tiempo_administracion_min", "fecha_consulta"},
			rows: func(ctx context.Context) ([]map[string]any, error) {
				out := make([]map[string]any, 0)
				for offset := 0; ; offset += consultations.MaxListLimit {
					page, err := b.consultations.List(ctx, consultations.ListFilter{Limit: consultations.MaxListLimit, Offset: offset})
					if err != nil {
						return nil, err
					}
					for _, rec := range page {
						out = append(out, map[string]any{
							"id_consulta":               rec.ID,
							"id_via":                    rec.RouteID,
							"id_medicamento":            rec.MedicationID,
							"id_presentacion":           rec.PresentationID,
							"peso_paciente_kg":          rec.WeightKg,
							"dosis_ingresada":           rec.Dose,
							"unidad_dosis_ingresada":    rec.DoseUnit,
							"intervalo_horas":           rec.IntervalHours,
							"numero_tomas_dia":          rec.DosesPerDay,
							"volumen_dilucion_ml":       derefF64(rec.DilutionMl),
							"tiempo_administracion_min": derefF64(rec.InfusionMinutes),
							"fecha_consulta":            rec.CreatedAt,
						})
					}
					if len(page) < consultations.MaxListLimit {
						return out, nil
					}
				}
			},
		},
		"users": {
			// el hash de la contraseña no se muestra
			columns: []string{"userid", "usuario", "created_at"},
			rows: func(ctx context.Context) ([]map[string]any, error) {
				users, err := b.users.List(ctx)
				if err != nil {
					return nil, err
				}
				out := make([]map[string]any, 0, len(users))
				for _, u := range users {
					out = append(out, map[string]any{
						"userid":     u.ID,
						"usuario":    u.Username,
						"created_at": u.CreatedAt,
					})
				}
				return out, nil
			},
		},
	}
}

func (b *tableBrowser) ListTables(ctx context.Context) ([]admin.TableInfo, error) {
	src := b.sources()
	names := make([]string, 0, len(src))
	for name := range src {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]admin.TableInfo, 0, len(names))
	for _, name := range names {
		rows, err := src[name].rows(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, admin.TableInfo{Name: name, Rows: int64(len(rows))})
	}
	return out, nil
}

func (b *tableBrowser) Rows(ctx context.Context, table string, limit, offset int) (admin.TablePage, error) {
	s, ok := b.sources()[table]
	if !ok {
		return admin.TablePage{}, admin.ErrUnknownTable
	}

	rows, err := s.rows(ctx)
	if err != nil {
		return admin.TablePage{}, err
	}

	page := admin.TablePage{
		Table:   table,
		Columns: s.columns,
		Rows:    []map[string]any{},
		Total:   int64(len(rows)),
		Limit:   limit,
		Offset:  offset,
	}
	if offset < len(rows) {
		end := offset + limit
		if end > len(rows) {
			end = len(rows)
		}
		page.Rows = rows[offset:end]
	}
	return page, nil
}

func derefF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
