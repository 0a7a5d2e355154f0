package catalog

import (
	"context"
	"sort"

	"pediatric-dosage/internal/domain/dosage"
)

type Repository interface {
	// ListMedications devuelve los medicamentos ya ensamblados (presentaciones + reglas).
	ListMedications(ctx context.Context) ([]Medication, error)
	GetMedication(ctx context.Context, id int64) (Medication, error)
}

// Assemble junta filas planas (como las devuelve cualquier store) en medicamentos.
// Presentaciones y reglas huérfanas se descartan.
func Assemble(meds []Medication, pres []dosage.Presentation, rules []dosage.DosingRule) []Medication {
	presByMed := map[int64][]dosage.Presentation{}
	for _, p := range pres {
		presByMed[p.MedicationID] = append(presByMed[p.MedicationID], p)
	}
	rulesByMed := map[int64][]dosage.DosingRule{}
	for _, r := range rules {
		rulesByMed[r.MedicationID] = append(rulesByMed[r.MedicationID], r)
	}

	out := make([]Medication, 0, len(meds))
	for _, m := range meds {
		m.Presentations = presByMed[m.ID]
		m.Rules = rulesByMed[m.ID]
		sort.SliceStable(m.Presentations, func(i, j int) bool {
			return m.Presentations[i].ID < m.Presentations[j].ID
		})
		out = append(out, m)
	}
	return out
}
