package catalog

import "pediatric-dosage/internal/domain/dosage"

// Medication es un medicamento del catálogo con sus presentaciones y reglas.
type Medication struct {
	ID              int64
	GenericName     string
	BrandName       string
	TypeName        string // tipo_medicamento.nombre_tipo
	TypeDescription string

	Presentations []dosage.Presentation
	Rules         []dosage.DosingRule
}

// HasRoute indica si existe al menos una presentación para la vía.
func (m Medication) HasRoute(route dosage.Route) bool {
	for _, p := range m.Presentations {
		if p.Route == route {
			return true
		}
	}
	return false
}

// Selection es la foto inmutable que recibe el calculador.
// Presentation y Rule quedan en nil si no aplican a la vía elegida.
type Selection struct {
	Route        dosage.Route
	Medication   Medication
	Presentation *dosage.Presentation
	Rule         *dosage.DosingRule
}

// Suggestion es el autocompletado del formulario al elegir presentación.
type Suggestion struct {
	Dose          float64
	IntervalHours *float64
}
