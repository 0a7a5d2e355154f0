package consultations

import (
	"time"

	"pediatric-dosage/internal/domain/dosage"
)

// Record es la fila de auditoría (consulta_dosis). Se arma una sola vez al
// calcular y viaja dentro del Snapshot hasta que se exporta.
type Record struct {
	ID              int64     `json:"id,omitempty"`
	RouteID         int       `json:"route_id"`
	MedicationID    int64     `json:"medication_id"`
	PresentationID  int64     `json:"presentation_id"`
	WeightKg        float64   `json:"weight_kg"`
	Dose            float64   `json:"dose"`
	DoseUnit        string    `json:"dose_unit"` // mg/kg/dia | mg/kg/dosis
	IntervalHours   float64   `json:"interval_hours"`
	DosesPerDay     int       `json:"doses_per_day"`
	DilutionMl      *float64  `json:"dilution_ml,omitempty"`
	InfusionMinutes *float64  `json:"infusion_minutes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Route devuelve la vía del registro a partir de id_via.
func (r Record) Route() dosage.Route {
	return dosage.RouteFromID(r.RouteID)
}

// MedicationRef es el eco del medicamento que se imprime en el reporte.
type MedicationRef struct {
	ID          int64  `json:"id"`
	GenericName string `json:"generic_name"`
	BrandName   string `json:"brand_name"`
	TypeName    string `json:"type_name"`
}

// Snapshot congela todo lo necesario para auditar y reportar un cálculo.
// Se produce una vez por cálculo exitoso y no se vuelve a derivar.
type Snapshot struct {
	ID           string              `json:"id"`
	CreatedAt    time.Time           `json:"created_at"`
	Route        dosage.Route        `json:"route"`
	Medication   MedicationRef       `json:"medication"`
	Presentation dosage.Presentation `json:"presentation"`
	Rule         dosage.DosingRule   `json:"rule"`
	Input        dosage.Input        `json:"input"`
	Result       dosage.Result       `json:"result"`
	Record       Record              `json:"record"`
}

type ListFilter struct {
	Route        dosage.Route
	MedicationID int64
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

// Matches aplica el filtro en memoria (lo usan los stores que no filtran del lado del servidor).
func (f ListFilter) Matches(r Record) bool {
	if f.Route != "" && r.RouteID != f.Route.ID() {
		return false
	}
	if f.MedicationID > 0 && r.MedicationID != f.MedicationID {
		return false
	}
	if f.From != nil && r.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && r.CreatedAt.After(*f.To) {
		return false
	}
	return true
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// Normalize acota limit/offset a valores razonables.
func (f ListFilter) Normalize() ListFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}
