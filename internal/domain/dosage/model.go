package dosage

import "strings"

// DropFactor es el factor del normogotero (gotas por mL).
const DropFactor = 20

// Scheme define si la dosis prescrita es por kg por día o por kg por toma.
type Scheme string

const (
	SchemePerKgPerDay  Scheme = "PER_KG_PER_DAY"
	SchemePerKgPerDose Scheme = "PER_KG_PER_DOSE"
)

const (
	schemeLabelPerDay  = "mg/kg/dia"
	schemeLabelPerDose = "mg/kg/dosis"
)

// SchemeFromLabel normaliza la etiqueta del store (esquema_dosis.aplicacion).
// Todo lo que no sea "mg/kg/dia" se trata como por toma.
func SchemeFromLabel(label string) Scheme {
	if strings.TrimSpace(label) == schemeLabelPerDay {
		return SchemePerKgPerDay
	}
	return SchemePerKgPerDose
}

// Label es la unidad que se guarda en el historial (unidad_dosis_ingresada).
func (s Scheme) Label() string {
	if s == SchemePerKgPerDay {
		return schemeLabelPerDay
	}
	return schemeLabelPerDose
}

// Presentation es una forma comercial con su concentración (concMg en concVol mL).
type Presentation struct {
	ID           int64   `json:"id"`
	MedicationID int64   `json:"medication_id"`
	Route        Route   `json:"route"`
	Form         string  `json:"form"`
	ConcMg       float64 `json:"conc_mg"`
	ConcUnit     string  `json:"conc_unit"`
	ConcVol      float64 `json:"conc_vol"`
	VolUnit      string  `json:"vol_unit"`
}

// DosingRule es el rango recomendado para un par medicamento/vía.
type DosingRule struct {
	MedicationID int64    `json:"medication_id"`
	Route        Route    `json:"route"`
	DoseMin      float64  `json:"dose_min"`
	DoseMax      float64  `json:"dose_max"`
	Scheme       Scheme   `json:"scheme"`
	IntervalMin  *float64 `json:"interval_min_hours,omitempty"`
	IntervalMax  *float64 `json:"interval_max_hours,omitempty"`
	DosesPerDay  *int     `json:"doses_per_day,omitempty"`
}

// Input son los datos del formulario. nil = campo no informado.
type Input struct {
	Route           Route    `json:"route"`
	WeightKg        *float64 `json:"weight_kg"`
	Dose            *float64 `json:"dose"`
	IntervalHours   *float64 `json:"interval_hours"`
	DilutionMl      *float64 `json:"dilution_ml,omitempty"`
	InfusionMinutes *float64 `json:"infusion_minutes,omitempty"`
}

// Step es una línea de la memoria de cálculo.
type Step struct {
	Label   string `json:"label"`
	Formula string `json:"formula"`
}

// InfusionInfo solo existe para IV con tiempo de infusión > 0.
type InfusionInfo struct {
	TotalVolumeMl   float64 `json:"total_volume_ml"`
	DropsPerMin     int     `json:"drops_per_min"`
	MlPerHour       int     `json:"ml_per_hour"`
	InfusionMinutes float64 `json:"infusion_minutes"`
	DilutionMl      float64 `json:"dilution_ml"`
}

// Alert marca una dosis fuera del rango de la regla. "" = sin alerta.
type Alert string

const (
	AlertNone       Alert = ""
	AlertBelowRange Alert = "below recommended range"
	AlertAboveRange Alert = "above recommended range"
)

// Message es el texto para el usuario final.
func (a Alert) Message() string {
	switch a {
	case AlertBelowRange:
		return "Dosis debajo del rango sugerido."
	case AlertAboveRange:
		return "Dosis supera el rango sugerido."
	default:
		return ""
	}
}

// Exact guarda los valores sin redondear (los operandos reales del cálculo).
type Exact struct {
	MgPerDose   float64 `json:"mg_per_dose"`
	MlPerDose   float64 `json:"ml_per_dose"`
	MgPerDay    float64 `json:"mg_per_day"`
	MlPerDay    float64 `json:"ml_per_day"`
	DosesPerDay float64 `json:"doses_per_day"`
}

// Result es inmutable una vez calculado: mg y mL redondeados a 2 decimales,
// tomas/día al entero más cercano.
type Result struct {
	MgPerDose   float64       `json:"mg_per_dose"`
	MlPerDose   float64       `json:"ml_per_dose"`
	MgPerDay    float64       `json:"mg_per_day"`
	MlPerDay    float64       `json:"ml_per_day"`
	DosesPerDay int           `json:"doses_per_day"`
	Scheme      Scheme        `json:"scheme"`
	Steps       []Step        `json:"steps"`
	Infusion    *InfusionInfo `json:"infusion,omitempty"`
	Alert       Alert         `json:"alert,omitempty"`
	Exact       Exact         `json:"exact"`
}

func valueOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}
