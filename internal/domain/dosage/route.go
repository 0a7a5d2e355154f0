package dosage

import "strings"

// Route es la vía de administración.
type Route string

const (
	RouteOral          Route = "ORAL"
	RouteIntravenous   Route = "INTRAVENOUS"
	RouteIntramuscular Route = "INTRAMUSCULAR" // conocida por el store, sin reglas de dosis
)

// IDs de vía tal como vienen del store (tabla via).
const (
	routeIDOral          = 1
	routeIDIntravenous   = 2
	routeIDIntramuscular = 3
)

// RouteFromID traduce id_via a Route. Devuelve "" si el id no es conocido.
func RouteFromID(id int) Route {
	switch id {
	case routeIDOral:
		return RouteOral
	case routeIDIntravenous:
		return RouteIntravenous
	case routeIDIntramuscular:
		return RouteIntramuscular
	default:
		return ""
	}
}

// ParseRoute acepta el nombre (ORAL, intravenous, ...) o el id numérico como texto.
func ParseRoute(s string) Route {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch s {
	case "1", string(RouteOral):
		return RouteOral
	case "2", "IV", string(RouteIntravenous):
		return RouteIntravenous
	case "3", "IM", string(RouteIntramuscular):
		return RouteIntramuscular
	default:
		return ""
	}
}

func (r Route) ID() int {
	switch r {
	case RouteOral:
		return routeIDOral
	case RouteIntravenous:
		return routeIDIntravenous
	case RouteIntramuscular:
		return routeIDIntramuscular
	default:
		return 0
	}
}

// Label es el texto que se muestra en UI y reportes.
func (r Route) Label() string {
	switch r {
	case RouteOral:
		return "Oral"
	case RouteIntravenous:
		return "Intravenosa (IV)"
	case RouteIntramuscular:
		return "Intramuscular (IM)"
	default:
		return string(r)
	}
}

// Supported indica si la vía tiene cálculo implementado.
func (r Route) Supported() bool {
	_, ok := routeBehaviors[r]
	return ok
}

// SupportedRoutes devuelve las vías calculables en orden estable.
func SupportedRoutes() []Route {
	return []Route{RouteOral, RouteIntravenous}
}

// routeBehavior concentra lo que cambia según la vía:
// validación de campos opcionales y cálculo de goteo.
type routeBehavior struct {
	validateExtras func(in Input) error
	infusion       func(in Input, mlPerDose float64) (*InfusionInfo, error)
}

var routeBehaviors = map[Route]routeBehavior{
	RouteOral: {
		// Dilución y tiempo de infusión no aplican; se ignoran.
		validateExtras: func(Input) error { return nil },
		infusion:       func(Input, float64) (*InfusionInfo, error) { return nil, nil },
	},
	RouteIntravenous: {
		validateExtras: validateIVExtras,
		infusion:       intravenousInfusion,
	},
}

func validateIVExtras(in Input) error {
	if in.InfusionMinutes != nil && !(*in.InfusionMinutes > 0) {
		return ErrInvalidInfusionTime
	}
	if in.DilutionMl != nil && !(*in.DilutionMl >= 0) {
		return ErrInvalidDilution
	}
	return nil
}

func intravenousInfusion(in Input, mlPerDose float64) (*InfusionInfo, error) {
	minutes := valueOr(in.InfusionMinutes, 0)
	if minutes <= 0 {
		// sin tiempo de infusión no hay cálculo de goteo
		return nil, nil
	}
	dil := valueOr(in.DilutionMl, 0)

	totalVolume := mlPerDose + dil
	dropsPerMin := (totalVolume * DropFactor) / minutes
	mlPerHour := (totalVolume * 60) / minutes
	if !finite(totalVolume, dropsPerMin, mlPerHour) {
		return nil, ErrOutOfRange
	}

	return &InfusionInfo{
		TotalVolumeMl:   round2(totalVolume),
		DropsPerMin:     roundInt(dropsPerMin),
		MlPerHour:       roundInt(mlPerHour),
		InfusionMinutes: minutes,
		DilutionMl:      dil,
	}, nil
}
