package dosage

import (
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Calculate valida la entrada contra la regla y la presentación y calcula la dosis.
//
// Es una función pura: mismo input => mismo Result. Los errores son siempre
// *ValidationError y se reportan en este orden (el primero que falle gana):
// vía no soportada, selección incompleta, regla ausente para la vía, peso,
// intervalo, dosis, tiempo de infusión (IV), dilución (IV), integridad de datos
// y, ya calculado, resultado fuera de rango (desborde de float64).
func Calculate(in Input, rule *DosingRule, pres *Presentation) (Result, error) {
	behavior, ok := routeBehaviors[in.Route]
	if !ok {
		return Result{}, ErrUnsupportedRoute
	}

	if pres == nil || pres.Route != in.Route {
		return Result{}, ErrMissingSelection
	}
	if rule == nil || rule.Route != in.Route {
		return Result{}, ErrNoRuleForRoute
	}

	if !positive(in.WeightKg) {
		return Result{}, ErrInvalidWeight
	}
	if !positive(in.IntervalHours) {
		return Result{}, ErrInvalidInterval
	}
	if !positive(in.Dose) {
		return Result{}, ErrInvalidDose
	}
	if err := behavior.validateExtras(in); err != nil {
		return Result{}, err
	}

	// El store debería garantizarlo; igual no dividimos por cero ni
	// calculamos contra una regla con min > max.
	if !(pres.ConcMg > 0) || !(pres.ConcVol > 0) || rule.DoseMin > rule.DoseMax {
		return Result{}, ErrDataIntegrity
	}

	p := *in.WeightKg
	d := *in.Dose
	i := *in.IntervalHours

	// tomas/día queda real para los operandos; se redondea solo al presentar.
	dosesPerDay := 24 / i

	scheme := rule.Scheme
	if scheme != SchemePerKgPerDay {
		scheme = SchemePerKgPerDose
	}

	var mgPerDose, mgPerDay float64
	switch scheme {
	case SchemePerKgPerDay:
		mgPerDay = p * d
		mgPerDose = mgPerDay / dosesPerDay
	default:
		mgPerDose = p * d
		mgPerDay = mgPerDose * dosesPerDay
	}
	mlPerDose := (mgPerDose * pres.ConcVol) / pres.ConcMg
	mlPerDay := mlPerDose * dosesPerDay

	// valores positivos y finitos igual pueden desbordar float64
	if !finite(dosesPerDay, mgPerDose, mgPerDay, mlPerDose, mlPerDay) {
		return Result{}, ErrOutOfRange
	}

	infusion, err := behavior.infusion(in, mlPerDose)
	if err != nil {
		return Result{}, err
	}

	var steps []Step
	if scheme == SchemePerKgPerDay {
		steps = append(steps,
			Step{
				Label:   "Calculo Dosis Diaria:",
				Formula: fmt.Sprintf("%s kg x %s mg/kg = %s mg/dia", plain(p), plain(d), fixed2(mgPerDay)),
			},
			Step{
				Label:   "Division por tomas:",
				Formula: fmt.Sprintf("%s mg / %d tomas = %s mg/toma", fixed2(mgPerDay), roundInt(dosesPerDay), fixed2(mgPerDose)),
			},
		)
	} else {
		steps = append(steps, Step{
			Label:   "Calculo Dosis Unica:",
			Formula: fmt.Sprintf("%s kg x %s mg/kg = %s mg", plain(p), plain(d), fixed2(mgPerDose)),
		})
	}
	steps = append(steps, Step{
		Label: "Volumen del Medicamento:",
		Formula: fmt.Sprintf("(%s mg x %s mL) / %s mg = %s mL",
			fixed2(mgPerDose), plain(pres.ConcVol), plain(pres.ConcMg), fixed2(mlPerDose)),
	})
	if infusion != nil {
		steps = append(steps, Step{
			Label: fmt.Sprintf("Calculo de Goteo (Normogotero %d):", DropFactor),
			Formula: fmt.Sprintf("(%s mL x %d gotas) / %s min = %d gotas/min",
				fixed2(infusion.TotalVolumeMl), DropFactor, plain(infusion.InfusionMinutes), infusion.DropsPerMin),
		})
	}

	return Result{
		MgPerDose:   round2(mgPerDose),
		MlPerDose:   round2(mlPerDose),
		MgPerDay:    round2(mgPerDay),
		MlPerDay:    round2(mlPerDay),
		DosesPerDay: roundInt(dosesPerDay),
		Scheme:      scheme,
		Steps:       steps,
		Infusion:    infusion,
		Alert:       rangeAlert(d, *rule),
		Exact: Exact{
			MgPerDose:   mgPerDose,
			MlPerDose:   mlPerDose,
			MgPerDay:    mgPerDay,
			MlPerDay:    mlPerDay,
			DosesPerDay: dosesPerDay,
		},
	}, nil
}

// rangeAlert compara la dosis ingresada con el rango de la regla.
// Los extremos están dentro del rango.
func rangeAlert(dose float64, rule DosingRule) Alert {
	switch {
	case dose < rule.DoseMin:
		return AlertBelowRange
	case dose > rule.DoseMax:
		return AlertAboveRange
	default:
		return AlertNone
	}
}

func positive(p *float64) bool {
	// !(x > 0) también atrapa NaN
	return p != nil && *p > 0
}

// finite es falso si algún valor es ±Inf o NaN.
func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func roundInt(v float64) int {
	return int(math.Round(v))
}

func fixed2(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
