package dosage

import "errors"

// Kind identifica el motivo de rechazo de un cálculo.
type Kind string

const (
	KindMissingSelection    Kind = "MISSING_SELECTION"
	KindInvalidWeight       Kind = "INVALID_WEIGHT"
	KindInvalidInterval     Kind = "INVALID_INTERVAL"
	KindInvalidDose         Kind = "INVALID_DOSE"
	KindInvalidInfusionTime Kind = "INVALID_INFUSION_TIME"
	KindInvalidDilution     Kind = "INVALID_DILUTION"
	KindDataIntegrity       Kind = "DATA_INTEGRITY"
	KindNoRuleForRoute      Kind = "NO_RULE_FOR_ROUTE"
	KindUnsupportedRoute    Kind = "UNSUPPORTED_ROUTE"
	KindOutOfRange          Kind = "OUT_OF_RANGE"
)

// ValidationError es un rechazo esperado y corregible por el usuario.
type ValidationError struct {
	Kind    Kind
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is compara por Kind, así errors.Is funciona también con copias.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrMissingSelection    = &ValidationError{Kind: KindMissingSelection, Message: "Selecciona un medicamento y una presentación."}
	ErrInvalidWeight       = &ValidationError{Kind: KindInvalidWeight, Message: "Ingresa un peso válido (> 0)."}
	ErrInvalidInterval     = &ValidationError{Kind: KindInvalidInterval, Message: "Ingresa un intervalo válido (> 0)."}
	ErrInvalidDose         = &ValidationError{Kind: KindInvalidDose, Message: "Ingresa una dosis válida (> 0)."}
	ErrInvalidInfusionTime = &ValidationError{Kind: KindInvalidInfusionTime, Message: "Tiempo de infusión debe ser > 0."}
	ErrInvalidDilution     = &ValidationError{Kind: KindInvalidDilution, Message: "Dilución no puede ser negativa."}
	ErrDataIntegrity       = &ValidationError{Kind: KindDataIntegrity, Message: "Datos de presentación o regla inconsistentes."}
	ErrNoRuleForRoute      = &ValidationError{Kind: KindNoRuleForRoute, Message: "No existe una regla de dosis configurada para este medicamento en esta vía."}
	ErrUnsupportedRoute    = &ValidationError{Kind: KindUnsupportedRoute, Message: "Vía de administración no soportada."}
	ErrOutOfRange          = &ValidationError{Kind: KindOutOfRange, Message: "Los valores ingresados dan un resultado fuera de rango. Revisa peso, dosis e intervalo."}
)

// KindOf devuelve el Kind si err es un ValidationError.
func KindOf(err error) (Kind, bool) {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return "", false
	}
	return ve.Kind, true
}
