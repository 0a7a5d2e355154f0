package catalog

import (
	"context"
	"errors"
	"sort"
	"strings"

	"pediatric-dosage/internal/domain/dosage"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("medication not found")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListByRoute devuelve los medicamentos con al menos una presentación en la vía,
// ordenados por nombre genérico.
func (s *Service) ListByRoute(ctx context.Context, route dosage.Route) ([]Medication, error) {
	if route == "" {
		return nil, ErrInvalidInput
	}

	all, err := s.repo.ListMedications(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Medication, 0, len(all))
	for _, m := range all {
		if m.HasRoute(route) {
			out = append(out, m)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].GenericName) < strings.ToLower(out[j].GenericName)
	})
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Medication, error) {
	if id <= 0 {
		return Medication{}, ErrInvalidInput
	}
	return s.repo.GetMedication(ctx, id)
}

// Resolve arma la Selection para el calculador. No valida reglas de negocio:
// si la presentación o la regla no aplican a la vía quedan en nil y el
// calculador decide el error.
func (s *Service) Resolve(ctx context.Context, route dosage.Route, medicationID, presentationID int64) (Selection, error) {
	m, err := s.Get(ctx, medicationID)
	if err != nil {
		return Selection{}, err
	}

	sel := Selection{
		Route:      route,
		Medication: CloneMedication(m),
	}

	for _, p := range sel.Medication.Presentations {
		if p.ID == presentationID && p.Route == route {
			pres := p
			sel.Presentation = &pres
			break
		}
	}
	if r, ok := RuleFor(sel.Medication, route); ok {
		sel.Rule = &r
	}

	return sel, nil
}

// RuleFor busca la regla de dosis del medicamento para la vía (la primera).
func RuleFor(m Medication, route dosage.Route) (dosage.DosingRule, bool) {
	for _, r := range m.Rules {
		if r.Route == route {
			return r, true
		}
	}
	return dosage.DosingRule{}, false
}

// Suggest replica el autocompletado: dosis mínima e intervalo mínimo de la regla.
func Suggest(rule dosage.DosingRule) Suggestion {
	return Suggestion{
		Dose:          rule.DoseMin,
		IntervalHours: rule.IntervalMin,
	}
}

// CloneMedication copia profunda: presentaciones, reglas y punteros de la regla.
func CloneMedication(m Medication) Medication {
	out := m
	out.Presentations = append([]dosage.Presentation(nil), m.Presentations...)
	out.Rules = make([]dosage.DosingRule, 0, len(m.Rules))
	for _, r := range m.Rules {
		r.IntervalMin = cloneFloat(r.IntervalMin)
		r.IntervalMax = cloneFloat(r.IntervalMax)
		if r.DosesPerDay != nil {
			v := *r.DosesPerDay
			r.DosesPerDay = &v
		}
		out.Rules = append(out.Rules, r)
	}
	return out
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
