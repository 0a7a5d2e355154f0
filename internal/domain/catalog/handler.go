package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"pediatric-dosage/internal/domain/dosage"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/routes", listRoutesHandler())

	r.Route("/medications", func(mr chi.Router) {
		mr.Get("/", listMedicationsHandler(svc))
		mr.Get("/{medicationID}", getMedicationHandler(svc))
	})
}

type routeResponse struct {
	Route dosage.Route `json:"route"`
	ID    int          `json:"id"`
	Label string       `json:"label"`
}

type presentationResponse struct {
	ID       int64        `json:"id"`
	Route    dosage.Route `json:"route"`
	Form     string       `json:"form"`
	ConcMg   float64      `json:"conc_mg"`
	ConcUnit string       `json:"conc_unit"`
	ConcVol  float64      `json:"conc_vol"`
	VolUnit  string       `json:"vol_unit"`
}

type ruleResponse struct {
	Route       dosage.Route  `json:"route"`
	DoseMin     float64       `json:"dose_min"`
	DoseMax     float64       `json:"dose_max"`
	Scheme      dosage.Scheme `json:"scheme"`
	SchemeLabel string        `json:"scheme_label"`
	IntervalMin *float64      `json:"interval_min_hours,omitempty"`
	IntervalMax *float64      `json:"interval_max_hours,omitempty"`
	DosesPerDay *int          `json:"doses_per_day,omitempty"`

	// Autocompletado sugerido para el formulario
	SuggestedDose     float64  `json:"suggested_dose"`
	SuggestedInterval *float64 `json:"suggested_interval_hours,omitempty"`
}

type medicationResponse struct {
	ID              int64                  `json:"id"`
	GenericName     string                 `json:"generic_name"`
	BrandName       string                 `json:"brand_name"`
	TypeName        string                 `json:"type_name"`
	TypeDescription string                 `json:"type_description"`
	Presentations   []presentationResponse `json:"presentations"`
	Rules           []ruleResponse         `json:"rules"`
}

// listRoutesHandler godoc
// @Summary Listar vías de administración
// @Description Vías con cálculo disponible (ORAL, INTRAVENOUS).
// @Tags catalog
// @Produce json
// @Success 200 {array} routeResponse
// @Router /routes [get]
func listRoutesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		routes := dosage.SupportedRoutes()
		out := make([]routeResponse, 0, len(routes))
		for _, rt := range routes {
			out = append(out, routeResponse{Route: rt, ID: rt.ID(), Label: rt.Label()})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// listMedicationsHandler godoc
// @Summary Listar medicamentos por vía
// @Description Devuelve los medicamentos que tienen al menos una presentación en la vía indicada, con sus presentaciones y reglas. Si no se indica vía se usa ORAL.
// @Tags catalog
// @Produce json
// @Param route query string false "Vía: ORAL | INTRAVENOUS (o 1 | 2)"
// @Success 200 {array} medicationResponse
// @Failure 400 {string} string "route inválida"
// @Failure 500 {string} string "internal error"
// @Router /medications [get]
func listMedicationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		route := dosage.RouteOral
		if v := r.URL.Query().Get("route"); v != "" {
			route = dosage.ParseRoute(v)
			if !route.Supported() {
				http.Error(w, "route must be ORAL or INTRAVENOUS", http.StatusBadRequest)
				return
			}
		}

		items, err := svc.ListByRoute(r.Context(), route)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]medicationResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMedicationResponse(m, route))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getMedicationHandler godoc
// @Summary Obtener medicamento
// @Tags catalog
// @Produce json
// @Param medicationID path int true "ID del medicamento"
// @Success 200 {object} medicationResponse
// @Failure 400 {string} string "invalid id"
// @Failure 404 {string} string "medication not found"
// @Router /medications/{medicationID} [get]
func getMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "medicationID"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		m, err := svc.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "medication not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toMedicationResponse(m, ""))
	}
}

// toMedicationResponse filtra presentaciones y reglas por vía si route != "".
func toMedicationResponse(m Medication, route dosage.Route) medicationResponse {
	out := medicationResponse{
		ID:              m.ID,
		GenericName:     m.GenericName,
		BrandName:       m.BrandName,
		TypeName:        m.TypeName,
		TypeDescription: m.TypeDescription,
		Presentations:   make([]presentationResponse, 0, len(m.Presentations)),
		Rules:           make([]ruleResponse, 0, len(m.Rules)),
	}

	for _, p := range m.Presentations {
		if route != "" && p.Route != route {
			continue
		}
		out.Presentations = append(out.Presentations, presentationResponse{
			ID:       p.ID,
			Route:    p.Route,
			Form:     p.Form,
			ConcMg:   p.ConcMg,
			ConcUnit: p.ConcUnit,
			ConcVol:  p.ConcVol,
			VolUnit:  p.VolUnit,
		})
	}

	for _, rl := range m.Rules {
		if route != "" && rl.Route != route {
			continue
		}
		sg := Suggest(rl)
		out.Rules = append(out.Rules, ruleResponse{
			Route:             rl.Route,
			DoseMin:           rl.DoseMin,
			DoseMax:           rl.DoseMax,
			Scheme:            rl.Scheme,
			SchemeLabel:       rl.Scheme.Label(),
			IntervalMin:       rl.IntervalMin,
			IntervalMax:       rl.IntervalMax,
			DosesPerDay:       rl.DosesPerDay,
			SuggestedDose:     sg.Dose,
			SuggestedInterval: sg.IntervalHours,
		})
	}

	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
