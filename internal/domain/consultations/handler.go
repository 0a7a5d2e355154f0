package consultations

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pediatric-dosage/internal/domain/dosage"
	"pediatric-dosage/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/calculations", func(cr chi.Router) {
		cr.Post("/", calculateHandler(svc))
		cr.Get("/{snapshotID}", getCalculationHandler(svc))

		// Guarda el historial y devuelve el PDF del mismo snapshot
		cr.Post("/{snapshotID}/report", exportReportHandler(svc))
	})

	r.Route("/consultations", func(hr chi.Router) {
		hr.Use(middleware.RequireAdmin)
		hr.Get("/", listConsultationsHandler(svc))
		hr.Get("/export.xlsx", exportHistoryHandler(svc))
	})
}

// calculateRequest es el formulario de la calculadora. Los campos numéricos
// ausentes se envían como null u omitidos.
type calculateRequest struct {
	Route           string   `json:"route" enums:"ORAL,INTRAVENOUS"`
	MedicationID    int64    `json:"medication_id"`
	PresentationID  int64    `json:"presentation_id"`
	WeightKg        *float64 `json:"weight_kg"`
	Dose            *float64 `json:"dose"`
	IntervalHours   *float64 `json:"interval_hours"`
	DilutionMl      *float64 `json:"dilution_ml"`      // solo IV
	InfusionMinutes *float64 `json:"infusion_minutes"` // solo IV
}

// calculationResponse es el resultado del cálculo junto con el id del snapshot para exportar.
type calculationResponse struct {
	SnapshotID   string              `json:"snapshot_id"`
	CreatedAt    time.Time           `json:"created_at"`
	Route        dosage.Route        `json:"route"`
	RouteLabel   string              `json:"route_label"`
	Medication   MedicationRef       `json:"medication"`
	Presentation dosage.Presentation `json:"presentation"`
	Rule         dosage.DosingRule   `json:"rule"`
	Input        dosage.Input        `json:"input"`
	Result       dosage.Result       `json:"result"`
	AlertMessage string              `json:"alert_message,omitempty"`
}

// validationErrorResponse se devuelve con 422 cuando el cálculo es rechazado.
type validationErrorResponse struct {
	Error   dosage.Kind `json:"error" enums:"MISSING_SELECTION,INVALID_WEIGHT,INVALID_INTERVAL,INVALID_DOSE,INVALID_INFUSION_TIME,INVALID_DILUTION,DATA_INTEGRITY,NO_RULE_FOR_ROUTE,UNSUPPORTED_ROUTE,OUT_OF_RANGE"`
	Message string      `json:"message"`
}

type recordResponse struct {
	ID              int64     `json:"id"`
	Route           string    `json:"route"`
	MedicationID    int64     `json:"medication_id"`
	PresentationID  int64     `json:"presentation_id"`
	WeightKg        float64   `json:"weight_kg"`
	Dose            float64   `json:"dose"`
	DoseUnit        string    `json:"dose_unit"`
	IntervalHours   float64   `json:"interval_hours"`
	DosesPerDay     int       `json:"doses_per_day"`
	DilutionMl      *float64  `json:"dilution_ml,omitempty"`
	InfusionMinutes *float64  `json:"infusion_minutes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// calculateHandler godoc
// @Summary Calcular dosis
// @Description Valida la selección y los datos del paciente, calcula la dosis y congela un snapshot para exportar. Los rechazos de validación devuelven 422 con el tipo de error.
// @Tags calculations
// @Accept json
// @Produce json
// @Param payload body calculateRequest true "Selección y datos del paciente"
// @Success 200 {object} calculationResponse
// @Failure 400 {string} string "invalid json"
// @Failure 422 {object} validationErrorResponse
// @Failure 500 {string} string "internal error"
// @Router /calculations [post]
func calculateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req calculateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		snap, err := svc.Calculate(r.Context(), CalculateRequest{
			Route:           dosage.ParseRoute(req.Route),
			MedicationID:    req.MedicationID,
			PresentationID:  req.PresentationID,
			WeightKg:        req.WeightKg,
			Dose:            req.Dose,
			IntervalHours:   req.IntervalHours,
			DilutionMl:      req.DilutionMl,
			InfusionMinutes: req.InfusionMinutes,
		})
		if err != nil {
			writeCalcError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toCalculationResponse(snap))
	}
}

// getCalculationHandler godoc
// @Summary Obtener snapshot de cálculo
// @Tags calculations
// @Produce json
// @Param snapshotID path string true "ID del snapshot"
// @Success 200 {object} calculationResponse
// @Failure 400 {string} string "invalid id"
// @Failure 404 {string} string "snapshot not found"
// @Router /calculations/{snapshotID} [get]
func getCalculationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := svc.GetSnapshot(r.Context(), chi.URLParam(r, "snapshotID"))
		if err != nil {
			writeSnapshotError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toCalculationResponse(snap))
	}
}

// exportReportHandler godoc
// @Summary Exportar reporte PDF
// @Description Guarda el registro de auditoría del snapshot y devuelve el reporte PDF generado con los mismos datos. Si el historial no se pudo guardar el PDF se entrega igual y se informa en el header X-Audit-Warning.
// @Tags calculations
// @Produce application/pdf
// @Param snapshotID path string true "ID del snapshot"
// @Success 200 {file} file
// @Header 200 {string} X-Audit-Warning "presente si el historial no se guardó"
// @Failure 400 {string} string "invalid id"
// @Failure 404 {string} string "snapshot not found"
// @Failure 422 {string} string "invalid record"
// @Failure 500 {string} string "internal error"
// @Router /calculations/{snapshotID}/report [post]
func exportReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		res, err := svc.Export(r.Context(), chi.URLParam(r, "snapshotID"), &buf)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidRecord):
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrSnapshotNotFound):
				writeSnapshotError(w, err)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		if res.AuditWarning != "" {
			w.Header().Set("X-Audit-Warning", headerSafe(res.AuditWarning))
		}
		if res.Persisted {
			w.Header().Set("X-Consultation-ID", strconv.FormatInt(res.Record.ID, 10))
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="`+reportFilename(res.Snapshot)+`"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}
}

// listConsultationsHandler godoc
// @Summary Listar historial de consultas
// @Tags consultations
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param Authorization header string false "Bearer token"
// @Param route query string false "ORAL | INTRAVENOUS"
// @Param medication_id query int false "ID del medicamento"
// @Param from query string false "RFC3339"
// @Param to query string false "RFC3339"
// @Param limit query int false "1..500 (default 50)"
// @Param offset query int false "offset"
// @Success 200 {array} recordResponse
// @Failure 400 {string} string "invalid query"
// @Failure 401 {string} string "unauthorized"
// @Router /consultations [get]
func listConsultationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseListFilter(r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.History(r.Context(), filter)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "to must be after from", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]recordResponse, 0, len(items))
		for _, rec := range items {
			out = append(out, toRecordResponse(rec))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// exportHistoryHandler godoc
// @Summary Exportar historial a Excel
// @Tags consultations
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param Authorization header string false "Bearer token"
// @Param route query string false "ORAL | INTRAVENOUS"
// @Param from query string false "RFC3339"
// @Param to query string false "RFC3339"
// @Param limit query int false "máximo de filas (default: todas)"
// @Param offset query int false "offset"
// @Success 200 {file} file
// @Header 200 {int} X-Total-Count "filas exportadas"
// @Failure 401 {string} string "unauthorized"
// @Router /consultations/export.xlsx [get]
func exportHistoryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseListFilter(r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var buf bytes.Buffer
		n, err := svc.ExportHistory(r.Context(), &buf, filter)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "to must be after from", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="historial_consultas.xlsx"`)
		w.Header().Set("X-Total-Count", strconv.Itoa(n))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}
}

func parseListFilter(q url.Values) (ListFilter, error) {
	var f ListFilter

	if v := strings.TrimSpace(q.Get("route")); v != "" {
		f.Route = dosage.ParseRoute(v)
		if f.Route == "" {
			return ListFilter{}, errors.New("route inválida")
		}
	}
	if v := strings.TrimSpace(q.Get("medication_id")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return ListFilter{}, errors.New("medication_id inválido")
		}
		f.MedicationID = id
	}
	if v := strings.TrimSpace(q.Get("from")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ListFilter{}, errors.New("from debe ser RFC3339")
		}
		f.From = &t
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ListFilter{}, errors.New("to debe ser RFC3339")
		}
		f.To = &t
	}
	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return ListFilter{}, errors.New("limit inválido")
		}
		f.Limit = n
	}
	if v := strings.TrimSpace(q.Get("offset")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return ListFilter{}, errors.New("offset inválido")
		}
		f.Offset = n
	}
	return f, nil
}

func writeCalcError(w http.ResponseWriter, err error) {
	var ve *dosage.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusUnprocessableEntity, validationErrorResponse{Error: ve.Kind, Message: ve.Message})
		return
	}
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeSnapshotError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, "invalid id", http.StatusBadRequest)
	case errors.Is(err, ErrSnapshotNotFound):
		http.Error(w, "snapshot not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toCalculationResponse(s Snapshot) calculationResponse {
	return calculationResponse{
		SnapshotID:   s.ID,
		CreatedAt:    s.CreatedAt,
		Route:        s.Route,
		RouteLabel:   s.Route.Label(),
		Medication:   s.Medication,
		Presentation: s.Presentation,
		Rule:         s.Rule,
		Input:        s.Input,
		Result:       s.Result,
		AlertMessage: s.Result.Alert.Message(),
	}
}

func toRecordResponse(r Record) recordResponse {
	return recordResponse{
		ID:              r.ID,
		Route:           string(r.Route()),
		MedicationID:    r.MedicationID,
		PresentationID:  r.PresentationID,
		WeightKg:        r.WeightKg,
		Dose:            r.Dose,
		DoseUnit:        r.DoseUnit,
		IntervalHours:   r.IntervalHours,
		DosesPerDay:     r.DosesPerDay,
		DilutionMl:      r.DilutionMl,
		InfusionMinutes: r.InfusionMinutes,
		CreatedAt:       r.CreatedAt,
	}
}

func reportFilename(s Snapshot) string {
	name := strings.ToLower(strings.TrimSpace(s.Medication.GenericName))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" {
		name = "dosis"
	}
	return "reporte_" + name + "_" + s.CreatedAt.Format("20060102_150405") + ".pdf"
}

// headerSafe deja solo ASCII imprimible para poder ir en un header.
func headerSafe(s string) string {
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= 0x20 && c < 0x7f {
			b = append(b, c)
		}
	}
	return string(b)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
