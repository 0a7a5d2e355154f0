package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"pediatric-dosage/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/admin", func(ar chi.Router) {
		ar.Post("/login", loginHandler(svc))

		ar.Group(func(pr chi.Router) {
			pr.Use(middleware.RequireAdmin)

			pr.Get("/users", listUsersHandler(svc))
			pr.Post("/users", createUserHandler(svc))
			pr.Patch("/users/{userID}", updateUserHandler(svc))
			pr.Delete("/users/{userID}", deleteUserHandler(svc))

			// Solo lectura: crear/borrar tablas no se expone
			pr.Get("/tables", listTablesHandler(svc))
			pr.Get("/tables/{table}/rows", tableRowsHandler(svc))
		})
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

type userRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

// loginHandler godoc
// @Summary Login de administrador
// @Tags admin
// @Accept json
// @Produce json
// @Param payload body loginRequest true "Credenciales"
// @Success 200 {object} loginResponse
// @Failure 400 {string} string "invalid json"
// @Failure 401 {string} string "invalid credentials"
// @Router /admin/login [post]
func loginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		token, exp, err := svc.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, ErrInvalidCredentials) {
				http.Error(w, "invalid credentials", http.StatusUnauthorized)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, loginResponse{Token: token, TokenType: "Bearer", ExpiresAt: exp})
	}
}

func listUsersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := svc.ListUsers(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if users == nil {
			users = []User{}
		}
		writeJSON(w, http.StatusOK, users)
	}
}

func createUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req userRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.Username == nil || req.Password == nil {
			http.Error(w, "username and password are required", http.StatusBadRequest)
			return
		}

		u, err := svc.CreateUser(r.Context(), *req.Username, *req.Password)
		if err != nil {
			writeUserError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, u)
	}
}

func updateUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		var req userRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		u, err := svc.UpdateUser(r.Context(), id, UpdateUserInput{Username: req.Username, Password: req.Password})
		if err != nil {
			writeUserError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, u)
	}
}

func deleteUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		if err := svc.DeleteUser(r.Context(), id); err != nil {
			writeUserError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// listTablesHandler godoc
// @Summary Listar tablas
// @Tags admin
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param Authorization header string false "Bearer token"
// @Success 200 {array} TableInfo
// @Failure 401 {string} string "unauthorized"
// @Router /admin/tables [get]
func listTablesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListTables(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

// tableRowsHandler godoc
// @Summary Ver filas de una tabla
// @Tags admin
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param Authorization header string false "Bearer token"
// @Param table path string true "Nombre de la tabla"
// @Param limit query int false "1..100 (default 25)"
// @Param offset query int false "offset"
// @Success 200 {object} TablePage
// @Failure 400 {string} string "invalid query"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "unknown table"
// @Router /admin/tables/{table}/rows [get]
func tableRowsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := 0, 0
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				http.Error(w, "limit must be >= 1", http.StatusBadRequest)
				return
			}
			limit = n
		}
		if v := r.URL.Query().Get("offset"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				http.Error(w, "offset must be >= 0", http.StatusBadRequest)
				return
			}
			offset = n
		}

		page, err := svc.TableRows(r.Context(), chi.URLParam(r, "table"), limit, offset)
		if err != nil {
			switch {
			case errors.Is(err, ErrUnknownTable):
				http.Error(w, "unknown table", http.StatusNotFound)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, "invalid query", http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

func writeUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, "invalid input", http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "user not found", http.StatusNotFound)
	case errors.Is(err, ErrConflict):
		http.Error(w, "username already exists", http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
