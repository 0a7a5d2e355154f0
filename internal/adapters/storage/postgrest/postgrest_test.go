package postgrest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pediatric-dosage/internal/domain/admin"
	"pediatric-dosage/internal/domain/catalog"
	"pediatric-dosage/internal/domain/consultations"
	"pediatric-dosage/internal/domain/dosage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, "service-key", time.Second)
	require.NoError(t, err)
	return c
}

func writeBody(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestQuery_String(t *testing.T) {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	q := From("consulta_dosis").
		Select("*").
		Eq("id_via", 2).
		Gte("fecha_consulta", from).
		Order("fecha_consulta", false).
		Order("id_consulta", false).
		Limit(10)

	assert.Equal(t,
		"/consulta_dosis?fecha_consulta=gte.2025-03-01T00%3A00%3A00Z&id_via=eq.2&limit=10&order=fecha_consulta.desc%2Cid_consulta.desc&select=%2A",
		q.String(),
	)
}

func TestCatalogRepo_MergesEmbeddedRelations(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "service-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))

		q := r.URL.Query()
		switch r.URL.Path {
		case "/rest/v1/medicamento":
			assert.Equal(t, "id_medicamento,nombre_generico,nombre_comercial,tipo_medicamento(nombre_tipo,descripcion)", q.Get("select"))
			assert.Equal(t, "nombre_generico.asc", q.Get("order"))
			writeBody(w, http.StatusOK, `[
				{"id_medicamento":1,"nombre_generico":"Amoxicilina","nombre_comercial":"Amoxil","tipo_medicamento":{"nombre_tipo":"Antibiótico","descripcion":"Betalactámico"}},
				{"id_medicamento":2,"nombre_generico":"Paracetamol","nombre_comercial":null,"tipo_medicamento":null}
			]`)
		case "/rest/v1/presentacion_medicamento":
			assert.Equal(t, "id_presentacion.asc", q.Get("order"))
			writeBody(w, http.StatusOK, `[
				{"id_presentacion":10,"id_medicamento":1,"id_via":1,"forma_farmaceutica":"Suspensión","concentracion_cantidad":250,"concentracion_unidad":"mg","volumen_cantidad":5,"volumen_unidad":"mL"},
				{"id_presentacion":11,"id_medicamento":2,"id_via":2,"forma_farmaceutica":"Ampolla","concentracion_cantidad":10,"concentracion_unidad":"mg","volumen_cantidad":1,"volumen_unidad":"mL"}
			]`)
		case "/rest/v1/regla_dosis":
			assert.Contains(t, q.Get("select"), "esquema_dosis(aplicacion)")
			writeBody(w, http.StatusOK, `[
				{"id_medicamento":1,"id_via":1,"dosis_min":40,"dosis_max":90,"intervalo_min_horas":8,"intervalo_max_horas":12,"tomas_por_dia_min":2,"esquema_dosis":{"aplicacion":"mg/kg/dia"}},
				{"id_medicamento":2,"id_via":2,"dosis_min":10,"dosis_max":15,"intervalo_min_horas":null,"intervalo_max_horas":null,"tomas_por_dia_min":null,"esquema_dosis":null}
			]`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	repo := NewCatalogRepo(c)
	meds, err := repo.ListMedications(context.Background())
	require.NoError(t, err)
	require.Len(t, meds, 2)

	amox := meds[0]
	assert.Equal(t, "Antibiótico", amox.TypeName)
	require.Len(t, amox.Presentations, 1)
	assert.Equal(t, dosage.RouteOral, amox.Presentations[0].Route)
	require.Len(t, amox.Rules, 1)
	assert.Equal(t, dosage.SchemePerKgPerDay, amox.Rules[0].Scheme)
	require.NotNil(t, amox.Rules[0].IntervalMin)
	assert.Equal(t, 8.0, *amox.Rules[0].IntervalMin)

	para := meds[1]
	assert.Empty(t, para.TypeName)
	assert.Empty(t, para.BrandName)
	require.Len(t, para.Rules, 1)
	assert.Equal(t, dosage.SchemePerKgPerDose, para.Rules[0].Scheme)
	assert.Nil(t, para.Rules[0].IntervalMin)
}

func TestCatalogRepo_GetMedicationNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/medicamento", r.URL.Path)
		assert.Equal(t, "eq.99", r.URL.Query().Get("id_medicamento"))
		writeBody(w, http.StatusOK, `[]`)
	})

	_, err := NewCatalogRepo(c).GetMedication(context.Background(), 99)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestConsultationsRepo_CreateAndList(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	dil := 50.0
	mins := 30.0

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/consulta_dosis", r.URL.Path)
		switch r.Method {
		case http.MethodPost:
			assert.Equal(t, "return=representation", r.Header.Get("Prefer"))

			var rows []map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&rows))
			require.Len(t, rows, 1)
			assert.Equal(t, float64(2), rows[0]["id_via"])
			assert.Equal(t, "mg/kg/dosis", rows[0]["unidad_dosis_ingresada"])
			assert.Equal(t, float64(50), rows[0]["volumen_dilucion_ml"])
			assert.NotContains(t, rows[0], "id_consulta")

			rows[0]["id_consulta"] = 31
			b, _ := json.Marshal(rows)
			writeBody(w, http.StatusCreated, string(b))
		case http.MethodGet:
			q := r.URL.Query()
			assert.Equal(t, "eq.2", q.Get("id_via"))
			assert.Equal(t, "fecha_consulta.desc,id_consulta.desc", q.Get("order"))
			assert.Equal(t, "50", q.Get("limit"))
			assert.Equal(t, "0", q.Get("offset"))
			writeBody(w, http.StatusOK, `[{"id_consulta":31,"id_via":2,"id_medicamento":2,"id_presentacion":11,
				"peso_paciente_kg":12,"dosis_ingresada":15,"unidad_dosis_ingresada":"mg/kg/dosis",
				"intervalo_horas":6,"numero_tomas_dia":4,"volumen_dilucion_ml":50,"tiempo_administracion_min":30,
				"fecha_consulta":"2025-03-01T10:00:00Z"}]`)
		}
	})

	repo := NewConsultationsRepo(c)
	created, err := repo.Create(context.Background(), consultations.Record{
		RouteID:         2,
		MedicationID:    2,
		PresentationID:  11,
		WeightKg:        12,
		Dose:            15,
		DoseUnit:        "mg/kg/dosis",
		IntervalHours:   6,
		DosesPerDay:     4,
		DilutionMl:      &dil,
		InfusionMinutes: &mins,
		CreatedAt:       at,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(31), created.ID)

	list, err := repo.List(context.Background(), consultations.ListFilter{Route: dosage.RouteIntravenous})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, dosage.RouteIntravenous, list[0].Route())
	assert.True(t, at.Equal(list[0].CreatedAt))
	require.NotNil(t, list[0].InfusionMinutes)
	assert.Equal(t, 30.0, *list[0].InfusionMinutes)
}

func TestUsersRepo_ConflictAndNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/users", r.URL.Path)
		switch r.Method {
		case http.MethodPost:
			writeBody(w, http.StatusConflict, `{"code":"23505","message":"duplicate key value violates unique constraint"}`)
		case http.MethodDelete:
			assert.Equal(t, "eq.7", r.URL.Query().Get("userid"))
			writeBody(w, http.StatusOK, `[]`)
		case http.MethodPatch:
			writeBody(w, http.StatusOK, `[{"userid":7,"usuario":"ana","contraseña":"h","created_at":"2025-01-01T00:00:00Z"}]`)
		}
	})

	repo := NewUsersRepo(c)
	ctx := context.Background()

	_, err := repo.Create(ctx, admin.User{Username: "ana", PasswordHash: "h"})
	assert.ErrorIs(t, err, admin.ErrConflict)

	assert.ErrorIs(t, repo.Delete(ctx, 7), admin.ErrNotFound)
	assert.NoError(t, repo.Update(ctx, admin.User{ID: 7, Username: "ana", PasswordHash: "h"}))
}

func TestTablesRepo_CountsAndHidesPasswords(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/v1/pg_tables":
			assert.Equal(t, "eq.public", r.URL.Query().Get("schemaname"))
			writeBody(w, http.StatusOK, `[{"tablename":"medicamento"},{"tablename":"schema_migrations"},{"tablename":"users"}]`)
		case "/rest/v1/medicamento":
			assert.Equal(t, "count=exact", r.Header.Get("Prefer"))
			w.Header().Set("Content-Range", "0-0/5")
			writeBody(w, http.StatusOK, `[{"id_medicamento":1}]`)
		case "/rest/v1/users":
			assert.Equal(t, "count=exact", r.Header.Get("Prefer"))
			if r.URL.Query().Get("limit") == "1" {
				w.Header().Set("Content-Range", "0-0/2")
			} else {
				assert.Equal(t, "25", r.URL.Query().Get("limit"))
				w.Header().Set("Content-Range", "0-1/2")
			}
			writeBody(w, http.StatusOK, `[{"userid":1,"usuario":"ana","contraseña":"$2a$10$x","created_at":"2025-01-01T00:00:00Z"},
				{"userid":2,"usuario":"bruno","contraseña":"$2a$10$y","created_at":"2025-01-02T00:00:00Z"}]`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	repo := NewTablesRepo(c)
	ctx := context.Background()

	tables, err := repo.ListTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []admin.TableInfo{{Name: "medicamento", Rows: 5}, {Name: "users", Rows: 2}}, tables)

	page, err := repo.Rows(ctx, "users", 25, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, []string{"userid", "usuario", "created_at"}, page.Columns)
	require.Len(t, page.Rows, 2)
	assert.NotContains(t, page.Rows[0], "contraseña")
	assert.Equal(t, json.Number("1"), page.Rows[0]["userid"])
}

func TestParseContentRange(t *testing.T) {
	n, err := parseContentRange("0-24/573")
	require.NoError(t, err)
	assert.Equal(t, int64(573), n)

	n, err = parseContentRange("*/0")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	_, err = parseContentRange("0-24/*")
	assert.Error(t, err)

	_, err = parseContentRange("")
	assert.Error(t, err)
}
