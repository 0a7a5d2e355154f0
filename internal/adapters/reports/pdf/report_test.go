package pdf

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"pediatric-dosage/internal/domain/consultations"
	"pediatric-dosage/internal/domain/dosage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func snapshotFor(t *testing.T, route dosage.Route, in dosage.Input, pres dosage.Presentation, rule dosage.DosingRule) consultations.Snapshot {
	t.Helper()
	res, err := dosage.Calculate(in, &rule, &pres)
	require.NoError(t, err)
	return consultations.Snapshot{
		ID:           "s1",
		CreatedAt:    time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC),
		Route:        route,
		Medication:   consultations.MedicationRef{ID: 2, GenericName: "Paracetamol", TypeName: "Analgésico"},
		Presentation: pres,
		Rule:         rule,
		Input:        in,
		Result:       res,
	}
}

func TestRender_Oral(t *testing.T) {
	s := snapshotFor(t, dosage.RouteOral,
		dosage.Input{Route: dosage.RouteOral, WeightKg: f64(12), Dose: f64(20), IntervalHours: f64(6)},
		dosage.Presentation{ID: 1, MedicationID: 2, Route: dosage.RouteOral, Form: "Jarabe", ConcMg: 120, ConcUnit: "mg", ConcVol: 5, VolUnit: "mL"},
		dosage.DosingRule{MedicationID: 2, Route: dosage.RouteOral, DoseMin: 10, DoseMax: 15, Scheme: dosage.SchemePerKgPerDose},
	)
	require.NotEqual(t, dosage.AlertNone, s.Result.Alert)

	var buf bytes.Buffer
	require.NoError(t, NewRenderer(nil).Render(&buf, s))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "%PDF-"))
	assert.Contains(t, strings.TrimSpace(out), "%%EOF")
}

func TestRender_IntravenousWithInfusion(t *testing.T) {
	s := snapshotFor(t, dosage.RouteIntravenous,
		dosage.Input{Route: dosage.RouteIntravenous, WeightKg: f64(12), Dose: f64(15), IntervalHours: f64(6), DilutionMl: f64(50), InfusionMinutes: f64(30)},
		dosage.Presentation{ID: 11, MedicationID: 2, Route: dosage.RouteIntravenous, Form: "Ampolla", ConcMg: 10, ConcUnit: "mg", ConcVol: 1, VolUnit: "mL"},
		dosage.DosingRule{MedicationID: 2, Route: dosage.RouteIntravenous, DoseMin: 10, DoseMax: 15, Scheme: dosage.SchemePerKgPerDose},
	)
	require.NotNil(t, s.Result.Infusion)

	loc := time.FixedZone("GMT-5", -5*60*60)
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(loc).Render(&buf, s))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
