package memory

import (
	"pediatric-dosage/internal/domain/catalog"
	"pediatric-dosage/internal/domain/dosage"
)

func f64(v float64) *float64 { return &v }

// SeedCatalog es el catálogo de arranque en modo memoria (dev y tests).
func SeedCatalog() []catalog.Medication {
	meds := []catalog.Medication{
		{ID: 1, GenericName: "Amoxicilina", BrandName: "Amoxil", TypeName: "Antibiótico", TypeDescription: "Penicilina de amplio espectro"},
		{ID: 2, GenericName: "Paracetamol", BrandName: "Panadol", TypeName: "Analgésico", TypeDescription: "Analgésico y antipirético"},
		{ID: 3, GenericName: "Ceftriaxona", BrandName: "Rocephin", TypeName: "Antibiótico", TypeDescription: "Cefalosporina de tercera generación"},
		{ID: 4, GenericName: "Ibuprofeno", BrandName: "Motrin", TypeName: "AINE", TypeDescription: "Antiinflamatorio no esteroideo"},
		{ID: 5, GenericName: "Dexametasona", BrandName: "Decadron", TypeName: "Corticoide", TypeDescription: "Glucocorticoide sistémico"},
	}

	pres := []dosage.Presentation{
		{ID: 1, MedicationID: 1, Route: dosage.RouteOral, Form: "Suspensión", ConcMg: 250, ConcUnit: "mg", ConcVol: 5, VolUnit: "mL"},
		{ID: 2, MedicationID: 2, Route: dosage.RouteOral, Form: "Jarabe", ConcMg: 120, ConcUnit: "mg", ConcVol: 5, VolUnit: "mL"},
		{ID: 3, MedicationID: 2, Route: dosage.RouteIntravenous, Form: "Solución inyectable", ConcMg: 10, ConcUnit: "mg", ConcVol: 1, VolUnit: "mL"},
		{ID: 4, MedicationID: 3, Route: dosage.RouteIntravenous, Form: "Polvo para solución", ConcMg: 1000, ConcUnit: "mg", ConcVol: 10, VolUnit: "mL"},
		{ID: 5, MedicationID: 3, Route: dosage.RouteIntramuscular, Form: "Polvo para solución", ConcMg: 1000, ConcUnit: "mg", ConcVol: 3.5, VolUnit: "mL"},
		{ID: 6, MedicationID: 4, Route: dosage.RouteOral, Form: "Suspensión", ConcMg: 100, ConcUnit: "mg", ConcVol: 5, VolUnit: "mL"},
		{ID: 7, MedicationID: 5, Route: dosage.RouteIntravenous, Form: "Ampolla", ConcMg: 4, ConcUnit: "mg", ConcVol: 1, VolUnit: "mL"},
	}

	rules := []dosage.DosingRule{
		{MedicationID: 1, Route: dosage.RouteOral, DoseMin: 40, DoseMax: 90, Scheme: dosage.SchemePerKgPerDay, IntervalMin: f64(8), IntervalMax: f64(12)},
		{MedicationID: 2, Route: dosage.RouteOral, DoseMin: 10, DoseMax: 15, Scheme: dosage.SchemePerKgPerDose, IntervalMin: f64(4), IntervalMax: f64(6)},
		{MedicationID: 2, Route: dosage.RouteIntravenous, DoseMin: 10, DoseMax: 15, Scheme: dosage.SchemePerKgPerDose, IntervalMin: f64(6), IntervalMax: f64(6)},
		{MedicationID: 3, Route: dosage.RouteIntravenous, DoseMin: 50, DoseMax: 100, Scheme: dosage.SchemePerKgPerDay, IntervalMin: f64(12), IntervalMax: f64(24)},
		{MedicationID: 4, Route: dosage.RouteOral, DoseMin: 5, DoseMax: 10, Scheme: dosage.SchemePerKgPerDose, IntervalMin: f64(6), IntervalMax: f64(8)},
		// Dexametasona IV queda sin regla a propósito (NO_RULE_FOR_ROUTE)
	}

	return catalog.Assemble(meds, pres, rules)
}
