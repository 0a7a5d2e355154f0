// Package xlsx exporta el historial de consultas (consulta_dosis) a Excel.
package xlsx

import (
	"fmt"
	"io"
	"time"

	"pediatric-dosage/internal/domain/consultations"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Historial"

// Headers es el orden de columnas del archivo.
var Headers = []string{
	"ID",
	"Fecha",
	"Vía",
	"ID Medicamento",
	"ID Presentación",
	"Peso (kg)",
	"Dosis",
	"Unidad",
	"Intervalo (h)",
	"Tomas/día",
	"Dilución (mL)",
	"Infusión (min)",
}

var columnWidths = []float64{8, 20, 18, 15, 16, 10, 10, 13, 13, 10, 13, 14}

// HistoryExporter implementa consultations.HistoryExporter.
type HistoryExporter struct {
	loc *time.Location
}

// NewHistoryExporter: loc es la zona de la columna Fecha (nil = UTC).
func NewHistoryExporter(loc *time.Location) *HistoryExporter {
	if loc == nil {
		loc = time.UTC
	}
	return &HistoryExporter{loc: loc}
}

func (e *HistoryExporter) Export(w io.Writer, records []consultations.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F7F5"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for col, h := range Headers {
		if err := setCell(f, col+1, 1, h); err != nil {
			return err
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, name, name, columnWidths[col]); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	last, err := excelize.CoordinatesToCellName(len(Headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("set header style: %w", err)
	}

	for i, r := range records {
		row := i + 2 // fila 1 = encabezado
		values := []any{
			r.ID,
			r.CreatedAt.In(e.loc).Format("2006-01-02 15:04:05"),
			r.Route().Label(),
			r.MedicationID,
			r.PresentationID,
			r.WeightKg,
			r.Dose,
			r.DoseUnit,
			r.IntervalHours,
			r.DosesPerDay,
			optional(r.DilutionMl),
			optional(r.InfusionMinutes),
		}
		for col, v := range values {
			if v == nil {
				continue
			}
			if err := setCell(f, col+1, row, v); err != nil {
				return fmt.Errorf("row %d: %w", row, err)
			}
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze panes: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheetName, cell, v)
}

func optional(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
