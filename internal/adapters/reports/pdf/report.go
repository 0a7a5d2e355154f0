// Package pdf genera el reporte clínico de una consulta a partir del snapshot.
package pdf

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"pediatric-dosage/internal/domain/consultations"
	"pediatric-dosage/internal/domain/dosage"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

const disclaimer = "Esta herramienta es exclusivamente educativa. La prescripcion, validacion y " +
	"administracion es responsabilidad unica del personal de salud calificado."

type rgb struct{ r, g, b int }

var (
	colorOral       = rgb{13, 148, 136}
	colorParenteral = rgb{220, 38, 38}
	bgOral          = rgb{240, 253, 250}
	bgParenteral    = rgb{254, 242, 242}
	colorSecondary  = rgb{55, 65, 81}
)

// Renderer implementa consultations.ReportRenderer con fpdf.
type Renderer struct {
	loc *time.Location
}

// NewRenderer: loc es la zona horaria de la fecha impresa (nil = UTC).
func NewRenderer(loc *time.Location) *Renderer {
	if loc == nil {
		loc = time.UTC
	}
	return &Renderer{loc: loc}
}

func (r *Renderer) Render(w io.Writer, s consultations.Snapshot) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(s.CreatedAt)
	pdf.SetTitle("Reporte clinico de dosis", true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	d := &doc{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	d.primary, d.light = colorOral, bgOral
	if s.Route != dosage.RouteOral {
		d.primary, d.light = colorParenteral, bgParenteral
	}

	y := d.header(s.CreatedAt.In(r.loc))
	y = d.data(s, y)
	y = d.steps(s.Result, y)
	y = d.result(s, y)
	d.summary(s.Result, y)
	d.footer()

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	return pdf.Output(w)
}

type doc struct {
	pdf     *fpdf.Fpdf
	tr      func(string) string
	primary rgb
	light   rgb
}

func (d *doc) text(x, y float64, s string) {
	d.pdf.Text(x, y, d.tr(s))
}

func (d *doc) centered(cx, y float64, s string) {
	s = d.tr(s)
	d.pdf.Text(cx-d.pdf.GetStringWidth(s)/2, y, s)
}

func (d *doc) font(style string, size float64) {
	d.pdf.SetFont("Helvetica", style, size)
}

func (d *doc) textColor(c rgb) { d.pdf.SetTextColor(c.r, c.g, c.b) }

func (d *doc) fillColor(c rgb) { d.pdf.SetFillColor(c.r, c.g, c.b) }

func (d *doc) drawColor(c rgb) { d.pdf.SetDrawColor(c.r, c.g, c.b) }

func (d *doc) sectionTitle(title string, y float64) float64 {
	d.font("B", 9)
	d.textColor(rgb{0, 0, 0})
	d.text(15, y, title)
	y += 4
	d.pdf.SetLineWidth(0.3)
	d.drawColor(rgb{200, 200, 200})
	d.pdf.Line(15, y, 195, y)
	return y + 4
}

func (d *doc) header(at time.Time) float64 {
	d.fillColor(d.primary)
	d.pdf.Rect(0, 0, 210, 30, "F")

	d.textColor(rgb{255, 255, 255})
	d.font("B", 18)
	d.centered(105, 15, "REPORTE CLINICO DE DOSIS")
	d.font("", 8)
	d.centered(105, 24, at.Format("02/01/2006 - 15:04:05"))
	return 45
}

func (d *doc) data(s consultations.Snapshot, y float64) float64 {
	y = d.sectionTitle("1. DATOS DEL PACIENTE Y MEDICAMENTO", y)

	left := [][2]string{
		{"Paciente:", num(s.Input.WeightKg) + " kg"},
		{"Medicamento:", safe(s.Medication.GenericName)},
		{"Prescripcion:", num(s.Input.Dose) + " " + s.Result.Scheme.Label()},
		{"Presentacion:", plain(s.Presentation.ConcMg) + "mg/" + plain(s.Presentation.ConcVol) + "mL"},
	}
	right := [][2]string{
		{"Via:", s.Route.Label()},
		{"Tipo:", safe(s.Medication.TypeName)},
		{"Intervalo:", "Cada " + num(s.Input.IntervalHours) + " h"},
		{"Forma:", safe(s.Presentation.Form)},
	}

	for i := range left {
		row := y + float64(i)*5
		d.font("B", 8)
		d.textColor(colorSecondary)
		d.text(15, row, left[i][0])
		d.text(115, row, right[i][0])

		d.font("", 8)
		d.textColor(rgb{0, 0, 0})
		d.text(45, row, left[i][1])
		d.text(135, row, right[i][1])
	}
	return y + 21
}

func (d *doc) steps(res dosage.Result, y float64) float64 {
	y = d.sectionTitle("2. MEMORIA DE CALCULO", y) - 1

	height := 4 + float64(len(res.Steps))*7
	d.fillColor(rgb{248, 250, 252})
	d.drawColor(rgb{226, 232, 240})
	d.pdf.Rect(15, y, 180, height, "FD")

	fy := y + 3
	for i, st := range res.Steps {
		d.font("B", 7)
		d.textColor(colorSecondary)
		d.text(18, fy, strconv.Itoa(i+1)+". "+safe(st.Label))
		fy += 3

		d.pdf.SetFont("Courier", "B", 7)
		d.textColor(rgb{0, 0, 0})
		d.text(20, fy, safe(st.Formula))
		fy += 4
	}
	return y + height + 5
}

func (d *doc) result(s consultations.Snapshot, y float64) float64 {
	y = d.sectionTitle("3. RESULTADO FINAL", y)

	d.pdf.SetLineWidth(1.5)
	d.fillColor(d.light)
	d.drawColor(d.primary)
	d.pdf.Rect(45, y, 120, 25, "FD")

	d.textColor(d.primary)
	d.font("B", 24)
	d.centered(105, y+12, fixed2(s.Result.MlPerDose))

	d.textColor(rgb{100, 100, 100})
	d.font("B", 10)
	d.text(125, y+12, "mL")

	d.textColor(rgb{60, 60, 60})
	d.font("", 9)
	sub := "Administrar cada " + num(s.Input.IntervalHours) + " h"
	if inf := s.Result.Infusion; inf != nil {
		sub = "+ " + plain(inf.DilutionMl) + " mL diluyente"
	}
	d.centered(105, y+21, sub)

	if s.Result.Alert != dosage.AlertNone {
		d.textColor(colorParenteral)
		d.font("B", 8)
		d.centered(105, y+30, s.Result.Alert.Message())
		y += 5
	}
	return y + 28
}

func (d *doc) summary(res dosage.Result, y float64) {
	const (
		tableX = 25.0
		tableW = 160.0
		colW   = tableW / 2
	)

	d.pdf.SetLineWidth(0.3)
	d.fillColor(rgb{240, 240, 240})
	d.drawColor(rgb{150, 150, 150})
	d.pdf.Rect(tableX, y, tableW, 6, "FD")

	title := "RESUMEN DIARIO"
	if res.Infusion != nil {
		title = "VELOCIDAD DE INFUSION"
	}
	d.textColor(rgb{50, 50, 50})
	d.font("B", 8)
	d.centered(tableX+tableW/2, y+4, title)
	y += 6

	if inf := res.Infusion; inf != nil {
		cells := [][3]string{
			{fmt.Sprintf("Normogotero (%d)", dosage.DropFactor), strconv.Itoa(inf.DropsPerMin), "gotas/min"},
			{"Microgotero/Bomba", strconv.Itoa(inf.MlPerHour), "mL/h"},
		}
		for i, c := range cells {
			x := tableX + float64(i)*colW
			d.pdf.Rect(x, y, colW, 10, "D")
			d.font("B", 7)
			d.textColor(rgb{50, 50, 50})
			d.centered(x+colW/2, y+3, c[0])
			d.font("B", 11)
			d.textColor(d.primary)
			d.centered(x+colW/2, y+8, c[1])
			d.font("", 6)
			d.textColor(rgb{100, 100, 100})
			d.centered(x+colW/2, y+13, c[2])
		}
		return
	}

	rows := [][2][2]string{
		{{"Tomas/dia", strconv.Itoa(res.DosesPerDay)}, {"Total mL/dia", fixed2(res.MlPerDay)}},
		{{"Dosis/toma (mg)", fixed2(res.MgPerDose)}, {"Total mg/dia", fixed2(res.MgPerDay)}},
	}
	for _, row := range rows {
		for i, c := range row {
			x := tableX + float64(i)*colW
			d.pdf.Rect(x, y, colW, 8, "D")
			d.font("B", 7)
			d.textColor(rgb{50, 50, 50})
			d.centered(x+colW/2, y+3.5, c[0])
			d.font("B", 10)
			d.textColor(d.primary)
			d.centered(x+colW/2, y+7, c[1])
		}
		y += 9
	}
}

func (d *doc) footer() {
	pw, ph := d.pdf.GetPageSize()

	d.fillColor(rgb{255, 240, 240})
	d.drawColor(rgb{255, 200, 200})
	d.pdf.SetLineWidth(0.5)
	d.pdf.Rect(10, ph-30, pw-20, 25, "FD")

	d.textColor(rgb{200, 0, 0})
	d.font("B", 8)
	d.centered(pw/2, ph-22, "! ADVERTENCIA DE SEGURIDAD")

	d.textColor(rgb{50, 50, 50})
	d.font("", 7)
	d.pdf.SetXY(15, ph-19)
	d.pdf.MultiCell(pw-30, 3.5, d.tr(disclaimer), "", "C", false)
}

func safe(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func num(p *float64) string {
	if p == nil {
		return "-"
	}
	return plain(*p)
}

func plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func fixed2(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
