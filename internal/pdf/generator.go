// Package pdf renders a quote aggregate as a PDF document using maroto/v2.
// The document carries the quote header, the supply and labor tables, the
// totals block and a QR code with the quote reference.
package pdf

import (
	"fmt"
	"strings"
	"time"

	"chanitec_backend/internal/quotes/transport"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ── Colour palette ──────────────────────────────────────────────────────

var (
	colorPrimary   = &props.Color{Red: 17, Green: 24, Blue: 39}    // near-black
	colorSecondary = &props.Color{Red: 107, Green: 114, Blue: 128} // gray-500
	colorAccent    = &props.Color{Red: 0, Green: 92, Blue: 169}    // chanitec blue
	colorTableHead = &props.Color{Red: 241, Green: 245, Blue: 249} // slate-100
	colorTableAlt  = &props.Color{Red: 249, Green: 250, Blue: 251} // gray-50
	colorGreen     = &props.Color{Red: 22, Green: 163, Blue: 74}   // green-600
	colorBorder    = &props.Color{Red: 226, Green: 232, Blue: 240} // slate-200
)

const qrSize = 256

const archiveFolder = "quotes"

// ArchiveKey is the object key under which a confirmed quote's PDF is stored.
func ArchiveKey(quoteID string) string {
	return archiveFolder + "/" + quoteID + ".pdf"
}

// QuotePDFData holds everything the document shows.
type QuotePDFData struct {
	CompanyName string
	Quote       transport.QuoteAggregate
	GeneratedAt time.Time
}

// Reference is the text encoded in the QR code: the confirmed reference
// when there is one, the quote id otherwise.
func (d QuotePDFData) Reference() string {
	if d.Quote.NumberChanitec != nil && strings.TrimSpace(*d.Quote.NumberChanitec) != "" {
		return *d.Quote.NumberChanitec
	}
	return d.Quote.ID
}

// GenerateQuotePDF creates the PDF document for one quote.
func GenerateQuotePDF(data QuotePDFData) ([]byte, error) {
	if data.GeneratedAt.IsZero() {
		data.GeneratedAt = time.Now()
	}

	qr, err := qrcode.Encode(data.Reference(), qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("encode reference: %w", err)
	}

	cfg := config.NewBuilder().
		WithLeftMargin(15).
		WithTopMargin(12).
		WithRightMargin(15).
		Build()

	m := maroto.New(cfg)

	if err := m.RegisterFooter(buildFooter(data)); err != nil {
		return nil, fmt.Errorf("register footer: %w", err)
	}

	m.AddRows(buildHeader(data, qr)...)
	m.AddRows(row.New(1).WithStyle(&props.Cell{
		BorderType:  border.Bottom,
		BorderColor: colorBorder,
	}))
	m.AddRows(row.New(6))

	m.AddRows(buildMetaBlock(data)...)
	m.AddRows(row.New(6))

	m.AddRows(buildSupplyTable(data.Quote)...)
	m.AddRows(row.New(4))
	m.AddRows(buildLaborTable(data.Quote)...)
	m.AddRows(row.New(4))

	m.AddRows(buildTotalsBlock(data.Quote.Quote)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Header ──────────────────────────────────────────────────────────────

func buildHeader(data QuotePDFData, qr []byte) []core.Row {
	nameCol := col.New(7).Add(
		text.New(data.CompanyName, props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Color: colorPrimary,
			Top:   4,
		}),
	)

	titleCol := col.New(3).Add(
		text.New("DEVIS", props.Text{
			Size:  24,
			Style: fontstyle.Bold,
			Align: align.Right,
			Color: colorAccent,
		}),
		text.New(data.Reference(), props.Text{
			Size:  9,
			Align: align.Right,
			Color: colorSecondary,
			Top:   12,
		}),
	)

	qrCol := col.New(2).Add(
		image.NewFromBytes(qr, extension.Png, props.Rect{Percent: 90, Center: true}),
	)

	return []core.Row{row.New(24).Add(nameCol, titleCol, qrCol)}
}

// ── Quote details ───────────────────────────────────────────────────────

func buildMetaBlock(data QuotePDFData) []core.Row {
	q := data.Quote.Quote
	label := props.Text{Size: 7, Style: fontstyle.Bold, Color: colorAccent}
	value := props.Text{Size: 9, Color: colorPrimary}
	right := props.Text{Size: 8, Color: colorSecondary, Align: align.Right}

	status := "Non confirmé"
	statusColor := colorSecondary
	if q.Confirmed {
		status = "Confirmé"
		statusColor = colorGreen
	}

	rows := []core.Row{
		row.New(5).Add(
			col.New(4).Add(text.New("CLIENT", label)),
			col.New(4).Add(text.New("SITE", label)),
			col.New(4).Add(text.New("DÉTAILS", props.Text{Size: 7, Style: fontstyle.Bold, Color: colorAccent, Align: align.Right})),
		),
		row.New(5).Add(
			col.New(4).Add(text.New(q.ClientName, props.Text{Size: 9, Style: fontstyle.Bold, Color: colorPrimary})),
			col.New(4).Add(text.New(q.SiteName, value)),
			col.New(4).Add(text.New("Date : "+formatDate(q.Date), right)),
		),
		row.New(5).Add(
			col.New(8).Add(text.New(q.Object, props.Text{Size: 8, Color: colorSecondary})),
			col.New(4).Add(text.New("Statut : "+status, props.Text{Size: 8, Style: fontstyle.Bold, Color: statusColor, Align: align.Right})),
		),
	}
	if q.ReminderDate != nil {
		rows = append(rows, row.New(5).Add(
			col.New(8),
			col.New(4).Add(text.New("Relance : "+formatDate(*q.ReminderDate), right)),
		))
	}
	return rows
}

// ── Item tables ─────────────────────────────────────────────────────────

func sectionTitle(title, description string) []core.Row {
	rows := []core.Row{row.New(7).Add(
		col.New(12).Add(text.New(title, props.Text{Size: 8, Style: fontstyle.Bold, Color: colorAccent})),
	)}
	if description != "" {
		rows = append(rows, row.New(5).Add(
			col.New(12).Add(text.New(description, props.Text{Size: 8, Color: colorSecondary})),
		))
	}
	return rows
}

func tableHeader(labels []string, widths []int) core.Row {
	cols := make([]core.Col, len(labels))
	for i, l := range labels {
		style := props.Text{Size: 7.5, Style: fontstyle.Bold, Color: colorPrimary, Top: 1.5}
		if i > 0 {
			style.Align = align.Right
		}
		cols[i] = col.New(widths[i]).Add(text.New(l, style))
	}
	return row.New(7).Add(cols...).WithStyle(&props.Cell{
		BackgroundColor: colorTableHead,
		BorderType:      border.Bottom,
		BorderColor:     colorBorder,
	})
}

func tableRow(cells []string, widths []int, idx int) core.Row {
	cols := make([]core.Col, len(cells))
	for i, c := range cells {
		style := props.Text{Size: 8, Color: colorPrimary, Top: 1}
		if i > 0 {
			style.Align = align.Right
		}
		cols[i] = col.New(widths[i]).Add(text.New(c, style))
	}
	r := row.New(7).Add(cols...)
	if idx%2 == 0 {
		r.WithStyle(&props.Cell{BackgroundColor: colorTableAlt})
	}
	return r
}

func buildSupplyTable(agg transport.QuoteAggregate) []core.Row {
	widths := []int{6, 2, 2, 2}
	rows := sectionTitle("FOURNITURES", agg.SupplyDescription)
	rows = append(rows, tableHeader([]string{"Désignation", "Quantité", "Prix unitaire", "Montant"}, widths))
	for i, item := range agg.SupplyItems {
		rows = append(rows, tableRow([]string{
			item.Description,
			formatNumber(item.Quantity),
			formatAmount(item.PriceEuro),
			formatAmount(item.Quantity * item.PriceEuro),
		}, widths, i))
	}
	return rows
}

func buildLaborTable(agg transport.QuoteAggregate) []core.Row {
	widths := []int{4, 2, 2, 2, 2}
	rows := sectionTitle("MAIN D'ŒUVRE", agg.LaborDescription)
	rows = append(rows, tableHeader([]string{"Désignation", "Techniciens", "Heures", "Majoration", "Taux horaire"}, widths))
	for i, item := range agg.LaborItems {
		rows = append(rows, tableRow([]string{
			item.Description,
			fmt.Sprintf("%d", item.NbTechnicians),
			formatNumber(item.NbHours),
			"x" + formatNumber(item.WeekendMultiplier),
			formatAmount(item.PriceEuro),
		}, widths, i))
	}
	return rows
}

// ── Totals block ────────────────────────────────────────────────────────

func buildTotalsBlock(q transport.Quote) []core.Row {
	labelStyle := props.Text{Size: 9, Color: colorSecondary, Align: align.Right}
	valueStyle := props.Text{Size: 9, Color: colorPrimary, Align: align.Right}

	line := func(label string, amount float64) core.Row {
		return row.New(6).Add(
			col.New(9).Add(text.New(label, labelStyle)),
			col.New(3).Add(text.New(formatAmount(amount), valueStyle)),
		)
	}

	rows := []core.Row{
		row.New(1).WithStyle(&props.Cell{BorderType: border.Bottom, BorderColor: colorBorder}),
		row.New(3),
		line("Total fournitures HT", q.TotalSuppliesHT),
		line("Total main d'œuvre HT", q.TotalLaborHT),
	}
	if q.Remise > 0 {
		rows = append(rows, line("Remise", -q.Remise))
	}
	rows = append(rows,
		line("Total HT", q.TotalHT),
		line(fmt.Sprintf("TVA (%s %%)", formatNumber(q.TVA)), q.TotalTTC-q.TotalHT),
		row.New(2),
		row.New(10).Add(
			col.New(9).Add(text.New("TOTAL TTC", props.Text{
				Size:  12,
				Style: fontstyle.Bold,
				Color: colorPrimary,
				Align: align.Right,
				Top:   2,
			})),
			col.New(3).Add(text.New(formatAmount(q.TotalTTC), props.Text{
				Size:  12,
				Style: fontstyle.Bold,
				Color: colorPrimary,
				Align: align.Right,
				Top:   2,
			})),
		).WithStyle(&props.Cell{
			BackgroundColor: colorTableHead,
			BorderType:      border.Top | border.Bottom,
			BorderColor:     colorBorder,
		}),
	)
	return rows
}

// ── Footer ──────────────────────────────────────────────────────────────

func buildFooter(data QuotePDFData) core.Row {
	footer := data.CompanyName + "  ·  Généré le " + data.GeneratedAt.Format("02/01/2006 15:04")
	return row.New(10).Add(
		col.New(12).Add(
			text.New(footer, props.Text{
				Size:  6.5,
				Color: colorSecondary,
				Align: align.Center,
				Top:   4,
			}),
		),
	).WithStyle(&props.Cell{
		BorderType:  border.Top,
		BorderColor: colorBorder,
	})
}

// ── Helpers ─────────────────────────────────────────────────────────────

var printer = message.NewPrinter(language.French)

// The core PDF fonts have no glyph for the narrow no-break space French
// grouping uses.
var spaceReplacer = strings.NewReplacer("\u202f", " ", "\u00a0", " ")

func formatAmount(v float64) string {
	return spaceReplacer.Replace(printer.Sprintf("%.2f", v)) + " €"
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return spaceReplacer.Replace(printer.Sprintf("%d", int64(v)))
	}
	return spaceReplacer.Replace(printer.Sprintf("%.2f", v))
}

func formatDate(isoDate string) string {
	t, err := time.Parse(time.DateOnly, isoDate)
	if err != nil {
		return isoDate
	}
	return t.Format("02/01/2006")
}
