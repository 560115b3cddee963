package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

const subjectQuoteReminderFmt = "Relance devis %s - %s"

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
}

type quoteReminderEmailData struct {
	baseEmailData
	Reference      string
	ClientName     string
	SiteName       string
	Object         string
	QuoteDate      string
	ReminderDate   string
	TotalFormatted string
	HasAttachments bool
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func renderQuoteReminder(reminder QuoteReminder, hasAttachments bool) (subject, body string, err error) {
	subject = fmt.Sprintf(subjectQuoteReminderFmt, reminder.Reference, reminder.ClientName)
	body, err = renderEmailTemplate("quote_reminder.html", quoteReminderEmailData{
		baseEmailData: baseEmailData{
			Title:      "Relance devis",
			Heading:    "Devis en attente de confirmation",
			Subheading: "Ce devis n'a pas encore été confirmé.",
		},
		Reference:      reminder.Reference,
		ClientName:     reminder.ClientName,
		SiteName:       reminder.SiteName,
		Object:         reminder.Object,
		QuoteDate:      reminder.QuoteDate,
		ReminderDate:   reminder.ReminderDate,
		TotalFormatted: formatCurrencyEUR(reminder.TotalTTC),
		HasAttachments: hasAttachments,
	})
	return subject, body, err
}

// formatCurrencyEUR renders 1234.5 as "1 234,50 €".
func formatCurrencyEUR(amount float64) string {
	fixed := decimal.NewFromFloat(amount).StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	whole, frac, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte(' ')
		}
		grouped.WriteRune(r)
	}
	return sign + grouped.String() + "," + frac + " €"
}
