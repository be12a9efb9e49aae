package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
	CTALabel   string
	CTAURL     string
}

// ScoreLine is one factor of the lead score shown in an alert.
type ScoreLine struct {
	Label  string
	Points int
}

// LeadAlertData is rendered into the new-lead alert sent to a rep.
type LeadAlertData struct {
	RepName           string
	LeadName          string
	JobTitle          string
	FirmName          string
	ResearchInterest  string
	LeadScore         int
	Breakdown         []ScoreLine
	IsExistingAccount bool
	DashboardURL      string
}

type StaleLeadRow struct {
	Name            string
	FirmName        string
	DaysSinceRouted int
	URL             string
}

type StaleReminderData struct {
	RepName string
	Leads   []StaleLeadRow
}

// CountRow is a labelled count in the digest tables.
type CountRow struct {
	Label string
	Count int
}

type DigestData struct {
	Date           string
	TotalLeads     int
	StaleLeads     int
	ConversionRate float64
	ByTerritory    []CountRow
	ByBrand        []CountRow
}

type leadAlertEmailData struct {
	baseEmailData
	LeadAlertData
	ScoreColor string
}

type staleReminderEmailData struct {
	baseEmailData
	StaleReminderData
	Count int
}

type digestEmailData struct {
	baseEmailData
	DigestData
	ConversionLabel string
}

func renderLeadAlert(data LeadAlertData) (string, error) {
	return renderEmailTemplate("lead_alert.html", leadAlertEmailData{
		baseEmailData: baseEmailData{
			Title:      "New lead assigned",
			Heading:    "New Lead Assigned",
			Subheading: "Lead Router",
			CTALabel:   "View Lead Details",
			CTAURL:     data.DashboardURL,
		},
		LeadAlertData: data,
		ScoreColor:    scoreColor(data.LeadScore),
	})
}

func renderStaleReminder(data StaleReminderData) (string, error) {
	return renderEmailTemplate("stale_reminder.html", staleReminderEmailData{
		baseEmailData: baseEmailData{
			Title:   "Stale lead reminder",
			Heading: "Stale Lead Reminder",
		},
		StaleReminderData: data,
		Count:             len(data.Leads),
	})
}

func renderDigest(data DigestData) (string, error) {
	return renderEmailTemplate("daily_digest.html", digestEmailData{
		baseEmailData: baseEmailData{
			Title:      "Daily lead digest",
			Heading:    "Daily Lead Digest",
			Subheading: data.Date,
		},
		DigestData:      data,
		ConversionLabel: FormatRate(data.ConversionRate),
	})
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

func scoreColor(score int) string {
	switch {
	case score >= 75:
		return "#dc2626"
	case score >= 50:
		return "#ea580c"
	case score >= 25:
		return "#2563eb"
	default:
		return "#6b7280"
	}
}

// FormatRate renders a 0..1 fraction as a percentage with one decimal.
func FormatRate(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate*100)
}
