package email

import (
	"context"
	"strings"
	"testing"
)

func TestRenderLeadAlert(t *testing.T) {
	html, err := renderLeadAlert(LeadAlertData{
		RepName:           "Sarah Chen",
		LeadName:          "Ann Lee",
		JobTitle:          "CIO",
		FirmName:          "Fidelity <Research>",
		ResearchInterest:  "Equity",
		LeadScore:         80,
		Breakdown:         []ScoreLine{{Label: "Existing account", Points: 30}},
		IsExistingAccount: true,
		DashboardURL:      "https://leads.example.com/leads/123",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, want := range []string{
		"Ann Lee, CIO",
		"Fidelity &lt;Research&gt;",
		"Existing Account",
		"#dc2626",
		"https://leads.example.com/leads/123",
		"Existing account",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in rendered alert", want)
		}
	}
}

func TestRenderStaleReminder(t *testing.T) {
	html, err := renderStaleReminder(StaleReminderData{
		RepName: "Marcus Johnson",
		Leads: []StaleLeadRow{
			{Name: "Ann Lee", FirmName: "Acme", DaysSinceRouted: 4, URL: "https://x/leads/1"},
			{Name: "Bo Park", FirmName: "Beta", DaysSinceRouted: 6},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, "<strong>2</strong> lead(s)") {
		t.Fatal("expected stale count in body")
	}
	if !strings.Contains(html, `<a href="https://x/leads/1">Ann Lee</a>`) {
		t.Fatal("expected linked lead row")
	}
	if !strings.Contains(html, "6d") {
		t.Fatal("expected days column")
	}
}

func TestRenderDigest(t *testing.T) {
	html, err := renderDigest(DigestData{
		Date:           "2026-10-13",
		TotalLeads:     7,
		StaleLeads:     2,
		ConversionRate: 0.125,
		ByTerritory:    []CountRow{{Label: "Northeast", Count: 4}},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"2026-10-13", "12.5%", "Northeast"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in digest", want)
		}
	}
	if strings.Contains(html, "By Brand") {
		t.Fatal("brand table should be omitted when empty")
	}
}

func TestSubjects(t *testing.T) {
	if got := LeadAlertSubject("Ann Lee", "Acme", 55); got != "New Lead: Ann Lee at Acme (Score: 55)" {
		t.Fatalf("unexpected alert subject %q", got)
	}
	if got := StaleReminderSubject(3); got != "Action Required: 3 stale lead(s) need attention" {
		t.Fatalf("unexpected stale subject %q", got)
	}
	if got := DigestSubject("2026-10-13"); got != "Lead Digest: 2026-10-13" {
		t.Fatalf("unexpected digest subject %q", got)
	}
}

func TestScoreColor(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{90, "#dc2626"},
		{75, "#dc2626"},
		{50, "#ea580c"},
		{25, "#2563eb"},
		{10, "#6b7280"},
	}
	for _, tt := range tests {
		if got := scoreColor(tt.score); got != tt.want {
			t.Fatalf("score %d: expected %s, got %s", tt.score, tt.want, got)
		}
	}
}

func TestNewSenderWithoutSMTPIsNoop(t *testing.T) {
	sender, err := NewSender(stubEmailConfig{})
	if err != nil {
		t.Fatalf("new sender: %v", err)
	}
	if _, ok := sender.(NoopSender); !ok {
		t.Fatalf("expected NoopSender, got %T", sender)
	}
	if err := sender.SendDigestEmail(context.Background(), "x@example.com", DigestData{}); err != nil {
		t.Fatalf("noop send: %v", err)
	}
}

func TestSMTPMessage(t *testing.T) {
	s := NewSMTPSender("smtp.example.com", 587, "", "", "leads@example.com", "Lead Router")
	if _, err := s.newMessage("rep@example.com", "hi", "<p>x</p>"); err != nil {
		t.Fatalf("new message: %v", err)
	}
	if _, err := s.newMessage("not an address", "hi", "<p>x</p>"); err == nil {
		t.Fatal("expected invalid recipient error")
	}
}

type stubEmailConfig struct{}

func (stubEmailConfig) GetSMTPHost() string         { return "" }
func (stubEmailConfig) GetSMTPPort() int            { return 587 }
func (stubEmailConfig) GetSMTPUsername() string     { return "" }
func (stubEmailConfig) GetSMTPPassword() string     { return "" }
func (stubEmailConfig) GetEmailFromName() string    { return "" }
func (stubEmailConfig) GetEmailFromAddress() string { return "" }
func (stubEmailConfig) IsSMTPEnabled() bool         { return false }
