package email

import "fmt"

const (
	subjectLeadAlertFmt     = "New Lead: %s at %s (Score: %d)"
	subjectStaleReminderFmt = "Action Required: %d stale lead(s) need attention"
	subjectDigestFmt        = "Lead Digest: %s"
)

// LeadAlertSubject is the subject line of a new-lead alert.
func LeadAlertSubject(leadName, firmName string, score int) string {
	return fmt.Sprintf(subjectLeadAlertFmt, leadName, firmName, score)
}

func StaleReminderSubject(count int) string {
	return fmt.Sprintf(subjectStaleReminderFmt, count)
}

func DigestSubject(date string) string {
	return fmt.Sprintf(subjectDigestFmt, date)
}
