package ports

import "context"

// ContactInput identifies a person to sync into the CRM.
type ContactInput struct {
	FirstName string
	LastName  string
	Email     string
}

// Contact is the CRM's view of a synced person.
type Contact struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
}

// CRM syncs routed leads into the external CRM.
type CRM interface {
	UpsertContact(ctx context.Context, input ContactInput) (Contact, error)
	AddToDistributionList(ctx context.Context, contactID, listName string) error
}
