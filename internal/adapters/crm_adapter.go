package adapters

import (
	"context"

	"leadrouter/internal/crm"
	"leadrouter/internal/leads/ports"
)

// CRMAdapter adapts the CRM client for the leads domain.
type CRMAdapter struct {
	client crm.Client
}

func NewCRMAdapter(client crm.Client) *CRMAdapter {
	return &CRMAdapter{client: client}
}

func (a *CRMAdapter) UpsertContact(ctx context.Context, input ports.ContactInput) (ports.Contact, error) {
	c, err := a.client.UpsertContact(ctx, crm.ContactInput{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
	})
	if err != nil {
		return ports.Contact{}, err
	}
	return ports.Contact{ID: c.ID, FirstName: c.FirstName, LastName: c.LastName, Email: c.Email}, nil
}

func (a *CRMAdapter) AddToDistributionList(ctx context.Context, contactID, listName string) error {
	return a.client.AddToDistributionList(ctx, contactID, listName)
}

// Compile-time check.
var _ ports.CRM = (*CRMAdapter)(nil)
