package crm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"leadrouter/platform/logger"
)

// MockClient keeps contacts in memory and logs every call. Upserting the
// same email twice returns the same contact.
type MockClient struct {
	mu       sync.Mutex
	contacts map[string]*Contact
	seq      int
	log      *logger.Logger
}

func NewMockClient(log *logger.Logger) *MockClient {
	return &MockClient{contacts: make(map[string]*Contact), log: log}
}

func (m *MockClient) UpsertContact(_ context.Context, input ContactInput) (Contact, error) {
	key := strings.ToLower(strings.TrimSpace(input.Email))
	if key == "" {
		return Contact{}, fmt.Errorf("crm contact email is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	contact, ok := m.contacts[key]
	if !ok {
		m.seq++
		contact = &Contact{ID: fmt.Sprintf("crm-%d", m.seq), Email: key}
		m.contacts[key] = contact
	}
	contact.FirstName = input.FirstName
	contact.LastName = input.LastName

	m.log.Info("mock crm contact upserted", "contactId", contact.ID, "email", key)
	return copyContact(contact), nil
}

func (m *MockClient) AddToDistributionList(_ context.Context, contactID, listName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, contact := range m.contacts {
		if contact.ID != contactID {
			continue
		}
		for _, existing := range contact.DistributionLists {
			if existing == listName {
				return nil
			}
		}
		contact.DistributionLists = append(contact.DistributionLists, listName)
		m.log.Info("mock crm list membership added", "contactId", contactID, "list", listName)
		return nil
	}
	return fmt.Errorf("crm contact %s not found", contactID)
}

// Contact returns the stored contact for email.
func (m *MockClient) Contact(email string) (Contact, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contacts[strings.ToLower(email)]
	if !ok {
		return Contact{}, false
	}
	return copyContact(c), true
}

func copyContact(c *Contact) Contact {
	out := *c
	out.DistributionLists = append([]string(nil), c.DistributionLists...)
	return out
}
