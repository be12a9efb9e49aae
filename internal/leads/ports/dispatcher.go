package ports

import (
	"context"

	"github.com/google/uuid"
)

// LeadDispatcher hands a new lead to the routing pipeline without waiting
// for it to finish.
type LeadDispatcher interface {
	DispatchLead(ctx context.Context, leadID uuid.UUID) error
}
