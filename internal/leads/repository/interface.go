package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// =====================================
// Segregated Interfaces (Interface Segregation Principle)
// =====================================

// LeadReader provides read-only access to lead data.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	GetDetail(ctx context.Context, id uuid.UUID) (LeadDetail, error)
	List(ctx context.Context, params ListParams) ([]LeadListItem, int, error)
}

// LeadWriter creates leads and changes their ownership.
type LeadWriter interface {
	Create(ctx context.Context, params CreateLeadParams) (Lead, error)
	Reassign(ctx context.Context, leadID uuid.UUID, rep SalesRep, actor string) error
}

// RepReader looks up sales reps.
type RepReader interface {
	GetRep(ctx context.Context, id uuid.UUID) (SalesRep, error)
}

// NoteStore manages lead notes.
type NoteStore interface {
	AddNote(ctx context.Context, leadID uuid.UUID, author, content string) (LeadNote, error)
	ListNotes(ctx context.Context, leadID uuid.UUID) ([]LeadNote, error)
}

// AccountFinder resolves firms to existing accounts.
type AccountFinder interface {
	FindAccountByDomain(ctx context.Context, domain string) (*Account, error)
	FindAccountByName(ctx context.Context, name string) (*Account, error)
	FindAccountByNamePrefix(ctx context.Context, prefix string) (*Account, error)
}

// TerritoryLister lists territories in stable first-match order.
type TerritoryLister interface {
	ListTerritoriesWithReps(ctx context.Context) ([]Territory, error)
}

// RoutingStore holds the claim and the atomic routing write.
type RoutingStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	ClaimForRouting(ctx context.Context, id uuid.UUID, lease time.Duration) (bool, error)
	ReleaseClaim(ctx context.Context, id uuid.UUID) error
	ApplyRouting(ctx context.Context, update RoutingUpdate) error
	ListUnprocessed(ctx context.Context, limit int, lease time.Duration) ([]uuid.UUID, error)
}

// LifecycleStore holds status transitions and stale lookups.
type LifecycleStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	Transition(ctx context.Context, params TransitionParams) error
	ListStaleCandidates(ctx context.Context, cutoff time.Time) ([]StaleCandidate, error)
}

// StatsReader provides dashboard and digest aggregates.
type StatsReader interface {
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
	AverageHoursToContact(ctx context.Context) (*float64, error)
	CountByBrand(ctx context.Context, since time.Time) ([]KeyCount, error)
	CountByTerritory(ctx context.Context, since time.Time) ([]KeyCount, error)
	ConversionByTerritory(ctx context.Context) ([]ConversionCount, error)
	ConversionByBrand(ctx context.Context) ([]ConversionCount, error)
	ListPipeline(ctx context.Context, params PipelineParams) ([]LeadListItem, error)
}

// LeadsRepository combines every interface for full repository access.
type LeadsRepository interface {
	LeadReader
	LeadWriter
	RepReader
	NoteStore
	AccountFinder
	TerritoryLister
	RoutingStore
	LifecycleStore
	StatsReader
}

// Compile-time check that Repository implements all interfaces
var _ LeadsRepository = (*Repository)(nil)
