package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"leadrouter/platform/apperr"
	"leadrouter/platform/logger"
	"leadrouter/platform/sanitize"

	"github.com/google/uuid"
)

// Store is the persistence the directory service needs.
type Store interface {
	ListTerritories(ctx context.Context) ([]Territory, error)
	UpdateTerritory(ctx context.Context, id uuid.UUID, upd TerritoryUpdate) (Territory, error)
	ListActiveReps(ctx context.Context) ([]Rep, error)
	ListAccounts(ctx context.Context) ([]Account, error)
	UpsertAccount(ctx context.Context, p AccountParams) (Account, bool, error)
	CountTerritories(ctx context.Context) (int, error)
	SeedTerritories(ctx context.Context, seeds []TerritorySeed) (int, error)
}

type Service struct {
	store Store
	log   *logger.Logger
}

func NewService(store Store, log *logger.Logger) *Service {
	return &Service{store: store, log: log}
}

func (s *Service) ListTerritories(ctx context.Context) ([]TerritoryResponse, error) {
	territories, err := s.store.ListTerritories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list territories: %w", err)
	}
	out := make([]TerritoryResponse, 0, len(territories))
	for _, t := range territories {
		out = append(out, toTerritoryResponse(t))
	}
	return out, nil
}

func (s *Service) UpdateTerritory(ctx context.Context, id uuid.UUID, req UpdateTerritoryRequest) (TerritoryResponse, error) {
	upd := TerritoryUpdate{}
	switch {
	case req.Unassign:
		upd.SetRep = true
	case req.RepID != nil:
		upd.SetRep = true
		upd.RepID = req.RepID
	}
	if req.Regions != nil {
		upd.Regions = normalizeRegions(req.Regions)
	}
	if !upd.SetRep && upd.Regions == nil {
		return TerritoryResponse{}, apperr.Validation("nothing to update: provide repId, unassign or regions")
	}

	t, err := s.store.UpdateTerritory(ctx, id, upd)
	switch {
	case errors.Is(err, ErrTerritoryNotFound):
		return TerritoryResponse{}, apperr.NotFound("territory not found")
	case errors.Is(err, ErrRepNotFound):
		return TerritoryResponse{}, apperr.NotFound("sales rep not found")
	case err != nil:
		return TerritoryResponse{}, fmt.Errorf("update territory: %w", err)
	}

	s.log.Info("territory updated", "territoryId", id, "setRep", upd.SetRep, "regions", len(upd.Regions))
	return toTerritoryResponse(t), nil
}

func (s *Service) ListReps(ctx context.Context) ([]RepResponse, error) {
	reps, err := s.store.ListActiveReps(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reps: %w", err)
	}
	out := make([]RepResponse, 0, len(reps))
	for _, r := range reps {
		out = append(out, RepResponse{
			ID:     r.ID,
			Name:   r.Name,
			Email:  r.Email,
			Active: r.Active,
			Counts: RepCounts{Leads: r.LeadCount, Territories: r.TerritoryCount, Accounts: r.AccountCount},
		})
	}
	return out, nil
}

func (s *Service) ListAccounts(ctx context.Context) ([]AccountResponse, error) {
	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	out := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	return out, nil
}

// UpsertAccount creates or updates an account, matched by domain or else by
// firm name.
func (s *Service) UpsertAccount(ctx context.Context, req UpsertAccountRequest) (UpsertAccountResponse, error) {
	firmName := sanitize.Line(req.FirmName)
	if firmName == "" {
		return UpsertAccountResponse{}, apperr.Validation("firmName is required")
	}

	params := AccountParams{
		FirmName:  firmName,
		Domain:    optional(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(req.Domain)), "www.")),
		Territory: optional(sanitize.Line(req.Territory)),
		RepID:     req.RepID,
		Status:    strings.ToLower(strings.TrimSpace(req.Status)),
		FirmType:  optional(strings.ToLower(sanitize.Line(req.FirmType))),
		AUM:       req.AUM,
		City:      optional(sanitize.Line(req.City)),
		State:     optional(strings.ToUpper(sanitize.Line(req.State))),
		Country:   optional(strings.ToUpper(sanitize.Line(req.Country))),
	}
	if req.Products != nil {
		params.Products = make([]string, 0, len(req.Products))
		for _, p := range req.Products {
			if p = sanitize.Line(p); p != "" {
				params.Products = append(params.Products, p)
			}
		}
	}

	account, created, err := s.store.UpsertAccount(ctx, params)
	if errors.Is(err, ErrRepNotFound) {
		return UpsertAccountResponse{}, apperr.NotFound("sales rep not found")
	}
	if err != nil {
		return UpsertAccountResponse{}, fmt.Errorf("upsert account: %w", err)
	}

	s.log.Info("account upserted", "accountId", account.ID, "created", created)
	return UpsertAccountResponse{Account: toAccountResponse(account), Created: created}, nil
}

// Bootstrap seeds territories and their reps when the table is empty. It
// returns the number of territories inserted.
func (s *Service) Bootstrap(ctx context.Context, path string) (int, error) {
	n, err := s.store.CountTerritories(ctx)
	if err != nil {
		return 0, fmt.Errorf("count territories: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	seeds, err := LoadTerritorySeeds(path)
	if err != nil {
		return 0, err
	}

	inserted, err := s.store.SeedTerritories(ctx, seeds)
	if err != nil {
		return 0, fmt.Errorf("seed territories: %w", err)
	}

	source := path
	if source == "" {
		source = "embedded defaults"
	}
	s.log.Info("territories bootstrapped", "count", inserted, "source", source)
	return inserted, nil
}

func toRepRef(r *RepRef) *RepRefResponse {
	if r == nil {
		return nil
	}
	return &RepRefResponse{ID: r.ID, Name: r.Name, Email: r.Email}
}

func toTerritoryResponse(t Territory) TerritoryResponse {
	regions := t.Regions
	if regions == nil {
		regions = []string{}
	}
	return TerritoryResponse{
		ID:        t.ID,
		Name:      t.Name,
		Regions:   regions,
		Country:   t.Country,
		Rep:       toRepRef(t.Rep),
		UpdatedAt: t.UpdatedAt,
	}
}

func toAccountResponse(a Account) AccountResponse {
	products := a.Products
	if products == nil {
		products = []string{}
	}
	return AccountResponse{
		ID:        a.ID,
		FirmName:  a.FirmName,
		Domain:    a.Domain,
		Territory: a.Territory,
		Status:    a.Status,
		FirmType:  a.FirmType,
		AUM:       a.AUM,
		City:      a.City,
		State:     a.State,
		Country:   a.Country,
		Products:  products,
		Rep:       toRepRef(a.Rep),
		LeadCount: a.LeadCount,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
