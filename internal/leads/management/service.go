// Package management handles lead intake, queries, notes and reassignment.
package management

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"leadrouter/internal/events"
	"leadrouter/internal/leads/domain"
	"leadrouter/internal/leads/repository"
	"leadrouter/internal/leads/transport"
	"leadrouter/platform/apperr"
	"leadrouter/platform/logger"
	"leadrouter/platform/phone"
	"leadrouter/platform/sanitize"

	"github.com/google/uuid"
)

const (
	defaultPage     = 1
	defaultPageSize = 25
	maxPageSize     = 100
	maxNoteLength   = 2000

	leadNotFoundMsg = "lead not found"
	repNotFoundMsg  = "sales rep not found"
	defaultAuthor   = "User"
)

// Repository defines what the management service needs from storage.
type Repository interface {
	repository.LeadReader
	repository.LeadWriter
	repository.RepReader
	repository.NoteStore
}

// Service provides lead management operations.
type Service struct {
	repo     Repository
	eventBus events.Bus
	log      *logger.Logger
}

// New creates a new lead management service.
func New(repo Repository, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, eventBus: eventBus, log: log}
}

// CreateLead stores a sanitized NEW lead and announces it. Routing happens
// asynchronously through the LeadCreated subscriber.
func (s *Service) CreateLead(ctx context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	params := repository.CreateLeadParams{
		FirstName:        sanitize.Line(req.FirstName),
		LastName:         sanitize.Line(req.LastName),
		Email:            strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:            optional(phone.NormalizeE164(req.Phone, phone.DefaultRegion)),
		Title:            optional(sanitize.Line(req.Title)),
		FirmName:         sanitize.Line(req.FirmName),
		RegistrationType: strings.ToLower(strings.TrimSpace(req.RegistrationType)),
		ResearchInterest: sanitize.Line(req.ResearchInterest),
		Source:           optional(sanitize.Line(req.Source)),
		City:             optional(sanitize.Line(req.City)),
		State:            optional(strings.ToUpper(sanitize.Line(req.State))),
		Country:          strings.ToUpper(sanitize.Line(req.Country)),
		FirmType:         optional(strings.ToLower(sanitize.Line(req.FirmType))),
		AUM:              req.AUM,
	}
	if params.RegistrationType == "" {
		params.RegistrationType = domain.DefaultRegistrationType
	}
	if params.ResearchInterest == "" {
		params.ResearchInterest = domain.DefaultResearchInterest
	}
	if params.Country == "" {
		params.Country = domain.DefaultCountry
	}

	if missing := missingRequired(params); len(missing) > 0 {
		return transport.LeadResponse{}, apperr.Validation("missing required fields").
			WithDetails(map[string]any{"fields": missing})
	}

	lead, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.LeadResponse{}, fmt.Errorf("create lead: %w", err)
	}

	var source string
	if lead.Source != nil {
		source = *lead.Source
	}
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.LeadCreated{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    lead.ID,
			Source:    source,
		})
	}

	s.log.WithContext(ctx).WithLead(lead.ID.String()).Info("lead created", "source", source)
	return ToLeadResponse(repository.LeadListItem{Lead: lead}), nil
}

// ListLeads returns one page of leads with their rep and account.
func (s *Service) ListLeads(ctx context.Context, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	page := req.Page
	if page < 1 {
		page = defaultPage
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	params := repository.ListParams{
		Brand:     optional(req.Brand),
		Territory: optional(req.Territory),
		Search:    strings.TrimSpace(req.Search),
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
		Limit:     pageSize,
		Offset:    (page - 1) * pageSize,
	}
	if req.Status != "" {
		status, err := domain.ParseLeadStatus(strings.ToUpper(req.Status))
		if err != nil {
			return transport.LeadListResponse{}, apperr.Validation(err.Error())
		}
		raw := string(status)
		params.Status = &raw
	}
	if req.RepID != "" {
		repID, err := uuid.Parse(req.RepID)
		if err != nil {
			return transport.LeadListResponse{}, apperr.Validation("invalid repId")
		}
		params.RepID = &repID
	}

	items, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.LeadListResponse{}, fmt.Errorf("list leads: %w", err)
	}

	resp := transport.LeadListResponse{
		Items:      make([]transport.LeadResponse, 0, len(items)),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, ToLeadResponse(item))
	}
	return resp, nil
}

// GetLead returns a lead with its history and notes, newest first.
func (s *Service) GetLead(ctx context.Context, id uuid.UUID) (transport.LeadDetailResponse, error) {
	detail, err := s.repo.GetDetail(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return transport.LeadDetailResponse{}, apperr.NotFound(leadNotFoundMsg)
	}
	if err != nil {
		return transport.LeadDetailResponse{}, fmt.Errorf("get lead: %w", err)
	}
	return toLeadDetailResponse(detail), nil
}

// AddNote appends a sanitized note to a lead.
func (s *Service) AddNote(ctx context.Context, leadID uuid.UUID, author, content string) (transport.NoteResponse, error) {
	content = sanitize.Text(content)
	if content == "" {
		return transport.NoteResponse{}, apperr.Validation("note content is required")
	}
	if utf8.RuneCountInString(content) > maxNoteLength {
		return transport.NoteResponse{}, apperr.Validation(fmt.Sprintf("note content must be at most %d characters", maxNoteLength))
	}
	author = sanitize.Line(author)
	if author == "" {
		author = defaultAuthor
	}

	if err := s.ensureLead(ctx, leadID); err != nil {
		return transport.NoteResponse{}, err
	}

	note, err := s.repo.AddNote(ctx, leadID, author, content)
	if err != nil {
		return transport.NoteResponse{}, fmt.Errorf("add note: %w", err)
	}
	return toNoteResponse(note), nil
}

// ReassignLead points a lead at another rep and records who did it.
func (s *Service) ReassignLead(ctx context.Context, leadID, repID uuid.UUID, actor string) error {
	if err := s.ensureLead(ctx, leadID); err != nil {
		return err
	}

	rep, err := s.repo.GetRep(ctx, repID)
	if errors.Is(err, repository.ErrRepNotFound) {
		return apperr.NotFound(repNotFoundMsg)
	}
	if err != nil {
		return fmt.Errorf("get rep: %w", err)
	}

	actor = sanitize.Line(actor)
	if actor == "" {
		actor = defaultAuthor
	}
	err = s.repo.Reassign(ctx, leadID, rep, actor)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(leadNotFoundMsg)
	}
	if err != nil {
		return fmt.Errorf("reassign lead: %w", err)
	}

	s.log.WithContext(ctx).WithLead(leadID.String()).Info("lead reassigned", "repId", rep.ID, "actor", actor)
	return nil
}

func (s *Service) ensureLead(ctx context.Context, leadID uuid.UUID) error {
	_, err := s.repo.GetByID(ctx, leadID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(leadNotFoundMsg)
	}
	if err != nil {
		return fmt.Errorf("load lead: %w", err)
	}
	return nil
}

func missingRequired(p repository.CreateLeadParams) []string {
	var missing []string
	if p.FirstName == "" {
		missing = append(missing, "firstName")
	}
	if p.LastName == "" {
		missing = append(missing, "lastName")
	}
	if p.Email == "" || !strings.Contains(p.Email, "@") {
		missing = append(missing, "email")
	}
	if p.FirmName == "" {
		missing = append(missing, "firmName")
	}
	return missing
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
