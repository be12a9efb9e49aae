package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound       = errors.New("lead not found")
	ErrRepNotFound    = errors.New("sales rep not found")
	ErrLeadNotNew     = errors.New("lead is no longer NEW")
	ErrStatusConflict = errors.New("lead status changed concurrently")
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const leadColumns = `l.id, l.first_name, l.last_name, l.email, l.phone, l.title, l.firm_name, l.firm_domain,
	l.registration_type, l.research_interest, l.source, l.city, l.state, l.country, l.firm_type, l.aum,
	l.account_id, l.assigned_rep_id, l.territory_match, l.lead_score, l.score_breakdown, l.status,
	l.routed_at, l.contacted_at, l.converted_at, l.stale_at, l.enrichment_data, l.enriched_at,
	l.processing_started_at, l.created_at, l.updated_at`

func leadScanTargets(lead *Lead) []any {
	return []any{
		&lead.ID, &lead.FirstName, &lead.LastName, &lead.Email, &lead.Phone, &lead.Title, &lead.FirmName, &lead.FirmDomain,
		&lead.RegistrationType, &lead.ResearchInterest, &lead.Source, &lead.City, &lead.State, &lead.Country, &lead.FirmType, &lead.AUM,
		&lead.AccountID, &lead.AssignedRepID, &lead.TerritoryMatch, &lead.LeadScore, &lead.ScoreBreakdown, &lead.Status,
		&lead.RoutedAt, &lead.ContactedAt, &lead.ConvertedAt, &lead.StaleAt, &lead.EnrichmentData, &lead.EnrichedAt,
		&lead.ProcessingStartedAt, &lead.CreatedAt, &lead.UpdatedAt,
	}
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	var lead Lead
	err := r.pool.QueryRow(ctx, `
		INSERT INTO leads AS l (
			first_name, last_name, email, phone, title, firm_name, registration_type, research_interest,
			source, city, state, country, firm_type, aum, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, 'NEW')
		RETURNING `+leadColumns,
		params.FirstName, params.LastName, params.Email, params.Phone, params.Title, params.FirmName,
		params.RegistrationType, params.ResearchInterest, params.Source, params.City, params.State,
		params.Country, params.FirmType, params.AUM,
	).Scan(leadScanTargets(&lead)...)
	if err != nil {
		return Lead{}, err
	}
	return lead, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	var lead Lead
	err := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads l WHERE l.id = $1`, id).Scan(leadScanTargets(&lead)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

// ClaimForRouting marks the lead as in flight. It returns false when the
// lead is no longer NEW or another worker holds a claim younger than lease.
func (r *Repository) ClaimForRouting(ctx context.Context, id uuid.UUID, lease time.Duration) (bool, error) {
	var claimed uuid.UUID
	err := r.pool.QueryRow(ctx, `
		UPDATE leads SET processing_started_at = now()
		WHERE id = $1 AND status = 'NEW'
			AND (processing_started_at IS NULL OR processing_started_at < now() - make_interval(secs => $2))
		RETURNING id
	`, id, lease.Seconds()).Scan(&claimed)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *Repository) ReleaseClaim(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE leads SET processing_started_at = NULL WHERE id = $1`, id)
	return err
}

// ApplyRouting writes the routing outcome and, when a rep was assigned, the
// NEW -> ROUTED audit record in one transaction. The update only applies to
// a lead that is still NEW.
func (r *Repository) ApplyRouting(ctx context.Context, u RoutingUpdate) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE leads SET
			firm_domain = COALESCE($2, firm_domain),
			firm_type = $3,
			aum = $4,
			city = $5,
			state = $6,
			country = $7,
			account_id = $8,
			assigned_rep_id = $9,
			territory_match = $10,
			lead_score = $11,
			score_breakdown = $12,
			research_interest = $13,
			enrichment_data = $14,
			enriched_at = CASE WHEN $14::jsonb IS NULL THEN NULL ELSE now() END,
			status = CASE WHEN $9::uuid IS NULL THEN status ELSE 'ROUTED' END,
			routed_at = CASE WHEN $9::uuid IS NULL THEN routed_at ELSE COALESCE(routed_at, now()) END,
			updated_at = now()
		WHERE id = $1 AND status = 'NEW'
	`,
		u.LeadID, u.FirmDomain, u.FirmType, u.AUM, u.City, u.State, u.Country, u.AccountID, u.RepID,
		u.TerritoryMatch, u.LeadScore, u.ScoreBreakdown, u.ResearchInterest, u.EnrichmentData,
	)
	if err != nil {
		return fmt.Errorf("update lead routing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLeadNotNew
	}

	if u.RepID != nil {
		if _, err := tx.Exec(ctx, `
			INSERT INTO lead_status_changes (lead_id, from_status, to_status, changed_by, reason)
			VALUES ($1, 'NEW', 'ROUTED', $2, $3)
		`, u.LeadID, u.Actor, u.Reason); err != nil {
			return fmt.Errorf("insert routing status change: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// ListUnprocessed returns NEW leads that routing has never touched, oldest
// first, skipping leads with a live claim.
func (r *Repository) ListUnprocessed(ctx context.Context, limit int, lease time.Duration) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id FROM leads
		WHERE status = 'NEW' AND assigned_rep_id IS NULL AND enriched_at IS NULL
			AND (processing_started_at IS NULL OR processing_started_at < now() - make_interval(secs => $2))
		ORDER BY created_at ASC
		LIMIT $1
	`, limit, lease.Seconds())
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
}

// Transition moves a lead from p.From to p.To and appends the audit record.
// Lifecycle timestamps keep their first value.
func (r *Repository) Transition(ctx context.Context, p TransitionParams) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE leads SET
			status = $3::text,
			routed_at = CASE WHEN $3::text = 'ROUTED' THEN COALESCE(routed_at, now()) ELSE routed_at END,
			contacted_at = CASE WHEN $3::text = 'CONTACTED' THEN COALESCE(contacted_at, now()) ELSE contacted_at END,
			converted_at = CASE WHEN $3::text = 'CONVERTED' THEN COALESCE(converted_at, now()) ELSE converted_at END,
			stale_at = CASE WHEN $3::text = 'STALE' THEN COALESCE(stale_at, now()) ELSE stale_at END,
			updated_at = now()
		WHERE id = $1 AND status = $2::text
	`, p.LeadID, string(p.From), string(p.To))
	if err != nil {
		return fmt.Errorf("update lead status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStatusConflict
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO lead_status_changes (lead_id, from_status, to_status, changed_by, reason)
		VALUES ($1, $2, $3, $4, $5)
	`, p.LeadID, string(p.From), string(p.To), p.Actor, p.Reason); err != nil {
		return fmt.Errorf("insert status change: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *Repository) ListStaleCandidates(ctx context.Context, cutoff time.Time) ([]StaleCandidate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT l.id, l.first_name, l.last_name, l.firm_name, l.routed_at, r.id, r.name, r.email
		FROM leads l
		LEFT JOIN sales_reps r ON r.id = l.assigned_rep_id
		WHERE l.status = 'ROUTED' AND l.routed_at < $1
		ORDER BY l.routed_at ASC
	`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]StaleCandidate, 0)
	for rows.Next() {
		var c StaleCandidate
		if err := rows.Scan(&c.LeadID, &c.FirstName, &c.LastName, &c.FirmName, &c.RoutedAt, &c.RepID, &c.RepName, &c.RepEmail); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return items, nil
}

func (r *Repository) GetRep(ctx context.Context, id uuid.UUID) (SalesRep, error) {
	var rep SalesRep
	err := r.pool.QueryRow(ctx, `SELECT id, name, email, active FROM sales_reps WHERE id = $1`, id).
		Scan(&rep.ID, &rep.Name, &rep.Email, &rep.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return SalesRep{}, ErrRepNotFound
	}
	return rep, err
}

// Reassign points the lead at a new rep and records a note in the same
// transaction.
func (r *Repository) Reassign(ctx context.Context, leadID uuid.UUID, rep SalesRep, actor string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `UPDATE leads SET assigned_rep_id = $2, updated_at = now() WHERE id = $1`, leadID, rep.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO lead_notes (lead_id, author, content) VALUES ($1, $2, $3)
	`, leadID, actor, "Reassigned to "+rep.Name); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]LeadListItem, int, error) {
	whereClause, args, argIdx := buildLeadListWhere(params)

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM leads l WHERE %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortColumn := mapLeadSortColumn(params.SortBy)
	sortOrder := "DESC"
	if strings.EqualFold(params.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY %s %s, l.id
		LIMIT $%d OFFSET $%d
	`, listItemSelect, whereClause, sortColumn, sortOrder, argIdx, argIdx+1)

	items, err := r.queryListItems(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListPipeline returns leads created since p.Since, newest first.
func (r *Repository) ListPipeline(ctx context.Context, p PipelineParams) ([]LeadListItem, error) {
	whereClause, args, argIdx := buildLeadListWhere(ListParams{Status: p.Status, Brand: p.Brand, Search: p.Search})
	whereClause += fmt.Sprintf(" AND l.created_at >= $%d", argIdx)
	args = append(args, p.Since)

	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY l.created_at DESC, l.id
	`, listItemSelect, whereClause)
	return r.queryListItems(ctx, query, args...)
}

func (r *Repository) GetDetail(ctx context.Context, id uuid.UUID) (LeadDetail, error) {
	items, err := r.queryListItems(ctx, listItemSelect+` WHERE l.id = $1`, id)
	if err != nil {
		return LeadDetail{}, err
	}
	if len(items) == 0 {
		return LeadDetail{}, ErrNotFound
	}

	detail := LeadDetail{LeadListItem: items[0]}
	if detail.StatusChanges, err = r.ListStatusChanges(ctx, id); err != nil {
		return LeadDetail{}, err
	}
	if detail.Notes, err = r.ListNotes(ctx, id); err != nil {
		return LeadDetail{}, err
	}
	return detail, nil
}

const listItemSelect = `
	SELECT ` + leadColumns + `,
		r.id, r.name, r.email,
		a.id, a.firm_name, a.status, a.products
	FROM leads l
	LEFT JOIN sales_reps r ON r.id = l.assigned_rep_id
	LEFT JOIN accounts a ON a.id = l.account_id`

func (r *Repository) queryListItems(ctx context.Context, query string, args ...any) ([]LeadListItem, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]LeadListItem, 0)
	for rows.Next() {
		var (
			item                   LeadListItem
			repID, accountID       *uuid.UUID
			repName, repEmail      *string
			accountName, accStatus *string
			accountProducts        []string
		)
		targets := append(leadScanTargets(&item.Lead),
			&repID, &repName, &repEmail,
			&accountID, &accountName, &accStatus, &accountProducts,
		)
		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}
		if repID != nil {
			item.Rep = &RepSummary{ID: *repID, Name: derefString(repName), Email: derefString(repEmail)}
		}
		if accountID != nil {
			item.Account = &AccountSummary{ID: *accountID, FirmName: derefString(accountName), Status: derefString(accStatus), Products: accountProducts}
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return items, nil
}

func buildLeadListWhere(params ListParams) (string, []any, int) {
	whereClauses := []string{"TRUE"}
	args := []any{}
	argIdx := 1

	addEquals := func(column string, value any) {
		whereClauses = append(whereClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if params.Status != nil {
		addEquals("l.status", *params.Status)
	}
	if params.Brand != nil {
		addEquals("l.research_interest", *params.Brand)
	}
	if params.Territory != nil {
		addEquals("l.territory_match", *params.Territory)
	}
	if params.RepID != nil {
		addEquals("l.assigned_rep_id", *params.RepID)
	}
	if search := strings.TrimSpace(params.Search); search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(l.first_name ILIKE $%d OR l.last_name ILIKE $%d OR l.firm_name ILIKE $%d OR l.email ILIKE $%d)",
			argIdx, argIdx, argIdx, argIdx,
		))
		args = append(args, "%"+escapeLike(search)+"%")
		argIdx++
	}

	return strings.Join(whereClauses, " AND "), args, argIdx
}

func mapLeadSortColumn(sortBy string) string {
	switch sortBy {
	case "firstName":
		return "l.first_name"
	case "lastName":
		return "l.last_name"
	case "firmName":
		return "l.firm_name"
	case "email":
		return "l.email"
	case "leadScore":
		return "l.lead_score"
	case "status":
		return "l.status"
	case "researchInterest":
		return "l.research_interest"
	case "territoryMatch":
		return "l.territory_match"
	case "routedAt":
		return "l.routed_at"
	case "updatedAt":
		return "l.updated_at"
	default:
		return "l.created_at"
	}
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
