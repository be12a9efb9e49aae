package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrTerritoryNotFound = errors.New("territory not found")
	ErrRepNotFound       = errors.New("sales rep not found")
)

type RepRef struct {
	ID    uuid.UUID
	Name  string
	Email string
}

type Territory struct {
	ID        uuid.UUID
	Name      string
	Regions   []string
	Country   string
	Rep       *RepRef
	UpdatedAt time.Time
}

type Rep struct {
	ID             uuid.UUID
	Name           string
	Email          string
	Active         bool
	LeadCount      int
	TerritoryCount int
	AccountCount   int
}

type Account struct {
	ID        uuid.UUID
	FirmName  string
	Domain    *string
	Territory *string
	Status    string
	FirmType  *string
	AUM       *float64
	City      *string
	State     *string
	Country   *string
	Products  []string
	Rep       *RepRef
	LeadCount int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TerritoryUpdate changes a territory's rep and/or regions. A nil Regions
// leaves regions untouched; SetRep with a nil RepID unassigns the rep.
type TerritoryUpdate struct {
	SetRep  bool
	RepID   *uuid.UUID
	Regions []string
}

type AccountParams struct {
	FirmName  string
	Domain    *string
	Territory *string
	RepID     *uuid.UUID
	Status    string
	FirmType  *string
	AUM       *float64
	City      *string
	State     *string
	Country   *string
	Products  []string
}

// TerritorySeed is one bootstrap territory with its owning rep.
type TerritorySeed struct {
	Name     string
	Regions  []string
	Country  string
	RepName  string
	RepEmail string
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const territorySelect = `
	SELECT t.id, t.name, t.regions, t.country, t.updated_at, r.id, r.name, r.email
	FROM territories t
	LEFT JOIN sales_reps r ON r.id = t.rep_id`

func scanTerritory(row pgx.Row) (Territory, error) {
	var (
		t        Territory
		repID    *uuid.UUID
		repName  *string
		repEmail *string
	)
	if err := row.Scan(&t.ID, &t.Name, &t.Regions, &t.Country, &t.UpdatedAt, &repID, &repName, &repEmail); err != nil {
		return Territory{}, err
	}
	t.Rep = repRef(repID, repName, repEmail)
	return t, nil
}

func repRef(id *uuid.UUID, name, email *string) *RepRef {
	if id == nil {
		return nil
	}
	ref := &RepRef{ID: *id}
	if name != nil {
		ref.Name = *name
	}
	if email != nil {
		ref.Email = *email
	}
	return ref
}

// ListTerritories returns every territory with its rep, by name.
func (r *Repository) ListTerritories(ctx context.Context) ([]Territory, error) {
	rows, err := r.pool.Query(ctx, territorySelect+` ORDER BY t.name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	territories := make([]Territory, 0)
	for rows.Next() {
		t, err := scanTerritory(rows)
		if err != nil {
			return nil, err
		}
		territories = append(territories, t)
	}
	return territories, rows.Err()
}

func (r *Repository) GetTerritory(ctx context.Context, id uuid.UUID) (Territory, error) {
	t, err := scanTerritory(r.pool.QueryRow(ctx, territorySelect+` WHERE t.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Territory{}, ErrTerritoryNotFound
	}
	return t, err
}

func (r *Repository) UpdateTerritory(ctx context.Context, id uuid.UUID, upd TerritoryUpdate) (Territory, error) {
	if upd.SetRep && upd.RepID != nil {
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM sales_reps WHERE id = $1)`, *upd.RepID).Scan(&exists); err != nil {
			return Territory{}, err
		}
		if !exists {
			return Territory{}, ErrRepNotFound
		}
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE territories
		SET rep_id = CASE WHEN $2 THEN $3 ELSE rep_id END,
		    regions = COALESCE($4, regions),
		    updated_at = now()
		WHERE id = $1
	`, id, upd.SetRep, upd.RepID, upd.Regions)
	if err != nil {
		return Territory{}, err
	}
	if tag.RowsAffected() == 0 {
		return Territory{}, ErrTerritoryNotFound
	}
	return r.GetTerritory(ctx, id)
}

// ListActiveReps returns active reps by name with their ownership counts.
func (r *Repository) ListActiveReps(ctx context.Context) ([]Rep, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.id, r.name, r.email, r.active,
		       (SELECT count(*) FROM leads l WHERE l.assigned_rep_id = r.id),
		       (SELECT count(*) FROM territories t WHERE t.rep_id = r.id),
		       (SELECT count(*) FROM accounts a WHERE a.rep_id = r.id)
		FROM sales_reps r
		WHERE r.active
		ORDER BY r.name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reps := make([]Rep, 0)
	for rows.Next() {
		var rep Rep
		if err := rows.Scan(&rep.ID, &rep.Name, &rep.Email, &rep.Active, &rep.LeadCount, &rep.TerritoryCount, &rep.AccountCount); err != nil {
			return nil, err
		}
		reps = append(reps, rep)
	}
	return reps, rows.Err()
}

const accountSelect = `
	SELECT a.id, a.firm_name, a.domain, a.territory, a.status, a.firm_type, a.aum,
	       a.city, a.state, a.country, a.products, a.created_at, a.updated_at,
	       r.id, r.name, r.email,
	       (SELECT count(*) FROM leads l WHERE l.account_id = a.id)
	FROM accounts a
	LEFT JOIN sales_reps r ON r.id = a.rep_id`

func scanAccount(row pgx.Row) (Account, error) {
	var (
		a        Account
		repID    *uuid.UUID
		repName  *string
		repEmail *string
	)
	if err := row.Scan(
		&a.ID, &a.FirmName, &a.Domain, &a.Territory, &a.Status, &a.FirmType, &a.AUM,
		&a.City, &a.State, &a.Country, &a.Products, &a.CreatedAt, &a.UpdatedAt,
		&repID, &repName, &repEmail, &a.LeadCount,
	); err != nil {
		return Account{}, err
	}
	a.Rep = repRef(repID, repName, repEmail)
	return a, nil
}

// ListAccounts returns every account by firm name with its rep and lead count.
func (r *Repository) ListAccounts(ctx context.Context) ([]Account, error) {
	rows, err := r.pool.Query(ctx, accountSelect+` ORDER BY a.firm_name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// UpsertAccount updates the account matched by domain, or else by firm name
// (both case-insensitive), and inserts one when nothing matches. Nil fields
// keep their stored value on update.
func (r *Repository) UpsertAccount(ctx context.Context, p AccountParams) (Account, bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Account{}, false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if p.RepID != nil {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM sales_reps WHERE id = $1)`, *p.RepID).Scan(&exists); err != nil {
			return Account{}, false, err
		}
		if !exists {
			return Account{}, false, ErrRepNotFound
		}
	}

	var existingID *uuid.UUID
	if p.Domain != nil {
		existingID, err = findAccountID(ctx, tx, `SELECT id FROM accounts WHERE lower(domain) = lower($1) ORDER BY seq LIMIT 1 FOR UPDATE`, *p.Domain)
	} else {
		existingID, err = findAccountID(ctx, tx, `SELECT id FROM accounts WHERE lower(firm_name) = lower($1) ORDER BY seq LIMIT 1 FOR UPDATE`, p.FirmName)
	}
	if err != nil {
		return Account{}, false, err
	}

	var id uuid.UUID
	created := existingID == nil
	if created {
		products := p.Products
		if products == nil {
			products = []string{}
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO accounts (firm_name, domain, territory, rep_id, status, firm_type, aum, city, state, country, products)
			VALUES ($1, $2, $3, $4, COALESCE(NULLIF($5, ''), 'prospect'), $6, $7, $8, $9, $10, $11)
			RETURNING id
		`, p.FirmName, p.Domain, p.Territory, p.RepID, p.Status, p.FirmType, p.AUM, p.City, p.State, p.Country, products).Scan(&id)
	} else {
		id = *existingID
		_, err = tx.Exec(ctx, `
			UPDATE accounts
			SET firm_name = $2,
			    domain = COALESCE($3, domain),
			    territory = COALESCE($4, territory),
			    rep_id = COALESCE($5, rep_id),
			    status = COALESCE(NULLIF($6, ''), status),
			    firm_type = COALESCE($7, firm_type),
			    aum = COALESCE($8, aum),
			    city = COALESCE($9, city),
			    state = COALESCE($10, state),
			    country = COALESCE($11, country),
			    products = COALESCE($12, products),
			    updated_at = now()
			WHERE id = $1
		`, id, p.FirmName, p.Domain, p.Territory, p.RepID, p.Status, p.FirmType, p.AUM, p.City, p.State, p.Country, p.Products)
	}
	if err != nil {
		return Account{}, false, fmt.Errorf("upsert account: %w", err)
	}

	account, err := scanAccount(tx.QueryRow(ctx, accountSelect+` WHERE a.id = $1`, id))
	if err != nil {
		return Account{}, false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Account{}, false, err
	}
	return account, created, nil
}

func findAccountID(ctx context.Context, tx pgx.Tx, query, arg string) (*uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRow(ctx, query, arg).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (r *Repository) CountTerritories(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM territories`).Scan(&n)
	return n, err
}

// SeedTerritories inserts seeds in order inside one transaction. Reps are
// upserted by email; existing territory names are left alone.
func (r *Repository) SeedTerritories(ctx context.Context, seeds []TerritorySeed) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	inserted := 0
	for _, s := range seeds {
		var repID *uuid.UUID
		if s.RepEmail != "" {
			var id uuid.UUID
			if err := tx.QueryRow(ctx, `
				INSERT INTO sales_reps (name, email)
				VALUES ($1, $2)
				ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, updated_at = now()
				RETURNING id
			`, s.RepName, s.RepEmail).Scan(&id); err != nil {
				return 0, fmt.Errorf("seed rep %s: %w", s.RepEmail, err)
			}
			repID = &id
		}

		tag, err := tx.Exec(ctx, `
			INSERT INTO territories (name, regions, country, rep_id)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (name) DO NOTHING
		`, s.Name, s.Regions, s.Country, repID)
		if err != nil {
			return 0, fmt.Errorf("seed territory %s: %w", s.Name, err)
		}
		inserted += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return inserted, nil
}
