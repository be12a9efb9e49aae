package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const accountWithRepSelect = `
	SELECT a.id, a.firm_name, a.domain, a.territory, a.rep_id, a.status, a.firm_type, a.aum,
		a.city, a.state, a.country, a.products,
		r.id, r.name, r.email, r.active
	FROM accounts a
	LEFT JOIN sales_reps r ON r.id = a.rep_id`

func scanAccountWithRep(row pgx.Row) (*Account, error) {
	var (
		a         Account
		repID     *uuid.UUID
		repName   *string
		repEmail  *string
		repActive *bool
	)
	err := row.Scan(
		&a.ID, &a.FirmName, &a.Domain, &a.Territory, &a.RepID, &a.Status, &a.FirmType, &a.AUM,
		&a.City, &a.State, &a.Country, &a.Products,
		&repID, &repName, &repEmail, &repActive,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if repID != nil {
		a.Rep = &SalesRep{
			ID:     *repID,
			Name:   derefString(repName),
			Email:  derefString(repEmail),
			Active: repActive != nil && *repActive,
		}
	}
	return &a, nil
}

// FindAccountByDomain returns the first account whose domain equals domain,
// ignoring case, or nil.
func (r *Repository) FindAccountByDomain(ctx context.Context, domain string) (*Account, error) {
	row := r.pool.QueryRow(ctx, accountWithRepSelect+`
		WHERE a.domain IS NOT NULL AND lower(a.domain) = lower($1)
		ORDER BY a.seq ASC
		LIMIT 1
	`, domain)
	return scanAccountWithRep(row)
}

// FindAccountByName returns the first account whose firm name equals name,
// ignoring case, or nil.
func (r *Repository) FindAccountByName(ctx context.Context, name string) (*Account, error) {
	row := r.pool.QueryRow(ctx, accountWithRepSelect+`
		WHERE lower(a.firm_name) = lower($1)
		ORDER BY a.seq ASC
		LIMIT 1
	`, name)
	return scanAccountWithRep(row)
}

// FindAccountByNamePrefix returns the first account whose firm name starts
// with prefix, ignoring case, or nil. Wildcards in prefix match literally.
func (r *Repository) FindAccountByNamePrefix(ctx context.Context, prefix string) (*Account, error) {
	row := r.pool.QueryRow(ctx, accountWithRepSelect+`
		WHERE lower(a.firm_name) LIKE lower($1) ESCAPE '\'
		ORDER BY a.seq ASC
		LIMIT 1
	`, escapeLike(strings.TrimSpace(prefix))+"%")
	return scanAccountWithRep(row)
}

// ListTerritoriesWithReps returns all territories in creation order.
func (r *Repository) ListTerritoriesWithReps(ctx context.Context) ([]Territory, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT t.id, t.name, t.regions, t.country, r.id, r.name, r.email, r.active
		FROM territories t
		LEFT JOIN sales_reps r ON r.id = t.rep_id
		ORDER BY t.seq ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	territories := make([]Territory, 0)
	for rows.Next() {
		var (
			t         Territory
			repID     *uuid.UUID
			repName   *string
			repEmail  *string
			repActive *bool
		)
		if err := rows.Scan(&t.ID, &t.Name, &t.Regions, &t.Country, &repID, &repName, &repEmail, &repActive); err != nil {
			return nil, err
		}
		if repID != nil {
			t.Rep = &SalesRep{ID: *repID, Name: derefString(repName), Email: derefString(repEmail), Active: repActive != nil && *repActive}
		}
		territories = append(territories, t)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return territories, nil
}
