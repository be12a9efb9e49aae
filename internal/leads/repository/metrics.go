package repository

import (
	"context"
	"time"
)

func (r *Repository) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM leads WHERE created_at >= $1`, since).Scan(&count)
	return count, err
}

func (r *Repository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM leads GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return counts, nil
}

// AverageHoursToContact averages whole hours between routing and first
// contact over contacted or converted leads. It returns nil when no lead
// qualifies.
func (r *Repository) AverageHoursToContact(ctx context.Context) (*float64, error) {
	var avg *float64
	err := r.pool.QueryRow(ctx, `
		SELECT AVG(FLOOR(EXTRACT(EPOCH FROM (contacted_at - routed_at)) / 3600))::float8
		FROM leads
		WHERE status IN ('CONTACTED', 'CONVERTED')
			AND routed_at IS NOT NULL AND contacted_at IS NOT NULL
	`).Scan(&avg)
	return avg, err
}

// CountByBrand groups leads created at or after since by research interest,
// largest first. A zero since counts every lead.
func (r *Repository) CountByBrand(ctx context.Context, since time.Time) ([]KeyCount, error) {
	return r.keyCounts(ctx, `
		SELECT research_interest, COUNT(*) FROM leads
		WHERE created_at >= $1
		GROUP BY research_interest
		ORDER BY COUNT(*) DESC, research_interest ASC
	`, since)
}

// CountByTerritory groups routed leads by territory name, largest first.
func (r *Repository) CountByTerritory(ctx context.Context, since time.Time) ([]KeyCount, error) {
	return r.keyCounts(ctx, `
		SELECT territory_match, COUNT(*) FROM leads
		WHERE territory_match IS NOT NULL AND created_at >= $1
		GROUP BY territory_match
		ORDER BY COUNT(*) DESC, territory_match ASC
	`, since)
}

func (r *Repository) ConversionByTerritory(ctx context.Context) ([]ConversionCount, error) {
	return r.conversionCounts(ctx, `
		SELECT COALESCE(territory_match, 'Unassigned'), COUNT(*), COUNT(*) FILTER (WHERE status = 'CONVERTED')
		FROM leads
		GROUP BY 1
		ORDER BY 1
	`)
}

func (r *Repository) ConversionByBrand(ctx context.Context) ([]ConversionCount, error) {
	return r.conversionCounts(ctx, `
		SELECT research_interest, COUNT(*), COUNT(*) FILTER (WHERE status = 'CONVERTED')
		FROM leads
		GROUP BY 1
		ORDER BY 1
	`)
}

func (r *Repository) keyCounts(ctx context.Context, query string, args ...any) ([]KeyCount, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]KeyCount, 0)
	for rows.Next() {
		var item KeyCount
		if err := rows.Scan(&item.Key, &item.Count); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return items, nil
}

func (r *Repository) conversionCounts(ctx context.Context, query string) ([]ConversionCount, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]ConversionCount, 0)
	for rows.Next() {
		var item ConversionCount
		if err := rows.Scan(&item.Key, &item.Total, &item.Converted); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return items, nil
}
