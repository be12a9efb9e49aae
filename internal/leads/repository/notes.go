package repository

import (
	"context"

	"github.com/google/uuid"
)

func (r *Repository) AddNote(ctx context.Context, leadID uuid.UUID, author, content string) (LeadNote, error) {
	var note LeadNote
	err := r.pool.QueryRow(ctx, `
		INSERT INTO lead_notes (lead_id, author, content)
		VALUES ($1, $2, $3)
		RETURNING id, lead_id, author, content, created_at
	`, leadID, author, content).Scan(&note.ID, &note.LeadID, &note.Author, &note.Content, &note.CreatedAt)
	return note, err
}

func (r *Repository) ListNotes(ctx context.Context, leadID uuid.UUID) ([]LeadNote, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, author, content, created_at
		FROM lead_notes
		WHERE lead_id = $1
		ORDER BY created_at DESC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]LeadNote, 0)
	for rows.Next() {
		var note LeadNote
		if err := rows.Scan(&note.ID, &note.LeadID, &note.Author, &note.Content, &note.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return notes, nil
}

func (r *Repository) ListStatusChanges(ctx context.Context, leadID uuid.UUID) ([]LeadStatusChange, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, from_status, to_status, changed_by, reason, created_at
		FROM lead_status_changes
		WHERE lead_id = $1
		ORDER BY created_at DESC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	changes := make([]LeadStatusChange, 0)
	for rows.Next() {
		var c LeadStatusChange
		if err := rows.Scan(&c.ID, &c.LeadID, &c.FromStatus, &c.ToStatus, &c.ChangedBy, &c.Reason, &c.CreatedAt); err != nil {
			return nil, err
		}
		changes = append(changes, c)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return changes, nil
}
