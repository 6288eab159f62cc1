package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nvollmar/pipeboard/internal/domain/lead"
	"github.com/nvollmar/pipeboard/internal/domain/pipeline"
	"github.com/nvollmar/pipeboard/internal/repository"
)

// LeadRepository implements lead.Repository for SQLite
type LeadRepository struct {
	db *DB
}

// NewLeadRepository creates a new LeadRepository
func NewLeadRepository(db *DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// Create inserts a new lead
func (r *LeadRepository) Create(ctx context.Context, l *lead.Lead) error {
	query := `
		INSERT INTO leads (id, name, company, email, phone, source, status, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		l.ID,
		l.Name,
		l.Company,
		l.Email,
		l.Phone,
		l.Source,
		l.Status,
		l.CreatedAt,
		l.ModifiedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create lead: %w", err)
	}
	return nil
}

// Get retrieves a lead by ID
func (r *LeadRepository) Get(ctx context.Context, id string) (*lead.Lead, error) {
	query := `
		SELECT id, name, company, email, phone, source, status, created_at, modified_at
		FROM leads
		WHERE id = ?
	`

	var l lead.Lead
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&l.ID,
		&l.Name,
		&l.Company,
		&l.Email,
		&l.Phone,
		&l.Source,
		&l.Status,
		&l.CreatedAt,
		&l.ModifiedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	return &l, nil
}

// Update rewrites a lead's descriptive fields
func (r *LeadRepository) Update(ctx context.Context, l *lead.Lead) error {
	query := `
		UPDATE leads
		SET name = ?, company = ?, email = ?, phone = ?, source = ?, modified_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		l.Name,
		l.Company,
		l.Email,
		l.Phone,
		l.Source,
		l.ModifiedAt,
		l.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update lead: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpdateStatus patches only the status and modified_at columns. This is
// the persistence half of the board's status transitions.
func (r *LeadRepository) UpdateStatus(ctx context.Context, id string, status pipeline.Status, modifiedAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE leads SET status = ?, modified_at = ? WHERE id = ?`,
		status, modifiedAt, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update lead status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a lead
func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM leads WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// List returns all leads in creation order
func (r *LeadRepository) List(ctx context.Context) ([]lead.Lead, error) {
	query := `
		SELECT id, name, company, email, phone, source, status, created_at, modified_at
		FROM leads
		ORDER BY created_at ASC, rowid ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	var leads []lead.Lead
	for rows.Next() {
		var l lead.Lead
		err := rows.Scan(
			&l.ID,
			&l.Name,
			&l.Company,
			&l.Email,
			&l.Phone,
			&l.Source,
			&l.Status,
			&l.CreatedAt,
			&l.ModifiedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lead rows: %w", err)
	}
	return leads, nil
}
