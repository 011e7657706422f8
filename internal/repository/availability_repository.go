package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/visitly/availability-api/internal/models"
)

// AvailabilityRepository persists availability records, one row per range.
// The booking backend writes and deletes whole rows only; partial updates
// of a range are expressed as delete + insert by the service layer.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository constructs the repository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// ListByHost returns every availability record of a host, recurring and
// specific-date alike, ordered by day label then start time.
func (r *AvailabilityRepository) ListByHost(ctx context.Context, hostID string) ([]models.Availability, error) {
	const query = `SELECT id, host_id, daysofweek, start_time, end_time, is_recurring, specific_date, created_at, updated_at
		FROM availability WHERE host_id = $1 ORDER BY daysofweek, start_time`
	records := []models.Availability{}
	if err := r.db.SelectContext(ctx, &records, query, hostID); err != nil {
		return nil, fmt.Errorf("list availability for host %s: %w", hostID, err)
	}
	return records, nil
}

// Insert stores a single availability record.
func (r *AvailabilityRepository) Insert(ctx context.Context, record *models.Availability) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	const query = `INSERT INTO availability (id, host_id, daysofweek, start_time, end_time, is_recurring, specific_date, created_at, updated_at)
		VALUES (:id, :host_id, :daysofweek, :start_time, :end_time, :is_recurring, :specific_date, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("insert availability %s: %w", record.ID, err)
	}
	return nil
}

// Delete removes a single availability record by ID.
func (r *AvailabilityRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM availability WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete availability %s: %w", id, err)
	}
	return nil
}

// DeleteAllByHost clears every recurring record of a host. Specific-date
// records survive; they are outside the weekly grid.
func (r *AvailabilityRepository) DeleteAllByHost(ctx context.Context, hostID string) error {
	const query = `DELETE FROM availability WHERE host_id = $1 AND is_recurring = TRUE`
	if _, err := r.db.ExecContext(ctx, query, hostID); err != nil {
		return fmt.Errorf("clear availability for host %s: %w", hostID, err)
	}
	return nil
}
