package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/vasync/internal/models"
)

// AuditRepository writes job runs to the audit_logs table.
type AuditRepository struct {
	db DBTX
}

// NewAuditRepository creates a new [AuditRepository] with the given database connection
func NewAuditRepository(db DBTX) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create inserts an audit entry and sets its ID. Detail is stored as JSON.
func (r *AuditRepository) Create(ctx context.Context, entry *models.AuditEntry) error {
	detail, err := json.Marshal(entry.Detail)
	if err != nil {
		return fmt.Errorf("failed to encode audit detail: %w", err)
	}

	query := `
		INSERT INTO audit_logs (actorUserId, action, entityType, entityId, detailJson, createdAt)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		entry.ActorUserID,
		entry.Action,
		nullString(entry.EntityType),
		entry.EntityID,
		string(detail),
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get audit entry id: %w", err)
	}
	entry.ID = id
	return nil
}

// ListByAction returns audit entries for action, newest first.
func (r *AuditRepository) ListByAction(ctx context.Context, action string) ([]models.AuditEntry, error) {
	query := `
		SELECT id, actorUserId, action, entityType, entityId, detailJson, createdAt
		FROM audit_logs
		WHERE action = ?
		ORDER BY id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, action)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []models.AuditEntry
	for rows.Next() {
		var (
			entry      models.AuditEntry
			actor      sql.NullInt64
			entityType sql.NullString
			entityID   sql.NullInt64
			detail     sql.NullString
		)

		if err := rows.Scan(&entry.ID, &actor, &entry.Action, &entityType, &entityID, &detail, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}

		if actor.Valid {
			entry.ActorUserID = &actor.Int64
		}
		if entityID.Valid {
			entry.EntityID = &entityID.Int64
		}
		entry.EntityType = entityType.String

		if detail.Valid && detail.String != "" {
			if err := json.Unmarshal([]byte(detail.String), &entry.Detail); err != nil {
				return nil, fmt.Errorf("failed to decode audit detail %d: %w", entry.ID, err)
			}
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}
