package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/desertthunder/vasync/internal/models"
	"github.com/desertthunder/vasync/internal/shared"
)

// LenderRepository reads and writes rows of the lenders table.
//
// Lenders are matched by UPPER(name); the table has no other natural key.
type LenderRepository struct {
	db DBTX
}

// NewLenderRepository creates a new [LenderRepository] with the given database connection or transaction
func NewLenderRepository(db DBTX) *LenderRepository {
	return &LenderRepository{db: db}
}

// NameSet returns the uppercase names of every lender, for insert-or-update decisions.
func (r *LenderRepository) NameSet(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT name FROM lenders")
	if err != nil {
		return nil, fmt.Errorf("failed to query lender names: %w", err)
	}
	defer rows.Close()

	names := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan lender name: %w", err)
		}
		names[models.NormalizeLenderName(name)] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return names, nil
}

// Count returns the number of lenders.
func (r *LenderRepository) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, "SELECT COUNT(*) FROM lenders")
}

// Create inserts a lender and sets its ID.
//
// A unique index violation is reported as [shared.ErrDuplicateEntry] so callers can fall back to an update.
func (r *LenderRepository) Create(ctx context.Context, lender *models.Lender) error {
	states, err := json.Marshal(lender.StatesServed)
	if err != nil {
		return fmt.Errorf("failed to encode states served: %w", err)
	}

	query := `
		INSERT INTO lenders (
			name, lenderType, statesServed, url, phone, vaSpecialist,
			verifiedLevel, description, isActive, createdAt, updatedAt
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		lender.Name,
		string(lender.LenderType),
		string(states),
		lender.URL,
		lender.Phone,
		lender.VASpecialist,
		string(lender.VerifiedLevel),
		lender.Description,
		lender.IsActive,
		lender.CreatedAt,
		lender.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: lender %q", shared.ErrDuplicateEntry, lender.Name)
	}
	if err != nil {
		return fmt.Errorf("failed to insert lender: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get lender id: %w", err)
	}
	lender.ID = id
	return nil
}

// UpdateDescription sets description and updatedAt on every lender whose uppercase name equals key.
// Returns the number of rows affected.
func (r *LenderRepository) UpdateDescription(ctx context.Context, key, description string, at time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE lenders SET description = ?, updatedAt = ? WHERE UPPER(name) = ?",
		description, at, key,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update lender: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows, nil
}

// GetByName retrieves the first lender whose name matches case-insensitively.
func (r *LenderRepository) GetByName(ctx context.Context, name string) (*models.Lender, error) {
	query := `
		SELECT id, name, lenderType, statesServed, url, phone, vaSpecialist,
			verifiedLevel, description, isActive, createdAt, updatedAt
		FROM lenders
		WHERE UPPER(name) = ?
		ORDER BY id ASC
		LIMIT 1
	`

	lender, err := scanLender(r.db.QueryRowContext(ctx, query, models.NormalizeLenderName(name)))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: lender %q", shared.ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return &lender, nil
}

// List returns every lender ordered by ID.
func (r *LenderRepository) List(ctx context.Context) ([]models.Lender, error) {
	query := `
		SELECT id, name, lenderType, statesServed, url, phone, vaSpecialist,
			verifiedLevel, description, isActive, createdAt, updatedAt
		FROM lenders
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query lenders: %w", err)
	}
	defer rows.Close()

	var lenders []models.Lender
	for rows.Next() {
		lender, err := scanLender(rows)
		if err != nil {
			return nil, err
		}
		lenders = append(lenders, lender)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return lenders, nil
}

func scanLender(row rowScanner) (models.Lender, error) {
	var (
		lender        models.Lender
		lenderType    string
		states        sql.NullString
		url           sql.NullString
		phone         sql.NullString
		verifiedLevel sql.NullString
		description   sql.NullString
	)

	err := row.Scan(
		&lender.ID, &lender.Name, &lenderType, &states, &url, &phone, &lender.VASpecialist,
		&verifiedLevel, &description, &lender.IsActive, &lender.CreatedAt, &lender.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return lender, err
	}
	if err != nil {
		return lender, fmt.Errorf("failed to scan lender: %w", err)
	}

	lender.LenderType = models.LenderType(lenderType)
	lender.URL = url.String
	lender.Phone = phone.String
	lender.VerifiedLevel = models.VerifiedLevel(verifiedLevel.String)
	lender.Description = description.String

	if states.Valid && states.String != "" {
		if err := json.Unmarshal([]byte(states.String), &lender.StatesServed); err != nil {
			return lender, fmt.Errorf("failed to decode states served for lender %d: %w", lender.ID, err)
		}
	}

	return lender, nil
}
