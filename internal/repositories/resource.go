package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/vasync/internal/models"
	"github.com/desertthunder/vasync/internal/shared"
)

// ResourceRepository reads and refreshes rows of the resources table.
type ResourceRepository struct {
	db DBTX
}

// NewResourceRepository creates a new [ResourceRepository] with the given database connection
func NewResourceRepository(db DBTX) *ResourceRepository {
	return &ResourceRepository{db: db}
}

// Count returns the number of resources, active or not.
func (r *ResourceRepository) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, "SELECT COUNT(*) FROM resources")
}

// CountActive returns the number of active resources.
func (r *ResourceRepository) CountActive(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, "SELECT COUNT(*) FROM resources WHERE isActive = 1")
}

// TouchActive sets updatedAt to at for every active resource and returns the number of rows affected.
func (r *ResourceRepository) TouchActive(ctx context.Context, at time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, "UPDATE resources SET updatedAt = ? WHERE isActive = 1", at)
	if err != nil {
		return 0, fmt.Errorf("failed to refresh resources: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows, nil
}

// ListIncomplete returns up to limit active resources that have neither a phone number nor a URL.
// NULL and empty strings both count as missing.
func (r *ResourceRepository) ListIncomplete(ctx context.Context, limit int) ([]models.Resource, error) {
	query := `
		SELECT id, name, category, phone, url, isActive, updatedAt
		FROM resources
		WHERE (phone IS NULL OR phone = '')
			AND (url IS NULL OR url = '')
			AND isActive = 1
		ORDER BY id ASC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query incomplete resources: %w", err)
	}
	defer rows.Close()

	var resources []models.Resource
	for rows.Next() {
		resource, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		resources = append(resources, resource)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return resources, nil
}

// Get retrieves a resource by ID.
func (r *ResourceRepository) Get(ctx context.Context, id int64) (*models.Resource, error) {
	query := `
		SELECT id, name, category, phone, url, isActive, updatedAt
		FROM resources
		WHERE id = ?
	`

	resource, err := scanResource(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: resource %d", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &resource, nil
}

// Create inserts a resource and sets its ID. Empty phone and URL are stored as NULL.
//
// Resources are curated by the directory application; Create exists for local databases and tests.
func (r *ResourceRepository) Create(ctx context.Context, resource *models.Resource) error {
	query := `
		INSERT INTO resources (name, category, phone, url, isActive, updatedAt)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		resource.Name,
		resource.Category,
		nullString(resource.Phone),
		nullString(resource.URL),
		resource.IsActive,
		resource.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert resource: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get resource id: %w", err)
	}
	resource.ID = id
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResource(row rowScanner) (models.Resource, error) {
	var (
		resource models.Resource
		phone    sql.NullString
		url      sql.NullString
	)

	err := row.Scan(&resource.ID, &resource.Name, &resource.Category, &phone, &url, &resource.IsActive, &resource.UpdatedAt)
	if err == sql.ErrNoRows {
		return resource, err
	}
	if err != nil {
		return resource, fmt.Errorf("failed to scan resource: %w", err)
	}

	resource.Phone = phone.String
	resource.URL = url.String
	return resource, nil
}
