package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"scheme-assistant/internal/config"
	"scheme-assistant/internal/models"
)

// DB holds the connection pool for a Postgres-backed scheme catalog.
type DB struct {
	pool *pgxpool.Pool
}

// NewDB creates a database connection for catalog loading.
func NewDB(cfg *config.Config) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// The catalog is read once at startup; a small pool is plenty.
	poolConfig.MaxConns = 4
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 1 * time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the database connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// HealthCheck verifies database connectivity.
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// LoadSchemes reads and validates the full scheme catalog from the
// schemes table. Criteria, translations and documents are stored as JSON
// columns.
func (db *DB) LoadSchemes(ctx context.Context) ([]*models.Scheme, error) {
	query := `
		SELECT id, name, name_translations, description, description_translations,
			eligibility, benefits, required_documents, application_process,
			application_url, office_location, source_url, last_updated
		FROM schemes
		ORDER BY position, id`

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query schemes: %w", err)
	}
	defer rows.Close()

	schemes := make([]*models.Scheme, 0)
	for rows.Next() {
		var (
			scheme           models.Scheme
			nameTransJSON    []byte
			descTransJSON    []byte
			eligibilityJSON  []byte
			documentsJSON    []byte
		)

		err := rows.Scan(
			&scheme.ID,
			&scheme.Name,
			&nameTransJSON,
			&scheme.Description,
			&descTransJSON,
			&eligibilityJSON,
			&scheme.Benefits,
			&documentsJSON,
			&scheme.ApplicationProcess,
			&scheme.ApplicationURL,
			&scheme.OfficeLocation,
			&scheme.SourceURL,
			&scheme.LastUpdated,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scheme: %w", err)
		}

		if len(nameTransJSON) > 0 {
			if err := json.Unmarshal(nameTransJSON, &scheme.NameTranslations); err != nil {
				return nil, fmt.Errorf("scheme %q: failed to parse name translations: %w", scheme.ID, err)
			}
		}
		if len(descTransJSON) > 0 {
			if err := json.Unmarshal(descTransJSON, &scheme.DescriptionTranslations); err != nil {
				return nil, fmt.Errorf("scheme %q: failed to parse description translations: %w", scheme.ID, err)
			}
		}
		if len(eligibilityJSON) > 0 {
			if err := json.Unmarshal(eligibilityJSON, &scheme.Eligibility); err != nil {
				return nil, fmt.Errorf("scheme %q: failed to parse eligibility criteria: %w", scheme.ID, err)
			}
		}
		if len(documentsJSON) > 0 {
			if err := json.Unmarshal(documentsJSON, &scheme.RequiredDocuments); err != nil {
				return nil, fmt.Errorf("scheme %q: failed to parse required documents: %w", scheme.ID, err)
			}
		}

		schemes = append(schemes, &scheme)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read schemes: %w", err)
	}

	return validate(schemes)
}
