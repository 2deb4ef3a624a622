// Package store persists maps and their version history.
// It provides in-memory and PostgreSQL backends behind a single interface.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/wardleyscope/core/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS maps (
	id          BIGSERIAL PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	owner_id    TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS map_versions (
	id            BIGSERIAL PRIMARY KEY,
	map_id        BIGINT NOT NULL REFERENCES maps(id) ON DELETE CASCADE,
	version       INTEGER NOT NULL,
	components    JSONB NOT NULL,
	relationships JSONB NOT NULL,
	analysis      JSONB,
	comment       TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (map_id, version)
);`

const uniqueViolation = "23505"

type Postgres struct {
	db *sql.DB
}

// OpenPostgres connects with lib/pq and creates the schema if missing.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Postgres{db: db}, nil
}

func (s *Postgres) CreateMap(ctx context.Context, m *models.NewMap) (*models.Map, error) {
	created := models.Map{
		Name:        m.Name,
		Description: m.Description,
		OwnerID:     m.OwnerID,
	}

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO maps (name, description, owner_id) VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		m.Name, m.Description, m.OwnerID,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert map: %w", err)
	}

	return &created, nil
}

func (s *Postgres) GetMap(ctx context.Context, id int64) (*models.Map, error) {
	var m models.Map
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, owner_id, created_at, updated_at FROM maps WHERE id = $1`,
		id,
	).Scan(&m.ID, &m.Name, &m.Description, &m.OwnerID, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMapNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load map %d: %w", id, err)
	}

	return &m, nil
}

func (s *Postgres) CreateVersion(ctx context.Context, mapID int64, snapshot models.Snapshot, analysis *models.MapAnalysis) (*models.MapVersion, error) {
	components, err := json.Marshal(nonNilComponents(snapshot.Components))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal components: %w", err)
	}
	relationships, err := json.Marshal(nonNilRelationships(snapshot.Relationships))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal relationships: %w", err)
	}
	var analysisJSON []byte
	if analysis != nil {
		if analysisJSON, err = json.Marshal(analysis); err != nil {
			return nil, fmt.Errorf("failed to marshal analysis: %w", err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Locking the map row serialises version numbering per map.
	var locked int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM maps WHERE id = $1 FOR UPDATE`, mapID).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMapNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock map %d: %w", mapID, err)
	}

	var number int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) + 1 FROM map_versions WHERE map_id = $1`, mapID,
	).Scan(&number)
	if err != nil {
		return nil, fmt.Errorf("failed to number version: %w", err)
	}

	version := models.MapVersion{
		MapID:         mapID,
		Version:       number,
		Components:    snapshot.Components,
		Relationships: snapshot.Relationships,
		Analysis:      analysis,
		Comment:       defaultComment(snapshot.Comment, number),
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO map_versions (map_id, version, components, relationships, analysis, comment)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		mapID, number, string(components), string(relationships), nullJSON(analysisJSON), version.Comment,
	).Scan(&version.ID, &version.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, fmt.Errorf("map %d version %d: %w", mapID, number, ErrVersionConflict)
		}
		return nil, fmt.Errorf("failed to insert version: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE maps SET updated_at = $2 WHERE id = $1`, mapID, version.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to touch map %d: %w", mapID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit version: %w", err)
	}

	return &version, nil
}

func (s *Postgres) GetVersion(ctx context.Context, mapID int64, version int) (*models.MapVersion, error) {
	if _, err := s.GetMap(ctx, mapID); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, map_id, version, components, relationships, analysis, comment, created_at
		 FROM map_versions WHERE map_id = $1 AND version = $2`,
		mapID, version,
	)

	v, err := scanVersion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVersionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load version %d of map %d: %w", version, mapID, err)
	}

	return v, nil
}

func (s *Postgres) ListVersions(ctx context.Context, mapID int64) ([]models.MapVersion, error) {
	if _, err := s.GetMap(ctx, mapID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, map_id, version, components, relationships, analysis, comment, created_at
		 FROM map_versions WHERE map_id = $1 ORDER BY version DESC`,
		mapID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions of map %d: %w", mapID, err)
	}
	defer rows.Close()

	versions := []models.MapVersion{}
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan version: %w", err)
		}
		versions = append(versions, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list versions of map %d: %w", mapID, err)
	}

	return versions, nil
}

func (s *Postgres) Name() string {
	return "postgres"
}

func (s *Postgres) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVersion(row scanner) (*models.MapVersion, error) {
	var (
		v                     models.MapVersion
		components, relations []byte
		analysisJSON          []byte
	)

	if err := row.Scan(&v.ID, &v.MapID, &v.Version, &components, &relations, &analysisJSON, &v.Comment, &v.CreatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(components, &v.Components); err != nil {
		return nil, fmt.Errorf("failed to unmarshal components: %w", err)
	}
	if err := json.Unmarshal(relations, &v.Relationships); err != nil {
		return nil, fmt.Errorf("failed to unmarshal relationships: %w", err)
	}
	if len(analysisJSON) > 0 {
		v.Analysis = &models.MapAnalysis{}
		if err := json.Unmarshal(analysisJSON, v.Analysis); err != nil {
			return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
		}
	}

	return &v, nil
}

// JSONB parameters go over the wire as text; lib/pq would encode a raw
// []byte as bytea.
func nullJSON(data []byte) any {
	if data == nil {
		return nil
	}
	return string(data)
}

func nonNilComponents(c []models.Component) []models.Component {
	if c == nil {
		return []models.Component{}
	}
	return c
}

func nonNilRelationships(r []models.Relationship) []models.Relationship {
	if r == nil {
		return []models.Relationship{}
	}
	return r
}
