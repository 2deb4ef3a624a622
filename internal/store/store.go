// Package store persists maps and their version history.
// It provides in-memory and PostgreSQL backends behind a single interface.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/wardleyscope/core/internal/models"
)

var (
	ErrMapNotFound     = errors.New("map not found")
	ErrVersionNotFound = errors.New("version not found")
	ErrVersionConflict = errors.New("version already exists")
)

type Store interface {
	CreateMap(ctx context.Context, m *models.NewMap) (*models.Map, error)
	GetMap(ctx context.Context, id int64) (*models.Map, error)
	// CreateVersion appends the next version of a map. An empty comment
	// becomes "Version N".
	CreateVersion(ctx context.Context, mapID int64, snapshot models.Snapshot, analysis *models.MapAnalysis) (*models.MapVersion, error)
	GetVersion(ctx context.Context, mapID int64, version int) (*models.MapVersion, error)
	// ListVersions returns every version of a map, newest first.
	ListVersions(ctx context.Context, mapID int64) ([]models.MapVersion, error)
	// Name identifies the backend in health output.
	Name() string
	Close() error
}

func defaultComment(comment string, version int) string {
	if comment != "" {
		return comment
	}
	return fmt.Sprintf("Version %d", version)
}
