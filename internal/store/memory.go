// Package store persists maps and their version history.
// It provides in-memory and PostgreSQL backends behind a single interface.
package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/wardleyscope/core/internal/models"
)

// Memory keeps everything in process. It is the default when no database
// is configured and backs the handler tests.
type Memory struct {
	mu        sync.RWMutex
	maps      map[int64]models.Map
	versions  map[int64][]models.MapVersion
	nextMap   int64
	nextVerID int64
	now       func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		maps:     make(map[int64]models.Map),
		versions: make(map[int64][]models.MapVersion),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Memory) CreateMap(_ context.Context, m *models.NewMap) (*models.Map, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextMap++
	now := s.now()
	created := models.Map{
		ID:          s.nextMap,
		Name:        m.Name,
		Description: m.Description,
		OwnerID:     m.OwnerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.maps[created.ID] = created

	return &created, nil
}

func (s *Memory) GetMap(_ context.Context, id int64) (*models.Map, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.maps[id]
	if !ok {
		return nil, ErrMapNotFound
	}
	return &m, nil
}

func (s *Memory) CreateVersion(_ context.Context, mapID int64, snapshot models.Snapshot, analysis *models.MapAnalysis) (*models.MapVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.maps[mapID]
	if !ok {
		return nil, ErrMapNotFound
	}

	number := len(s.versions[mapID]) + 1
	s.nextVerID++
	now := s.now()

	version := models.MapVersion{
		ID:            s.nextVerID,
		MapID:         mapID,
		Version:       number,
		Components:    slices.Clone(snapshot.Components),
		Relationships: slices.Clone(snapshot.Relationships),
		Analysis:      analysis,
		Comment:       defaultComment(snapshot.Comment, number),
		CreatedAt:     now,
	}
	s.versions[mapID] = append(s.versions[mapID], version)

	m.UpdatedAt = now
	s.maps[mapID] = m

	return &version, nil
}

func (s *Memory) GetVersion(_ context.Context, mapID int64, version int) (*models.MapVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.maps[mapID]; !ok {
		return nil, ErrMapNotFound
	}

	versions := s.versions[mapID]
	if version < 1 || version > len(versions) {
		return nil, ErrVersionNotFound
	}

	v := versions[version-1]
	return &v, nil
}

func (s *Memory) ListVersions(_ context.Context, mapID int64) ([]models.MapVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.maps[mapID]; !ok {
		return nil, ErrMapNotFound
	}

	out := slices.Clone(s.versions[mapID])
	slices.Reverse(out)
	if out == nil {
		out = []models.MapVersion{}
	}
	return out, nil
}

func (s *Memory) Name() string {
	return "memory"
}

func (s *Memory) Close() error {
	return nil
}
