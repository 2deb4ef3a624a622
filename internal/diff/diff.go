// Package diff compares two snapshots of the same map.
package diff

import "github.com/wardleyscope/core/internal/models"

// Compare reports what changed going from previous to current. Components
// are matched by id and count as moved when either coordinate differs;
// relationships are matched on (source, target, type).
func Compare(previous, current models.Snapshot) *models.VersionDiff {
	d := &models.VersionDiff{}
	d.Components.Added = []models.Component{}
	d.Components.Removed = []models.Component{}
	d.Components.Moved = []models.ComponentMove{}
	d.Relationships.Added = []models.Relationship{}
	d.Relationships.Removed = []models.Relationship{}

	before := make(map[string]models.Component, len(previous.Components))
	for _, c := range previous.Components {
		before[c.ID] = c
	}
	after := make(map[string]bool, len(current.Components))

	for _, c := range current.Components {
		after[c.ID] = true

		old, ok := before[c.ID]
		if !ok {
			d.Components.Added = append(d.Components.Added, c)
			continue
		}

		if old.X != c.X || old.Y != c.Y {
			d.Components.Moved = append(d.Components.Moved, models.ComponentMove{
				ID:   c.ID,
				Name: c.Name,
				From: models.Point{X: old.X, Y: old.Y},
				To:   models.Point{X: c.X, Y: c.Y},
			})
		}
	}

	for _, c := range previous.Components {
		if !after[c.ID] {
			d.Components.Removed = append(d.Components.Removed, c)
		}
	}

	d.Relationships.Added = missing(current.Relationships, previous.Relationships)
	d.Relationships.Removed = missing(previous.Relationships, current.Relationships)

	return d
}

// Versions compares two stored versions and records their numbers.
func Versions(previous, current *models.MapVersion) *models.VersionDiff {
	d := Compare(previous.Snapshot(), current.Snapshot())
	d.FromVersion = previous.Version
	d.ToVersion = current.Version
	return d
}

// missing returns the relationships of from that are absent in other, each
// (source, target, type) at most once.
func missing(from, other []models.Relationship) []models.Relationship {
	present := make(map[string]bool, len(other))
	for _, r := range other {
		present[r.Key()] = true
	}

	out := []models.Relationship{}
	for _, r := range from {
		if !present[r.Key()] {
			present[r.Key()] = true
			out = append(out, r)
		}
	}
	return out
}
