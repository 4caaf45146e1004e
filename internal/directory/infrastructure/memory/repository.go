package memory

import (
	"context"
	"sort"
	"sync"

	directory "condoledger/internal/directory/domain"
)

// MemberDirectory is an in-memory member directory for tests.
type MemberDirectory struct {
	mu      sync.RWMutex
	members map[string]directory.Member
}

// NewMemberDirectory constructs an empty member directory.
func NewMemberDirectory() *MemberDirectory {
	return &MemberDirectory{members: make(map[string]directory.Member)}
}

// Add registers a member.
func (d *MemberDirectory) Add(m directory.Member) {
	d.mu.Lock()
	d.members[m.ID] = m
	d.mu.Unlock()
}

// Get returns a member by id.
func (d *MemberDirectory) Get(_ context.Context, id string) (*directory.Member, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	m, ok := d.members[id]
	if !ok {
		return nil, directory.ErrMemberNotFound
	}
	return &m, nil
}

// ListActiveByBuilding returns active members of a building.
func (d *MemberDirectory) ListActiveByBuilding(_ context.Context, buildingID string) ([]directory.Member, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var result []directory.Member
	for _, m := range d.members {
		if m.BuildingID == buildingID && m.IsActive {
			result = append(result, m)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// BuildingDirectory is an in-memory building directory for tests.
type BuildingDirectory struct {
	mu        sync.RWMutex
	buildings map[string]directory.Building
}

// NewBuildingDirectory constructs an empty building directory.
func NewBuildingDirectory() *BuildingDirectory {
	return &BuildingDirectory{buildings: make(map[string]directory.Building)}
}

// Add registers a building.
func (d *BuildingDirectory) Add(b directory.Building) {
	d.mu.Lock()
	d.buildings[b.ID] = b
	d.mu.Unlock()
}

// Get returns a building by id.
func (d *BuildingDirectory) Get(_ context.Context, id string) (*directory.Building, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	b, ok := d.buildings[id]
	if !ok {
		return nil, directory.ErrBuildingNotFound
	}
	return &b, nil
}

// ListActive returns active buildings.
func (d *BuildingDirectory) ListActive(_ context.Context) ([]directory.Building, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var result []directory.Building
	for _, b := range d.buildings {
		if b.IsActive {
			result = append(result, b)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}
