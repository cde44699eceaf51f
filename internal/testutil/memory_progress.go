package testutil

import (
	"context"
	"sync"

	"github.com/vytor/timestables/internal/models"
)

// MemoryProgress is an in-memory repository.ProgressRepository using the
// same merge rules as the SQLite implementation.
type MemoryProgress struct {
	mu       sync.Mutex
	records  map[models.Owner]models.Progress
	writes   []models.ProgressUpdate
	WriteErr error
}

func NewMemoryProgress() *MemoryProgress {
	return &MemoryProgress{records: map[models.Owner]models.Progress{}}
}

func (m *MemoryProgress) Read(_ context.Context, owner models.Owner) (*models.Progress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.records[owner].Clone()
	p.Owner = owner
	return &p, nil
}

func (m *MemoryProgress) Write(_ context.Context, owner models.Owner, update models.ProgressUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.writes = append(m.writes, update)
	m.records[owner] = m.records[owner].Apply(update)
	return nil
}

func (m *MemoryProgress) Delete(_ context.Context, owner models.Owner) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, owner)
	return nil
}

// Seed replaces the stored progress of owner.
func (m *MemoryProgress) Seed(owner models.Owner, p models.Progress) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.Owner = owner
	m.records[owner] = p.Clone()
}

// Writes returns every accepted update in order.
func (m *MemoryProgress) Writes() []models.ProgressUpdate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.ProgressUpdate(nil), m.writes...)
}
