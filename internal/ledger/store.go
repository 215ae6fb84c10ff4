// Package ledger implements the in-memory source of truth for the
// transaction set of a user session.
//
// All mutations go through the Store. It validates the write-time
// invariants before touching any state, applies accepted mutations to its
// in-memory set and mirrors them to the persistence repository afterwards.
// If the mirror write fails, the in-memory mutation is kept and a
// PersistenceError is returned; the next Load reconciles from the database.
package ledger

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/models"
	"github.com/rs/zerolog/log"
)

// Store is the single mutable shared resource of the ledger core. Every
// derived view works on snapshots returned by All.
type Store struct {
	mu          sync.Mutex
	repo        Repository
	records     map[uuid.UUID]models.Transaction
	version     uint64
	subscribers []func(version uint64)
}

// Default is the store used by the API controllers. It is set by Initialize.
var Default *Store

// Initialize creates the default store on top of the connected database and
// loads the persisted record set.
func Initialize() error {
	store := New(NewGormRepository(models.DB))
	if err := store.Load(); err != nil {
		return err
	}

	Default = store
	return nil
}

// New returns an empty store mirroring to the repository passed in.
func New(repo Repository) *Store {
	return &Store{
		repo:    repo,
		records: make(map[uuid.UUID]models.Transaction),
	}
}

// Load replaces the in-memory set with the persisted one. This is also the
// reconciliation path after a PersistenceError.
func (s *Store) Load() error {
	transactions, err := s.repo.List()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.records = make(map[uuid.UUID]models.Transaction, len(transactions))
	for _, t := range transactions {
		s.records[t.ID] = t
	}
	s.version++
	s.mu.Unlock()

	s.notify()
	return nil
}

// Subscribe registers a callback that is invoked with the new store version
// after every committed mutation. Derived views use this to invalidate
// cached state instead of polling.
func (s *Store) Subscribe(fn func(version uint64)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Version returns the current store version. It increases with every
// committed mutation and every Load.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Count returns the number of records in the store.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// All returns a snapshot of the current record set. The order of the
// returned slice carries no meaning, callers sort as needed.
func (s *Store) All() []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	transactions := make([]models.Transaction, 0, len(s.records))
	for _, t := range s.records {
		transactions = append(transactions, t)
	}

	return transactions
}

// Get returns the record with the given id.
func (s *Store) Get(id uuid.UUID) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.records[id]
	if !ok {
		return models.Transaction{}, ErrNotFound
	}

	return t, nil
}

// Create validates the candidate record, assigns id and timestamps and
// appends it. On a validation error no state is mutated.
func (s *Store) Create(draft models.Transaction) (models.Transaction, error) {
	// The gorm hook normalizes and validates, it does not use the handle
	if err := draft.BeforeSave(nil); err != nil {
		return models.Transaction{}, err
	}

	now := time.Now().In(time.UTC)
	draft.ID = uuid.New()
	draft.CreatedAt = now
	draft.UpdatedAt = now

	s.mu.Lock()
	s.records[draft.ID] = draft
	s.version++
	s.mu.Unlock()

	s.notify()

	if err := s.repo.Create(&draft); err != nil {
		return draft, &PersistenceError{Op: "create", ID: draft.ID, Err: err}
	}

	return draft, nil
}

// Update replaces the record with the given id. The full patched record is
// re-validated before committing, so either the whole update applies or
// nothing changes. Id, kind and creation time of the stored record are
// preserved.
func (s *Store) Update(id uuid.UUID, patch models.Transaction) (models.Transaction, error) {
	s.mu.Lock()
	current, ok := s.records[id]
	s.mu.Unlock()

	if !ok {
		return models.Transaction{}, ErrNotFound
	}

	if patch.Kind != "" && patch.Kind != current.Kind {
		return models.Transaction{}, ErrKindImmutable
	}

	patch.Kind = current.Kind
	patch.ID = current.ID
	patch.CreatedAt = current.CreatedAt
	patch.UpdatedAt = time.Now().In(time.UTC)

	if err := patch.BeforeSave(nil); err != nil {
		return models.Transaction{}, err
	}

	s.mu.Lock()
	s.records[id] = patch
	s.version++
	s.mu.Unlock()

	s.notify()

	if err := s.repo.Update(patch); err != nil {
		return patch, &PersistenceError{Op: "update", ID: id, Err: err}
	}

	return patch, nil
}

// Delete removes the record with the given id. The delete is hard, there is
// no tombstone.
func (s *Store) Delete(id uuid.UUID) error {
	s.mu.Lock()
	_, ok := s.records[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}

	delete(s.records, id)
	s.version++
	s.mu.Unlock()

	s.notify()

	if err := s.repo.Delete(id); err != nil {
		return &PersistenceError{Op: "delete", ID: id, Err: err}
	}

	return nil
}

// notify pushes the new version to all subscribers. Mutations are already
// committed when this runs.
func (s *Store) notify() {
	s.mu.Lock()
	version := s.version
	subscribers := s.subscribers
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(version)
	}

	log.Debug().Uint64("version", version).Msg("ledger store updated")
}
