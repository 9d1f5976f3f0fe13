package credential

import (
	"context"
	"strconv"
	"sync"

	apperrors "github.com/kbukum/habit/errors"
)

// Store is the persistence port of the credential service.
//
// Find methods return (nil, nil) when no record matches. Save inserts a new
// record and assigns its ID; a name that already exists fails with
// CredentialExists. Update replaces Salt, Secret and LastPasswordChange of an
// existing record in one atomic write.
type Store interface {
	FindByLoginKey(ctx context.Context, name string) (*Record, error)
	FindByID(ctx context.Context, id string) (*Record, error)
	Save(ctx context.Context, rec *Record) error
	Update(ctx context.Context, rec *Record) error
}

// MemoryStore is an in-process Store. IDs are sequential decimal strings
// starting at "1".
type MemoryStore struct {
	mu     sync.RWMutex
	byID   map[string]*Record
	byName map[string]string
	nextID uint64
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:   make(map[string]*Record),
		byName: make(map[string]string),
	}
}

func (s *MemoryStore) FindByLoginKey(ctx context.Context, name string) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byName[name]
	if !ok {
		return nil, nil
	}
	return s.byID[id].Clone(), nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id string) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byID[id].Clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, rec *Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byName[rec.Name]; exists {
		return apperrors.CredentialExists()
	}
	s.nextID++
	rec.ID = strconv.FormatUint(s.nextID, 10)
	s.byID[rec.ID] = rec.Clone()
	s.byName[rec.Name] = rec.ID
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, rec *Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.byID[rec.ID]
	if !ok {
		return apperrors.NotFound("credential")
	}
	stored.Salt = rec.Salt
	stored.Secret = rec.Secret
	stored.LastPasswordChange = rec.LastPasswordChange
	return nil
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
