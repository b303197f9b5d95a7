package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"agora/contexts/campus-election/credential-service/domain/entities"
	domainerrors "agora/contexts/campus-election/credential-service/domain/errors"
	"agora/contexts/campus-election/credential-service/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

// Store is the in-memory adapter backing tests and local wiring. It also
// satisfies the Clock and IDGenerator ports so an in-memory module needs no
// extra dependencies.
type Store struct {
	mu sync.RWMutex

	credentials map[uint64]entities.Credential
	outbox      map[string]outboxRecord

	now func() time.Time
}

func NewStore(seed []entities.Credential) *Store {
	credentials := make(map[uint64]entities.Credential, len(seed))
	for _, credential := range seed {
		credentials[credential.StudentID] = credential
	}
	return &Store{
		credentials: credentials,
		outbox:      make(map[string]outboxRecord),
	}
}

// SetNow overrides the store clock for growth-window tests.
func (s *Store) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) CreateCredential(_ context.Context, credential entities.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.credentials[credential.StudentID]; exists {
		return domainerrors.ErrCredentialExists
	}
	s.credentials[credential.StudentID] = credential
	return nil
}

func (s *Store) SaveCredential(_ context.Context, credential entities.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentials[credential.StudentID] = credential
	return nil
}

func (s *Store) GetCredential(_ context.Context, studentID uint64) (entities.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	credential, ok := s.credentials[studentID]
	if !ok {
		return entities.Credential{}, domainerrors.ErrCredentialNotFound
	}
	return credential, nil
}

func (s *Store) ListCredentials(_ context.Context) ([]entities.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Credential, 0, len(s.credentials))
	for _, credential := range s.credentials {
		items = append(items, credential)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	if existing, ok := s.outbox[outboxID]; ok {
		if !bytes.Equal(existing.message.Payload, payload) {
			return domainerrors.ErrConflict
		}
		return nil
	}
	createdAt := envelope.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	s.outbox[outboxID] = outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    strings.TrimSpace(envelope.EventType),
			PartitionKey: strings.TrimSpace(envelope.PartitionKey),
			Payload:      payload,
			CreatedAt:    createdAt,
		},
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0, len(s.outbox))
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		items = append(items, row.message)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrConflict
	}
	row.published = true
	s.outbox[strings.TrimSpace(outboxID)] = row
	return nil
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	now := s.now
	s.mu.RUnlock()
	if now != nil {
		return now().UTC()
	}
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
