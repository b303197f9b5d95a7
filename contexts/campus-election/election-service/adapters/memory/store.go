package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"agora/contexts/campus-election/election-service/domain/entities"
	domainerrors "agora/contexts/campus-election/election-service/domain/errors"
	"agora/contexts/campus-election/election-service/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

type dedupRecord struct {
	payloadHash string
	expiresAt   time.Time
}

// Store is the in-memory adapter backing tests and local wiring. It owns
// candidates, votes, and results, the credential standing projection, the
// module outbox, and the consumer dedup table.
type Store struct {
	mu sync.RWMutex

	candidates map[string]entities.Candidate
	// candidateOrder preserves registration order; tally output follows it.
	candidateOrder []string
	votes          map[string]entities.Vote
	results        []entities.ElectionResult
	standings      map[uint64]ports.CredentialStanding
	outbox         map[string]outboxRecord
	eventDedup     map[string]dedupRecord

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		candidates: make(map[string]entities.Candidate),
		votes:      make(map[string]entities.Vote),
		standings:  make(map[uint64]ports.CredentialStanding),
		outbox:     make(map[string]outboxRecord),
		eventDedup: make(map[string]dedupRecord),
	}
}

// SetNow overrides the store clock for deterministic tests.
func (s *Store) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// SetCredentialStanding seeds the projection directly, the way consumer
// wiring would.
func (s *Store) SetCredentialStanding(standing ports.CredentialStanding) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.standings[standing.StudentID] = standing
}

func (s *Store) GetCredentialStanding(_ context.Context, studentID uint64) (ports.CredentialStanding, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	standing, ok := s.standings[studentID]
	if !ok {
		return ports.CredentialStanding{}, false, nil
	}
	return standing, true, nil
}

func (s *Store) UpsertCredentialStanding(_ context.Context, standing ports.CredentialStanding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.standings[standing.StudentID] = standing
	return nil
}

func (s *Store) CreateCandidate(_ context.Context, candidate entities.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.candidates[candidate.CandidateID]; exists {
		return domainerrors.ErrConflict
	}
	s.candidates[candidate.CandidateID] = candidate
	s.candidateOrder = append(s.candidateOrder, candidate.CandidateID)
	return nil
}

func (s *Store) GetCandidate(_ context.Context, candidateID string) (entities.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	candidate, ok := s.candidates[strings.TrimSpace(candidateID)]
	if !ok {
		return entities.Candidate{}, domainerrors.ErrCandidateNotFound
	}
	return candidate, nil
}

func (s *Store) ListCandidates(_ context.Context) ([]entities.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.candidatesInOrder(), nil
}

func (s *Store) RecordVote(_ context.Context, vote entities.Vote) (entities.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidate, ok := s.candidates[vote.CandidateID]
	if !ok {
		return entities.Candidate{}, domainerrors.ErrCandidateNotFound
	}
	if _, exists := s.votes[vote.VoteID]; exists {
		return entities.Candidate{}, domainerrors.ErrConflict
	}
	candidate.VoteCount += vote.Weight
	candidate.UpdatedAt = vote.CastAt.UTC()
	s.candidates[vote.CandidateID] = candidate
	s.votes[vote.VoteID] = vote
	return candidate, nil
}

func (s *Store) ListVotes(_ context.Context) ([]entities.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Vote, 0, len(s.votes))
	for _, vote := range s.votes {
		items = append(items, vote)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CastAt.Before(items[j].CastAt)
	})
	return items, nil
}

func (s *Store) ConsumeForTally(_ context.Context) ([]entities.Candidate, []entities.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidates := s.candidatesInOrder()
	votes := make([]entities.Vote, 0, len(s.votes))
	for _, vote := range s.votes {
		votes = append(votes, vote)
	}
	sort.Slice(votes, func(i, j int) bool {
		return votes[i].CastAt.Before(votes[j].CastAt)
	})

	s.candidates = make(map[string]entities.Candidate)
	s.candidateOrder = nil
	s.votes = make(map[string]entities.Vote)
	return candidates, votes, nil
}

func (s *Store) SaveResult(_ context.Context, result entities.ElectionResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
	return nil
}

func (s *Store) ListResults(_ context.Context) ([]entities.ElectionResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.ElectionResult, len(s.results))
	copy(items, s.results)
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

func (s *Store) ReserveEvent(
	_ context.Context,
	eventID string,
	payloadHash string,
	expiresAt time.Time,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.TrimSpace(eventID)
	existing, ok := s.eventDedup[key]
	if ok {
		if !existing.expiresAt.IsZero() && time.Now().UTC().After(existing.expiresAt.UTC()) {
			delete(s.eventDedup, key)
		} else {
			if existing.payloadHash != strings.TrimSpace(payloadHash) {
				return false, domainerrors.ErrConflict
			}
			return true, nil
		}
	}

	s.eventDedup[key] = dedupRecord{
		payloadHash: strings.TrimSpace(payloadHash),
		expiresAt:   expiresAt.UTC(),
	}
	return false, nil
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

func (s *Store) candidatesInOrder() []entities.Candidate {
	items := make([]entities.Candidate, 0, len(s.candidateOrder))
	for _, candidateID := range s.candidateOrder {
		if candidate, ok := s.candidates[candidateID]; ok {
			items = append(items, candidate)
		}
	}
	return items
}
