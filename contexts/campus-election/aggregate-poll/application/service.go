package application

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"agora/contexts/campus-election/aggregate-poll/domain/entities"
	domainerrors "agora/contexts/campus-election/aggregate-poll/domain/errors"
	"agora/contexts/campus-election/aggregate-poll/ports"
)

// Service orchestrates the poll state machine over one shared record.
type Service struct {
	Polls  ports.PollRepository
	Outbox ports.OutboxWriter
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// CreatePollInput is the write-model input for poll creation.
type CreatePollInput struct {
	Name       string
	OwnerID    string
	Candidates []string
}

// PollResults is the closed-poll read model, index-aligned by candidate.
type PollResults struct {
	PollID     string
	Name       string
	Candidates []string
	Votes      []uint64
	ClosedAt   time.Time
}

// CreatePoll opens a poll with one zero counter per candidate. Polls with a
// single candidate are rejected: a one-option vote is not a decision.
func (s Service) CreatePoll(ctx context.Context, input CreatePollInput) (entities.Poll, error) {
	logger := ResolveLogger(s.Logger)
	logger.Info("poll creation processing started",
		"event", "poll_create_started",
		"module", "campus-election/aggregate-poll",
		"layer", "application",
		"name", strings.TrimSpace(input.Name),
		"candidate_count", len(input.Candidates),
	)

	name := strings.TrimSpace(input.Name)
	ownerID := strings.TrimSpace(input.OwnerID)
	if name == "" || ownerID == "" {
		return entities.Poll{}, domainerrors.ErrInvalidPollInput
	}
	candidates := make([]string, 0, len(input.Candidates))
	for _, candidate := range input.Candidates {
		trimmed := strings.TrimSpace(candidate)
		if trimmed == "" {
			return entities.Poll{}, domainerrors.ErrInvalidPollInput
		}
		candidates = append(candidates, trimmed)
	}
	if len(candidates) <= 1 {
		logger.Warn("poll creation rejected with too few candidates",
			"event", "poll_create_insufficient_candidates",
			"module", "campus-election/aggregate-poll",
			"layer", "application",
			"candidate_count", len(candidates),
		)
		return entities.Poll{}, domainerrors.ErrInsufficientCandidates
	}

	pollID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Poll{}, err
	}
	now := s.now()
	poll := entities.Poll{
		PollID:     pollID,
		Name:       name,
		OwnerID:    ownerID,
		Candidates: candidates,
		Votes:      make([]uint64, len(candidates)),
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Polls.CreatePoll(ctx, poll); err != nil {
		return entities.Poll{}, err
	}
	if err := s.appendPollEvent(ctx, "poll.created", poll.PollID, now, map[string]any{
		"poll_id":     poll.PollID,
		"name":        poll.Name,
		"owner_id":    poll.OwnerID,
		"candidates":  poll.Candidates,
		"occurred_at": now.Format(time.RFC3339),
	}); err != nil {
		return entities.Poll{}, err
	}

	logger.Info("poll created",
		"event", "poll_created",
		"module", "campus-election/aggregate-poll",
		"layer", "application",
		"poll_id", poll.PollID,
		"candidate_count", len(poll.Candidates),
	)
	return poll.Clone(), nil
}

// CastVote adds exactly one unweighted vote to the counter at candidateIndex.
// Active polls only; an out-of-range index leaves the counters untouched.
func (s Service) CastVote(ctx context.Context, pollID string, candidateIndex int) (entities.Poll, error) {
	logger := ResolveLogger(s.Logger)
	logger.Info("poll vote processing started",
		"event", "poll_vote_started",
		"module", "campus-election/aggregate-poll",
		"layer", "application",
		"poll_id", strings.TrimSpace(pollID),
		"candidate_index", candidateIndex,
	)

	poll, err := s.Polls.GetPoll(ctx, strings.TrimSpace(pollID))
	if err != nil {
		return entities.Poll{}, err
	}
	if !poll.Active {
		return entities.Poll{}, domainerrors.ErrPollClosed
	}
	if candidateIndex < 0 || candidateIndex >= len(poll.Candidates) {
		logger.Warn("poll vote rejected with out-of-range index",
			"event", "poll_vote_invalid_index",
			"module", "campus-election/aggregate-poll",
			"layer", "application",
			"poll_id", poll.PollID,
			"candidate_index", candidateIndex,
			"candidate_count", len(poll.Candidates),
		)
		return entities.Poll{}, domainerrors.ErrInvalidCandidateIndex
	}

	now := s.now()
	poll.Votes[candidateIndex]++
	poll.UpdatedAt = now
	if err := s.Polls.SavePoll(ctx, poll); err != nil {
		return entities.Poll{}, err
	}
	if err := s.appendPollEvent(ctx, "poll.vote_cast", poll.PollID, now, map[string]any{
		"poll_id":         poll.PollID,
		"candidate_index": candidateIndex,
		"candidate":       poll.Candidates[candidateIndex],
		"vote_total":      poll.Votes[candidateIndex],
		"occurred_at":     now.Format(time.RFC3339),
	}); err != nil {
		return entities.Poll{}, err
	}

	logger.Info("poll vote cast",
		"event", "poll_vote_cast",
		"module", "campus-election/aggregate-poll",
		"layer", "application",
		"poll_id", poll.PollID,
		"candidate_index", candidateIndex,
		"vote_total", poll.Votes[candidateIndex],
	)
	return poll.Clone(), nil
}

// ClosePoll freezes the poll permanently. Only the poll owner may close it,
// and a closed poll never reopens.
func (s Service) ClosePoll(ctx context.Context, pollID string, callerID string) (entities.Poll, error) {
	logger := ResolveLogger(s.Logger)
	logger.Info("poll close processing started",
		"event", "poll_close_started",
		"module", "campus-election/aggregate-poll",
		"layer", "application",
		"poll_id", strings.TrimSpace(pollID),
	)

	caller := strings.TrimSpace(callerID)
	if caller == "" {
		return entities.Poll{}, domainerrors.ErrInvalidPollInput
	}
	poll, err := s.Polls.GetPoll(ctx, strings.TrimSpace(pollID))
	if err != nil {
		return entities.Poll{}, err
	}
	if !poll.Active {
		return entities.Poll{}, domainerrors.ErrPollClosed
	}
	if poll.OwnerID != caller {
		logger.Warn("poll close rejected for non-owner",
			"event", "poll_close_not_owner",
			"module", "campus-election/aggregate-poll",
			"layer", "application",
			"poll_id", poll.PollID,
			"caller_id", caller,
		)
		return entities.Poll{}, domainerrors.ErrNotOwner
	}

	now := s.now()
	poll.Active = false
	poll.UpdatedAt = now
	poll.ClosedAt = &now
	if err := s.Polls.SavePoll(ctx, poll); err != nil {
		return entities.Poll{}, err
	}
	if err := s.appendPollEvent(ctx, "poll.closed", poll.PollID, now, map[string]any{
		"poll_id":     poll.PollID,
		"votes":       poll.Votes,
		"occurred_at": now.Format(time.RFC3339),
	}); err != nil {
		return entities.Poll{}, err
	}

	logger.Info("poll closed",
		"event", "poll_closed",
		"module", "campus-election/aggregate-poll",
		"layer", "application",
		"poll_id", poll.PollID,
	)
	return poll.Clone(), nil
}

// ViewResults returns the final counters, index-aligned with the candidate
// list. Results exist only once the poll is closed.
func (s Service) ViewResults(ctx context.Context, pollID string) (PollResults, error) {
	poll, err := s.Polls.GetPoll(ctx, strings.TrimSpace(pollID))
	if err != nil {
		return PollResults{}, err
	}
	if poll.Active {
		return PollResults{}, domainerrors.ErrPollStillActive
	}
	closedAt := poll.UpdatedAt
	if poll.ClosedAt != nil {
		closedAt = *poll.ClosedAt
	}
	clone := poll.Clone()
	return PollResults{
		PollID:     clone.PollID,
		Name:       clone.Name,
		Candidates: clone.Candidates,
		Votes:      clone.Votes,
		ClosedAt:   closedAt,
	}, nil
}

// GetPoll returns a defensive copy of one poll.
func (s Service) GetPoll(ctx context.Context, pollID string) (entities.Poll, error) {
	poll, err := s.Polls.GetPoll(ctx, strings.TrimSpace(pollID))
	if err != nil {
		return entities.Poll{}, err
	}
	return poll.Clone(), nil
}

// ListPolls returns all known polls.
func (s Service) ListPolls(ctx context.Context) ([]entities.Poll, error) {
	polls, err := s.Polls.ListPolls(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entities.Poll, 0, len(polls))
	for _, poll := range polls {
		out = append(out, poll.Clone())
	}
	return out, nil
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func (s Service) appendPollEvent(
	ctx context.Context,
	eventType string,
	pollID string,
	occurredAt time.Time,
	data map[string]any,
) error {
	if s.Outbox == nil {
		return nil
	}
	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return s.Outbox.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "aggregate-poll",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "poll_id",
		PartitionKey:     pollID,
		Data:             payload,
	})
}
