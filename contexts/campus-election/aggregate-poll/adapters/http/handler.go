package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"agora/contexts/campus-election/aggregate-poll/application"
	"agora/contexts/campus-election/aggregate-poll/domain/entities"
	httptransport "agora/contexts/campus-election/aggregate-poll/transport/http"
)

type Handler struct {
	Polls  application.Service
	Logger *slog.Logger
}

func (h Handler) CreatePollHandler(ctx context.Context, req httptransport.CreatePollRequest) (httptransport.PollResponse, error) {
	poll, err := h.Polls.CreatePoll(ctx, application.CreatePollInput{
		Name:       req.Name,
		OwnerID:    req.OwnerID,
		Candidates: req.Candidates,
	})
	if err != nil {
		return httptransport.PollResponse{}, err
	}
	return mapPoll(poll), nil
}

func (h Handler) CastVoteHandler(ctx context.Context, pollID string, req httptransport.CastPollVoteRequest) (httptransport.PollResponse, error) {
	poll, err := h.Polls.CastVote(ctx, pollID, req.CandidateIndex)
	if err != nil {
		return httptransport.PollResponse{}, err
	}
	return mapPoll(poll), nil
}

func (h Handler) ClosePollHandler(ctx context.Context, pollID string, req httptransport.ClosePollRequest) (httptransport.PollResponse, error) {
	poll, err := h.Polls.ClosePoll(ctx, pollID, req.CallerID)
	if err != nil {
		return httptransport.PollResponse{}, err
	}
	return mapPoll(poll), nil
}

func (h Handler) ViewResultsHandler(ctx context.Context, pollID string) (httptransport.PollResultsResponse, error) {
	results, err := h.Polls.ViewResults(ctx, pollID)
	if err != nil {
		return httptransport.PollResultsResponse{}, err
	}
	return httptransport.PollResultsResponse{
		PollID:     results.PollID,
		Name:       results.Name,
		Candidates: results.Candidates,
		Votes:      results.Votes,
		ClosedAt:   results.ClosedAt.UTC().Format(time.RFC3339),
	}, nil
}

func (h Handler) GetPollHandler(ctx context.Context, pollID string) (httptransport.PollResponse, error) {
	poll, err := h.Polls.GetPoll(ctx, pollID)
	if err != nil {
		return httptransport.PollResponse{}, err
	}
	return mapPoll(poll), nil
}

func (h Handler) ListPollsHandler(ctx context.Context) (httptransport.PollListResponse, error) {
	polls, err := h.Polls.ListPolls(ctx)
	if err != nil {
		return httptransport.PollListResponse{}, err
	}
	items := make([]httptransport.PollResponse, 0, len(polls))
	for _, poll := range polls {
		items = append(items, mapPoll(poll))
	}
	return httptransport.PollListResponse{Items: items}, nil
}

func mapPoll(poll entities.Poll) httptransport.PollResponse {
	out := httptransport.PollResponse{
		PollID:     poll.PollID,
		Name:       poll.Name,
		OwnerID:    poll.OwnerID,
		Candidates: poll.Candidates,
		Votes:      poll.Votes,
		Active:     poll.Active,
		CreatedAt:  poll.CreatedAt.UTC().Format(time.RFC3339),
	}
	if poll.ClosedAt != nil {
		out.ClosedAt = poll.ClosedAt.UTC().Format(time.RFC3339)
	}
	return out
}
