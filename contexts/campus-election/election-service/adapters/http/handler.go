package httpadapter

import (
	"context"
	"log/slog"

	"agora/contexts/campus-election/election-service/application/commands"
	"agora/contexts/campus-election/election-service/application/queries"
	"agora/contexts/campus-election/election-service/domain/entities"
	httptransport "agora/contexts/campus-election/election-service/transport/http"
)

type Handler struct {
	Election commands.ElectionUseCase
	Reads    queries.ResultsUseCase
	Logger   *slog.Logger
}

func (h Handler) RegisterCandidateHandler(ctx context.Context, req httptransport.RegisterCandidateRequest) (httptransport.CandidateResponse, error) {
	candidate, err := h.Election.RegisterCandidate(ctx, commands.RegisterCandidateCommand{
		StudentID: req.StudentID,
		Name:      req.Name,
		Promises:  req.Promises,
	})
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	return mapCandidate(candidate), nil
}

func (h Handler) CastVoteHandler(ctx context.Context, req httptransport.CastVoteRequest) (httptransport.VoteResponse, error) {
	result, err := h.Election.CastVote(ctx, commands.CastVoteCommand{
		VoterStudentID: req.VoterStudentID,
		CandidateID:    req.CandidateID,
	})
	if err != nil {
		return httptransport.VoteResponse{}, err
	}
	return httptransport.VoteResponse{
		VoteID:             result.Vote.VoteID,
		VoterStudentID:     result.Vote.VoterStudentID,
		CandidateID:        result.Vote.CandidateID,
		CandidateStudentID: result.Vote.CandidateStudentID,
		Weight:             result.Vote.Weight,
		CandidateVoteCount: result.Candidate.VoteCount,
	}, nil
}

func (h Handler) TallyHandler(ctx context.Context) (httptransport.TallyResponse, error) {
	tally, err := h.Election.Tally(ctx)
	if err != nil {
		return httptransport.TallyResponse{}, err
	}
	results := make([]httptransport.ResultResponse, 0, len(tally.Results))
	for _, result := range tally.Results {
		results = append(results, mapResult(result))
	}
	return httptransport.TallyResponse{
		Results:            results,
		ConsumedVotes:      tally.ConsumedVotes,
		ConsumedCandidates: tally.ConsumedCandidates,
	}, nil
}

func (h Handler) ListCandidatesHandler(ctx context.Context) (httptransport.CandidateListResponse, error) {
	candidates, err := h.Reads.Candidates(ctx)
	if err != nil {
		return httptransport.CandidateListResponse{}, err
	}
	items := make([]httptransport.CandidateResponse, 0, len(candidates))
	for _, candidate := range candidates {
		items = append(items, mapCandidate(candidate))
	}
	return httptransport.CandidateListResponse{Items: items}, nil
}

func (h Handler) ListResultsHandler(ctx context.Context) (httptransport.ResultListResponse, error) {
	results, err := h.Reads.Results(ctx)
	if err != nil {
		return httptransport.ResultListResponse{}, err
	}
	items := make([]httptransport.ResultResponse, 0, len(results))
	for _, result := range results {
		items = append(items, mapResult(result))
	}
	return httptransport.ResultListResponse{Items: items}, nil
}

func mapCandidate(candidate entities.Candidate) httptransport.CandidateResponse {
	return httptransport.CandidateResponse{
		CandidateID: candidate.CandidateID,
		StudentID:   candidate.StudentID,
		Name:        candidate.Name,
		Promises:    candidate.Promises,
		VoteCount:   candidate.VoteCount,
	}
}

func mapResult(result entities.ElectionResult) httptransport.ResultResponse {
	return httptransport.ResultResponse{
		ResultID:      result.ResultID,
		StudentID:     result.StudentID,
		CandidateName: result.CandidateName,
		TotalVotes:    result.TotalVotes,
	}
}
