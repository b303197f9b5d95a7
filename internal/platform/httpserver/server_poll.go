package httpserver

import (
	"errors"
	"net/http"

	pollerrors "agora/contexts/campus-election/aggregate-poll/domain/errors"
	pollhttp "agora/contexts/campus-election/aggregate-poll/transport/http"
)

func writePollError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, pollhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writePollDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pollerrors.ErrInvalidPollInput):
		writePollError(w, http.StatusBadRequest, "invalid_poll_input", err.Error())
	case errors.Is(err, pollerrors.ErrInsufficientCandidates):
		writePollError(w, http.StatusBadRequest, "insufficient_candidates", err.Error())
	case errors.Is(err, pollerrors.ErrInvalidCandidateIndex):
		writePollError(w, http.StatusBadRequest, "invalid_candidate_index", err.Error())
	case errors.Is(err, pollerrors.ErrPollClosed):
		writePollError(w, http.StatusConflict, "poll_closed", err.Error())
	case errors.Is(err, pollerrors.ErrPollStillActive):
		writePollError(w, http.StatusConflict, "poll_still_active", err.Error())
	case errors.Is(err, pollerrors.ErrNotOwner):
		writePollError(w, http.StatusForbidden, "not_owner", err.Error())
	case errors.Is(err, pollerrors.ErrPollNotFound):
		writePollError(w, http.StatusNotFound, "poll_not_found", err.Error())
	case errors.Is(err, pollerrors.ErrConflict):
		writePollError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writePollError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleCreatePoll(w http.ResponseWriter, r *http.Request) {
	var req pollhttp.CreatePollRequest
	if !s.decodeJSON(w, r, &req, writePollError) {
		return
	}
	resp, err := s.polls.Handler.CreatePollHandler(r.Context(), req)
	if err != nil {
		writePollDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleCastPollVote(w http.ResponseWriter, r *http.Request) {
	var req pollhttp.CastPollVoteRequest
	if !s.decodeJSON(w, r, &req, writePollError) {
		return
	}
	resp, err := s.polls.Handler.CastVoteHandler(r.Context(), r.PathValue("poll_id"), req)
	if err != nil {
		writePollDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClosePoll(w http.ResponseWriter, r *http.Request) {
	var req pollhttp.ClosePollRequest
	if !s.decodeJSON(w, r, &req, writePollError) {
		return
	}
	resp, err := s.polls.Handler.ClosePollHandler(r.Context(), r.PathValue("poll_id"), req)
	if err != nil {
		writePollDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleViewPollResults(w http.ResponseWriter, r *http.Request) {
	resp, err := s.polls.Handler.ViewResultsHandler(r.Context(), r.PathValue("poll_id"))
	if err != nil {
		writePollDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetPoll(w http.ResponseWriter, r *http.Request) {
	resp, err := s.polls.Handler.GetPollHandler(r.Context(), r.PathValue("poll_id"))
	if err != nil {
		writePollDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListPolls(w http.ResponseWriter, r *http.Request) {
	resp, err := s.polls.Handler.ListPollsHandler(r.Context())
	if err != nil {
		writePollDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
