package httpserver

import (
	"errors"
	"net/http"

	electionerrors "agora/contexts/campus-election/election-service/domain/errors"
	electionhttp "agora/contexts/campus-election/election-service/transport/http"
)

func writeElectionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, electionhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeElectionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, electionerrors.ErrInvalidElectionInput):
		writeElectionError(w, http.StatusBadRequest, "invalid_election_input", err.Error())
	case errors.Is(err, electionerrors.ErrValueOutOfRange):
		writeElectionError(w, http.StatusBadRequest, "value_out_of_range", err.Error())
	case errors.Is(err, electionerrors.ErrCredentialNotFound):
		writeElectionError(w, http.StatusNotFound, "credential_not_found", err.Error())
	case errors.Is(err, electionerrors.ErrIneligibleCandidate):
		writeElectionError(w, http.StatusForbidden, "ineligible_candidate", err.Error())
	case errors.Is(err, electionerrors.ErrVoterGraduated):
		writeElectionError(w, http.StatusForbidden, "voter_graduated", err.Error())
	case errors.Is(err, electionerrors.ErrCandidateNotFound):
		writeElectionError(w, http.StatusNotFound, "candidate_not_found", err.Error())
	case errors.Is(err, electionerrors.ErrNothingToTally):
		writeElectionError(w, http.StatusConflict, "nothing_to_tally", err.Error())
	case errors.Is(err, electionerrors.ErrConflict):
		writeElectionError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeElectionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleRegisterCandidate(w http.ResponseWriter, r *http.Request) {
	var req electionhttp.RegisterCandidateRequest
	if !s.decodeJSON(w, r, &req, writeElectionError) {
		return
	}
	resp, err := s.election.Handler.RegisterCandidateHandler(r.Context(), req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	var req electionhttp.CastVoteRequest
	if !s.decodeJSON(w, r, &req, writeElectionError) {
		return
	}
	resp, err := s.election.Handler.CastVoteHandler(r.Context(), req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleTally(w http.ResponseWriter, r *http.Request) {
	resp, err := s.election.Handler.TallyHandler(r.Context())
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	resp, err := s.election.Handler.ListCandidatesHandler(r.Context())
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	resp, err := s.election.Handler.ListResultsHandler(r.Context())
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
