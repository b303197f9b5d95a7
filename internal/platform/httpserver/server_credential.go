package httpserver

import (
	"errors"
	"net/http"

	credentialerrors "agora/contexts/campus-election/credential-service/domain/errors"
	credentialhttp "agora/contexts/campus-election/credential-service/transport/http"
)

func writeCredentialError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, credentialhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeCredentialDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, credentialerrors.ErrInvalidCredentialInput):
		writeCredentialError(w, http.StatusBadRequest, "invalid_credential_input", err.Error())
	case errors.Is(err, credentialerrors.ErrValueOutOfRange):
		writeCredentialError(w, http.StatusBadRequest, "value_out_of_range", err.Error())
	case errors.Is(err, credentialerrors.ErrCredentialExists):
		writeCredentialError(w, http.StatusConflict, "credential_exists", err.Error())
	case errors.Is(err, credentialerrors.ErrCredentialNotFound):
		writeCredentialError(w, http.StatusNotFound, "credential_not_found", err.Error())
	case errors.Is(err, credentialerrors.ErrConflict):
		writeCredentialError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeCredentialError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleIssueCredential(w http.ResponseWriter, r *http.Request) {
	var req credentialhttp.IssueCredentialRequest
	if !s.decodeJSON(w, r, &req, writeCredentialError) {
		return
	}
	resp, err := s.credentials.Handler.IssueCredentialHandler(r.Context(), req)
	if err != nil {
		writeCredentialDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGrowPower(w http.ResponseWriter, r *http.Request) {
	resp, err := s.credentials.Handler.GrowPowerHandler(r.Context(), r.PathValue("student_id"))
	if err != nil {
		writeCredentialDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGraduate(w http.ResponseWriter, r *http.Request) {
	resp, err := s.credentials.Handler.GraduateHandler(r.Context(), r.PathValue("student_id"))
	if err != nil {
		writeCredentialDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetCredential(w http.ResponseWriter, r *http.Request) {
	resp, err := s.credentials.Handler.GetCredentialHandler(r.Context(), r.PathValue("student_id"))
	if err != nil {
		writeCredentialDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListCredentials(w http.ResponseWriter, r *http.Request) {
	resp, err := s.credentials.Handler.ListCredentialsHandler(r.Context())
	if err != nil {
		writeCredentialDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
