package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	aggregatepoll "agora/contexts/campus-election/aggregate-poll"
	credentialservice "agora/contexts/campus-election/credential-service"
	electionservice "agora/contexts/campus-election/election-service"
	_ "agora/internal/platform/httpserver/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	addr        string
	credentials credentialservice.Module
	election    electionservice.Module
	polls       aggregatepoll.Module
}

func New(
	credentials credentialservice.Module,
	election electionservice.Module,
	polls aggregatepoll.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		addr:        addr,
		credentials: credentials,
		election:    election,
		polls:       polls,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/credentials/v1/credentials", s.handleIssueCredential)
	s.mux.HandleFunc("POST /api/credentials/v1/credentials/{student_id}/grow", s.handleGrowPower)
	s.mux.HandleFunc("POST /api/credentials/v1/credentials/{student_id}/graduate", s.handleGraduate)
	s.mux.HandleFunc("GET /api/credentials/v1/credentials/{student_id}", s.handleGetCredential)
	s.mux.HandleFunc("GET /api/credentials/v1/credentials", s.handleListCredentials)

	s.mux.HandleFunc("POST /api/election/v1/candidates", s.handleRegisterCandidate)
	s.mux.HandleFunc("GET /api/election/v1/candidates", s.handleListCandidates)
	s.mux.HandleFunc("POST /api/election/v1/votes", s.handleCastVote)
	s.mux.HandleFunc("POST /api/election/v1/tally", s.handleTally)
	s.mux.HandleFunc("GET /api/election/v1/results", s.handleListResults)

	s.mux.HandleFunc("POST /api/polls/v1/polls", s.handleCreatePoll)
	s.mux.HandleFunc("GET /api/polls/v1/polls", s.handleListPolls)
	s.mux.HandleFunc("GET /api/polls/v1/polls/{poll_id}", s.handleGetPoll)
	s.mux.HandleFunc("POST /api/polls/v1/polls/{poll_id}/votes", s.handleCastPollVote)
	s.mux.HandleFunc("POST /api/polls/v1/polls/{poll_id}/close", s.handleClosePoll)
	s.mux.HandleFunc("GET /api/polls/v1/polls/{poll_id}/results", s.handleViewPollResults)
}

func (s *Server) decodeJSON(
	w http.ResponseWriter,
	r *http.Request,
	target any,
	writeError func(http.ResponseWriter, int, string, string),
) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
