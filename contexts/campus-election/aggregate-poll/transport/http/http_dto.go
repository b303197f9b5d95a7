package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreatePollRequest struct {
	Name       string   `json:"name"`
	OwnerID    string   `json:"owner_id"`
	Candidates []string `json:"candidates"`
}

type CastPollVoteRequest struct {
	CandidateIndex int `json:"candidate_index"`
}

type ClosePollRequest struct {
	CallerID string `json:"caller_id"`
}

type PollResponse struct {
	PollID     string   `json:"poll_id"`
	Name       string   `json:"name"`
	OwnerID    string   `json:"owner_id"`
	Candidates []string `json:"candidates"`
	Votes      []uint64 `json:"votes"`
	Active     bool     `json:"active"`
	CreatedAt  string   `json:"created_at"`
	ClosedAt   string   `json:"closed_at,omitempty"`
}

type PollResultsResponse struct {
	PollID     string   `json:"poll_id"`
	Name       string   `json:"name"`
	Candidates []string `json:"candidates"`
	Votes      []uint64 `json:"votes"`
	ClosedAt   string   `json:"closed_at"`
}

type PollListResponse struct {
	Items []PollResponse `json:"items"`
}
