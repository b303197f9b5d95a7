package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RegisterCandidateRequest struct {
	StudentID string `json:"student_id"`
	Name      string `json:"name"`
	Promises  string `json:"promises,omitempty"`
}

type CandidateResponse struct {
	CandidateID string `json:"candidate_id"`
	StudentID   uint64 `json:"student_id"`
	Name        string `json:"name"`
	Promises    string `json:"promises,omitempty"`
	VoteCount   uint64 `json:"vote_count"`
}

type CandidateListResponse struct {
	Items []CandidateResponse `json:"items"`
}

type CastVoteRequest struct {
	VoterStudentID string `json:"voter_student_id"`
	CandidateID    string `json:"candidate_id"`
}

type VoteResponse struct {
	VoteID             string `json:"vote_id"`
	VoterStudentID     uint64 `json:"voter_student_id"`
	CandidateID        string `json:"candidate_id"`
	CandidateStudentID uint64 `json:"candidate_student_id"`
	Weight             uint64 `json:"weight"`
	CandidateVoteCount uint64 `json:"candidate_vote_count"`
}

type ResultResponse struct {
	ResultID      string `json:"result_id"`
	StudentID     uint64 `json:"student_id"`
	CandidateName string `json:"candidate_name"`
	TotalVotes    uint64 `json:"total_votes"`
}

type TallyResponse struct {
	Results            []ResultResponse `json:"results"`
	ConsumedVotes      int              `json:"consumed_votes"`
	ConsumedCandidates int              `json:"consumed_candidates"`
}

type ResultListResponse struct {
	Items []ResultResponse `json:"items"`
}
