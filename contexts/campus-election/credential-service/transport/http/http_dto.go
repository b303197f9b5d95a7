package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type IssueCredentialRequest struct {
	StudentID string `json:"student_id"`
	Name      string `json:"name,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
}

type CredentialResponse struct {
	CredentialID      string `json:"credential_id"`
	StudentID         uint64 `json:"student_id"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	ImageURL          string `json:"image_url"`
	Power             uint64 `json:"power"`
	Graduated         bool   `json:"graduated"`
	LastPowerUpdateAt string `json:"last_power_update_at"`
}

type GrowPowerResponse struct {
	Credential CredentialResponse `json:"credential"`
	Grown      bool               `json:"grown"`
}

type CredentialListResponse struct {
	Items []CredentialResponse `json:"items"`
}
