package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"agora/contexts/campus-election/credential-service/application/commands"
	"agora/contexts/campus-election/credential-service/application/queries"
	"agora/contexts/campus-election/credential-service/domain/entities"
	httptransport "agora/contexts/campus-election/credential-service/transport/http"
)

type Handler struct {
	Credentials commands.CredentialUseCase
	Reads       queries.CredentialUseCase
	Logger      *slog.Logger
}

func (h Handler) IssueCredentialHandler(ctx context.Context, req httptransport.IssueCredentialRequest) (httptransport.CredentialResponse, error) {
	credential, err := h.Credentials.IssueCredential(ctx, commands.IssueCredentialCommand{
		StudentID: req.StudentID,
		Name:      req.Name,
		ImageURL:  req.ImageURL,
	})
	if err != nil {
		return httptransport.CredentialResponse{}, err
	}
	return mapCredential(credential), nil
}

func (h Handler) GrowPowerHandler(ctx context.Context, studentID string) (httptransport.GrowPowerResponse, error) {
	result, err := h.Credentials.GrowPower(ctx, commands.GrowPowerCommand{StudentID: studentID})
	if err != nil {
		return httptransport.GrowPowerResponse{}, err
	}
	return httptransport.GrowPowerResponse{
		Credential: mapCredential(result.Credential),
		Grown:      result.Grown,
	}, nil
}

func (h Handler) GraduateHandler(ctx context.Context, studentID string) (httptransport.CredentialResponse, error) {
	credential, err := h.Credentials.Graduate(ctx, commands.GraduateCommand{StudentID: studentID})
	if err != nil {
		return httptransport.CredentialResponse{}, err
	}
	return mapCredential(credential), nil
}

func (h Handler) GetCredentialHandler(ctx context.Context, studentID string) (httptransport.CredentialResponse, error) {
	credential, err := h.Reads.GetCredential(ctx, studentID)
	if err != nil {
		return httptransport.CredentialResponse{}, err
	}
	return mapCredential(credential), nil
}

func (h Handler) ListCredentialsHandler(ctx context.Context) (httptransport.CredentialListResponse, error) {
	credentials, err := h.Reads.ListCredentials(ctx)
	if err != nil {
		return httptransport.CredentialListResponse{}, err
	}
	items := make([]httptransport.CredentialResponse, 0, len(credentials))
	for _, credential := range credentials {
		items = append(items, mapCredential(credential))
	}
	return httptransport.CredentialListResponse{Items: items}, nil
}

func mapCredential(credential entities.Credential) httptransport.CredentialResponse {
	return httptransport.CredentialResponse{
		CredentialID:      credential.CredentialID,
		StudentID:         credential.StudentID,
		Name:              credential.Name,
		Description:       credential.Description,
		ImageURL:          credential.ImageURL,
		Power:             credential.Power,
		Graduated:         credential.Graduated,
		LastPowerUpdateAt: credential.LastPowerUpdateAt.UTC().Format(time.RFC3339),
	}
}
