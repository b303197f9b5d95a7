package queries

import (
	"context"
	"strconv"
	"strings"

	"agora/contexts/campus-election/credential-service/domain/entities"
	domainerrors "agora/contexts/campus-election/credential-service/domain/errors"
	"agora/contexts/campus-election/credential-service/ports"
)

type CredentialUseCase struct {
	Credentials ports.CredentialRepository
}

func (uc CredentialUseCase) GetCredential(ctx context.Context, studentID string) (entities.Credential, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(studentID), 10, 64)
	if err != nil {
		return entities.Credential{}, domainerrors.ErrValueOutOfRange
	}
	return uc.Credentials.GetCredential(ctx, value)
}

func (uc CredentialUseCase) ListCredentials(ctx context.Context) ([]entities.Credential, error) {
	return uc.Credentials.ListCredentials(ctx)
}
