package commands

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	application "agora/contexts/campus-election/credential-service/application"
	"agora/contexts/campus-election/credential-service/domain/entities"
	domainerrors "agora/contexts/campus-election/credential-service/domain/errors"
	"agora/contexts/campus-election/credential-service/ports"
)

// IssueCredentialCommand is the write-model input for credential issuance.
// StudentID arrives as the raw transport value and is range-checked here.
type IssueCredentialCommand struct {
	StudentID string
	Name      string
	ImageURL  string
}

// GrowPowerCommand requests a time-gated power increment.
type GrowPowerCommand struct {
	StudentID string
}

// GrowPowerResult reports whether the growth window had elapsed.
type GrowPowerResult struct {
	Credential entities.Credential
	Grown      bool
}

// GraduateCommand requests the terminal credential transition.
type GraduateCommand struct {
	StudentID string
}

// CredentialUseCase orchestrates credential commands while enforcing the
// lifecycle invariants: one credential per student, monotone power growth
// gated by the yearly window, and a single irreversible graduation.
type CredentialUseCase struct {
	Credentials ports.CredentialRepository
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Logger      *slog.Logger
}

// IssueCredential mints a credential with power 1 for a student that does not
// hold one yet.
func (uc CredentialUseCase) IssueCredential(ctx context.Context, cmd IssueCredentialCommand) (entities.Credential, error) {
	logger := application.ResolveLogger(uc.Logger)
	logger.Info("credential issue processing started",
		"event", "credential_issue_started",
		"module", "campus-election/credential-service",
		"layer", "application",
		"student_id", strings.TrimSpace(cmd.StudentID),
	)

	studentID, err := parseStudentID(cmd.StudentID)
	if err != nil {
		logger.Warn("credential issue rejected out-of-range student id",
			"event", "credential_issue_out_of_range",
			"module", "campus-election/credential-service",
			"layer", "application",
			"student_id", strings.TrimSpace(cmd.StudentID),
		)
		return entities.Credential{}, err
	}

	now := uc.now()
	if now.Unix() < 0 {
		return entities.Credential{}, domainerrors.ErrValueOutOfRange
	}

	if _, err := uc.Credentials.GetCredential(ctx, studentID); err == nil {
		logger.Warn("credential issue rejected duplicate student",
			"event", "credential_issue_duplicate",
			"module", "campus-election/credential-service",
			"layer", "application",
			"student_id", strconv.FormatUint(studentID, 10),
		)
		return entities.Credential{}, domainerrors.ErrCredentialExists
	} else if !errors.Is(err, domainerrors.ErrCredentialNotFound) {
		return entities.Credential{}, err
	}

	credentialID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Credential{}, err
	}

	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		name = entities.NameForStudent(studentID)
	}
	credential := entities.Credential{
		CredentialID:      credentialID,
		StudentID:         studentID,
		Name:              name,
		Description:       entities.DescriptionForPower(studentID, 1),
		ImageURL:          strings.TrimSpace(cmd.ImageURL),
		Power:             1,
		Graduated:         false,
		LastPowerUpdateAt: now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.Credentials.CreateCredential(ctx, credential); err != nil {
		return entities.Credential{}, err
	}
	if err := uc.appendCredentialEvent(ctx, "credential.issued", credential, now, nil); err != nil {
		return entities.Credential{}, err
	}

	logger.Info("credential issued",
		"event", "credential_issued",
		"module", "campus-election/credential-service",
		"layer", "application",
		"credential_id", credential.CredentialID,
		"student_id", strconv.FormatUint(studentID, 10),
		"power", credential.Power,
	)
	return credential, nil
}

// GrowPower increments power by exactly one once a full growth window has
// elapsed. Graduated credentials no-op; a window not yet elapsed leaves the
// credential untouched and emits nothing.
func (uc CredentialUseCase) GrowPower(ctx context.Context, cmd GrowPowerCommand) (GrowPowerResult, error) {
	logger := application.ResolveLogger(uc.Logger)

	studentID, err := parseStudentID(cmd.StudentID)
	if err != nil {
		return GrowPowerResult{}, err
	}
	credential, err := uc.Credentials.GetCredential(ctx, studentID)
	if err != nil {
		return GrowPowerResult{}, err
	}
	if credential.Graduated {
		logger.Info("power growth skipped for graduated credential",
			"event", "credential_grow_skipped_graduated",
			"module", "campus-election/credential-service",
			"layer", "application",
			"credential_id", credential.CredentialID,
			"student_id", strconv.FormatUint(studentID, 10),
		)
		return GrowPowerResult{Credential: credential}, nil
	}

	now := uc.now()
	if !credential.GrowthDue(now) {
		logger.Info("power growth window not elapsed",
			"event", "credential_grow_window_pending",
			"module", "campus-election/credential-service",
			"layer", "application",
			"credential_id", credential.CredentialID,
			"student_id", strconv.FormatUint(studentID, 10),
			"last_power_update_at", credential.LastPowerUpdateAt.UTC().Format(time.RFC3339),
		)
		return GrowPowerResult{Credential: credential}, nil
	}

	credential.Power++
	credential.LastPowerUpdateAt = now
	credential.Description = entities.DescriptionForPower(studentID, credential.Power)
	credential.UpdatedAt = now
	if err := uc.Credentials.SaveCredential(ctx, credential); err != nil {
		return GrowPowerResult{}, err
	}
	if err := uc.appendCredentialEvent(ctx, "credential.power_updated", credential, now, nil); err != nil {
		return GrowPowerResult{}, err
	}

	logger.Info("credential power updated",
		"event", "credential_power_updated",
		"module", "campus-election/credential-service",
		"layer", "application",
		"credential_id", credential.CredentialID,
		"student_id", strconv.FormatUint(studentID, 10),
		"power", credential.Power,
	)
	return GrowPowerResult{Credential: credential, Grown: true}, nil
}

// Graduate applies the idempotent terminal transition: power drops to zero
// and the display fields switch to the alumni state. Repeated calls leave
// the record unchanged and emit no event.
func (uc CredentialUseCase) Graduate(ctx context.Context, cmd GraduateCommand) (entities.Credential, error) {
	logger := application.ResolveLogger(uc.Logger)

	studentID, err := parseStudentID(cmd.StudentID)
	if err != nil {
		return entities.Credential{}, err
	}
	credential, err := uc.Credentials.GetCredential(ctx, studentID)
	if err != nil {
		return entities.Credential{}, err
	}
	if credential.Graduated {
		logger.Info("graduation replayed on inert credential",
			"event", "credential_graduate_replayed",
			"module", "campus-election/credential-service",
			"layer", "application",
			"credential_id", credential.CredentialID,
			"student_id", strconv.FormatUint(studentID, 10),
		)
		return credential, nil
	}

	now := uc.now()
	credential.Graduated = true
	credential.Power = 0
	credential.Name = entities.GraduatedName
	credential.Description = entities.GraduatedDescription
	credential.ImageURL = entities.GraduatedImageURL
	credential.UpdatedAt = now
	if err := uc.Credentials.SaveCredential(ctx, credential); err != nil {
		return entities.Credential{}, err
	}
	if err := uc.appendCredentialEvent(ctx, "credential.graduated", credential, now, nil); err != nil {
		return entities.Credential{}, err
	}

	logger.Info("credential graduated",
		"event", "credential_graduated",
		"module", "campus-election/credential-service",
		"layer", "application",
		"credential_id", credential.CredentialID,
		"student_id", strconv.FormatUint(studentID, 10),
	)
	return credential, nil
}

func (uc CredentialUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

func (uc CredentialUseCase) appendCredentialEvent(
	ctx context.Context,
	eventType string,
	credential entities.Credential,
	occurredAt time.Time,
	metadata map[string]any,
) error {
	// Outbox is optional for pure read/test wiring, so nil is treated as no-op.
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	data := map[string]any{
		"credential_id": credential.CredentialID,
		"student_id":    credential.StudentID,
		"name":          credential.Name,
		"power":         credential.Power,
		"graduated":     credential.Graduated,
		"occurred_at":   occurredAt.UTC().Format(time.RFC3339),
	}
	for key, value := range metadata {
		data[key] = value
	}

	envelope, err := newCredentialEnvelope(eventID, eventType, credential.StudentID, occurredAt, data)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}

// parseStudentID guards the domain against identifiers that cannot be
// represented as bounded non-negative integers.
func parseStudentID(raw string) (uint64, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, domainerrors.ErrValueOutOfRange
	}
	return value, nil
}
