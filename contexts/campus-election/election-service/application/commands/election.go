package commands

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	domainerrors "agora/contexts/campus-election/election-service/domain/errors"
	"agora/contexts/campus-election/election-service/ports"
)

// ElectionUseCase orchestrates the weighted election commands: eligibility-
// gated candidate registration, weighted vote recording, and the terminal
// tally that consumes the ledger.
type ElectionUseCase struct {
	Election    ports.ElectionRepository
	Credentials ports.CredentialProjection
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Logger      *slog.Logger
}

func (uc ElectionUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

func (uc ElectionUseCase) appendElectionEvent(
	ctx context.Context,
	eventType string,
	studentID uint64,
	occurredAt time.Time,
	data map[string]any,
) error {
	// Outbox is optional for pure read/test wiring, so nil is treated as no-op.
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := newElectionEnvelope(eventID, eventType, studentID, occurredAt, data)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}

func (uc ElectionUseCase) standing(ctx context.Context, studentID uint64) (ports.CredentialStanding, error) {
	standing, found, err := uc.Credentials.GetCredentialStanding(ctx, studentID)
	if err != nil {
		return ports.CredentialStanding{}, err
	}
	if !found {
		return ports.CredentialStanding{}, domainerrors.ErrCredentialNotFound
	}
	return standing, nil
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
