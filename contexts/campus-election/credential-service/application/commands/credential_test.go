package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"agora/contexts/campus-election/credential-service/adapters/memory"
	"agora/contexts/campus-election/credential-service/domain/entities"
	domainerrors "agora/contexts/campus-election/credential-service/domain/errors"
)

func newUseCase(store *memory.Store) CredentialUseCase {
	return CredentialUseCase{
		Credentials: store,
		Outbox:      store,
		Clock:       store,
		IDGen:       store,
	}
}

func TestIssueCredentialStartsWithPowerOne(t *testing.T) {
	store := memory.NewStore(nil)
	uc := newUseCase(store)

	credential, err := uc.IssueCredential(context.Background(), IssueCredentialCommand{StudentID: "42"})
	if err != nil {
		t.Fatalf("issue credential failed: %v", err)
	}
	if credential.Power != 1 {
		t.Fatalf("expected initial power 1, got %d", credential.Power)
	}
	if credential.Graduated {
		t.Fatalf("expected freshly issued credential to be enrolled")
	}
	if credential.StudentID != 42 {
		t.Fatalf("expected student id 42, got %d", credential.StudentID)
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 1 || pending[0].EventType != "credential.issued" {
		t.Fatalf("expected one credential.issued outbox row, got %+v", pending)
	}
}

func TestIssueCredentialRejectsBadStudentIDs(t *testing.T) {
	cases := []struct {
		name      string
		studentID string
	}{
		{name: "empty", studentID: ""},
		{name: "negative", studentID: "-7"},
		{name: "non-numeric", studentID: "abc"},
		{name: "overflow", studentID: "99999999999999999999999999"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := newUseCase(memory.NewStore(nil))
			_, err := uc.IssueCredential(context.Background(), IssueCredentialCommand{StudentID: tc.studentID})
			if !errors.Is(err, domainerrors.ErrValueOutOfRange) {
				t.Fatalf("expected ErrValueOutOfRange, got %v", err)
			}
		})
	}
}

func TestIssueCredentialRejectsDuplicateStudent(t *testing.T) {
	uc := newUseCase(memory.NewStore(nil))
	if _, err := uc.IssueCredential(context.Background(), IssueCredentialCommand{StudentID: "7"}); err != nil {
		t.Fatalf("first issue failed: %v", err)
	}
	_, err := uc.IssueCredential(context.Background(), IssueCredentialCommand{StudentID: "7"})
	if !errors.Is(err, domainerrors.ErrCredentialExists) {
		t.Fatalf("expected ErrCredentialExists, got %v", err)
	}
}

func TestGrowPowerHonorsYearWindow(t *testing.T) {
	store := memory.NewStore(nil)
	uc := newUseCase(store)

	issuedAt := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	store.SetNow(func() time.Time { return issuedAt })
	if _, err := uc.IssueCredential(context.Background(), IssueCredentialCommand{StudentID: "11"}); err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	// One second short of the window: no change.
	store.SetNow(func() time.Time {
		return issuedAt.Add(entities.PowerGrowthWindowSeconds*time.Second - time.Second)
	})
	result, err := uc.GrowPower(context.Background(), GrowPowerCommand{StudentID: "11"})
	if err != nil {
		t.Fatalf("grow power failed: %v", err)
	}
	if result.Grown || result.Credential.Power != 1 {
		t.Fatalf("expected power unchanged below window, got %+v", result)
	}

	// Exactly at the window: one increment, timestamp reset.
	grownAt := issuedAt.Add(entities.PowerGrowthWindowSeconds * time.Second)
	store.SetNow(func() time.Time { return grownAt })
	result, err = uc.GrowPower(context.Background(), GrowPowerCommand{StudentID: "11"})
	if err != nil {
		t.Fatalf("grow power failed: %v", err)
	}
	if !result.Grown || result.Credential.Power != 2 {
		t.Fatalf("expected power 2 at window boundary, got %+v", result)
	}
	if !result.Credential.LastPowerUpdateAt.Equal(grownAt) {
		t.Fatalf("expected last update reset to %v, got %v", grownAt, result.Credential.LastPowerUpdateAt)
	}

	// Immediately again: window restarted, no change.
	result, err = uc.GrowPower(context.Background(), GrowPowerCommand{StudentID: "11"})
	if err != nil {
		t.Fatalf("grow power failed: %v", err)
	}
	if result.Grown || result.Credential.Power != 2 {
		t.Fatalf("expected power unchanged after window reset, got %+v", result)
	}
}

func TestGrowPowerRegeneratesDescription(t *testing.T) {
	store := memory.NewStore(nil)
	uc := newUseCase(store)

	issuedAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.SetNow(func() time.Time { return issuedAt })
	if _, err := uc.IssueCredential(context.Background(), IssueCredentialCommand{StudentID: "5"}); err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	store.SetNow(func() time.Time { return issuedAt.AddDate(1, 0, 1) })
	result, err := uc.GrowPower(context.Background(), GrowPowerCommand{StudentID: "5"})
	if err != nil {
		t.Fatalf("grow power failed: %v", err)
	}
	if result.Credential.Description != entities.DescriptionForPower(5, 2) {
		t.Fatalf("expected regenerated description, got %q", result.Credential.Description)
	}
}

func TestGraduateIsIdempotentAndZeroesPower(t *testing.T) {
	store := memory.NewStore(nil)
	uc := newUseCase(store)

	issuedAt := time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)
	store.SetNow(func() time.Time { return issuedAt })
	if _, err := uc.IssueCredential(context.Background(), IssueCredentialCommand{StudentID: "9"}); err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	store.SetNow(func() time.Time { return issuedAt.AddDate(2, 0, 0) })
	if _, err := uc.GrowPower(context.Background(), GrowPowerCommand{StudentID: "9"}); err != nil {
		t.Fatalf("grow power failed: %v", err)
	}

	first, err := uc.Graduate(context.Background(), GraduateCommand{StudentID: "9"})
	if err != nil {
		t.Fatalf("graduate failed: %v", err)
	}
	if !first.Graduated || first.Power != 0 {
		t.Fatalf("expected graduated credential with zero power, got %+v", first)
	}
	if first.Name != entities.GraduatedName || first.Description != entities.GraduatedDescription {
		t.Fatalf("expected graduation display state, got name=%q", first.Name)
	}

	second, err := uc.Graduate(context.Background(), GraduateCommand{StudentID: "9"})
	if err != nil {
		t.Fatalf("repeated graduate failed: %v", err)
	}
	if second != first {
		t.Fatalf("expected graduation to be idempotent, got %+v then %+v", first, second)
	}

	// Growth after graduation must no-op forever.
	store.SetNow(func() time.Time { return issuedAt.AddDate(10, 0, 0) })
	result, err := uc.GrowPower(context.Background(), GrowPowerCommand{StudentID: "9"})
	if err != nil {
		t.Fatalf("grow power after graduation failed: %v", err)
	}
	if result.Grown || result.Credential.Power != 0 {
		t.Fatalf("expected inert credential after graduation, got %+v", result)
	}
}
