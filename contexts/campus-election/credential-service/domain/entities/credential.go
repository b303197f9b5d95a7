package entities

import (
	"fmt"
	"time"
)

// PowerGrowthWindowSeconds is the minimum gap between two power increments.
// The window blocks unbounded power inflation inside a single year.
const PowerGrowthWindowSeconds = 365 * 24 * 60 * 60

const (
	GraduatedName        = "Alumni Credential"
	GraduatedDescription = "This credential belongs to a graduated student and carries no voting power."
	GraduatedImageURL    = "https://assets.agora.dev/credentials/alumni.png"
)

// Credential is one student's non-transferable voting capability. Power only
// grows while the student is enrolled and drops to zero exactly once, at
// graduation, after which the record is permanently inert.
type Credential struct {
	CredentialID      string
	StudentID         uint64
	Name              string
	Description       string
	ImageURL          string
	Power             uint64
	Graduated         bool
	LastPowerUpdateAt time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// GrowthDue reports whether a full growth window elapsed since the last
// power update.
func (c Credential) GrowthDue(now time.Time) bool {
	return now.Unix()-c.LastPowerUpdateAt.Unix() >= PowerGrowthWindowSeconds
}

// DescriptionForPower keeps the human-readable description consistent with
// the numeric power state after each increment.
func DescriptionForPower(studentID uint64, power uint64) string {
	return fmt.Sprintf("Voter credential of student %d with voting power %d.", studentID, power)
}

func NameForStudent(studentID uint64) string {
	return fmt.Sprintf("Student Voter Card #%d", studentID)
}
