package commands

import (
	"encoding/json"
	"strconv"
	"time"

	"agora/contexts/campus-election/credential-service/ports"
)

func newCredentialEnvelope(
	eventID string,
	eventType string,
	studentID uint64,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	// Credential events are partitioned by student for stable ordering on
	// student-scoped consumers.
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "credential-service",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "student_id",
		PartitionKey:     strconv.FormatUint(studentID, 10),
		Data:             payload,
	}, nil
}
