package commands

import (
	"encoding/json"
	"strconv"
	"time"

	"agora/contexts/campus-election/election-service/ports"
)

func newElectionEnvelope(
	eventID string,
	eventType string,
	studentID uint64,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	// Election events are partitioned by the acting student for stable
	// ordering on student-scoped consumers.
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "election-service",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "student_id",
		PartitionKey:     strconv.FormatUint(studentID, 10),
		Data:             payload,
	}, nil
}
