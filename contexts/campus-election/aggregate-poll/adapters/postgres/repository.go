package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"agora/contexts/campus-election/aggregate-poll/domain/entities"
	domainerrors "agora/contexts/campus-election/aggregate-poll/domain/errors"
	"agora/contexts/campus-election/aggregate-poll/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreatePoll(ctx context.Context, poll entities.Poll) error {
	row, err := pollModelFromEntity(poll)
	if err != nil {
		return err
	}
	create := r.db.WithContext(ctx).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrConflict
		}
		return r.logError("poll_repo_create_failed", create.Error, "poll_id", strings.TrimSpace(poll.PollID))
	}
	return nil
}

func (r *Repository) SavePoll(ctx context.Context, poll entities.Poll) error {
	row, err := pollModelFromEntity(poll)
	if err != nil {
		return err
	}
	save := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"votes":      row.Votes,
			"active":     row.Active,
			"updated_at": row.UpdatedAt,
			"closed_at":  row.ClosedAt,
		}),
	}).Create(&row)
	if save.Error != nil {
		return r.logError("poll_repo_save_failed", save.Error, "poll_id", strings.TrimSpace(poll.PollID))
	}
	return nil
}

func (r *Repository) GetPoll(ctx context.Context, pollID string) (entities.Poll, error) {
	var row pollModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(pollID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Poll{}, domainerrors.ErrPollNotFound
		}
		return entities.Poll{}, r.logError("poll_repo_get_failed", err, "poll_id", strings.TrimSpace(pollID))
	}
	return row.toEntity()
}

func (r *Repository) ListPolls(ctx context.Context) ([]entities.Poll, error) {
	var rows []pollModel
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("poll_repo_list_failed", err)
	}
	items := make([]entities.Poll, 0, len(rows))
	for _, row := range rows {
		poll, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, poll)
	}
	return items, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := marshalEnvelope(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if create.Error != nil {
		return r.logError("poll_repo_append_outbox_failed", create.Error,
			"event_id", strings.TrimSpace(envelope.EventID),
			"event_type", strings.TrimSpace(envelope.EventType),
		)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("poll_repo_list_outbox_failed", err)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      []byte(row.Payload),
			CreatedAt:    row.CreatedAt,
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	update := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if update.Error != nil {
		return r.logError("poll_repo_mark_outbox_failed", update.Error, "outbox_id", strings.TrimSpace(outboxID))
	}
	if update.RowsAffected == 0 {
		return domainerrors.ErrConflict
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "campus-election/aggregate-poll",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("poll postgres repository operation failed", fields...)
	return err
}

func marshalEnvelope(envelope ports.EventEnvelope) (string, error) {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// Candidate names and vote counters stay one jsonb column each so the
// parallel arrays are written and read as a unit.
type pollModel struct {
	PollID     string     `gorm:"column:id;primaryKey"`
	Name       string     `gorm:"column:name"`
	OwnerID    string     `gorm:"column:owner_id"`
	Candidates string     `gorm:"column:candidates;type:jsonb"`
	Votes      string     `gorm:"column:votes;type:jsonb"`
	Active     bool       `gorm:"column:active"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at"`
	ClosedAt   *time.Time `gorm:"column:closed_at"`
}

func (pollModel) TableName() string {
	return "aggregate_polls"
}

func (m pollModel) toEntity() (entities.Poll, error) {
	var candidates []string
	if err := json.Unmarshal([]byte(m.Candidates), &candidates); err != nil {
		return entities.Poll{}, err
	}
	var votes []uint64
	if err := json.Unmarshal([]byte(m.Votes), &votes); err != nil {
		return entities.Poll{}, err
	}
	return entities.Poll{
		PollID:     m.PollID,
		Name:       m.Name,
		OwnerID:    m.OwnerID,
		Candidates: candidates,
		Votes:      votes,
		Active:     m.Active,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
		ClosedAt:   m.ClosedAt,
	}, nil
}

func pollModelFromEntity(poll entities.Poll) (pollModel, error) {
	candidates, err := json.Marshal(poll.Candidates)
	if err != nil {
		return pollModel{}, err
	}
	votes, err := json.Marshal(poll.Votes)
	if err != nil {
		return pollModel{}, err
	}
	return pollModel{
		PollID:     strings.TrimSpace(poll.PollID),
		Name:       strings.TrimSpace(poll.Name),
		OwnerID:    strings.TrimSpace(poll.OwnerID),
		Candidates: string(candidates),
		Votes:      string(votes),
		Active:     poll.Active,
		CreatedAt:  poll.CreatedAt.UTC(),
		UpdatedAt:  poll.UpdatedAt.UTC(),
		ClosedAt:   poll.ClosedAt,
	}, nil
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      string     `gorm:"column:payload;type:jsonb"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "poll_outbox"
}
