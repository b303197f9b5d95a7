package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"agora/contexts/campus-election/credential-service/domain/entities"
	domainerrors "agora/contexts/campus-election/credential-service/domain/errors"
	"agora/contexts/campus-election/credential-service/ports"

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

func (r *Repository) CreateCredential(ctx context.Context, credential entities.Credential) error {
	row := credentialModelFromEntity(credential)
	create := r.db.WithContext(ctx).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrCredentialExists
		}
		return r.logError("credential_repo_create_failed", create.Error,
			"credential_id", strings.TrimSpace(credential.CredentialID),
			"student_id", credential.StudentID,
		)
	}
	return nil
}

func (r *Repository) SaveCredential(ctx context.Context, credential entities.Credential) error {
	row := credentialModelFromEntity(credential)
	save := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "student_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"name":                 row.Name,
			"description":          row.Description,
			"image_url":            row.ImageURL,
			"power":                row.Power,
			"graduated":            row.Graduated,
			"last_power_update_at": row.LastPowerUpdateAt,
			"updated_at":           row.UpdatedAt,
		}),
	}).Create(&row)
	if save.Error != nil {
		return r.logError("credential_repo_save_failed", save.Error,
			"credential_id", strings.TrimSpace(credential.CredentialID),
			"student_id", credential.StudentID,
		)
	}
	return nil
}

func (r *Repository) GetCredential(ctx context.Context, studentID uint64) (entities.Credential, error) {
	var row credentialModel
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Credential{}, domainerrors.ErrCredentialNotFound
		}
		return entities.Credential{}, r.logError("credential_repo_get_failed", err, "student_id", studentID)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListCredentials(ctx context.Context) ([]entities.Credential, error) {
	var rows []credentialModel
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("credential_repo_list_failed", err)
	}
	items := make([]entities.Credential, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
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
		return r.logError("credential_repo_append_outbox_failed", create.Error,
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
		return nil, r.logError("credential_repo_list_outbox_failed", err)
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
		return r.logError("credential_repo_mark_outbox_failed", update.Error, "outbox_id", strings.TrimSpace(outboxID))
	}
	if update.RowsAffected == 0 {
		return domainerrors.ErrConflict
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "campus-election/credential-service",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("credential postgres repository operation failed", fields...)
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

type credentialModel struct {
	CredentialID      string    `gorm:"column:id;primaryKey"`
	StudentID         uint64    `gorm:"column:student_id;uniqueIndex"`
	Name              string    `gorm:"column:name"`
	Description       string    `gorm:"column:description"`
	ImageURL          string    `gorm:"column:image_url"`
	Power             uint64    `gorm:"column:power"`
	Graduated         bool      `gorm:"column:graduated"`
	LastPowerUpdateAt time.Time `gorm:"column:last_power_update_at"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (credentialModel) TableName() string {
	return "voter_credentials"
}

func (m credentialModel) toEntity() entities.Credential {
	return entities.Credential{
		CredentialID:      m.CredentialID,
		StudentID:         m.StudentID,
		Name:              m.Name,
		Description:       m.Description,
		ImageURL:          m.ImageURL,
		Power:             m.Power,
		Graduated:         m.Graduated,
		LastPowerUpdateAt: m.LastPowerUpdateAt,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func credentialModelFromEntity(credential entities.Credential) credentialModel {
	return credentialModel{
		CredentialID:      strings.TrimSpace(credential.CredentialID),
		StudentID:         credential.StudentID,
		Name:              strings.TrimSpace(credential.Name),
		Description:       credential.Description,
		ImageURL:          strings.TrimSpace(credential.ImageURL),
		Power:             credential.Power,
		Graduated:         credential.Graduated,
		LastPowerUpdateAt: credential.LastPowerUpdateAt.UTC(),
		CreatedAt:         credential.CreatedAt.UTC(),
		UpdatedAt:         credential.UpdatedAt.UTC(),
	}
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
	return "credential_outbox"
}
