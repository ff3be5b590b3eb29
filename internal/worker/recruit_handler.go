package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"skillshub/internal/database"
	"skillshub/internal/errcode"
	"skillshub/internal/tasks"
)

// RecruitTaskHandler 负责消费招募邀请通知任务，推送给被邀请的求职者。
type RecruitTaskHandler struct {
	db          *gorm.DB
	redisClient notifyPublisher
	logger      *slog.Logger
}

// NewRecruitTaskHandler 创建任务处理器。
func NewRecruitTaskHandler(db *gorm.DB, redisClient redis.UniversalClient, logger *slog.Logger) *RecruitTaskHandler {
	return &RecruitTaskHandler{
		db:          db,
		redisClient: redisClient,
		logger:      logger,
	}
}

// ProcessTask 实现 asynq.Handler。
func (h *RecruitTaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	log := h.logger

	var payload tasks.RecruitInvitePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Error("unmarshal task payload failed", slog.Any("error", err))
		return err
	}

	log = log.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.Int("invite_id", int(payload.InviteID)),
	)

	var invite database.RecruitInvite
	err := h.db.WithContext(ctx).
		Preload("Job").
		Preload("Employer").
		Preload("Seeker").
		First(&invite, payload.InviteID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("recruit invite not found, notifying actor and skipping task")
			if payload.ActorUserID != 0 {
				notify := RecruitNotifyMessage{
					Event:         eventRecruitInvite,
					InviteID:      payload.InviteID,
					CorrelationID: payload.CorrelationID,
					ErrorCode:     errcode.ResourceMissing,
				}
				if err := publishNotify(ctx, h.redisClient, payload.ActorUserID, notify); err != nil {
					log.Error("publish missing-invite notification failed", slog.Any("error", err))
				}
			}
			return nil
		}
		log.Error("query recruit invite failed", slog.Any("error", err))
		return err
	}

	notify := RecruitNotifyMessage{
		Event:         eventRecruitInvite,
		InviteID:      invite.ID,
		JobID:         invite.JobID,
		JobTitle:      invite.Job.Title,
		EmployerName:  invite.Employer.Name,
		Message:       invite.Message,
		CorrelationID: payload.CorrelationID,
		ErrorCode:     errcode.OK,
	}
	if err := publishNotify(ctx, h.redisClient, invite.Seeker.UserID, notify); err != nil {
		log.Error("publish recruit notification failed", slog.Any("error", err))
		return err
	}

	log.Info("recruit notification delivered", slog.Uint64("seeker_user_id", uint64(invite.Seeker.UserID)))
	return nil
}
