package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"skillshub/internal/database"
	"skillshub/internal/errcode"
	"skillshub/internal/tasks"
)

// notifyPublisher 是发布通知所需的最小 Redis 能力，测试用内存实现替换。
type notifyPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// ApplicationTaskHandler 负责消费投递通知任务：
// 加载投递详情并通过 Redis Pub/Sub 推送给岗位归属的雇主。
type ApplicationTaskHandler struct {
	db          *gorm.DB
	redisClient notifyPublisher
	logger      *slog.Logger
}

// NewApplicationTaskHandler 创建任务处理器。
func NewApplicationTaskHandler(db *gorm.DB, redisClient redis.UniversalClient, logger *slog.Logger) *ApplicationTaskHandler {
	return &ApplicationTaskHandler{
		db:          db,
		redisClient: redisClient,
		logger:      logger,
	}
}

// ProcessTask 实现 asynq.Handler。
func (h *ApplicationTaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) (retErr error) {
	log := h.logger

	var payload tasks.ApplicationSubmittedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Error("unmarshal task payload failed", slog.Any("error", err))
		return err
	}

	log = log.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.Int("application_id", int(payload.ApplicationID)),
	)

	var app database.Application
	err := h.db.WithContext(ctx).
		Preload("Job").
		Preload("Job.Employer").
		Preload("Seeker").
		First(&app, payload.ApplicationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("application not found, notifying actor and skipping task")
			h.notifyResourceMissing(ctx, log, payload)
			return nil
		}
		log.Error("query application failed", slog.Any("error", err))
		return err
	}

	employerUserID := app.Job.Employer.UserID

	defer func() {
		if retErr == nil {
			return
		}
		if !isFinalAsynqAttempt(ctx) {
			return
		}
		notify := ApplicationNotifyMessage{
			Event:         eventApplicationSubmitted,
			ApplicationID: app.ID,
			JobID:         app.JobID,
			CorrelationID: payload.CorrelationID,
			ErrorCode:     errcode.SystemError,
			ErrorMessage:  strings.TrimSpace(retErr.Error()),
		}
		if err := publishNotify(ctx, h.redisClient, employerUserID, notify); err != nil {
			log.Error("publish application error notification failed", slog.Any("error", err))
		}
	}()

	notify := ApplicationNotifyMessage{
		Event:         eventApplicationSubmitted,
		ApplicationID: app.ID,
		JobID:         app.JobID,
		JobTitle:      app.Job.Title,
		ApplicantName: strings.TrimSpace(app.Seeker.FirstName + " " + app.Seeker.LastName),
		CorrelationID: payload.CorrelationID,
		ErrorCode:     errcode.OK,
	}
	if err := publishNotify(ctx, h.redisClient, employerUserID, notify); err != nil {
		log.Error("publish application notification failed", slog.Any("error", err))
		return err
	}

	log.Info("application notification delivered", slog.Uint64("employer_user_id", uint64(employerUserID)))
	return nil
}

// notifyResourceMissing 把记录缺失的情况回推给任务发起者，没有发起者信息时静默放弃。
func (h *ApplicationTaskHandler) notifyResourceMissing(ctx context.Context, log *slog.Logger, payload tasks.ApplicationSubmittedPayload) {
	if payload.ActorUserID == 0 {
		return
	}
	notify := ApplicationNotifyMessage{
		Event:         eventApplicationSubmitted,
		ApplicationID: payload.ApplicationID,
		CorrelationID: payload.CorrelationID,
		ErrorCode:     errcode.ResourceMissing,
		ErrorMessage:  "application not found",
	}
	if err := publishNotify(ctx, h.redisClient, payload.ActorUserID, notify); err != nil {
		log.Error("publish missing-application notification failed", slog.Any("error", err))
	}
}

func publishNotify(ctx context.Context, client notifyPublisher, userID uint, message any) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	channel := fmt.Sprintf("user_notify:%d", userID)
	if err := client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish redis notification to %q: %w", channel, err)
	}
	return nil
}

func isFinalAsynqAttempt(ctx context.Context) bool {
	retryCount, ok1 := asynq.GetRetryCount(ctx)
	maxRetry, ok2 := asynq.GetMaxRetry(ctx)
	if !ok1 || !ok2 {
		return false
	}
	return retryCount >= maxRetry
}
