package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// 任务类型常量，确保队列生产者与消费者一致。
const (
	TypeApplicationSubmitted = "application:submitted"
	TypeRecruitInvite        = "recruit:invite"
)

// ApplicationSubmittedPayload 描述通知雇主有新投递所需的最小信息。
// ActorUserID 为发起投递的求职者，记录丢失时错误会回推给该用户。
type ApplicationSubmittedPayload struct {
	ApplicationID uint   `json:"application_id"`
	ActorUserID   uint   `json:"actor_user_id"`
	CorrelationID string `json:"correlation_id"`
}

// NewApplicationSubmittedTask 构造一个投递通知任务。
func NewApplicationSubmittedTask(id, actorUserID uint, correlationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(ApplicationSubmittedPayload{
		ApplicationID: id,
		ActorUserID:   actorUserID,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeApplicationSubmitted, payload), nil
}

// RecruitInvitePayload 描述通知求职者被邀请投递所需的最小信息。
// ActorUserID 为发出邀请的雇主，记录丢失时错误会回推给该用户。
type RecruitInvitePayload struct {
	InviteID      uint   `json:"invite_id"`
	ActorUserID   uint   `json:"actor_user_id"`
	CorrelationID string `json:"correlation_id"`
}

// NewRecruitInviteTask 构造一个招募邀请通知任务。
func NewRecruitInviteTask(id, actorUserID uint, correlationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(RecruitInvitePayload{
		InviteID:      id,
		ActorUserID:   actorUserID,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeRecruitInvite, payload), nil
}
