package worker

// 统一的 WebSocket 消息协议（通过 Redis Pub/Sub 转发给前端）。
// 注意：这里的字段名与前端解析保持一致。

// ApplicationNotifyMessage 推送给雇主：某岗位收到了新投递。
type ApplicationNotifyMessage struct {
	Event         string `json:"event"`
	ApplicationID uint   `json:"application_id"`
	JobID         uint   `json:"job_id"`
	JobTitle      string `json:"job_title"`
	ApplicantName string `json:"applicant_name"`
	CorrelationID string `json:"correlation_id"`
	ErrorCode     int    `json:"error_code"`
	ErrorMessage  string `json:"error_message,omitempty"`
}

// RecruitNotifyMessage 推送给求职者：有雇主邀请其投递岗位。
type RecruitNotifyMessage struct {
	Event         string `json:"event"`
	InviteID      uint   `json:"invite_id"`
	JobID         uint   `json:"job_id"`
	JobTitle      string `json:"job_title"`
	EmployerName  string `json:"employer_name"`
	Message       string `json:"message,omitempty"`
	CorrelationID string `json:"correlation_id"`
	ErrorCode     int    `json:"error_code"`
}

const (
	eventApplicationSubmitted = "application_submitted"
	eventRecruitInvite        = "recruit_invite"
)
