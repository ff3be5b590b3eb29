package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"skillshub/internal/api/middleware"
	"skillshub/internal/database"
	"skillshub/internal/jobs"
	"skillshub/internal/tasks"
)

// ApplicationHandler 负责求职者投递。
type ApplicationHandler struct {
	db          *gorm.DB
	asynqClient *asynq.Client
}

// NewApplicationHandler 构造 ApplicationHandler。
func NewApplicationHandler(db *gorm.DB, asynqClient *asynq.Client) *ApplicationHandler {
	return &ApplicationHandler{db: db, asynqClient: asynqClient}
}

type applyRequest struct {
	JobID             uint   `json:"jobId" binding:"required"`
	CoverLetterText   string `json:"coverLetterText"`
	CoverLetterFileID *uint  `json:"coverLetterFileId"`
	ExpectedPay       string `json:"expectedPay"`
}

const missingApplicationDocsMessage = "upload a resume to your profile or attach a cover letter file before applying"

// Apply 提交一次投递。
// 前置条件：档案里有简历，或本次附带了求职信文件，二者至少其一。
func (h *ApplicationHandler) Apply(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()

	var seeker database.SeekerProfile
	if err := h.db.WithContext(ctx).Where("user_id = ?", userID).First(&seeker).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			Forbidden(c, "seeker profile required")
			return
		}
		Internal(c, "failed to load profile")
		return
	}

	if seeker.ResumeFileID == nil && req.CoverLetterFileID == nil {
		BadRequest(c, missingApplicationDocsMessage)
		return
	}

	// 求职信文件必须归属当前用户，防止引用他人文件。
	if req.CoverLetterFileID != nil {
		var file database.File
		if err := h.db.WithContext(ctx).
			Where("id = ? AND user_id = ?", *req.CoverLetterFileID, userID).
			First(&file).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				BadRequest(c, "cover letter file not found")
				return
			}
			Internal(c, "failed to verify cover letter file")
			return
		}
	}

	var job database.Job
	if err := h.db.WithContext(ctx).First(&job, req.JobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "job not found")
			return
		}
		Internal(c, "failed to query job")
		return
	}
	if job.Status != jobs.StatusOpen {
		Conflict(c, "job is closed")
		return
	}

	var existing int64
	if err := h.db.WithContext(ctx).
		Model(&database.Application{}).
		Where("job_id = ? AND seeker_profile_id = ?", job.ID, seeker.ID).
		Count(&existing).Error; err != nil {
		Internal(c, "failed to check existing application")
		return
	}
	if existing > 0 {
		Conflict(c, "you have already applied to this job")
		return
	}

	app := database.Application{
		JobID:             job.ID,
		SeekerProfileID:   seeker.ID,
		CoverLetterText:   strings.TrimSpace(req.CoverLetterText),
		CoverLetterFileID: req.CoverLetterFileID,
		// 投递时快照档案简历，之后更换简历不影响已投递内容。
		CVFileID:    seeker.ResumeFileID,
		ExpectedPay: strings.TrimSpace(req.ExpectedPay),
		Status:      database.ApplicationSubmitted,
	}
	if err := h.db.WithContext(ctx).Create(&app).Error; err != nil {
		Internal(c, "failed to create application")
		return
	}

	if h.asynqClient != nil {
		correlationID := middleware.GetCorrelationID(c)
		if task, err := tasks.NewApplicationSubmittedTask(app.ID, userID, correlationID); err == nil {
			_, _ = h.asynqClient.Enqueue(task, asynq.MaxRetry(5))
		}
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "applicationId": app.ID})
}
