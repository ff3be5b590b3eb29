package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"skillshub/internal/api/middleware"
	"skillshub/internal/database"
	"skillshub/internal/jobs"
	"skillshub/internal/tasks"
)

// EmployerHandler 负责雇主侧的岗位管理与招募邀请。
type EmployerHandler struct {
	db          *gorm.DB
	asynqClient *asynq.Client
}

// NewEmployerHandler 构造 EmployerHandler。
func NewEmployerHandler(db *gorm.DB, asynqClient *asynq.Client) *EmployerHandler {
	return &EmployerHandler{db: db, asynqClient: asynqClient}
}

// ListMyJobs 列出当前雇主发布的全部岗位（含已关闭）。
func (h *EmployerHandler) ListMyJobs(c *gin.Context) {
	employer, ok := h.employerFromContext(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var rows []database.Job
	if err := h.db.WithContext(ctx).
		Preload("Skills.Skill").
		Preload("Employer").
		Where("employer_profile_id = ?", employer.ID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		Internal(c, "failed to list jobs")
		return
	}

	views := make([]jobView, 0, len(rows))
	for _, job := range rows {
		views = append(views, newJobView(job))
	}
	c.JSON(http.StatusOK, gin.H{"jobs": views})
}

// CreateJob 校验并保存一条新岗位。
// 表单切换类型时不清空隐藏字段，规范化在这里统一把异类字段置空。
func (h *EmployerHandler) CreateJob(c *gin.Context) {
	employer, ok := h.employerFromContext(c)
	if !ok {
		return
	}

	var input jobs.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, err.Error())
		return
	}

	if fields := jobs.Validate(input); fields != nil {
		ValidationFailed(c, fields)
		return
	}
	rec := jobs.Normalize(input)

	ctx := c.Request.Context()
	job := database.Job{EmployerProfileID: employer.ID}
	jobs.Apply(rec, &job)

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&job).Error; err != nil {
			return err
		}
		return syncJobSkills(ctx, tx, job.ID, rec.Skills)
	})
	if err != nil {
		Internal(c, "failed to create job")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "jobId": job.ID})
}

// GetMyJob 返回当前雇主的单个岗位（编辑页使用，包 job wrapper）。
func (h *EmployerHandler) GetMyJob(c *gin.Context) {
	employer, ok := h.employerFromContext(c)
	if !ok {
		return
	}

	job, err := h.jobForEmployer(c.Request.Context(), c.Param("id"), employer.ID)
	if err != nil {
		switch {
		case errors.Is(err, errInvalidJobID):
			BadRequest(c, "invalid job id")
		case errors.Is(err, gorm.ErrRecordNotFound):
			NotFound(c, "job not found")
		default:
			Internal(c, "failed to query job")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"job": newJobView(*job)})
}

// UpdateJob 用完整表单覆盖岗位。岗位不会被删除，关闭通过 status 切换表达。
func (h *EmployerHandler) UpdateJob(c *gin.Context) {
	employer, ok := h.employerFromContext(c)
	if !ok {
		return
	}

	job, err := h.jobForEmployer(c.Request.Context(), c.Param("id"), employer.ID)
	if err != nil {
		switch {
		case errors.Is(err, errInvalidJobID):
			BadRequest(c, "invalid job id")
		case errors.Is(err, gorm.ErrRecordNotFound):
			NotFound(c, "job not found")
		default:
			Internal(c, "failed to query job")
		}
		return
	}

	var input jobs.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, err.Error())
		return
	}

	if fields := jobs.Validate(input); fields != nil {
		ValidationFailed(c, fields)
		return
	}
	rec := jobs.Normalize(input)
	jobs.Apply(rec, job)

	ctx := c.Request.Context()
	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Save 写全部列，切换类型后旧类型的列会回到 NULL。
		if err := tx.Save(job).Error; err != nil {
			return err
		}
		return syncJobSkills(ctx, tx, job.ID, rec.Skills)
	})
	if err != nil {
		Internal(c, "failed to update job")
		return
	}

	reloaded, err := h.jobForEmployer(ctx, c.Param("id"), employer.ID)
	if err != nil {
		Internal(c, "failed to reload job")
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": newJobView(*reloaded)})
}

type recruitRequest struct {
	TalentID uint   `json:"talentId" binding:"required"`
	JobID    uint   `json:"jobId" binding:"required"`
	Message  string `json:"message"`
}

// Recruit 向指定人才发出投递邀请，并返回对方是否已上传简历。
func (h *EmployerHandler) Recruit(c *gin.Context) {
	employer, ok := h.employerFromContext(c)
	if !ok {
		return
	}

	var req recruitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()

	var job database.Job
	if err := h.db.WithContext(ctx).
		Where("id = ? AND employer_profile_id = ?", req.JobID, employer.ID).
		First(&job).Error; err != nil {
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

	var seeker database.SeekerProfile
	if err := h.db.WithContext(ctx).First(&seeker, req.TalentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "talent not found")
			return
		}
		Internal(c, "failed to query talent")
		return
	}

	invite := database.RecruitInvite{
		EmployerProfileID: employer.ID,
		JobID:             job.ID,
		SeekerProfileID:   seeker.ID,
		Message:           strings.TrimSpace(req.Message),
	}
	if err := h.db.WithContext(ctx).Create(&invite).Error; err != nil {
		Internal(c, "failed to create invite")
		return
	}

	if h.asynqClient != nil {
		correlationID := middleware.GetCorrelationID(c)
		if task, err := tasks.NewRecruitInviteTask(invite.ID, employer.UserID, correlationID); err == nil {
			_, _ = h.asynqClient.Enqueue(task, asynq.MaxRetry(5))
		}
	}

	c.JSON(http.StatusOK, gin.H{"hasResume": seeker.ResumeFileID != nil})
}

// GetTalent 返回雇主侧的人才详情（包 talent wrapper）。
func (h *EmployerHandler) GetTalent(c *gin.Context) {
	if _, ok := h.employerFromContext(c); !ok {
		return
	}

	talentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "invalid talent id")
		return
	}

	var profile database.SeekerProfile
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Skills.Skill").
		First(&profile, uint(talentID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "talent not found")
			return
		}
		Internal(c, "failed to query talent")
		return
	}

	c.JSON(http.StatusOK, gin.H{"talent": newFreelancerView(profile)})
}

func (h *EmployerHandler) employerFromContext(c *gin.Context) (*database.EmployerProfile, bool) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return nil, false
	}

	var employer database.EmployerProfile
	if err := h.db.WithContext(c.Request.Context()).
		Where("user_id = ?", userID).
		First(&employer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			Forbidden(c, "employer profile required")
			return nil, false
		}
		Internal(c, "failed to load employer profile")
		return nil, false
	}
	return &employer, true
}

func (h *EmployerHandler) jobForEmployer(ctx context.Context, idParam string, employerID uint) (*database.Job, error) {
	jobID, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil {
		return nil, errInvalidJobID
	}

	var job database.Job
	if err := h.db.WithContext(ctx).
		Preload("Skills.Skill").
		Preload("Employer").
		Where("id = ? AND employer_profile_id = ?", uint(jobID), employerID).
		First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// syncJobSkills 以表单内容整体覆盖岗位技能：先清空再写入，
// 字典中不存在的技能按 slug 补建。
func syncJobSkills(ctx context.Context, tx *gorm.DB, jobID uint, skills []jobs.SkillInput) error {
	if err := tx.WithContext(ctx).Where("job_id = ?", jobID).Delete(&database.JobSkill{}).Error; err != nil {
		return err
	}

	for _, s := range skills {
		var skill database.Skill
		if err := tx.WithContext(ctx).
			Where(database.Skill{Slug: s.Slug}).
			Attrs(database.Skill{Name: s.Name}).
			FirstOrCreate(&skill).Error; err != nil {
			return err
		}
		link := database.JobSkill{
			JobID:    jobID,
			SkillID:  skill.ID,
			Required: s.Required,
		}
		if err := tx.WithContext(ctx).Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}
