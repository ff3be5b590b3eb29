package api

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"skillshub/internal/database"
	"skillshub/internal/jobs"
	"skillshub/internal/match"
)

// JobHandler 负责公开的岗位浏览接口。
type JobHandler struct {
	db *gorm.DB
}

// NewJobHandler 构造 JobHandler。
func NewJobHandler(db *gorm.DB) *JobHandler {
	return &JobHandler{db: db}
}

var errInvalidJobID = errors.New("invalid job id")

// ListAvailable 返回全部开放岗位，支持 search/type/location 过滤。
func (h *JobHandler) ListAvailable(c *gin.Context) {
	ctx := c.Request.Context()

	query := h.db.WithContext(ctx).
		Model(&database.Job{}).
		Preload("Skills.Skill").
		Preload("Employer").
		Where("status = ?", jobs.StatusOpen)

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if jobType := strings.TrimSpace(c.Query("type")); jobType != "" {
		if !jobs.ValidType(jobType) {
			BadRequest(c, "unknown job type")
			return
		}
		query = query.Where("type = ?", jobType)
	}
	if location := strings.TrimSpace(c.Query("location")); location != "" {
		query = query.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(location)+"%")
	}

	var rows []database.Job
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		Internal(c, "failed to list jobs")
		return
	}

	views := make([]jobView, 0, len(rows))
	for _, job := range rows {
		views = append(views, newJobView(job))
	}
	c.JSON(http.StatusOK, gin.H{"jobs": views})
}

// GetJob 返回单个岗位详情（扁平结构，不包 wrapper）。
func (h *JobHandler) GetJob(c *gin.Context) {
	job, err := h.loadJob(c.Request.Context(), c.Param("id"))
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

	c.JSON(http.StatusOK, newJobView(*job))
}

// recommendedJobView 在岗位视图上附加匹配结论。
type recommendedJobView struct {
	jobView
	MatchScore          int             `json:"matchScore"`
	MatchingSkillsCount int             `json:"matchingSkillsCount"`
	MandatoryMissing    bool            `json:"mandatoryMissing"`
	MissingSkills       []match.Missing `json:"missingSkills"`
}

// ListRecommended 按当前求职者的技能对开放岗位打分排序。
func (h *JobHandler) ListRecommended(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	ctx := c.Request.Context()

	var profile database.SeekerProfile
	if err := h.db.WithContext(ctx).
		Preload("Skills").
		Where("user_id = ?", userID).
		First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "seeker profile not found")
			return
		}
		Internal(c, "failed to load profile")
		return
	}

	seekerSkills := make(map[uint]int, len(profile.Skills))
	for _, ss := range profile.Skills {
		seekerSkills[ss.SkillID] = ss.Level
	}

	var rows []database.Job
	if err := h.db.WithContext(ctx).
		Preload("Skills.Skill").
		Preload("Employer").
		Where("status = ?", jobs.StatusOpen).
		Find(&rows).Error; err != nil {
		Internal(c, "failed to list jobs")
		return
	}

	views := make([]recommendedJobView, 0, len(rows))
	for _, job := range rows {
		jobSkills := make([]match.JobSkill, 0, len(job.Skills))
		for _, js := range job.Skills {
			jobSkills = append(jobSkills, match.JobSkill{
				SkillID:  js.SkillID,
				Name:     js.Skill.Name,
				Required: js.Required,
			})
		}
		result := match.Score(jobSkills, seekerSkills)
		views = append(views, recommendedJobView{
			jobView:             newJobView(job),
			MatchScore:          result.Score,
			MatchingSkillsCount: result.MatchingSkillsCount,
			MandatoryMissing:    result.MandatoryMissing,
			MissingSkills:       result.MissingSkills,
		})
	}

	// 分数高者在前，同分按创建时间新者在前。
	sort.SliceStable(views, func(i, j int) bool {
		if views[i].MatchScore != views[j].MatchScore {
			return views[i].MatchScore > views[j].MatchScore
		}
		return views[i].CreatedAt.After(views[j].CreatedAt)
	})

	c.JSON(http.StatusOK, gin.H{"jobs": views})
}

func (h *JobHandler) loadJob(ctx context.Context, idParam string) (*database.Job, error) {
	jobID, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil {
		return nil, errInvalidJobID
	}

	var job database.Job
	if err := h.db.WithContext(ctx).
		Preload("Skills.Skill").
		Preload("Employer").
		First(&job, uint(jobID)).Error; err != nil {
		return nil, err
	}
	return &job, nil
}
