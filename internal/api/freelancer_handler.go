package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"skillshub/internal/database"
)

// FreelancerHandler 负责公开的人才浏览接口。
type FreelancerHandler struct {
	db *gorm.DB
}

// NewFreelancerHandler 构造 FreelancerHandler。
func NewFreelancerHandler(db *gorm.DB) *FreelancerHandler {
	return &FreelancerHandler{db: db}
}

// ListAvailable 返回可浏览的人才列表，支持 search/pathway 过滤。
func (h *FreelancerHandler) ListAvailable(c *gin.Context) {
	ctx := c.Request.Context()

	query := h.db.WithContext(ctx).
		Model(&database.SeekerProfile{}).
		Preload("Skills.Skill")

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(profession) LIKE ? OR LOWER(headline) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?",
			like, like, like, like)
	}
	if pathway := strings.TrimSpace(c.Query("pathway")); pathway != "" {
		query = query.Where("pathway = ?", pathway)
	}

	var rows []database.SeekerProfile
	if err := query.Order("updated_at DESC").Find(&rows).Error; err != nil {
		Internal(c, "failed to list freelancers")
		return
	}

	views := make([]listFreelancerView, 0, len(rows))
	for _, profile := range rows {
		views = append(views, newListFreelancerView(profile))
	}
	c.JSON(http.StatusOK, gin.H{"freelancers": views})
}

// ListTop 返回首页展示用的头部人才，按经验年限排序。
func (h *FreelancerHandler) ListTop(c *gin.Context) {
	limit := 6
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 24 {
			limit = parsed
		}
	}

	var rows []database.SeekerProfile
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Skills.Skill").
		Order("years_experience DESC, updated_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		Internal(c, "failed to list top freelancers")
		return
	}

	views := make([]listFreelancerView, 0, len(rows))
	for _, profile := range rows {
		views = append(views, newListFreelancerView(profile))
	}
	c.JSON(http.StatusOK, gin.H{"freelancers": views})
}

// GetFreelancer 返回单个人才详情（扁平结构）。
func (h *FreelancerHandler) GetFreelancer(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "invalid freelancer id")
		return
	}

	var profile database.SeekerProfile
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Skills.Skill").
		First(&profile, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "freelancer not found")
			return
		}
		Internal(c, "failed to query freelancer")
		return
	}

	c.JSON(http.StatusOK, newFreelancerView(profile))
}
