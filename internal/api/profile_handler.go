package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"skillshub/internal/database"
	"skillshub/internal/talent"
)

// ProfileHandler 负责当前登录用户的档案读写。
type ProfileHandler struct {
	db *gorm.DB
}

// NewProfileHandler 构造 ProfileHandler。
func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{db: db}
}

type userView struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// Me 返回当前会话用户。
func (h *ProfileHandler) Me(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var user database.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			Unauthorized(c)
			return
		}
		Internal(c, "failed to load user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": newUserView(user)})
}

// GetSeekerProfile 返回当前求职者的档案摘要。
func (h *ProfileHandler) GetSeekerProfile(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	ctx := c.Request.Context()

	var user database.User
	if err := h.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		Internal(c, "failed to load user")
		return
	}

	var profile database.SeekerProfile
	if err := h.db.WithContext(ctx).
		Preload("Skills.Skill").
		Where("user_id = ?", userID).
		First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "seeker profile not found")
			return
		}
		Internal(c, "failed to load profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile": newFreelancerView(profile),
		"user":    newUserView(user),
	})
}

type seekerSkillInput struct {
	Slug  string `json:"slug" binding:"required"`
	Name  string `json:"name"`
	Level int    `json:"level"`
}

type updateSeekerProfileRequest struct {
	FirstName       string                 `json:"firstName"`
	LastName        string                 `json:"lastName"`
	Profession      string                 `json:"profession"`
	Headline        string                 `json:"headline"`
	Bio             string                 `json:"bio"`
	YearsExperience int                    `json:"yearsExperience"`
	Pathway         string                 `json:"pathway"`
	Availability    string                 `json:"availability"`
	ResumeFileID    *uint                  `json:"resumeFileId"`
	Skills          []seekerSkillInput     `json:"skills"`
	Education       []talent.Education     `json:"education"`
	Training        []talent.Training      `json:"training"`
	Experience      []talent.Experience    `json:"experience"`
	Portfolio       []talent.PortfolioItem `json:"portfolio"`
}

// validateCollections 检查档案集合的基本完整性，返回 "" 表示通过。
func (r *updateSeekerProfileRequest) validateCollections() string {
	for _, e := range r.Education {
		if strings.TrimSpace(e.Institution) == "" {
			return "education entries require an institution"
		}
	}
	for _, t := range r.Training {
		if strings.TrimSpace(t.Provider) == "" || strings.TrimSpace(t.Title) == "" {
			return "training entries require provider and title"
		}
	}
	for _, e := range r.Experience {
		if strings.TrimSpace(e.Employer) == "" || strings.TrimSpace(e.Role) == "" {
			return "experience entries require employer and role"
		}
		if e.EndYear != 0 && e.EndYear < e.StartYear {
			return "experience end year precedes start year"
		}
	}
	for _, p := range r.Portfolio {
		if strings.TrimSpace(p.Title) == "" {
			return "portfolio items require a title"
		}
		if p.Link == "" && p.FileID == nil {
			return "portfolio items need a link or an uploaded file"
		}
	}
	return ""
}

// marshalCollection 将集合序列化为 JSONB 存储值，nil 统一存为空数组。
func marshalCollection(v any) (datatypes.JSON, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(raw) == "null" {
		raw = []byte("[]")
	}
	return datatypes.JSON(raw), nil
}

// UpdateSeekerProfile 覆盖当前求职者的档案，不存在时创建。
func (h *ProfileHandler) UpdateSeekerProfile(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var req updateSeekerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	switch req.Pathway {
	case "", database.PathwayStudent, database.PathwayGraduate, database.PathwayArtisan:
	default:
		BadRequest(c, "pathway must be one of STUDENT, GRADUATE, ARTISAN")
		return
	}
	if msg := req.validateCollections(); msg != "" {
		BadRequest(c, msg)
		return
	}

	ctx := c.Request.Context()

	// 简历文件必须归属当前用户。
	if req.ResumeFileID != nil {
		var file database.File
		if err := h.db.WithContext(ctx).
			Where("id = ? AND user_id = ?", *req.ResumeFileID, userID).
			First(&file).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				BadRequest(c, "resume file not found")
				return
			}
			Internal(c, "failed to verify resume file")
			return
		}
	}

	var profile database.SeekerProfile
	err := h.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		profile = database.SeekerProfile{UserID: userID}
	case err != nil:
		Internal(c, "failed to load profile")
		return
	}

	profile.FirstName = strings.TrimSpace(req.FirstName)
	profile.LastName = strings.TrimSpace(req.LastName)
	profile.Profession = strings.TrimSpace(req.Profession)
	profile.Headline = strings.TrimSpace(req.Headline)
	profile.Bio = strings.TrimSpace(req.Bio)
	profile.YearsExperience = req.YearsExperience
	profile.Pathway = req.Pathway
	profile.Availability = strings.TrimSpace(req.Availability)
	profile.ResumeFileID = req.ResumeFileID

	for _, col := range []struct {
		dest *datatypes.JSON
		src  any
	}{
		{&profile.Education, req.Education},
		{&profile.Training, req.Training},
		{&profile.Experience, req.Experience},
		{&profile.Portfolio, req.Portfolio},
	} {
		raw, err := marshalCollection(col.src)
		if err != nil {
			Internal(c, "failed to encode profile collections")
			return
		}
		*col.dest = raw
	}

	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&profile).Error; err != nil {
			return err
		}
		return syncSeekerSkills(ctx, tx, profile.ID, req.Skills)
	})
	if err != nil {
		Internal(c, "failed to save profile")
		return
	}

	var reloaded database.SeekerProfile
	if err := h.db.WithContext(ctx).
		Preload("Skills.Skill").
		First(&reloaded, profile.ID).Error; err != nil {
		Internal(c, "failed to reload profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": newFreelancerView(reloaded)})
}

func newUserView(user database.User) userView {
	return userView{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
		Name:  user.Name,
		Phone: user.Phone,
	}
}

// syncSeekerSkills 以请求内容整体覆盖档案技能，熟练度限定在 1-5。
func syncSeekerSkills(ctx context.Context, tx *gorm.DB, profileID uint, skills []seekerSkillInput) error {
	if err := tx.WithContext(ctx).Where("seeker_profile_id = ?", profileID).Delete(&database.SeekerSkill{}).Error; err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		slug := strings.ToLower(strings.TrimSpace(s.Slug))
		if slug == "" {
			continue
		}
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}

		level := s.Level
		if level < 1 {
			level = 1
		}
		if level > 5 {
			level = 5
		}

		var skill database.Skill
		if err := tx.WithContext(ctx).
			Where(database.Skill{Slug: slug}).
			Attrs(database.Skill{Name: strings.TrimSpace(s.Name)}).
			FirstOrCreate(&skill).Error; err != nil {
			return err
		}
		link := database.SeekerSkill{
			SeekerProfileID: profileID,
			SkillID:         skill.ID,
			Level:           level,
		}
		if err := tx.WithContext(ctx).Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}
