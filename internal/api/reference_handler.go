package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"skillshub/internal/database"
	"skillshub/internal/refcache"
)

// ReferenceHandler 提供技能字典与行政区等查找数据。
// 每个视图都会请求这些接口，因此结果经 refcache 缓存而不是每次回源。
type ReferenceHandler struct {
	db    *gorm.DB
	cache *refcache.Cache
}

// NewReferenceHandler 构造 ReferenceHandler。
func NewReferenceHandler(db *gorm.DB, cache *refcache.Cache) *ReferenceHandler {
	return &ReferenceHandler{db: db, cache: cache}
}

type skillItem struct {
	ID   uint   `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// ListSkills 返回全量技能字典（类型前缀匹配在前端完成）。
func (h *ReferenceHandler) ListSkills(c *gin.Context) {
	var items []skillItem
	err := h.cache.GetOrLoad(c.Request.Context(), "ref:skills", &items, func(ctx context.Context) (any, error) {
		var rows []database.Skill
		if err := h.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
			return nil, err
		}
		out := make([]skillItem, 0, len(rows))
		for _, s := range rows {
			out = append(out, skillItem{ID: s.ID, Slug: s.Slug, Name: s.Name})
		}
		return out, nil
	})
	if err != nil {
		Internal(c, "failed to list skills")
		return
	}

	c.JSON(http.StatusOK, gin.H{"skills": items})
}

type regionItem struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ListRegions 返回行政区列表。
func (h *ReferenceHandler) ListRegions(c *gin.Context) {
	var items []regionItem
	err := h.cache.GetOrLoad(c.Request.Context(), "ref:regions", &items, func(ctx context.Context) (any, error) {
		var rows []database.Region
		if err := h.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
			return nil, err
		}
		out := make([]regionItem, 0, len(rows))
		for _, r := range rows {
			out = append(out, regionItem{ID: r.ID, Name: r.Name})
		}
		return out, nil
	})
	if err != nil {
		Internal(c, "failed to list regions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"regions": items})
}
