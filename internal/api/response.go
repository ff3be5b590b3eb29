package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"skillshub/internal/errcode"
	"skillshub/internal/jobs"
)

// 错误信封统一携带 kind，前端按 kind 分支而不是匹配 message 文本。

func Error(c *gin.Context, status int, kind errcode.Kind, msg string) {
	c.JSON(status, gin.H{"error": msg, "kind": kind})
}

func AbortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "kind": errcode.KindAuth})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, errcode.KindAuth, "unauthorized")
}

func BadRequest(c *gin.Context, msg string) {
	Error(c, http.StatusBadRequest, errcode.KindValidation, msg)
}

func Forbidden(c *gin.Context, msg string) {
	Error(c, http.StatusForbidden, errcode.KindForbidden, msg)
}

func NotFound(c *gin.Context, msg string) {
	Error(c, http.StatusNotFound, errcode.KindNotFound, msg)
}

func Conflict(c *gin.Context, msg string) {
	Error(c, http.StatusConflict, errcode.KindConflict, msg)
}

func Internal(c *gin.Context, msg string) {
	Error(c, http.StatusInternalServerError, errcode.KindServer, msg)
}

func TooManyRequests(c *gin.Context, msg string) {
	Error(c, http.StatusTooManyRequests, errcode.KindRateLimited, msg)
}

// ValidationFailed 返回逐字段错误，message 取首个字段的消息供旧前端直接展示。
func ValidationFailed(c *gin.Context, fields jobs.FieldErrors) {
	msg := "validation failed"
	for _, v := range fields {
		msg = v
		break
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"error":  msg,
		"kind":   errcode.KindValidation,
		"fields": fields,
	})
}

func userIDFromContext(c *gin.Context) (uint, bool) {
	value, exists := c.Get("userID")
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint(v), true
	case uint64:
		return uint(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint(v), true
	default:
		return 0, false
	}
}
