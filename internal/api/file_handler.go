package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dutchcoders/go-clamd"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"gorm.io/gorm"

	"skillshub/internal/database"
	"skillshub/internal/storage"
)

// FileHandler 负责文件上传与下载链接解析。文件内容只进对象存储，
// 数据库中保留元数据行，fileId 即元数据主键。
type FileHandler struct {
	db            *gorm.DB
	storage       fileStorage
	logger        *slog.Logger
	clamdAddr     string
	maxBytes      int64
	mimeWhitelist []string
}

// fileStorage 抽象出测试需要替换的对象存储操作。
type fileStorage interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (*minio.UploadInfo, error)
	GeneratePresignedURL(ctx context.Context, objectKey string, duration time.Duration) (string, error)
	GeneratePresignedURLWithParams(ctx context.Context, objectKey string, duration time.Duration, params map[string]string) (string, error)
	DeleteObject(ctx context.Context, objectKey string) error
}

// NewFileHandler 构造 FileHandler。
func NewFileHandler(db *gorm.DB, storageClient *storage.Client, logger *slog.Logger, clamdAddr string, maxBytes int64, mimeWhitelist []string) *FileHandler {
	return &FileHandler{
		db:            db,
		storage:       storageClient,
		logger:        logger,
		clamdAddr:     clamdAddr,
		maxBytes:      maxBytes,
		mimeWhitelist: mimeWhitelist,
	}
}

var fileKinds = map[string]struct{}{
	database.FileKindResume:      {},
	database.FileKindCoverLetter: {},
	database.FileKindLogo:        {},
	database.FileKindPortfolio:   {},
}

// Upload 处理受保护的文件上传：限制大小与类型，可选病毒扫描，入库返回 fileId。
func (h *FileHandler) Upload(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	kind := strings.ToUpper(strings.TrimSpace(c.PostForm("kind")))
	if _, ok := fileKinds[kind]; !ok {
		BadRequest(c, "kind must be one of RESUME, COVER_LETTER, LOGO, PORTFOLIO")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "missing file")
		return
	}

	if h.maxBytes > 0 && file.Size > h.maxBytes {
		BadRequest(c, fmt.Sprintf("file exceeds %d bytes", h.maxBytes))
		return
	}

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if !h.mimeAllowed(contentType) {
		BadRequest(c, "file type not allowed")
		return
	}

	if h.clamdAddr != "" {
		clean, err := h.scanUpload(file)
		if err != nil {
			h.logger.Error("scan file", slog.String("error", err.Error()))
			Internal(c, "failed to scan file")
			return
		}
		if !clean {
			BadRequest(c, "malicious file detected")
			return
		}
	}

	fileReader, err := file.Open()
	if err != nil {
		Internal(c, "failed to open file")
		return
	}
	defer fileReader.Close()

	objectKey := fmt.Sprintf("user-files/%d/%s%s", userID, uuid.NewString(), extensionFor(contentType, file.Filename))

	ctx := c.Request.Context()
	if _, err := h.storage.UploadFile(ctx, objectKey, fileReader, file.Size, contentType); err != nil {
		h.logger.Error("upload file", slog.String("error", err.Error()))
		Internal(c, "failed to upload file")
		return
	}

	record := database.File{
		UserID:      userID,
		ObjectKey:   objectKey,
		FileName:    sanitizeFilename(file.Filename),
		ContentType: contentType,
		SizeBytes:   file.Size,
		Kind:        kind,
	}
	if err := h.db.WithContext(ctx).Create(&record).Error; err != nil {
		h.logger.Error("create file record", slog.String("error", err.Error()))
		Internal(c, "failed to record file")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"fileId": record.ID})
}

// Resolve 把 fileId 解析为限时预签名链接并重定向，供前端直接作为链接目标。
// 访问规则：LOGO 对所有登录用户开放；其余文件归属者或雇主角色可见。
func (h *FileHandler) Resolve(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	fileID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "invalid file id")
		return
	}

	ctx := c.Request.Context()
	var record database.File
	if err := h.db.WithContext(ctx).First(&record, uint(fileID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "file not found")
			return
		}
		Internal(c, "failed to query file")
		return
	}

	if record.UserID != userID && record.Kind != database.FileKindLogo {
		role, _ := c.Get("userRole")
		if role != database.RoleEmployer && role != database.RoleAdmin {
			Forbidden(c, "access denied")
			return
		}
	}

	// LOGO 内联展示；文档类文件以原始文件名触发下载。
	var signedURL string
	if record.Kind == database.FileKindLogo {
		signedURL, err = h.storage.GeneratePresignedURL(ctx, record.ObjectKey, 15*time.Minute)
	} else {
		params := map[string]string{
			"response-content-disposition": fmt.Sprintf(`attachment; filename="%s"`, downloadName(record)),
		}
		signedURL, err = h.storage.GeneratePresignedURLWithParams(ctx, record.ObjectKey, 15*time.Minute, params)
	}
	if err != nil {
		h.logger.Error("generate presigned url", slog.String("error", err.Error()))
		Internal(c, "failed to generate url")
		return
	}

	c.Redirect(http.StatusFound, signedURL)
}

// Delete 删除归属当前用户且未被档案或投递引用的文件。
func (h *FileHandler) Delete(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	fileID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "invalid file id")
		return
	}

	ctx := c.Request.Context()
	var record database.File
	if err := h.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", uint(fileID), userID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "file not found")
			return
		}
		Internal(c, "failed to query file")
		return
	}

	referenced, err := h.fileReferenced(ctx, record.ID)
	if err != nil {
		Internal(c, "failed to check file references")
		return
	}
	if referenced {
		Conflict(c, "file is referenced by a profile or application")
		return
	}

	if err := h.storage.DeleteObject(ctx, record.ObjectKey); err != nil {
		h.logger.Error("delete object", slog.String("error", err.Error()))
		Internal(c, "failed to delete file")
		return
	}
	if err := h.db.WithContext(ctx).Delete(&record).Error; err != nil {
		Internal(c, "failed to delete file record")
		return
	}

	c.Status(http.StatusNoContent)
}

// fileReferenced 检查文件是否仍被档案简历、雇主 Logo 或投递材料引用。
func (h *FileHandler) fileReferenced(ctx context.Context, fileID uint) (bool, error) {
	checks := []struct {
		model  any
		clause string
	}{
		{&database.SeekerProfile{}, "resume_file_id = ?"},
		{&database.EmployerProfile{}, "logo_file_id = ?"},
		{&database.Application{}, "cv_file_id = ? OR cover_letter_file_id = ?"},
	}
	for _, check := range checks {
		var count int64
		q := h.db.WithContext(ctx).Model(check.model)
		if strings.Contains(check.clause, "OR") {
			q = q.Where(check.clause, fileID, fileID)
		} else {
			q = q.Where(check.clause, fileID)
		}
		if err := q.Count(&count).Error; err != nil {
			return false, err
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}

// downloadName 给出下载时的文件名，缺省时由类型与主键合成。
func downloadName(record database.File) string {
	if record.FileName != "" {
		return record.FileName
	}
	return fmt.Sprintf("%s-%d%s", strings.ToLower(record.Kind), record.ID, filepath.Ext(record.ObjectKey))
}

// sanitizeFilename 去掉路径与引号，避免污染 Content-Disposition。
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	name = strings.NewReplacer(`"`, "", "\\", "", "\r", "", "\n", "").Replace(name)
	if name == "." || name == "/" {
		return ""
	}
	return name
}

func (h *FileHandler) mimeAllowed(contentType string) bool {
	if len(h.mimeWhitelist) == 0 {
		return true
	}
	base := contentType
	if parsed, _, err := mime.ParseMediaType(contentType); err == nil {
		base = parsed
	}
	for _, allowed := range h.mimeWhitelist {
		if strings.EqualFold(base, allowed) {
			return true
		}
	}
	return false
}

func (h *FileHandler) scanUpload(file *multipart.FileHeader) (bool, error) {
	clamdClient := clamd.NewClamd(h.clamdAddr)

	fileReader, err := file.Open()
	if err != nil {
		return false, err
	}

	abortChan := make(chan bool)
	scanChan, err := clamdClient.ScanStream(fileReader, abortChan)
	fileReader.Close()
	if err != nil {
		return false, err
	}
	defer close(abortChan)

	for result := range scanChan {
		if result.Status != clamd.RES_OK {
			return false, nil
		}
	}
	return true, nil
}

// extensionFor 优先按 MIME 推断扩展名，失败时沿用原始文件名的扩展。
func extensionFor(contentType, filename string) string {
	switch strings.ToLower(contentType) {
	case "application/pdf":
		return ".pdf"
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != "" && len(ext) <= 8 && !strings.ContainsAny(ext, "/\\") {
		return ext
	}
	return ""
}
