package handler

import (
	"Beacon/internal/api/config"
	"Beacon/internal/pkg/response"
	"Beacon/internal/service"
	"io"
	log "log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var allowedUploadExt = map[string]struct{}{
	".xlsx": {},
	".xls":  {},
	".csv":  {},
}

type UploadHandler struct {
	ingestService service.IngestService
	cfg           config.UploadConfig
}

func NewUploadHandler(ingestService service.IngestService, cfg config.UploadConfig) *UploadHandler {
	return &UploadHandler{
		ingestService: ingestService,
		cfg:           cfg,
	}
}

// Upload 上传单个导出文件并导入
func (h *UploadHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	path, err := h.saveUpload(c, file)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.ingestService.IngestFile(c.Request.Context(), path, file.Filename)
	if err != nil {
		// 导入失败的文件不留在磁盘上
		_ = os.Remove(path)
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UploadBatch 批量上传单帖导出，逐个导入，互不影响
func (h *UploadHandler) UploadBatch(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	saved := make([]service.SavedFile, 0, len(files))
	for _, file := range files {
		path, saveErr := h.saveUpload(c, file)
		if saveErr != nil {
			response.Error(c, saveErr)
			return
		}
		saved = append(saved, service.SavedFile{Path: path, Filename: file.Filename})
	}

	results := h.ingestService.IngestBatch(c.Request.Context(), saved)
	for i, item := range results {
		if item.Status != "success" {
			_ = os.Remove(saved[i].Path)
		}
	}
	response.Success(c, results)
}

// History 上传历史
func (h *UploadHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	items, err := h.ingestService.ListUploads(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, items)
}

// saveUpload 流式落盘。扩展名与大小在写入前检查，文件名用 uuid 重写防穿越
func (h *UploadHandler) saveUpload(c *gin.Context, file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if _, ok := allowedUploadExt[ext]; !ok {
		return "", service.ErrFileNotSupported
	}
	if file.Size > h.cfg.MaxSizeMB<<20 {
		return "", service.ErrFileTooLarge
	}

	if err := os.MkdirAll(h.cfg.Dir, 0o755); err != nil {
		log.ErrorContext(c.Request.Context(), "Failed to create upload dir", "err", err)
		return "", service.UnExpectedError
	}

	src, err := file.Open()
	if err != nil {
		return "", service.ErrParamInvalid
	}
	defer func() { _ = src.Close() }()

	path := filepath.Join(h.cfg.Dir, uuid.NewString()+ext)
	dst, err := os.Create(path)
	if err != nil {
		log.ErrorContext(c.Request.Context(), "Failed to create upload file", "err", err)
		return "", service.UnExpectedError
	}
	defer func() { _ = dst.Close() }()

	buf := make([]byte, 1<<20)
	if _, err = io.CopyBuffer(dst, src, buf); err != nil {
		_ = os.Remove(path)
		log.ErrorContext(c.Request.Context(), "Failed to write upload file", "err", err)
		return "", service.UnExpectedError
	}
	return path, nil
}
