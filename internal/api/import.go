package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"intellisheet/internal/importer"
)

var allowedUploadExt = map[string]bool{".xlsx": true, ".json": true}

// Import 批量导入工时表 (SSE 流式响应)
// POST /api/import  multipart: file(可多个), reset=true|false, employee=（.json 文档使用）
func (h *Handler) Import(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的表单数据"})
		return
	}

	files := form.File["file"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传文件"})
		return
	}

	if !h.writeMu.TryLock() {
		c.JSON(http.StatusConflict, gin.H{"error": "已有导入任务在运行"})
		return
	}
	defer h.writeMu.Unlock()

	// 每批上传放在 uuid 目录下
	uploadDir := h.uploadDir
	if uploadDir == "" {
		uploadDir = os.TempDir()
	}
	batchDir := filepath.Join(uploadDir, uuid.NewString())
	if err := os.MkdirAll(batchDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建上传目录失败"})
		return
	}
	defer os.RemoveAll(batchDir)

	paths := make([]string, 0, len(files))
	for i, fh := range files {
		name := filepath.Base(fh.Filename)
		if !allowedUploadExt[strings.ToLower(filepath.Ext(name))] {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("不支持的文件类型: %s", name)})
			return
		}
		// 同名文件各占一个子目录，报告里仍显示原始文件名
		fileDir := filepath.Join(batchDir, strconv.Itoa(i))
		if err := os.MkdirAll(fileDir, 0755); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "创建上传目录失败"})
			return
		}
		path := filepath.Join(fileDir, name)
		if err := c.SaveUploadedFile(fh, path); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "保存文件失败"})
			return
		}
		paths = append(paths, path)
	}

	reset := c.DefaultPostForm("reset", "false") == "true"
	employee := strings.TrimSpace(c.PostForm("employee"))

	// 设置 SSE 响应头
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "不支持流式响应"})
		return
	}

	progressChan := h.newCoordinator().Import(importer.ImportOptions{
		Files:    paths,
		Reset:    reset,
		Employee: employee,
	})

	for event := range progressChan {
		eventData, err := json.Marshal(event)
		if err != nil {
			continue
		}

		// SSE 格式: data: {json}\n\n
		fmt.Fprintf(c.Writer, "data: %s\n\n", eventData)
		flusher.Flush()
	}
}

// Reset 清空员工、项目、合同与工时（导入日志保留）
// POST /api/reset
func (h *Handler) Reset(c *gin.Context) {
	if !h.writeMu.TryLock() {
		c.JSON(http.StatusConflict, gin.H{"error": "已有导入任务在运行"})
		return
	}
	defer h.writeMu.Unlock()

	if err := h.store.Reset(); err != nil {
		h.log.Error().Err(err).Msg("reset failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.log.Info().Msg("store reset")
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ListImports 导入日志
// GET /api/imports?runId=&limit=
func (h *Handler) ListImports(c *gin.Context) {
	limit := parseIntWithDefault(c.Query("limit"), 100)
	items, err := h.store.ListImportLogs(strings.TrimSpace(c.Query("runId")), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
