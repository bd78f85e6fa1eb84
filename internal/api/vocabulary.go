package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"intellisheet/internal/normalizer"
)

// GetVocabulary 当前规范项目名列表
// GET /api/vocabulary
func (h *Handler) GetVocabulary(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"canonicalProjects": h.normalizer.Canonical()})
}

type normalizeRequest struct {
	Labels []string `json:"labels"`
}

// Normalize 预览标签规范化结果，不写入存储
// POST /api/normalize {"labels": ["Propa (834)", ...]}
func (h *Handler) Normalize(c *gin.Context) {
	var req normalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Labels) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}

	type item struct {
		Label string `json:"label"`
		normalizer.Result
	}
	items := make([]item, 0, len(req.Labels))
	for _, label := range req.Labels {
		res := h.normalizer.Normalize(strings.TrimSpace(label))
		items = append(items, item{Label: label, Result: res})
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
