// Package api 工时数据的 HTTP 接口
package api

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"intellisheet/internal/importer"
	"intellisheet/internal/normalizer"
	"intellisheet/internal/parser"
	"intellisheet/internal/store"
)

// Handler API 处理器
type Handler struct {
	store      *store.Store
	normalizer *normalizer.Normalizer
	parseOpts  parser.Options
	uploadDir  string
	log        zerolog.Logger

	// 同一时刻只允许一个导入/重置写入存储
	writeMu sync.Mutex
}

// Options 处理器依赖
type Options struct {
	Store      *store.Store
	Normalizer *normalizer.Normalizer
	ParseOpts  parser.Options
	UploadDir  string
	Logger     zerolog.Logger
}

// NewHandler 创建 API 处理器
func NewHandler(opts Options) *Handler {
	return &Handler{
		store:      opts.Store,
		normalizer: opts.Normalizer,
		parseOpts:  opts.ParseOpts,
		uploadDir:  opts.UploadDir,
		log:        opts.Logger,
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)
	// 可用年月
	router.GET("/periods", h.ListPeriods)

	// 关联视图与汇总
	router.GET("/timesheet", h.ListTimesheet)
	router.GET("/employees", h.ListEmployees)
	router.GET("/employees/totals", h.EmployeeTotals)
	router.GET("/projects", h.ListProjects)
	router.GET("/projects/totals", h.ProjectTotals)

	// 词表与标签规范化
	router.GET("/vocabulary", h.GetVocabulary)
	router.POST("/normalize", h.Normalize)

	// 数据导入
	router.POST("/import", h.Import)
	router.GET("/imports", h.ListImports)
	router.POST("/reset", h.Reset)

	// 数据导出
	router.GET("/export", h.Export)
}

func (h *Handler) newCoordinator() *importer.Coordinator {
	return importer.NewCoordinator(h.store, h.normalizer, h.parseOpts, h.log)
}
