package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"intellisheet/internal/store"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Initialized    bool   `json:"initialized"`    // 是否已有工时数据
	Employees      int    `json:"employees"`      // 员工数
	Projects       int    `json:"projects"`       // 项目数
	Entries        int    `json:"entries"`        // 工时记录数
	TotalHours     int    `json:"totalHours"`     // 总工时
	LastRunID      string `json:"lastRunId"`      // 最近一次导入
	LastImportTime string `json:"lastImportTime"` // 最近导入时间
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	totals, err := h.store.EmployeeTotals()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	projects, err := h.store.ListProjects()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := StatusResponse{
		Employees: len(totals),
		Projects:  len(projects),
	}
	for _, t := range totals {
		resp.Entries += t.Records
		resp.TotalHours += t.TotalHours
	}
	resp.Initialized = resp.Entries > 0

	// 从未导入时没有记录
	settings, err := h.store.GetAllSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	resp.LastRunID = settings[store.SettingLastRunID]
	resp.LastImportTime = settings[store.SettingLastRunAt]

	c.JSON(http.StatusOK, resp)
}

type periodsResponse struct {
	Items []store.PeriodStat `json:"items"`
}

// ListPeriods 获取存在工时数据的年月
// GET /api/periods
func (h *Handler) ListPeriods(c *gin.Context) {
	items, err := h.store.ListAvailablePeriods()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, periodsResponse{Items: items})
}
