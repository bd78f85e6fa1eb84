package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"intellisheet/internal/model"
	"intellisheet/internal/store"
)

const isoDate = "2006-01-02"

// timesheetRow 关联视图行，附带派生的显示字段
type timesheetRow struct {
	model.TimesheetView
	Employee    string `json:"employee"`
	ProjectFull string `json:"projectFull"`
}

type listTimesheetResponse struct {
	Items    []timesheetRow `json:"items"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}

// ListTimesheet 查询 员工 × 合同 × 项目 × 日期 × 工时 关联视图
// GET /api/timesheet?from=&to=&year=&month=&employeeId=&project=&page=&pageSize=
func (h *Handler) ListTimesheet(c *gin.Context) {
	query, err := parseTimesheetQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page := parseIntWithDefault(c.Query("page"), 1)
	pageSize := parseIntWithDefault(c.Query("pageSize"), 200)
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 200
	}
	if pageSize > 2000 {
		pageSize = 2000
	}

	total, err := h.store.CountTimesheet(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	query.Limit = pageSize
	query.Offset = (page - 1) * pageSize
	rows, err := h.store.ListTimesheet(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]timesheetRow, 0, len(rows))
	for _, r := range rows {
		items = append(items, timesheetRow{
			TimesheetView: r,
			Employee:      r.Employee(),
			ProjectFull:   r.ProjectFull(),
		})
	}

	c.JSON(http.StatusOK, listTimesheetResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// ListEmployees 员工列表
// GET /api/employees
func (h *Handler) ListEmployees(c *gin.Context) {
	items, err := h.store.ListEmployees()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// EmployeeTotals 每名员工的记录数与总工时
// GET /api/employees/totals
func (h *Handler) EmployeeTotals(c *gin.Context) {
	items, err := h.store.EmployeeTotals()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ListProjects 项目列表（含合同）
// GET /api/projects
func (h *Handler) ListProjects(c *gin.Context) {
	projects, err := h.store.ListProjects()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	contracts, err := h.store.ListContracts(0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	byProject := make(map[int64][]model.Contract, len(projects))
	for _, ct := range contracts {
		byProject[ct.ProjectID] = append(byProject[ct.ProjectID], ct)
	}

	type projectItem struct {
		model.Project
		Contracts []model.Contract `json:"contracts"`
	}
	items := make([]projectItem, 0, len(projects))
	for _, p := range projects {
		cs := byProject[p.ID]
		if cs == nil {
			cs = []model.Contract{}
		}
		items = append(items, projectItem{Project: p, Contracts: cs})
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ProjectTotals 按项目与合同汇总工时
// GET /api/projects/totals?from=&to=&employeeId=
func (h *Handler) ProjectTotals(c *gin.Context) {
	query, err := parseTimesheetQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	items, err := h.store.ProjectTotals(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	type projectTotalRow struct {
		model.ProjectTotal
		ProjectFull string `json:"projectFull"`
	}
	rows := make([]projectTotalRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, projectTotalRow{ProjectTotal: it, ProjectFull: it.ProjectFull()})
	}
	c.JSON(http.StatusOK, gin.H{"items": rows})
}

// parseTimesheetQuery 解析过滤条件；year+month 与 from/to 同时给出时以 from/to 为准
func parseTimesheetQuery(c *gin.Context) (store.TimesheetQueryOptions, error) {
	var q store.TimesheetQueryOptions

	if y, m := parseIntWithDefault(c.Query("year"), 0), parseIntWithDefault(c.Query("month"), 0); y > 0 {
		if m < 1 || m > 12 {
			first := time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC)
			q.From, q.To = first.Format(isoDate), first.AddDate(1, 0, -1).Format(isoDate)
		} else {
			first := time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
			q.From, q.To = first.Format(isoDate), first.AddDate(0, 1, -1).Format(isoDate)
		}
	}

	if v := strings.TrimSpace(c.Query("from")); v != "" {
		if _, err := time.Parse(isoDate, v); err != nil {
			return q, fmt.Errorf("非法日期 from=%s，应为 YYYY-MM-DD", v)
		}
		q.From = v
	}
	if v := strings.TrimSpace(c.Query("to")); v != "" {
		if _, err := time.Parse(isoDate, v); err != nil {
			return q, fmt.Errorf("非法日期 to=%s，应为 YYYY-MM-DD", v)
		}
		q.To = v
	}

	if v := strings.TrimSpace(c.Query("employeeId")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return q, fmt.Errorf("非法 employeeId=%s", v)
		}
		q.EmployeeID = id
	}
	q.Project = strings.TrimSpace(c.Query("project"))
	return q, nil
}

func parseIntWithDefault(s string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return v
}
