package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"intellisheet/internal/exporter"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Export 导出关联视图
// GET /api/export?format=xlsx|csv&from=&to=&year=&month=&employeeId=&project=
func (h *Handler) Export(c *gin.Context) {
	query, err := parseTimesheetQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exp := exporter.NewExporter(h.store)
	stamp := time.Now().Format("20060102_150405")

	switch c.DefaultQuery("format", "xlsx") {
	case "csv":
		var buf bytes.Buffer
		if _, err := exp.WriteCSV(&buf, query); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"intellisheet_%s.csv\"", stamp))
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	case "xlsx":
		f, err := exp.Export(exporter.ExportOptions{Query: query})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer f.Close()

		buf, err := f.WriteToBuffer()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "生成 Excel 失败"})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"intellisheet_%s.xlsx\"", stamp))
		c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format 仅支持 xlsx 或 csv"})
	}
}
