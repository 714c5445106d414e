package handler

import (
	"net/http"
	"strconv"

	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/report"
	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/util"

	"github.com/gin-gonic/gin"
)

// ReportHandler serves the monthly aggregation.
type ReportHandler struct {
	Reporter *report.Reporter
}

func NewReportHandler(r *report.Reporter) *ReportHandler {
	return &ReportHandler{Reporter: r}
}

// Monthly returns totals grouped by month, direction and category.
// Optional filters: ?month=12&year=2025.
func (h *ReportHandler) Monthly(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var month, year int
	if s := c.Query("month"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > 12 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "month must be 1-12")
			return
		}
		month = v
	}
	if s := c.Query("year"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid year")
			return
		}
		year = v
	}

	rows, err := h.Reporter.Monthly(user.ID, month, year)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	items := make([]gin.H, 0, len(rows))
	for _, r := range rows {
		items = append(items, gin.H{
			"year":        r.Year,
			"month":       r.Month,
			"direction":   r.Direction,
			"category":    r.Category,
			"total_cents": r.TotalCents,
			"total":       util.FormatCents(r.TotalCents),
			"count":       r.Count,
		})
	}
	util.Success(c, util.Response{"report": items})
}
