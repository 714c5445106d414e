package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/models"
	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportHandler streams the caller's transactions as CSV or XLSX.
type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

func (h *ExportHandler) loadTransactions(userID uint) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := h.DB.Where("user_id = ?", userID).
		Preload("Account").
		Preload("Category").
		Order("date DESC, id DESC").
		Find(&txns).Error
	return txns, err
}

func exportFilename(ext string) string {
	return fmt.Sprintf("transactions_%s_%s.%s",
		time.Now().Format("20060102"), uuid.New().String()[:8], ext)
}

var exportHeaders = []string{"Date", "Direction", "Category", "Account", "Amount", "Description"}

func exportRow(t *models.Transaction) []string {
	return []string{
		t.Date.Format("2006-01-02"),
		string(t.Direction),
		t.Category.Name,
		t.Account.Name,
		util.FormatCents(t.AmountCents),
		t.Description,
	}
}

// ExportCSV writes all transactions of the current user as CSV.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	txns, err := h.loadTransactions(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename("csv")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for i := range txns {
		writer.Write(exportRow(&txns[i]))
	}
}

// ExportXLSX writes all transactions of the current user as XLSX.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	txns, err := h.loadTransactions(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	f := excelize.NewFile()
	sheetName := "Transactions"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "create sheet failed")
		return
	}
	f.SetActiveSheet(index)

	for i, head := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, head)
	}
	for idx := range txns {
		row := idx + 2
		for col, v := range exportRow(&txns[idx]) {
			cell := fmt.Sprintf("%c%d", 'A'+col, row)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 10)
	f.SetColWidth(sheetName, "C", "D", 15)
	f.SetColWidth(sheetName, "E", "E", 12)
	f.SetColWidth(sheetName, "F", "F", 30)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename("xlsx")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
	}
}
