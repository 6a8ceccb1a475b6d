package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"

	"jar-ledger/internal/ledger"
	"jar-ledger/internal/models"
	"jar-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// InvoiceHandler renders a month's bill for one consumer: itemized lines in
// chronological order plus the total, served as JSON, CSV or XLSX.
type InvoiceHandler struct {
	DB *gorm.DB
}

func NewInvoiceHandler(db *gorm.DB) *InvoiceHandler {
	return &InvoiceHandler{DB: db}
}

// loadInvoice pulls the month's entries, itemized oldest-first.
func (h *InvoiceHandler) loadInvoice(mobile, month string) ([]models.Entry, ledger.MonthTotal, bool, error) {
	var entries []models.Entry
	if err := h.DB.
		Where("mobile = ? AND date LIKE ?", mobile, month+"%").
		Find(&entries).Error; err != nil {
		return nil, ledger.MonthTotal{}, false, err
	}

	lines := ledger.InvoiceLines(entries, mobile, month)
	total := ledger.Monthly(entries, mobile, month)
	paid := ledger.MonthPaid(entries, mobile, month)
	return lines, total, paid, nil
}

func (h *InvoiceHandler) params(c *gin.Context) (mobile, month string, ok bool) {
	mobile = c.Param("mobile")
	month = c.Param("month")
	if err := util.ValidateMonth(month); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "month must be YYYY-MM")
		return "", "", false
	}
	return mobile, month, true
}

// GetInvoice returns the bill as JSON for the printable view.
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	mobile, month, ok := h.params(c)
	if !ok {
		return
	}

	lines, total, paid, err := h.loadInvoice(mobile, month)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	// Name/address come from the registry when the consumer still exists,
	// otherwise from the snapshot on the newest line.
	header := gin.H{"mobile": mobile}
	var consumer models.Consumer
	if err := h.DB.First(&consumer, "mobile = ?", mobile).Error; err == nil {
		header["name"] = consumer.Name
		header["house_no"] = consumer.HouseNo
		header["area"] = consumer.Area
	} else if len(lines) > 0 {
		last := lines[len(lines)-1]
		header["name"] = last.Name
		header["house_no"] = last.HouseNo
		header["area"] = last.Area
	}

	util.Success(c, util.Response{
		"consumer": header,
		"month":    month,
		"lines":    entryRespList(lines),
		"jars":     total.Jars,
		"total":    total.Due.StringFixed(2),
		"paid":     paid,
	})
}

// ExportCSV downloads the bill as CSV.
func (h *InvoiceHandler) ExportCSV(c *gin.Context) {
	mobile, month, ok := h.params(c)
	if !ok {
		return
	}

	lines, total, paid, err := h.loadInvoice(mobile, month)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"invoice_%s_%s.csv\"", mobile, month))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	// UTF-8 BOM so Excel opens it cleanly
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer.Write([]string{"Date", "Jars", "Type", "Price", "Paid"})
	for i := range lines {
		e := &lines[i]
		paidText := "No"
		if e.IsPaid {
			paidText = "Yes"
		}
		writer.Write([]string{
			e.Date,
			fmt.Sprintf("%d", e.Qty),
			e.Type,
			e.Price.StringFixed(2),
			paidText,
		})
	}

	status := "UNPAID"
	if paid {
		status = "PAID"
	}
	writer.Write([]string{"Total", fmt.Sprintf("%d", total.Jars), "", total.Due.StringFixed(2), status})
}

// ExportXLSX downloads the bill as a spreadsheet.
func (h *InvoiceHandler) ExportXLSX(c *gin.Context) {
	mobile, month, ok := h.params(c)
	if !ok {
		return
	}

	lines, total, paid, err := h.loadInvoice(mobile, month)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	f := excelize.NewFile()
	sheetName := "Invoice"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "create sheet failed")
		return
	}
	f.SetActiveSheet(index)

	headers := []string{"Date", "Jars", "Type", "Price", "Paid"}
	for i, hd := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, hd)
	}

	for idx := range lines {
		e := &lines[idx]
		row := idx + 2

		paidText := "No"
		if e.IsPaid {
			paidText = "Yes"
		}

		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), e.Date)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), e.Qty)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), e.Type)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), e.Price.StringFixed(2))
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), paidText)
	}

	totalRow := len(lines) + 2
	status := "UNPAID"
	if paid {
		status = "PAID"
	}
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", totalRow), "Total")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", totalRow), total.Jars)
	f.SetCellValue(sheetName, fmt.Sprintf("D%d", totalRow), total.Due.StringFixed(2))
	f.SetCellValue(sheetName, fmt.Sprintf("E%d", totalRow), status)

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 8)
	f.SetColWidth(sheetName, "C", "C", 10)
	f.SetColWidth(sheetName, "D", "D", 12)
	f.SetColWidth(sheetName, "E", "E", 8)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"invoice_%s_%s.xlsx\"", mobile, month))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
	}
}
