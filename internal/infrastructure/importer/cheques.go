// Package importer checks cheque spreadsheets (XLSX or CSV) before they are
// imported. It only validates; nothing is written.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"inventra/internal/core/apperror"
	"inventra/internal/core/id"
	"inventra/internal/core/types"
	"inventra/internal/domain/ledger"
	"inventra/internal/domain/payments/cheque"
	"inventra/pkg/logger"
)

// Row status values.
const (
	StatusOK      = "ok"
	StatusWarning = "warning"
	StatusError   = "error"
)

// csvSheet names the single sheet of a CSV file in reports.
const csvSheet = "csv"

// minColumns is customer_code, cheque_number, bank, due_date, amount.
const minColumns = 5

var dateLayouts = []string{
	time.DateOnly,
	"2006/01/02",
	"02/01/2006",
	"2/1/2006",
	"01-02-06",
}

// Row is one parsed cheque line.
type Row struct {
	CustomerCode string      `json:"customer_code"`
	CustomerID   *id.ID      `json:"customer_id,omitempty"`
	ChequeNumber string      `json:"cheque_number"`
	Bank         string      `json:"bank"`
	DueDate      time.Time   `json:"due_date"`
	Amount       types.Money `json:"amount"`
	VoucherRef   string      `json:"voucher_ref,omitempty"`
}

// Result is the outcome for one sheet row. Row is the 1-based sheet row number.
type Result struct {
	Row      int      `json:"row"`
	Status   string   `json:"status"`
	Messages []string `json:"messages,omitempty"`
	Cheque   *Row     `json:"cheque,omitempty"`
}

// Report summarizes a checked sheet.
type Report struct {
	Sheet    string   `json:"sheet"`
	Results  []Result `json:"results"`
	OK       int      `json:"ok"`
	Warnings int      `json:"warnings"`
	Errors   int      `json:"errors"`
}

// CustomerLookup resolves the customer code column.
// A missing customer is reported with apperror.NewNotFound.
type CustomerLookup interface {
	CustomerByCode(ctx context.Context, code string) (ledger.Customer, error)
}

// VoucherLookup resolves the optional linked issue voucher column.
type VoucherLookup interface {
	IssueVoucherExists(ctx context.Context, ref string) (bool, error)
}

// ChequeSheetChecker validates cheque sheets against the cheque register,
// the customer list and the issue vouchers.
type ChequeSheetChecker struct {
	cheques   *cheque.Checker
	customers CustomerLookup
	vouchers  VoucherLookup
	now       func() time.Time
}

// NewChequeSheetChecker creates a sheet checker. A nil customers or vouchers
// lookup skips that column's check.
func NewChequeSheetChecker(cheques *cheque.Checker, customers CustomerLookup, vouchers VoucherLookup) *ChequeSheetChecker {
	return &ChequeSheetChecker{
		cheques:   cheques,
		customers: customers,
		vouchers:  vouchers,
		now:       time.Now,
	}
}

// CheckFile checks path: a .csv file as CSV, anything else as a workbook.
func (c *ChequeSheetChecker) CheckFile(ctx context.Context, path string) (Report, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		f, err := os.Open(path)
		if err != nil {
			return Report{}, fmt.Errorf("open csv: %w", err)
		}
		defer f.Close()
		return c.CheckCSV(ctx, f)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return c.checkWorkbook(ctx, f)
}

// CheckReader reads a workbook from r and checks its first sheet.
func (c *ChequeSheetChecker) CheckReader(ctx context.Context, r io.Reader) (Report, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Report{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return c.checkWorkbook(ctx, f)
}

// CheckCSV reads comma separated rows from r. Rows may have any number of fields.
func (c *ChequeSheetChecker) CheckCSV(ctx context.Context, r io.Reader) (Report, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return Report{}, fmt.Errorf("read csv: %w", err)
	}
	return c.check(ctx, csvSheet, rows), nil
}

func (c *ChequeSheetChecker) checkWorkbook(ctx context.Context, f *excelize.File) (Report, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Report{}, apperror.NewValidation("الملف لا يحتوي على أي ورقة عمل")
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return Report{}, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return c.check(ctx, sheet, rows), nil
}

func (c *ChequeSheetChecker) check(ctx context.Context, sheet string, rows [][]string) Report {
	report := Report{Sheet: sheet}
	seen := make(map[string]int)

	// Row 1 is the header.
	for i := 1; i < len(rows); i++ {
		if isBlank(rows[i]) {
			continue
		}
		res := c.checkRow(ctx, i+1, rows[i], seen)
		switch res.Status {
		case StatusOK:
			report.OK++
		case StatusWarning:
			report.Warnings++
		default:
			report.Errors++
		}
		report.Results = append(report.Results, res)
	}

	logger.Info(ctx, "checked cheque sheet",
		"sheet", sheet,
		"rows", len(report.Results),
		"errors", report.Errors,
		"warnings", report.Warnings,
	)
	return report
}

func (c *ChequeSheetChecker) checkRow(ctx context.Context, rowNum int, cells []string, seen map[string]int) Result {
	res := Result{Row: rowNum, Status: StatusOK}
	fail := func(msg string) {
		res.Status = StatusError
		res.Messages = append(res.Messages, msg)
	}

	if len(cells) < minColumns {
		fail("بيانات ناقصة: يجب وجود 5 أعمدة على الأقل (كود العميل، رقم الشيك، البنك، تاريخ الاستحقاق، المبلغ)")
		return res
	}

	row := Row{
		CustomerCode: strings.TrimSpace(cells[0]),
		ChequeNumber: strings.TrimSpace(cells[1]),
		Bank:         strings.TrimSpace(cells[2]),
	}
	if len(cells) > minColumns {
		row.VoucherRef = strings.TrimSpace(cells[5])
	}
	rawDate := strings.TrimSpace(cells[3])
	rawAmount := strings.TrimSpace(cells[4])

	if row.CustomerCode == "" || row.ChequeNumber == "" || row.Bank == "" || rawDate == "" || rawAmount == "" {
		fail("الحقول الأساسية مطلوبة (كود العميل، رقم الشيك، البنك، تاريخ الاستحقاق، المبلغ)")
		return res
	}

	if c.customers != nil {
		customer, err := c.customers.CustomerByCode(ctx, row.CustomerCode)
		switch {
		case err == nil:
			row.CustomerID = &customer.ID
		case apperror.IsNotFound(err):
			fail("كود العميل غير موجود: " + row.CustomerCode)
		default:
			logger.Error(ctx, "customer lookup failed during sheet check", "row", rowNum, "error", err)
			fail("تعذر التحقق من كود العميل")
		}
	}

	amount, err := types.NewMoneyFromString(strings.ReplaceAll(rawAmount, ",", ""))
	if err != nil || !amount.IsPositive() {
		fail(fmt.Sprintf("المبلغ يجب أن يكون رقم موجب (القيمة الحالية: %s)", rawAmount))
	}
	row.Amount = amount

	dueDate, ok := parseDate(rawDate)
	if !ok {
		fail(fmt.Sprintf("تاريخ الاستحقاق غير صحيح: %s. استخدم صيغة: YYYY-MM-DD", rawDate))
	}
	row.DueDate = dueDate

	key := strings.ToUpper(row.Bank) + "\x00" + row.ChequeNumber
	if first, dup := seen[key]; dup {
		fail(fmt.Sprintf("رقم الشيك %s مكرر في الملف (الصف %d)", row.ChequeNumber, first))
	} else {
		seen[key] = rowNum
	}

	if err := c.cheques.CheckUnique(ctx, row.ChequeNumber, row.Bank, nil); err != nil {
		for _, v := range apperror.Flatten(err) {
			if v.Code == apperror.CodeInternal {
				logger.Error(ctx, "cheque lookup failed during sheet check", "row", rowNum, "error", err)
				fail("تعذر التحقق من رقم الشيك")
				continue
			}
			fail(v.Message)
		}
	}

	if res.Status != StatusError && row.VoucherRef != "" && c.vouchers != nil {
		found, err := c.vouchers.IssueVoucherExists(ctx, row.VoucherRef)
		switch {
		case err != nil:
			logger.Error(ctx, "issue voucher lookup failed during sheet check", "row", rowNum, "error", err)
			fail("تعذر التحقق من رقم الفاتورة")
		case !found:
			res.Status = StatusWarning
			res.Messages = append(res.Messages,
				fmt.Sprintf("رقم الفاتورة %s غير موجود - سيتم إنشاء الشيك بدون ربط", row.VoucherRef))
			row.VoucherRef = ""
		}
	}

	if res.Status != StatusError && ok {
		if w := cheque.PostDatedWarning(dueDate, c.now(), cheque.DefaultPostDatedMonths); w != nil {
			res.Status = StatusWarning
			res.Messages = append(res.Messages, w.Message)
		}
	}

	if res.Status != StatusError {
		res.Cheque = &row
	}
	return res
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	// Unformatted date cells come through as Excel serial numbers.
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
