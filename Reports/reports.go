package Reports

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

const (
	SpreadsheetType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	PDFType         = "application/pdf"
)

// Format is the report flavour picked on screen.
type Format string

const (
	Excel Format = "excel"
	PDF   Format = "pdf"
)

func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "excel", "xlsx":
		return Excel, nil
	case "pdf":
		return PDF, nil
	}
	return "", fmt.Errorf("unknown report format %q", value)
}

func (f Format) Extension() string {
	if f == PDF {
		return "pdf"
	}
	return "xlsx"
}

func (f Format) ContentType() string {
	if f == PDF {
		return PDFType
	}
	return SpreadsheetType
}

// FailureMessage is the fallback shown when an export of this format fails.
func (f Format) FailureMessage() string {
	return strings.ToUpper(string(f)) + " export failed!"
}

// File is a finished download.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Send writes f as an attachment.
func (f File) Send(c *fiber.Ctx) error {
	contentType := f.ContentType
	if contentType == "" {
		contentType = fiber.MIMEOctetStream
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", f.Name))
	return c.Send(f.Data)
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// SanitizeName replaces everything but ASCII letters and digits with "_".
func SanitizeName(name string) string {
	return unsafeChars.ReplaceAllString(name, "_")
}

// Sheet is a table to be written as one worksheet.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]any
}

// Snapshot renders sheet as an xlsx workbook.
func Snapshot(sheet Sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	name := sheet.Name
	if name == "" {
		name = "Sheet1"
	}
	index, err := f.NewSheet(name)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if name != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return nil, fmt.Errorf("drop default sheet: %w", err)
		}
	}

	for col, header := range sheet.Headers {
		if err := setCell(f, name, col+1, 1, header); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0F2F1"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	if err := f.SetRowStyle(name, 1, 1, headerStyle); err != nil {
		return nil, fmt.Errorf("style header row: %w", err)
	}

	for i, row := range sheet.Rows {
		for col, value := range row {
			if err := setCell(f, name, col+1, i+2, value); err != nil {
				return nil, err
			}
		}
	}

	if len(sheet.Headers) > 0 {
		last, err := excelize.ColumnNumberToName(len(sheet.Headers))
		if err != nil {
			return nil, fmt.Errorf("last column: %w", err)
		}
		if err := f.SetColWidth(name, "A", last, 16); err != nil {
			return nil, fmt.Errorf("column width: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setCell(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}
