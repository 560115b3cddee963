package items

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"chanitec_backend/platform/apperr"
	"chanitec_backend/platform/money"

	"github.com/xuri/excelize/v2"
)

const (
	extXLSX = ".xlsx"
	extCSV  = ".csv"

	colDescription = "description"
	colPrice       = "price"
)

// InvalidRow reports a spreadsheet row that could not be imported.
// RowIndex is the 1-based sheet row, counting the header as row 1.
type InvalidRow struct {
	RowIndex int               `json:"rowIndex"`
	Error    string            `json:"error"`
	RawData  map[string]string `json:"rawData"`
}

// Sheet is the outcome of reading and validating an uploaded price list.
type Sheet struct {
	TotalRows int
	Valid     []Item
	Invalid   []InvalidRow
}

// SupportedExtension reports whether fileName has an importable extension.
func SupportedExtension(fileName string) bool {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case extXLSX, extCSV:
		return true
	}
	return false
}

// ParseSheet reads the first worksheet of an .xlsx file, or a .csv file, and
// validates every data row. The header row must name a description and a
// price column; other columns are kept only in the raw data of invalid rows.
func ParseSheet(fileName string, data []byte) (Sheet, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(fileName)) {
	case extXLSX:
		rows, err = readXLSX(data)
	case extCSV:
		rows, err = readCSV(data)
	default:
		return Sheet{}, apperr.BadRequest("Only .xlsx and .csv files are supported")
	}
	if err != nil {
		return Sheet{}, apperr.BadRequest("Error processing file").WithDetails(err.Error())
	}
	return validateRows(rows)
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	// Spreadsheets saved with a French locale separate fields with semicolons.
	firstLine, _, _ := bytes.Cut(data, []byte("\n"))
	if bytes.Count(firstLine, []byte(";")) > bytes.Count(firstLine, []byte(",")) {
		r.Comma = ';'
	}
	return r.ReadAll()
}

func validateRows(rows [][]string) (Sheet, error) {
	if len(rows) == 0 {
		return Sheet{}, apperr.BadRequest("The file is empty")
	}

	header := make([]string, len(rows[0]))
	descCol, priceCol := -1, -1
	for i, name := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(name))
		switch header[i] {
		case colDescription:
			descCol = i
		case colPrice:
			priceCol = i
		}
	}
	if descCol < 0 || priceCol < 0 {
		return Sheet{}, apperr.BadRequest("The file must have description and price columns")
	}

	sheet := Sheet{Valid: make([]Item, 0), Invalid: make([]InvalidRow, 0)}
	index := 0
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		rowIndex := index + 2
		index++

		description := strings.TrimSpace(cell(row, descCol))
		rawPrice := strings.TrimSpace(cell(row, priceCol))
		if description == "" || rawPrice == "" {
			sheet.Invalid = append(sheet.Invalid, InvalidRow{
				RowIndex: rowIndex,
				Error:    "Missing required fields (description or price)",
				RawData:  rawData(header, row),
			})
			continue
		}
		price, err := money.ParsePrice(rawPrice)
		if err != nil {
			sheet.Invalid = append(sheet.Invalid, InvalidRow{
				RowIndex: rowIndex,
				Error:    "Invalid price format: " + rawPrice,
				RawData:  rawData(header, row),
			})
			continue
		}
		sheet.Valid = append(sheet.Valid, Item{Description: description, Price: money.Round2(price)})
	}
	sheet.TotalRows = index
	return sheet, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func rawData(header, row []string) map[string]string {
	out := make(map[string]string, len(header))
	for i, name := range header {
		if name == "" {
			continue
		}
		if v := cell(row, i); v != "" {
			out[name] = v
		}
	}
	return out
}
