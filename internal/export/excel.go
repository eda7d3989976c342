package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fixnear/internal/models"

	"github.com/xuri/excelize/v2"
)

var columns = []string{"ID", "Service", "Provider", "Customer", "Location", "Date", "Price", "Status", "Rating", "Review"}

// WriteBookings writes the given bookings to an .xlsx workbook under dir
// and returns the file path. The caller decides which set to pass, so the
// export honors whatever filter the view had active.
func WriteBookings(dir string, bookings []models.Booking) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Bookings"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, col)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	lastHeader, _ := excelize.CoordinatesToCellName(len(columns), 1)
	_ = f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle)

	for row, b := range bookings {
		values := []any{b.ID, b.ServiceType, b.ProviderName, b.UserName, b.Location, b.BookingDate, b.Price, b.Status, ratingCell(b), b.Review}
		for col, val := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheetName, cell, val)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 25)
	lastCol, _ := excelize.ColumnNumberToName(len(columns))
	_ = f.SetColWidth(sheetName, "B", lastCol, 18)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("2006-01-02_150405"))
	filePath := filepath.Join(dir, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}
	return filePath, nil
}

func ratingCell(b models.Booking) any {
	if b.Rating == 0 {
		return ""
	}
	return b.Rating
}
