package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"renthub/internal/domain"
	"renthub/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const (
	calendarSheet = "Calendar"
	bookingsSheet = "Bookings"
)

// Exporter renders the booking calendar and booking list to an xlsx file.
type Exporter struct {
	repo   domain.Repository
	path   string
	logger *zerolog.Logger
}

func NewExporter(repo domain.Repository, path string, logger *zerolog.Logger) *Exporter {
	return &Exporter{
		repo:   repo,
		path:   path,
		logger: logger,
	}
}

// ExportBookings writes an occupancy grid (listings by day) and a flat
// booking list for the inclusive range, returning the file path.
func (e *Exporter) ExportBookings(ctx context.Context, startDate, endDate time.Time) (string, error) {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	listings, err := e.repo.GetActiveListings(ctx)
	if err != nil {
		return "", fmt.Errorf("error getting listings: %v", err)
	}

	bookings, err := e.repo.GetBookingsByDateRange(ctx, startDate, endDate)
	if err != nil {
		return "", fmt.Errorf("error getting bookings: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(calendarSheet)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(calendarSheet, "A1", fmt.Sprintf("Period: %s - %s",
		startDate.Format("2006-01-02"), endDate.Format("2006-01-02")))

	dateCols := e.writeDateHeaders(f, startDate, endDate)
	e.writeListingRows(f, listings)
	e.writeOccupancy(f, listings, bookings, startDate, dateCols)

	_ = f.SetColWidth(calendarSheet, "A", "A", 25)
	for i := 'B'; i <= 'Z'; i++ {
		_ = f.SetColWidth(calendarSheet, string(i), string(i), 16)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(calendarSheet, "A1", "A1", headerStyle)

	if err := e.writeBookingList(f, bookings); err != nil {
		return "", err
	}

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_%s_to_%s.xlsx",
		startDate.Format("2006-01-02"),
		endDate.Format("2006-01-02"))
	filePath := filepath.Join(e.path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Msg("excel export created")
	return filePath, nil
}

func (e *Exporter) writeDateHeaders(f *excelize.File, startDate, endDate time.Time) map[string]int {
	col := 2
	currentDate := startDate
	dateCols := make(map[string]int)

	style, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	for !currentDate.After(endDate) {
		cell, _ := excelize.CoordinatesToCellName(col, 2)
		_ = f.SetCellValue(calendarSheet, cell, currentDate.Format("01-02"))
		_ = f.SetCellStyle(calendarSheet, cell, cell, style)
		dateCols[currentDate.Format("2006-01-02")] = col

		col++
		currentDate = currentDate.AddDate(0, 0, 1)
	}
	return dateCols
}

func (e *Exporter) writeListingRows(f *excelize.File, listings []*models.Listing) {
	style, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E2EFDA"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})

	row := 3
	for _, listing := range listings {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		_ = f.SetCellValue(calendarSheet, cell, listing.Name)
		_ = f.SetCellStyle(calendarSheet, cell, cell, style)
		row++
	}
}

func (e *Exporter) writeOccupancy(f *excelize.File, listings []*models.Listing, bookings []*models.Booking, startDate time.Time, dateCols map[string]int) {
	rowByListing := make(map[int64]int, len(listings))
	for i, listing := range listings {
		rowByListing[listing.ID] = i + 3
	}

	bookedStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#FFC7CE"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "top", WrapText: true},
	})
	pendingStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#FFEB9C"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "top", WrapText: true},
	})

	for _, booking := range bookings {
		if booking.Status == models.StatusCanceled {
			continue
		}
		row, ok := rowByListing[booking.ListingID]
		if !ok {
			continue
		}

		style := bookedStyle
		if booking.Status == models.StatusPending {
			style = pendingStyle
		}

		d := booking.StartDate
		if d.Before(startDate) {
			d = startDate
		}
		for ; !d.After(booking.EndDate); d = d.AddDate(0, 0, 1) {
			col, ok := dateCols[d.Format("2006-01-02")]
			if !ok {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(calendarSheet, cell,
				fmt.Sprintf("%s\n%s (%s)", booking.Reference, booking.RenterName, booking.Status))
			_ = f.SetCellStyle(calendarSheet, cell, cell, style)
		}
	}
}

func (e *Exporter) writeBookingList(f *excelize.File, bookings []*models.Booking) error {
	if _, err := f.NewSheet(bookingsSheet); err != nil {
		return fmt.Errorf("error creating sheet: %v", err)
	}

	headers := []string{
		"ID", "Reference", "Listing", "Renter", "Phone", "Start", "End", "Days",
		"Base", "Service fee", "Insurance", "Delivery", "Deposit", "Discount",
		"Total", "Status",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(bookingsSheet, cell, header)
	}

	for i, b := range bookings {
		row := i + 2
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("A%d", row), b.ID)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("B%d", row), b.Reference)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("C%d", row), b.ListingName)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("D%d", row), b.RenterName)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("E%d", row), b.Phone)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("F%d", row), b.StartDate.Format("2006-01-02"))
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("G%d", row), b.EndDate.Format("2006-01-02"))
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("H%d", row), b.Duration)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("I%d", row), cents(b.Pricing.BaseCents))
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("J%d", row), cents(b.Pricing.ServiceFeeCents))
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("K%d", row), cents(b.Pricing.InsuranceFeeCents))
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("L%d", row), cents(b.Pricing.DeliveryFeeCents))
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("M%d", row), cents(b.Pricing.SecurityDepositCents))
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("N%d", row), cents(b.Pricing.PointsDiscountCents))
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("O%d", row), cents(b.Pricing.TotalRenterPaysCents))
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("P%d", row), b.Status)
	}

	return nil
}

func cents(v int64) float64 {
	return float64(v) / 100
}
