package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mgeorge46/entebbe/internal/maintenance/entity"
	"github.com/mgeorge46/entebbe/internal/maintenance/repository"
	"github.com/xuri/excelize/v2"
)

// ExportService renders xlsx reports for the back office.
type ExportService struct {
	aircraftRepo  *repository.AircraftRepository
	componentRepo *repository.ComponentRepository
	maintRepo     *repository.MaintenanceRepository
}

func NewExportService(aircraftRepo *repository.AircraftRepository, componentRepo *repository.ComponentRepository, maintRepo *repository.MaintenanceRepository) *ExportService {
	return &ExportService{
		aircraftRepo:  aircraftRepo,
		componentRepo: componentRepo,
		maintRepo:     maintRepo,
	}
}

var componentExportHeaders = []string{
	"Level", "Component", "Part Number", "Serial Number", "ATA",
	"Maintenance Hours", "Original Hours", "Cycle", "Status", "Serviceability",
}

// ExportComponents renders an aircraft's full component inventory.
func (s *ExportService) ExportComponents(ctx context.Context, aircraftID string) (*excelize.File, string, error) {
	aircraft, err := s.aircraftRepo.FindByID(ctx, aircraftID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, "", ErrAircraftNotFound
		}
		return nil, "", err
	}

	components, err := s.componentRepo.ListSubtree(ctx, aircraftID, false)
	if err != nil {
		return nil, "", fmt.Errorf("list components: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Components"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range componentExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for rowIdx, c := range components {
		row := rowIdx + 2
		cycle := 0
		if c.ItemCycle != nil {
			cycle = *c.ItemCycle
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), c.Type().TypeName())
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), c.ComponentName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), c.PartNumber)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), c.SerialNumber)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), c.ATA)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), c.MaintenanceHours.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), c.ItemOriginalHours.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), cycle)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), c.ComponentStatus)
		f.SetCellValue(sheet, fmt.Sprintf("J%d", row), c.MaintenanceStatus)
	}

	colWidths := []float64{16, 24, 18, 18, 8, 16, 14, 8, 12, 14}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	filename := fmt.Sprintf("Components_%s_%s.xlsx", aircraft.Abbreviation, time.Now().Format("20060102"))
	return f, filename, nil
}

var maintenanceExportHeaders = []string{
	"Batch", "Component Type", "Component ID", "Check", "Schedule Type",
	"Start", "End", "Status", "Hours Added", "Completed By", "Completed On",
}

// ExportMaintenance renders the maintenance records matching a filter.
func (s *ExportService) ExportMaintenance(ctx context.Context, filter repository.MaintenanceFilter) (*excelize.File, string, error) {
	at := time.Now()
	filter.Now = at

	var records []entity.ComponentMaintenance
	skip := false
	if filter.AircraftID != "" {
		ids, err := s.componentRepo.SubtreeIDs(ctx, filter.AircraftID)
		if err != nil {
			return nil, "", err
		}
		// An aircraft with no components exports an empty sheet.
		skip = len(ids) == 0
		filter.ComponentIDs = ids
	}
	if !skip {
		var err error
		records, err = s.maintRepo.List(ctx, filter)
		if err != nil {
			return nil, "", fmt.Errorf("list records: %w", err)
		}
	}

	f := excelize.NewFile()
	sheet := "Maintenance"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range maintenanceExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	dateLayout := "2006-01-02"
	for rowIdx, r := range records {
		row := rowIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.BatchID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.TypeName())
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.ComponentID)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.MaintenanceType)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), r.MainTypeSchedule)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), r.StartDate.Format(dateLayout))
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), r.EndDate.Format(dateLayout))
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), r.EffectiveStatus(at))
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), r.ActualHoursAdded.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("J%d", row), r.CompletedBy)
		if r.CompletionDate != nil {
			f.SetCellValue(sheet, fmt.Sprintf("K%d", row), r.CompletionDate.Format(dateLayout))
		}
	}

	colWidths := []float64{26, 16, 30, 10, 14, 12, 12, 10, 12, 14, 12}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	filename := fmt.Sprintf("Maintenance_%s.xlsx", time.Now().Format("20060102"))
	return f, filename, nil
}
