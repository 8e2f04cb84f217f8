package ledger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"wabot/internal/database"
)

// SheetName is the worksheet holding the order rows.
const SheetName = "Orders"

// ExportColumns is the header row of the export artifact, in order.
var ExportColumns = []string{
	"Order ID",
	"Orderer Name",
	"Price",
	"Details",
	"Work Type",
	"Status",
	"Created Time",
	"Deadline",
}

// statusFills maps each status to the ARGB fill color of its row band.
var statusFills = map[database.Status]string{
	database.StatusTodo:       "FFE699",
	database.StatusOnProgress: "BDD7EE",
	database.StatusDone:       "C6EFCE",
	database.StatusCanceled:   "FFC7CE",
}

// ExportResult describes the written artifact. The caller is responsible
// for transmitting the file and scheduling its cleanup.
type ExportResult struct {
	Filename string
	Path     string
}

// Export renders all orders into a styled xlsx file under dir: a header
// row, one row per order with a status-colored band, and a summary block
// with the total count, total revenue, and per-status breakdown. The
// filename embeds the current date.
func (l *Ledger) Export(ctx context.Context, dir string) (*ExportResult, error) {
	orders, err := l.store.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for export: %w", err)
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			l.logger.Warn("Error closing export workbook", "error", closeErr)
		}
	}()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("failed to name export sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, name := range ExportColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to compute header cell: %w", err)
		}
		if err := f.SetCellValue(SheetName, cell, name); err != nil {
			return nil, fmt.Errorf("failed to write header cell: %w", err)
		}
	}
	if err := f.SetCellStyle(SheetName, "A1", "H1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header row: %w", err)
	}

	statusStyles := make(map[database.Status]int, len(statusFills))
	for status, fill := range statusFills {
		style, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fill}},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create style for status %s: %w", status, err)
		}
		statusStyles[status] = style
	}

	statusCounts := map[database.Status]int{}
	var totalRevenue int64

	for i, order := range orders {
		row := i + 2
		deadline := ""
		if order.Deadline.Valid {
			deadline = order.Deadline.Time.Format("2006-01-02")
		}

		values := []any{
			order.OrderID,
			order.OrdererName,
			order.Price,
			order.Details,
			order.Work,
			string(order.Status),
			order.CreatedAt.Format("2006-01-02 15:04:05"),
			deadline,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, fmt.Errorf("failed to compute cell for row %d: %w", row, err)
			}
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write order row %d: %w", row, err)
			}
		}

		if style, ok := statusStyles[order.Status]; ok {
			start, _ := excelize.CoordinatesToCellName(1, row)
			end, _ := excelize.CoordinatesToCellName(len(ExportColumns), row)
			if err := f.SetCellStyle(SheetName, start, end, style); err != nil {
				return nil, fmt.Errorf("failed to style order row %d: %w", row, err)
			}
		}

		statusCounts[order.Status]++
		totalRevenue += order.Price
	}

	// Summary block, two blank rows below the last order row.
	row := len(orders) + 4
	summary := [][2]any{
		{"Total Orders", len(orders)},
		{"Total Revenue", totalRevenue},
	}
	for _, status := range []database.Status{database.StatusTodo, database.StatusOnProgress, database.StatusDone, database.StatusCanceled} {
		summary = append(summary, [2]any{string(status), statusCounts[status]})
	}
	for _, pair := range summary {
		labelCell, _ := excelize.CoordinatesToCellName(1, row)
		valueCell, _ := excelize.CoordinatesToCellName(2, row)
		if err := f.SetCellValue(SheetName, labelCell, pair[0]); err != nil {
			return nil, fmt.Errorf("failed to write summary label: %w", err)
		}
		if err := f.SetCellValue(SheetName, valueCell, pair[1]); err != nil {
			return nil, fmt.Errorf("failed to write summary value: %w", err)
		}
		row++
	}

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("2006-01-02"))
	path := filepath.Join(dir, filename)
	if err := f.SaveAs(path); err != nil {
		return nil, fmt.Errorf("failed to save export file: %w", err)
	}

	l.logger.InfoContext(ctx, "Orders exported", "path", path, "orders", len(orders), "revenue", totalRevenue)
	return &ExportResult{Filename: filename, Path: path}, nil
}
