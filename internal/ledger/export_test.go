package ledger_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/xuri/excelize/v2"

	"wabot/internal/ledger"
)

func TestExportHeaderRoundTrip(t *testing.T) {
	t.Parallel()
	l, _ := newTestLedger(t)
	ctx := context.Background()

	mustCreate(t, l, basicInput())
	in := basicInput()
	in.OrdererName = "Budi"
	in.PriceRaw = "100000"
	second := mustCreate(t, l, in)
	if _, err := l.Edit(ctx, second.OrderID, "status", "done"); err != nil {
		t.Fatalf("Edit failed: %v", err)
	}

	result, err := l.Export(ctx, t.TempDir())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	f, err := excelize.OpenFile(result.Path)
	if err != nil {
		t.Fatalf("failed to open exported file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(ledger.SheetName)
	if err != nil {
		t.Fatalf("failed to read exported rows: %v", err)
	}
	if len(rows) == 0 {
		t.Fatal("exported sheet is empty")
	}

	header := rows[0]
	if len(header) != len(ledger.ExportColumns) {
		t.Fatalf("header has %d columns, want %d", len(header), len(ledger.ExportColumns))
	}
	for i, want := range ledger.ExportColumns {
		if header[i] != want {
			t.Errorf("header[%d] = %q, want %q", i, header[i], want)
		}
	}
}

func TestExportSummaryBlock(t *testing.T) {
	t.Parallel()
	l, _ := newTestLedger(t)
	ctx := context.Background()

	prices := []string{"100000", "250000", "50000"}
	for _, p := range prices {
		in := basicInput()
		in.PriceRaw = p
		mustCreate(t, l, in)
	}

	result, err := l.Export(ctx, t.TempDir())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	f, err := excelize.OpenFile(result.Path)
	if err != nil {
		t.Fatalf("failed to open exported file: %v", err)
	}
	defer f.Close()

	// Two blank rows after the last order row: 3 orders end at row 4,
	// rows 5 and 6 stay empty, "Total Orders" is at row 7.
	readCell := func(cell string) string {
		t.Helper()
		v, err := f.GetCellValue(ledger.SheetName, cell)
		if err != nil {
			t.Fatalf("failed to read cell %s: %v", cell, err)
		}
		return v
	}

	for _, cell := range []string{"A5", "A6"} {
		if got := readCell(cell); got != "" {
			t.Errorf("%s = %q, want blank separator row", cell, got)
		}
	}
	if got := readCell("A7"); got != "Total Orders" {
		t.Errorf("A7 = %q, want Total Orders", got)
	}
	if got := readCell("B7"); got != "3" {
		t.Errorf("B7 (total orders) = %q, want 3", got)
	}
	if got := readCell("A8"); got != "Total Revenue" {
		t.Errorf("A8 = %q, want Total Revenue", got)
	}
	if got := readCell("B8"); got != strconv.Itoa(100000+250000+50000) {
		t.Errorf("B8 (total revenue) = %q, want 400000", got)
	}
	if got := readCell("A9"); got != "todo" {
		t.Errorf("A9 = %q, want todo", got)
	}
	if got := readCell("B9"); got != "3" {
		t.Errorf("B9 (todo count) = %q, want 3", got)
	}
}
