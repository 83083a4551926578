package ui

import (
	"strings"
	"testing"
)

func TestTable_Render(t *testing.T) {
	table := NewTable("ID", "Title", "Status")
	table.AddRow("1a2b3c4d", "Wire the router", "pending")
	table.AddRow("5e6f7a8b", "Add handlers", "done")

	result := table.Render()

	for _, want := range []string{"ID", "Title", "Status", "Wire the router", "done"} {
		if !strings.Contains(result, want) {
			t.Errorf("table should contain %q", want)
		}
	}
}

func TestTable_Empty(t *testing.T) {
	if got := (&Table{}).Render(); got != "" {
		t.Errorf("empty table should render empty string, got %q", got)
	}
}

func TestTable_MaxWidth(t *testing.T) {
	table := NewTable("Description")
	table.AddRow("This is a very long description that should be truncated")
	table.MaxWidth = 20

	widths := table.ColumnWidths()
	if widths[0] > 20 {
		t.Errorf("column width should be <= 20, got %d", widths[0])
	}

	// The rendered cell ends in an ellipsis rather than overflowing.
	if !strings.Contains(table.Render(), "…") {
		t.Error("over-wide cell should be truncated with an ellipsis")
	}
}

func TestTable_ShortRow(t *testing.T) {
	table := NewTable("A", "B")
	table.AddRow("only one cell")

	// A row with fewer cells than headers must not panic.
	if got := table.Render(); !strings.Contains(got, "only one cell") {
		t.Errorf("render should include the partial row, got %q", got)
	}
}

func TestTruncateID(t *testing.T) {
	if got := TruncateID("123456789abc"); got != "12345678" {
		t.Errorf("TruncateID = %q, want %q", got, "12345678")
	}
	if got := TruncateID("short"); got != "short" {
		t.Errorf("TruncateID = %q, want %q", got, "short")
	}
}
