package mapping

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// writeMappingFile 生成两列对照表 xlsx
func writeMappingFile(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("coordinates: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "mapping.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	return path
}

func TestLoad_Basic(t *testing.T) {
	t.Parallel()

	path := writeMappingFile(t, [][]interface{}{
		{"220", "木剑"},
		{"221", "铁剑"},
		{" 222 ", " 金剑 "},
		{"", "无ID应跳过"},
	})

	table, err := Load(path, DefaultLoadOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(table) != 3 {
		t.Fatalf("entry count: want 3 got %d", len(table))
	}
	if table["220"] != "木剑" || table["221"] != "铁剑" {
		t.Fatalf("unexpected table: %v", table)
	}
	if table["222"] != "金剑" {
		t.Fatalf("ID and name should be trimmed, got %q", table["222"])
	}
}

func TestLoad_SkipHeader(t *testing.T) {
	t.Parallel()

	path := writeMappingFile(t, [][]interface{}{
		{"物品ID", "物品名称"},
		{"220", "木剑"},
	})

	opts := DefaultLoadOptions()
	opts.SkipHeader = true

	table, err := Load(path, opts)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := table["物品ID"]; ok {
		t.Fatalf("header row should be skipped")
	}
	if table["220"] != "木剑" {
		t.Fatalf("unexpected table: %v", table)
	}
}

func TestLoad_DuplicateKeyLastWins(t *testing.T) {
	t.Parallel()

	path := writeMappingFile(t, [][]interface{}{
		{"220", "旧名称"},
		{"220", "新名称"},
	})

	table, err := Load(path, DefaultLoadOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if table["220"] != "新名称" {
		t.Fatalf("later row should overwrite, got %q", table["220"])
	}
}

func TestLoad_CustomColumns(t *testing.T) {
	t.Parallel()

	path := writeMappingFile(t, [][]interface{}{
		{"忽略", "220", "木剑"},
		{"忽略", "221", "铁剑"},
	})

	opts := DefaultLoadOptions()
	opts.IDColumn = "B"
	opts.NameColumn = "C"

	table, err := Load(path, opts)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if table["220"] != "木剑" || table["221"] != "铁剑" {
		t.Fatalf("unexpected table: %v", table)
	}
}

func TestLoad_NoUsableEntries(t *testing.T) {
	t.Parallel()

	path := writeMappingFile(t, [][]interface{}{
		{"物品ID", "物品名称"},
	})

	opts := DefaultLoadOptions()
	opts.SkipHeader = true

	if _, err := Load(path, opts); !errors.Is(err, ErrNoMappingEntries) {
		t.Fatalf("err = %v; want ErrNoMappingEntries", err)
	}
}

func TestLoad_BadColumnLetter(t *testing.T) {
	t.Parallel()

	path := writeMappingFile(t, [][]interface{}{{"220", "木剑"}})

	opts := DefaultLoadOptions()
	opts.IDColumn = "1"

	if _, err := Load(path, opts); err == nil {
		t.Fatalf("expected error for bad column letter")
	}
}
