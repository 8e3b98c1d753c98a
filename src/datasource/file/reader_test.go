package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestReadCSVToDataFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.csv")
	content := "restaurant_id;city\nR001;Sao Paulo\nR002;Pune\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	df, err := ReadCSVToDataFrame(path, ';')
	if err != nil {
		t.Fatalf("ReadCSVToDataFrame failed: %v", err)
	}

	if df.Nrow() != 2 {
		t.Errorf("Nrow = %d, want 2", df.Nrow())
	}
	if names := df.Names(); names[0] != "restaurant_id" || names[1] != "city" {
		t.Errorf("unexpected columns: %v", names)
	}
	if got := df.Col("city").Elem(1).String(); got != "Pune" {
		t.Errorf("cell = %q, want Pune", got)
	}
}

func TestReadCSVMissingFile(t *testing.T) {
	if _, err := ReadCSVToDataFrame(filepath.Join(t.TempDir(), "missing.csv"), ','); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReadXLSXToDataFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.xlsx")

	// 用excelize生成测试文件
	f := excelize.NewFile()
	sheet := "orders"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		t.Fatalf("failed to create sheet: %v", err)
	}
	f.SetActiveSheet(idx)
	f.SetCellValue(sheet, "A1", "restaurant_id")
	f.SetCellValue(sheet, "B1", "city")
	f.SetCellValue(sheet, "A2", "R001")
	f.SetCellValue(sheet, "B2", "Doha")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save xlsx: %v", err)
	}
	f.Close()

	df, err := ReadXLSXToDataFrame(path, sheet)
	if err != nil {
		t.Fatalf("ReadXLSXToDataFrame failed: %v", err)
	}
	if df.Nrow() != 1 {
		t.Errorf("Nrow = %d, want 1", df.Nrow())
	}
	if got := df.Col("city").Elem(0).String(); got != "Doha" {
		t.Errorf("cell = %q, want Doha", got)
	}
}
