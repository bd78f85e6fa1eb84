package parser

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
	"intellisheet/internal/model"
)

type sheetFixture struct {
	sheet     string
	title     string
	name      string
	headerRow int
	rows      [][]interface{}
}

func juneFixture() sheetFixture {
	return sheetFixture{
		sheet:     "Foglio1",
		title:     "Mese di GIUGNO 2025",
		name:      "Rossi Mario",
		headerRow: 5,
		rows: [][]interface{}{
			{3, "6h_Propa (834), 2h_AttivitàInterne"},
			{4, "8h_EcuMSI Project"},
			{"abc", "8h_Propa"},
			{7, ""},
			{40, "8h_Propa"},
			{9, "ferie"},
			{10, "4h_Formazione(Fabric), 4h_Propa (834)"},
		},
	}
}

func writeFixture(t *testing.T, fx sheetFixture) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if fx.sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", fx.sheet); err != nil {
			t.Fatalf("rename sheet: %v", err)
		}
	}
	if fx.title != "" {
		if err := f.SetCellValue(fx.sheet, "A1", fx.title); err != nil {
			t.Fatalf("set title: %v", err)
		}
	}
	if fx.name != "" {
		if err := f.SetCellValue(fx.sheet, "Q2", fx.name); err != nil {
			t.Fatalf("set name: %v", err)
		}
	}

	header := []interface{}{"Data", "Descrizione Attività svolta"}
	cell, _ := excelize.CoordinatesToCellName(1, fx.headerRow)
	if err := f.SetSheetRow(fx.sheet, cell, &header); err != nil {
		t.Fatalf("set header: %v", err)
	}
	for i, row := range fx.rows {
		row := row
		cell, _ := excelize.CoordinatesToCellName(1, fx.headerRow+1+i)
		if err := f.SetSheetRow(fx.sheet, cell, &row); err != nil {
			t.Fatalf("set row %d: %v", i, err)
		}
	}

	path := filepath.Join(t.TempDir(), "timesheet.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func TestParseFile_MonthlyTimesheet(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, juneFixture())
	ts, err := ParseFile(path, DefaultOptions())
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}

	if ts.Employee != (EmployeeName{LastName: "Rossi", FirstName: "Mario"}) {
		t.Fatalf("unexpected employee: %+v", ts.Employee)
	}
	if ts.Period != (Period{Year: 2025, Month: 6}) {
		t.Fatalf("unexpected period: %+v", ts.Period)
	}

	want := model.Document{
		"03/06/2025": {{Label: "Propa (834)", Hours: 6}, {Label: "AttivitàInterne", Hours: 2}},
		"04/06/2025": {{Label: "EcuMSI Project", Hours: 8}},
		"10/06/2025": {{Label: "Formazione(Fabric)", Hours: 4}, {Label: "Propa (834)", Hours: 4}},
	}
	if !reflect.DeepEqual(ts.Document, want) {
		t.Fatalf("document=%+v, want %+v", ts.Document, want)
	}

	wantSkipped := map[SkipReason]int{SkipBadDate: 1, SkipDayOutOfRange: 1, SkipNoActivity: 1}
	if !reflect.DeepEqual(ts.Skipped, wantSkipped) {
		t.Fatalf("skipped=%v, want %v", ts.Skipped, wantSkipped)
	}
	if ts.SkippedTotal() != 3 {
		t.Fatalf("skipped total=%d", ts.SkippedTotal())
	}
}

func TestParseFile_FallbackSheetAndHeader(t *testing.T) {
	t.Parallel()

	fx := juneFixture()
	fx.sheet = "Timesheet"
	fx.headerRow = 3
	path := writeFixture(t, fx)

	ts, err := ParseFile(path, DefaultOptions())
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}
	if ts.SheetName != "Timesheet" {
		t.Fatalf("sheet=%s", ts.SheetName)
	}
	if ts.Document.ActivityCount() != 5 {
		t.Fatalf("activities=%d, want 5", ts.Document.ActivityCount())
	}
}

func TestParseFile_DocumentErrors(t *testing.T) {
	t.Parallel()

	noPeriod := juneFixture()
	noPeriod.title = "Riepilogo ore"
	if _, err := ParseFile(writeFixture(t, noPeriod), DefaultOptions()); !errors.Is(err, ErrPeriodNotFound) {
		t.Fatalf("expected ErrPeriodNotFound, got %v", err)
	}

	noName := juneFixture()
	noName.name = ""
	if _, err := ParseFile(writeFixture(t, noName), DefaultOptions()); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}
