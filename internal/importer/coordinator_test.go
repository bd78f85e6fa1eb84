package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
	"intellisheet/internal/normalizer"
	"intellisheet/internal/parser"
	"intellisheet/internal/store"
)

func writeTimesheet(t *testing.T, dir, name, title, employee string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Foglio1"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	_ = f.SetCellValue(sheet, "A1", title)
	_ = f.SetCellValue(sheet, "Q2", employee)
	header := []interface{}{"Data", "Descrizione Attività svolta"}
	if err := f.SetSheetRow(sheet, "A5", &header); err != nil {
		t.Fatalf("set header: %v", err)
	}
	for i, row := range rows {
		row := row
		cell, _ := excelize.CoordinatesToCellName(1, 6+i)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func newTestCoordinator(st *store.Store) *Coordinator {
	return NewCoordinator(st, normalizer.New(normalizer.DefaultVocabulary()), parser.DefaultOptions(), zerolog.Nop())
}

func collectEvents(ch <-chan ProgressEvent) []ProgressEvent {
	var events []ProgressEvent
	for evt := range ch {
		events = append(events, evt)
	}
	return events
}

func TestImport_BatchContinuesAfterDocumentError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := writeTimesheet(t, dir, "rossi.xlsx", "Mese di GIUGNO 2025", "Rossi Mario", [][]interface{}{
		{2, "6h_Propa (834), 2h_AttivitàInterne"},
		{3, "8h_ecumsi projct"},
		{"x", "8h_Propa"},
	})
	noPeriod := writeTimesheet(t, dir, "bianchi.xlsx", "Riepilogo", "Bianchi Anna", [][]interface{}{
		{2, "8h_Propa"},
	})
	jsonDoc := filepath.Join(dir, "Verdi_Luca.json")
	if err := os.WriteFile(jsonDoc, []byte(`{"01/07/2025": [["Digital_Innovation", 8.0]]}`), 0644); err != nil {
		t.Fatalf("write json: %v", err)
	}

	st := newTestStore(t)
	events := collectEvents(newTestCoordinator(st).Import(ImportOptions{
		Files: []string{good, noPeriod, jsonDoc},
		Reset: true,
	}))

	last := events[len(events)-1]
	if last.Type != "done" {
		t.Fatalf("last event=%s (%s)", last.Type, last.Message)
	}
	report, ok := last.Data.(*parser.ImportReport)
	if !ok {
		t.Fatalf("unexpected report type: %T", last.Data)
	}
	if report.TotalFiles != 3 || report.ImportedFiles != 2 || report.FailedFiles != 1 || report.Aborted {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.ImportedRows != 4 || report.SkippedRows != 1 {
		t.Fatalf("rows imported=%d skipped=%d", report.ImportedRows, report.SkippedRows)
	}
	if report.Files[1].Status != StatusError || len(report.Files[1].Errors) == 0 {
		t.Fatalf("bianchi.xlsx should fail: %+v", report.Files[1])
	}

	totals, err := st.EmployeeTotals()
	if err != nil {
		t.Fatalf("EmployeeTotals: %v", err)
	}
	got := map[string]int{}
	for _, tot := range totals {
		got[tot.LastName] = tot.TotalHours
	}
	if len(got) != 2 || got["Rossi"] != 16 || got["Verdi"] != 8 {
		t.Fatalf("unexpected totals: %v", got)
	}

	rows, _ := st.ListTimesheet(store.TimesheetQueryOptions{Project: "EcuMSI Project"})
	if len(rows) != 1 {
		t.Fatalf("fuzzy-matched label should land on EcuMSI Project: %+v", rows)
	}

	logs, err := st.ListImportLogs(report.RunID, 0)
	if err != nil {
		t.Fatalf("ListImportLogs: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("import logs=%d, want 3", len(logs))
	}
	if runID, _ := st.GetSetting(store.SettingLastRunID); runID != report.RunID {
		t.Fatalf("last run id=%q, want %q", runID, report.RunID)
	}
}

func TestRun_ResetPreventsDuplicateFacts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeTimesheet(t, dir, "rossi.xlsx", "Mese di GIUGNO 2025", "Rossi Mario", [][]interface{}{
		{2, "6h_Propa (834), 2h_AttivitàInterne"},
	})

	st := newTestStore(t)
	c := newTestCoordinator(st)

	for i := 0; i < 2; i++ {
		if _, err := c.Run(ImportOptions{Files: []string{path}, Reset: true}); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	if n, _ := st.CountTimesheet(store.TimesheetQueryOptions{}); n != 2 {
		t.Fatalf("facts after reset runs=%d, want 2", n)
	}

	// 不清空时重复导入会追加重复事实
	if _, err := c.Run(ImportOptions{Files: []string{path}}); err != nil {
		t.Fatalf("run without reset: %v", err)
	}
	if n, _ := st.CountTimesheet(store.TimesheetQueryOptions{}); n != 4 {
		t.Fatalf("facts after append run=%d, want 4", n)
	}
	projects, _ := st.ListProjects()
	if len(projects) != 2 {
		t.Fatalf("dimensions must not duplicate: %+v", projects)
	}
}

func TestImport_AbortsOnStoreFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeTimesheet(t, dir, "rossi.xlsx", "Mese di GIUGNO 2025", "Rossi Mario", [][]interface{}{
		{2, "8h_Propa"},
	})

	st := newTestStore(t)
	c := newTestCoordinator(st)
	_ = st.Close()

	report, err := c.Run(ImportOptions{Files: []string{path, path}})
	if err == nil {
		t.Fatalf("expected abort error")
	}
	if report == nil || !report.Aborted || len(report.Files) != 1 {
		t.Fatalf("batch should stop after the first store failure: %+v", report)
	}
}

func TestReadDocumentFile_JSONPairs(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "doc.json")
	body := `{"03/06/2025": [["Propa (834)", 6], ["AttivitàInterne", 2]]}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write json: %v", err)
	}

	doc, err := ReadDocumentFile(path)
	if err != nil {
		t.Fatalf("ReadDocumentFile: %v", err)
	}
	acts := doc["03/06/2025"]
	if len(acts) != 2 || acts[0].Label != "Propa (834)" || acts[0].Hours != 6 || acts[1].Hours != 2 {
		t.Fatalf("unexpected document: %+v", doc)
	}

	if err := os.WriteFile(path, []byte(`{"03/06/2025": [["Propa"]]}`), 0644); err != nil {
		t.Fatalf("write json: %v", err)
	}
	if _, err := ReadDocumentFile(path); err == nil {
		t.Fatalf("malformed pair should fail")
	}
}
