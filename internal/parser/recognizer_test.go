package parser

import "testing"

func TestRecognize_ConfiguredHeaderRow(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"APM Tech S.r.l."},
		{"", "Mese di GIUGNO 2025"},
		{},
		{},
		{"Data", "Giorno", "Descrizione Attività svolta"},
		{"2", "lun", "8h_Propa (834)"},
	}
	res := NewSheetRecognizer("Foglio1", 5).Recognize("Foglio1", rows)
	if res.HeaderRow != 5 {
		t.Fatalf("header row=%d, want 5", res.HeaderRow)
	}
	if res.Columns.DateCol != 0 || res.Columns.ActivityCol != 2 {
		t.Fatalf("unexpected columns: %+v", res.Columns)
	}
	if res.Period != (Period{Year: 2025, Month: 6}) {
		t.Fatalf("unexpected period: %+v", res.Period)
	}
	if res.Confidence != 1 {
		t.Fatalf("confidence=%v, want 1", res.Confidence)
	}
}

func TestRecognize_ScansWhenHeaderMoved(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"Mese di LUGLIO 2025"},
		{"Data", "Descrizione Attività svolta"},
		{"1", "8h_Propa"},
	}
	res := NewSheetRecognizer("", 5).Recognize("Sheet1", rows)
	if res.HeaderRow != 2 || !res.Columns.Found() {
		t.Fatalf("unexpected recognition: %+v", res)
	}
}

func TestRecognize_NoHeader(t *testing.T) {
	t.Parallel()

	res := NewSheetRecognizer("", 5).Recognize("Riepilogo", [][]string{{"Totale", "160"}})
	if res.Columns.Found() || res.Confidence != 0 || res.HeaderRow != 0 {
		t.Fatalf("unexpected recognition: %+v", res)
	}
}
