package parser

import "testing"

func TestExtractPeriod(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text string
		want Period
		ok   bool
	}{
		{"Mese di GIUGNO 2025", Period{Year: 2025, Month: 6}, true},
		{"  mese di dicembre   2024 ", Period{Year: 2024, Month: 12}, true},
		{"Timesheet - Mese di Gennaio 2026 (bozza)", Period{Year: 2026, Month: 1}, true},
		{"Mese di JUNE 2025", Period{}, false},
		{"GIUGNO 2025", Period{}, false},
	}
	for _, c := range cases {
		got, ok := ExtractPeriod(c.text)
		if ok != c.ok || got != c.want {
			t.Fatalf("ExtractPeriod(%q)=%+v,%v want %+v,%v", c.text, got, ok, c.want, c.ok)
		}
	}
}

func TestFindPeriod_OnlyFirstRows(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"APM Tech"},
		{"", "Mese di MARZO 2025"},
	}
	if got, ok := FindPeriod(rows, 5); !ok || got != (Period{Year: 2025, Month: 3}) {
		t.Fatalf("unexpected period: %+v %v", got, ok)
	}

	late := make([][]string, 6)
	late[5] = []string{"Mese di MARZO 2025"}
	if _, ok := FindPeriod(late, 5); ok {
		t.Fatalf("period after row 5 should be ignored")
	}
}

func TestPeriodDaysIn(t *testing.T) {
	t.Parallel()

	if d := (Period{Year: 2024, Month: 2}).DaysIn(); d != 29 {
		t.Fatalf("Feb 2024 days=%d", d)
	}
	if d := (Period{Year: 2025, Month: 6}).DaysIn(); d != 30 {
		t.Fatalf("Jun 2025 days=%d", d)
	}
}

func TestParseEmployeeName(t *testing.T) {
	t.Parallel()

	got, ok := ParseEmployeeName("  Rossi   Mario Luigi ")
	if !ok || got.LastName != "Rossi" || got.FirstName != "Mario Luigi" {
		t.Fatalf("unexpected name: %+v %v", got, ok)
	}

	got, ok = ParseEmployeeName("Bianchi")
	if !ok || got.LastName != "Bianchi" || got.FirstName != "" {
		t.Fatalf("unexpected single token name: %+v %v", got, ok)
	}

	// 多段姓氏按第一个词切分
	got, _ = ParseEmployeeName("De Luca Anna")
	if got.LastName != "De" || got.FirstName != "Luca Anna" {
		t.Fatalf("unexpected multi-part surname split: %+v", got)
	}

	if _, ok := ParseEmployeeName("   "); ok {
		t.Fatalf("blank cell should not identify an employee")
	}
}

func TestNormalizeColumnName(t *testing.T) {
	t.Parallel()

	if got := NormalizeColumnName(" Descrizione\nAttività   svolta "); got != "descrizione attività svolta" {
		t.Fatalf("got %q", got)
	}
}

func TestMapColumns(t *testing.T) {
	t.Parallel()

	m := MapColumns([]string{"Giorno sett.", "Data", "Ore", "Descrizione\nAttività svolta", "Note"})
	if m.DateCol != 1 || m.ActivityCol != 3 {
		t.Fatalf("unexpected mapping: %+v", m)
	}

	m = MapColumns([]string{"Nome", "Cognome"})
	if m.Found() {
		t.Fatalf("mapping should not be found: %+v", m)
	}
}
