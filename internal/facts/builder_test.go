package facts

import (
	"reflect"
	"testing"

	"intellisheet/internal/model"
	"intellisheet/internal/normalizer"
)

func TestBuild_OrderAndNormalization(t *testing.T) {
	t.Parallel()

	doc := model.Document{
		"10/06/2025": {{Label: "EcuMSI Project", Hours: 8}},
		"03/06/2025": {{Label: "Propa (834)", Hours: 6}, {Label: "Attività_Interne", Hours: 2}},
		"01/07/2025": {{Label: "Riunione__cliente", Hours: 1}},
	}
	rows := Build(doc, normalizer.New(normalizer.DefaultVocabulary()))

	want := []model.FactRow{
		{Date: "2025-06-03", Project: "Propa", ContractCode: "834", Hours: 6},
		{Date: "2025-06-03", Project: "AttivitàInterne", Hours: 2},
		{Date: "2025-06-10", Project: "EcuMSI Project", Hours: 8},
		{Date: "2025-07-01", Project: "Riunione_cliente", Hours: 1},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("Build=%+v, want %+v", rows, want)
	}
}

func TestBuild_NoDeduplication(t *testing.T) {
	t.Parallel()

	doc := model.Document{
		"02/06/2025": {{Label: "Propa", Hours: 4}, {Label: "Propa", Hours: 4}},
	}
	rows := Build(doc, normalizer.New(normalizer.DefaultVocabulary()))
	if len(rows) != 2 {
		t.Fatalf("rows=%d, want 2", len(rows))
	}
	if rows[0] != rows[1] {
		t.Fatalf("identical activities should produce identical rows: %+v", rows)
	}
	if rows[0].StoredCode() != model.NoContractCode {
		t.Fatalf("stored code=%q", rows[0].StoredCode())
	}
}

func TestBuild_UnpaddedDateKeys(t *testing.T) {
	t.Parallel()

	doc := model.Document{
		"10/06/2025": {{Label: "Propa", Hours: 8}},
		"3/6/2025":   {{Label: "Propa", Hours: 2}},
	}
	rows := Build(doc, normalizer.New(normalizer.DefaultVocabulary()))
	if len(rows) != 2 || rows[0].Date != "2025-06-03" || rows[1].Date != "2025-06-10" {
		t.Fatalf("rows=%+v, want 2025-06-03 then 2025-06-10", rows)
	}
}

func TestBuild_EmptyDocument(t *testing.T) {
	t.Parallel()

	if rows := Build(model.Document{}, normalizer.New(normalizer.DefaultVocabulary())); len(rows) != 0 {
		t.Fatalf("rows=%+v", rows)
	}
}

func TestToISODate(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"03/06/2025": "2025-06-03",
		"3/6/2025":   "2025-06-03",
		"10/6/2025":  "2025-06-10",
		"1/12/2025":  "2025-12-01",
		"2025-06-03": "2025-06-03",
		"31/02/2025": "31/02/2025",
		"":           "",
	}
	for in, want := range cases {
		if got := ToISODate(in); got != want {
			t.Fatalf("ToISODate(%q)=%q, want %q", in, got, want)
		}
	}
}
