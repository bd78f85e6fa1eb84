package importer

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDiscoverFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"verdi.xlsx", "~$verdi.xlsx", "bianchi.JSON", ".hidden.xlsx", "note.txt", "rossi.xlsx"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "old.xlsx"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := DiscoverFiles(dir)
	if err != nil {
		t.Fatalf("DiscoverFiles: %v", err)
	}
	want := []string{
		filepath.Join(dir, "bianchi.JSON"),
		filepath.Join(dir, "rossi.xlsx"),
		filepath.Join(dir, "verdi.xlsx"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DiscoverFiles=%v, want %v", got, want)
	}

	if _, err := DiscoverFiles(filepath.Join(dir, "missing")); err == nil {
		t.Fatalf("missing directory should fail")
	}
}
