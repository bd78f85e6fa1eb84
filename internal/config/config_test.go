package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigWithInfo_MissingFileUsesDefaults(t *testing.T) {
	cfg, info, err := LoadConfigWithInfo(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadConfigWithInfo: %v", err)
	}
	if info.Path != "" || info.PortSpecified {
		t.Fatalf("unexpected info: %+v", info)
	}
	if cfg.Import.SheetName != "Foglio1" || cfg.Import.NameCell != "Q2" || cfg.Import.HeaderRow != 5 || !cfg.Import.ResetBeforeBatch {
		t.Fatalf("unexpected import defaults: %+v", cfg.Import)
	}
}

func TestLoadConfigWithInfo_VocabularyAndOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[server]
port = 8088

[data]
data_dir = "/srv/intellisheet"

[import]
header_row = 6
reset_before_batch = false

[vocabulary]
canonical_projects = ["Hackathon"]
fuzzy_threshold = 0.85

[vocabulary.aliases]
"hack-a-thon" = "Hackathon"

[logging]
level = "debug"
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("INTELLISHEET_LOG_LEVEL", "warn")

	cfg, info, err := LoadConfigWithInfo(path)
	if err != nil {
		t.Fatalf("LoadConfigWithInfo: %v", err)
	}
	if !info.PortSpecified || info.Path != path || cfg.Server.Port != 8088 {
		t.Fatalf("unexpected server/info: %+v %+v", cfg.Server, info)
	}
	if cfg.Import.HeaderRow != 6 || cfg.Import.ResetBeforeBatch || cfg.Import.SheetName != "Foglio1" {
		t.Fatalf("unexpected import config: %+v", cfg.Import)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("env override not applied: %q", cfg.Logging.Level)
	}
	if got := DBPath(cfg); got != filepath.Join("/srv/intellisheet", "intellisheet.db") {
		t.Fatalf("DBPath=%s", got)
	}

	vocab := cfg.VocabularyOrDefault()
	if vocab.Aliases["hack-a-thon"] != "Hackathon" || vocab.Aliases["propa"] != "Propa" {
		t.Fatalf("aliases not merged: %v", vocab.Aliases)
	}
	if vocab.Canonical[len(vocab.Canonical)-1] != "Hackathon" || vocab.Threshold != 0.85 {
		t.Fatalf("unexpected vocabulary: %+v", vocab)
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	cfg.Server.Port = 9000
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Server.Port != 9000 || loaded.Data.DBFile != "intellisheet.db" {
		t.Fatalf("unexpected config: %+v", loaded)
	}
}
