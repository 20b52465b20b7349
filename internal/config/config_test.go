package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()
	if err := LoadConfig(t.TempDir()); err != nil {
		t.Fatalf("LoadConfig with no file: %v", err)
	}

	if AppConfig.Server.Port != 8080 {
		t.Errorf("default port = %d, want 8080", AppConfig.Server.Port)
	}
	if AppConfig.Paths.DataCSV != "data/sample_data.csv" {
		t.Errorf("default data_csv = %q", AppConfig.Paths.DataCSV)
	}
	if AppConfig.Paths.AccelLog != "data/downward_acceleration_points.csv" {
		t.Errorf("default accel_log = %q", AppConfig.Paths.AccelLog)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  port: 9000
paths:
  data_csv: /srv/volts.csv
auth:
  api_keys:
    - abc123
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	viper.Reset()
	if err := LoadConfig(dir); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if AppConfig.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000", AppConfig.Server.Port)
	}
	if AppConfig.Paths.DataCSV != "/srv/volts.csv" {
		t.Errorf("data_csv = %q, want /srv/volts.csv", AppConfig.Paths.DataCSV)
	}
	if len(AppConfig.Auth.APIKeys) != 1 || AppConfig.Auth.APIKeys[0] != "abc123" {
		t.Errorf("api_keys = %v", AppConfig.Auth.APIKeys)
	}
}
