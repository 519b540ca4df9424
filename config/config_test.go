package config

import (
	"encoding/json"
	"os"
	"testing"
)

func TestValidateAndAddDefaults(t *testing.T) {
	cnf := Configuration{
		ProjectName: "",
		DataSource:  DataSourceConfig{Dns: ""},
	}

	err := cnf.validateAndAddDefaults()
	if err == nil || err.Error() != "data source DNS is required" {
		t.Errorf("Expected data source DNS required error, got %v", err)
	}

	cnf = Configuration{
		ProjectName: "Test Project",
		DataSource:  DataSourceConfig{Dns: "some-dns"},
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if cnf.Server.Port != DEFAULT_PORT {
		t.Errorf("Expected default port %s, got %s", DEFAULT_PORT, cnf.Server.Port)
	}
	if cnf.JobStore.Backend != "postgres" {
		t.Errorf("Expected default job store backend postgres, got %s", cnf.JobStore.Backend)
	}
	if cnf.Validation.DiscrepancyLimit != DefaultDiscrepancyLimit {
		t.Errorf("Expected default discrepancy limit %d, got %d", DefaultDiscrepancyLimit, cnf.Validation.DiscrepancyLimit)
	}

	cnf = Configuration{
		ProjectName: "Test Project",
		DataSource:  DataSourceConfig{Dns: "some-dns"},
		JobStore:    JobStoreConfig{Backend: "redis"},
	}

	err = cnf.validateAndAddDefaults()
	if err == nil || err.Error() != "redis DNS is required for the redis job store" {
		t.Errorf("Expected redis DNS required error, got %v", err)
	}

	cnf.Redis.Dns = "localhost:6379"
	err = cnf.validateAndAddDefaults()
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	cnf.JobStore.Backend = "csv"
	err = cnf.validateAndAddDefaults()
	if err == nil {
		t.Error("Expected error for unknown job store backend, got nil")
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "ledgerload.json")
	if err != nil {
		t.Fatalf("Unable to create temporary file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	sampleConfig := Configuration{
		ProjectName: "Temp Project",
		DataSource:  DataSourceConfig{Dns: "temp-dns"},
	}
	if err := json.NewEncoder(tmpFile).Encode(sampleConfig); err != nil {
		t.Fatalf("Unable to write to temporary file: %v", err)
	}
	tmpFile.Close()

	os.Setenv("LEDGERLOAD_PROJECT_NAME", "Env Project")
	defer os.Unsetenv("LEDGERLOAD_PROJECT_NAME")

	if err := loadConfigFromFile(tmpFile.Name()); err != nil {
		t.Fatalf("loadConfigFromFile returned error: %v", err)
	}

	cnf, err := Fetch()
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if cnf.ProjectName != "Env Project" {
		t.Errorf("Expected env override 'Env Project', got %s", cnf.ProjectName)
	}
	if cnf.DataSource.Dns != "temp-dns" {
		t.Errorf("Expected dns from file 'temp-dns', got %s", cnf.DataSource.Dns)
	}
}
