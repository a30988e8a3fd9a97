package database

import (
	"context"
	"testing"
)

func TestHealthDisabledBackends(t *testing.T) {
	status := Health(context.Background(), nil, nil)
	if status["postgres"] != "disabled" || status["redis"] != "disabled" {
		t.Fatalf("unexpected status %v", status)
	}
	if !Healthy(status) {
		t.Fatal("disabled backends should be healthy")
	}
}

func TestHealthy(t *testing.T) {
	if Healthy(map[string]string{"postgres": "ok", "redis": "down"}) {
		t.Fatal("expected unhealthy")
	}
}

func TestMigrationFilesEmbedded(t *testing.T) {
	entries, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("no migrations embedded")
	}
}
