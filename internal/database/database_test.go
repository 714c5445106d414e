package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/config"
)

// Every connection the pool opens must carry the SQLite settings, not
// just the one that happened to be checked out at Init time.
func TestInit_SettingsApplyToAllPooledConnections(t *testing.T) {
	cfg := config.DatabaseConfig{
		Path: filepath.Join(t.TempDir(), "database_test.db"),
	}
	db, err := Init(cfg)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB() error = %v", err)
	}
	defer sqlDB.Close()

	ctx := context.Background()
	// holding both at once forces the pool to open two distinct
	// connections
	conn1, err := sqlDB.Conn(ctx)
	if err != nil {
		t.Fatalf("conn 1: %v", err)
	}
	defer conn1.Close()
	conn2, err := sqlDB.Conn(ctx)
	if err != nil {
		t.Fatalf("conn 2: %v", err)
	}
	defer conn2.Close()

	var fk1, fk2 int
	if err := conn1.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk1); err != nil {
		t.Fatalf("query foreign_keys on conn 1: %v", err)
	}
	if err := conn2.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk2); err != nil {
		t.Fatalf("query foreign_keys on conn 2: %v", err)
	}
	if fk1 != 1 || fk2 != 1 {
		t.Errorf("foreign_keys = conn1:%d conn2:%d, want 1 on both", fk1, fk2)
	}

	var bt1, bt2 int
	if err := conn1.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&bt1); err != nil {
		t.Fatalf("query busy_timeout on conn 1: %v", err)
	}
	if err := conn2.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&bt2); err != nil {
		t.Fatalf("query busy_timeout on conn 2: %v", err)
	}
	if bt1 != 5000 || bt2 != 5000 {
		t.Errorf("busy_timeout = conn1:%d conn2:%d, want 5000 on both", bt1, bt2)
	}
}
