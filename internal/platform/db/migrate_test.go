package db

import (
	"strings"
	"testing"
	"testing/fstest"
)

func TestLoadMigrations(t *testing.T) {
	source := fstest.MapFS{
		"002_audit.sql":    {Data: []byte("CREATE TABLE a (id INT);")},
		"001_sessions.sql": {Data: []byte("CREATE TABLE s (id INT);")},
		"010_later.sql":    {Data: []byte("SELECT 1;")},
	}

	migrations, err := NewMigrator(nil, source).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(migrations) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migrations))
	}

	wantVersions := []int{1, 2, 10}
	for i, want := range wantVersions {
		if migrations[i].Version != want {
			t.Errorf("migration %d: expected version %d, got %d", i, want, migrations[i].Version)
		}
	}
	if migrations[0].Name != "001_sessions.sql" {
		t.Errorf("expected name 001_sessions.sql, got %s", migrations[0].Name)
	}
	if migrations[0].SQL != "CREATE TABLE s (id INT);" {
		t.Errorf("unexpected SQL content: %s", migrations[0].SQL)
	}
}

func TestLoadMigrations_SkipsInvalidNames(t *testing.T) {
	source := fstest.MapFS{
		"001_ok.sql":         {Data: []byte("SELECT 1;")},
		"readme.md":          {Data: []byte("notes")},
		"nounderscore.sql":   {Data: []byte("SELECT 2;")},
		"abc_notnumber.sql":  {Data: []byte("SELECT 3;")},
		"sub/003_nested.sql": {Data: []byte("SELECT 4;")},
	}

	migrations, err := NewMigrator(nil, source).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(migrations) != 1 {
		t.Fatalf("expected 1 migration, got %d", len(migrations))
	}
}

func TestLoadMigrations_DuplicateVersion(t *testing.T) {
	source := fstest.MapFS{
		"001_a.sql": {Data: []byte("SELECT 1;")},
		"01_b.sql":  {Data: []byte("SELECT 2;")},
	}

	_, err := NewMigrator(nil, source).Load()
	if err == nil || !strings.Contains(err.Error(), "duplicate migration version 1") {
		t.Fatalf("expected duplicate version error, got %v", err)
	}
}

func TestLoadMigrations_Empty(t *testing.T) {
	migrations, err := NewMigrator(nil, fstest.MapFS{}).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(migrations) != 0 {
		t.Errorf("expected no migrations, got %d", len(migrations))
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	migrations, err := NewMigrator(nil, Migrations()).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(migrations) < 2 {
		t.Fatalf("expected embedded migrations, got %d", len(migrations))
	}
	if !strings.Contains(migrations[0].SQL, "console_sessions") {
		t.Errorf("first migration should create console_sessions")
	}
	if !strings.Contains(migrations[1].SQL, "console_audit") {
		t.Errorf("second migration should create console_audit")
	}
}
