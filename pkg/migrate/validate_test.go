package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeMigration(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

const wellFormedSQL = "-- +goose Up\nCREATE TABLE t (id int);\n-- +goose Down\nDROP TABLE t;\n"

func TestValidateDirAcceptsWellFormedFiles(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "20250301000000_init.sql", wellFormedSQL)
	writeMigration(t, dir, "20250302000000_add_notes.sql", wellFormedSQL)

	if err := ValidateDir(dir); err != nil {
		t.Fatalf("expected valid dir, got %v", err)
	}
}

func TestValidateDirRejectsBadFilename(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "001_init.sql", wellFormedSQL)

	err := ValidateDir(dir)
	if err == nil {
		t.Fatal("expected filename error")
	}
	if !strings.Contains(err.Error(), "invalid migration filename") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateDirRejectsDuplicateVersions(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "20250301000000_init.sql", wellFormedSQL)
	writeMigration(t, dir, "20250301000000_other_thing.sql", wellFormedSQL)

	err := ValidateDir(dir)
	if err == nil {
		t.Fatal("expected duplicate version error")
	}
	if !strings.Contains(err.Error(), "duplicate migration version") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateDirRequiresGooseHeaders(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "20250301000000_init.sql", "CREATE TABLE t (id int);\n")

	if err := ValidateDir(dir); err == nil {
		t.Fatal("expected missing goose header error")
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateSQLMigration(dir, "Add Quote Expiry!")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("migration created outside dir: %s", path)
	}
	base := filepath.Base(path)
	if !sqlFileRe.MatchString(base) {
		t.Fatalf("generated filename %q does not match convention", base)
	}
	if !strings.Contains(base, "add_quote_expiry") {
		t.Fatalf("name not sanitized as expected: %q", base)
	}

	if err := ValidateDir(dir); err != nil {
		t.Fatalf("generated migration should validate, got %v", err)
	}
}

func TestCreateSQLMigrationRejectsEmptyName(t *testing.T) {
	if _, err := CreateSQLMigration(t.TempDir(), "   "); err == nil {
		t.Fatal("expected empty name error")
	}
}
