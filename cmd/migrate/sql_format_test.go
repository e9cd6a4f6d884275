package main

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"locallibrary/internal/bookinstance"
)

func readMigrations(t *testing.T) map[string]string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	dir := filepath.Join(filepath.Dir(thisFile), "..", "..", "db", "migrations")

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir(%s): %v", dir, err)
	}
	files := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			t.Fatalf("ReadFile(%s): %v", e.Name(), err)
		}
		files[e.Name()] = string(b)
	}
	return files
}

func TestSQLMigrations_HaveGooseDirectives(t *testing.T) {
	for name, s := range readMigrations(t) {
		if !strings.Contains(s, "-- +goose Up") {
			t.Fatalf("%s missing '-- +goose Up'", name)
		}
		if !strings.Contains(s, "-- +goose Down") {
			t.Fatalf("%s missing '-- +goose Down'", name)
		}
	}
}

// The status CHECK constraint must accept exactly the codes the Go enum
// writes, or inserts fail at runtime.
func TestSQLMigrations_StatusCheckMatchesEnum(t *testing.T) {
	s, ok := readMigrations(t)["00003_book_instances.sql"]
	if !ok {
		t.Fatal("00003_book_instances.sql not found")
	}
	start := strings.Index(s, "CONSTRAINT book_instances_status_check")
	if start < 0 {
		t.Fatal("book_instances_status_check constraint missing")
	}
	check := s[start:]
	check = check[:strings.Index(check, "))")+2]

	for _, st := range bookinstance.Statuses() {
		if !strings.Contains(check, "'"+st.String()+"'") {
			t.Fatalf("status check does not allow %q: %s", st, check)
		}
	}
	if n := strings.Count(check, "'"); n != 2*len(bookinstance.Statuses()) {
		t.Fatalf("status check lists %d codes, want %d", n/2, len(bookinstance.Statuses()))
	}
}

func TestSQLMigrations_LoanForeignKeysSetNull(t *testing.T) {
	s := readMigrations(t)["00003_book_instances.sql"]
	for _, fk := range []string{
		"book_instances_book_id_fkey",
		"book_instances_language_id_fkey",
		"book_instances_borrower_id_fkey",
	} {
		i := strings.Index(s, fk)
		if i < 0 {
			t.Fatalf("%s missing", fk)
		}
		line := s[i:]
		line = line[:strings.Index(line, "\n")]
		if !strings.Contains(line, "ON DELETE SET NULL") {
			t.Fatalf("%s should be ON DELETE SET NULL: %s", fk, line)
		}
	}
}
