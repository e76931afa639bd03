package history

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournalRecordAndList(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)

	entries := []*Entry{
		{Source: "cli", Operation: "hill_encrypt", InputLen: 4, OutputLen: 4, Duration: 150 * time.Microsecond},
		{Source: "rpc", Operation: "hill_decrypt", InputLen: 3, Outcome: OutcomeError, ErrorKind: "malformed_input"},
		{Source: "cli", Operation: "railfence_encrypt", InputLen: 25, OutputLen: 25},
	}
	for _, e := range entries {
		if err := j.Record(ctx, e); err != nil {
			t.Fatalf("Record: %v", err)
		}
		if e.ID == "" || e.Timestamp.IsZero() {
			t.Fatalf("Record should assign ID and timestamp, got %+v", e)
		}
	}

	got, err := j.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	if got[0].Operation != "railfence_encrypt" || got[2].Operation != "hill_encrypt" {
		t.Fatalf("expected newest first, got %s..%s", got[0].Operation, got[2].Operation)
	}
	if got[2].Outcome != OutcomeOK {
		t.Errorf("default outcome should be ok, got %q", got[2].Outcome)
	}
	if got[2].Duration != 150*time.Microsecond {
		t.Errorf("expected duration to round trip, got %s", got[2].Duration)
	}
	if got[1].ErrorKind != "malformed_input" {
		t.Errorf("expected error kind, got %q", got[1].ErrorKind)
	}

	limited, err := j.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(limited))
	}
}

func TestJournalSearch(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)

	for _, e := range []*Entry{
		{Source: "cli", Operation: "hill_encrypt"},
		{Source: "rpc", Operation: "hill_decrypt", Outcome: OutcomeError, ErrorKind: "not_invertible"},
		{Source: "rpc", Operation: "vigenere_encrypt"},
	} {
		if err := j.Record(ctx, e); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	tests := []struct {
		query string
		want  int
	}{
		{"", 3},
		{"op:hill", 2},
		{"source:rpc", 2},
		{"op:hill source:rpc", 1},
		{"outcome:ERROR", 1},
		{"error:not_invertible", 1},
		{"op:playfair", 0},
	}
	for _, tt := range tests {
		got, err := j.Search(ctx, tt.query, 0)
		if err != nil {
			t.Fatalf("Search(%q): %v", tt.query, err)
		}
		if len(got) != tt.want {
			t.Errorf("Search(%q) returned %d entries, want %d", tt.query, len(got), tt.want)
		}
	}

	for _, bad := range []string{"hill", "op:", "outcome:maybe", "plaintext:x"} {
		if _, err := j.Search(ctx, bad, 0); err == nil {
			t.Errorf("Search(%q) should fail", bad)
		}
	}
}

func TestJournalSummarizeAndPrune(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)

	old := time.Now().Add(-48 * time.Hour)
	for _, e := range []*Entry{
		{Source: "cli", Operation: "playfair_encrypt", Timestamp: old},
		{Source: "cli", Operation: "playfair_encrypt"},
		{Source: "cli", Operation: "playfair_decrypt", Outcome: OutcomeError},
	} {
		if err := j.Record(ctx, e); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	stats, err := j.Summarize(ctx)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 operations, got %+v", stats)
	}
	if stats[0].Operation != "playfair_decrypt" || stats[0].Errors != 1 || stats[0].OK != 0 {
		t.Errorf("unexpected decrypt stats %+v", stats[0])
	}
	if stats[1].Operation != "playfair_encrypt" || stats[1].OK != 2 {
		t.Errorf("unexpected encrypt stats %+v", stats[1])
	}

	removed, err := j.Prune(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 entry pruned, got %d", removed)
	}
	remaining, _ := j.List(ctx, 0)
	if len(remaining) != 2 {
		t.Fatalf("expected 2 entries after prune, got %d", len(remaining))
	}
}

func TestJournalReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	j, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := j.Record(ctx, &Entry{Source: "cli", Operation: "row_column_encrypt"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	j.Close()

	j, err = Open(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer j.Close()
	got, err := j.List(ctx, 0)
	if err != nil || len(got) != 1 {
		t.Fatalf("expected persisted entry, got %d (%v)", len(got), err)
	}
}

func TestJournalValidation(t *testing.T) {
	if _, err := Open("  ", nil); err == nil {
		t.Fatal("expected error for empty path")
	}
	j := openTestJournal(t)
	err := j.Record(context.Background(), &Entry{})
	if err == nil || !strings.Contains(err.Error(), "operation") {
		t.Fatalf("expected missing operation error, got %v", err)
	}
}
