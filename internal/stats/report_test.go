package stats

import (
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/derdiedas/internal/gender"
	"github.com/verte-zerg/derdiedas/internal/model"
	"github.com/verte-zerg/derdiedas/internal/wordtable"
)

func TestHardestWordsOrdersByWeight(t *testing.T) {
	table, err := wordtable.New(gender.Default(), 2)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := table.Insert(wordtable.Record{Word: "Leicht", Gender: "neuter", Correct: 9, Wrong: 1}); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	if err := table.Insert(wordtable.Record{Word: "Schwer", Gender: "masculine", Correct: 1, Wrong: 9}); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}

	rows := HardestWords(table, 2)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Word != "Schwer" || rows[0].Article != "der" {
		t.Fatalf("unexpected hardest row: %+v", rows[0])
	}
	if rows[1].Word != "Leicht" {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}
}

func TestSortMissedWordsDropsCleanWords(t *testing.T) {
	aggs := []model.WordAggregate{
		{Word: "Hund", Correct: 3, Incorrect: 0},
		{Word: "Katze", Correct: 1, Incorrect: 2},
		{Word: "Haus", Correct: 0, Incorrect: 4},
	}
	sorted := SortMissedWords(aggs, 10)
	if len(sorted) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(sorted))
	}
	if sorted[0].Word != "Haus" || sorted[1].Word != "Katze" {
		t.Fatalf("unexpected order: %v", sorted)
	}
}

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Word", "Correct", "Wrong"}
	rows := [][]string{
		{"Hund", "12", "3"},
		{"Fernseher", "2", "10"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Word      Correct Wrong" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "Hund           12     3" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Fernseher       2    10" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestRenderTruncatesToWidth(t *testing.T) {
	report := Report{
		Sessions: []model.SessionAggregate{
			{SessionID: 1, EndedAt: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC), Mode: model.ModeFixed, Answered: 10, Correct: 7, DurationMs: 90000},
		},
	}
	lines := Render(report, 12)
	for _, line := range lines {
		if n := len([]rune(line)); n > 12 {
			t.Fatalf("line %q exceeds width: %d runes", line, n)
		}
	}
	if !strings.HasPrefix(lines[0], "Sessions") {
		t.Fatalf("unexpected first line: %q", lines[0])
	}
}
