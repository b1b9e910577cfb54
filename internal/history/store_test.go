package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/derdiedas/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close returned error: %v", err)
		}
	})
	return store
}

func insertTestSession(t *testing.T, store *Store, list string, endedAt time.Time, words []model.WordStats) int64 {
	t.Helper()
	stats := model.SessionStats{
		StartedAt:  endedAt.Add(-time.Minute),
		EndedAt:    endedAt,
		List:       list,
		Mode:       model.ModeFixed,
		Answered:   5,
		Correct:    3,
		DurationMs: 60000,
	}
	id, err := store.InsertSession(context.Background(), stats, words)
	if err != nil {
		t.Fatalf("InsertSession returned error: %v", err)
	}
	return id
}

func TestInsertAndListSessions(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	insertTestSession(t, store, "main_list", base, nil)
	insertTestSession(t, store, "animals", base.Add(time.Hour), nil)

	all, err := store.ListSessions(context.Background(), model.StatsConfig{})
	if err != nil {
		t.Fatalf("ListSessions returned error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(all))
	}
	if !all[0].EndedAt.Before(all[1].EndedAt) {
		t.Fatalf("sessions not ordered by ended_at")
	}
	if all[0].Answered != 5 || all[0].Correct != 3 || all[0].Mode != model.ModeFixed {
		t.Fatalf("unexpected aggregate: %+v", all[0])
	}

	filtered, err := store.ListSessions(context.Background(), model.StatsConfig{List: "animals"})
	if err != nil {
		t.Fatalf("ListSessions returned error: %v", err)
	}
	if len(filtered) != 1 {
		t.Fatalf("expected 1 filtered session, got %d", len(filtered))
	}
}

func TestGetMissedWordsWindow(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	insertTestSession(t, store, "main_list", base, []model.WordStats{
		{Word: "Hund", Correct: 1, Incorrect: 2},
	})
	insertTestSession(t, store, "main_list", base.Add(time.Hour), []model.WordStats{
		{Word: "Hund", Correct: 0, Incorrect: 1},
		{Word: "Katze", Correct: 2, Incorrect: 0},
	})

	aggs, err := store.GetMissedWords(context.Background(), 2, "main_list")
	if err != nil {
		t.Fatalf("GetMissedWords returned error: %v", err)
	}
	byWord := map[string]model.WordAggregate{}
	for _, agg := range aggs {
		byWord[agg.Word] = agg
	}
	if agg := byWord["Hund"]; agg.Correct != 1 || agg.Incorrect != 3 {
		t.Fatalf("Hund aggregate = %+v, want 1 correct, 3 incorrect", agg)
	}

	// Window of 1 only sees the latest session.
	aggs, err = store.GetMissedWords(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("GetMissedWords returned error: %v", err)
	}
	byWord = map[string]model.WordAggregate{}
	for _, agg := range aggs {
		byWord[agg.Word] = agg
	}
	if agg := byWord["Hund"]; agg.Incorrect != 1 {
		t.Fatalf("Hund aggregate in window 1 = %+v, want 1 incorrect", agg)
	}

	none, err := store.GetMissedWords(context.Background(), 0, "")
	if err != nil {
		t.Fatalf("GetMissedWords returned error: %v", err)
	}
	if none != nil {
		t.Fatalf("expected nil for zero window, got %v", none)
	}
}
