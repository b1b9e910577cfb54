package wordtable

import (
	"errors"
	"math"
	"testing"

	"github.com/verte-zerg/derdiedas/internal/gender"
)

func newTestTable(t *testing.T, inertia int) *Table {
	t.Helper()
	table, err := New(gender.Default(), inertia)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return table
}

func TestAddSetsFreshWordPriors(t *testing.T) {
	table := newTestTable(t, 2)
	if err := table.Add("der", "hund"); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	rec, ok := table.Lookup("Hund")
	if !ok {
		t.Fatalf("expected Hund to be present")
	}
	if rec.Gender != "masculine" {
		t.Fatalf("gender = %s, want masculine", rec.Gender)
	}
	if rec.Correct != 2 || rec.Wrong != 4 {
		t.Fatalf("counters = (%d, %d), want (2, 4)", rec.Correct, rec.Wrong)
	}
	if want := 2.0 / 3.0; rec.Weight != want {
		t.Fatalf("weight = %v, want %v", rec.Weight, want)
	}
}

func TestAddDuplicateRegardlessOfCasing(t *testing.T) {
	table := newTestTable(t, 2)
	if err := table.Add("die", "Katze"); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	err := table.Add("die", "katze")
	if !errors.Is(err, ErrDuplicateWord) {
		t.Fatalf("expected ErrDuplicateWord, got %v", err)
	}
}

func TestAddUnknownGender(t *testing.T) {
	table := newTestTable(t, 2)
	if err := table.Add("dem", "Haus"); !errors.Is(err, gender.ErrUnknownGender) {
		t.Fatalf("expected ErrUnknownGender, got %v", err)
	}
}

func TestUpdateWeightCorrectAnswersDriveWeightDown(t *testing.T) {
	table := newTestTable(t, 2)
	if err := table.Add("das", "Haus"); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	rec, _ := table.Lookup("Haus")
	prev := rec.Weight
	steps := table.ScoreInertia() * table.Set().Count()
	for i := 0; i < steps; i++ {
		if err := table.UpdateWeight("Haus", true); err != nil {
			t.Fatalf("UpdateWeight returned error: %v", err)
		}
		rec, _ = table.Lookup("Haus")
		if rec.Weight >= prev {
			t.Fatalf("step %d: weight %v did not drop below %v", i, rec.Weight, prev)
		}
		prev = rec.Weight
	}
}

func TestUpdateWeightNeverLeavesNegativeCounters(t *testing.T) {
	table := newTestTable(t, 1)
	if err := table.Add("die", "Tür"); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	for i := 0; i < 50; i++ {
		guess := i%4 == 0
		if err := table.UpdateWeight("Tür", guess); err != nil {
			t.Fatalf("UpdateWeight returned error: %v", err)
		}
		rec, _ := table.Lookup("Tür")
		if rec.Wrong < 0 || rec.Correct < 0 {
			t.Fatalf("step %d: negative counters (%d, %d)", i, rec.Correct, rec.Wrong)
		}
		if rec.Correct+rec.Wrong == 0 {
			t.Fatalf("step %d: counters dropped to zero total", i)
		}
		if math.IsNaN(rec.Weight) || rec.Weight < 0 || rec.Weight > 1 {
			t.Fatalf("step %d: weight out of range: %v", i, rec.Weight)
		}
	}
}

func TestUpdateWeightUnknownWord(t *testing.T) {
	table := newTestTable(t, 2)
	if err := table.UpdateWeight("Geist", true); err == nil {
		t.Fatalf("expected error for unknown word")
	}
}

func TestUniformSampleCoversTable(t *testing.T) {
	table := newTestTable(t, 2)
	words := []string{"Hund", "Katze", "Haus", "Tür", "Auto"}
	genders := []string{"der", "die", "das", "die", "das"}
	for i, word := range words {
		if err := table.Add(genders[i], word); err != nil {
			t.Fatalf("Add(%s) returned error: %v", word, err)
		}
	}
	pairs, err := table.Sample(len(words), Uniform)
	if err != nil {
		t.Fatalf("Sample returned error: %v", err)
	}
	if len(pairs) != len(words) {
		t.Fatalf("expected %d pairs, got %d", len(words), len(pairs))
	}
	seen := map[string]bool{}
	for _, pair := range pairs {
		if seen[pair.Word] {
			t.Fatalf("word %s drawn twice", pair.Word)
		}
		seen[pair.Word] = true
	}
}

func TestWeightedSampleSkipsZeroWeight(t *testing.T) {
	table := newTestTable(t, 2)
	if err := table.Insert(Record{Word: "Mauer", Gender: "feminine", Correct: 10, Wrong: 0}); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	if err := table.Add("der", "Tisch"); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	for i := 0; i < 200; i++ {
		pairs, err := table.Sample(1, Weighted)
		if err != nil {
			t.Fatalf("Sample returned error: %v", err)
		}
		if pairs[0].Word == "Mauer" {
			t.Fatalf("zero-weight word drawn on iteration %d", i)
		}
	}
}

func TestSampleUnknownDistribution(t *testing.T) {
	table := newTestTable(t, 2)
	if _, err := table.Sample(1, Distribution("gaussian")); !errors.Is(err, ErrUnknownDistribution) {
		t.Fatalf("expected ErrUnknownDistribution, got %v", err)
	}
}

func TestSampleClampsToTableSize(t *testing.T) {
	table := newTestTable(t, 2)
	if err := table.Add("der", "Baum"); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	pairs, err := table.Sample(10, Weighted)
	if err != nil {
		t.Fatalf("Sample returned error: %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
}

func TestResetRestoresPriors(t *testing.T) {
	table := newTestTable(t, 2)
	if err := table.Add("das", "Brot"); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	for i := 0; i < 7; i++ {
		if err := table.UpdateWeight("Brot", true); err != nil {
			t.Fatalf("UpdateWeight returned error: %v", err)
		}
	}
	table.Reset()
	rec, _ := table.Lookup("Brot")
	if rec.Correct != 2 || rec.Wrong != 4 {
		t.Fatalf("counters = (%d, %d), want (2, 4)", rec.Correct, rec.Wrong)
	}
	if want := 2.0 / 3.0; rec.Weight != want {
		t.Fatalf("weight = %v, want %v", rec.Weight, want)
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"hund":   "Hund",
		"HUND":   "Hund",
		" katze": "Katze",
		"über":   "Über",
	}
	for input, want := range cases {
		if got := Normalize(input); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", input, got, want)
		}
	}
}
