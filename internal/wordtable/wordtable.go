// Package wordtable implements the adaptive word table: per-word
// correct/wrong counters and a derived sampling weight that favors words the
// user keeps getting wrong.
package wordtable

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode"

	"github.com/verte-zerg/derdiedas/internal/gender"
)

var (
	// ErrInvalidGender is returned when a resolved gender is not part of
	// the table's configured set.
	ErrInvalidGender = errors.New("invalid gender for this word list")
	// ErrDuplicateWord is returned when the normalized word is already
	// present.
	ErrDuplicateWord = errors.New("word already included")
	// ErrUnknownDistribution is returned for an unrecognized sampling mode.
	ErrUnknownDistribution = errors.New("unknown distribution")
)

// Distribution selects the sampling policy.
type Distribution string

const (
	// Uniform gives every record equal probability.
	Uniform Distribution = "uniform"
	// Weighted draws records proportionally to their weight.
	Weighted Distribution = "weighted"
)

// Record holds one word with its performance counters. Weight is always
// Wrong/(Correct+Wrong) and is recomputed on every counter change.
type Record struct {
	Word    string
	Gender  gender.Gender
	Correct int
	Wrong   int
	Weight  float64
}

// Pair is one sampled (word, gender) result.
type Pair struct {
	Word   string
	Gender gender.Gender
}

// Table stores gender records indexed by normalized word, together with the
// gender set and the score inertia configured at creation.
type Table struct {
	set     *gender.Set
	inertia int
	order   []string
	records map[string]Record
	rnd     *rand.Rand
}

// New returns an empty table for the given gender set and score inertia.
func New(set *gender.Set, scoreInertia int) (*Table, error) {
	if set == nil {
		return nil, fmt.Errorf("gender set must not be nil")
	}
	if scoreInertia <= 0 {
		return nil, fmt.Errorf("score inertia must be positive, got %d", scoreInertia)
	}
	return &Table{
		set:     set,
		inertia: scoreInertia,
		records: map[string]Record{},
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Normalize returns the stored form of a word: first rune upper-cased, the
// remainder lower-cased. Lookups use the same form, so casing variations of
// the same word collide.
func Normalize(word string) string {
	word = strings.TrimSpace(word)
	if word == "" {
		return ""
	}
	runes := []rune(strings.ToLower(word))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// Set returns the table's gender set.
func (t *Table) Set() *gender.Set {
	return t.set
}

// ScoreInertia returns the configured decay resistance.
func (t *Table) ScoreInertia() int {
	return t.inertia
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.records)
}

// Add resolves the gender input and inserts a new word with the fresh-word
// priors: Correct = inertia, Wrong = inertia*(n-1), so a word with more
// gender choices starts with a higher weight.
func (t *Table) Add(genderInput, word string) error {
	g, err := t.set.Format(genderInput)
	if err != nil {
		return err
	}
	if !t.set.Contains(g) {
		return fmt.Errorf("%w: %s", ErrInvalidGender, g)
	}
	key := Normalize(word)
	if key == "" {
		return fmt.Errorf("word must not be empty")
	}
	if _, ok := t.records[key]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateWord, key)
	}
	n := t.set.Count()
	rec := Record{
		Word:    key,
		Gender:  g,
		Correct: t.inertia,
		Wrong:   t.inertia * (n - 1),
	}
	rec.Weight = deriveWeight(rec.Correct, rec.Wrong)
	t.records[key] = rec
	t.order = append(t.order, key)
	return nil
}

// Insert restores a persisted record without touching its counters. The
// weight is rederived from the counters rather than trusted.
func (t *Table) Insert(rec Record) error {
	if !t.set.Contains(rec.Gender) {
		return fmt.Errorf("%w: %s", ErrInvalidGender, rec.Gender)
	}
	key := Normalize(rec.Word)
	if key == "" {
		return fmt.Errorf("word must not be empty")
	}
	if _, ok := t.records[key]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateWord, key)
	}
	if rec.Correct < 0 || rec.Wrong < 0 || rec.Correct+rec.Wrong == 0 {
		return fmt.Errorf("record %q has invalid counters (%d correct, %d wrong)", key, rec.Correct, rec.Wrong)
	}
	rec.Word = key
	rec.Weight = deriveWeight(rec.Correct, rec.Wrong)
	t.records[key] = rec
	t.order = append(t.order, key)
	return nil
}

// Lookup returns the record for a word.
func (t *Table) Lookup(word string) (Record, bool) {
	rec, ok := t.records[Normalize(word)]
	return rec, ok
}

// Records returns a copy of all records in insertion order.
func (t *Table) Records() []Record {
	out := make([]Record, 0, len(t.order))
	for _, key := range t.order {
		out = append(out, t.records[key])
	}
	return out
}

// Sample draws n records without replacement using the given distribution.
// n larger than the table is clamped to the table size. The returned slice
// is in draw order.
func (t *Table) Sample(n int, dist Distribution) ([]Pair, error) {
	switch dist {
	case Uniform, Weighted:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDistribution, dist)
	}
	if n < 0 {
		return nil, fmt.Errorf("sample size must not be negative, got %d", n)
	}
	if n > len(t.order) {
		n = len(t.order)
	}

	remaining := append([]string(nil), t.order...)
	out := make([]Pair, 0, n)
	for i := 0; i < n; i++ {
		var idx int
		if dist == Uniform {
			idx = t.rnd.Intn(len(remaining))
		} else {
			idx = t.pickWeighted(remaining)
		}
		rec := t.records[remaining[idx]]
		out = append(out, Pair{Word: rec.Word, Gender: rec.Gender})
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}
	return out, nil
}

// pickWeighted selects an index proportionally to record weight via a linear
// cumulative scan. Zero total mass falls back to a uniform pick.
func (t *Table) pickWeighted(keys []string) int {
	total := 0.0
	for _, key := range keys {
		total += t.records[key].Weight
	}
	if total <= 0 {
		return t.rnd.Intn(len(keys))
	}
	r := t.rnd.Float64() * total
	acc := 0.0
	for i, key := range keys {
		acc += t.records[key].Weight
		if r < acc {
			return i
		}
	}
	return len(keys) - 1
}

// UpdateWeight applies one guess result to a word. At decay checkpoints
// (total observations divisible by the gender count) the counters are
// trimmed so recent performance dominates the weight. The updated record
// replaces the old one wholesale.
func (t *Table) UpdateWeight(word string, guessCorrect bool) error {
	key := Normalize(word)
	rec, ok := t.records[key]
	if !ok {
		return fmt.Errorf("word %q is not in the table", word)
	}

	if guessCorrect {
		rec.Correct++
	} else {
		rec.Wrong++
	}

	n := t.set.Count()
	if (rec.Correct+rec.Wrong)%n == 0 {
		if rec.Correct > 0 {
			// Throw away n observations, removing wrong answers first
			// but reserving at least one so the word is never fully
			// forgotten as a mistake.
			trim := rec.Wrong - 1
			if trim > n-1 {
				trim = n - 1
			}
			rec.Wrong -= trim
			rec.Correct -= n - trim
			if rec.Correct < 0 {
				rec.Correct = 0
			}
		} else {
			// All wrong so far. Floor at 1 so Correct+Wrong stays
			// positive.
			rec.Wrong -= n
			if rec.Wrong < 1 {
				rec.Wrong = 1
			}
		}
	}

	rec.Weight = deriveWeight(rec.Correct, rec.Wrong)
	t.records[key] = rec
	return nil
}

// Reset restores every record to the fresh-word priors, keeping words and
// genders.
func (t *Table) Reset() {
	n := t.set.Count()
	for key, rec := range t.records {
		rec.Correct = t.inertia
		rec.Wrong = t.inertia * (n - 1)
		rec.Weight = deriveWeight(rec.Correct, rec.Wrong)
		t.records[key] = rec
	}
}

func deriveWeight(correct, wrong int) float64 {
	return float64(wrong) / float64(correct+wrong)
}
