// Package quiz drives quiz sessions over a word table, asking guesses
// through a prompt/response collaborator and feeding results back into the
// table's weights.
package quiz

import (
	"strings"

	"github.com/verte-zerg/derdiedas/internal/model"
	"github.com/verte-zerg/derdiedas/internal/wordtable"
)

// EndlessBatchSize is the fixed batch length used by RunEndless.
const EndlessBatchSize = 20

// Prompter supplies guesses and receives per-word feedback.
type Prompter interface {
	// Ask returns the raw guess for a word.
	Ask(word string) (string, error)
	// Correct reports a right guess; display is the word's article.
	Correct(word, display string)
	// Incorrect reports a wrong guess; display is the true article.
	Incorrect(word, display string)
	// Unrecognized reports a guess that resolves to no gender.
	Unrecognized(input string)
}

// Result summarizes a quiz run. Completed is true when no question was
// aborted by a quit token.
type Result struct {
	Correct   int
	Answered  int
	Completed bool
}

// IsQuit reports whether input is a session-ending control token.
func IsQuit(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "quit", "exit":
		return true
	}
	return false
}

// Session runs quizzes against a single table.
type Session struct {
	table    *wordtable.Table
	prompter Prompter
	words    map[string]*model.WordStats
}

// NewSession returns a session bound to the table and prompter.
func NewSession(table *wordtable.Table, prompter Prompter) *Session {
	return &Session{
		table:    table,
		prompter: prompter,
		words:    map[string]*model.WordStats{},
	}
}

// RunFixed asks up to length questions sampled by weight. A quit token stops
// early without scoring that item. An unresolvable guess counts toward
// Answered but is not scored.
func (s *Session) RunFixed(length int) (Result, error) {
	pairs, err := s.table.Sample(length, wordtable.Weighted)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for _, pair := range pairs {
		guess, err := s.prompter.Ask(pair.Word)
		if err != nil {
			return res, err
		}
		if IsQuit(guess) {
			return res, nil
		}
		res.Answered++

		resolved, err := s.table.Set().Format(guess)
		if err != nil {
			// Malformed input is reported but never penalizes or
			// rewards the word.
			s.prompter.Unrecognized(guess)
			continue
		}

		accurate := resolved == pair.Gender
		if err := s.table.UpdateWeight(pair.Word, accurate); err != nil {
			return res, err
		}
		s.record(pair.Word, accurate)

		display := s.table.Set().Display(pair.Gender)
		if accurate {
			res.Correct++
			s.prompter.Correct(pair.Word, display)
		} else {
			s.prompter.Incorrect(pair.Word, display)
		}
	}
	res.Completed = res.Answered == length
	return res, nil
}

// RunEndless loops fixed-size batches, accumulating totals, until a batch is
// aborted early.
func (s *Session) RunEndless() (Result, error) {
	var total Result
	for {
		batch, err := s.RunFixed(EndlessBatchSize)
		total.Correct += batch.Correct
		total.Answered += batch.Answered
		if err != nil {
			return total, err
		}
		if !batch.Completed {
			return total, nil
		}
	}
}

// WordStats returns per-word results accumulated over the session's runs.
func (s *Session) WordStats() []model.WordStats {
	out := make([]model.WordStats, 0, len(s.words))
	for _, ws := range s.words {
		out = append(out, *ws)
	}
	return out
}

func (s *Session) record(word string, accurate bool) {
	ws, ok := s.words[word]
	if !ok {
		ws = &model.WordStats{Word: word}
		s.words[word] = ws
	}
	if accurate {
		ws.Correct++
	} else {
		ws.Incorrect++
	}
}
