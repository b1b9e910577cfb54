package stats

import (
	"context"
	"fmt"
	"sort"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/derdiedas/internal/history"
	"github.com/verte-zerg/derdiedas/internal/model"
	"github.com/verte-zerg/derdiedas/internal/wordtable"
)

// HardestRow is one word ranked by its current sampling weight.
type HardestRow struct {
	Word    string
	Article string
	Weight  float64
	Correct int
	Wrong   int
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions []model.SessionAggregate
	Missed   []model.WordAggregate
	Hardest  []HardestRow
}

// DefaultTopWords limits the hardest/missed word tables.
const DefaultTopWords = 10

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *history.Store, table *wordtable.Table, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}

	missed, err := st.GetMissedWords(ctx, cfg.Window, cfg.List)
	if err != nil {
		return Report{}, err
	}
	missed = SortMissedWords(missed, DefaultTopWords)

	return Report{
		Sessions: sessions,
		Missed:   missed,
		Hardest:  HardestWords(table, DefaultTopWords),
	}, nil
}

// HardestWords ranks the table's records by weight, highest first.
func HardestWords(table *wordtable.Table, n int) []HardestRow {
	records := table.Records()
	sort.Slice(records, func(i, j int) bool {
		if records[i].Weight == records[j].Weight {
			return records[i].Word < records[j].Word
		}
		return records[i].Weight > records[j].Weight
	})
	if n <= 0 || n > len(records) {
		n = len(records)
	}
	out := make([]HardestRow, 0, n)
	for _, rec := range records[:n] {
		out = append(out, HardestRow{
			Word:    rec.Word,
			Article: table.Set().Display(rec.Gender),
			Weight:  rec.Weight,
			Correct: rec.Correct,
			Wrong:   rec.Wrong,
		})
	}
	return out
}

// SortMissedWords orders aggregates by incorrect count, highest first, and
// keeps the top n. Words with no misses are dropped.
func SortMissedWords(aggs []model.WordAggregate, n int) []model.WordAggregate {
	kept := make([]model.WordAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Incorrect > 0 {
			kept = append(kept, agg)
		}
	}
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].Incorrect == kept[j].Incorrect {
			return kept[i].Word < kept[j].Word
		}
		return kept[i].Incorrect > kept[j].Incorrect
	})
	if n > 0 && len(kept) > n {
		kept = kept[:n]
	}
	return kept
}

// Render produces the report lines, truncated to width when width > 0.
func Render(report Report, width int) []string {
	var lines []string

	lines = append(lines, "Sessions")
	if len(report.Sessions) == 0 {
		lines = append(lines, "  no sessions recorded yet")
	} else {
		rows := make([][]string, 0, len(report.Sessions))
		for _, s := range report.Sessions {
			rows = append(rows, []string{
				s.EndedAt.Local().Format("2006-01-02 15:04"),
				s.Mode,
				fmt.Sprintf("%d", s.Answered),
				fmt.Sprintf("%d", s.Correct),
				formatAccuracy(s.Correct, s.Answered-s.Correct),
			})
		}
		lines = append(lines, formatTable(
			[]string{"When", "Mode", "Answered", "Correct", "Accuracy"},
			rows,
			map[int]bool{2: true, 3: true, 4: true},
		)...)
	}

	lines = append(lines, "", "Hardest words")
	if len(report.Hardest) == 0 {
		lines = append(lines, "  word list is empty")
	} else {
		rows := make([][]string, 0, len(report.Hardest))
		for _, row := range report.Hardest {
			rows = append(rows, []string{
				row.Article + " " + row.Word,
				fmt.Sprintf("%.2f", row.Weight),
				fmt.Sprintf("%d", row.Correct),
				fmt.Sprintf("%d", row.Wrong),
			})
		}
		lines = append(lines, formatTable(
			[]string{"Word", "Weight", "Correct", "Wrong"},
			rows,
			map[int]bool{1: true, 2: true, 3: true},
		)...)
	}

	lines = append(lines, "", "Missed recently")
	if len(report.Missed) == 0 {
		lines = append(lines, "  no misses in the window")
	} else {
		rows := make([][]string, 0, len(report.Missed))
		for _, agg := range report.Missed {
			rows = append(rows, []string{
				agg.Word,
				fmt.Sprintf("%d", agg.Incorrect),
				fmt.Sprintf("%d", agg.Correct),
				formatAccuracy(agg.Correct, agg.Incorrect),
			})
		}
		lines = append(lines, formatTable(
			[]string{"Word", "Wrong", "Correct", "Accuracy"},
			rows,
			map[int]bool{1: true, 2: true, 3: true},
		)...)
	}

	if width > 0 {
		for i, line := range lines {
			lines[i] = runewidth.Truncate(line, width, "…")
		}
	}
	return lines
}

func formatAccuracy(correct, wrong int) string {
	total := correct + wrong
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(correct)/float64(total)*100)
}
