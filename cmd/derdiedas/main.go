// Package main provides the CLI entrypoint for derdiedas.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/derdiedas/internal/config"
	"github.com/verte-zerg/derdiedas/internal/history"
	"github.com/verte-zerg/derdiedas/internal/model"
	"github.com/verte-zerg/derdiedas/internal/quiz"
	"github.com/verte-zerg/derdiedas/internal/stats"
	"github.com/verte-zerg/derdiedas/internal/tui"
	"github.com/verte-zerg/derdiedas/internal/wordfile"
	"github.com/verte-zerg/derdiedas/internal/wordtable"
)

const (
	defaultList        = "main_list"
	defaultQuizLength  = 10
	defaultStatsWindow = 20
)

var (
	quizList    string
	quizLength  int
	quizEndless bool
	quizPlain   bool

	addList string

	importList string

	statsList   string
	statsSince  string
	statsLast   int
	statsWindow int

	resetList string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "derdiedas",
		Short:         "Flashcard trainer for German noun genders",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runQuizCmd,
	}

	rootCmd.Flags().StringVar(&quizList, "list", defaultList, "word list name")
	rootCmd.Flags().IntVar(&quizLength, "length", defaultQuizLength, "questions per quiz")
	rootCmd.Flags().BoolVar(&quizEndless, "endless", false, "quiz until quit")
	rootCmd.Flags().BoolVar(&quizPlain, "plain", false, "line-based prompt instead of the TUI")

	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newListsCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runQuizCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "list", &quizList, fileCfg.Quiz.List)
	applyIntConfig(cmd, "length", &quizLength, fileCfg.Quiz.Length)
	applyBoolConfig(cmd, "endless", &quizEndless, fileCfg.Quiz.Endless)
	applyBoolConfig(cmd, "plain", &quizPlain, fileCfg.Quiz.Plain)

	if quizLength <= 0 {
		return fmt.Errorf("--length must be > 0")
	}

	table, base, err := loadList(quizList, fileCfg)
	if err != nil {
		return err
	}
	if table.Len() == 0 {
		return fmt.Errorf("word list %q is empty; add words with: derdiedas add", quizList)
	}

	st, err := history.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open history db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close history db: %v\n", cerr)
		}
	}()

	if quizPlain {
		if err := runPlainQuiz(table, st); err != nil {
			return err
		}
	} else {
		m, err := tui.NewModel(table, st, quizList, quizLength, quizEndless)
		if err != nil {
			return err
		}
		program := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run TUI: %w", err)
		}
		if err := m.Err(); err != nil {
			return err
		}
		fmt.Printf("You successfully answered %d out of %d questions!\n", m.CorrectCount(), m.Answered())
	}

	return saveWithRetry(table, base)
}

func runPlainQuiz(table *wordtable.Table, st *history.Store) error {
	prompter := quiz.NewLinePrompter(os.Stdin, os.Stdout)
	session := quiz.NewSession(table, prompter)

	startedAt := time.Now()
	var res quiz.Result
	var err error
	mode := model.ModeFixed
	if quizEndless {
		mode = model.ModeEndless
		res, err = session.RunEndless()
	} else {
		res, err = session.RunFixed(quizLength)
	}
	if err != nil {
		return err
	}
	endedAt := time.Now()

	if res.Answered > 0 {
		sessionStats := model.SessionStats{
			StartedAt:  startedAt,
			EndedAt:    endedAt,
			List:       quizList,
			Mode:       mode,
			Answered:   res.Answered,
			Correct:    res.Correct,
			DurationMs: endedAt.Sub(startedAt).Milliseconds(),
		}
		if _, err := st.InsertSession(context.Background(), sessionStats, session.WordStats()); err != nil {
			logErrf("failed to save session: %v\n", err)
		}
	}

	fmt.Printf("You successfully answered %d out of %d questions!\n", res.Correct, res.Answered)
	return nil
}

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add words interactively",
		Args:  cobra.NoArgs,
		RunE:  runAddCmd,
	}
	cmd.Flags().StringVar(&addList, "list", defaultList, "word list name")
	return cmd
}

func runAddCmd(_ *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	table, base, err := loadList(addList, fileCfg)
	if err != nil {
		return err
	}

	fmt.Println("Type a word with gender, e.g. `der Mann`, or quit when finished.")
	reader := bufio.NewReader(os.Stdin)
	added := 0
	for {
		line, rerr := reader.ReadString('\n')
		input := strings.TrimSpace(line)
		if quiz.IsQuit(input) || (rerr != nil && input == "") {
			break
		}
		fields := strings.Fields(input)
		if len(fields) != 2 {
			fmt.Println("Expected `gender word`, e.g. `der Mann`.")
			continue
		}
		if err := table.Add(fields[0], fields[1]); err != nil {
			fmt.Println(err)
			continue
		}
		added++
	}

	fmt.Printf("%d words added.\n", added)
	return saveWithRetry(table, base)
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import words from a CSV or XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
	cmd.Flags().StringVar(&importList, "list", defaultList, "word list name")
	return cmd
}

func runImportCmd(_ *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	table, base, err := loadList(importList, fileCfg)
	if err != nil {
		return err
	}

	added, skipped, err := wordfile.Import(table, args[0])
	if err != nil {
		return fmt.Errorf("failed to import %s: %w", args[0], err)
	}
	fmt.Printf("%d words successfully imported. %d rows skipped.\n", added, skipped)
	return saveWithRetry(table, base)
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show quiz stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsList, "list", defaultList, "word list name")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsWindow, "window", defaultStatsWindow, "number of recent sessions for missed words")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}

	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	table, _, err := loadList(statsList, fileCfg)
	if err != nil {
		return err
	}

	st, err := history.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open history db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close history db: %v\n", cerr)
		}
	}()

	cfg := model.StatsConfig{
		List:   statsList,
		Since:  sinceTime,
		Last:   statsLast,
		Window: statsWindow,
	}
	report, err := stats.BuildReport(context.Background(), st, table, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	width := 0
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w
		}
	}
	for _, line := range stats.Render(report, width) {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newListsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "List saved word lists",
		Args:  cobra.NoArgs,
		RunE:  runListsCmd,
	}
}

func runListsCmd(cmd *cobra.Command, _ []string) error {
	names, err := wordfile.ListNames(config.DefaultListDir())
	if err != nil {
		return err
	}
	if len(names) == 0 {
		logErrf("No word lists found. Add words with: derdiedas add\n")
		return fmt.Errorf("no word lists found")
	}
	for _, name := range names {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset word scores to their starting values",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().StringVar(&resetList, "list", defaultList, "word list name")
	return cmd
}

func runResetCmd(_ *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	table, base, err := loadList(resetList, fileCfg)
	if err != nil {
		return err
	}
	table.Reset()
	fmt.Printf("Scores reset for %d words.\n", table.Len())
	return saveWithRetry(table, base)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// loadList loads a named word list, applying the configured score inertia
// for fresh lists.
func loadList(name string, fileCfg config.FileConfig) (*wordtable.Table, string, error) {
	inertia := wordfile.DefaultScoreInertia
	if fileCfg.Table.ScoreInertia != nil {
		inertia = *fileCfg.Table.ScoreInertia
	}
	base := config.DefaultListPath(name)
	table, err := wordfile.LoadWithInertia(base, inertia)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load word list %q: %w", name, err)
	}
	return table, base, nil
}

// saveWithRetry rewrites the word list, re-prompting on a persistence
// conflict until the save succeeds or the user abandons it.
func saveWithRetry(table *wordtable.Table, base string) error {
	reader := bufio.NewReader(os.Stdin)
	for {
		err := wordfile.Save(table, base)
		if err == nil {
			fmt.Println("Word list saved, goodbye!")
			return nil
		}
		if !errors.Is(err, wordfile.ErrPersistenceConflict) {
			return err
		}
		logErrf("failed to save word list: %v\n", err)
		fmt.Print("Try again? Y/N: ")
		line, rerr := reader.ReadString('\n')
		if rerr != nil {
			return err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			continue
		case "n", "no":
			fmt.Println("Exiting without saving changes.")
			return nil
		default:
			fmt.Println("Input not recognised.")
		}
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# derdiedas configuration
# Uncomment a value to enable it. CLI flags override config values.

[quiz]
# list = %q       # Word list name
# length = %d              # Questions per quiz
# endless = false          # Quiz until quit
# plain = false            # Line-based prompt instead of the TUI

[table]
# score-inertia = %d       # Decay resistance for freshly created lists
`,
		defaultList,
		defaultQuizLength,
		wordfile.DefaultScoreInertia,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
