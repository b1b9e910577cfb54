package quiz

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	wordStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	correctStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	wrongStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
)

// LinePrompter asks questions over a line-oriented reader/writer pair,
// usually stdin/stdout.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter returns a prompter over the given streams.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// Ask prompts for the gender of a word. A closed input stream is treated as
// a quit.
func (p *LinePrompter) Ask(word string) (string, error) {
	fmt.Fprintf(p.out, "What is the gender of %s? ", wordStyle.Render(word))
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "quit", nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Correct prints the right-guess feedback.
func (p *LinePrompter) Correct(word, display string) {
	fmt.Fprintf(p.out, "%s\n\n", correctStyle.Render("Correct!"))
}

// Incorrect prints the wrong-guess feedback with the true article.
func (p *LinePrompter) Incorrect(word, display string) {
	fmt.Fprintf(p.out, "%s The correct gender is %s %s.\n\n",
		wrongStyle.Render("Incorrect!"), display, word)
}

// Unrecognized prints the skipped-guess notice.
func (p *LinePrompter) Unrecognized(input string) {
	fmt.Fprintf(p.out, "%s\n\n", noticeStyle.Render(fmt.Sprintf("Unrecognised answer %q, not scored.", input)))
}
