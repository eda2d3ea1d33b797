// Package prompt implements the narrow yes/no confirmation interface the
// encryption core consumes for its overwrite guard and for archive
// unpack overwrite checks. It is deliberately thin: argument parsing and
// general console output live in internal/cli.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	questionStyle = lipgloss.NewStyle().Bold(true)
	skipStyle     = lipgloss.NewStyle().Faint(true)
)

// Confirm asks a yes/no question on out, reading the answer from in.
// defaultYes controls the behavior on a bare Enter. If hide is true, the
// question is printed with a "[skipped]" marker, nothing is read from in,
// and defaultYes is returned, letting callers skip interactive prompts
// entirely (e.g. "-y"/"--yes").
func Confirm(in io.Reader, out io.Writer, question string, defaultYes, hide bool) (bool, error) {
	if hide {
		fmt.Fprintln(out, skipStyle.Render(fmt.Sprintf("%s [skipped]", question)))
		return defaultYes, nil
	}

	suffix := "[y/N]"
	if defaultYes {
		suffix = "[Y/n]"
	}
	fmt.Fprint(out, questionStyle.Render(fmt.Sprintf("%s %s: ", question, suffix)))

	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	line = strings.TrimSpace(strings.ToLower(line))

	switch line {
	case "":
		return defaultYes, nil
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return defaultYes, nil
	}
}
