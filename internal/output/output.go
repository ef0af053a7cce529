package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/dshills/quill/internal/suggest"
)

// Formats lists the supported output formats.
var Formats = []string{"text", "json"}

// Write renders the result to w in the given format.
func Write(w io.Writer, res suggest.Result, format string) error {
	switch format {
	case "", "text":
		return writeText(w, res)
	case "json":
		return writeJSON(w, res)
	default:
		return fmt.Errorf("unsupported output format: %s (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// writeText prints the message alone so it can be piped into `git commit -F -`.
// On a terminal the title line is highlighted; elsewhere the text is plain.
func writeText(w io.Writer, res suggest.Result) error {
	if res.NoChanges {
		_, err := fmt.Fprintln(w, suggest.NoChangesMessage)
		return err
	}
	r := lipgloss.NewRenderer(w)
	title, body, hasBody := strings.Cut(res.Message, "\n")
	style := r.NewStyle().Bold(true)
	if res.Fallback {
		style = style.Foreground(lipgloss.Color("3"))
	} else {
		style = style.Foreground(lipgloss.Color("2"))
	}
	var b strings.Builder
	b.WriteString(style.Render(title))
	if hasBody {
		b.WriteString("\n")
		b.WriteString(body)
	}
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func writeJSON(w io.Writer, res suggest.Result) error {
	if res.Files == nil {
		res.Files = []string{}
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}

// copyToClipboard is replaced in tests.
var copyToClipboard = clipboard.WriteAll

// Copy places the message on the system clipboard.
func Copy(message string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard is not supported on this system")
	}
	if err := copyToClipboard(message); err != nil {
		return fmt.Errorf("copying to clipboard: %w", err)
	}
	return nil
}

// PrependToFile writes message at the top of the file at path, keeping what
// was there below a blank line. This is how git's prepare-commit-msg hook
// expects the message file to be filled: the existing content is git's
// commented template.
func PrependToFile(path, message string) error {
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	content := strings.TrimRight(message, "\n") + "\n"
	if len(existing) > 0 {
		content += "\n" + string(existing)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
