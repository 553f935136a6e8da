package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/aisetup/pkg/types"
)

// ConsoleConfirmer asks on a terminal before an existing file or directory
// is replaced. Anything but y or yes is a refusal.
type ConsoleConfirmer struct {
	in  io.Reader
	out io.Writer
}

// NewConsoleConfirmer creates a confirmer reading answers from in
func NewConsoleConfirmer(in io.Reader, out io.Writer) *ConsoleConfirmer {
	return &ConsoleConfirmer{in: in, out: out}
}

// ConfirmOverwrite implements reconcile.Confirmer
func (c *ConsoleConfirmer) ConfirmOverwrite(path string, a types.Artifact) (bool, error) {
	_, _ = fmt.Fprintf(c.out, "%s exists and was not created by aisetup.\n", path)
	_, _ = fmt.Fprintf(c.out, "Replace it with %s? [y/N]: ", a.SourcePath())

	var response string
	_, err := fmt.Fscanln(c.in, &response)
	if err != nil && err.Error() != "unexpected newline" {
		return false, fmt.Errorf("failed to read user input: %w", err)
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes", nil
}
