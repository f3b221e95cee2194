package ui

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// FzfSelect presents labels via fzf and returns the selected index.
// Labels are passed as plain text via stdin. No --preview or shell-evaluated
// strings.
func FzfSelect(prompt string, labels []string) (int, error) {
	if len(labels) == 0 {
		return -1, fmt.Errorf("no items to select from")
	}

	fzfPath, err := exec.LookPath("fzf")
	if err != nil {
		return -1, fmt.Errorf("fzf not found in PATH: %w", err)
	}

	// Numbered lines for reliable index extraction
	var input strings.Builder
	for i, label := range labels {
		fmt.Fprintf(&input, "%d\t%s\n", i, sanitizeLine(label))
	}

	cmd := exec.Command(fzfPath,
		"--prompt", prompt+" > ",
		"--height", "40%",
		"--reverse",
		"--with-nth", "2..",
		"--delimiter", "\t",
		"--no-multi",
		"--cycle",
	)

	cmd.Stdin = strings.NewReader(input.String())
	cmd.Stderr = os.Stderr

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && (exitErr.ExitCode() == 130 || exitErr.ExitCode() == 1) {
			return -1, ErrCancelled
		}
		return -1, fmt.Errorf("fzf failed: %w", err)
	}

	return parseSelection(stdout.String(), len(labels))
}

// FzfInput prompts for free text via fzf's --print-query.
func FzfInput(prompt string) (string, error) {
	fzfPath, err := exec.LookPath("fzf")
	if err != nil {
		return "", fmt.Errorf("fzf not found in PATH: %w", err)
	}

	cmd := exec.Command(fzfPath,
		"--prompt", prompt+" > ",
		"--height", "10%",
		"--reverse",
		"--print-query",
		"--no-info",
	)

	cmd.Stdin = strings.NewReader("")
	cmd.Stderr = os.Stderr

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := inputExitError(cmd.Run()); err != nil {
		return "", err
	}
	return parseQuery(stdout.String())
}

// inputExitError classifies how fzf --print-query ended. Exit 1 only means
// nothing matched, the typed query is still printed.
func inputExitError(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		switch exitErr.ExitCode() {
		case 1:
			return nil
		case 130:
			return ErrCancelled
		}
	}
	return fmt.Errorf("fzf failed: %w", err)
}

// parseSelection extracts the index from fzf's "index<TAB>label" output.
func parseSelection(out string, n int) (int, error) {
	selected := strings.TrimSpace(out)
	if selected == "" {
		return -1, ErrCancelled
	}

	field, _, _ := strings.Cut(selected, "\t")
	var idx int
	if _, err := fmt.Sscanf(field, "%d", &idx); err != nil {
		return -1, fmt.Errorf("parsing selection index: %w", err)
	}
	if idx < 0 || idx >= n {
		return -1, fmt.Errorf("selection index %d out of range", idx)
	}
	return idx, nil
}

func parseQuery(out string) (string, error) {
	first, _, _ := strings.Cut(out, "\n")
	query := strings.TrimSpace(first)
	if query == "" {
		return "", ErrCancelled
	}
	return query, nil
}

// sanitizeLine keeps remote text from breaking the line protocol.
func sanitizeLine(s string) string {
	return strings.NewReplacer("\n", " ", "\r", " ", "\t", " ").Replace(s)
}
