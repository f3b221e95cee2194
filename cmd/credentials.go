package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"streambox/internal/config"
)

var credentialsCmd = &cobra.Command{
	Use:   "credentials",
	Short: "Store the StreamBox account email and password in the config file",
	Args:  cobra.NoArgs,
	RunE:  credentialsRun,
}

func credentialsRun(cmd *cobra.Command, args []string) error {
	in := bufio.NewReader(os.Stdin)

	email, err := promptLine(in, os.Stderr, "Email", cfg.Email)
	if err != nil {
		return err
	}
	password, err := promptPassword(in, os.Stderr)
	if err != nil {
		return err
	}
	if email == "" || password == "" {
		return fmt.Errorf("email and password are both required")
	}

	cfg.Email = email
	cfg.Password = password
	if err := config.Save(cfg); err != nil {
		return err
	}

	path, _ := config.ConfigPath()
	logger.Info("credentials saved", "path", path)
	fmt.Fprintf(os.Stderr, "Saved to %s. Run \"streambox '?action=login'\" to log in.\n", path)
	return nil
}

// promptLine reads one line, keeping current when the answer is empty.
func promptLine(in *bufio.Reader, out io.Writer, label, current string) (string, error) {
	if current != "" {
		fmt.Fprintf(out, "%s [%s]: ", label, current)
	} else {
		fmt.Fprintf(out, "%s: ", label)
	}
	line, err := in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading %s: %w", strings.ToLower(label), err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return current, nil
	}
	return line, nil
}

// promptPassword reads the password without echo when stdin is a terminal.
func promptPassword(in *bufio.Reader, out io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return promptLine(in, out, "Password", "")
	}

	fmt.Fprint(out, "Password: ")
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimSpace(string(pw)), nil
}
