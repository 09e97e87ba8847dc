package cli

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// TerminalPepperPrompt reads the pepper from the controlling terminal without
// echoing it. It returns an error when stdin is not a terminal so batch jobs
// fail fast instead of hanging on a prompt.
func TerminalPepperPrompt() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("stdin is not a terminal")
	}
	_, _ = fmt.Fprint(os.Stderr, "pepper: ")
	secret, err := term.ReadPassword(fd)
	_, _ = fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(secret), nil
}
