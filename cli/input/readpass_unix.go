//go:build !windows
// +build !windows

package input

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// readSecurePassword prints prompt and reads a secret from the controlling
// terminal without echo. Stdin is used if there is no terminal.
func readSecurePassword(prompt string) (string, error) {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return readStdinPassword(prompt)
	}
	defer tty.Close()

	if _, err := fmt.Fprint(tty, prompt); err != nil {
		return "", err
	}
	secret, err := term.ReadPassword(int(tty.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	_, err = fmt.Fprintln(tty)
	return string(secret), err
}

func readStdinPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Fprintln(os.Stderr)
	return string(secret), nil
}
