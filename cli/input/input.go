package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Terminal is a terminal used for input. If `nil`, stdin is used.
var Terminal *term.Terminal

// ReadWriter combines reader and writer.
type ReadWriter struct {
	io.Reader
	io.Writer
}

// ReadLine reads a line from the input without trailing '\n'.
func ReadLine(w io.Writer, prompt string) (string, error) {
	if Terminal != nil {
		_, err := Terminal.Write([]byte(prompt))
		if err != nil {
			return "", err
		}
		raw, err := Terminal.ReadLine()
		return strings.TrimRight(raw, "\n"), err
	}
	fmt.Fprint(w, prompt)
	buf := bufio.NewReader(os.Stdin)
	line, err := buf.ReadString('\n')
	return strings.TrimRight(line, "\r\n"), err
}

// ReadPassword reads a secret (a password or a private key) with prompt
// without echoing it.
func ReadPassword(prompt string) (string, error) {
	if Terminal != nil {
		return Terminal.ReadPassword(prompt)
	}
	return readSecurePassword(prompt)
}
