package input

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/term"
)

func TestReadFromTerminal(t *testing.T) {
	out := new(bytes.Buffer)
	Terminal = term.NewTerminal(ReadWriter{bytes.NewBufferString("line\rsecret\r"), out}, "")
	t.Cleanup(func() { Terminal = nil })

	line, err := ReadLine(io.Discard, "Enter line > ")
	require.NoError(t, err)
	require.Equal(t, "line", line)

	pass, err := ReadPassword("Enter key > ")
	require.NoError(t, err)
	require.Equal(t, "secret", pass)
	require.NotContains(t, out.String(), "secret")
}
