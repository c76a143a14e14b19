package main

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/nspcc-dev/sirius-go/cli/app"
	"github.com/nspcc-dev/sirius-go/cli/input"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
	"golang.org/x/term"
)

const (
	testPrivateKey = "5D3E959EB0CD69CC1DB6E9C62CB81EC52747AB56FA740CF18AACB5003429AD2E"
	testPublicKey  = "C952A761C0D51940AE77EC44DE93662133B5A2E93F5DCADAB7F972FA91F5DFCD"
	testAddress    = "VCVF646H3M3C5CNIVWFZ734NC2WQXWYUKBGIZAB5"
	cosignerKey    = "000102030405060708090A0B0C0D0E0F101112131415161718191A1B1C1D1E1F"
	cosignerPub    = "13C6C45B3C3043FC0DD58C02955DD3BFBBE05B43FEDA45B5799A0B4582F70315"
	genHash        = "7B631D803F912B00DC0CBED3014BBD17A302BA50B99D233B9C2D9533B842ABDF"
	transferHash   = "8AE2ABB0794D307617348121E684CB1A667865890264F0102590F910D4C7D6B0"
	bondedHash     = "5F94E91294CF5FCBB1C42A67F07167A8BF9B7B97E96A3B41CAF4A0A51E618ECB"
	nemesisBlock   = `{"meta":{"hash":"` + genHash + `","generationHash":"` + genHash + `"},` +
		`"block":{"signer":"` + testPublicKey + `","version":-1476395007,"type":32835}}`
)

// executor represents context for a test instance.
// It can be safely used in multiple tests, but not in parallel.
type executor struct {
	// CLI is a cli application to test, it's recreated for every run.
	CLI *cli.App
	// Out contains command output.
	Out *bytes.Buffer
	// Err contains command errors.
	Err *bytes.Buffer
	// In contains command input.
	In *bytes.Buffer
}

func newExecutor(t *testing.T) *executor {
	e := &executor{
		Out: bytes.NewBuffer(nil),
		Err: bytes.NewBuffer(nil),
		In:  bytes.NewBuffer(nil),
	}
	t.Cleanup(func() {
		input.Terminal = nil
	})
	return e
}

func (e *executor) getNextLine(t *testing.T) string {
	line, err := e.Out.ReadString('\n')
	require.NoError(t, err)
	return strings.TrimSuffix(line, "\n")
}

func (e *executor) checkNextLine(t *testing.T, expected string) {
	line := e.getNextLine(t)
	require.Regexp(t, expected, line)
}

func (e *executor) checkEOF(t *testing.T) {
	_, err := e.Out.ReadString('\n')
	require.True(t, errors.Is(err, io.EOF))
}

func setExitFunc() <-chan int {
	ch := make(chan int, 1)
	cli.OsExiter = func(code int) {
		ch <- code
	}
	return ch
}

// RunWithError runs command and checks that it fails. Exit codes, if any,
// must be 1.
func (e *executor) RunWithError(t *testing.T, args ...string) {
	ch := setExitFunc()
	require.Error(t, e.run(args...))
	select {
	case c := <-ch:
		require.Equal(t, 1, c)
	default:
	}
}

// Run runs command and checks that there were no errors.
func (e *executor) Run(t *testing.T, args ...string) {
	ch := setExitFunc()
	err := e.run(args...)
	require.NoError(t, err, e.Err.String())
	select {
	case c := <-ch:
		require.Fail(t, "unexpected exit", "code %d", c)
	default:
	}
}

func (e *executor) run(args ...string) error {
	e.Out.Reset()
	e.Err.Reset()
	// Flag values are kept by commands between runs.
	e.CLI = app.New()
	e.CLI.Writer = e.Out
	e.CLI.ErrWriter = e.Err
	input.Terminal = term.NewTerminal(input.ReadWriter{
		Reader: e.In,
		Writer: io.Discard,
	}, "")
	err := e.CLI.Run(args)
	input.Terminal = nil
	e.In.Reset()
	return err
}

type request struct {
	method string
	path   string
	body   string
}

// restNode is a fake REST gateway serving fixed responses.
type restNode struct {
	*httptest.Server

	lock     sync.Mutex
	requests []request
}

func readFixture(t *testing.T, name string) string {
	data, err := os.ReadFile(filepath.Join("..", "pkg", "dto", "testdata", name))
	require.NoError(t, err)
	return string(data)
}

func newRESTNode(t *testing.T) *restNode {
	status := readFixture(t, "status.json")
	responses := map[string]string{
		"GET /block/1":                                 nemesisBlock,
		"PUT /transaction":                             `{"message":"packet 9 was pushed to the network via /transaction"}`,
		"PUT /transaction/cosignature":                 `{"message":"packet 257 was pushed to the network via /transaction/cosignature"}`,
		"GET /transaction/" + transferHash:             readFixture(t, "transfer.json"),
		"GET /transaction/" + transferHash + "/status": status,
		"POST /transaction/statuses":                   `[` + status + `,` + status + `]`,
	}
	n := new(restNode)
	n.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		n.lock.Lock()
		n.requests = append(n.requests, request{r.Method, r.URL.Path, string(body)})
		n.lock.Unlock()
		resp, ok := responses[r.Method+" "+r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"code":"ResourceNotFound","message":"no resource exists"}`))
			return
		}
		_, _ = w.Write([]byte(resp))
	}))
	t.Cleanup(n.Close)
	return n
}

func (n *restNode) lastRequest(t *testing.T) request {
	n.lock.Lock()
	defer n.lock.Unlock()
	require.NotEmpty(t, n.requests)
	return n.requests[len(n.requests)-1]
}
