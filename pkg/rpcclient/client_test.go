package rpcclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/nspcc-dev/sirius-go/pkg/config/netmode"
	"github.com/nspcc-dev/sirius-go/pkg/core/transaction"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const (
	genHash          = "7B631D803F912B00DC0CBED3014BBD17A302BA50B99D233B9C2D9533B842ABDF"
	transferHash     = "8AE2ABB0794D307617348121E684CB1A667865890264F0102590F910D4C7D6B0"
	bondedHash       = "5F94E91294CF5FCBB1C42A67F07167A8BF9B7B97E96A3B41CAF4A0A51E618ECB"
	nemesisBlockJSON = `{"meta":{"hash":"` + genHash + `","generationHash":"` + genHash + `"},` +
		`"block":{"signer":"C952A761C0D51940AE77EC44DE93662133B5A2E93F5DCADAB7F972FA91F5DFCD","version":-1476395007,"type":32835}}`
)

func readFixture(t *testing.T, name string) []byte {
	data, err := os.ReadFile(filepath.Join("..", "dto", "testdata", name))
	require.NoError(t, err)
	return data
}

type request struct {
	method string
	path   string
	body   string
}

type recorder struct {
	lock sync.Mutex
	reqs []request
}

func (r *recorder) add(req request) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.reqs = append(r.reqs, req)
}

func (r *recorder) requests() []request {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]request(nil), r.reqs...)
}

// testServer serves the given responses by method and path and records
// requests.
func testServer(t *testing.T, responses map[string]string) (*httptest.Server, *recorder) {
	rec := new(recorder)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		rec.add(request{r.Method, r.URL.Path, string(body)})
		resp, ok := responses[r.Method+" "+r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"code":"ResourceNotFound","message":"no resource exists with id"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(resp))
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func newTestClient(t *testing.T, endpoint string, opts Options) *Client {
	opts.Logger = zaptest.NewLogger(t)
	c, err := New(context.Background(), endpoint, opts)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestGetEndpoint(t *testing.T) {
	host := "http://localhost:1234"
	u, err := url.Parse(host)
	require.NoError(t, err)
	client := Client{
		endpoint: u,
	}
	require.Equal(t, host, client.Endpoint())
}

func TestNew(t *testing.T) {
	_, err := New(context.Background(), "ws://localhost:3000", Options{})
	require.Error(t, err)
	_, err = New(context.Background(), "http://[::1", Options{})
	require.Error(t, err)

	c, err := New(context.Background(), "http://localhost:3000", Options{})
	require.NoError(t, err)
	require.Equal(t, defaultDialTimeout, c.opts.DialTimeout)
	require.Equal(t, defaultRequestTimeout, c.opts.RequestTimeout)
	require.Equal(t, defaultCacheSize, c.opts.CacheSize)
}

func TestInit(t *testing.T) {
	srv, reqs := testServer(t, map[string]string{"GET /block/1": nemesisBlockJSON})
	c := newTestClient(t, srv.URL, Options{})

	_, err := c.GenerationHash()
	require.Error(t, err)
	_, err = c.Network()
	require.Error(t, err)

	require.NoError(t, c.Init())
	h, err := c.GenerationHash()
	require.NoError(t, err)
	require.Equal(t, genHash, h)
	n, err := c.Network()
	require.NoError(t, err)
	require.Equal(t, netmode.PublicTest, n)
	require.Len(t, reqs.requests(), 1)

	t.Run("bad generation hash", func(t *testing.T) {
		srv, _ := testServer(t, map[string]string{"GET /block/1": `{"meta":{"generationHash":"00"},"block":{"version":-1476395007}}`})
		require.ErrorIs(t, newTestClient(t, srv.URL, Options{}).Init(), transaction.ErrInvalidHashEncoding)
	})
	t.Run("unknown network", func(t *testing.T) {
		srv, _ := testServer(t, map[string]string{"GET /block/1": `{"meta":{"generationHash":"` + genHash + `"},"block":{"version":1}}`})
		require.ErrorIs(t, newTestClient(t, srv.URL, Options{}).Init(), netmode.ErrUnknownNetwork)
	})
}

func TestAnnounce(t *testing.T) {
	srv, reqs := testServer(t, map[string]string{
		"PUT /transaction":             `{"message":"packet 9 was pushed to the network via /transaction"}`,
		"PUT /transaction/partial":     `{"message":"packet 256 was pushed to the network via /transaction/partial"}`,
		"PUT /transaction/cosignature": `{"message":"packet 257 was pushed to the network via /transaction/cosignature"}`,
	})
	c := newTestClient(t, srv.URL, Options{})

	msg, err := c.Announce(&transaction.SignedTransaction{EntityType: transaction.TransferType, Payload: "AA", Hash: transferHash})
	require.NoError(t, err)
	require.Equal(t, "packet 9 was pushed to the network via /transaction", msg)

	_, err = c.AnnounceAggregateBonded(&transaction.SignedTransaction{EntityType: transaction.TransferType, Payload: "AA"})
	require.ErrorIs(t, err, transaction.ErrWrongTransactionKind)
	require.Len(t, reqs.requests(), 1)

	_, err = c.AnnounceAggregateBonded(&transaction.SignedTransaction{EntityType: transaction.AggregateBondedType, Payload: "BB"})
	require.NoError(t, err)

	_, err = c.AnnounceCosignature(&transaction.CosignatureSignedTransaction{ParentHash: bondedHash, Signature: "CC", Signer: "DD"})
	require.NoError(t, err)

	require.Len(t, reqs.requests(), 3)
	assert.Equal(t, request{http.MethodPut, "/transaction", `{"payload":"AA"}`}, reqs.requests()[0])
	assert.Equal(t, request{http.MethodPut, "/transaction/partial", `{"payload":"BB"}`}, reqs.requests()[1])
	assert.Equal(t, http.MethodPut, reqs.requests()[2].method)
	assert.Equal(t, "/transaction/cosignature", reqs.requests()[2].path)
	assert.JSONEq(t, `{"parentHash":"`+bondedHash+`","signature":"CC","signer":"DD"}`, reqs.requests()[2].body)
}

func TestGetTransaction(t *testing.T) {
	srv, reqs := testServer(t, map[string]string{
		"GET /transaction/" + transferHash: string(readFixture(t, "transfer.json")),
		"GET /transaction/" + bondedHash:   string(readFixture(t, "aggregate_bonded.json")),
	})
	c := newTestClient(t, srv.URL, Options{})

	tx, err := c.GetTransaction(transferHash)
	require.NoError(t, err)
	require.Equal(t, transaction.TransferType, tx.Header().Type)
	require.True(t, tx.Header().IsConfirmed())

	// Confirmed transactions are served from the cache.
	again, err := c.GetTransaction(transferHash)
	require.NoError(t, err)
	require.NotSame(t, tx, again)
	require.Equal(t, tx, again)
	require.Len(t, reqs.requests(), 1)

	// Cached transactions are not shared between callers.
	fee, sig := again.Header().MaxFee, append([]byte(nil), again.Header().Signature...)
	again.Header().MaxFee++
	again.Header().Signature[0] ^= 0xff
	again.Header().Info = nil
	again, err = c.GetTransaction(strings.ToLower(transferHash))
	require.NoError(t, err)
	require.Equal(t, fee, again.Header().MaxFee)
	require.Equal(t, sig, again.Header().Signature)
	require.NotNil(t, again.Header().Info)
	require.Len(t, reqs.requests(), 1)

	// Unconfirmed ones are not.
	for i := 0; i < 2; i++ {
		tx, err = c.GetTransaction(bondedHash)
		require.NoError(t, err)
		require.Equal(t, transaction.AggregateBondedType, tx.Header().Type)
	}
	require.Len(t, reqs.requests(), 3)

	_, err = c.GetTransaction("00")
	require.ErrorIs(t, err, transaction.ErrInvalidHashEncoding)
	require.Len(t, reqs.requests(), 3)
}

func TestGetTransactionNotFound(t *testing.T) {
	srv, _ := testServer(t, nil)
	c := newTestClient(t, srv.URL, Options{})

	_, err := c.GetTransaction(transferHash)
	require.True(t, IsNotFound(err))
	var restErr *Error
	require.ErrorAs(t, err, &restErr)
	require.Equal(t, "ResourceNotFound", restErr.Code)
	require.Equal(t, "HTTP 404/ResourceNotFound: no resource exists with id", restErr.Error())
}

func TestGetTransactions(t *testing.T) {
	batch := `[` + string(readFixture(t, "transfer.json")) + `,` + string(readFixture(t, "aggregate_bonded.json")) + `]`
	srv, reqs := testServer(t, map[string]string{"POST /transaction": batch})
	c := newTestClient(t, srv.URL, Options{})

	txs, err := c.GetTransactions([]string{transferHash, bondedHash})
	require.NoError(t, err)
	require.Len(t, txs, 2)
	require.Equal(t, transaction.TransferType, txs[0].Header().Type)
	require.Equal(t, transaction.AggregateBondedType, txs[1].Header().Type)

	require.Len(t, reqs.requests(), 1)
	var body map[string][]string
	require.NoError(t, json.Unmarshal([]byte(reqs.requests()[0].body), &body))
	require.Equal(t, map[string][]string{"transactionIds": {transferHash, bondedHash}}, body)

	// The confirmed one got cached.
	txs[0].Header().MaxFee++
	cached, err := c.GetTransaction(transferHash)
	require.NoError(t, err)
	require.NotSame(t, txs[0], cached)
	require.Equal(t, txs[0].Header().MaxFee-1, cached.Header().MaxFee)
	require.Len(t, reqs.requests(), 1)

	_, err = c.GetTransactions(nil)
	require.Error(t, err)
	_, err = c.GetTransactions([]string{transferHash, "zz"})
	require.ErrorIs(t, err, transaction.ErrInvalidHashEncoding)
	require.Len(t, reqs.requests(), 1)
}

func TestGetTransactionStatus(t *testing.T) {
	status := string(readFixture(t, "status.json"))
	srv, reqs := testServer(t, map[string]string{
		"GET /transaction/" + transferHash + "/status": status,
		"POST /transaction/statuses":                   `[` + status + `]`,
	})
	c := newTestClient(t, srv.URL, Options{})

	s, err := c.GetTransactionStatus(transferHash)
	require.NoError(t, err)
	require.Equal(t, transaction.GroupConfirmed, s.Group)
	require.Equal(t, transferHash, s.Hash.String())

	list, err := c.GetTransactionStatuses([]string{transferHash})
	require.NoError(t, err)
	require.Equal(t, []*transaction.TransactionStatus{s}, list)
	require.JSONEq(t, `{"hashes":["`+transferHash+`"]}`, reqs.requests()[1].body)
}

func TestMetrics(t *testing.T) {
	srv, _ := testServer(t, map[string]string{"GET /block/1": nemesisBlockJSON})
	reg := prometheus.NewRegistry()
	c := newTestClient(t, srv.URL, Options{Registerer: reg})
	require.NoError(t, c.Init())
	_, err := c.GetTransaction(transferHash)
	require.True(t, IsNotFound(err))

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	require.Equal(t, "sirius_rest_request_duration_seconds", families[0].GetName())
	routes := make(map[string]uint64)
	for _, m := range families[0].GetMetric() {
		var method, route string
		for _, l := range m.GetLabel() {
			switch l.GetName() {
			case "method":
				method = l.GetValue()
			case "route":
				route = l.GetValue()
			}
		}
		routes[method+" "+route] = m.GetHistogram().GetSampleCount()
	}
	require.Equal(t, map[string]uint64{
		"GET /block/{height}":     1,
		"GET /transaction/{hash}": 1,
	}, routes)

	// The same registry can't take the metrics twice.
	_, err = New(context.Background(), srv.URL, Options{Registerer: reg})
	require.Error(t, err)
}

func TestConcurrentGetters(t *testing.T) {
	srv, _ := testServer(t, map[string]string{"GET /block/1": nemesisBlockJSON})
	c := newTestClient(t, srv.URL, Options{})
	require.NoError(t, c.Init())

	var ok atomic.Int32
	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		go func() {
			if h, err := c.GenerationHash(); err == nil && h == genHash {
				ok.Add(1)
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 4; i++ {
		<-done
	}
	require.Equal(t, int32(4), ok.Load())
}
