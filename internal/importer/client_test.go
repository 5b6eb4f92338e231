package importer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/junwei-lu/tradescan/constants"
)

func TestClientImport(t *testing.T) {
	t.Parallel()

	var body struct {
		Kind      string            `json:"kind"`
		Records   []json.RawMessage `json:"records"`
		RequestID string            `json:"request_id"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/import", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, body.RequestID, r.Header.Get("Idempotency-Key"))
		_, _ = w.Write([]byte(`{"success":true,"results":{"success":1,"failed":1,"errors":["row 2: bad"]}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second, nil)
	out, err := c.Import(context.Background(), constants.StockOut, validRecords(2), "req-abc")
	require.NoError(t, err)
	require.Equal(t, "STOCK_OUT", body.Kind)
	require.Len(t, body.Records, 2)
	require.Equal(t, "req-abc", body.RequestID)
	require.Equal(t, 1, out.Success)
	require.Equal(t, 1, out.Failed)
	require.Equal(t, []string{"row 2: bad"}, out.Errors)
}

func TestClientImportRejected(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"results":{"success":0,"failed":0}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second, nil)
	_, err := c.Import(context.Background(), constants.StockOut, validRecords(1), "req-abc")
	require.Error(t, err)
}

func TestClientImportServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second, nil)
	_, err := c.Import(context.Background(), constants.StockOut, validRecords(1), "req-abc")
	require.Error(t, err)
}
