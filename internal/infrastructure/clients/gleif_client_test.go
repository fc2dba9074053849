package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert8597/swifthackathon/pkg/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *gleifClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewGleifClient(config.GleifConfig{
		BaseURL: srv.URL,
		APIPath: "/api/v1/lei-records/",
		Timeout: 2 * time.Second,
	}, zerolog.Nop())
	return client.(*gleifClient)
}

func TestLookupLEISuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/lei-records/7LTWFZYICNSX8D621K86", r.URL.Path)
		assert.Equal(t, "application/vnd.api+json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/vnd.api+json")
		w.Write([]byte(`{
			"data": {
				"attributes": {
					"entity": {
						"status": "ACTIVE",
						"legalName": {"name": "DEUTSCHE BANK AKTIENGESELLSCHAFT", "language": "de"}
					},
					"bic": ["DEUTDEFFXXX", "DEUTDEFF500"]
				}
			}
		}`))
	})

	record, err := client.LookupLEI(context.Background(), "7LTWFZYICNSX8D621K86")
	require.NoError(t, err)
	assert.Equal(t, "7LTWFZYICNSX8D621K86", record.LEI)
	assert.Equal(t, "ACTIVE", record.Status)
	assert.Equal(t, "DEUTSCHE BANK AKTIENGESELLSCHAFT", record.LegalName)
	assert.Equal(t, []string{"DEUTDEFFXXX", "DEUTDEFF500"}, record.BICs)
}

func TestLookupLEINotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"errors":[{"status":"404"}]}`))
	})

	_, err := client.LookupLEI(context.Background(), "549300UNKNOWN0000000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestLookupLEIMalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": not json`))
	})

	_, err := client.LookupLEI(context.Background(), "5299000J2N45DDNE4Y28")
	require.Error(t, err)
}

func TestLookupLEIEmptyData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": null}`))
	})

	_, err := client.LookupLEI(context.Background(), "5299000J2N45DDNE4Y28")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data")
}

func TestLookupLEITransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewGleifClient(config.GleifConfig{
		BaseURL: srv.URL,
		APIPath: "/api/v1/lei-records/",
		Timeout: time.Second,
	}, zerolog.Nop())

	_, err := client.LookupLEI(context.Background(), "5299000J2N45DDNE4Y28")
	require.Error(t, err)
}
