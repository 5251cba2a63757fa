package nfce

import (
	"NotaScan-Backend/domain"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAccessKey = "35260811222333000144650010001234561000123456"

func newTestFetcher(portalURL string) *portalFetcher {
	return &portalFetcher{
		client:    &http.Client{Timeout: 2 * time.Second},
		portalURL: portalURL,
	}
}

func TestExtractAccessKey(t *testing.T) {
	inURL := "https://portal.fazenda.gov.br/qrcode?p=" + testAccessKey + "|2|1|1|ABC"
	assert.Equal(t, testAccessKey, ExtractAccessKey(inURL))
	assert.Equal(t, testAccessKey, ExtractAccessKey(testAccessKey))
	assert.Equal(t, "", ExtractAccessKey("no digits here"))
	assert.Equal(t, "", ExtractAccessKey("123456"))
}

func TestFetchFullURLPassthrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<NFe></NFe>"))
	}))
	defer server.Close()

	body, err := newTestFetcher("").Fetch(context.Background(), server.URL+"/doc")
	require.NoError(t, err)
	assert.Equal(t, "<NFe></NFe>", string(body))
}

func TestFetchResolvesAccessKeyAgainstPortal(t *testing.T) {
	var requestedQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedQuery = r.URL.RawQuery
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	_, err := newTestFetcher(server.URL).Fetch(context.Background(), testAccessKey)
	require.NoError(t, err)
	assert.True(t, strings.Contains(requestedQuery, "chNFe="+testAccessKey))
}

func TestFetchRejectsUnresolvablePayload(t *testing.T) {
	// No URL, no 44-digit key, no portal configured.
	_, err := newTestFetcher("").Fetch(context.Background(), "gibberish payload")
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestFetchNotFoundIsInvalidPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestFetcher("").Fetch(context.Background(), server.URL)
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestFetchServerErrorIsUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestFetcher("").Fetch(context.Background(), server.URL)
	assert.ErrorIs(t, err, domain.ErrUnreachableSource)
}

func TestFetchNetworkFailureIsUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := server.URL
	server.Close()

	_, err := newTestFetcher("").Fetch(context.Background(), target)
	assert.ErrorIs(t, err, domain.ErrUnreachableSource)
}
