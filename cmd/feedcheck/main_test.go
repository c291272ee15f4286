package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintReport_Fixture(t *testing.T) {
	res, err := decodeFile("../../internal/adapter/usgs/testdata/all_day.geojson")
	require.NoError(t, err)

	var buf bytes.Buffer
	printReport(&buf, res)
	out := buf.String()

	assert.Contains(t, out, "USGS All Earthquakes, Past Day")
	assert.Contains(t, out, "events:  3 (skipped 2)")
	assert.Contains(t, out, "High Magnitude")
	assert.Contains(t, out, "M4.0")
	assert.Contains(t, out, "M6.0")
	assert.NotContains(t, out, "M2.1")
}

func TestDecodeFile_Missing(t *testing.T) {
	_, err := decodeFile("does-not-exist.geojson")
	require.Error(t, err)
}

func TestFetch_UsesFeedClient(t *testing.T) {
	body, err := os.ReadFile("../../internal/adapter/usgs/testdata/all_day.geojson")
	require.NoError(t, err)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	res, err := fetch(srv.URL, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "USGS All Earthquakes, Past Day", res.Title)
	assert.Equal(t, 2, res.Skipped)
}

func TestFetch_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := fetch(srv.URL, 5*time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
