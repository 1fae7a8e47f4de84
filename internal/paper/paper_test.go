package paper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/folio/internal/apperr"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    Version
		str     string
		wantErr bool
	}{
		{in: "1.20", want: Version{1, 20, 0}, str: "1.20"},
		{in: "1.20.4", want: Version{1, 20, 4}, str: "1.20.4"},
		{in: "1.20.0", want: Version{1, 20, 0}, str: "1.20"},
		{in: "1.20.4.9", want: Version{1, 20, 4}, str: "1.20.4"},
		{in: "1", wantErr: true},
		{in: "latest", wantErr: true},
		{in: "1.x", wantErr: true},
		{in: "1.2.x", wantErr: true},
		{in: "1.256", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, err := ParseVersion(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidVersion)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
			assert.Equal(t, tt.str, v.String())
		})
	}
}

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/projects/paper", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"project_id":"paper","versions":["1.19.4","1.20","1.20.4"]}`))
	})
	mux.HandleFunc("/projects/paper/versions/1.20.4", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"version":"1.20.4","builds":[1,2,499]}`))
	})
	mux.HandleFunc("/projects/paper/versions/1.7", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Version not found."}`))
	})
	mux.HandleFunc("/projects/paper/versions/1.8", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLatestDownloadURL(t *testing.T) {
	srv := fakeAPI(t)
	c := NewClient(srv.URL+"/projects/paper/", time.Second)

	v, err := c.LatestVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.20.4", v.String())

	url, err := c.LatestDownloadURL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/projects/paper/versions/1.20.4/builds/499/downloads/paper-1.20.4-499.jar", url)
}

func TestDownloadURL_UpstreamError(t *testing.T) {
	srv := fakeAPI(t)
	c := NewClient(srv.URL+"/projects/paper", time.Second)

	_, err := c.DownloadURL(context.Background(), Version{Major: 1, Minor: 7})
	assert.ErrorIs(t, err, apperr.ErrUpstream)
	assert.Contains(t, err.Error(), "Version not found.")

	_, err = c.DownloadURL(context.Background(), Version{Major: 1, Minor: 8})
	assert.ErrorIs(t, err, apperr.ErrUpstream)
	assert.Contains(t, err.Error(), errBadJSON)
}

func TestDownloadURL_Unreachable(t *testing.T) {
	srv := fakeAPI(t)
	base := srv.URL
	srv.Close()

	_, err := NewClient(base, time.Second).LatestVersion(context.Background())
	assert.ErrorIs(t, err, apperr.ErrUpstream)
	assert.Contains(t, err.Error(), errUnreachable)
}
