package download

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanlake/oceanlake/catalog"
)

func TestReleaseCodename(t *testing.T) {
	tests := []struct {
		name    string
		db      string
		domain  catalog.Domain
		qcOnly  bool
		want    string
		wantErr bool
	}{
		{name: "argo phy qc", db: "ARGO", domain: catalog.PHY, qcOnly: true, want: "1006_PHY_ARGO-QC"},
		{name: "argo bgc full", db: "ARGO", domain: catalog.BGC, qcOnly: false, want: "1007_BGC_ARGO-FULL"},
		{name: "glodap phy qc", db: "GLODAP", domain: catalog.PHY, qcOnly: true, want: "1016_PHY_GLODAP-QC"},
		{name: "spray phy qc", db: "SprayGliders", domain: catalog.PHY, qcOnly: true, want: "1026_PHY_SPRAY-QC"},
		{name: "spray has no bgc release", db: "SprayGliders", domain: catalog.BGC, qcOnly: true, wantErr: true},
		{name: "spray has no full release", db: "SprayGliders", domain: catalog.PHY, qcOnly: false, wantErr: true},
		{name: "unknown database", db: "WOD", domain: catalog.PHY, qcOnly: true, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReleaseCodename(tt.db, tt.domain, tt.qcOnly)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func releaseZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestFetchDownloadsAndUnpacks(t *testing.T) {
	archive := releaseZip(t, map[string]string{
		"_common_metadata": "stub",
		"part.0.parquet":   "stub",
	})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/1006_PHY_ARGO-QC.zip" {
			http.NotFound(w, r)
			return
		}
		w.Write(archive)
	}))
	defer server.Close()

	dest := t.TempDir()
	client := &Client{BaseURL: server.URL}
	dir, err := client.Fetch(context.Background(), "ARGO", catalog.PHY, true, dest)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "1006_PHY_ARGO-QC"), dir)

	_, err = os.Stat(filepath.Join(dir, "_common_metadata"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "part.0.parquet"))
	assert.NoError(t, err)

	// The intermediate archive is cleaned up.
	_, err = os.Stat(filepath.Join(dest, "1006_PHY_ARGO-QC.zip"))
	assert.True(t, os.IsNotExist(err))
}

func TestFetchSurfacesHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := &Client{BaseURL: server.URL}
	_, err := client.Fetch(context.Background(), "GLODAP", catalog.PHY, true, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
