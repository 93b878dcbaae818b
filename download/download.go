// Package download fetches published archive releases and unpacks them into
// a local root directory that the loader can then discover sources under.
package download

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/mholt/archiver"
	"github.com/pkg/errors"

	"github.com/oceanlake/oceanlake/catalog"
)

// DefaultBaseURL is where the published releases live.
const DefaultBaseURL = "https://data.oceanlake.org/releases"

// releaseNumbers identify the published archive of each database and domain.
// Not every database publishes both domains.
var releaseNumbers = map[string]map[catalog.Domain]string{
	"ARGO": {
		catalog.PHY: "1006",
		catalog.BGC: "1007",
	},
	"GLODAP": {
		catalog.PHY: "1016",
		catalog.BGC: "1017",
	},
	"SprayGliders": {
		catalog.PHY: "1026",
	},
}

// fullRelease marks the databases that publish a full (non-QC) variant.
var fullRelease = map[string]bool{
	"ARGO":   true,
	"GLODAP": true,
}

// ReleaseCodename resolves the archive name published for a database, domain
// and quality variant.
func ReleaseCodename(db string, domain catalog.Domain, qcOnly bool) (string, error) {
	codename, ok := catalog.Codename(db)
	if !ok {
		return "", errors.Errorf("unknown database '%s'", db)
	}
	number, ok := releaseNumbers[db][domain]
	if !ok {
		return "", errors.Errorf("database %s has no published %s release", db, domain)
	}
	variant := "QC"
	if !qcOnly {
		if !fullRelease[db] {
			return "", errors.Errorf("database %s only publishes a QC release", db)
		}
		variant = "FULL"
	}
	return number + "_" + string(domain) + "_" + codename + "-" + variant, nil
}

// Client downloads release archives.
type Client struct {
	// BaseURL of the release store, DefaultBaseURL when empty.
	BaseURL string
	// HTTPClient to download with, http.DefaultClient when nil.
	HTTPClient *http.Client
}

// Fetch downloads the release archive of a database into dest and unpacks it
// to <dest>/<codename>/. It returns the unpacked directory path.
func (c *Client) Fetch(ctx context.Context, db string, domain catalog.Domain, qcOnly bool, dest string) (string, error) {
	codename, err := ReleaseCodename(db, domain, qcOnly)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dest, os.ModePerm); err != nil {
		return "", errors.Wrap(err, "couldn't create destination directory")
	}

	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	url := baseURL + "/" + codename + ".zip"
	archivePath := filepath.Join(dest, codename+".zip")

	// Anonymous function to take care of defers before we move forward.
	err = func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return errors.Wrap(err, "couldn't create release request")
		}
		client := c.HTTPClient
		if client == nil {
			client = http.DefaultClient
		}
		res, err := client.Do(req)
		if err != nil {
			return errors.Wrap(err, "couldn't get release archive")
		}
		defer res.Body.Close()
		if res.StatusCode != http.StatusOK {
			return errors.Errorf("release store answered %s for %s", res.Status, url)
		}

		f, err := os.Create(archivePath)
		if err != nil {
			return errors.Wrap(err, "couldn't create archive file")
		}
		defer f.Close()

		if _, err := io.Copy(f, res.Body); err != nil {
			return errors.Wrap(err, "couldn't download release archive")
		}
		return nil
	}()
	if err != nil {
		return "", err
	}

	unpackedDir := filepath.Join(dest, codename)
	if err := os.RemoveAll(unpackedDir); err != nil {
		return "", errors.Wrap(err, "couldn't remove old release directory")
	}
	if err := archiver.NewZip().Unarchive(archivePath, unpackedDir); err != nil {
		return "", errors.Wrap(err, "couldn't unarchive release archive")
	}
	if err := os.Remove(archivePath); err != nil {
		return "", errors.Wrap(err, "couldn't remove release archive")
	}

	return unpackedDir, nil
}
