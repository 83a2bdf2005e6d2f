package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/cratesup/cratesup/internal/app/resolve"
	"github.com/cratesup/cratesup/internal/domain"
)

const DefaultIndexURL = "https://index.crates.io"

// crates.io's git index URL, as older cargo versions record it in the
// manifest. It has a sparse mirror, so lookups go there instead of git.
const gitIndexURL = "https://github.com/rust-lang/crates.io-index"

const userAgent = "cratesup (https://github.com/cratesup/cratesup)"

// Client queries a sparse crate index over HTTP. Each index file is a
// sequence of JSON objects, one published version per line, oldest first.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultIndexURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

type indexEntry struct {
	Vers   string `json:"vers"`
	Yanked bool   `json:"yanked"`
}

// Versions fetches every published version of the named crate from the
// registry recorded for it, falling back to the default index.
func (c *Client) Versions(ctx context.Context, name, indexURL string) ([]domain.RegistryVersion, error) {
	path, err := indexPath(name)
	if err != nil {
		return nil, err
	}

	url := c.baseFor(indexURL) + "/" + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build index request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query index for %s: %w", name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, fmt.Errorf("crate %s: %w", name, resolve.ErrPackageNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("query index for %s: unexpected status %d", name, resp.StatusCode)
	}

	return decodeVersions(resp.Body, name)
}

// baseFor picks the index base for one crate: its recorded registry URL,
// with the crates.io git index mapped onto the sparse default.
func (c *Client) baseFor(indexURL string) string {
	indexURL = strings.TrimSuffix(strings.TrimSpace(indexURL), "/")
	if indexURL == "" || indexURL == gitIndexURL {
		return c.baseURL
	}
	return indexURL
}

func decodeVersions(body io.Reader, name string) ([]domain.RegistryVersion, error) {
	dec := jsontext.NewDecoder(body)

	var versions []domain.RegistryVersion
	for {
		var entry indexEntry
		err := json.UnmarshalDecode(dec, &entry)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode index entry for %s: %w", name, err)
		}
		versions = append(versions, domain.RegistryVersion{Vers: entry.Vers, Yanked: entry.Yanked})
	}

	if len(versions) == 0 {
		return nil, fmt.Errorf("crate %s: empty index file", name)
	}
	return versions, nil
}

// indexPath derives the sparse-index file path for a crate name: one- and
// two-letter names live under `1/` and `2/`, three-letter names under
// `3/<first letter>/`, everything else under `<c1c2>/<c3c4>/`.
func indexPath(name string) (string, error) {
	switch len(name) {
	case 0:
		return "", errors.New("crate name is empty")
	case 1:
		return "1/" + name, nil
	case 2:
		return "2/" + name, nil
	case 3:
		return "3/" + name[:1] + "/" + name, nil
	default:
		return name[:2] + "/" + name[2:4] + "/" + name, nil
	}
}
