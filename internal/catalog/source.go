// Package catalog reads the static project data file and hands each view its own
// load result.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"tcorea.dev/internal/models"
)

// DataPath is the fixed path the data file is served under
const DataPath = "/data.json"

// ErrFetch marks transport-level failures reading the data source
var ErrFetch = errors.New("failed to fetch data")

// Source produces the catalog. Implementations perform one read per call.
type Source interface {
	Fetch(ctx context.Context) (*models.ProjectList, error)
}

// FileSource reads the data file from local disk
type FileSource struct {
	Path string
}

// NewFileSource creates a FileSource for path
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Fetch reads and parses the data file
func (s *FileSource) Fetch(ctx context.Context) (*models.ProjectList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	return Parse(data)
}

// HTTPSource fetches the data file with a GET against BaseURL + DataPath
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPSource creates an HTTPSource. A nil client gets a 10s timeout.
func NewHTTPSource(baseURL string, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  client,
	}
}

// Fetch issues a single GET; it never retries
func (s *HTTPSource) Fetch(ctx context.Context) (*models.ProjectList, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+DataPath, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrFetch, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	return Parse(data)
}

// Parse decodes the data file. A document without a projects array is rejected.
func Parse(data []byte) (*models.ProjectList, error) {
	var raw struct {
		Projects *[]models.Project `json:"projects"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse data file: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("failed to parse data file: unexpected data after the document")
	}
	if raw.Projects == nil {
		return nil, errors.New("failed to parse data file: missing \"projects\" array")
	}

	list := &models.ProjectList{Projects: *raw.Projects}
	for i := range list.Projects {
		if list.Projects[i].Images == nil {
			list.Projects[i].Images = []string{}
		}
	}
	return list, nil
}
