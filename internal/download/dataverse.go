package download

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultBaseURL is the Harvard Dataverse instance hosting PrimeKG
	DefaultBaseURL = "https://dataverse.harvard.edu"
	// DefaultDOI identifies the PrimeKG dataset
	DefaultDOI = "10.7910/DVN/IXA7BM"

	userAgent = "kgx-downloader/1.0"
)

// Client downloads dataset files from a Dataverse instance
type Client struct {
	BaseURL string
	DOI     string
	Dest    string
	HTTP    *http.Client
	Logger  *slog.Logger
}

// NewClient builds a downloader for one dataset DOI writing into dest. A nil
// logger falls back to the process default.
func NewClient(doi, dest string, logger *slog.Logger) *Client {
	if doi == "" {
		doi = DefaultDOI
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		BaseURL: DefaultBaseURL,
		DOI:     doi,
		Dest:    dest,
		HTTP:    http.DefaultClient,
		Logger:  logger,
	}
}

// RemoteFile is one downloadable file in the dataset listing
type RemoteFile struct {
	Label string
	Size  int64
	ID    int64
}

// Result records the outcome for one listed file
type Result struct {
	Label string
	Path  string // empty when the download failed
	Err   error
}

// ListFiles retrieves the latest version's file listing for the DOI
func (c *Client) ListFiles(ctx context.Context) ([]RemoteFile, error) {
	url := fmt.Sprintf("%s/api/datasets/:persistentId/versions/:latest/files?persistentId=doi:%s",
		c.BaseURL, c.DOI)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building list request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listing files for doi:%s: %w", c.DOI, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing files for doi:%s: %s", c.DOI, resp.Status)
	}

	var listing struct {
		Data []struct {
			Label    string `json:"label"`
			Size     int64  `json:"size"`
			DataFile struct {
				ID int64 `json:"id"`
			} `json:"dataFile"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decoding file listing: %w", err)
	}

	files := make([]RemoteFile, 0, len(listing.Data))
	for _, f := range listing.Data {
		files = append(files, RemoteFile{Label: f.Label, Size: f.Size, ID: f.DataFile.ID})
	}
	return files, nil
}

// Fetch downloads one file into Dest. An existing file whose size matches
// the listing is left alone. The body streams to a temporary sibling that
// is renamed only after the size check passes.
func (c *Client) Fetch(ctx context.Context, rf RemoteFile) (string, error) {
	if rf.ID == 0 {
		return "", fmt.Errorf("%s: listing has no file id", rf.Label)
	}

	savePath := filepath.Join(c.Dest, rf.Label)
	if info, err := os.Stat(savePath); err == nil && rf.Size > 0 {
		if info.Size() == rf.Size {
			c.Logger.Info("already downloaded, skipping", "file", rf.Label)
			return savePath, nil
		}
		c.Logger.Warn("size mismatch, re-downloading", "file", rf.Label,
			"have", info.Size(), "want", rf.Size)
	}

	url := fmt.Sprintf("%s/api/access/datafile/%d", c.BaseURL, rf.ID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building download request for %s: %w", rf.Label, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", rf.Label, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading %s: %s", rf.Label, resp.Status)
	}
	// an HTML body means an error page, not data
	if strings.Contains(resp.Header.Get("Content-Type"), "html") {
		return "", fmt.Errorf("downloading %s: got an HTML page instead of data", rf.Label)
	}

	tmpPath := savePath + ".tmp"
	out, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", tmpPath, err)
	}

	written, err := io.Copy(out, resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing %s: %w", rf.Label, err)
	}
	if rf.Size > 0 && written != rf.Size {
		os.Remove(tmpPath)
		return "", fmt.Errorf("%s: size mismatch, expected %d got %d", rf.Label, rf.Size, written)
	}

	if err := os.Rename(tmpPath, savePath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("finalizing %s: %w", rf.Label, err)
	}
	c.Logger.Info("saved", "file", rf.Label, "bytes", written)
	return savePath, nil
}

// Run downloads every listed file and converts tab-separated files to CSV.
// A failed file is recorded and skipped; the rest of the session continues.
func (c *Client) Run(ctx context.Context) ([]Result, error) {
	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		return nil, fmt.Errorf("creating destination: %w", err)
	}

	files, err := c.ListFiles(ctx)
	if err != nil {
		return nil, err
	}
	c.Logger.Info("file listing fetched", "doi", c.DOI, "files", len(files))

	results := make([]Result, 0, len(files))
	for _, rf := range files {
		path, err := c.Fetch(ctx, rf)
		if err != nil {
			c.Logger.Error("download failed", "file", rf.Label, "error", err)
			results = append(results, Result{Label: rf.Label, Err: err})
			continue
		}
		results = append(results, Result{Label: rf.Label, Path: path})
	}

	converted, err := c.ConvertTabs()
	if err != nil {
		return results, err
	}
	if len(converted) > 0 {
		c.Logger.Info("converted tab files", "count", len(converted))
	}
	return results, nil
}
