package media

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/deepnoodle-ai/adforge/log"
)

const DefaultOutputDir = "output"

var DefaultDownloadClient = &http.Client{Timeout: 10 * time.Minute}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// Downloader streams completed render assets into an output directory.
type Downloader struct {
	Client *http.Client
	Dir    string
	Logger log.Logger
}

// Path returns the deterministic local path for a job's asset. IDs that
// need sanitizing get a short hash of the raw ID so distinct IDs never share
// a file.
func (d *Downloader) Path(jobID string) string {
	dir := d.Dir
	if dir == "" {
		dir = DefaultOutputDir
	}
	name := unsafeFileChars.ReplaceAllString(jobID, "_")
	if name != jobID {
		sum := sha256.Sum256([]byte(jobID))
		name = fmt.Sprintf("%s-%x", name, sum[:4])
	}
	if name == "" {
		name = "unknown"
	}
	return filepath.Join(dir, fmt.Sprintf("video_%s.mp4", name))
}

// Download fetches url and writes it to Path(jobID). The file appears at its
// final path only after the body has been fully written and synced; a failed
// download leaves nothing behind.
func (d *Downloader) Download(ctx context.Context, url, jobID string) (string, error) {
	if url == "" {
		return "", &DownloadError{Err: fmt.Errorf("empty url")}
	}
	client := d.Client
	if client == nil {
		client = DefaultDownloadClient
	}
	logger := d.Logger
	if logger == nil {
		logger = log.NewNullLogger()
	}
	dest := d.Path(jobID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &DownloadError{URL: url, Err: err}
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", &DownloadError{URL: url, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &DownloadError{URL: url, StatusCode: resp.StatusCode}
	}

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &LocalIOError{Op: "create directory", Path: dir, Err: err}
	}
	tmp, err := os.CreateTemp(dir, ".video-*.part")
	if err != nil {
		return "", &LocalIOError{Op: "create", Path: dir, Err: err}
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	w := &fileWriter{f: tmp}
	written, err := io.Copy(w, resp.Body)
	if err != nil {
		if w.err != nil {
			return "", &LocalIOError{Op: "write", Path: tmpPath, Err: w.err}
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &DownloadError{URL: url, Err: err}
	}
	if resp.ContentLength >= 0 && written != resp.ContentLength {
		return "", &DownloadError{URL: url, Err: fmt.Errorf("short body: got %d of %d bytes", written, resp.ContentLength)}
	}
	if err := tmp.Sync(); err != nil {
		return "", &LocalIOError{Op: "sync", Path: tmpPath, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return "", &LocalIOError{Op: "close", Path: tmpPath, Err: err}
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		committed = true
		return "", &LocalIOError{Op: "rename", Path: dest, Err: err}
	}
	committed = true

	logger.Info("video downloaded", "job_id", jobID, "path", dest, "bytes", written)
	return dest, nil
}

// fileWriter remembers write errors so they can be told apart from errors
// reading the response body.
type fileWriter struct {
	f   *os.File
	err error
}

func (w *fileWriter) Write(p []byte) (int, error) {
	n, err := w.f.Write(p)
	if err != nil {
		w.err = err
	}
	return n, err
}
