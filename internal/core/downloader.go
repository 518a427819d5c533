package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"mhwmm/internal/domain"
)

// ErrDownloadFailed is returned when the server does not answer 200 OK
var ErrDownloadFailed = errors.New("download failed")

// DownloadProgress is reported while an archive is fetched
type DownloadProgress struct {
	TotalBytes int64 // 0 when the server sent no length
	Downloaded int64
	Percentage float64
}

// ProgressFunc receives download progress updates
type ProgressFunc func(DownloadProgress)

// DownloadResult describes a fetched archive
type DownloadResult struct {
	Path   string
	Size   int64
	SHA256 string
}

// Downloader fetches mod archives over HTTP so they can be installed like
// local files.
type Downloader struct {
	httpClient *http.Client
}

// NewDownloader creates a Downloader. A nil client uses http.DefaultClient.
func NewDownloader(httpClient *http.Client) *Downloader {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Downloader{httpClient: httpClient}
}

// IsRemoteArchive reports whether s is an http or https URL
func IsRemoteArchive(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Fetch downloads rawURL into destDir. The file keeps the name the server
// suggests, falling back to the last URL segment, so archive name parsing
// still works on the result.
func (d *Downloader) Fetch(ctx context.Context, rawURL, destDir string, progressFn ProgressFunc) (*DownloadResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, domain.IOFailure("download", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.IOFailure("download", rawURL, fmt.Errorf("%w: %s", ErrDownloadFailed, resp.Status))
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, domain.IOFailure("create download directory", destDir, err)
	}
	destPath := filepath.Join(destDir, downloadName(resp, rawURL))

	tempPath := destPath + ".part"
	file, err := os.Create(tempPath)
	if err != nil {
		return nil, domain.IOFailure("create download file", tempPath, err)
	}
	defer func() {
		file.Close()
		os.Remove(tempPath)
	}()

	hasher := sha256.New()
	reader := &progressReader{
		reader:     resp.Body,
		totalBytes: resp.ContentLength,
		progressFn: progressFn,
	}

	written, err := io.Copy(file, io.TeeReader(reader, hasher))
	if err != nil {
		return nil, domain.IOFailure("download", rawURL, err)
	}
	if err := file.Close(); err != nil {
		return nil, domain.IOFailure("write download", tempPath, err)
	}
	if err := os.Rename(tempPath, destPath); err != nil {
		return nil, domain.IOFailure("rename download", destPath, err)
	}

	return &DownloadResult{
		Path:   destPath,
		Size:   written,
		SHA256: hex.EncodeToString(hasher.Sum(nil)),
	}, nil
}

// downloadName picks a safe base name for a fetched archive
func downloadName(resp *http.Response, rawURL string) string {
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		if name := safeBase(params["filename"]); name != "" {
			return name
		}
	}
	if u, err := url.Parse(rawURL); err == nil {
		if name := safeBase(path.Base(u.Path)); name != "" {
			return name
		}
	}
	return "archive.zip"
}

func safeBase(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	switch name {
	case "", ".", "..", "/":
		return ""
	}
	return name
}

type progressReader struct {
	reader     io.Reader
	totalBytes int64
	downloaded int64
	progressFn ProgressFunc
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.downloaded += int64(n)
		if r.progressFn != nil {
			progress := DownloadProgress{
				TotalBytes: r.totalBytes,
				Downloaded: r.downloaded,
			}
			if r.totalBytes > 0 {
				progress.Percentage = float64(r.downloaded) / float64(r.totalBytes) * 100
			}
			r.progressFn(progress)
		}
	}
	return n, err
}
