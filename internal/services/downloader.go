package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DocumentDownloader fetches document bytes from a time-limited signed URL.
// Any non-2xx response or transport error classifies as DOWNLOAD_FAILED,
// which is distinct from extraction failures.
type DocumentDownloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

type documentDownloader struct {
	client   *http.Client
	maxBytes int64
}

func NewDocumentDownloader(timeout time.Duration, maxBytes int64) DocumentDownloader {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &documentDownloader{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
	}
}

func (d *documentDownloader) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errWithCode(CodeDownloadFailed, fmt.Errorf("invalid document url: %w", err))
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, errWithCode(CodeDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errWithCode(CodeDownloadFailed, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, d.maxBytes))
	if err != nil {
		return nil, errWithCode(CodeDownloadFailed, err)
	}

	return data, nil
}
