// CLAUDE:SUMMARY Opens vocab sources: local files, or http(s) URLs downloaded with retries to a temp file, decompressing .gz and .zst.
package vocab

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Open returns a reader for source, which is a local path or an http(s) URL.
// Remote sources are downloaded to a temporary file first; closing the reader
// removes it. Sources ending in .gz or .zst are decompressed.
func Open(ctx context.Context, source string) (io.ReadCloser, error) {
	rc, err := openRaw(ctx, source)
	if err != nil {
		return nil, err
	}
	return decompress(rc, compressionOf(source))
}

func openRaw(ctx context.Context, source string) (io.ReadCloser, error) {
	if !isRemote(source) {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open vocab: %w", err)
		}
		return f, nil
	}

	tmp, err := os.CreateTemp("", "shabdkosh-vocab-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmp.Close()
	if err := downloadFile(ctx, source, tmp.Name()); err != nil {
		os.Remove(tmp.Name())
		return nil, err
	}
	f, err := os.Open(tmp.Name())
	if err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("open downloaded vocab: %w", err)
	}
	return &tempFile{File: f}, nil
}

type tempFile struct {
	*os.File
}

func (t *tempFile) Close() error {
	err := t.File.Close()
	os.Remove(t.Name())
	return err
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// downloadFile downloads url to dest with retries and timeout.
func downloadFile(ctx context.Context, url, dest string) error {
	client := &http.Client{Timeout: 10 * time.Minute}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt)) * backoffUnit
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
			continue
		}

		f, err := os.Create(dest)
		if err != nil {
			resp.Body.Close()
			return fmt.Errorf("create file: %w", err)
		}

		_, copyErr := io.Copy(f, resp.Body)
		resp.Body.Close()
		closeErr := f.Close()

		if copyErr != nil {
			lastErr = copyErr
			continue
		}
		if closeErr != nil {
			return closeErr
		}
		return nil
	}
	return fmt.Errorf("download %s failed after 3 attempts: %w", url, lastErr)
}

// backoffUnit scales the retry delay; tests shrink it.
var backoffUnit = time.Second
