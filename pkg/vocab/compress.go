package vocab

import (
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression of a vocab source, chosen by file extension.
type Compression string

const (
	CompressionNone Compression = ""
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
)

func compressionOf(source string) Compression {
	name := source
	if isRemote(source) {
		if u, err := url.Parse(source); err == nil {
			name = u.Path
		}
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".gz":
		return CompressionGzip
	case ".zst", ".zstd":
		return CompressionZstd
	default:
		return CompressionNone
	}
}

// decompress wraps rc; closing the result closes rc.
func decompress(rc io.ReadCloser, c Compression) (io.ReadCloser, error) {
	switch c {
	case CompressionGzip:
		zr, err := gzip.NewReader(rc)
		if err != nil {
			rc.Close()
			return nil, fmt.Errorf("open gzip vocab: %w", err)
		}
		return &stackedCloser{Reader: zr, closers: []io.Closer{zr, rc}}, nil
	case CompressionZstd:
		zr, err := zstd.NewReader(rc)
		if err != nil {
			rc.Close()
			return nil, fmt.Errorf("open zstd vocab: %w", err)
		}
		return &stackedCloser{Reader: zr, closers: []io.Closer{zstdCloser{zr}, rc}}, nil
	default:
		return rc, nil
	}
}

type stackedCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedCloser) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type zstdCloser struct{ d *zstd.Decoder }

func (z zstdCloser) Close() error {
	z.d.Close()
	return nil
}
