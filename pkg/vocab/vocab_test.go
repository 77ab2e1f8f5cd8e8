package vocab

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

func init() {
	backoffUnit = time.Millisecond
}

func TestScan(t *testing.T) {
	input := "▁कल\t-3.2\n\n   \nमला 12 extra\n<unk>\t0\n"
	tokens, err := ReadAll(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}

	want := []Token{{1, "▁कल"}, {4, "मला"}, {5, "<unk>"}}
	if len(tokens) != len(want) {
		t.Fatalf("tokens = %v, want %v", tokens, want)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("token %d = %+v, want %+v", i, tokens[i], want[i])
		}
	}
}

func TestScan_StopsOnCallbackError(t *testing.T) {
	stop := errors.New("stop")
	var seen int
	err := Scan(strings.NewReader("a\nb\nc\n"), func(Token) error {
		seen++
		if seen == 2 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Fatalf("err = %v, want stop", err)
	}
	if seen != 2 {
		t.Errorf("seen = %d, want 2", seen)
	}
}

func TestOpen_Local(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.txt")
	os.WriteFile(path, []byte("कल 1\n"), 0o644)

	rc, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "कल 1\n" {
		t.Errorf("content = %q", data)
	}
}

func TestOpen_Missing(t *testing.T) {
	if _, err := Open(context.Background(), filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestOpen_Remote(t *testing.T) {
	content := "▁कल\t-1.0\nमल\t-2.0\n"
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(content))
	}))
	defer ts.Close()

	rc, err := Open(context.Background(), ts.URL+"/hi.vocab")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	tokens, err := ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	name := rc.(*tempFile).Name()
	rc.Close()

	if len(tokens) != 2 || tokens[1].Text != "मल" {
		t.Errorf("tokens = %v", tokens)
	}
	if _, err := os.Stat(name); !os.IsNotExist(err) {
		t.Errorf("temp file %s not removed on Close", name)
	}
}

func TestDownloadFile_Retry(t *testing.T) {
	attempts := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "retry.txt")
	if err := downloadFile(context.Background(), ts.URL, dest); err != nil {
		t.Fatalf("downloadFile with retries: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestDownloadFile_AllFail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "fail.txt")
	if err := downloadFile(context.Background(), ts.URL, dest); err == nil {
		t.Error("expected error after all retries exhausted")
	}
}

func TestOpen_Compressed(t *testing.T) {
	const content = "कल 1\nमला 2\n"
	dir := t.TempDir()

	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	zw.Write([]byte(content))
	zw.Close()
	os.WriteFile(filepath.Join(dir, "vocab.txt.gz"), gz.Bytes(), 0o644)

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(dir, "vocab.txt.zst"), enc.EncodeAll([]byte(content), nil), 0o644)
	enc.Close()

	for _, name := range []string{"vocab.txt.gz", "vocab.txt.zst"} {
		t.Run(name, func(t *testing.T) {
			rc, err := Open(context.Background(), filepath.Join(dir, name))
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer rc.Close()
			tokens, err := ReadAll(rc)
			if err != nil {
				t.Fatalf("ReadAll: %v", err)
			}
			if len(tokens) != 2 || tokens[1].Text != "मला" {
				t.Errorf("tokens = %v", tokens)
			}
		})
	}
}

func TestOpen_CorruptGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.gz")
	os.WriteFile(path, []byte("not gzip"), 0o644)
	if _, err := Open(context.Background(), path); err == nil {
		t.Error("expected error for corrupt gzip")
	}
}

func TestCompressionOf(t *testing.T) {
	tests := []struct {
		source string
		want   Compression
	}{
		{"hi.vocab", CompressionNone},
		{"hi.vocab.GZ", CompressionGzip},
		{"hi.vocab.zst", CompressionZstd},
		{"https://example.org/hi.vocab.gz?sig=abc", CompressionGzip},
	}
	for _, tt := range tests {
		if got := compressionOf(tt.source); got != tt.want {
			t.Errorf("compressionOf(%q) = %q, want %q", tt.source, got, tt.want)
		}
	}
}
