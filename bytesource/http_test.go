package bytesource

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
)

// rangeServer serves body and honours Range headers and HEAD requests, just
// enough to exercise httpRangeSource without a real object store.
func rangeServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.Header().Set("Content-Length", strconv.Itoa(len(body)))
			w.WriteHeader(http.StatusOK)
			return
		}

		rng := r.Header.Get("Range")
		if rng == "" {
			w.Write([]byte(body))
			return
		}
		rng = strings.TrimPrefix(rng, "bytes=")
		parts := strings.SplitN(rng, "-", 2)
		start, _ := strconv.Atoi(parts[0])
		end := len(body) - 1
		if parts[1] != "" {
			end, _ = strconv.Atoi(parts[1])
		}
		if end >= len(body) {
			end = len(body) - 1
		}
		w.Header().Set("Content-Range", "bytes "+rng+"/"+strconv.Itoa(len(body)))
		w.WriteHeader(http.StatusPartialContent)
		w.Write([]byte(body[start : end+1]))
	}))
}

func TestHTTPRangeSourceReadAt(t *testing.T) {
	body := "0123456789abcdefghij"
	srv := rangeServer(t, body)
	defer srv.Close()

	src, err := NewHTTPRangeSource(srv.URL, nil)
	if err != nil {
		t.Fatalf("NewHTTPRangeSource: %v", err)
	}
	defer src.Close()

	dest := make([]byte, 5)
	n, err := src.ReadAt(dest, 10)
	if err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if n != 5 || string(dest) != "abcde" {
		t.Fatalf("got %q (n=%d), want %q", dest[:n], n, "abcde")
	}
}

func TestHTTPRangeSourceSeekAndRead(t *testing.T) {
	body := "the quick brown fox jumps over the lazy dog"
	srv := rangeServer(t, body)
	defer srv.Close()

	src, err := NewHTTPRangeSource(srv.URL, nil)
	if err != nil {
		t.Fatalf("NewHTTPRangeSource: %v", err)
	}
	defer src.Close()

	if pos, err := src.Seek(4, SeekStart); err != nil || pos != 4 {
		t.Fatalf("Seek: pos=%d err=%v", pos, err)
	}

	dest := make([]byte, 5)
	n, err := src.Read(dest)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != 5 || string(dest) != "quick" {
		t.Fatalf("got %q (n=%d), want %q", dest[:n], n, "quick")
	}
}

func TestHTTPRangeSourceUnreachable(t *testing.T) {
	if _, err := NewHTTPRangeSource("http://127.0.0.1:1/does-not-exist", nil); err != ErrFileNotFound {
		t.Fatalf("expected ErrFileNotFound for unreachable host, got %v", err)
	}
}
