package drive

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestClient(serverURL string) *Client {
	config := DefaultConfig()
	config.BaseURL = serverURL
	config.FolderID = "folder123"
	config.Token = "tok"
	config.Retries = 1
	return NewClientWithConfig(config)
}

func TestFindFile(t *testing.T) {
	var gotQuery, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"files":[{"id":"abc123","name":"49.png"}]}`)
	}))
	defer srv.Close()

	id, err := newTestClient(srv.URL).FindFile(context.Background(), "49.png")
	if err != nil {
		t.Fatalf("FindFile() error = %v", err)
	}
	if id != "abc123" {
		t.Errorf("FindFile() = %q, want abc123", id)
	}
	if !strings.Contains(gotQuery, "name = '49.png'") || !strings.Contains(gotQuery, "'folder123' in parents") {
		t.Errorf("query = %q, want name and folder clauses", gotQuery)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("Authorization = %q, want Bearer tok", gotAuth)
	}
}

func TestFindFileEscapesQuotes(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		fmt.Fprint(w, `{"files":[{"id":"x","name":"o'clock.png"}]}`)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).FindFile(context.Background(), "o'clock.png"); err != nil {
		t.Fatalf("FindFile() error = %v", err)
	}
	if !strings.Contains(gotQuery, `o\'clock.png`) {
		t.Errorf("query = %q, want escaped quote", gotQuery)
	}
}

func TestFindFileNoMatchDoesNotRetry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"files":[]}`)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).FindFile(context.Background(), "missing.png"); err == nil {
		t.Fatal("FindFile() error = nil, want not-found error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on missing file)", calls)
	}
}

func TestDownloadRetriesThenSucceeds(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, "payload")
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "file.bin")
	if err := newTestClient(srv.URL).Download(context.Background(), "abc123", dest); err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading download: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("downloaded content = %q, want payload", data)
	}
}

func TestFetchWritesNamedFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/files/") {
			fmt.Fprint(w, "image-bytes")
			return
		}
		fmt.Fprint(w, `{"files":[{"id":"abc123","name":"51.jpg"}]}`)
	}))
	defer srv.Close()

	dir := t.TempDir()
	path, err := newTestClient(srv.URL).Fetch(context.Background(), "51.jpg", dir)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if path != filepath.Join(dir, "51.jpg") {
		t.Errorf("Fetch() path = %q, want %q", path, filepath.Join(dir, "51.jpg"))
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("fetched file missing: %v", err)
	}
}

func TestDownloadExhaustsRetries(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).Download(context.Background(), "abc123", filepath.Join(t.TempDir(), "f"))
	if err == nil {
		t.Fatal("Download() error = nil, want exhausted retries")
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}
