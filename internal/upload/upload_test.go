package upload

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestUpload_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parsing form: %v", err)
		}
		if got := r.FormValue("reqtype"); got != "fileupload" {
			t.Errorf("reqtype = %q", got)
		}
		f, hdr, err := r.FormFile("fileToUpload")
		if err != nil {
			t.Fatalf("fileToUpload missing: %v", err)
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		if hdr.Filename != "theme.json" || string(data) != `{"name":"x"}` {
			t.Errorf("file = %s %s", hdr.Filename, data)
		}
		w.Write([]byte("https://files.catbox.moe/abc123.json\n"))
	}))
	defer server.Close()

	c := New(WithHTTPClient(server.Client()), WithEndpoint(server.URL))
	url, err := c.Upload(context.Background(), "theme.json", []byte(`{"name":"x"}`))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if url != "https://files.catbox.moe/abc123.json" {
		t.Errorf("url = %q", url)
	}
}

func TestUpload_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		reply   string
		wantErr func(error) bool
	}{
		{"server error", http.StatusInternalServerError, "", func(err error) bool {
			var e *Error
			return errors.As(err, &e) && e.Status == http.StatusInternalServerError
		}},
		{"reply not a url", http.StatusOK, "Internal error, try later", func(err error) bool {
			return errors.Is(err, ErrInvalidReply)
		}},
		{"empty reply", http.StatusOK, "", func(err error) bool {
			return errors.Is(err, ErrInvalidReply)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.reply))
			}))
			defer server.Close()

			c := New(WithHTTPClient(server.Client()), WithEndpoint(server.URL))
			_, err := c.Upload(context.Background(), "theme.json", []byte("{}"))
			if err == nil || !tt.wantErr(err) {
				t.Errorf("err = %v", err)
			}
		})
	}
}

func TestUpload_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	c := New(WithEndpoint(endpoint))
	_, err := c.Upload(context.Background(), "theme.json", []byte("{}"))
	var e *Error
	if !errors.As(err, &e) || e.Err == nil {
		t.Errorf("err = %v, want transport *Error", err)
	}
}

func TestUpload_EmptyPayload(t *testing.T) {
	if _, err := New().Upload(context.Background(), "x", nil); err == nil {
		t.Error("expected error for empty payload")
	}
}
