package loader

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// pngBytes encodes a w×h PNG for test servers to return.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func TestLoad_PNG(t *testing.T) {
	body := pngBytes(t, 320, 200)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(body) //nolint:errcheck
	}))
	defer srv.Close()

	l := NewHTTP(5*time.Second, 0)
	info, err := l.Load(context.Background(), srv.URL+"/pic.png")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if info.Width != 320 || info.Height != 200 {
		t.Errorf("dimensions: got %dx%d, want 320x200", info.Width, info.Height)
	}
	if info.ContentType != "image/png" {
		t.Errorf("content type: got %q, want image/png", info.ContentType)
	}
	if info.Elapsed <= 0 {
		t.Error("Elapsed: got 0, want positive")
	}
}

func TestLoad_SVG_NoDimensions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml; charset=utf-8")
		w.Write([]byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`)) //nolint:errcheck
	}))
	defer srv.Close()

	l := NewHTTP(5*time.Second, 0)
	info, err := l.Load(context.Background(), srv.URL+"/vector.svg")
	if err != nil {
		t.Fatalf("Load svg: %v", err)
	}
	if info.Width != 0 || info.Height != 0 {
		t.Errorf("svg dimensions: got %dx%d, want 0x0", info.Width, info.Height)
	}
}

func TestLoad_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	l := NewHTTP(5*time.Second, 0)
	if _, err := l.Load(context.Background(), srv.URL+"/gone.png"); err == nil {
		t.Fatal("Load on 404: expected error, got nil")
	}
}

func TestLoad_NotAnImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>not an image</html>")) //nolint:errcheck
	}))
	defer srv.Close()

	l := NewHTTP(5*time.Second, 0)
	if _, err := l.Load(context.Background(), srv.URL+"/page.png"); err == nil {
		t.Fatal("Load on html body: expected decode error, got nil")
	}
}

func TestLoad_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := NewHTTP(5*time.Second, 0)
	if _, err := l.Load(ctx, srv.URL+"/slow.png"); err == nil {
		t.Fatal("Load with cancelled context: expected error, got nil")
	}
}

func TestLoad_Unreachable(t *testing.T) {
	l := NewHTTP(200*time.Millisecond, 0)
	if _, err := l.Load(context.Background(), "http://127.0.0.1:1/x.png"); err == nil {
		t.Fatal("Load on unreachable host: expected error, got nil")
	}
}
