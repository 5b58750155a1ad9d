package loader

import (
	"context"
	"fmt"
	"image"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	// Register decoders for the formats the matcher accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Defaults applied when NewHTTP is given non-positive limits.
const (
	DefaultTimeout = 10 * time.Second
	DefaultMaxBody = 20 << 20 // 20 MiB
)

const svgContentType = "image/svg+xml"

// Info is the successful outcome of a load. Width and Height are the image's
// intrinsic dimensions; both are zero for SVG, which has no bitmap header.
type Info struct {
	SourceURL   string
	ContentType string
	Width       int
	Height      int
	Elapsed     time.Duration
}

// Loader is the image loading facility consumed by the preview controller.
type Loader interface {
	Load(ctx context.Context, url string) (Info, error)
}

// HTTPLoader loads images with a shared http.Client.
type HTTPLoader struct {
	client  *http.Client
	maxBody int64
}

// NewHTTP creates an HTTPLoader with the given per-request timeout and
// response body limit. The client is built once and reused across loads.
func NewHTTP(timeout time.Duration, maxBody int64) *HTTPLoader {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxBody <= 0 {
		maxBody = DefaultMaxBody
	}
	return &HTTPLoader{
		client:  &http.Client{Timeout: timeout},
		maxBody: maxBody,
	}
}

// Load fetches url and probes the image header for dimensions.
// Any failure — connectivity, non-2xx status, non-image content type, or an
// undecodable body — is returned as a single error; the caller decides what
// to render.
func (l *HTTPLoader) Load(ctx context.Context, url string) (Info, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Info{}, fmt.Errorf("loader: build request for %q: %w", url, err)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := l.client.Do(req)
	if err != nil {
		return Info{}, fmt.Errorf("loader: get %q: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Info{}, fmt.Errorf("loader: get %q: unexpected status %d", url, resp.StatusCode)
	}

	ct := contentType(resp)
	info := Info{SourceURL: url, ContentType: ct}

	// SVG has no decodable bitmap header; accept it without dimensions.
	if ct == svgContentType {
		info.Elapsed = time.Since(start)
		return info, nil
	}

	cfg, _, err := image.DecodeConfig(io.LimitReader(resp.Body, l.maxBody))
	if err != nil {
		return Info{}, fmt.Errorf("loader: decode %q: %w", url, err)
	}

	info.Width = cfg.Width
	info.Height = cfg.Height
	info.Elapsed = time.Since(start)
	return info, nil
}

// contentType extracts the media type from the response, dropping parameters.
// An empty or unparseable header returns "" — the decode step then decides.
func contentType(resp *http.Response) string {
	raw := resp.Header.Get("Content-Type")
	if raw == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(raw))
	}
	return mt
}
