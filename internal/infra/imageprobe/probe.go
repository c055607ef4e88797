// Package imageprobe inspects remote images: real MIME type, pixel
// dimensions and byte size. It reads only the leading bytes of each image
// and runs every request through the image-service circuit breaker.
package imageprobe

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"portfolio-content/internal/domain/entity"
	"portfolio-content/internal/resilience/circuitbreaker"
)

// sniffBytes is how much of an image is read for MIME detection and header decoding.
const sniffBytes = 64 * 1024

// ErrNotImage indicates the URL did not serve an image.
var ErrNotImage = errors.New("resource is not an image")

// Info describes a probed image.
type Info struct {
	URL      string        `json:"url"`
	MIME     string        `json:"mime"`
	Width    int           `json:"width,omitempty"`
	Height   int           `json:"height,omitempty"`
	Size     int64         `json:"size,omitempty"`
	Decoded  bool          `json:"decoded"`
	Duration time.Duration `json:"-"`
}

// Prober fetches image headers.
type Prober struct {
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
}

// New creates a Prober. A nil httpClient gets a 10 second timeout.
func New(httpClient *http.Client, breaker *circuitbreaker.CircuitBreaker) *Prober {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if breaker == nil {
		breaker = circuitbreaker.New(circuitbreaker.ImageServiceConfig())
	}
	return &Prober{httpClient: httpClient, breaker: breaker}
}

// Probe fetches the leading bytes of url and reports what they contain.
// Dimensions are reported for formats with a registered decoder (JPEG, PNG, GIF).
func (p *Prober) Probe(ctx context.Context, url string) (Info, error) {
	v, err := p.breaker.Execute(func() (any, error) {
		return p.probe(ctx, url)
	}, nil)
	if err != nil {
		return Info{URL: url}, err
	}
	return v.(Info), nil
}

func (p *Prober) probe(ctx context.Context, url string) (Info, error) {
	start := time.Now()
	info := Info{URL: url}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return info, fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Range", "bytes=0-"+strconv.Itoa(sniffBytes-1))

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return info, fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return info, fmt.Errorf("image request returned %d", resp.StatusCode)
	}

	head, err := io.ReadAll(io.LimitReader(resp.Body, sniffBytes))
	if err != nil {
		return info, fmt.Errorf("read image: %w", err)
	}

	info.Size = totalSize(resp)
	mime := mimetype.Detect(head)
	info.MIME = mime.String()
	if !isImage(mime) {
		info.Duration = time.Since(start)
		return info, fmt.Errorf("%w: %s", ErrNotImage, info.MIME)
	}

	if cfg, _, err := image.DecodeConfig(bufio.NewReader(bytes.NewReader(head))); err == nil {
		info.Width, info.Height, info.Decoded = cfg.Width, cfg.Height, true
	}
	info.Duration = time.Since(start)
	return info, nil
}

// Enrich fills missing dimensions, size and content type of a from a probe.
// Values already present on the asset win.
func (p *Prober) Enrich(ctx context.Context, a entity.Asset) (entity.Asset, error) {
	info, err := p.Probe(ctx, a.URL)
	if err != nil {
		return a, err
	}
	if a.Width == 0 && a.Height == 0 && info.Decoded {
		a.Width, a.Height = info.Width, info.Height
	}
	if a.Size == 0 {
		a.Size = info.Size
	}
	if a.ContentType == "" {
		a.ContentType = info.MIME
	}
	return a, nil
}

// Breaker exposes the circuit breaker, e.g. for health reporting.
func (p *Prober) Breaker() *circuitbreaker.CircuitBreaker {
	return p.breaker
}

func isImage(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") {
			return true
		}
	}
	return false
}

// totalSize prefers the full length from Content-Range over Content-Length,
// which only covers the requested range.
func totalSize(resp *http.Response) int64 {
	if cr := resp.Header.Get("Content-Range"); cr != "" {
		var start, end, total int64
		if _, err := fmt.Sscanf(cr, "bytes %d-%d/%d", &start, &end, &total); err == nil {
			return total
		}
	}
	if resp.StatusCode == http.StatusOK && resp.ContentLength > 0 {
		return resp.ContentLength
	}
	return 0
}
