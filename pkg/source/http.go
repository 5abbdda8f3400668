package source

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
)

// DefaultUserAgent sent by the HTTP probe unless overridden
const DefaultUserAgent = "collectd-shrimp"

// HTTPProbe issues GET requests through a pooled client built once per
// plugin instance.
type HTTPProbe struct {
	client    *http.Client
	userAgent string
}

// HTTPResult outcome of one fetch. Err is set for transport failures only;
// status codes are reported in Status.
type HTTPResult struct {
	Elapsed time.Duration
	Status  int
	Body    string
	BodyErr error
	Err     error
}

// NewHTTPProbe timeout <= 0 means no client timeout.
func NewHTTPProbe(timeout time.Duration, userAgent string) *HTTPProbe {
	client := cleanhttp.DefaultPooledClient()
	if timeout > 0 {
		client.Timeout = timeout
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &HTTPProbe{client: client, userAgent: userAgent}
}

// Fetch GETs url. Elapsed covers the request up to response headers. The body
// is read only when readBody is set, and always drained and closed.
func (p *HTTPProbe) Fetch(url string, readBody bool) HTTPResult {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return HTTPResult{Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("User-Agent", p.userAgent)

	start := time.Now()
	resp, err := p.client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return HTTPResult{Elapsed: elapsed, Err: err}
	}
	defer resp.Body.Close()

	res := HTTPResult{Elapsed: elapsed, Status: resp.StatusCode}
	if readBody {
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			res.BodyErr = err
		} else {
			res.Body = string(b)
		}
	} else {
		_, _ = io.Copy(io.Discard, resp.Body)
	}
	return res
}

// UserAgent the header value sent with every request
func (p *HTTPProbe) UserAgent() string {
	return p.userAgent
}
