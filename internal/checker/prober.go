package checker

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"regexp"
	"time"

	"github.com/EpocDotFr/server-patrol/internal/model"
)

// ReasonKind tags the failure mode of a probe. A probe is either up
// (ReasonNone) or down with exactly one reason kind.
type ReasonKind int

const (
	ReasonNone ReasonKind = iota
	ReasonConnectionError
	ReasonConnectTimeout
	ReasonReadTimeout
	ReasonTooManyRedirects
	ReasonTLSError
	ReasonProxyError
	ReasonHTTPError
	ReasonBodyMismatch
)

// String returns a short identifier for the reason kind.
func (k ReasonKind) String() string {
	switch k {
	case ReasonNone:
		return "none"
	case ReasonConnectionError:
		return "connection_error"
	case ReasonConnectTimeout:
		return "connect_timeout"
	case ReasonReadTimeout:
		return "read_timeout"
	case ReasonTooManyRedirects:
		return "too_many_redirects"
	case ReasonTLSError:
		return "tls_error"
	case ReasonProxyError:
		return "proxy_error"
	case ReasonHTTPError:
		return "http_error"
	case ReasonBodyMismatch:
		return "body_mismatch"
	default:
		return "unknown"
	}
}

// Result is the outcome of one probe. Status is always up or down; a
// down result carries a non-empty reason, an up result carries none.
// Duration is the wall-clock time of the successful request and is zero
// when the probe went down.
type Result struct {
	Status   model.Status
	Reason   ReasonKind
	Detail   string
	Duration time.Duration
}

// Prober performs one HTTP probe for a monitoring.
type Prober interface {
	Probe(ctx context.Context, m *model.Monitoring) Result
}

const (
	maxRedirects   = 10
	maxBodyBytes   = 1024 * 1024
	probeUserAgent = "server-patrol"
)

var errTooManyRedirects = errors.New("too many redirects")

// HTTPProber probes monitorings over HTTP with per-monitoring timeout
// and TLS settings taken verbatim from the configuration. One request
// per probe, no retries.
type HTTPProber struct{}

// NewHTTPProber creates a new HTTP prober
func NewHTTPProber() *HTTPProber {
	return &HTTPProber{}
}

// Probe performs exactly one HTTP request for the monitoring and
// classifies the outcome.
func (p *HTTPProber) Probe(ctx context.Context, m *model.Monitoring) Result {
	client := &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: !m.VerifyHTTPSCert,
			},
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return errTooManyRedirects
			}
			return nil
		},
	}

	reqCtx, cancel := context.WithTimeout(ctx, time.Duration(m.Timeout)*time.Second)
	defer cancel()

	slog.Debug("Probing monitoring",
		"monitoring", m.Name,
		"method", m.HTTPMethod,
		"url", m.URL,
		"timeout_seconds", m.Timeout,
	)

	req, err := http.NewRequestWithContext(reqCtx, m.HTTPMethod, m.URL, nil)
	if err != nil {
		return down(ReasonConnectionError, fmt.Sprintf("Invalid request: %v", err))
	}

	req.Header.Set("User-Agent", probeUserAgent)
	for key, value := range m.HTTPHeaders {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := client.Do(req)
	duration := time.Since(start)

	if err != nil {
		return classify(err)
	}
	defer resp.Body.Close()

	// Client and server error statuses mean down, unless this
	// monitoring tolerates them.
	if !m.IgnoreHTTPErrors && resp.StatusCode >= 400 {
		return down(ReasonHTTPError, fmt.Sprintf("HTTP error: %s", resp.Status))
	}

	if m.HTTPBodyRegex != "" {
		re, err := regexp.Compile(m.HTTPBodyRegex)
		if err != nil {
			return down(ReasonBodyMismatch, fmt.Sprintf("Response body check failed: invalid pattern: %v", err))
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return classify(err)
		}

		if !re.Match(body) {
			return down(ReasonBodyMismatch, "Response body check failed: the pattern did not match")
		}
	}

	return Result{
		Status:   model.StatusUp,
		Reason:   ReasonNone,
		Duration: duration,
	}
}

func down(kind ReasonKind, detail string) Result {
	return Result{
		Status: model.StatusDown,
		Reason: kind,
		Detail: detail,
	}
}

// classify maps a transport-level error to its down reason, in priority
// order: redirect bound, TLS, proxy, connect failures, timeouts.
func classify(err error) Result {
	if errors.Is(err, errTooManyRedirects) {
		return down(ReasonTooManyRedirects, "There were too many HTTP redirects")
	}

	var certVerifyErr *tls.CertificateVerificationError
	var unknownAuthorityErr x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError
	var certInvalidErr x509.CertificateInvalidError
	var recordHeaderErr tls.RecordHeaderError
	if errors.As(err, &certVerifyErr) ||
		errors.As(err, &unknownAuthorityErr) ||
		errors.As(err, &hostnameErr) ||
		errors.As(err, &certInvalidErr) ||
		errors.As(err, &recordHeaderErr) {
		return down(ReasonTLSError, fmt.Sprintf("TLS error: %v", rootCause(err)))
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		switch opErr.Op {
		case "proxyconnect":
			return down(ReasonProxyError, fmt.Sprintf("Proxy error: %v", rootCause(err)))
		case "dial":
			if opErr.Timeout() {
				return down(ReasonConnectTimeout, "Connection to the server timed out")
			}
			return down(ReasonConnectionError, "Network error: unable to connect to the server")
		}
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return down(ReasonReadTimeout, "The server took too long to respond")
	}

	return down(ReasonConnectionError, "Network error: unable to connect to the server")
}

// rootCause strips the url.Error wrapping so alert texts carry the
// underlying message, not the full request decoration.
func rootCause(err error) error {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err
		}
		err = unwrapped
	}
}
