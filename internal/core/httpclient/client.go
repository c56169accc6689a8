package httpclient

import (
	"fmt"
	"net/http"
	"time"

	"delivery-client/internal/core/logger"
	"delivery-client/internal/core/proxy"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// LoggingRoundTripper captures request details for debugging.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
	// Name identifies the remote collaborator in log lines.
	Name string
}

// RoundTrip executes the request and logs details. Query strings are logged,
// headers are not: they carry the bearer token.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	log := logger.Named("http").With(
		zap.String("remote", lrt.Name),
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
	)

	log.Debug("HTTP Request Started")

	resp, err := lrt.Proxied.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		log.Error("HTTP Request Failed", zap.Duration("duration", duration), zap.Error(err))
		return nil, err
	}

	log.Debug("HTTP Request Completed",
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

// NewClient returns an http.Client with logging and tracing middleware,
// routed through the configured proxy.
func NewClient(name string, timeout time.Duration, settings proxy.Settings) (*http.Client, error) {
	proxyFunc, err := settings.ProxyFunc()
	if err != nil {
		return nil, fmt.Errorf("httpclient %s: %w", name, err)
	}

	base := http.DefaultTransport.(*http.Transport).Clone()
	base.Proxy = proxyFunc

	return &http.Client{
		Transport: otelhttp.NewTransport(&LoggingRoundTripper{
			Proxied: base,
			Name:    name,
		}),
		Timeout: timeout,
	}, nil
}
