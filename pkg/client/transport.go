package client

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// LoggingTransport decorates an http.RoundTripper with structured request
// logging. It is injected per client and never installed globally, so two
// clients in one process can log differently or not at all.
type LoggingTransport struct {
	Base http.RoundTripper
	Log  zerolog.Logger
}

func (t *LoggingTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

// RoundTrip logs method, URL, status and duration around the wrapped
// transport.
func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base().RoundTrip(req)
	elapsed := time.Since(start)

	evt := t.Log.Info()
	if err != nil {
		evt = t.Log.Error().Err(err)
	}
	evt = evt.
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Dur("duration", elapsed)
	if resp != nil {
		evt = evt.Int("status", resp.StatusCode)
	}
	evt.Msg("api request")
	return resp, err
}
