package recordclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fxchart-service/internal/application"
	"fxchart-service/internal/domain"
	"fxchart-service/internal/infrastructure/httpx"
	"fxchart-service/internal/infrastructure/logx"
	"fxchart-service/internal/infrastructure/recordjson"
)

var _ application.RecordSource = (*Source)(nil)

// Source lists records from another instance of the record API.
type Source struct {
	BaseURL string
	Client  *httpx.Client
}

func New(baseURL, token string, timeout time.Duration) *Source {
	return &Source{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &httpx.Client{HTTP: &http.Client{Timeout: timeout}, Token: token},
	}
}

func (s *Source) List(ctx context.Context) ([]domain.QuoteRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/records", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if rid := logx.RequestID(ctx); rid != "" {
		req.Header.Set("X-Request-ID", rid)
	}
	var body []recordjson.Record
	if err := s.Client.DoJSON(ctx, req, &body, httpx.ZapLogger{L: logx.WithFields(ctx)}); err != nil {
		return nil, &application.FetchError{Err: err}
	}
	out := make([]domain.QuoteRecord, 0, len(body))
	for _, r := range body {
		out = append(out, r.Domain())
	}
	return out, nil
}
