// Package registry announces the service to an external service directory.
package registry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"scraper/internal/domain"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const defaultTimeout = 10 * time.Second

// Registration is the payload posted to <registry>/register.
type Registration struct {
	Name      string   `json:"name"`
	URL       string   `json:"url"`
	Endpoints []string `json:"endpoints"`
	Formats   []string `json:"formats"`
}

// Endpoints lists the routes the service exposes.
var Endpoints = []string{"/scrape", "/tasks", "/tasks/{id}", "/tasks/{id}/result", "/health", "/metrics"}

type Registrar struct {
	registryURL string
	retryDelay  time.Duration
	payload     Registration
	httpClient  *resty.Client
	logger      *zap.Logger
}

func NewRegistrar(registryURL, serviceName, serviceURL string, retryDelay time.Duration, l *zap.Logger) *Registrar {
	formats := make([]string, 0, len(domain.SupportedFormats))
	for _, f := range domain.SupportedFormats {
		formats = append(formats, string(f))
	}

	return &Registrar{
		registryURL: strings.TrimRight(registryURL, "/"),
		retryDelay:  retryDelay,
		payload: Registration{
			Name:      serviceName,
			URL:       serviceURL,
			Endpoints: Endpoints,
			Formats:   formats,
		},
		httpClient: resty.New().
			SetTimeout(defaultTimeout).
			SetHeader("Content-Type", "application/json; charset=utf-8"),
		logger: l,
	}
}

// Run registers the service, retrying every retryDelay until it succeeds or
// ctx is cancelled.
func (r *Registrar) Run(ctx context.Context) error {
	for attempt := 1; ; attempt++ {
		err := r.register(ctx)
		if err == nil {
			r.logger.Info("service registered",
				zap.String("registry", r.registryURL), zap.Int("attempt", attempt))
			return nil
		}
		r.logger.Warn("service registration failed, retrying",
			zap.Int("attempt", attempt), zap.Duration("retry_in", r.retryDelay), zap.Error(err))

		timer := time.NewTimer(r.retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (r *Registrar) register(ctx context.Context) error {
	resp, err := r.httpClient.R().
		SetContext(ctx).
		SetBody(r.payload).
		Post(r.registryURL + "/register")
	if err != nil {
		return fmt.Errorf("send request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("registry responded %s", resp.Status())
	}
	return nil
}
