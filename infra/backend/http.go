// Package backend provides the HTTP client for the external parameter
// store. The store serves the equipment sheet and global parameters as JSON
// documents; the core falls back to built-in defaults when it is
// unreachable.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	corebackend "github.com/DougMackenzie/energy-optimizer/core/backend"
	"github.com/DougMackenzie/energy-optimizer/core/model"
)

// Config identifies the parameter store endpoint.
type Config struct {
	URL     string `json:"url"`
	Token   string `json:"token"`
	Timeout int    `json:"timeout_seconds"`
}

// HTTPStore implements backend.Store against a JSON parameter service.
type HTTPStore struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPStore creates a store client. A zero timeout defaults to 10s.
func NewHTTPStore(cfg Config) *HTTPStore {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPStore{
		baseURL: cfg.URL,
		token:   cfg.Token,
		client:  &http.Client{Timeout: timeout},
	}
}

// EquipmentSpecs fetches the equipment reference table.
func (s *HTTPStore) EquipmentSpecs(ctx context.Context) (model.EquipmentSpecs, error) {
	var specs model.EquipmentSpecs
	if err := s.get(ctx, "/v1/equipment", &specs); err != nil {
		return model.EquipmentSpecs{}, err
	}
	return specs, nil
}

// Params fetches the global parameter document.
func (s *HTTPStore) Params(ctx context.Context) (corebackend.Params, error) {
	var params corebackend.Params
	if err := s.get(ctx, "/v1/parameters", &params); err != nil {
		return corebackend.Params{}, err
	}
	return params, nil
}

func (s *HTTPStore) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
