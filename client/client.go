// Package client is a small Go client for the helmsman REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/helmsman-run/helmsman/models"
)

type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client for a helmsman API server. baseURL may omit the
// scheme; plain host:port defaults to http.
func New(baseURL string) *Client {
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Deploy submits a YAML manifest document.
func (c *Client) Deploy(ctx context.Context, manifest []byte) (models.Result, error) {
	return c.doResult(ctx, http.MethodPost, "/api/v1/applications", bytes.NewReader(manifest))
}

// ListApplications returns the desired state of every application.
func (c *Client) ListApplications(ctx context.Context) ([]models.Application, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/applications", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list applications: %s", resp.Status)
	}
	var apps []models.Application
	if err := json.NewDecoder(resp.Body).Decode(&apps); err != nil {
		return nil, fmt.Errorf("decode applications: %w", err)
	}
	return apps, nil
}

// DeleteApplication removes an application and its containers.
func (c *Client) DeleteApplication(ctx context.Context, name string) (models.Result, error) {
	return c.doResult(ctx, http.MethodDelete, "/api/v1/applications/"+name, nil)
}

// Manifest fetches the named application's desired state as manifest text.
func (c *Client) Manifest(ctx context.Context, name string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/applications/"+name+"/manifest", nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("get manifest: %s", resp.Status)
	}
	return string(body), nil
}

// Status returns managed containers grouped by application.
func (c *Client) Status(ctx context.Context) (models.Result, error) {
	return c.doResult(ctx, http.MethodGet, "/api/v1/status", nil)
}

// Translate sends a free-form instruction for interpretation and execution.
func (c *Client) Translate(ctx context.Context, input string) (models.Result, error) {
	payload, err := json.Marshal(map[string]string{"input": input})
	if err != nil {
		return models.Result{}, err
	}
	return c.doResult(ctx, http.MethodPost, "/api/v1/translate", bytes.NewReader(payload))
}

// Diagnose classifies failed containers; with a non-empty containerID only
// that container.
func (c *Client) Diagnose(ctx context.Context, containerID string) (models.Result, error) {
	path := "/api/v1/diagnosis"
	if containerID != "" {
		path += "?container=" + containerID
	}
	return c.doResult(ctx, http.MethodGet, path, nil)
}

// Report fetches the prioritized failure summary.
func (c *Client) Report(ctx context.Context) (models.Result, error) {
	return c.doResult(ctx, http.MethodGet, "/api/v1/diagnosis/report", nil)
}

// Heal removes failed containers; with a non-empty app only that
// application's.
func (c *Client) Heal(ctx context.Context, app string) (models.Result, error) {
	path := "/api/v1/heal"
	if app != "" {
		path += "?app=" + app
	}
	return c.doResult(ctx, http.MethodPost, path, nil)
}

// doResult performs a request whose response body is a structured Result.
// Non-2xx responses still carry a Result; only transport and decode problems
// surface as errors.
func (c *Client) doResult(ctx context.Context, method, path string, body io.Reader) (models.Result, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return models.Result{}, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return models.Result{}, err
	}
	defer resp.Body.Close()

	var res models.Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return models.Result{}, fmt.Errorf("decode response (%s): %w", resp.Status, err)
	}
	return res, nil
}
