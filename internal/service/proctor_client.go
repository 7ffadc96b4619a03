package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sahabat-guru/backend/config"
)

// ProctorClient talks to the external cheating-detection service. All calls
// are best-effort from the caller's perspective: a failure must never block
// the student-facing join/finish flow.
type ProctorClient interface {
	StartSession(ctx context.Context, examID, studentID uint) (string, error)
	EndSession(ctx context.Context, sessionID string) error
}

type httpProctorClient struct {
	baseURL string
	client  *http.Client
}

// NewProctorClient returns a client for the configured service, or a disabled
// client (empty session ids, no calls) when no URL is set.
func NewProctorClient(cfg *config.Config) ProctorClient {
	if cfg.Proctoring.ServiceURL == "" {
		log.Warn().Msg("PROCTORING_SERVICE_URL is not set, proctoring sessions are disabled")
		return disabledProctorClient{}
	}
	return &httpProctorClient{
		baseURL: cfg.Proctoring.ServiceURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *httpProctorClient) StartSession(ctx context.Context, examID, studentID uint) (string, error) {
	body, _ := json.Marshal(map[string]uint{"exam_id": examID, "student_id": studentID})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sessions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("proctoring service returned status %d", resp.StatusCode)
	}

	var out struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode proctoring response: %w", err)
	}
	return out.SessionID, nil
}

func (c *httpProctorClient) EndSession(ctx context.Context, sessionID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/sessions/"+sessionID, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("proctoring service returned status %d", resp.StatusCode)
	}
	return nil
}

type disabledProctorClient struct{}

func (disabledProctorClient) StartSession(context.Context, uint, uint) (string, error) {
	return "", nil
}
func (disabledProctorClient) EndSession(context.Context, string) error { return nil }
