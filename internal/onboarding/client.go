package onboarding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Client 是 Submitter 的 HTTP 实现，直接打 provider API
type Client struct {
	BaseURL string // 例如 http://127.0.0.1:8080/api/v1
	Token   string // Bearer token
	HTTP    *http.Client
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) SaveProfile(ctx context.Context, p ProfilePayload) error {
	return c.post(ctx, "/provider/profile", p)
}

func (c *Client) ReplaceSkills(ctx context.Context, skills []SkillChoice) error {
	return c.post(ctx, "/provider/skills", map[string]any{"skills": skills})
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	res, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		var envelope struct {
			Msg string `json:"msg"`
		}
		_ = json.NewDecoder(res.Body).Decode(&envelope)
		if envelope.Msg != "" {
			return fmt.Errorf("%s: %s", path, envelope.Msg)
		}
		return fmt.Errorf("%s: http %d", path, res.StatusCode)
	}
	return nil
}
