package notify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// SMSSender delivers a single text message to one phone number.
type SMSSender interface {
	Send(phone, message string) error
}

// SMSClient talks to the HTTP SMS provider. The provider issues short-lived
// bearer tokens from a username/password pair; the client caches the token
// and refreshes it once on a 401.
type SMSClient struct {
	baseURL  string
	username string
	password string

	mu          sync.RWMutex
	token       string
	tokenExpiry time.Time

	http *http.Client
}

// NewSMSClient constructs a provider client.
func NewSMSClient(baseURL, username, password string) *SMSClient {
	return &SMSClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		password: password,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

type smsAuthResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

func (c *SMSClient) getToken(force bool) (string, error) {
	if !force {
		c.mu.RLock()
		if c.token != "" && time.Now().Before(c.tokenExpiry) {
			t := c.token
			c.mu.RUnlock()
			return t, nil
		}
		c.mu.RUnlock()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring the write lock.
	if !force && c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	payload, _ := json.Marshal(map[string]string{
		"username": c.username,
		"password": c.password,
	})

	resp, err := c.http.Post(c.baseURL+"/auth/login", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("sms auth request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("sms auth failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var auth smsAuthResponse
	if err := json.Unmarshal(body, &auth); err != nil {
		return "", fmt.Errorf("sms auth unmarshal: %w", err)
	}
	if auth.Token == "" {
		return "", errors.New("sms auth: empty token")
	}

	c.token = auth.Token
	if auth.ExpiresIn > 0 {
		c.tokenExpiry = time.Now().Add(time.Duration(auth.ExpiresIn)*time.Second - 30*time.Second)
	} else {
		c.tokenExpiry = time.Now().Add(55 * time.Minute)
	}
	return c.token, nil
}

func (c *SMSClient) post(path string, body any, token string) (int, []byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("sms request marshal: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/"+strings.TrimLeft(path, "/"), bytes.NewReader(data))
	if err != nil {
		return 0, nil, fmt.Errorf("sms request build: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("sms request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, respBody, nil
}

// Send delivers one message, refreshing the token once on a 401.
func (c *SMSClient) Send(phone, message string) error {
	token, err := c.getToken(false)
	if err != nil {
		return err
	}

	body := map[string]string{"phone": phone, "message": message}
	status, respBody, err := c.post("sms/send", body, token)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized {
		if token, err = c.getToken(true); err != nil {
			return err
		}
		if status, respBody, err = c.post("sms/send", body, token); err != nil {
			return err
		}
	}

	if status < 200 || status >= 300 {
		return fmt.Errorf("sms send: status %d, body: %s", status, string(respBody))
	}
	return nil
}
