// Package client provides a Go client for the Passgate API.
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Errors
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
)

// Client is a Passgate API client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      string
}

// New creates a new Passgate client.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
	Email   string `json:"email"`
}

// Signup registers a new account.
func (c *Client) Signup(email, password string) error {
	resp, body, err := c.post("/signup", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return err
	}
	switch resp.StatusCode {
	case http.StatusCreated:
		return nil
	case http.StatusConflict:
		return ErrEmailTaken
	default:
		return fmt.Errorf("signup failed (%d): %s", resp.StatusCode, body.Message)
	}
}

// Login authenticates and stores the returned bearer token on the client.
func (c *Client) Login(email, password string) (string, error) {
	resp, body, err := c.post("/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", err
	}
	switch resp.StatusCode {
	case http.StatusOK:
		c.Token = body.Token
		return body.Token, nil
	case http.StatusUnauthorized:
		return "", ErrInvalidCredentials
	default:
		return "", fmt.Errorf("login failed (%d): %s", resp.StatusCode, body.Message)
	}
}

// Validate checks a bearer token and returns the owning account's email.
// An empty token argument validates the client's stored token.
func (c *Client) Validate(token string) (string, error) {
	if token == "" {
		token = c.Token
	}
	resp, body, err := c.post("/validate", map[string]string{"token": token})
	if err != nil {
		return "", err
	}
	switch resp.StatusCode {
	case http.StatusOK:
		return body.Email, nil
	case http.StatusUnauthorized:
		return "", ErrInvalidToken
	default:
		return "", fmt.Errorf("validate failed (%d): %s", resp.StatusCode, body.Message)
	}
}

// SignupAndLogin is a convenience method that registers (if needed) and logs in.
func (c *Client) SignupAndLogin(email, password string) (string, error) {
	if err := c.Signup(email, password); err != nil && !errors.Is(err, ErrEmailTaken) {
		return "", fmt.Errorf("signup: %w", err)
	}
	return c.Login(email, password)
}

// Stats fetches service statistics.
func (c *Client) Stats() (accounts, tokensIssued int64, err error) {
	resp, err := c.HTTPClient.Get(c.BaseURL + "/api/stats")
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return 0, 0, fmt.Errorf("stats failed (%d): %s", resp.StatusCode, string(b))
	}
	var result struct {
		Accounts     int64 `json:"accounts"`
		TokensIssued int64 `json:"tokens_issued"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, 0, err
	}
	return result.Accounts, result.TokensIssued, nil
}

func (c *Client) post(path string, payload any) (*http.Response, apiResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apiResponse{}, err
	}
	resp, err := c.HTTPClient.Post(c.BaseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, apiResponse{}, err
	}
	defer resp.Body.Close()

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return resp, apiResponse{}, fmt.Errorf("decode response (%d): %w", resp.StatusCode, err)
	}
	return resp, parsed, nil
}

// TestHelper provides utilities for creating authenticated clients in tests.
type TestHelper struct {
	BaseURL string
}

// NewTestHelper creates a new test helper for the given base URL.
func NewTestHelper(baseURL string) *TestHelper {
	return &TestHelper{BaseURL: baseURL}
}

// GetToken signs up the given account (if needed), logs in, and returns the
// bearer token string.
func (h *TestHelper) GetToken(email, password string) (string, error) {
	c := New(h.BaseURL)
	token, err := c.SignupAndLogin(email, password)
	if err != nil {
		return "", err
	}
	return token, nil
}
