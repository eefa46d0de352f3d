package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client is an HTTP client for the ConfHub API
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewClientWithConfig creates a client with explicit config
func NewClientWithConfig(cfg *Config) *Client {
	return &Client{
		BaseURL: cfg.GetServer(),
		Token:   cfg.Token,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError represents an error response from the API
type APIError struct {
	Message    string
	StatusCode int
	Fields     []FieldError
}

// FieldError is a single field-level validation failure from the API
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		msg := e.Message
		for _, fe := range e.Fields {
			msg += fmt.Sprintf("\n  %s %s", fe.Field, fe.Reason)
		}
		return msg
	}
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

// doRequest performs an authenticated HTTP request
func (c *Client) doRequest(method, path string, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error  string       `json:"error"`
			Fields []FieldError `json:"fields"`
		}
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			return nil, &APIError{Message: errResp.Error, StatusCode: resp.StatusCode, Fields: errResp.Fields}
		}
		return nil, &APIError{Message: string(respBody), StatusCode: resp.StatusCode}
	}

	return respBody, nil
}

// UserInfo represents the current user's information
type UserInfo struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Login exchanges credentials for an API token
func (c *Client) Login(email, password string) (string, *UserInfo, error) {
	data, err := c.doRequest("POST", "/api/v0/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", nil, err
	}

	var resp struct {
		Token string   `json:"token"`
		User  UserInfo `json:"user"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", nil, fmt.Errorf("failed to parse login response: %w", err)
	}
	return resp.Token, &resp.User, nil
}

// GetMe returns the current user's information
func (c *Client) GetMe() (*UserInfo, error) {
	data, err := c.doRequest("GET", "/api/v0/auth/me", nil)
	if err != nil {
		return nil, err
	}

	var user UserInfo
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to parse user info: %w", err)
	}

	return &user, nil
}

// Conference represents a conference
type Conference struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	Country      string    `json:"country"`
	Timezone     string    `json:"timezone"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	Website      string    `json:"website"`
	ContactEmail string    `json:"contact_email"`
}

// Cfp represents a call for proposals window
type Cfp struct {
	ID          uint      `json:"id"`
	CfpType     string    `json:"cfp_type"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Description string    `json:"description"`
	Open        bool      `json:"open"`
}

// ConferenceDetail is the response for a single conference lookup
type ConferenceDetail struct {
	Conference Conference `json:"conference"`
	Cfps       []Cfp      `json:"cfps"`
	EventsCfp  *Cfp       `json:"events_cfp,omitempty"`
	TracksCfp  *Cfp       `json:"tracks_cfp,omitempty"`
}

// Pagination represents the pagination info from the API
type Pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

// ConferencesResponse is the response from listing conferences
type ConferencesResponse struct {
	Data       []Conference `json:"data"`
	Pagination Pagination   `json:"pagination"`
}

// ListConferencesOptions contains filter options for listing conferences
type ListConferencesOptions struct {
	Query   string
	Country string
	Page    int
	PerPage int
}

// ListConferences retrieves a list of conferences with optional filters
func (c *Client) ListConferences(opts ListConferencesOptions) (*ConferencesResponse, error) {
	params := url.Values{}
	if opts.Query != "" {
		params.Set("q", opts.Query)
	}
	if opts.Country != "" {
		params.Set("country", opts.Country)
	}
	if opts.Page > 0 {
		params.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PerPage > 0 {
		params.Set("per_page", strconv.Itoa(opts.PerPage))
	}

	path := "/api/v0/conferences"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	data, err := c.doRequest("GET", path, nil)
	if err != nil {
		return nil, err
	}

	var resp ConferencesResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse conferences: %w", err)
	}

	return &resp, nil
}

// GetConference retrieves a single conference by slug
func (c *Client) GetConference(slug string) (*ConferenceDetail, error) {
	data, err := c.doRequest("GET", "/api/v0/c/"+slug, nil)
	if err != nil {
		return nil, err
	}

	var detail ConferenceDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		return nil, fmt.Errorf("failed to parse conference: %w", err)
	}

	return &detail, nil
}

// CfpSubmission represents a CFP window to create or update
type CfpSubmission struct {
	CfpType     string `json:"cfp_type" yaml:"cfp_type"`
	StartDate   string `json:"start_date" yaml:"start_date"` // YYYY-MM-DD
	EndDate     string `json:"end_date" yaml:"end_date"`     // YYYY-MM-DD
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// CreateCfp opens a new CFP on a conference
func (c *Client) CreateCfp(conferenceID uint, s *CfpSubmission) (*Cfp, error) {
	path := fmt.Sprintf("/api/v0/conferences/%d/cfps", conferenceID)
	data, err := c.doRequest("POST", path, s)
	if err != nil {
		return nil, err
	}

	var cfp Cfp
	if err := json.Unmarshal(data, &cfp); err != nil {
		return nil, fmt.Errorf("failed to parse cfp: %w", err)
	}
	return &cfp, nil
}

// UpdateCfp updates an existing CFP
func (c *Client) UpdateCfp(cfpID uint, s *CfpSubmission) (*Cfp, error) {
	path := fmt.Sprintf("/api/v0/cfps/%d", cfpID)
	data, err := c.doRequest("PUT", path, s)
	if err != nil {
		return nil, err
	}

	var cfp Cfp
	if err := json.Unmarshal(data, &cfp); err != nil {
		return nil, fmt.Errorf("failed to parse cfp: %w", err)
	}
	return &cfp, nil
}

// DeleteCfp removes a CFP
func (c *Client) DeleteCfp(cfpID uint) error {
	path := fmt.Sprintf("/api/v0/cfps/%d", cfpID)
	_, err := c.doRequest("DELETE", path, nil)
	return err
}
