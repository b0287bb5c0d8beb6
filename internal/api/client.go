package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hawk-journal/hawk/internal/journal"
	"github.com/hawk-journal/hawk/internal/notes"
)

// Client talks to a Hawk server.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type LoginRequest struct {
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

type TrashRequest struct {
	CID string `json:"cid,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) IsConfigured() bool {
	return c.baseURL != ""
}

func (c *Client) IsAuthenticated() bool {
	return c.token != ""
}

func (c *Client) Ping() error {
	return c.get("/health", nil)
}

func (c *Client) Login(password string) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.post("/api/auth/login", LoginRequest{Password: password}, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

// Collections

func (c *Client) Collections() ([]notes.Collection, error) {
	var resp []notes.Collection
	if err := c.get("/api/notes/collections", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) SaveCollections(collections []notes.Collection) error {
	return c.post("/api/notes/collections", collections, nil)
}

func (c *Client) DeleteCollection(cid string) error {
	return c.delete("/api/notes/collections/" + url.PathEscape(cid))
}

// Notes

func (c *Client) NotesIndex() ([]notes.NoteMetadata, error) {
	var resp []notes.NoteMetadata
	if err := c.get("/api/notes/index", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) GetNote(id string) (*notes.NoteRecord, error) {
	var resp notes.NoteRecord
	if err := c.get("/api/notes/"+url.PathEscape(id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetPublicNote(id string) (*notes.NoteRecord, error) {
	var resp notes.NoteRecord
	if err := c.get("/api/public/notes/"+url.PathEscape(id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SaveNote(rec notes.NoteRecord) error {
	return c.post("/api/notes", rec, nil)
}

func (c *Client) TrashNote(id, cid string) error {
	return c.post("/api/notes/"+url.PathEscape(id)+"/trash", TrashRequest{CID: cid}, nil)
}

func (c *Client) RestoreNote(id string) error {
	return c.post("/api/notes/"+url.PathEscape(id)+"/restore", nil, nil)
}

func (c *Client) DeleteNote(id string) error {
	return c.delete("/api/notes/" + url.PathEscape(id))
}

func (c *Client) EmptyTrash(cid string) error {
	return c.post("/api/notes/collection/"+url.PathEscape(cid)+"/empty-trash", nil, nil)
}

// Journal

func (c *Client) JournalDay(date string) (*journal.Day, error) {
	var resp journal.Day
	if err := c.get("/api/journal/"+url.PathEscape(date), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SaveJournalDay(day journal.Day) error {
	return c.put("/api/journal/"+url.PathEscape(day.Date), day, nil)
}

func (c *Client) JournalMonth(month string) ([]journal.DaySummary, error) {
	var resp []journal.DaySummary
	if err := c.get("/api/journal/calendar/"+url.PathEscape(month), &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// HTTP helpers

func (c *Client) get(path string, result interface{}) error {
	req, err := http.NewRequest("GET", c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.doRequest(req, result)
}

func (c *Client) post(path string, body interface{}, result interface{}) error {
	return c.send("POST", path, body, result)
}

func (c *Client) put(path string, body interface{}, result interface{}) error {
	return c.send("PUT", path, body, result)
}

func (c *Client) send(method, path string, body interface{}, result interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.doRequest(req, result)
}

func (c *Client) delete(path string) error {
	req, err := http.NewRequest("DELETE", c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.doRequest(req, nil)
}

func (c *Client) doRequest(req *http.Request, result interface{}) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp ErrorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("%s", errResp.Error)
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
