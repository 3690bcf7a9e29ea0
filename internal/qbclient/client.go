// Package qbclient is a typed client for the question-bank REST API.
package qbclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/mind-engage/qbank/internal/bank"
)

// Cache tags. A mutation drops every cached query carrying one of its tags.
const (
	TagClass          = "Class"
	TagSubject        = "Subject"
	TagChapter        = "Chapter"
	TagQuestion       = "Question"
	TagQuestionHeader = "QuestionHeader"
	TagQuestionPaper  = "QuestionPaper"
	TagTeacherSubject = "TeacherSubject"
	TagUser           = "User"
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("qbank api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("qbank api: %d %s", e.Status, e.Message)
}

// MessageOr returns the backend message, or fallback when there was none.
func (e *APIError) MessageOr(fallback string) string {
	if e == nil || e.Message == "" {
		return fallback
	}
	return e.Message
}

// MessageOr extracts the backend message from err if it wraps an *APIError.
func MessageOr(err error, fallback string) string {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.MessageOr(fallback)
	}
	return fallback
}

type Config struct {
	BaseURL string
	// Token is a bearer token from a previous login. Optional.
	Token   string
	Timeout time.Duration
}

type entry struct {
	data json.RawMessage
	meta *bank.Meta
	tags []string
}

type Client struct {
	base    string
	timeout time.Duration

	mu    sync.Mutex
	http  *http.Client
	cache map[string]entry
}

func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	c := &Client{
		base:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		cache:   map[string]entry{},
	}
	c.SetToken(cfg.Token)
	return c
}

// SetToken swaps the bearer token used on every request. An empty token sends none.
func (c *Client) SetToken(tok string) {
	hc := &http.Client{}
	if tok != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: tok, TokenType: "Bearer"})
		hc = oauth2.NewClient(context.Background(), ts)
	}
	hc.Timeout = c.timeout
	c.mu.Lock()
	c.http = hc
	c.cache = map[string]entry{}
	c.mu.Unlock()
}

func (c *Client) client() *http.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.http
}

// Invalidate drops cached queries carrying any of tags.
func (c *Client) Invalidate(tags ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.cache {
		for _, t := range e.tags {
			if contains(tags, t) {
				delete(c.cache, key)
				break
			}
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// apiError reads an error envelope from res; a body that is not an envelope
// still yields the status.
func apiError(res *http.Response) error {
	var env bank.Response[json.RawMessage]
	_ = json.NewDecoder(res.Body).Decode(&env)
	return &APIError{Status: res.StatusCode, Message: env.Message}
}

// do sends a JSON request and returns the envelope's data and meta.
func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, *bank.Meta, error) {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, nil, err
	}
	res, err := c.client().Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		return nil, nil, apiError(res)
	}
	var env bank.Response[json.RawMessage]
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return nil, nil, fmt.Errorf("%s %s: decode envelope: %w", method, path, err)
	}
	return env.Data, env.Meta, nil
}

// query is a cached GET.
func (c *Client) query(ctx context.Context, path string, out any, tags ...string) (*bank.Meta, error) {
	c.mu.Lock()
	e, hit := c.cache[path]
	c.mu.Unlock()
	if !hit {
		data, meta, err := c.do(ctx, http.MethodGet, path, nil)
		if err != nil {
			return nil, err
		}
		e = entry{data: data, meta: meta, tags: tags}
		c.mu.Lock()
		c.cache[path] = e
		c.mu.Unlock()
	}
	if out != nil {
		if err := json.Unmarshal(e.data, out); err != nil {
			return nil, fmt.Errorf("GET %s: %w", path, err)
		}
	}
	return e.meta, nil
}

// mutate sends a write and invalidates tags once it succeeded.
func (c *Client) mutate(ctx context.Context, method, path string, body, out any, tags ...string) error {
	data, _, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	c.Invalidate(tags...)
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%s %s: %w", method, path, err)
		}
	}
	return nil
}

// Login exchanges credentials for a token and starts using it.
func (c *Client) Login(ctx context.Context, email, password string) (bank.User, error) {
	var out struct {
		AccessToken string    `json:"accessToken"`
		User        bank.User `json:"user"`
	}
	data, _, err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{"email": email, "password": password})
	if err != nil {
		return bank.User{}, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return bank.User{}, err
	}
	c.SetToken(out.AccessToken)
	return out.User, nil
}
