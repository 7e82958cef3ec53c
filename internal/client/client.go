// Package client is a typed HTTP client for the Citadel API with an explicit
// query cache. Reads are served from the cache when present; every mutation
// drops a fixed set of keys.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"citadel/internal/agenda"
	"citadel/internal/api/v1/dto"
	"citadel/internal/model"
)

// ErrUnauthorized is returned for 401 responses; the caller must sign in again.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx response other than 401.
type APIError struct {
	Status  int
	Message string
	Errors  []dto.FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api returned status %d: %s", e.Status, e.Message)
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithCache(cache *Cache) Option {
	return func(c *Client) { c.cache = cache }
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	cache   *Cache

	mu   sync.Mutex
	last []Key
}

// New returns a client for baseURL (e.g. "http://localhost:8080") that sends
// token as a Bearer credential when non-empty.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
		cache:   NewCache(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Cache exposes the client's cache.
func (c *Client) Cache() *Cache { return c.cache }

// Invalidations returns the keys dropped by the most recent mutation.
func (c *Client) Invalidations() []Key {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Key(nil), c.last...)
}

func (c *Client) invalidate(keys ...Key) {
	c.cache.Invalidate(keys...)
	c.mu.Lock()
	c.last = keys
	c.mu.Unlock()
}

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case resp.StatusCode >= 300:
		apiErr := &APIError{Status: resp.StatusCode}
		var parsed dto.ValidationErrorResponse
		if json.Unmarshal(respBody, &parsed) == nil && parsed.Message != "" {
			apiErr.Message = parsed.Message
			apiErr.Errors = parsed.Errors
		} else {
			apiErr.Message = strings.TrimSpace(string(respBody))
		}
		return nil, apiErr
	}
	return respBody, nil
}

// query returns the cached body for key or fetches path and caches it.
func query[T any](ctx context.Context, c *Client, key Key, path string) (T, error) {
	var out T
	body, ok := c.cache.Get(key)
	if !ok {
		var err error
		body, err = c.do(ctx, http.MethodGet, path, nil)
		if err != nil {
			return out, err
		}
		c.cache.Set(key, body)
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("decoding %s: %w", key, err)
	}
	return out, nil
}

func mutate[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var out T
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(resp, &out); err != nil {
		return out, fmt.Errorf("decoding %s %s: %w", method, path, err)
	}
	return out, nil
}

func itemPath(prefix string, id int64) string {
	return prefix + "/" + strconv.FormatInt(id, 10)
}

// Account

func (c *Client) CurrentUser(ctx context.Context) (*model.User, error) {
	return query[*model.User](ctx, c, KeyUser, "/api/auth/user")
}

func (c *Client) UpdateTheme(ctx context.Context, theme string) (string, error) {
	resp, err := mutate[dto.ThemeResponseDTO](ctx, c, http.MethodPut, "/api/theme", dto.ThemeUpdateDTO{Theme: theme})
	if err != nil {
		return "", err
	}
	c.invalidate(KeyUser)
	return resp.Theme, nil
}

// Content

// ListContent lists all entries, or one category's when category is non-empty.
func (c *Client) ListContent(ctx context.Context, category string) ([]model.ContentEntry, error) {
	if category == "" {
		return query[[]model.ContentEntry](ctx, c, KeyContent, "/api/content")
	}
	return query[[]model.ContentEntry](ctx, c, ContentCategoryKey(category), "/api/content/"+url.PathEscape(category))
}

// CategoryCounts derives per-category counts from the cached entry list.
func (c *Client) CategoryCounts(ctx context.Context) (map[string]int, error) {
	entries, err := c.ListContent(ctx, "")
	if err != nil {
		return nil, err
	}
	return agenda.CategoryCounts(entries), nil
}

func (c *Client) CreateContent(ctx context.Context, in dto.ContentCreateDTO) (*model.ContentEntry, error) {
	e, err := mutate[*model.ContentEntry](ctx, c, http.MethodPost, "/api/content", in)
	if err != nil {
		return nil, err
	}
	c.invalidate(KeyContent, ContentCategoryKey(e.Category), KeyStats, KeyActivity)
	return e, nil
}

// UpdateContent drops every category list when the category itself changes,
// since the entry's previous list is unknown here.
func (c *Client) UpdateContent(ctx context.Context, id int64, in dto.ContentUpdateDTO) (*model.ContentEntry, error) {
	e, err := mutate[*model.ContentEntry](ctx, c, http.MethodPut, itemPath("/api/content", id), in)
	if err != nil {
		return nil, err
	}
	if in.Category != nil {
		c.invalidate(append([]Key{KeyContent}, allCategoryKeys()...)...)
	} else {
		c.invalidate(KeyContent, ContentCategoryKey(e.Category))
	}
	return e, nil
}

func (c *Client) DeleteContent(ctx context.Context, id int64) error {
	if _, err := c.do(ctx, http.MethodDelete, itemPath("/api/content", id), nil); err != nil {
		return err
	}
	keys := append([]Key{KeyContent}, allCategoryKeys()...)
	c.invalidate(append(keys, KeyStats)...)
	return nil
}

// Reminders

// ListReminders serves every status filter from one cached list.
func (c *Client) ListReminders(ctx context.Context, filter agenda.StatusFilter) ([]model.Reminder, error) {
	all, err := query[[]model.Reminder](ctx, c, KeyReminders, "/api/reminders")
	if err != nil {
		return nil, err
	}
	return agenda.Filter(all, filter), nil
}

// Upcoming returns the soonest n incomplete reminders classified at now.
func (c *Client) Upcoming(ctx context.Context, n int, now time.Time) ([]agenda.Classified, error) {
	all, err := c.ListReminders(ctx, agenda.FilterAll)
	if err != nil {
		return nil, err
	}
	return agenda.ClassifyAll(agenda.Upcoming(all, n), now), nil
}

func (c *Client) CreateReminder(ctx context.Context, in dto.ReminderCreateDTO) (*model.Reminder, error) {
	r, err := mutate[*model.Reminder](ctx, c, http.MethodPost, "/api/reminders", in)
	if err != nil {
		return nil, err
	}
	c.invalidate(KeyReminders, KeyStats)
	return r, nil
}

func (c *Client) UpdateReminder(ctx context.Context, id int64, in dto.ReminderUpdateDTO) (*model.Reminder, error) {
	r, err := mutate[*model.Reminder](ctx, c, http.MethodPut, itemPath("/api/reminders", id), in)
	if err != nil {
		return nil, err
	}
	c.invalidate(KeyReminders)
	return r, nil
}

func (c *Client) DeleteReminder(ctx context.Context, id int64) error {
	if _, err := c.do(ctx, http.MethodDelete, itemPath("/api/reminders", id), nil); err != nil {
		return err
	}
	c.invalidate(KeyReminders)
	return nil
}

// Stats and activity

func (c *Client) Stats(ctx context.Context) (*model.UserStats, error) {
	return query[*model.UserStats](ctx, c, KeyStats, "/api/stats")
}

func (c *Client) Activity(ctx context.Context) ([]model.ActivityLog, error) {
	return query[[]model.ActivityLog](ctx, c, KeyActivity, "/api/activity")
}

// Integrations

func (c *Client) Integrations(ctx context.Context) ([]model.Integration, error) {
	return query[[]model.Integration](ctx, c, KeyIntegrations, "/api/integrations")
}

func (c *Client) UpsertIntegration(ctx context.Context, in dto.IntegrationUpsertDTO) (*model.Integration, error) {
	i, err := mutate[*model.Integration](ctx, c, http.MethodPost, "/api/integrations", in)
	if err != nil {
		return nil, err
	}
	c.invalidate(KeyIntegrations)
	return i, nil
}

// Admin

func (c *Client) AdminStats(ctx context.Context) (*model.SystemStats, error) {
	return query[*model.SystemStats](ctx, c, KeyAdminStats, "/api/admin/stats")
}

func (c *Client) AdminUsers(ctx context.Context) ([]model.User, error) {
	return query[[]model.User](ctx, c, KeyAdminUsers, "/api/admin/users")
}

func (c *Client) AdminContent(ctx context.Context) ([]model.ContentEntry, error) {
	return query[[]model.ContentEntry](ctx, c, KeyAdminContent, "/api/admin/content")
}

func (c *Client) AdminReminders(ctx context.Context) ([]model.Reminder, error) {
	return query[[]model.Reminder](ctx, c, KeyAdminReminders, "/api/admin/reminders")
}

func (c *Client) AdminActivities(ctx context.Context) ([]model.ActivityLog, error) {
	return query[[]model.ActivityLog](ctx, c, KeyAdminActivities, "/api/admin/activities")
}

func (c *Client) SetRole(ctx context.Context, userID, role string) (*model.User, error) {
	u, err := mutate[*model.User](ctx, c, http.MethodPut, "/api/admin/users/"+url.PathEscape(userID)+"/role", dto.RoleUpdateDTO{Role: role})
	if err != nil {
		return nil, err
	}
	c.invalidate(KeyAdminUsers)
	return u, nil
}

func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	if _, err := c.do(ctx, http.MethodDelete, "/api/admin/users/"+url.PathEscape(userID), nil); err != nil {
		return err
	}
	c.invalidate(KeyAdminUsers, KeyAdminStats)
	return nil
}
