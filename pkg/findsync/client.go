package findsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("findsync: server returned %d: %s", e.StatusCode, e.Message)
}

// Client is a REST client for the FindTogether API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient returns a Client for the API at baseURL, without a trailing slash.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{},
	}
}

// SetToken sets the bearer token attached to subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Register creates an account and adopts its token for subsequent calls.
func (c *Client) Register(ctx context.Context, username, email, password string) (*User, error) {
	var out struct {
		Token string `json:"token"`
		User  *User  `json:"user"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/api/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	c.token = out.Token
	return out.User, nil
}

// Login authenticates and adopts the returned token for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var out struct {
		Token string `json:"token"`
		User  *User  `json:"user"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/api/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	c.token = out.Token
	return out.User, nil
}

// Logout revokes the current token server-side and drops it locally.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.doJSON(ctx, http.MethodPost, "/api/logout", nil, nil); err != nil {
		return err
	}
	c.token = ""
	return nil
}

// FetchPosts returns every post, newest first, reports in append order.
func (c *Client) FetchPosts(ctx context.Context) ([]Post, error) {
	var posts []Post
	if err := c.doJSON(ctx, http.MethodGet, "/api/posts", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// FetchReports returns every report, attached and standalone.
func (c *Client) FetchReports(ctx context.Context) ([]Report, error) {
	var reports []Report
	if err := c.doJSON(ctx, http.MethodGet, "/api/reports", nil, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// Geocode resolves an address to coordinates via the server proxy.
func (c *Client) Geocode(ctx context.Context, address string) (Location, error) {
	var loc Location
	path := "/api/geocode?address=" + url.QueryEscape(address)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &loc); err != nil {
		return Location{}, err
	}
	return loc, nil
}

// ReverseGeocode resolves coordinates to the provider's address payload.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (*ReverseGeocodeResult, error) {
	var out ReverseGeocodeResult
	path := fmt.Sprintf("/api/reverse-geocode?lat=%s&lng=%s",
		strconv.FormatFloat(lat, 'f', -1, 64), strconv.FormatFloat(lng, 'f', -1, 64))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SignedURL exchanges a stored object name for a time-limited read URL.
func (c *Client) SignedURL(ctx context.Context, object string) (string, error) {
	var out struct {
		SignedURL string `json:"signedUrl"`
	}
	path := "/api/signed-url?filename=" + url.QueryEscape(object)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return "", err
	}
	return out.SignedURL, nil
}

// PostInput describes a new post. Image is optional.
type PostInput struct {
	Name             string
	Features         string
	LastSeenTime     string
	LastSeenLocation Location
	ImageFilename    string
	ImageData        []byte
}

// CreatePost submits a new post as multipart form data.
func (c *Client) CreatePost(ctx context.Context, in PostInput) (*Post, error) {
	loc, err := json.Marshal(in.LastSeenLocation)
	if err != nil {
		return nil, fmt.Errorf("findsync: encoding location: %w", err)
	}
	fields := map[string]string{
		"name":             in.Name,
		"features":         in.Features,
		"lastSeenTime":     in.LastSeenTime,
		"lastSeenLocation": string(loc),
	}

	var post Post
	if err := c.doMultipart(ctx, "/api/posts", fields, in.ImageFilename, in.ImageData, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// ReportInput describes a sighting attached to a post.
type ReportInput struct {
	Time          string
	Description   string
	Location      Location
	AuthorName    string
	ImageFilename string
	ImageData     []byte
}

// AppendReport attaches a sighting report to the given post.
func (c *Client) AppendReport(ctx context.Context, postID string, in ReportInput) (*Report, error) {
	loc, err := json.Marshal(in.Location)
	if err != nil {
		return nil, fmt.Errorf("findsync: encoding location: %w", err)
	}
	fields := map[string]string{
		"time":        in.Time,
		"description": in.Description,
		"location":    string(loc),
	}
	if in.AuthorName != "" {
		fields["authorName"] = in.AuthorName
	}

	var report Report
	path := "/api/posts/" + url.PathEscape(postID) + "/reports"
	if err := c.doMultipart(ctx, path, fields, in.ImageFilename, in.ImageData, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// DeletePost deletes one of the caller's posts.
func (c *Client) DeletePost(ctx context.Context, postID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/posts/"+url.PathEscape(postID), nil, nil)
}

// UpdateNickname changes the account's display name.
func (c *Client) UpdateNickname(ctx context.Context, nickname string) (*User, error) {
	var user User
	err := c.doJSON(ctx, http.MethodPatch, "/api/user/nickname",
		map[string]string{"nickname": nickname}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("findsync: encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("findsync: building request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) doMultipart(ctx context.Context, path string, fields map[string]string,
	imageFilename string, imageData []byte, out any) error {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("findsync: encoding form: %w", err)
		}
	}
	if imageFilename != "" {
		part, err := w.CreateFormFile("image", imageFilename)
		if err != nil {
			return fmt.Errorf("findsync: encoding form: %w", err)
		}
		if _, err := part.Write(imageData); err != nil {
			return fmt.Errorf("findsync: encoding form: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("findsync: encoding form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, buf)
	if err != nil {
		return fmt.Errorf("findsync: building request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("findsync: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("findsync: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &apiErr)
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("findsync: decoding response: %w", err)
	}
	return nil
}
