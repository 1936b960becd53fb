// Package portal is the typed HTTP client for the company backend. Every
// resource operation goes through the same request builder, which attaches
// the bearer token from the session and normalizes response shapes at the
// boundary so view code never deals with raw payloads.
package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"SunPortal/entity"
	"SunPortal/internal/config"
	"SunPortal/internal/lib/sl"
	"SunPortal/internal/session"
)

type Client struct {
	baseURL string
	http    *http.Client
	session *session.Session
	log     *slog.Logger
}

func New(conf *config.Config, sess *session.Session, log *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(conf.API.BaseURL, "/"),
		http:    &http.Client{Timeout: conf.APITimeout()},
		session: sess,
		log:     log.With(sl.Module("portal.client")),
	}
}

// Session exposes the auth context the client was built with.
func (c *Client) Session() *session.Session {
	return c.session
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create GET %s: %w", path, err)
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	return c.sendJSON(ctx, http.MethodPost, path, body, out)
}

func (c *Client) putJSON(ctx context.Context, path string, body, out any) error {
	return c.sendJSON(ctx, http.MethodPut, path, body, out)
}

func (c *Client) patchJSON(ctx context.Context, path string, body, out any) error {
	return c.sendJSON(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create DELETE %s: %w", path, err)
	}
	return c.do(req, nil)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

// postMultipart packages fields plus binary photo attachments into a single
// multipart request. Used by the booking submission.
func (c *Client) postMultipart(ctx context.Context, path string, fields map[string]string, photos []entity.Photo, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := mw.WriteField(key, value); err != nil {
			return fmt.Errorf("write multipart field %s: %w", key, err)
		}
	}
	for _, photo := range photos {
		part, err := mw.CreateFormFile("photos", photo.Name)
		if err != nil {
			return fmt.Errorf("create multipart file part: %w", err)
		}
		if _, err := part.Write(photo.Data); err != nil {
			return fmt.Errorf("write photo %s: %w", photo.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("create POST %s: %w", path, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.With(sl.Err(err)).Error("request failed",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
		)
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := serverError(body)
		c.log.Error("non-2xx response",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.Int("status", resp.StatusCode),
		)
		if msg != "" {
			return fmt.Errorf("%s %s: %s (status %d)", req.Method, req.URL.Path, msg, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: status %d", req.Method, req.URL.Path, resp.StatusCode)
	}

	return decodeBody(body, out)
}
