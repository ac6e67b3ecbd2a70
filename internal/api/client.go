// Package api is the REST client for the storefront backend. It attaches the
// bearer token when one is held and maps response statuses to coded errors;
// any 401 tears the session down through the guard.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/cetrics/nexdawn-storefront/pkg/errors"
	"github.com/cetrics/nexdawn-storefront/pkg/logger"
)

const defaultTimeout = 15 * time.Second

// SessionGuard is the slice of the session guard the client needs.
type SessionGuard interface {
	Token() string
	HandleUnauthorized(ctx context.Context) error
}

// ClientParams groups dependencies for the API client.
type ClientParams struct {
	BaseURL    string
	Guard      SessionGuard
	HTTPClient *http.Client
	Logger     *logger.Logger
}

// Client talks to the storefront REST API.
type Client struct {
	baseURL    string
	guard      SessionGuard
	httpClient *http.Client
	logg       *logger.Logger
}

// NewClient validates the base URL and applies defaults.
func NewClient(params ClientParams) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(params.BaseURL), "/")
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "base url is required")
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid base url")
	}
	httpClient := params.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    trimmed,
		guard:      params.Guard,
		httpClient: httpClient,
		logg:       params.Logger,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request body")
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.guard != nil {
		if token := c.guard.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "request failed")
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusUnauthorized && c.guard != nil {
		if terr := c.guard.HandleUnauthorized(ctx); terr != nil && c.logg != nil {
			c.logg.Error(ctx, "session teardown failed", terr)
		}
	}

	if resp.StatusCode >= 400 {
		return c.errorFromResponse(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode response")
	}
	return nil
}

func (c *Client) errorFromResponse(resp *http.Response) error {
	code := pkgerrors.CodeForStatus(resp.StatusCode)
	message := pkgerrors.MetadataFor(code).PublicMessage

	var envelope struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
		if envelope.Message != "" {
			message = envelope.Message
		} else if len(envelope.Error) > 0 {
			var plain string
			if json.Unmarshal(envelope.Error, &plain) == nil && plain != "" {
				message = plain
			} else {
				var structured struct {
					Message string `json:"message"`
				}
				if json.Unmarshal(envelope.Error, &structured) == nil && structured.Message != "" {
					message = structured.Message
				}
			}
		}
	}

	return pkgerrors.New(code, message).WithDetails(map[string]any{
		"status": resp.StatusCode,
		"path":   resp.Request.URL.Path,
	})
}

func idPath(base string, id int) string {
	return fmt.Sprintf("%s/%d", base, id)
}
