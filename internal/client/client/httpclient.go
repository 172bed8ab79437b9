package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/dentacare/internal/client/models"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
)

const userAgent = "DentaCare-CLI/1.0"

// HTTPOptions configures NewHTTPClient.
type HTTPOptions struct {
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// DefaultHTTPOptions are used for zero fields of the options passed in.
var DefaultHTTPOptions = HTTPOptions{
	Timeout:      10 * time.Second,
	RetryMax:     2,
	RetryWaitMin: 200 * time.Millisecond,
	RetryWaitMax: 2 * time.Second,
}

type HTTPClient struct {
	resty *resty.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds a client for the API rooted at baseURL.
func NewHTTPClient(baseURL string, opts HTTPOptions) *HTTPClient {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultHTTPOptions.Timeout
	}
	if opts.RetryMax < 0 {
		opts.RetryMax = 0
	}
	if opts.RetryWaitMin <= 0 {
		opts.RetryWaitMin = DefaultHTTPOptions.RetryWaitMin
	}
	if opts.RetryWaitMax <= 0 {
		opts.RetryWaitMax = DefaultHTTPOptions.RetryWaitMax
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = opts.RetryMax
	retryClient.RetryWaitMin = opts.RetryWaitMin
	retryClient.RetryWaitMax = opts.RetryWaitMax
	retryClient.Logger = nil
	retryClient.CheckRetry = checkRetry
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	r := resty.NewWithClient(retryClient.StandardClient()).
		SetBaseURL(baseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent)

	return &HTTPClient{resty: r}
}

// checkRetry retries GET requests only. A POST may have reached the server
// before the connection dropped, so it is never sent again.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if method := requestMethod(resp, err); method != http.MethodGet {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

func requestMethod(resp *http.Response, err error) string {
	if resp != nil && resp.Request != nil {
		return resp.Request.Method
	}
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return strings.ToUpper(uerr.Op)
	}
	return ""
}

func (c *HTTPClient) request(ctx context.Context) *resty.Request {
	return c.resty.R().SetContext(ctx)
}

// errorBody is the API's error envelope.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// checkResponse turns transport failures and non-2xx answers into errors.
// authKind is the sentinel used for 401 and 403 answers on this endpoint.
func checkResponse(resp *resty.Response, err error, authKind error) error {
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	if resp.IsSuccess() {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode()}

	var body errorBody
	if json.Unmarshal(resp.Body(), &body) == nil {
		apiErr.Message = body.Error
		if apiErr.Message == "" {
			apiErr.Message = body.Message
		}
	}

	switch code := resp.StatusCode(); {
	case code >= http.StatusInternalServerError:
		apiErr.kind = ErrServer
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		apiErr.kind = authKind
	}
	return apiErr
}

func decode(resp *resty.Response, v any) error {
	if err := json.Unmarshal(resp.Body(), v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return nil
}

func (c *HTTPClient) Register(ctx context.Context, req models.RegistrationRequest) error {
	resp, err := c.request(ctx).SetBody(req).Post("/auth/register")
	return checkResponse(resp, err, ErrAuthentication)
}

func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error) {
	resp, err := c.request(ctx).SetBody(creds).Post("/auth/login")
	if err := checkResponse(resp, err, ErrAuthentication); err != nil {
		return nil, err
	}

	var out models.LoginResponse
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	if out.Token == "" || out.User == nil {
		return nil, fmt.Errorf("%w: login response lacks token or user", ErrInvalidResponse)
	}
	return &out, nil
}

func (c *HTTPClient) Me(ctx context.Context, token string) (*models.User, error) {
	resp, err := c.request(ctx).SetAuthToken(token).Get("/api/user/me")
	if err := checkResponse(resp, err, ErrSessionExpired); err != nil {
		return nil, err
	}

	var user models.User
	if err := decode(resp, &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, fmt.Errorf("%w: user without id", ErrInvalidResponse)
	}
	return &user, nil
}

func (c *HTTPClient) SendChat(ctx context.Context, token string, message string) (*models.ChatResponse, error) {
	resp, err := c.request(ctx).
		SetAuthToken(token).
		SetBody(models.ChatRequest{Message: message}).
		Post("/api/chat")
	if err := checkResponse(resp, err, ErrSessionExpired); err != nil {
		return nil, err
	}

	var out models.ChatResponse
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Close() error {
	c.resty.GetClient().CloseIdleConnections()
	return nil
}
