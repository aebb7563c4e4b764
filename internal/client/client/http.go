package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/eproduct/internal/client/models"
	"github.com/dmitrijs2005/eproduct/internal/common"
	"github.com/dmitrijs2005/eproduct/internal/logging"
	"github.com/google/uuid"
)

// maxResponseBody caps JSON responses read into memory.
const maxResponseBody = 4 << 20

// HTTPClient implements Client over the backend's REST API. Every request
// carries an X-Request-ID; non-2xx responses become *APIError and transport
// failures become *common.NetworkError.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     logging.Logger
	requestID  func() string
}

// NewHTTPClient builds a gateway for the backend at baseURL. timeout bounds
// every request, body included.
func NewHTTPClient(baseURL string, timeout time.Duration, logger logging.Logger) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	return &HTTPClient{
		baseURL:    u,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With("component", "gateway"),
		requestID:  uuid.NewString,
	}, nil
}

// Close releases idle keep-alive connections.
func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// request describes one backend call. body is sent as-is with contentType.
type request struct {
	method      string
	path        string
	token       string
	body        io.Reader
	contentType string
}

func jsonRequest(method, path, token string, payload any) (request, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return request{}, fmt.Errorf("encode %s %s: %w", method, path, err)
	}
	return request{method: method, path: path, token: token, body: bytes.NewReader(data), contentType: "application/json"}, nil
}

func (c *HTTPClient) resolve(ref string) string {
	if u, err := url.Parse(ref); err == nil && u.IsAbs() {
		return u.String()
	}
	return c.baseURL.String() + "/" + strings.TrimLeft(ref, "/")
}

// send issues the request and returns the response when the status is 2xx.
// The caller closes the body.
func (c *HTTPClient) send(ctx context.Context, r request) (*http.Response, error) {
	op := r.method + " " + r.path

	req, err := http.NewRequestWithContext(ctx, r.method, c.resolve(r.path), r.body)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", op, err)
	}
	reqID := c.requestID()
	req.Header.Set(common.RequestIDHeaderName, reqID)
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+r.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug(ctx, "request failed", "op", op, "request_id", reqID, "err", err)
		return nil, &common.NetworkError{Op: op, Err: err}
	}
	c.logger.Debug(ctx, "request done", "op", op, "status", resp.StatusCode, "request_id", reqID, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
		return nil, parseAPIError(resp.StatusCode, body)
	}
	return resp, nil
}

// do is the single typed request helper: 2xx bodies are decoded into out
// (when non-nil), everything else comes back as an error.
func (c *HTTPClient) do(ctx context.Context, r request, out any) error {
	resp, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return &common.NetworkError{Op: r.method + " " + r.path, Err: err}
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", r.method, r.path, err)
	}
	return nil
}

func (c *HTTPClient) Signup(ctx context.Context, creds models.Credentials) error {
	r, err := jsonRequest(http.MethodPost, "/auth/signup", "", creds)
	if err != nil {
		return err
	}
	return c.do(ctx, r, nil)
}

// Login returns the issued token. A 2xx without an access_token is an
// error.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (models.AuthToken, error) {
	r, err := jsonRequest(http.MethodPost, "/auth/login", "", models.Credentials{Email: email, Password: password})
	if err != nil {
		return models.AuthToken{}, err
	}
	var tok models.AuthToken
	if err := c.do(ctx, r, &tok); err != nil {
		return models.AuthToken{}, err
	}
	if tok.AccessToken == "" {
		return models.AuthToken{}, errors.New("login response carries no access token")
	}
	return tok, nil
}

func (c *HTTPClient) WhoAmI(ctx context.Context, token string) (models.User, error) {
	var u models.User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/auth/me", token: token}, &u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, token string, upd models.ProfileUpdate) (models.User, error) {
	r, err := jsonRequest(http.MethodPut, "/auth/me", token, upd)
	if err != nil {
		return models.User{}, err
	}
	var u models.User
	if err := c.do(ctx, r, &u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// ListProducts sends the token when one is given; the endpoint also answers
// anonymous callers.
func (c *HTTPClient) ListProducts(ctx context.Context, token string) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, request{method: http.MethodGet, path: "/products/", token: token}, &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

func (c *HTTPClient) GetProduct(ctx context.Context, id models.ID) (models.Product, error) {
	var p models.Product
	if err := c.do(ctx, request{method: http.MethodGet, path: productPath(id)}, &p); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

func (c *HTTPClient) CreateProduct(ctx context.Context, token string, fields models.ProductFields, image *models.Image) error {
	body, contentType, err := encodeProductForm(fields, image)
	if err != nil {
		return err
	}
	return c.do(ctx, request{method: http.MethodPost, path: "/products/", token: token, body: body, contentType: contentType}, nil)
}

func (c *HTTPClient) UpdateProduct(ctx context.Context, token string, id models.ID, fields models.ProductFields, image *models.Image) error {
	body, contentType, err := encodeProductForm(fields, image)
	if err != nil {
		return err
	}
	return c.do(ctx, request{method: http.MethodPut, path: productPath(id), token: token, body: body, contentType: contentType}, nil)
}

func (c *HTTPClient) DeleteProduct(ctx context.Context, token string, id models.ID) error {
	return c.do(ctx, request{method: http.MethodDelete, path: productPath(id), token: token}, nil)
}

// FetchImage streams the image behind a server-relative image_url into w.
func (c *HTTPClient) FetchImage(ctx context.Context, imageURL string, w io.Writer) (int64, error) {
	if strings.TrimSpace(imageURL) == "" {
		return 0, errors.New("product has no image")
	}
	resp, err := c.send(ctx, request{method: http.MethodGet, path: imageURL})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, &common.NetworkError{Op: "GET " + imageURL, Err: err}
	}
	return n, nil
}

func productPath(id models.ID) string {
	return "/products/" + url.PathEscape(id.String())
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// encodeProductForm builds the multipart body: title, description and price
// always, plus an "image" part only when an image is given.
func encodeProductForm(fields models.ProductFields, image *models.Image) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for _, f := range []struct{ name, value string }{
		{"title", fields.Title},
		{"description", fields.Description},
		{"price", models.FormatPrice(fields.Price)},
	} {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f.name, err)
		}
	}

	if image != nil && image.Body != nil {
		ct := image.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, quoteEscaper.Replace(image.Filename)))
		h.Set("Content-Type", ct)
		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create image part: %w", err)
		}
		if _, err := io.Copy(part, image.Body); err != nil {
			return nil, "", fmt.Errorf("copy image: %w", err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}
