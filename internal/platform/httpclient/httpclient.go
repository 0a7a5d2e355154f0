package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultTimeout = 10 * time.Second

	// límite de body leído para errores / decode
	maxBodyBytes = 1 << 20
)

// Client envuelve *resty.Client con helpers comunes para adapters.
type Client struct {
	r       *resty.Client
	BaseURL string // opcional; si se define, Do/DoJSON pueden recibir paths relativos
}

// New crea un Client con timeout razonable.
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	r := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Client{r: r}
}

// NewWithBaseURL crea un Client con BaseURL + timeout.
func NewWithBaseURL(baseURL string, timeout time.Duration) (*Client, error) {
	c := New(timeout)
	if strings.TrimSpace(baseURL) == "" {
		return c, nil
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	c.BaseURL = strings.TrimRight(baseURL, "/")
	c.r.SetBaseURL(c.BaseURL)
	return c, nil
}

// NewWithTransport permite inyectar un Transport (p.ej. para tests).
func NewWithTransport(timeout time.Duration, tr http.RoundTripper) *Client {
	c := New(timeout)
	if tr != nil {
		c.r.SetTransport(tr)
	}
	return c
}

// SetRetries reintenta errores de red y 5xx (no 4xx).
func (c *Client) SetRetries(count int, wait time.Duration) *Client {
	c.r.SetRetryCount(count).
		SetRetryWaitTime(wait).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			return err != nil || resp.StatusCode() >= http.StatusInternalServerError
		})
	return c
}

// SetHeader agrega un header que va en todos los requests.
func (c *Client) SetHeader(key, value string) *Client {
	c.r.SetHeader(key, value)
	return c
}

// HTTPError representa una respuesta no-2xx.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("http error: status=%d body=%s", e.StatusCode, e.Body)
}

// StatusCode devuelve el status si err es *HTTPError (0 si no).
func StatusCode(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode
	}
	return 0
}

type Request struct {
	Method  string
	Path    string // URL absoluta o path relativo a BaseURL
	Query   url.Values
	Headers map[string]string
	Body    any // se serializa a JSON si no es nil
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Do ejecuta el request y devuelve *HTTPError si el status no es 2xx.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if c == nil || c.r == nil {
		return nil, errors.New("httpclient: nil client")
	}

	target, err := c.resolveURL(req.Path)
	if err != nil {
		return nil, err
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	rr := c.r.R().SetContext(ctx)
	if len(req.Query) > 0 {
		rr.SetQueryParamsFromValues(req.Query)
	}
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("httpclient: marshal json: %w", err)
		}
		rr.SetHeader("Content-Type", "application/json").SetBody(b)
	}
	// Extra headers
	for k, v := range req.Headers {
		if strings.TrimSpace(k) == "" {
			continue
		}
		rr.SetHeader(k, v)
	}

	resp, err := rr.Execute(method, target)
	if err != nil {
		return nil, fmt.Errorf("httpclient: do request: %w", err)
	}

	raw := resp.Body()
	if len(raw) > maxBodyBytes {
		raw = raw[:maxBodyBytes]
	}

	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, &HTTPError{
			StatusCode: resp.StatusCode(),
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       raw,
	}, nil
}

// DoJSON hace un request JSON.
// - method: GET/POST/etc
// - pathOrURL: puede ser URL absoluta o path relativo si BaseURL está seteado
// - headers: headers extra (opcional)
// - in: body a enviar (opcional). Si nil => no body.
// - out: donde decodificar JSON (opcional). Si nil => ignora body.
// Retorna error si status no es 2xx.
func (c *Client) DoJSON(
	ctx context.Context,
	method string,
	pathOrURL string,
	headers map[string]string,
	in any,
	out any,
) error {
	resp, err := c.Do(ctx, Request{
		Method:  method,
		Path:    pathOrURL,
		Headers: headers,
		Body:    in,
	})
	if err != nil {
		return err
	}
	return DecodeJSON(resp, out)
}

// DecodeJSON decodifica el body si out != nil y hay contenido.
func DecodeJSON(resp *Response, out any) error {
	if out == nil || resp == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("httpclient: unmarshal json: %w", err)
	}
	return nil
}

func (c *Client) resolveURL(pathOrURL string) (string, error) {
	pathOrURL = strings.TrimSpace(pathOrURL)
	if pathOrURL == "" {
		return "", errors.New("httpclient: empty url")
	}

	// Si ya es URL absoluta, úsala tal cual.
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return pathOrURL, nil
	}

	// Si no es absoluta, requiere BaseURL.
	if strings.TrimSpace(c.BaseURL) == "" {
		return "", errors.New("httpclient: relative path requires BaseURL")
	}

	if !strings.HasPrefix(pathOrURL, "/") {
		pathOrURL = "/" + pathOrURL
	}
	return c.BaseURL + pathOrURL, nil
}
