// Package postgrest guarda el catálogo, el historial y los usuarios en un
// store REST estilo PostgREST (Supabase): /rest/v1/<tabla>?col=eq.valor.
package postgrest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pediatric-dosage/internal/platform/httpclient"
)

// Client habla con /rest/v1 usando la service key.
type Client struct {
	http *httpclient.Client
	key  string
}

// New arma el cliente. baseURL es la URL del proyecto (sin /rest/v1).
func New(baseURL, key string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("postgrest: base url is required")
	}
	hc, err := httpclient.NewWithBaseURL(baseURL+"/rest/v1", timeout)
	if err != nil {
		return nil, err
	}
	hc.SetRetries(2, 200*time.Millisecond)
	return &Client{http: hc, key: key}, nil
}

func (c *Client) headers(prefer string) map[string]string {
	h := map[string]string{}
	if c.key != "" {
		h["apikey"] = c.key
		h["Authorization"] = "Bearer " + c.key
	}
	if prefer != "" {
		h["Prefer"] = prefer
	}
	return h
}

// Query es el builder de filtros (select, eq, order, limit/offset).
type Query struct {
	table  string
	params url.Values
	count  bool
}

// From arranca una consulta sobre la tabla.
func From(table string) *Query {
	return &Query{table: table, params: url.Values{}}
}

func (q *Query) Select(columns ...string) *Query {
	cols := make([]string, 0, len(columns))
	for _, c := range columns {
		cols = append(cols, strings.Join(strings.Fields(c), ""))
	}
	q.params.Set("select", strings.Join(cols, ","))
	return q
}

func (q *Query) Eq(column string, value any) *Query {
	return q.filter(column, "eq", value)
}

func (q *Query) Gte(column string, value any) *Query {
	return q.filter(column, "gte", value)
}

func (q *Query) Lte(column string, value any) *Query {
	return q.filter(column, "lte", value)
}

// filter usa Add: dos filtros sobre la misma columna se combinan con AND.
func (q *Query) filter(column, op string, value any) *Query {
	q.params.Add(column, op+"."+formatValue(value))
	return q
}

// Order agrega columnas de orden en el orden en que se llaman.
func (q *Query) Order(column string, ascending bool) *Query {
	dir := "asc"
	if !ascending {
		dir = "desc"
	}
	term := column + "." + dir
	if prev := q.params.Get("order"); prev != "" {
		term = prev + "," + term
	}
	q.params.Set("order", term)
	return q
}

func (q *Query) Limit(n int) *Query {
	q.params.Set("limit", strconv.Itoa(n))
	return q
}

func (q *Query) Offset(n int) *Query {
	q.params.Set("offset", strconv.Itoa(n))
	return q
}

// Count pide el total exacto en Content-Range.
func (q *Query) Count() *Query {
	q.count = true
	return q
}

// String devuelve path + query tal como se envía (útil en logs/tests).
func (q *Query) String() string {
	if len(q.params) == 0 {
		return "/" + q.table
	}
	return "/" + q.table + "?" + q.params.Encode()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

// Get ejecuta un SELECT y decodifica el array en out. Devuelve el total
// si la query pidió Count (-1 si no).
func (c *Client) Get(ctx context.Context, q *Query, out any) (int64, error) {
	prefer := ""
	if q.count {
		prefer = "count=exact"
	}
	resp, err := c.http.Do(ctx, httpclient.Request{
		Method:  http.MethodGet,
		Path:    "/" + q.table,
		Query:   q.params,
		Headers: c.headers(prefer),
	})
	if err != nil {
		return 0, wrap(q.table, err)
	}
	if err := httpclient.DecodeJSON(resp, out); err != nil {
		return 0, err
	}
	if !q.count {
		return -1, nil
	}
	return parseContentRange(resp.Header.Get("Content-Range"))
}

// Insert hace POST con return=representation y decodifica las filas creadas.
func (c *Client) Insert(ctx context.Context, table string, rows any, out any) error {
	return c.write(ctx, http.MethodPost, From(table), rows, out)
}

// Update hace PATCH sobre las filas que matchean q.
func (c *Client) Update(ctx context.Context, q *Query, patch any, out any) error {
	return c.write(ctx, http.MethodPatch, q, patch, out)
}

// Delete borra las filas que matchean q y decodifica las borradas en out.
func (c *Client) Delete(ctx context.Context, q *Query, out any) error {
	return c.write(ctx, http.MethodDelete, q, nil, out)
}

func (c *Client) write(ctx context.Context, method string, q *Query, body any, out any) error {
	resp, err := c.http.Do(ctx, httpclient.Request{
		Method:  method,
		Path:    "/" + q.table,
		Query:   q.params,
		Headers: c.headers("return=representation"),
		Body:    body,
	})
	if err != nil {
		return wrap(q.table, err)
	}
	return httpclient.DecodeJSON(resp, out)
}

// ErrConflict es el 409 de PostgREST (unique violation).
var ErrConflict = errors.New("postgrest: conflict")

func wrap(table string, err error) error {
	if httpclient.StatusCode(err) == http.StatusConflict {
		return fmt.Errorf("%s: %w: %v", table, ErrConflict, err)
	}
	return fmt.Errorf("%s: %w", table, err)
}

// parseContentRange lee el total de "0-24/573" o "*/0".
func parseContentRange(v string) (int64, error) {
	i := strings.LastIndex(v, "/")
	if i < 0 {
		return 0, fmt.Errorf("postgrest: invalid Content-Range %q", v)
	}
	total := v[i+1:]
	if total == "*" {
		return 0, fmt.Errorf("postgrest: count not returned in Content-Range %q", v)
	}
	n, err := strconv.ParseInt(total, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("postgrest: invalid Content-Range %q", v)
	}
	return n, nil
}
