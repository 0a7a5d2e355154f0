package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"pediatric-dosage/internal/domain/admin"
)

// columnas que nunca salen por el navegador de tablas
var hiddenColumns = map[string]bool{
	"contraseña": true,
}

type TablesRepo struct {
	c      *Client
	schema string
}

func NewTablesRepo(c *Client) *TablesRepo {
	return &TablesRepo{c: c, schema: "public"}
}

// ListTables lee pg_tables (requiere service key) y cuenta filas con count=exact.
func (r *TablesRepo) ListTables(ctx context.Context) ([]admin.TableInfo, error) {
	var rows []struct {
		Name string `json:"tablename"`
	}
	q := From("pg_tables").Select("tablename").Eq("schemaname", r.schema).Order("tablename", true)
	if _, err := r.c.Get(ctx, q, &rows); err != nil {
		return nil, err
	}

	out := make([]admin.TableInfo, 0, len(rows))
	for _, row := range rows {
		if row.Name == "schema_migrations" {
			continue
		}
		total, err := r.count(ctx, row.Name)
		if err != nil {
			return nil, err
		}
		out = append(out, admin.TableInfo{Name: row.Name, Rows: total})
	}
	return out, nil
}

func (r *TablesRepo) count(ctx context.Context, table string) (int64, error) {
	var discard []json.RawMessage
	return r.c.Get(ctx, From(table).Select("*").Limit(1).Count(), &discard)
}

func (r *TablesRepo) Rows(ctx context.Context, table string, limit, offset int) (admin.TablePage, error) {
	page := admin.TablePage{Table: table, Limit: limit, Offset: offset, Rows: []map[string]any{}}

	var raw []json.RawMessage
	total, err := r.c.Get(ctx, From(table).Select("*").Limit(limit).Offset(offset).Count(), &raw)
	if err != nil {
		return admin.TablePage{}, err
	}
	page.Total = total

	if len(raw) > 0 {
		cols, err := objectKeys(raw[0])
		if err != nil {
			return admin.TablePage{}, fmt.Errorf("%s: %w", table, err)
		}
		for _, c := range cols {
			if !hiddenColumns[c] {
				page.Columns = append(page.Columns, c)
			}
		}
	}

	for _, item := range raw {
		row := map[string]any{}
		dec := json.NewDecoder(bytes.NewReader(item))
		dec.UseNumber()
		if err := dec.Decode(&row); err != nil {
			return admin.TablePage{}, fmt.Errorf("%s: decode row: %w", table, err)
		}
		for c := range hiddenColumns {
			delete(row, c)
		}
		page.Rows = append(page.Rows, row)
	}
	return page, nil
}

// objectKeys devuelve las claves de un objeto JSON en el orden del store.
func objectKeys(obj json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(obj))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		keys = append(keys, key)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}
