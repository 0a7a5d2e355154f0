package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"pediatric-dosage/internal/domain/admin"

	"github.com/jackc/pgx/v5"
)

// columnas que nunca salen por el navegador de tablas
var hiddenColumns = map[string]bool{
	"contraseña": true,
}

type TablesRepo struct {
	db     *sql.DB
	schema string
}

func NewTablesRepo(db *sql.DB) *TablesRepo {
	return &TablesRepo{db: db, schema: "public"}
}

func (r *TablesRepo) ListTables(ctx context.Context) ([]admin.TableInfo, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT tablename
		FROM pg_tables
		WHERE schemaname = $1 AND tablename <> 'schema_migrations'
		ORDER BY tablename
	`, r.schema)
	if err != nil {
		return nil, fmt.Errorf("list pg_tables: %w", err)
	}

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			_ = rows.Close()
			return nil, err
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	out := make([]admin.TableInfo, 0, len(names))
	for _, n := range names {
		var count int64
		if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+r.ident(n)).Scan(&count); err != nil {
			return nil, fmt.Errorf("count %s: %w", n, err)
		}
		out = append(out, admin.TableInfo{Name: n, Rows: count})
	}
	return out, nil
}

func (r *TablesRepo) Rows(ctx context.Context, table string, limit, offset int) (admin.TablePage, error) {
	page := admin.TablePage{Table: table, Limit: limit, Offset: offset, Rows: []map[string]any{}}

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+r.ident(table)).Scan(&page.Total); err != nil {
		return admin.TablePage{}, fmt.Errorf("count %s: %w", table, err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT * FROM `+r.ident(table)+` LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return admin.TablePage{}, fmt.Errorf("select %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return admin.TablePage{}, err
	}
	for _, c := range cols {
		if !hiddenColumns[c] {
			page.Columns = append(page.Columns, c)
		}
	}

	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return admin.TablePage{}, err
		}

		row := make(map[string]any, len(cols))
		for i, c := range cols {
			if hiddenColumns[c] {
				continue
			}
			if b, ok := vals[i].([]byte); ok {
				row[c] = string(b)
				continue
			}
			row[c] = vals[i]
		}
		page.Rows = append(page.Rows, row)
	}
	return page, rows.Err()
}

func (r *TablesRepo) ident(table string) string {
	return pgx.Identifier{r.schema, table}.Sanitize()
}
