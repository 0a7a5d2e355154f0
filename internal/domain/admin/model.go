package admin

import "time"

// User es un usuario del panel (tabla users). PasswordHash nunca sale por la API.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableInfo es una tabla visible desde el panel con su cantidad de filas.
type TableInfo struct {
	Name string `json:"name"`
	Rows int64  `json:"rows"`
}

// TablePage es una página de filas de una tabla.
type TablePage struct {
	Table   string           `json:"table"`
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
	Total   int64            `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

const (
	DefaultPageSize = 25
	MaxPageSize     = 100
)
