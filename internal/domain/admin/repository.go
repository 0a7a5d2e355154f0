package admin

import "context"

type UserRepository interface {
	// List devuelve los usuarios ordenados por username.
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	// Create asigna ID y CreatedAt. Devuelve ErrConflict si el username ya existe.
	Create(ctx context.Context, u User) (User, error)
	Update(ctx context.Context, u User) error
	Delete(ctx context.Context, id int64) error
}

// TableBrowser es la vista de solo lectura sobre las tablas del store.
type TableBrowser interface {
	ListTables(ctx context.Context) ([]TableInfo, error)
	// Rows no valida el nombre; el servicio solo lo llama con nombres de ListTables.
	Rows(ctx context.Context, table string, limit, offset int) (TablePage, error)
}
