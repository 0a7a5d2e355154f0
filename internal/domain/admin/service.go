package admin

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"pediatric-dosage/internal/ports/auth"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownTable       = errors.New("unknown table")
)

const minPasswordLen = 6

type Service struct {
	users  UserRepository
	tables TableBrowser
	issuer auth.TokenIssuer
	log    *zap.Logger

	bcryptCost int
	now        func() time.Time
}

type Option func(*Service)

// WithBcryptCost permite bajar el costo en tests.
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.bcryptCost = cost }
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Service) { s.log = log.Named("admin") }
}

func NewService(users UserRepository, tables TableBrowser, issuer auth.TokenIssuer, opts ...Option) *Service {
	s := &Service{
		users:      users,
		tables:     tables,
		issuer:     issuer,
		log:        zap.NewNop(),
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.users.List(ctx)
}

// CreateUser exige contraseña y la guarda hasheada con bcrypt.
func (s *Service) CreateUser(ctx context.Context, username, password string) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(password) < minPasswordLen {
		return User{}, ErrInvalidInput
	}

	hash, err := s.hash(password)
	if err != nil {
		return User{}, err
	}

	u, err := s.users.Create(ctx, User{
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return User{}, err
	}
	s.log.Info("user created", zap.Int64("user_id", u.ID), zap.String("username", u.Username))
	return u, nil
}

type UpdateUserInput struct {
	Username *string
	Password *string // nil o "" = no cambia
}

func (s *Service) UpdateUser(ctx context.Context, id int64, in UpdateUserInput) (User, error) {
	if id <= 0 {
		return User{}, ErrInvalidInput
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	if in.Username != nil {
		name := strings.TrimSpace(*in.Username)
		if name == "" {
			return User{}, ErrInvalidInput
		}
		u.Username = name
	}
	if in.Password != nil && *in.Password != "" {
		if len(*in.Password) < minPasswordLen {
			return User{}, ErrInvalidInput
		}
		hash, err := s.hash(*in.Password)
		if err != nil {
			return User{}, err
		}
		u.PasswordHash = hash
	}

	if err := s.users.Update(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidInput
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("user deleted", zap.Int64("user_id", id))
	return nil
}

// Login compara la contraseña con el hash y emite un token de admin.
// Usuario inexistente y contraseña incorrecta devuelven el mismo error.
func (s *Service) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", time.Time{}, ErrInvalidCredentials
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", time.Time{}, ErrInvalidCredentials
		}
		return "", time.Time{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("login failed", zap.String("username", username))
		return "", time.Time{}, ErrInvalidCredentials
	}

	return s.issuer.Issue(ctx, auth.Claims{
		UserID:   strconv.FormatInt(u.ID, 10),
		Username: u.Username,
		Role:     auth.RoleAdmin,
	})
}

// EnsureAdmin crea el usuario inicial si todavía no hay usuarios.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil
	}
	existing, err := s.users.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	_, err = s.CreateUser(ctx, username, password)
	return err
}

func (s *Service) ListTables(ctx context.Context) ([]TableInfo, error) {
	return s.tables.ListTables(ctx)
}

// TableRows devuelve una página de filas. El nombre se valida contra ListTables
// y limit se acota a [1, MaxPageSize] (0 = DefaultPageSize).
func (s *Service) TableRows(ctx context.Context, table string, limit, offset int) (TablePage, error) {
	table = strings.TrimSpace(table)
	if table == "" || offset < 0 || limit < 0 {
		return TablePage{}, ErrInvalidInput
	}
	if limit == 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	known, err := s.tables.ListTables(ctx)
	if err != nil {
		return TablePage{}, err
	}
	found := false
	for _, t := range known {
		if t.Name == table {
			found = true
			break
		}
	}
	if !found {
		return TablePage{}, ErrUnknownTable
	}

	return s.tables.Rows(ctx, table, limit, offset)
}

func (s *Service) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}
