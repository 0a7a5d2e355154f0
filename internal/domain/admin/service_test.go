package admin_test

import (
	"context"
	"strings"
	"testing"
	"time"

	jwtauth "pediatric-dosage/internal/adapters/auth/jwt"
	mem "pediatric-dosage/internal/adapters/storage/memory"
	"pediatric-dosage/internal/domain/admin"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	svc    *admin.Service
	users  admin.UserRepository
	signer *jwtauth.Signer
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	users := mem.NewUserRepo()
	cons := mem.NewConsultationRepo()
	tables := mem.NewTableBrowser(mem.NewCatalogRepo(nil), cons, users)
	signer := jwtauth.NewSigner(jwtauth.Config{Secret: "s3cr3t", TTL: time.Hour})

	return fixture{
		svc:    admin.NewService(users, tables, signer, admin.WithBcryptCost(bcrypt.MinCost)),
		users:  users,
		signer: signer,
	}
}

func TestCreateUser_HashesPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.svc.CreateUser(ctx, "  ana  ", "clave123")
	require.NoError(t, err)
	assert.Equal(t, "ana", u.Username)
	assert.NotEqual(t, "clave123", u.PasswordHash)
	assert.True(t, strings.HasPrefix(u.PasswordHash, "$2"))
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("clave123")))

	_, err = f.svc.CreateUser(ctx, "ana", "otraclave")
	assert.ErrorIs(t, err, admin.ErrConflict)

	_, err = f.svc.CreateUser(ctx, "bruno", "")
	assert.ErrorIs(t, err, admin.ErrInvalidInput)
}

func TestUpdateUser_OptionalPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.svc.CreateUser(ctx, "ana", "clave123")
	require.NoError(t, err)
	oldHash := u.PasswordHash

	name := "ana.maria"
	empty := ""
	updated, err := f.svc.UpdateUser(ctx, u.ID, admin.UpdateUserInput{Username: &name, Password: &empty})
	require.NoError(t, err)
	assert.Equal(t, "ana.maria", updated.Username)
	assert.Equal(t, oldHash, updated.PasswordHash)

	pw := "nuevaclave"
	updated, err = f.svc.UpdateUser(ctx, u.ID, admin.UpdateUserInput{Password: &pw})
	require.NoError(t, err)
	assert.NotEqual(t, oldHash, updated.PasswordHash)

	_, err = f.svc.UpdateUser(ctx, 999, admin.UpdateUserInput{Username: &name})
	assert.ErrorIs(t, err, admin.ErrNotFound)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.svc.CreateUser(ctx, "ana", "clave123")
	require.NoError(t, err)

	tok, exp, err := f.svc.Login(ctx, "ana", "clave123")
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	claims, err := f.signer.Verify(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, "ana", claims.Username)
	assert.True(t, claims.IsAdmin())
	assert.NotEmpty(t, claims.UserID)
	assert.Equal(t, u.Username, claims.Username)

	_, _, err = f.svc.Login(ctx, "ana", "incorrecta")
	assert.ErrorIs(t, err, admin.ErrInvalidCredentials)

	_, _, err = f.svc.Login(ctx, "nadie", "clave123")
	assert.ErrorIs(t, err, admin.ErrInvalidCredentials)
}

func TestEnsureAdmin_OnlyWhenEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.EnsureAdmin(ctx, "admin", "admin123"))
	require.NoError(t, f.svc.EnsureAdmin(ctx, "otro", "otro1234"))

	users, err := f.svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "admin", users[0].Username)
}

func TestDeleteUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.svc.CreateUser(ctx, "ana", "clave123")
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteUser(ctx, u.ID))
	assert.ErrorIs(t, f.svc.DeleteUser(ctx, u.ID), admin.ErrNotFound)
	assert.ErrorIs(t, f.svc.DeleteUser(ctx, 0), admin.ErrInvalidInput)
}

func TestTableRows_ValidatesNameAndLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	page, err := f.svc.TableRows(ctx, "medicamento", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, admin.DefaultPageSize, page.Limit)
	assert.Len(t, page.Rows, 5)

	page, err = f.svc.TableRows(ctx, "medicamento", 1000, 0)
	require.NoError(t, err)
	assert.Equal(t, admin.MaxPageSize, page.Limit)

	_, err = f.svc.TableRows(ctx, "users; DROP TABLE users", 10, 0)
	assert.ErrorIs(t, err, admin.ErrUnknownTable)

	_, err = f.svc.TableRows(ctx, "medicamento", 10, -1)
	assert.ErrorIs(t, err, admin.ErrInvalidInput)
}
