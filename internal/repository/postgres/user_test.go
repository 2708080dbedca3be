package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhankbrguw/rumah-kosim-api/pkg/database"
	apperrors "github.com/rhankbrguw/rumah-kosim-api/pkg/errors"

	"github.com/rhankbrguw/rumah-kosim-api/internal/domain"
)

func newUserTestFixture(t *testing.T) (*UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewUserRepository(mock)
	return repo, mock
}

func sampleUser() *domain.User {
	return &domain.User{
		ID:        1,
		Username:  "budi",
		Password:  "$2a$10$abcdefghijklmnopqrstuv",
		Email:     "budi@example.com",
		Role:      domain.RoleCustomer,
		Address:   "Jl. Merdeka No. 10, Bandung",
		CreatedAt: time.Now().UTC(),
	}
}

func userRow(u *domain.User) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "username", "password", "email", "role", "address", "created_at",
	}).AddRow(u.ID, u.Username, u.Password, u.Email, u.Role, u.Address, u.CreatedAt)
}

func TestUserRepository_Create_Success(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	u := sampleUser()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(u.Username, u.Password, u.Email, u.Role, u.Address).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))

	id, err := repo.Create(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateUsername(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	u := sampleUser()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(u.Username, u.Password, u.Email, u.Role, u.Address).
		WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "users_username_key" (SQLSTATE 23505)`))

	_, err := repo.Create(context.Background(), u)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByUsername_Success(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	u := sampleUser()

	mock.ExpectQuery("SELECT .+ FROM users WHERE username =").
		WithArgs(u.Username).
		WillReturnRows(userRow(u))

	got, err := repo.GetByUsername(context.Background(), u.Username)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, u.Role, got.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByUsername_NotFound(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM users WHERE username =").
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByUsername(context.Background(), "ghost")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateAddress_Success(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE users SET address =").
		WithArgs("Jl. Sudirman No. 99, Jakarta", int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateAddress(context.Background(), 1, "Jl. Sudirman No. 99, Jakarta")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateAddress_NotFound(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE users SET address =").
		WithArgs("somewhere far away", int64(404)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateAddress(context.Background(), 404, "somewhere far away")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
