package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-auth/internal/models"
	"github.com/stretchr/testify/assert"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupUserPostgresContainer(t *testing.T) (*sqlx.DB, func()) {
	t.Helper()

	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_PASSWORD": "password", "POSTGRES_DB": "testdb", "POSTGRES_USER": "postgres"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp"),
	}

	container, err := tc.GenericContainer(context.Background(), tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	assert.NoError(t, err)

	host, _ := container.Host(context.Background())
	port, _ := container.MappedPort(context.Background(), "5432")

	dsn := fmt.Sprintf("postgres://postgres:password@%s:%d/testdb?sslmode=disable", host, port.Int())

	var db *sqlx.DB
	for i := 0; i < 10; i++ {
		db, err = sqlx.Connect("pgx", dsn)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	assert.NoError(t, err)

	schema := `
	CREATE TABLE IF NOT EXISTS users (
		user_id UUID PRIMARY KEY,
		email VARCHAR(100) NOT NULL,
		username VARCHAR(50) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
		CONSTRAINT users_email_key UNIQUE (email),
		CONSTRAINT users_username_key UNIQUE (username)
	);
	`
	_, err = db.Exec(schema)
	assert.NoError(t, err)

	teardown := func() {
		db.Close()
		container.Terminate(context.Background())
	}

	return db, teardown
}

func newTestUser(email, username string) *models.UserDB {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.UserDB{
		UserID:       uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserWriteRepository_Save(t *testing.T) {
	db, teardown := setupUserPostgresContainer(t)
	defer teardown()

	repo := NewUserWriteRepository(db)
	ctx := context.Background()

	user := newTestUser("alice@example.com", "alice")
	err := repo.Save(ctx, user)
	assert.NoError(t, err)

	var row struct {
		Email        string `db:"email"`
		Username     string `db:"username"`
		PasswordHash string `db:"password_hash"`
	}
	err = db.Get(&row, "SELECT email, username, password_hash FROM users WHERE user_id=$1", user.UserID)
	assert.NoError(t, err)

	assert.Equal(t, "alice@example.com", row.Email)
	assert.Equal(t, "alice", row.Username)
	assert.Equal(t, user.PasswordHash, row.PasswordHash)
}

func TestUserWriteRepository_Save_Conflicts(t *testing.T) {
	db, teardown := setupUserPostgresContainer(t)
	defer teardown()

	repo := NewUserWriteRepository(db)
	ctx := context.Background()

	assert.NoError(t, repo.Save(ctx, newTestUser("alice@example.com", "alice")))

	t.Run("DuplicateEmail", func(t *testing.T) {
		err := repo.Save(ctx, newTestUser("alice@example.com", "bob"))
		assert.ErrorIs(t, err, ErrEmailExists)
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		err := repo.Save(ctx, newTestUser("bob@example.com", "alice"))
		assert.ErrorIs(t, err, ErrUsernameExists)
	})
}

func TestUserReadRepository_Get(t *testing.T) {
	db, teardown := setupUserPostgresContainer(t)
	defer teardown()

	writeRepo := NewUserWriteRepository(db)
	readRepo := NewUserReadRepository(db)
	ctx := context.Background()

	assert.NoError(t, writeRepo.Save(ctx, newTestUser("charlie@example.com", "charlie")))
	assert.NoError(t, writeRepo.Save(ctx, newTestUser("dave@example.com", "dave")))

	t.Run("ByEmail", func(t *testing.T) {
		user, err := readRepo.GetByEmail(ctx, "charlie@example.com")
		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, "charlie", user.Username)
	})

	t.Run("ByUsername", func(t *testing.T) {
		user, err := readRepo.GetByUsername(ctx, "dave")
		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, "dave@example.com", user.Email)
	})

	t.Run("NotFoundByEmail", func(t *testing.T) {
		user, err := readRepo.GetByEmail(ctx, "nobody@example.com")
		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("NotFoundByUsername", func(t *testing.T) {
		user, err := readRepo.GetByUsername(ctx, "nobody")
		assert.NoError(t, err)
		assert.Nil(t, user)
	})
}

func TestUserRepositories_TransactionScope(t *testing.T) {
	db, teardown := setupUserPostgresContainer(t)
	defer teardown()

	writeRepo := NewUserWriteRepository(db)
	readRepo := NewUserReadRepository(db)

	tx, err := db.Beginx()
	assert.NoError(t, err)

	ctx := SetTxToContext(context.Background(), tx)

	user := newTestUser("erin@example.com", "erin")
	assert.NoError(t, writeRepo.Save(ctx, user))

	// Visible inside the transaction
	got, err := readRepo.GetByEmail(ctx, "erin@example.com")
	assert.NoError(t, err)
	assert.NotNil(t, got)

	// Not visible outside before commit
	got, err = readRepo.GetByEmail(context.Background(), "erin@example.com")
	assert.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, tx.Commit())

	got, err = readRepo.GetByEmail(context.Background(), "erin@example.com")
	assert.NoError(t, err)
	assert.NotNil(t, got)
}
