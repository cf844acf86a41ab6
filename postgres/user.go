package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/autoelectric/shopsvc"
)

type UserService struct {
	db *sqlx.DB
}

func NewUserService(db *sqlx.DB) shopsvc.UserService {
	return &UserService{
		db: db,
	}
}

// Create hashes the password and stores the user.
func (us UserService) Create(ctx context.Context, nu shopsvc.NewUser) (shopsvc.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), bcrypt.DefaultCost)
	if err != nil {
		return shopsvc.User{}, fmt.Errorf("hashing password: %w", err)
	}

	query := `
	INSERT INTO users (
		username, password
	) VALUES (
		$1, $2
	)
	RETURNING id, username, password`

	var user shopsvc.User
	if err := us.db.GetContext(ctx, &user, query, nu.Username, string(hash)); err != nil {
		if isUniqueViolation(err) {
			return shopsvc.User{}, shopsvc.ErrDuplicatedUser
		}
		return shopsvc.User{}, fmt.Errorf("inserting user: %w", err)
	}

	return user, nil
}

func (us UserService) GetByID(ctx context.Context, id int64) (shopsvc.User, error) {
	query := `
	SELECT
		id,
		username,
		password
	FROM users
	WHERE id=$1`

	return us.get(ctx, query, id)
}

func (us UserService) GetByUsername(ctx context.Context, username string) (shopsvc.User, error) {
	query := `
	SELECT
		id,
		username,
		password
	FROM users
	WHERE username=$1`

	return us.get(ctx, query, username)
}

func (us UserService) get(ctx context.Context, query string, arg any) (shopsvc.User, error) {
	var user shopsvc.User
	if err := us.db.GetContext(ctx, &user, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user, shopsvc.ErrUserNotFound
		}
		return user, fmt.Errorf("selecting user: %w", err)
	}
	return user, nil
}
