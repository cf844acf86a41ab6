package shopsvc

import (
	"context"
	"errors"
)

var (
	ErrDuplicatedUser = errors.New("username already in use")
	ErrUserNotFound   = errors.New("user not found")
)

// User is a staff account. Password holds the bcrypt hash, never the
// plain text.
type User struct {
	ID       int64  `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	Password string `json:"-" db:"password"`
}

type NewUser struct {
	Username string
	Password string
}

type UserService interface {
	Create(ctx context.Context, nu NewUser) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
}
