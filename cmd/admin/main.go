// Admin runs maintenance tasks against the shop database.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/joho/godotenv"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/autoelectric/shopsvc"
	"github.com/autoelectric/shopsvc/pkg/database"
	"github.com/autoelectric/shopsvc/postgres"
)

const usage = `commands:
  migrate                       bring the schema up to date
  useradd <username> <password> create a staff user
  user <username>               show a staff user`

// ErrUsage is returned when the command line does not name a known command.
var ErrUsage = errors.New("invalid usage")

func main() {
	log := zap.NewExample().Sugar()
	defer log.Sync()

	if err := run(log); err != nil {
		if errors.Is(err, ErrUsage) {
			fmt.Println(usage)
		} else {
			log.Errorw("admin", "error", err.Error())
		}
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg := struct {
		Args conf.Args
		DB struct {
			URL          string `conf:"env:DATABASE_URL,mask"`
			User         string `conf:"default:shopsvc"`
			Password     string `conf:"default:shopsvc,mask"`
			Host         string `conf:"default:localhost"`
			Name         string `conf:"default:shop"`
			MaxIdleConns int    `conf:"default:0"`
			MaxOpenConns int    `conf:"default:0"`
			DisableTLS   bool   `conf:"default:true"`
		}
		Timeout time.Duration `conf:"default:30s"`
	}{}

	help, err := conf.Parse("", &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			fmt.Println(usage)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	db, err := database.Open(database.Config{
		URL:          cfg.DB.URL,
		User:         cfg.DB.User,
		Password:     cfg.DB.Password,
		Host:         cfg.DB.Host,
		Name:         cfg.DB.Name,
		MaxIdleConns: cfg.DB.MaxIdleConns,
		MaxOpenConns: cfg.DB.MaxOpenConns,
		DisableTLS:   cfg.DB.DisableTLS,
	})
	if err != nil {
		return fmt.Errorf("connecting to db: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	switch cfg.Args.Num(0) {
	case "migrate":
		return migrate(ctx, log, db)
	case "useradd":
		return userAdd(ctx, log, postgres.NewUserService(db), cfg.Args.Num(1), cfg.Args.Num(2))
	case "user":
		return userShow(ctx, postgres.NewUserService(db), cfg.Args.Num(1))
	}
	return ErrUsage
}

func migrate(ctx context.Context, log *zap.SugaredLogger, db *sqlx.DB) error {
	if err := postgres.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	log.Infow("migrate", "status", "migrations complete")
	return nil
}

func userAdd(ctx context.Context, log *zap.SugaredLogger, users shopsvc.UserService, username, password string) error {
	if username == "" || password == "" {
		return ErrUsage
	}

	user, err := users.Create(ctx, shopsvc.NewUser{Username: username, Password: password})
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	log.Infow("useradd", "status", "user created", "id", user.ID, "username", user.Username)
	return nil
}

func userShow(ctx context.Context, users shopsvc.UserService, username string) error {
	if username == "" {
		return ErrUsage
	}

	user, err := users.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	fmt.Printf("id: %d\nusername: %s\n", user.ID, user.Username)
	return nil
}
