package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"isletmenum/app/auth"
	"isletmenum/domain"
	"isletmenum/infra/postgres"
	"isletmenum/pkg/config"
	"isletmenum/pkg/logger"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const usage = `Usage: admin <command> [flags]

Commands:
  migrate        apply pending database migrations
  create-user    create a user who can log in to the API
`

type userCreator interface {
	CreateUser(ctx context.Context, user domain.User) (domain.User, error)
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	appConfig := config.Read()
	flush := logger.Init(appConfig.IsDevelopment())
	defer flush()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := run(ctx, appConfig, os.Args[1], os.Args[2:]); err != nil {
		zap.L().Error("Command failed", zap.String("command", os.Args[1]), zap.Error(err))
		flush()
		os.Exit(1)
	}
}

func run(ctx context.Context, appConfig *config.AppConfig, command string, args []string) error {
	switch command {
	case "migrate":
		repo, err := postgres.NewPgRepository(ctx, appConfig.PostgresDSN())
		if err != nil {
			return err
		}
		defer repo.Close()
		return repo.Migrate(ctx)

	case "create-user":
		opts, err := parseCreateUser(args)
		if err != nil {
			return err
		}
		repo, err := postgres.NewPgRepository(ctx, appConfig.PostgresDSN())
		if err != nil {
			return err
		}
		defer repo.Close()

		user, err := createUser(ctx, repo, opts)
		if err != nil {
			return err
		}
		zap.L().Info("User created", zap.Int64("id", user.ID), zap.String("email", user.Email))
		return nil

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

type createUserOptions struct {
	email     string
	password  string
	firstName string
	lastName  string
}

func parseCreateUser(args []string) (createUserOptions, error) {
	var opts createUserOptions

	fs := pflag.NewFlagSet("create-user", pflag.ContinueOnError)
	fs.StringVar(&opts.email, "email", "", "login email (required)")
	fs.StringVar(&opts.password, "password", "", "initial password, at least 8 characters (required)")
	fs.StringVar(&opts.firstName, "first-name", "", "first name")
	fs.StringVar(&opts.lastName, "last-name", "", "last name")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	opts.email = auth.NormalizeEmail(opts.email)
	if opts.email == "" {
		return opts, errors.New("--email is required")
	}
	if len(opts.password) < 8 {
		return opts, errors.New("--password must be at least 8 characters")
	}
	return opts, nil
}

func createUser(ctx context.Context, users userCreator, opts createUserOptions) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(opts.password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	return users.CreateUser(ctx, domain.User{
		Email:        opts.email,
		PasswordHash: string(hash),
		FirstName:    opts.firstName,
		LastName:     opts.lastName,
	})
}
