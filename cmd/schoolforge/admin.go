package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/Strob0t/schoolforge/internal/adapter/postgres"
	"github.com/Strob0t/schoolforge/internal/config"
	"github.com/Strob0t/schoolforge/internal/domain/profile"
	"github.com/Strob0t/schoolforge/internal/password"
	"github.com/Strob0t/schoolforge/internal/port/messagequeue"
	"github.com/Strob0t/schoolforge/internal/service"
)

// runAdmin dispatches admin subcommands.
func runAdmin(args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "--help" {
		printAdminHelp()
		return nil
	}

	switch args[0] {
	case "create-super-admin":
		return runAdminCreateSuperAdmin(args[1:])
	case "seed":
		return runAdminSeed(args[1:])
	case "reset-password":
		return runAdminResetPassword(args[1:])
	case "migrate":
		return runAdminMigrate(args[1:])
	default:
		printAdminHelp()
		return fmt.Errorf("unknown admin command: %s", args[0])
	}
}

func printAdminHelp() {
	fmt.Fprintf(os.Stderr, `Usage: schoolforge admin <command> [options]

Commands:
  create-super-admin   Create a platform SUPER_ADMIN account
  seed                 Seed accounts from a YAML file
  reset-password       Replace a user's password with a temporary one
  migrate              Show the schema version or roll back migrations
  help                 Show this help message

Examples:
  schoolforge admin create-super-admin --email root@platform.test --name "Platform Admin"
  schoolforge admin seed --file seed.yaml
  schoolforge admin reset-password --email admin@springfield.test
  schoolforge admin migrate status
  schoolforge admin migrate down --steps 1
`)
}

// adminDeps holds what the admin commands need, built without an HTTP server.
type adminDeps struct {
	cfg    *config.Config
	store  *postgres.Store
	seeder *service.Seeder
	auth   *service.AuthService
	close  func()
}

func loadAdminDeps(ctx context.Context) (*adminDeps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	store := postgres.NewStore(pool)
	hasher := password.NewHasher(cfg.Auth.BcryptCost)
	identity := service.NewIdentityFactory(hasher)
	return &adminDeps{
		cfg:    cfg,
		store:  store,
		seeder: service.NewSeeder(store, identity, messagequeue.Noop{}, nil),
		auth:   service.NewAuthService(store, hasher, &cfg.Auth, nil),
		close:  pool.Close,
	}, nil
}

func runAdminCreateSuperAdmin(args []string) error {
	fs := flag.NewFlagSet("create-super-admin", flag.ContinueOnError)
	email := fs.String("email", "", "account email address (required)")
	name := fs.String("name", "", "display name (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" {
		return fmt.Errorf("--email is required")
	}
	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	pass, err := promptPassword("Password: ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	if pass != confirm {
		return fmt.Errorf("passwords do not match")
	}

	ctx := context.Background()
	deps, err := loadAdminDeps(ctx)
	if err != nil {
		return err
	}
	defer deps.close()

	res, err := deps.seeder.SeedSuperAdmin(ctx, profile.SuperAdminInput{
		AccountInput: profile.AccountInput{Email: *email, Password: pass, Name: *name},
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Super admin created: %s (id=%s)\n", res.Account.Email, res.Account.ID)
	return nil
}

func runAdminSeed(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	file := fs.String("file", "", "YAML seed document (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("--file is required")
	}

	doc, err := loadSeedFile(*file)
	if err != nil {
		return err
	}

	ctx := context.Background()
	deps, err := loadAdminDeps(ctx)
	if err != nil {
		return err
	}
	defer deps.close()

	n, err := applySeed(ctx, deps.store, deps.seeder, doc)
	fmt.Fprintf(os.Stderr, "Seeded %d account(s)\n", n)
	return err
}

func runAdminResetPassword(args []string) error {
	fs := flag.NewFlagSet("reset-password", flag.ContinueOnError)
	email := fs.String("email", "", "account email address (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("--email is required")
	}

	ctx := context.Background()
	deps, err := loadAdminDeps(ctx)
	if err != nil {
		return err
	}
	defer deps.close()

	temp, err := deps.auth.ResetPassword(ctx, *email, deps.cfg.Provisioning.TempPasswordLength)
	if err != nil {
		return err
	}

	// The temporary password goes to stdout once and is never stored in plaintext.
	fmt.Fprintf(os.Stderr, "Password reset for %s. Temporary password:\n", *email)
	fmt.Println(temp)
	return nil
}

func runAdminMigrate(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: schoolforge admin migrate status|down [--steps N]")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	ctx := context.Background()

	switch args[0] {
	case "status":
		v, err := postgres.MigrationVersion(ctx, cfg.Postgres.DSN)
		if err != nil {
			return err
		}
		fmt.Printf("schema version: %d\n", v)
		return nil
	case "down":
		fs := flag.NewFlagSet("migrate down", flag.ContinueOnError)
		steps := fs.Int("steps", 1, "number of migrations to roll back")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if err := postgres.RollbackMigrations(ctx, cfg.Postgres.DSN, *steps); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Rolled back %d migration(s)\n", *steps)
		return nil
	default:
		return fmt.Errorf("unknown migrate command: %s", args[0])
	}
}

// promptPassword reads a password from the terminal without echoing.
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin)) //nolint:unconvert // int conversion needed on some platforms
	fmt.Fprintln(os.Stderr)                         // newline after password input
	if err != nil {
		return "", err
	}
	return string(b), nil
}
