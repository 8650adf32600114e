// Package main provides an administration CLI.
// Usage: admin token --user ivan --role cashier [--name "Ivan"] [--ttl 8h]
//        admin roles
//        admin migrate
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"autoparts/internal/config"
	appctx "autoparts/internal/core/context"
	"autoparts/internal/domain/auth"
	"autoparts/internal/infrastructure/storage/postgres"
)

var knownRoles = []string{"viewer", "storekeeper", "cashier", "manager"}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "token":
		issueToken(cfg)
	case "roles":
		listRoles()
	case "migrate":
		migrate(context.Background(), cfg)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Autoparts Administration CLI

Usage:
  admin <command> [options]

Commands:
  token     Issue a staff access token
  roles     List built-in roles and their permissions
  migrate   Apply database migrations
  help      Show this help

Environment Variables:
  JWT_SECRET     Signing key shared with the server (required for token)
  DATABASE_URL   PostgreSQL connection string (required for migrate)

Examples:
  admin token --user ivan --role cashier
  admin token --user boss --admin --ttl 24h
  admin token --user auditor --perm audit:read --role viewer
  admin migrate`)
}

func issueToken(cfg config.Config) {
	if !cfg.AuthEnabled() {
		fmt.Println("Error: JWT_SECRET environment variable is required")
		os.Exit(1)
	}

	user := appctx.StaffUser{}
	ttl := cfg.JWTTokenTTL

	// Parse arguments
	for i := 2; i < len(os.Args); i++ {
		switch os.Args[i] {
		case "--user":
			if i+1 < len(os.Args) {
				user.UserID = os.Args[i+1]
				i++
			}
		case "--name":
			if i+1 < len(os.Args) {
				user.Name = os.Args[i+1]
				i++
			}
		case "--role":
			if i+1 < len(os.Args) {
				user.Roles = append(user.Roles, os.Args[i+1])
				i++
			}
		case "--perm":
			if i+1 < len(os.Args) {
				user.Permissions = append(user.Permissions, os.Args[i+1])
				i++
			}
		case "--ttl":
			if i+1 < len(os.Args) {
				d, err := time.ParseDuration(os.Args[i+1])
				if err != nil {
					fmt.Printf("Error: invalid --ttl: %v\n", err)
					os.Exit(1)
				}
				ttl = d
				i++
			}
		case "--admin":
			user.IsAdmin = true
		}
	}

	if user.UserID == "" {
		fmt.Println("Error: --user is required")
		fmt.Println("Usage: admin token --user <id> [--role <role>]... [--perm <perm>]... [--admin] [--ttl <duration>]")
		os.Exit(1)
	}
	for _, r := range user.Roles {
		if !auth.KnownRole(r) {
			fmt.Printf("Error: unknown role %q (known: %s)\n", r, strings.Join(knownRoles, ", "))
			os.Exit(1)
		}
	}

	jwtConfig := auth.DefaultJWTConfig(cfg.JWTSecret)
	jwtConfig.AccessTokenTTL = ttl
	token, expiresAt, err := auth.NewJWTService(jwtConfig).GenerateAccessToken(user)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Token for %s expires %s\n", user.UserID, expiresAt.Format(time.RFC3339))
	fmt.Println(token)
}

func listRoles() {
	for _, r := range knownRoles {
		fmt.Printf("%-12s %s\n", r, strings.Join(auth.ExpandPermissions([]string{r}, nil), ", "))
	}
}

func migrate(ctx context.Context, cfg config.Config) {
	if cfg.MemoryStore() {
		fmt.Println("Error: DATABASE_URL environment variable is required")
		os.Exit(1)
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL, 2, 1))
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	fmt.Println("Applying migrations...")
	if err := postgres.Migrate(ctx, postgres.NewTxManager(pool)); err != nil {
		fmt.Printf("Error: migrations failed: %v\n", err)
		pool.Close()
		os.Exit(1)
	}
	fmt.Println("Migrations completed")
}
