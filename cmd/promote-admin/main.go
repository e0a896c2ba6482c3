package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dimitrije/taskhive-api/internal/config"
	"github.com/dimitrije/taskhive-api/internal/database"
	"github.com/dimitrije/taskhive-api/internal/services"
	"github.com/dimitrije/taskhive-api/internal/store"
)

func main() {
	email := flag.String("email", "", "email of the user to promote")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "usage: promote-admin -email user@example.com")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	userService := services.NewUserService(store.NewUserStore(db))

	if err := userService.PromoteToAdmin(ctx, *email); err != nil {
		fmt.Fprintf(os.Stderr, "failed to promote user: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s is now an admin\n", *email)
}
