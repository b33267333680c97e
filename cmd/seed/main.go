package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joemans3/TandemLaunch-Scouting-DB/config"
	"github.com/joemans3/TandemLaunch-Scouting-DB/database"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Seeding failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load environment variables
	if err := config.LoadENV(); err != nil {
		return err
	}
	cfg, err := config.Get()
	if err != nil {
		return err
	}

	log, err := utils.NewLogger(cfg.GoEnv)
	if err != nil {
		return err
	}
	defer log.Sync()

	store, err := database.StartGORM(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		return err
	}

	separator := strings.Repeat("=", 60)
	fmt.Println(separator)
	fmt.Println("Scouting DB - Database Seeding")
	fmt.Println(separator)

	report, err := database.NewSeeder(store.DB(), log).SeedAll(context.Background())
	if err != nil {
		return err
	}

	fmt.Println(separator)
	fmt.Printf("Created %d catalog bundles, skipped %d existing, %d incomplete\n",
		report.Created, report.Skipped, report.Incomplete)
	fmt.Println(separator)
	return nil
}
