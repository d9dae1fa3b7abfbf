package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"peony/internal/database"
	"peony/internal/models"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// seed_overrides bulk-imports override records from a yaml file, for first
// deployment or for restoring a collection after manual edits.

type overridesFile struct {
	Overrides []struct {
		Date          string        `yaml:"date"`
		Slots         []models.Slot `yaml:"slots"`
		IsFullyBooked bool          `yaml:"is_fully_booked"`
	} `yaml:"overrides"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	var (
		seedPath = flag.String("overrides", "configs/overrides.yaml", "path to overrides yaml")
		dbPath   = flag.String("db", "./data/peony.db", "path to sqlite db")
	)
	flag.Parse()

	data, err := os.ReadFile(*seedPath)
	if err != nil {
		return fmt.Errorf("read overrides: %w", err)
	}

	var file overridesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse overrides: %w", err)
	}
	if len(file.Overrides) == 0 {
		return fmt.Errorf("no overrides found in %s", *seedPath)
	}

	db, err := database.NewDB(*dbPath, &logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, o := range file.Overrides {
		date, err := models.ParseDateKey(o.Date)
		if err != nil {
			return err
		}
		saved, err := db.PutOverride(ctx, &models.OverrideRecord{
			Date:          date,
			Slots:         o.Slots,
			IsFullyBooked: o.IsFullyBooked,
		})
		if err != nil {
			return fmt.Errorf("seed %s: %w", date, err)
		}
		logger.Info().Str("date", date.String()).Int64("version", saved.Version).Msg("override seeded")
	}

	logger.Info().Int("count", len(file.Overrides)).Msg("seeding complete")
	return nil
}
