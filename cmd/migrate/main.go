// cmd/migrate/main.go
package main

import (
	"errors"
	"flag"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"

	"visatrack-service/internal/config"
)

func main() {
	_ = godotenv.Load()

	var (
		path  = flag.String("path", "file://migrations", "migrations source")
		down  = flag.Bool("down", false, "roll back instead of applying")
		steps = flag.Int("steps", 0, "limit to N steps (0 = all)")
	)
	flag.Parse()

	cfg := config.Load()

	m, err := migrate.New(*path, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to create migrate instance: %v", err)
	}
	defer m.Close()

	switch {
	case *down && *steps > 0:
		err = m.Steps(-*steps)
	case *down:
		err = m.Down()
	case *steps > 0:
		err = m.Steps(*steps)
	default:
		err = m.Up()
	}

	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Println("no schema changes to apply")
			return
		}
		log.Fatalf("migration failed: %v", err)
	}
	log.Println("migrations applied")
}
