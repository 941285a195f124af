package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"github.com/fdg312/meal-planner/internal/config"
	"github.com/fdg312/meal-planner/internal/dbmigrate"
)

func main() {
	dir := flag.String("dir", "", "migrations directory (default: embedded migrations)")
	direct := flag.Bool("require-direct", false, "only accept DATABASE_URL_DIRECT")
	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatalf("usage: go run ./cmd/migrate [-dir path] [%s]", strings.Join(dbmigrate.Commands, "|"))
	}

	command := flag.Arg(0)
	if !dbmigrate.IsCommand(command) {
		log.Printf("unsupported command %q (allowed: %s)", command, strings.Join(dbmigrate.Commands, ", "))
		os.Exit(2)
	}

	cfg := config.Load()
	sel, err := dbmigrate.SelectDatabaseURL(cfg, *direct)
	if err != nil {
		log.Fatal(err)
	}

	if sel.Warning != "" {
		log.Printf("WARN migrate: %s", sel.Warning)
	}
	log.Printf("migrate: command=%s using=%s", command, sel.Source)

	if err := dbmigrate.Run(context.Background(), command, sel.URL, *dir); err != nil {
		log.Fatal(err)
	}

	log.Printf("migrate: %s completed successfully", command)
}
