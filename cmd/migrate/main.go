package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/primegestor/primegestor-api/internal/infrastructure/postgres"
	"github.com/primegestor/primegestor-api/pkg/config"
	"github.com/primegestor/primegestor-api/pkg/logger"
)

// Uso: migrate [up|down|status|redo|version] [args goose...]
func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "uso: migrate <up|down|status|redo|version|up-to VERSION>")
	}
	flag.Parse()
	command := "up"
	args := flag.Args()
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, command, args...); err != nil {
		log.Error().Err(err).Str("command", command).Msg("migración fallida")
		pool.Close()
		os.Exit(1)
	}
	log.Info().Str("command", command).Msg("migración completada")
}
