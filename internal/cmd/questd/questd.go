// Package questd parses game server flags and launches the service.
package questd

import (
	"context"
	"flag"

	entrypoint "github.com/quest-net/questd/internal/platform/cmd"

	server "github.com/quest-net/questd/internal/game/app"
)

// Config holds game server command configuration.
type Config struct {
	Port int `env:"QUESTD_PORT" envDefault:"8080"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The game server port")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the game authority service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSession, func(context.Context) error {
		return server.Run(ctx, cfg.Port)
	})
}
