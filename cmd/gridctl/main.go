// Command gridctl runs operator tasks against the gridiron database, such as
// fantasy data imports and deposit reconciliation.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
	"gorm.io/gorm"

	"gridiron/internal/config"
	"gridiron/internal/logger"
	"gridiron/internal/logger/sl"
	"gridiron/internal/repositories"
	"gridiron/internal/repositories/cache"
)

var Version = "dev"

// app holds the backends a command runs against. Tests fill db and cache
// in advance so nothing is dialed.
type app struct {
	cfg   *config.Config
	log   *slog.Logger
	db    *gorm.DB
	cache *cache.CacheService

	owned bool
}

func main() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gridctl",
		Short:         "Operator tools for the gridiron API",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.connect()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	rootCmd.AddCommand(importCmd(a))
	rootCmd.AddCommand(seedAdminCmd(a))
	rootCmd.AddCommand(reconcileCmd(a))
	rootCmd.AddCommand(cacheCmd(a))

	return rootCmd
}

func (a *app) connect() error {
	if a.db != nil {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger.Setup(cfg.Env)

	db, err := repositories.InitDB(cfg.Database)
	if err != nil {
		return err
	}
	a.db = db
	a.cache = cache.NewCacheService(cache.NewRedisClient(cfg.Redis), time.Hour)
	a.owned = true
	return nil
}

func (a *app) close() error {
	if !a.owned {
		return nil
	}
	if err := a.cache.Close(); err != nil {
		a.log.Warn("failed to close redis connection", sl.Err(err))
	}
	return repositories.CloseDB(a.db)
}
