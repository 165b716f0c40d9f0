package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func cacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the redis cache",
	}

	var yes bool
	flush := &cobra.Command{
		Use:   "flush",
		Short: "Drop every cached wallet, user and game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to flush without --yes")
			}
			if err := a.cache.FlushAll(cmd.Context()); err != nil {
				return fmt.Errorf("flush cache: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "cache flushed")
			return nil
		},
	}
	flush.Flags().BoolVar(&yes, "yes", false, "confirm the flush")

	ping := &cobra.Command{
		Use:   "ping",
		Short: "Check that redis is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cache.HealthCheck(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "redis ok")
			return nil
		},
	}

	cmd.AddCommand(flush, ping)
	return cmd
}
