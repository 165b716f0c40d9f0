package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"gridiron/internal/repositories"
	"gridiron/internal/services/projection"
)

type importFunc func(s projection.Service, ctx context.Context, source string, r io.Reader) (int, error)

func importCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import fantasy projections or draft rankings",
	}
	cmd.AddCommand(importFileCmd(a, "projections", "Import a projection sheet (one player per line)",
		projection.Service.ImportProjections))
	cmd.AddCommand(importFileCmd(a, "rankings", "Import a draft ranking board",
		projection.Service.ImportRankings))
	return cmd
}

func importFileCmd(a *app, kind, short string, run importFunc) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   kind + " FILE",
		Short: short,
		Long: fmt.Sprintf(`Import %[1]s from a text dump. Rows already stored for the
same source are replaced in a single transaction.

A running API server keeps list pages in memory and serves the new rows
once its cached pages expire, within %[2]s.

Examples:
  gridctl import %[1]s clay-2025.txt --source clay`, kind, projection.ListCacheTTL),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()

			svc := projection.NewService(repositories.NewProjectionRepository(a.db), a.log)
			n, err := run(svc, cmd.Context(), source, f)
			if err != nil {
				return fmt.Errorf("import %s: %w", kind, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d %s for source %q\n", n, kind, source)
			return nil
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "name of the publisher, e.g. clay or espn")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}
