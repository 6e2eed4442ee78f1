package cli

import (
	"context"
	"time"

	"github.com/codenest/codenest/internal/domain"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func NewSweepCommand() *cobra.Command {
	var gracePeriod time.Duration

	cmd := &cobra.Command{
		Use:   "sweep [workspace-id]",
		Short: "Delete orphaned blobs in a workspace",
		Long: `Scans the workspace's blob prefix for objects with no live file record
and deletes the ones older than the grace period. Orphans are the expected
residue of uploads whose metadata write failed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(args[0], gracePeriod)
		},
	}

	cmd.Flags().DurationVar(&gracePeriod, "grace-period", time.Hour, "Minimum age before an orphan is reclaimed")

	return cmd
}

func runSweep(workspaceID string, gracePeriod time.Duration) error {
	ctx := context.Background()

	config, err := LoadConfig()
	if err != nil {
		return err
	}

	deps, err := BuildServiceDependencies(ctx, config)
	if err != nil {
		return err
	}

	result, err := deps.WorkspaceManager.SweepOrphanedBlobs(ctx, domain.SweepOrphanedBlobsParams{
		WorkspaceID: workspaceID,
		GracePeriod: gracePeriod,
	})
	if err != nil {
		return err
	}

	log.Info().
		Int("scanned", result.Scanned).
		Int("deleted", result.Deleted).
		Int("failed", result.Failed).
		Msg("Orphan sweep finished")

	return nil
}
