package cli

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func NewRepairCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repair-paths [workspace-id]",
		Short: "Repair materialized folder paths in a workspace",
		Long: `Rewrites folders and files whose stored path does not match the path
implied by the parent chain. A crash in the middle of a rename or move can
leave such entries behind.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepair(args[0])
		},
	}

	return cmd
}

func runRepair(workspaceID string) error {
	ctx := context.Background()

	config, err := LoadConfig()
	if err != nil {
		return err
	}

	deps, err := BuildServiceDependencies(ctx, config)
	if err != nil {
		return err
	}

	repaired, err := deps.FolderManager.RepairFolderPaths(ctx, workspaceID, "system")
	if err != nil {
		return err
	}

	log.Info().Int("repaired", repaired).Msg("Path repair finished")

	return nil
}
