package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var currentFileFlag string

	ctx := newCommandContext(&configFlag, &currentFileFlag)

	rootCmd := &cobra.Command{
		Use:           "prism",
		Short:         "Prism project pipeline CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&currentFileFlag, "current-file", "", "Scene file treated as open (default $PRISM_CURRENT_FILE)")

	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newShotsCommand(ctx))
	rootCmd.AddCommand(newShotCommand(ctx))
	rootCmd.AddCommand(newAssetsCommand(ctx))
	rootCmd.AddCommand(newAssetCommand(ctx))
	rootCmd.AddCommand(newAssetFolderCommand(ctx))
	rootCmd.AddCommand(newStepsCommand(ctx))
	rootCmd.AddCommand(newStepCommand(ctx))
	rootCmd.AddCommand(newCategoriesCommand(ctx))
	rootCmd.AddCommand(newCategoryCommand(ctx))
	rootCmd.AddCommand(newScenefilesCommand(ctx))
	rootCmd.AddCommand(newVersionCommand(ctx))
	rootCmd.AddCommand(newNameCommand(ctx))
	rootCmd.AddCommand(newOutputCommand(ctx))
	rootCmd.AddCommand(newOmitCommand(ctx, true))
	rootCmd.AddCommand(newOmitCommand(ctx, false))
	rootCmd.AddCommand(newCommentCommand(ctx))
	rootCmd.AddCommand(newHookCommand(ctx))

	return rootCmd
}
