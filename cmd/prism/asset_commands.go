package main

import (
	"github.com/spf13/cobra"

	"prism/internal/entities"
)

func newAssetsCommand(ctx *commandContext) *cobra.Command {
	var depth int
	var filter string
	var folders bool
	var empty bool
	var showOmitted bool

	cmd := &cobra.Command{
		Use:   "assets [path]",
		Short: "List assets, or asset folders without assets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := ctx.ensureCore(cmd)
			if err != nil {
				return err
			}
			life := core.Entities

			var paths []string
			kind := entities.TypeAsset
			switch {
			case empty:
				paths = life.EmptyAssetFolders()
				kind = entities.TypeFolder
			default:
				base := ""
				if len(args) == 1 {
					if resolved, ok := life.AssetPathFromName(args[0]); ok {
						base = resolved
					} else {
						base = args[0]
					}
				}
				assets, assetFolders := life.AssetPaths(base, depth)
				paths = assets
				if folders {
					paths = assetFolders
					kind = entities.TypeFolder
				}
			}

			if filter != "" {
				paths = life.FilterAssets(paths, filter)
			}
			if !showOmitted && kind == entities.TypeAsset {
				paths = life.FilterOmittedAssets(paths)
			}

			rows := make([][]string, 0, len(paths))
			for _, path := range paths {
				rows = append(rows, []string{life.AssetRelPath(path), kind, path})
			}
			printTable(cmd, "No assets found", []string{"Name", "Type", "Path"}, rows, nil)
			return nil
		},
	}
	cmd.Flags().IntVar(&depth, "depth", 0, "Folder levels to descend (0 = unlimited)")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Case-insensitive filter on the asset path")
	cmd.Flags().BoolVar(&folders, "folders", false, "List folders that contain no assets instead of assets")
	cmd.Flags().BoolVar(&empty, "empty", false, "List only the deepest empty asset folders")
	cmd.Flags().BoolVar(&showOmitted, "omitted", false, "Include omitted assets")
	return cmd
}

func newAssetCommand(ctx *commandContext) *cobra.Command {
	assetCmd := &cobra.Command{
		Use:   "asset",
		Short: "Create assets",
	}
	assetCmd.AddCommand(newCreateEntityCommand(ctx, entities.KindAsset, "Create an asset (path relative to the asset root)"))
	return assetCmd
}

func newAssetFolderCommand(ctx *commandContext) *cobra.Command {
	folderCmd := &cobra.Command{
		Use:   "asset-folder",
		Short: "Create asset folders",
	}
	folderCmd.AddCommand(newCreateEntityCommand(ctx, entities.KindAssetFolder, "Create an asset folder"))
	return folderCmd
}

func newCreateEntityCommand(ctx *commandContext, kind entities.Kind, short string) *cobra.Command {
	return &cobra.Command{
		Use:   "create <path>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := ctx.ensureCore(cmd)
			if err != nil {
				return err
			}
			result, err := core.Entities.CreateEntity(kind, args[0], nil)
			if err != nil {
				return err
			}
			printResult(cmd, result)
			return nil
		},
	}
}
