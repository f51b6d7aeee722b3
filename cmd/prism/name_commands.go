package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"prism/internal/naming"
)

func newNameCommand(ctx *commandContext) *cobra.Command {
	nameCmd := &cobra.Command{
		Use:   "name",
		Short: "Parse and generate scene file names",
	}
	nameCmd.AddCommand(newNameParseCommand(ctx))
	nameCmd.AddCommand(newNameGenerateCommand(ctx))
	return nameCmd
}

func newNameParseCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Show the fields encoded in a scene file name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			data := naming.Parse(args[0], cfg.Naming.FilenameSeparator)
			if asJSON {
				return writeJSON(cmd, data)
			}
			rows := [][]string{
				{"entity", string(data.Entity)},
				{"entityName", data.EntityName},
				{"step", data.Step},
				{"category", data.Category},
				{"version", data.Version},
				{"comment", data.Comment},
				{"user", data.User},
				{"extension", data.Extension},
				{"basePath", data.BasePath},
			}
			printTable(cmd, "", []string{"Field", "Value"}, rows, nil)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newNameGenerateCommand(ctx *commandContext) *cobra.Command {
	var req naming.Request
	var entity string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build the path of a new scene file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseEntityFlag(entity)
			if err != nil {
				return err
			}
			if parsed == "" {
				return fmt.Errorf("--entity is required")
			}
			if req.EntityName == "" || req.Step == "" {
				return fmt.Errorf("--name and --step are required")
			}
			core, err := ctx.ensureCore(cmd)
			if err != nil {
				return err
			}
			req.Entity = parsed
			if parsed == naming.EntityAsset && req.BasePath == "" {
				req.BasePath = req.EntityName
				req.EntityName = core.Entities.AssetNameFromPath(req.EntityName)
			}
			fmt.Fprintln(cmd.OutOrStdout(), core.Codec.Generate(req))
			return nil
		},
	}
	cmd.Flags().StringVar(&entity, "entity", "", "asset or shot")
	cmd.Flags().StringVar(&req.EntityName, "name", "", "Asset path or shot name")
	cmd.Flags().StringVar(&req.Step, "step", "", "Pipeline step")
	cmd.Flags().StringVar(&req.Category, "category", "", "Step category")
	cmd.Flags().StringVar(&req.Version, "version", "", "Version tag (next free version when empty)")
	cmd.Flags().StringVar(&req.Comment, "comment", "", "Comment field")
	cmd.Flags().StringVar(&req.User, "user", "", "User abbreviation (project user when empty)")
	cmd.Flags().StringVar(&req.Extension, "ext", "", "File extension, e.g. .ma")
	cmd.Flags().StringVar(&req.BasePath, "base", "", "Scene directory or asset path")
	return cmd
}
