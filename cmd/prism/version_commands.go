package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"prism/internal/naming"
	"prism/internal/versioning"
)

func newVersionCommand(ctx *commandContext) *cobra.Command {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Inspect scene and output versions",
	}
	versionCmd.AddCommand(newVersionHighestCommand(ctx))
	versionCmd.AddCommand(newVersionNextCommand(ctx))
	versionCmd.AddCommand(newVersionTaskCommand(ctx))
	return versionCmd
}

func parseEntityFlag(value string) (naming.Entity, error) {
	switch naming.Entity(value) {
	case "":
		return "", nil
	case naming.EntityAsset, naming.EntityShot:
		return naming.Entity(value), nil
	}
	return "", fmt.Errorf("--entity must be asset or shot, got %q", value)
}

func newVersionHighestCommand(ctx *commandContext) *cobra.Command {
	var entityFlag string
	var extensions []string
	var globalOnly bool

	cmd := &cobra.Command{
		Use:   "highest <scene-dir>",
		Short: "Show the highest scene file version in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entity, err := parseEntityFlag(entityFlag)
			if err != nil {
				return err
			}
			core, err := ctx.ensureCore(cmd)
			if err != nil {
				return err
			}
			version, path := core.Versions.Highest(versioning.Query{
				Dir:        args[0],
				Entity:     entity,
				Extensions: extensions,
				GlobalOnly: globalOnly,
			})
			out := cmd.OutOrStdout()
			if version == 0 {
				fmt.Fprintln(out, "No versions found")
				return nil
			}
			fmt.Fprintf(out, "%s\t%s\n", core.Project.VersionFormat(version), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&entityFlag, "entity", "", "Restrict to asset or shot files (inferred from the path by default)")
	cmd.Flags().StringSliceVar(&extensions, "ext", nil, "Only consider these extensions")
	cmd.Flags().BoolVar(&globalOnly, "global-only", false, "Ignore the local mirror")
	return cmd
}

func newVersionNextCommand(ctx *commandContext) *cobra.Command {
	var entityFlag string

	cmd := &cobra.Command{
		Use:   "next <scene-dir>",
		Short: "Show the next free scene file version in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entity, err := parseEntityFlag(entityFlag)
			if err != nil {
				return err
			}
			core, err := ctx.ensureCore(cmd)
			if err != nil {
				return err
			}
			highest, _ := core.Versions.Highest(versioning.Query{Dir: args[0], Entity: entity})
			fmt.Fprintln(cmd.OutOrStdout(), core.Project.VersionFormat(highest+1))
			return nil
		},
	}
	cmd.Flags().StringVar(&entityFlag, "entity", "", "Restrict to asset or shot files (inferred from the path by default)")
	return cmd
}

func newVersionTaskCommand(ctx *commandContext) *cobra.Command {
	var existing bool
	var ignoreEmpty bool

	cmd := &cobra.Command{
		Use:   "task <task-dir>",
		Short: "Show the output version of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := ctx.ensureCore(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), core.Versions.HighestTaskVersion(args[0], existing, ignoreEmpty))
			return nil
		},
	}
	cmd.Flags().BoolVar(&existing, "existing", false, "Return the highest existing version instead of the next one")
	cmd.Flags().BoolVar(&ignoreEmpty, "ignore-empty", false, "Skip version folders holding nothing but version info")
	return cmd
}
