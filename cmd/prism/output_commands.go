package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"prism/internal/outputs"
)

func newOutputCommand(ctx *commandContext) *cobra.Command {
	outputCmd := &cobra.Command{
		Use:   "output",
		Short: "Resolve render and media output paths",
	}
	outputCmd.AddCommand(newOutputPathCommand(ctx))
	outputCmd.AddCommand(newOutputCompositingCommand(ctx))
	outputCmd.AddCommand(newOutputLatestCommand(ctx))
	outputCmd.AddCommand(newOutputConvertCommand(ctx))
	outputCmd.AddCommand(newOutputTasksCommand(ctx))
	return outputCmd
}

func newOutputPathCommand(ctx *commandContext) *cobra.Command {
	var req outputs.Request
	var entity string

	cmd := &cobra.Command{
		Use:   "path",
		Short: "Show the 2D render output path of an asset or shot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseEntityFlag(entity)
			if err != nil {
				return err
			}
			if req.Task == "" {
				return fmt.Errorf("--task is required")
			}
			core, err := ctx.ensureCore(cmd)
			if err != nil {
				return err
			}
			req.Entity = parsed
			path, version := core.Outputs.OutputPath(req)
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", version, path)
			return nil
		},
	}
	cmd.Flags().StringVar(&entity, "entity", "", "asset or shot")
	cmd.Flags().StringVar(&req.EntityName, "name", "", "Asset path or shot name")
	cmd.Flags().StringVar(&req.Step, "step", "", "Pipeline step")
	cmd.Flags().StringVar(&req.Category, "category", "", "Step category")
	cmd.Flags().StringVar(&req.Task, "task", "", "Render task name")
	cmd.Flags().StringVar(&req.Version, "version", "", "Output version (resolved when empty)")
	cmd.Flags().StringVar(&req.FileType, "type", "", "Output file type, e.g. exr")
	cmd.Flags().StringVar(&req.Comment, "comment", "", "Version folder comment")
	cmd.Flags().BoolVar(&req.UseLastVersion, "last", false, "Reuse the highest existing version")
	cmd.Flags().BoolVar(&req.IgnoreEmpty, "ignore-empty", false, "Skip version folders holding nothing but version info")
	cmd.Flags().BoolVar(&req.Local, "local", false, "Place the output under the local mirror")
	return cmd
}

func newOutputCompositingCommand(ctx *commandContext) *cobra.Command {
	var req outputs.CompositingRequest

	cmd := &cobra.Command{
		Use:   "compositing",
		Short: "Show the 2D output path of the current scene file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Task == "" {
				return fmt.Errorf("--task is required")
			}
			core, err := ctx.ensureCore(cmd)
			if err != nil {
				return err
			}
			path, err := core.Outputs.CompositingOut(req)
			if err != nil {
				return err
			}
			if req.Render {
				defer core.Outputs.FinishRender()
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Task, "task", "", "Render task name")
	cmd.Flags().StringVar(&req.FileType, "type", "", "Output file type, e.g. exr")
	cmd.Flags().StringVar(&req.Comment, "comment", "", "Comment stored in the version info")
	cmd.Flags().BoolVar(&req.UseLastVersion, "last", false, "Reuse the highest existing version")
	cmd.Flags().BoolVar(&req.IgnoreEmpty, "ignore-empty", false, "Skip version folders holding nothing but version info")
	cmd.Flags().BoolVar(&req.Local, "local", false, "Place the output under the local mirror")
	cmd.Flags().BoolVar(&req.Render, "render", false, "Create the version folder and its version info")
	return cmd
}

func newOutputLatestCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "latest <output-path>",
		Short: "Point an output path at the highest existing version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := ctx.ensureCore(cmd)
			if err != nil {
				return err
			}
			path, err := core.Outputs.LatestCompositingVersion(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newOutputConvertCommand(ctx *commandContext) *cobra.Command {
	var task string
	var ext string

	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Show where a media conversion of input is written",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if ext == "" {
				return fmt.Errorf("--ext is required")
			}
			core, err := ctx.ensureCore(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), core.Outputs.MediaConversionOutputPath(task, args[0], ext))
			return nil
		},
	}
	cmd.Flags().StringVar(&task, "task", "", "Task the input belongs to, e.g. \"beauty (2d)\"")
	cmd.Flags().StringVar(&ext, "ext", "", "Target extension, e.g. .mp4")
	return cmd
}

func newOutputTasksCommand(ctx *commandContext) *cobra.Command {
	var base string

	cmd := &cobra.Command{
		Use:   "tasks <type>",
		Short: "List the task names of an output type",
		Long:  "List task names of an output type (export, render, 2d, playblast, external) below --base or the current scene file's entity.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := ctx.ensureCore(cmd)
			if err != nil {
				return err
			}
			printNames(cmd, "No tasks found", core.Outputs.TaskNames(args[0], base))
			return nil
		},
	}
	cmd.Flags().StringVar(&base, "base", "", "Entity base path (current scene file's entity when empty)")
	return cmd
}
