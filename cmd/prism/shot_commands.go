package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"prism/internal/entities"
)

func newShotsCommand(ctx *commandContext) *cobra.Command {
	var filter string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "shots",
		Short: "List shots grouped by sequence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := ctx.ensureCore(cmd)
			if err != nil {
				return err
			}
			life := core.Entities
			_, shots := life.Shots(filter)
			if asJSON {
				return writeJSON(cmd, shots)
			}

			rows := make([][]string, 0, len(shots))
			for _, shot := range shots {
				frames := ""
				if start, end, ok, err := life.ShotRange(shot.FullName); err == nil && ok {
					frames = fmt.Sprintf("%d-%d", start, end)
				}
				rows = append(rows, []string{shot.Sequence, shot.Name, frames, shot.Path})
			}
			printTable(cmd, "No shots found", []string{"Sequence", "Shot", "Frames", "Path"}, rows, nil)
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Only shots whose sequence or shot name contains this text")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newShotCommand(ctx *commandContext) *cobra.Command {
	shotCmd := &cobra.Command{
		Use:   "shot",
		Short: "Create, delete, and rename shots",
	}
	shotCmd.AddCommand(newShotCreateCommand(ctx))
	shotCmd.AddCommand(newShotDeleteCommand(ctx))
	shotCmd.AddCommand(newShotRenameCommand(ctx))
	shotCmd.AddCommand(newShotRangeCommand(ctx))
	return shotCmd
}

func newShotCreateCommand(ctx *commandContext) *cobra.Command {
	var frames string
	var sequence string

	cmd := &cobra.Command{
		Use:   "create <shot>",
		Short: "Create a shot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			frameRange, err := parseFrameRange(frames)
			if err != nil {
				return err
			}
			core, err := ctx.ensureCore(cmd)
			if err != nil {
				return err
			}
			name := args[0]
			if sequence != "" {
				name = core.Entities.ShotName(sequence, name)
			}
			result, err := core.Entities.CreateEntity(entities.KindShot, name, frameRange)
			if err != nil {
				return err
			}
			printResult(cmd, result)
			return nil
		},
	}
	cmd.Flags().StringVar(&frames, "range", "", "Frame range as start-end")
	cmd.Flags().StringVar(&sequence, "sequence", "", "Sequence to prefix the shot name with")
	return cmd
}

func newShotDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <shot>",
		Short: "Delete a shot and its local copy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := ctx.ensureCore(cmd)
			if err != nil {
				return err
			}
			done, err := core.Entities.DeleteShot(args[0])
			if err != nil {
				return err
			}
			if done {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted shot %s\n", args[0])
			}
			return nil
		},
	}
}

func newShotRenameCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <shot> <new-name>",
		Short: "Rename a shot and every entry carrying its name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := ctx.ensureCore(cmd)
			if err != nil {
				return err
			}
			done, err := core.Entities.RenameShot(args[0], args[1])
			if err != nil {
				return err
			}
			if done {
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed shot %s to %s\n", args[0], args[1])
			}
			return nil
		},
	}
}

func newShotRangeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "range <shot> [start-end]",
		Short: "Show or set a shot's frame range",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := ctx.ensureCore(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) == 2 {
				frameRange, err := parseFrameRange(args[1])
				if err != nil {
					return err
				}
				if err := core.Entities.SetShotRange(args[0], frameRange[0], frameRange[1]); err != nil {
					return err
				}
				fmt.Fprintf(out, "%s: %d-%d\n", args[0], frameRange[0], frameRange[1])
				return nil
			}

			start, end, ok, err := core.Entities.ShotRange(args[0])
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(out, "%s: no frame range\n", args[0])
				return nil
			}
			fmt.Fprintf(out, "%s: %d-%d\n", args[0], start, end)
			return nil
		},
	}
}

func printResult(cmd *cobra.Command, result entities.Result) {
	out := cmd.OutOrStdout()
	if result.EntityPath == "" {
		fmt.Fprintln(out, "Nothing created")
		return
	}
	verb := "Created"
	if result.Existed {
		verb = "Exists"
	}
	fmt.Fprintf(out, "%s %s %s at %s\n", verb, result.Entity, result.EntityName, result.EntityPath)
}
