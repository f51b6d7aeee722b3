package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"prism/internal/entities"
)

func newOmitCommand(ctx *commandContext, omit bool) *cobra.Command {
	use, short, verb := "omit <asset|shot> <name>", "Hide an asset or shot from listings", "Omitted"
	if !omit {
		use, short, verb = "restore <asset|shot> <name>", "Restore an omitted asset or shot", "Restored"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := entities.ParseKind(args[0])
			if err != nil {
				return err
			}
			core, err := ctx.ensureCore(cmd)
			if err != nil {
				return err
			}
			if err := core.Entities.OmitEntity(kind, args[1], omit); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", verb, kind, args[1])
			return nil
		},
	}
}

func newCommentCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "comment <scene-file> <comment>",
		Short: "Change the comment field of a scene file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := ctx.ensureCore(cmd)
			if err != nil {
				return err
			}
			newPath, err := core.Entities.SetComment(args[0], args[1])
			if err != nil {
				return err
			}
			if newPath == "" {
				return fmt.Errorf("scene file %s not found", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), newPath)
			return nil
		},
	}
}
