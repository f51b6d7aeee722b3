package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"prism/internal/callbacks"
)

func newHookCommand(ctx *commandContext) *cobra.Command {
	hookCmd := &cobra.Command{
		Use:   "hook",
		Short: "Run project hooks",
	}
	hookCmd.AddCommand(newHookRunCommand(ctx))
	return hookCmd
}

func newHookRunCommand(ctx *commandContext) *cobra.Command {
	var pairs []string

	cmd := &cobra.Command{
		Use:   "run <name>",
		Short: "Dispatch a hook event and run the project's hook script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hookArgs, err := parseKeyValues(pairs)
			if err != nil {
				return err
			}
			core, err := ctx.ensureCore(cmd)
			if err != nil {
				return err
			}
			results, err := core.Hook(cmd.Context(), args[0], callbacks.Args(hookArgs))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Hook %s dispatched (%d results)\n", args[0], len(results))
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&pairs, "arg", nil, "Hook argument as key=value (repeatable)")
	return cmd
}
