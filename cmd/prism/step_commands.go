package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"prism/internal/entities"
)

func newStepsCommand(ctx *commandContext) *cobra.Command {
	var flags entityFlags
	cmd := &cobra.Command{
		Use:   "steps",
		Short: "List the steps of an asset or shot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := flags.query()
			if err != nil {
				return err
			}
			core, err := ctx.ensureCore(cmd)
			if err != nil {
				return err
			}
			printNames(cmd, "No steps found", core.Entities.Steps(q))
			return nil
		},
	}
	flags.bind(cmd, false, false)
	return cmd
}

func newCategoriesCommand(ctx *commandContext) *cobra.Command {
	var flags entityFlags
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List the categories of a step",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := flags.query()
			if err != nil {
				return err
			}
			if q.Step == "" {
				return fmt.Errorf("--step is required")
			}
			core, err := ctx.ensureCore(cmd)
			if err != nil {
				return err
			}
			printNames(cmd, "No categories found", core.Entities.Categories(q))
			return nil
		},
	}
	flags.bind(cmd, true, false)
	return cmd
}

func printNames(cmd *cobra.Command, empty string, names []string) {
	out := cmd.OutOrStdout()
	if len(names) == 0 {
		fmt.Fprintln(out, empty)
		return
	}
	for _, name := range names {
		fmt.Fprintln(out, name)
	}
}

func newStepCommand(ctx *commandContext) *cobra.Command {
	stepCmd := &cobra.Command{
		Use:   "step",
		Short: "Create steps",
	}

	var flags entityFlags
	var noCategory bool
	create := &cobra.Command{
		Use:   "create <step>",
		Short: "Create a step and its default category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := flags.query()
			if err != nil {
				return err
			}
			core, err := ctx.ensureCore(cmd)
			if err != nil {
				return err
			}
			req := entities.StepRequest{
				Name:                args[0],
				Entity:              entities.KindShot,
				EntityName:          q.Shot,
				SkipDefaultCategory: noCategory,
			}
			if q.Asset != "" {
				req.Entity = entities.KindAsset
				req.EntityName = q.Asset
			}
			path, err := core.Entities.CreateStep(req)
			if err != nil {
				return err
			}
			if path != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			}
			return nil
		},
	}
	flags.bind(create, false, false)
	create.Flags().BoolVar(&noCategory, "no-category", false, "Do not create the default category")
	stepCmd.AddCommand(create)
	return stepCmd
}

func newCategoryCommand(ctx *commandContext) *cobra.Command {
	categoryCmd := &cobra.Command{
		Use:   "category",
		Short: "Create categories",
	}

	var flags entityFlags
	create := &cobra.Command{
		Use:   "create <category>",
		Short: "Create a category below a step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := flags.query()
			if err != nil {
				return err
			}
			if q.Step == "" {
				return fmt.Errorf("--step is required")
			}
			core, err := ctx.ensureCore(cmd)
			if err != nil {
				return err
			}
			path, err := core.Entities.CreateCategory(args[0], core.Entities.EntityPath(q))
			if err != nil {
				return err
			}
			if path != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			}
			return nil
		},
	}
	flags.bind(create, true, false)
	categoryCmd.AddCommand(create)
	return categoryCmd
}
