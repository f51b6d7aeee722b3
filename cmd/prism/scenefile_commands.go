package main

import (
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newScenefilesCommand(ctx *commandContext) *cobra.Command {
	var flags entityFlags
	var extensions []string

	cmd := &cobra.Command{
		Use:   "scenefiles",
		Short: "List the scene files of an entity",
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

			files := core.Entities.Scenefiles(q, extensions)
			rows := make([][]string, 0, len(files))
			for _, file := range files {
				data := core.Codec.Parse(file)
				size, modified := "", ""
				if info, err := os.Stat(file); err == nil {
					size = humanize.Bytes(uint64(info.Size()))
					modified = humanize.Time(info.ModTime())
				}
				location := string(core.Project.LocationOf(file))
				rows = append(rows, []string{
					filepath.Base(file), data.Version, data.Comment, data.User, size, modified, location,
				})
			}
			printTable(cmd, "No scene files found",
				[]string{"File", "Version", "Comment", "User", "Size", "Modified", "Location"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight})
			return nil
		},
	}
	flags.bind(cmd, true, true)
	cmd.Flags().StringSliceVar(&extensions, "ext", nil, "Extensions to include, e.g. .ma (\"*\" admits unregistered formats)")
	return cmd
}
