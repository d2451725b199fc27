package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/viant/afs/url"

	"taskbundle/internal/codec"
	"taskbundle/internal/export"
)

func exportCmd(a *app) *cobra.Command {
	var (
		categories []string
		format     string
		dir        string
	)

	cmd := &cobra.Command{
		Use:   "export [dataset]",
		Short: "Write selected categories of a dataset under a generated file name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			selected, err := export.ParseCategories(categories)
			if err != nil {
				return err
			}

			f := codec.Format(format)
			if !f.IsValid() {
				return fmt.Errorf("invalid export format %q", format)
			}

			dataset, err := a.loadDataset(ctx, args[0])
			if err != nil {
				return err
			}

			now := time.Now()

			data, err := export.Encode(dataset, selected, now, f)
			if err != nil {
				return err
			}

			dest := url.Join(dir, export.Filename(selected, now, f))
			if err := a.loader.Save(ctx, dest, data); err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), dest)

			return err
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVarP(&categories, "categories", "k", []string{"all"}, "Categories to export (tasks, boards, settings, all)")
	flags.StringVarP(&format, "format", "f", string(codec.FormatJSON), "Export format (json, yaml)")
	flags.StringVarP(&dir, "dir", "d", ".", "Destination directory URL")

	return cmd
}
