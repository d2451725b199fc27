package main

import (
	"github.com/spf13/cobra"

	"taskbundle/internal/model"
	"taskbundle/internal/pipeline"
)

func validateCmd(a *app) *cobra.Command {
	var report string

	cmd := &cobra.Command{
		Use:   "validate [incoming]",
		Short: "Check a bundle without merging it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := a.loader.Load(ctx, args[0])
			if err != nil {
				return err
			}

			out, err := pipeline.NewReconciler(a.config.PipelineConfig(), a.logger).Reconcile(ctx, f.Data, model.Dataset{})
			if err != nil {
				return err
			}

			out.Bundle = nil
			out.Log = nil

			if err := writeReport(cmd.OutOrStdout(), out, report); err != nil {
				return err
			}

			if out.Blocked() {
				return blockedError(out)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&report, "report", "r", reportText, "Report format (text, json)")

	return cmd
}
