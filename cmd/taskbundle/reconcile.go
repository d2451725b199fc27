package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"taskbundle/internal/codec"
	"taskbundle/internal/pipeline"
	"taskbundle/internal/resolve"
)

type reconcileOptions struct {
	existing string
	output   string
	format   string
	report   string

	sanitize          bool
	normalizeProgress bool
	policy            string
	taskStrategy      string
	boardStrategy     string
	settingsStrategy  string
	mergeStrategy     string
	orphans           string
}

func reconcileCmd(a *app) *cobra.Command {
	o := &reconcileOptions{}

	cmd := &cobra.Command{
		Use:   "reconcile [incoming]",
		Short: "Merge an incoming bundle into an existing dataset",
		Long: `Validate and repair the incoming bundle, check its board references,
then merge it into the existing dataset. The report lists every diagnostic,
repair and merge decision. With --output the merged dataset is written as a
new bundle; nothing is written when the import is refused.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile(cmd, a, o, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&o.existing, "existing", "e", "", "Bundle holding the current dataset")
	flags.StringVarP(&o.output, "output", "o", "", "Destination URL for the merged bundle")
	flags.StringVarP(&o.format, "format", "f", "", "Output bundle format (json, yaml); defaults to the input format")
	flags.StringVarP(&o.report, "report", "r", reportText, "Report format (text, json)")
	flags.BoolVar(&o.sanitize, "sanitize", false, "Always run the sanitizer")
	flags.BoolVar(&o.normalizeProgress, "normalize-progress", false, "Align task progress with status")
	flags.StringVar(&o.policy, "policy", "", "Relationship error policy (exclude, abort, report)")
	flags.StringVar(&o.taskStrategy, "tasks", "", "Duplicate task strategy (skip, overwrite, generateNewIds)")
	flags.StringVar(&o.boardStrategy, "boards", "", "Duplicate board strategy (skip, overwrite, generateNewIds)")
	flags.StringVar(&o.settingsStrategy, "settings", "", "Settings strategy (skip, overwrite, merge)")
	flags.StringVar(&o.mergeStrategy, "merge", "", "Settings merge rule (prefer-imported, prefer-existing, newer-wins)")
	flags.StringVar(&o.orphans, "orphans", "", "Orphaned task handling (drop, reassign)")

	return cmd
}

// pipelineConfig applies the flags given on the command line to the
// configuration file settings.
func (o *reconcileOptions) pipelineConfig(cmd *cobra.Command, a *app) (pipeline.Config, error) {
	pc := a.config.PipelineConfig()
	flags := cmd.Flags()

	if flags.Changed("sanitize") {
		pc.Sanitize = o.sanitize
	}

	if flags.Changed("normalize-progress") {
		pc.NormalizeProgress = o.normalizeProgress
	}

	if flags.Changed("policy") {
		pc.RelationshipPolicy = pipeline.RelationshipPolicy(o.policy)
	}

	if flags.Changed("tasks") {
		pc.Resolution.TaskStrategy = resolve.Strategy(o.taskStrategy)
	}

	if flags.Changed("boards") {
		pc.Resolution.BoardStrategy = resolve.Strategy(o.boardStrategy)
	}

	if flags.Changed("settings") {
		pc.Resolution.SettingsStrategy = resolve.SettingsStrategy(o.settingsStrategy)
	}

	if flags.Changed("merge") {
		pc.Resolution.MergeStrategy = resolve.MergeStrategy(o.mergeStrategy)
	}

	if flags.Changed("orphans") {
		pc.Resolution.OrphanHandling = resolve.OrphanHandling(o.orphans)
	}

	if err := pc.Validate(); err != nil {
		return pipeline.Config{}, err
	}

	return pc, nil
}

func runReconcile(cmd *cobra.Command, a *app, o *reconcileOptions, incomingURL string) error {
	ctx := cmd.Context()

	pc, err := o.pipelineConfig(cmd, a)
	if err != nil {
		return err
	}

	format := codec.Format(o.format)
	if o.format != "" && !format.IsValid() {
		return fmt.Errorf("invalid output format %q", o.format)
	}

	incoming, existing, err := a.loadInputs(ctx, incomingURL, o.existing)
	if err != nil {
		return err
	}

	out, err := pipeline.NewReconciler(pc, a.logger).Reconcile(ctx, incoming.Data, existing)
	if err != nil {
		return err
	}

	if err := writeReport(cmd.OutOrStdout(), out, o.report); err != nil {
		return err
	}

	if out.Blocked() {
		return blockedError(out)
	}

	if o.output == "" {
		return nil
	}

	if format == "" {
		format = out.Format
	}

	data, err := codec.Marshal(out.Bundle, format)
	if err != nil {
		return err
	}

	if err := a.loader.Save(ctx, o.output, data); err != nil {
		return err
	}

	a.logger.Info("merged bundle written", slog.String("url", o.output), slog.String("format", string(format)))

	return nil
}
