package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"taskbundle/internal/codec"
	"taskbundle/internal/common"
	"taskbundle/internal/conflict"
	"taskbundle/internal/diagnostic"
	"taskbundle/internal/ident"
	"taskbundle/internal/model"
	"taskbundle/internal/relation"
	"taskbundle/internal/resolve"
	"taskbundle/internal/sanitize"
	"taskbundle/internal/schema"
)

// Diagnostic codes added by the pipeline itself.
const (
	CodeUnsupportedVersion = "unsupported_version"
	CodeExcludedRecord     = "excluded_record"
)

// Outcome is the result of one reconciliation run.
type Outcome struct {
	Errors   []diagnostic.Diagnostic `json:"errors"`
	Warnings []diagnostic.Diagnostic `json:"warnings"`
	Changes  []diagnostic.Change     `json:"changes"`
	// Conflicts is nil when the run stopped before detection.
	Conflicts *conflict.Set `json:"conflicts,omitempty"`
	// Bundle is the merged dataset ready to persist, or nil when blocking
	// errors remain. String and array bounds hold only when the sanitizer
	// ran; with SanitizeOnWarning off, schema warnings pass through.
	Bundle *model.Bundle      `json:"bundle,omitempty"`
	Log    []resolve.LogEntry `json:"log"`
	Format codec.Format       `json:"format,omitempty"`
	Stage  Stage              `json:"-"`
}

// Blocked reports whether the import was refused.
func (o *Outcome) Blocked() bool {
	return len(o.Errors) > 0
}

func (o *Outcome) add(diags *diagnostic.Diagnostics) {
	o.Errors = append(o.Errors, diags.Errors...)
	o.Warnings = append(o.Warnings, diags.Warnings...)
}

// Reconciler runs the reconciliation pipeline. It holds no state between
// runs and may be used concurrently.
type Reconciler struct {
	config   Config
	resolver *resolve.Resolver
	logger   *slog.Logger
}

// NewReconciler creates a Reconciler. A nil logger means slog.Default().
func NewReconciler(config Config, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}

	if config.IDs == nil {
		config.IDs = ident.UUID{}
	}

	if config.Now == nil {
		config.Now = time.Now
	}

	if config.SanitizeOptions.IDs == nil {
		config.SanitizeOptions.IDs = config.IDs
	}

	if config.SanitizeOptions.Now == nil {
		config.SanitizeOptions.Now = config.Now
	}

	if config.RelationshipPolicy == "" {
		config.RelationshipPolicy = PolicyExclude
	}

	return &Reconciler{
		config:   config,
		resolver: resolve.NewResolver(config.Resolution, config.IDs, logger),
		logger:   logger,
	}
}

// Config returns the effective configuration.
func (r *Reconciler) Config() Config {
	return r.config
}

// Reconcile parses raw, validates and cleans it, and merges it into
// existing. Data problems are reported in the Outcome; the error is only
// set when ctx is done, in which case the partial Outcome is returned too.
func (r *Reconciler) Reconcile(ctx context.Context, raw []byte, existing model.Dataset) (*Outcome, error) {
	out := &Outcome{
		Errors:   []diagnostic.Diagnostic{},
		Warnings: []diagnostic.Diagnostic{},
		Changes:  []diagnostic.Change{},
		Log:      []resolve.LogEntry{},
	}

	started := time.Now()

	err := r.run(ctx, raw, existing, out)

	r.logger.Info("reconciliation finished",
		slog.String("stage", out.Stage.String()),
		slog.Bool("blocked", out.Blocked()),
		slog.Int("errors", len(out.Errors)),
		slog.Int("warnings", len(out.Warnings)),
		slog.Int("changes", len(out.Changes)),
		slog.Int("decisions", len(out.Log)),
		slog.Duration("elapsed", time.Since(started)))

	return out, err
}

func (r *Reconciler) enter(ctx context.Context, out *Outcome, stage Stage) error {
	out.Stage = stage

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("reconciliation cancelled before %s: %w", stage, err)
	}

	r.logger.Debug("entering stage", slog.String("stage", stage.String()))

	return nil
}

func (r *Reconciler) run(ctx context.Context, raw []byte, existing model.Dataset, out *Outcome) error {
	if err := r.enter(ctx, out, StageParse); err != nil {
		return err
	}

	value, format, err := codec.Parse(raw)
	out.Format = format

	if err != nil {
		out.Errors = append(out.Errors, codec.ParseDiagnostic(err))
		return nil
	}

	if err := r.enter(ctx, out, StageValidate); err != nil {
		return err
	}

	diags := schema.Validate(value, schema.Bundle(), diagnostic.Root)

	if r.sanitizeNeeded(diags) {
		if err := r.enter(ctx, out, StageSanitize); err != nil {
			return err
		}

		result := sanitize.Sanitize(value, schema.Bundle(), r.config.SanitizeOptions)
		out.Changes = append(out.Changes, result.Changes...)
		value = result.Sanitized

		r.logger.Debug("sanitized document", slog.Int("changes", len(result.Changes)))

		diags = schema.Validate(value, schema.Bundle(), diagnostic.Root)
	}

	out.add(diags)

	if diags.HasErrors() {
		return nil
	}

	if err := r.enter(ctx, out, StageDecode); err != nil {
		return err
	}

	bundle, decodeDiags := model.Decode(value)
	if decodeDiags.HasErrors() {
		out.add(decodeDiags)
		return nil
	}

	if err := r.enter(ctx, out, StageVersion); err != nil {
		return err
	}

	if err := model.CheckVersion(bundle.FormatVersion); err != nil {
		out.Errors = append(out.Errors, diagnostic.Diagnostic{
			Severity: diagnostic.SeverityError,
			Code:     CodeUnsupportedVersion,
			Message:  err.Error(),
			Path:     "version",
			Value:    bundle.FormatVersion,
		})

		return nil
	}

	if err := r.enter(ctx, out, StageRelations); err != nil {
		return err
	}

	bundle, blocked := r.checkRelations(bundle, existing, out)
	if blocked {
		return nil
	}

	if r.config.NormalizeProgress {
		if err := r.enter(ctx, out, StageNormalize); err != nil {
			return err
		}

		var changes []diagnostic.Change
		bundle, changes = relation.NormalizeProgress(bundle)
		out.Changes = append(out.Changes, changes...)
	}

	if err := r.enter(ctx, out, StageDetect); err != nil {
		return err
	}

	conflicts := conflict.Detect(bundle, existing.Tasks, existing.Boards)
	out.Conflicts = &conflicts

	r.logger.Debug("conflicts detected", slog.Int("count", conflicts.Count()))

	if err := r.enter(ctx, out, StageResolve); err != nil {
		return err
	}

	result := r.resolver.Resolve(bundle, existing, conflicts)
	out.Log = result.Log

	if err := r.enter(ctx, out, StageVerify); err != nil {
		return err
	}

	merged := &model.Bundle{
		FormatVersion: model.CurrentFormatVersion,
		ExportedAt:    model.NewTimestamp(r.config.Now()),
		Tasks:         result.Tasks,
		Boards:        result.Boards,
		Settings:      result.Settings,
	}

	verify := relation.Validate(merged)
	for _, e := range verify.Errors {
		e.Path = "merged." + e.Path
		out.Errors = append(out.Errors, e)
	}

	if verify.HasErrors() {
		return nil
	}

	out.Bundle = merged
	out.Stage = StageDone

	return nil
}

// sanitizeNeeded decides from the first validation whether the sanitizer
// runs.
func (r *Reconciler) sanitizeNeeded(diags *diagnostic.Diagnostics) bool {
	switch {
	case r.config.Sanitize:
		return true
	case diags.HasErrors():
		return r.config.SanitizeOnError
	default:
		return len(diags.Warnings) > 0 && r.config.SanitizeOnWarning
	}
}

// checkRelations validates the incoming bundle on its own and applies the
// relationship policy. It returns the bundle to continue with and whether
// the run must stop.
func (r *Reconciler) checkRelations(b *model.Bundle, existing model.Dataset, out *Outcome) (*model.Bundle, bool) {
	diags := relation.Validate(b)
	out.Warnings = append(out.Warnings, diags.Warnings...)

	existingBoards := common.SetOf(existing.Boards, func(board model.Board) string { return board.ID })

	var blocking []diagnostic.Diagnostic

	for _, e := range diags.Errors {
		if e.Code == relation.CodeDanglingBoardReference {
			if id, ok := e.Value.(string); ok && existingBoards.Has(id) {
				out.Warnings = append(out.Warnings, downgrade(e, "Board exists in the current dataset"))
				continue
			}
		}

		blocking = append(blocking, e)
	}

	if len(blocking) == 0 {
		return b, false
	}

	switch r.config.RelationshipPolicy {
	case PolicyAbort:
		out.Errors = append(out.Errors, blocking...)
		return b, true
	case PolicyReport:
		// Only a dangling reference can be kept: the resolver treats the
		// task as an orphan. Inverted timestamps and duplicate ids would
		// fail the merged bundle, so those records are excluded.
		var unmergeable []diagnostic.Diagnostic

		for _, e := range blocking {
			if e.Code == relation.CodeDanglingBoardReference {
				out.Warnings = append(out.Warnings, downgrade(e, "Reported only; record kept"))
				continue
			}

			unmergeable = append(unmergeable, e)
		}

		if len(unmergeable) == 0 {
			return b, false
		}

		return r.exclude(b, unmergeable, out), false
	default:
		return r.exclude(b, blocking, out), false
	}
}

// exclude drops every task and board addressed by an error.
func (r *Reconciler) exclude(b *model.Bundle, errs []diagnostic.Diagnostic, out *Outcome) *model.Bundle {
	dropTasks := common.Set[int]{}
	dropBoards := common.Set[int]{}

	for _, e := range errs {
		out.Warnings = append(out.Warnings, downgrade(e, "Record excluded from import"))

		path, err := diagnostic.ParsePath(e.Path)
		if err != nil {
			r.logger.Warn("unaddressable relationship error", slog.String("path", e.Path), slog.Any("error", err))
			continue
		}

		collection, index, ok := path.Record()
		if !ok {
			continue
		}

		switch collection {
		case "tasks":
			dropTasks.Add(index)
		case "boards":
			dropBoards.Add(index)
		}
	}

	kept := &model.Bundle{
		FormatVersion: b.FormatVersion,
		ExportedAt:    b.ExportedAt,
		Tasks:         make([]model.Task, 0, len(b.Tasks)),
		Boards:        make([]model.Board, 0, len(b.Boards)),
		Settings:      b.Settings.Clone(),
	}

	for i, task := range b.Tasks {
		if dropTasks.Has(i) {
			out.Warnings = append(out.Warnings, excluded("tasks", i, task.ID))
			continue
		}

		kept.Tasks = append(kept.Tasks, task.Clone())
	}

	for i, board := range b.Boards {
		if dropBoards.Has(i) {
			out.Warnings = append(out.Warnings, excluded("boards", i, board.ID))
			continue
		}

		kept.Boards = append(kept.Boards, board.Clone())
	}

	return kept
}

func downgrade(d diagnostic.Diagnostic, suggestion string) diagnostic.Diagnostic {
	d.Severity = diagnostic.SeverityWarning
	d.Suggestion = suggestion

	return d
}

func excluded(collection string, index int, id string) diagnostic.Diagnostic {
	return diagnostic.Diagnostic{
		Severity: diagnostic.SeverityWarning,
		Code:     CodeExcludedRecord,
		Message:  fmt.Sprintf("Excluded %s %q from import", collection[:len(collection)-1], id),
		Path:     diagnostic.Root.Field(collection).Index(index).String(),
	}
}
