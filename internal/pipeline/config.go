package pipeline

import (
	"errors"
	"fmt"
	"time"

	"taskbundle/internal/ident"
	"taskbundle/internal/resolve"
	"taskbundle/internal/sanitize"
)

//go:generate go tool stringer -type=Stage -linecomment -output=stage_string.go

// Stage is a step of a reconciliation run.
type Stage int

const (
	StageParse     Stage = iota // parse
	StageValidate               // validate
	StageSanitize               // sanitize
	StageDecode                 // decode
	StageVersion                // version
	StageRelations              // relations
	StageNormalize              // normalize
	StageDetect                 // detect
	StageResolve                // resolve
	StageVerify                 // verify
	StageDone                   // done
)

// RelationshipPolicy decides what relationship errors do to an import.
type RelationshipPolicy string

const (
	PolicyExclude RelationshipPolicy = "exclude"
	PolicyAbort   RelationshipPolicy = "abort"
	PolicyReport  RelationshipPolicy = "report"
)

// IsValid returns true if the policy is a recognized value.
func (p RelationshipPolicy) IsValid() bool {
	return p == PolicyExclude || p == PolicyAbort || p == PolicyReport
}

// Config holds the settings of a Reconciler.
type Config struct {
	// Sanitize runs the sanitizer on every document.
	Sanitize bool
	// SanitizeOnError runs the sanitizer when schema validation fails and
	// continues if the sanitized document validates.
	SanitizeOnError bool
	// SanitizeOnWarning runs the sanitizer when validation reports only
	// warnings (unknown properties, overlong strings or arrays), so the
	// resulting bundle stays within the schema bounds.
	SanitizeOnWarning bool
	// SanitizeOptions selects the sanitizer fixes. Now and IDs default to
	// the Reconciler's clock and generator.
	SanitizeOptions sanitize.Options
	// NormalizeProgress aligns task progress with status before merging.
	NormalizeProgress bool
	// RelationshipPolicy applies to errors found in the incoming bundle.
	RelationshipPolicy RelationshipPolicy
	// Resolution selects the conflict resolution strategies.
	Resolution resolve.Options
	// IDs generates identifiers for new and regenerated records.
	IDs ident.Generator
	// Now is the clock used for defaults.
	Now func() time.Time
}

// DefaultConfig returns the default pipeline configuration.
func DefaultConfig() Config {
	return Config{
		Sanitize:          false,
		SanitizeOnError:   true,
		SanitizeOnWarning: true,
		SanitizeOptions:   sanitize.Options{
			RemoveInvalidFields: true,
			FixDateFormats:      true,
			NormalizeStrings:    true,
			GenerateMissingIDs:  true,
			SetDefaultValues:    true,
		},
		NormalizeProgress:  false,
		RelationshipPolicy: PolicyExclude,
		Resolution:         resolve.DefaultOptions(),
		IDs:                ident.UUID{},
		Now:                time.Now,
	}
}

// Validate reports invalid settings.
func (c Config) Validate() error {
	var errs []error

	if !c.RelationshipPolicy.IsValid() {
		errs = append(errs, fmt.Errorf("invalid relationship policy %q", c.RelationshipPolicy))
	}

	if err := c.Resolution.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
