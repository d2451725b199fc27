package resolve

import (
	"errors"
	"fmt"
)

// Strategy decides what happens to an incoming task or board whose id
// already exists.
type Strategy string

const (
	StrategySkip           Strategy = "skip"
	StrategyOverwrite      Strategy = "overwrite"
	StrategyGenerateNewIDs Strategy = "generateNewIds"
)

// IsValid returns true if the strategy is a recognized value.
func (s Strategy) IsValid() bool {
	return s == StrategySkip || s == StrategyOverwrite || s == StrategyGenerateNewIDs
}

// SettingsStrategy decides how incoming settings combine with existing ones.
type SettingsStrategy string

const (
	SettingsSkip      SettingsStrategy = "skip"
	SettingsOverwrite SettingsStrategy = "overwrite"
	SettingsMerge     SettingsStrategy = "merge"
)

// IsValid returns true if the strategy is a recognized value.
func (s SettingsStrategy) IsValid() bool {
	return s == SettingsSkip || s == SettingsOverwrite || s == SettingsMerge
}

// MergeStrategy is the tie-break rule for a field that differs during a
// settings merge.
type MergeStrategy string

const (
	MergePreferImported MergeStrategy = "prefer-imported"
	MergePreferExisting MergeStrategy = "prefer-existing"
	// MergeNewerWins takes the side with the later UpdatedAt. Without
	// timestamps on both sides it behaves like MergePreferImported.
	MergeNewerWins MergeStrategy = "newer-wins"
)

// IsValid returns true if the strategy is a recognized value.
func (s MergeStrategy) IsValid() bool {
	return s == MergePreferImported || s == MergePreferExisting || s == MergeNewerWins
}

// OrphanHandling decides what happens to an incoming task whose board
// cannot be found.
type OrphanHandling string

const (
	OrphanDrop     OrphanHandling = "drop"
	OrphanReassign OrphanHandling = "reassign"
)

// IsValid returns true if the handling is a recognized value.
func (o OrphanHandling) IsValid() bool {
	return o == OrphanDrop || o == OrphanReassign
}

// Options selects the resolution strategies.
type Options struct {
	TaskStrategy     Strategy         `yaml:"taskStrategy" json:"taskStrategy"`
	BoardStrategy    Strategy         `yaml:"boardStrategy" json:"boardStrategy"`
	SettingsStrategy SettingsStrategy `yaml:"settingsStrategy" json:"settingsStrategy"`
	MergeStrategy    MergeStrategy    `yaml:"mergeStrategy" json:"mergeStrategy"`
	// PreserveRelationships makes tasks follow a board whose duplicate id
	// was regenerated. When false they stay attached to the existing board
	// that owns the original id.
	PreserveRelationships bool           `yaml:"preserveRelationships" json:"preserveRelationships"`
	OrphanHandling        OrphanHandling `yaml:"orphanHandling" json:"orphanHandling"`
}

// DefaultOptions returns the lossless configuration.
func DefaultOptions() Options {
	return Options{
		TaskStrategy:          StrategyGenerateNewIDs,
		BoardStrategy:         StrategyGenerateNewIDs,
		SettingsStrategy:      SettingsMerge,
		MergeStrategy:         MergePreferImported,
		PreserveRelationships: true,
		OrphanHandling:        OrphanDrop,
	}
}

// Validate reports every unrecognized option value.
func (o Options) Validate() error {
	var errs []error

	if !o.TaskStrategy.IsValid() {
		errs = append(errs, fmt.Errorf("invalid task strategy %q", o.TaskStrategy))
	}

	if !o.BoardStrategy.IsValid() {
		errs = append(errs, fmt.Errorf("invalid board strategy %q", o.BoardStrategy))
	}

	if !o.SettingsStrategy.IsValid() {
		errs = append(errs, fmt.Errorf("invalid settings strategy %q", o.SettingsStrategy))
	}

	if !o.MergeStrategy.IsValid() {
		errs = append(errs, fmt.Errorf("invalid merge strategy %q", o.MergeStrategy))
	}

	if !o.OrphanHandling.IsValid() {
		errs = append(errs, fmt.Errorf("invalid orphan handling %q", o.OrphanHandling))
	}

	return errors.Join(errs...)
}
