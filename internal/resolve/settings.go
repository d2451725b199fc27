package resolve

import (
	"fmt"
	"strings"

	"taskbundle/internal/model"
)

type settingsField struct {
	name  string
	equal func(a, b *model.Settings) bool
	take  func(dst, src *model.Settings)
}

var settingsFields = []settingsField{
	{
		name:  "theme",
		equal: func(a, b *model.Settings) bool { return a.Theme == b.Theme },
		take:  func(dst, src *model.Settings) { dst.Theme = src.Theme },
	},
	{
		name:  "autoArchiveDays",
		equal: func(a, b *model.Settings) bool { return a.AutoArchiveDays == b.AutoArchiveDays },
		take:  func(dst, src *model.Settings) { dst.AutoArchiveDays = src.AutoArchiveDays },
	},
	{
		name:  "enableNotifications",
		equal: func(a, b *model.Settings) bool { return a.EnableNotifications == b.EnableNotifications },
		take:  func(dst, src *model.Settings) { dst.EnableNotifications = src.EnableNotifications },
	},
	{
		name:  "reducedMotion",
		equal: func(a, b *model.Settings) bool { return a.ReducedMotion == b.ReducedMotion },
		take:  func(dst, src *model.Settings) { dst.ReducedMotion = src.ReducedMotion },
	},
	{
		name:  "highContrast",
		equal: func(a, b *model.Settings) bool { return a.HighContrast == b.HighContrast },
		take:  func(dst, src *model.Settings) { dst.HighContrast = src.HighContrast },
	},
	{
		name:  "searchScope",
		equal: func(a, b *model.Settings) bool { return a.SearchScope == b.SearchScope },
		take:  func(dst, src *model.Settings) { dst.SearchScope = src.SearchScope },
	},
}

// differingFields lists the names of the preference fields that differ.
func differingFields(a, b *model.Settings) []string {
	var names []string

	for _, f := range settingsFields {
		if !f.equal(a, b) {
			names = append(names, f.name)
		}
	}

	return names
}

func (u *run) resolveSettings(incoming, existing *model.Settings) *model.Settings {
	switch {
	case incoming == nil:
		return existing.Clone()
	case existing == nil:
		return incoming.Clone()
	}

	differing := differingFields(incoming, existing)
	if len(differing) == 0 {
		return stampLatest(existing.Clone(), incoming, existing)
	}

	switch u.options.SettingsStrategy {
	case SettingsSkip:
		u.record(LogEntry{
			Type: EntrySkip, ItemType: ItemSettings, ItemID: string(ItemSettings),
			Reason: "Kept existing settings",
		})

		return existing.Clone()
	case SettingsOverwrite:
		u.record(LogEntry{
			Type: EntryOverwrite, ItemType: ItemSettings, ItemID: string(ItemSettings),
			Reason: "Replaced existing settings", MergedFields: differing,
		})

		return incoming.Clone()
	default:
		return u.mergeSettings(incoming, existing)
	}
}

// mergeSettings settles each differing field with the merge strategy.
// MergedFields lists the fields whose value changed from the existing one.
func (u *run) mergeSettings(incoming, existing *model.Settings) *model.Settings {
	winner, rule := u.mergeWinner(incoming, existing)

	merged := existing.Clone()
	taken := []string{}

	for _, f := range settingsFields {
		if f.equal(incoming, existing) {
			continue
		}

		if winner == incoming {
			f.take(merged, incoming)
			taken = append(taken, f.name)
		}
	}

	stampLatest(merged, incoming, existing)

	reason := fmt.Sprintf("Merged settings (%s)", rule)
	if len(taken) > 0 {
		reason += "; imported " + strings.Join(taken, ", ")
	} else {
		reason += "; kept all existing values"
	}

	u.record(LogEntry{
		Type: EntryMerge, ItemType: ItemSettings, ItemID: string(ItemSettings),
		Reason: reason, MergedFields: taken,
	})

	return merged
}

// mergeWinner applies the tie-break rule and describes the outcome.
func (u *run) mergeWinner(incoming, existing *model.Settings) (*model.Settings, string) {
	switch u.options.MergeStrategy {
	case MergePreferExisting:
		return existing, string(MergePreferExisting)
	case MergeNewerWins:
		if incoming.UpdatedAt == nil || existing.UpdatedAt == nil {
			return incoming, "newer-wins without timestamps, preferring imported"
		}

		if existing.UpdatedAt.After(incoming.UpdatedAt.Time) {
			return existing, "newer-wins, existing is newer"
		}

		return incoming, "newer-wins, imported is newer or equal"
	default:
		return incoming, string(MergePreferImported)
	}
}

// newer returns the record with the later UpdatedAt, preferring incoming
// on ties and when timestamps are missing.
func newer(incoming, existing *model.Settings) *model.Settings {
	if incoming.UpdatedAt == nil {
		if existing.UpdatedAt != nil {
			return existing
		}

		return incoming
	}

	if existing.UpdatedAt != nil && existing.UpdatedAt.After(incoming.UpdatedAt.Time) {
		return existing
	}

	return incoming
}

// stampLatest sets dst.UpdatedAt to the later of the two records' values.
func stampLatest(dst, incoming, existing *model.Settings) *model.Settings {
	if latest := newer(incoming, existing); latest.UpdatedAt != nil {
		v := *latest.UpdatedAt
		dst.UpdatedAt = &v
	}

	return dst
}
