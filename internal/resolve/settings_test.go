package resolve

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskbundle/internal/model"
)

func settings(theme model.Theme, days float64, updated time.Duration) *model.Settings {
	return &model.Settings{
		Theme:               theme,
		AutoArchiveDays:     days,
		EnableNotifications: true,
		SearchScope:         model.SearchCurrentBoard,
		UpdatedAt:           model.TimestampPtr(t0.Add(updated)),
	}
}

func TestResolveSettings(t *testing.T) {
	tests := []struct {
		name      string
		strategy  SettingsStrategy
		merge     MergeStrategy
		incoming  *model.Settings
		existing  *model.Settings
		wantTheme model.Theme
		wantDays  float64
		wantLog   []EntryType
		wantMerge []string
	}{
		{
			name:      "skip keeps existing",
			strategy:  SettingsSkip,
			incoming:  settings(model.ThemeDark, 7, time.Hour),
			existing:  settings(model.ThemeLight, 30, 0),
			wantTheme: model.ThemeLight,
			wantDays:  30,
			wantLog:   []EntryType{EntrySkip},
		},
		{
			name:      "overwrite takes incoming",
			strategy:  SettingsOverwrite,
			incoming:  settings(model.ThemeDark, 7, 0),
			existing:  settings(model.ThemeLight, 30, time.Hour),
			wantTheme: model.ThemeDark,
			wantDays:  7,
			wantLog:   []EntryType{EntryOverwrite},
		},
		{
			name:      "merge prefer imported",
			strategy:  SettingsMerge,
			merge:     MergePreferImported,
			incoming:  settings(model.ThemeDark, 30, 0),
			existing:  settings(model.ThemeLight, 30, time.Hour),
			wantTheme: model.ThemeDark,
			wantDays:  30,
			wantLog:   []EntryType{EntryMerge},
			wantMerge: []string{"theme"},
		},
		{
			name:      "merge prefer existing",
			strategy:  SettingsMerge,
			merge:     MergePreferExisting,
			incoming:  settings(model.ThemeDark, 7, time.Hour),
			existing:  settings(model.ThemeLight, 30, 0),
			wantTheme: model.ThemeLight,
			wantDays:  30,
			wantLog:   []EntryType{EntryMerge},
			wantMerge: []string{},
		},
		{
			name:      "merge newer wins with newer existing",
			strategy:  SettingsMerge,
			merge:     MergeNewerWins,
			incoming:  settings(model.ThemeDark, 7, 0),
			existing:  settings(model.ThemeLight, 30, time.Hour),
			wantTheme: model.ThemeLight,
			wantDays:  30,
			wantLog:   []EntryType{EntryMerge},
			wantMerge: []string{},
		},
		{
			name:      "merge newer wins with newer incoming",
			strategy:  SettingsMerge,
			merge:     MergeNewerWins,
			incoming:  settings(model.ThemeDark, 7, time.Hour),
			existing:  settings(model.ThemeLight, 30, 0),
			wantTheme: model.ThemeDark,
			wantDays:  7,
			wantLog:   []EntryType{EntryMerge},
			wantMerge: []string{"theme", "autoArchiveDays"},
		},
		{
			name:      "identical settings log nothing",
			strategy:  SettingsMerge,
			merge:     MergePreferImported,
			incoming:  settings(model.ThemeDark, 7, time.Hour),
			existing:  settings(model.ThemeDark, 7, 0),
			wantTheme: model.ThemeDark,
			wantDays:  7,
			wantLog:   []EntryType{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultOptions()
			o.SettingsStrategy = tt.strategy
			o.MergeStrategy = tt.merge

			r := resolveWith(o, &model.Bundle{Settings: tt.incoming}, model.Dataset{Settings: tt.existing})

			require.NotNil(t, r.Settings)
			assert.Equal(t, tt.wantTheme, r.Settings.Theme)
			assert.InDelta(t, tt.wantDays, r.Settings.AutoArchiveDays, 0.001)
			assert.Equal(t, tt.wantLog, logTypes(r.Log))

			if tt.wantMerge != nil {
				assert.Equal(t, tt.wantMerge, r.Log[0].MergedFields)
			}

			assert.NotSame(t, tt.existing, r.Settings)
			assert.NotSame(t, tt.incoming, r.Settings)
		})
	}
}

func TestResolveSettings_MergeKeepsLatestTimestamp(t *testing.T) {
	o := DefaultOptions()
	o.MergeStrategy = MergePreferExisting

	incoming := settings(model.ThemeDark, 7, 2*time.Hour)
	existing := settings(model.ThemeLight, 30, time.Hour)

	r := resolveWith(o, &model.Bundle{Settings: incoming}, model.Dataset{Settings: existing})

	require.NotNil(t, r.Settings.UpdatedAt)
	assert.True(t, r.Settings.UpdatedAt.Equal(t0.Add(2*time.Hour)))
	assert.True(t, existing.UpdatedAt.Equal(t0.Add(time.Hour)))
}

func TestResolveSettings_OneSideMissing(t *testing.T) {
	r := resolveWith(DefaultOptions(), &model.Bundle{}, model.Dataset{Settings: settings(model.ThemeLight, 1, 0)})
	assert.Equal(t, model.ThemeLight, r.Settings.Theme)
	assert.Empty(t, r.Log)

	r = resolveWith(DefaultOptions(), &model.Bundle{Settings: settings(model.ThemeDark, 1, 0)}, model.Dataset{})
	assert.Equal(t, model.ThemeDark, r.Settings.Theme)
	assert.Empty(t, r.Log)

	r = resolveWith(DefaultOptions(), &model.Bundle{}, model.Dataset{})
	assert.Nil(t, r.Settings)
}
