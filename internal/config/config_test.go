package config

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskbundle/internal/pipeline"
	"taskbundle/internal/resolve"
)

func TestParse_KeepsDefaultsForMissingKeys(t *testing.T) {
	cfg, err := Parse([]byte(`
pipeline:
  relationshipPolicy: abort
resolution:
  taskStrategy: overwrite
sanitize:
  fixDateFormats: false
`))
	require.NoError(t, err)

	assert.Equal(t, pipeline.PolicyAbort, cfg.Pipeline.RelationshipPolicy)
	assert.True(t, cfg.Pipeline.SanitizeOnError)
	assert.True(t, cfg.Pipeline.SanitizeOnWarning)
	assert.Equal(t, resolve.StrategyOverwrite, cfg.Resolution.TaskStrategy)
	assert.Equal(t, resolve.StrategyGenerateNewIDs, cfg.Resolution.BoardStrategy)
	assert.True(t, cfg.Resolution.PreserveRelationships)
	assert.False(t, cfg.Sanitize.FixDateFormats)
	assert.True(t, cfg.Sanitize.RemoveInvalidFields)
	assert.Equal(t, Default().Loader, cfg.Loader)
	assert.Equal(t, DefaultLogging(), cfg.Logging)
}

func TestParse_EmptyEnumsFallBackToDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
resolution:
  mergeStrategy: ""
logging:
  format: ""
`))
	require.NoError(t, err)
	assert.Equal(t, resolve.MergePreferImported, cfg.Resolution.MergeStrategy)
	assert.Equal(t, LogText, cfg.Logging.Format)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"malformed", "pipeline: [", "failed to parse config YAML"},
		{"policy", "pipeline:\n  relationshipPolicy: ignore\n", `invalid relationship policy "ignore"`},
		{"strategy", "resolution:\n  orphanHandling: keep\n", "invalid config"},
		{"size", "loader:\n  maxSize: -1\n", "loader.maxSize must not be negative"},
		{"types", "loader:\n  allowedTypes: []\n", "loader.allowedTypes must not be empty"},
		{"level", "logging:\n  level: loud\n", `invalid log level "loud"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPipelineConfig(t *testing.T) {
	cfg, err := Parse([]byte(`
pipeline:
  sanitize: true
  normalizeProgress: true
  sanitizeOnWarning: false
  idPrefix: " imp "
sanitize:
  generateMissingIds: false
`))
	require.NoError(t, err)

	pc := cfg.PipelineConfig()
	assert.True(t, pc.Sanitize)
	assert.True(t, pc.NormalizeProgress)
	assert.False(t, pc.SanitizeOnWarning)
	assert.False(t, pc.SanitizeOptions.GenerateMissingIDs)
	assert.True(t, pc.SanitizeOptions.SetDefaultValues)
	assert.Nil(t, pc.SanitizeOptions.IDs)
	require.NotNil(t, pc.IDs)
	assert.Equal(t, "imp-1", pc.IDs.NewID())
	assert.NoError(t, pc.Validate())
}

func TestWriteFile_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskbundle.yaml")

	cfg := Default()
	cfg.Resolution.OrphanHandling = resolve.OrphanReassign
	cfg.Logging.Format = LogJSON
	require.NoError(t, WriteFile(cfg, path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLogging_NewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger, err := Logging{Level: "info", Format: LogJSON}.NewLogger(&buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("shown", slog.Int("tasks", 2))
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"tasks":2`)

	_, err = Logging{Level: "info", Format: "xml"}.NewLogger(nil)
	assert.ErrorContains(t, err, `invalid log format "xml"`)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("Warning")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	level, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}
