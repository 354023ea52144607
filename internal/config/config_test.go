package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/waterfall/internal/config"
	"github.com/aretw0/waterfall/internal/logging"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load looks at so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"QnAKnowledgebaseId", "QnAEndpointKey", "QnAEndpointHostName", "DefaultAnswer",
		"OverrideMultiTurnStep", "OverrideDisplayQnAStep",
		"QNABOT_KNOWLEDGE_BASE_ID", "QNABOT_ENDPOINT_KEY", "QNABOT_ENDPOINT_HOST",
		"QNABOT_DEFAULT_ANSWER", "QNABOT_OVERRIDE_MULTITURN", "QNABOT_OVERRIDE_DISPLAY",
		"QNABOT_KB", "QNABOT_LOG_LEVEL", "QNABOT_LOG_FORMAT", "QNABOT_TRACES",
		"QNABOT_METRICS_ADDR", "QNABOT_MAX_INPUT_SIZE",
	} {
		t.Setenv(name, "")
	}
	// Go 1.21 has no t.Chdir; change into a temp dir and restore on cleanup.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String(config.KeyLogLevel, "info", "")
	fs.Bool(config.KeyOverrideMultiTurn, false, "")
	fs.Bool(config.KeyOverrideDisplay, false, "")
	fs.String(config.KeyDefaultAnswer, "", "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, logging.FormatText, cfg.LogFormat)
	assert.Equal(t, config.DefaultMaxInputSize, cfg.MaxInputSize)
	assert.False(t, cfg.OverrideMultiTurnStep)
	assert.False(t, cfg.OverrideDisplayQnAStep)
	assert.False(t, cfg.ShowTraces)
	assert.Empty(t, cfg.File)
}

func TestLoad_LegacyEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("QnAKnowledgebaseId", "kb-123")
	t.Setenv("QnAEndpointKey", "secret")
	t.Setenv("QnAEndpointHostName", "https://example.azurewebsites.net/qnamaker")
	t.Setenv("DefaultAnswer", "Sorry, I don't know.")
	t.Setenv("OverrideMultiTurnStep", "true")
	t.Setenv("OverrideDisplayQnAStep", "yes")

	cfg, err := config.Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "kb-123", cfg.KnowledgeBaseID)
	assert.Equal(t, "secret", cfg.EndpointKey)
	assert.Equal(t, "https://example.azurewebsites.net/qnamaker", cfg.EndpointHostName)
	assert.Equal(t, "Sorry, I don't know.", cfg.DefaultAnswer)
	assert.True(t, cfg.OverrideMultiTurnStep)
	assert.True(t, cfg.OverrideDisplayQnAStep, "any non-empty value enables the override")
}

func TestLoad_OverrideFlagValues(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", false},
		{"   ", false},
		{"false", true},
		{"0", true},
		{"true", true},
		{"1", true},
		{"on", true},
	}

	for _, tt := range tests {
		t.Run("value="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("OverrideMultiTurnStep", tt.value)

			cfg, err := config.Load("", nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.OverrideMultiTurnStep)
		})
	}
}

func TestLoad_TracesValues(t *testing.T) {
	tests := []struct {
		value   string
		want    bool
		wantErr bool
	}{
		{value: "", want: false},
		{value: "false", want: false},
		{value: "0", want: false},
		{value: "true", want: true},
		{value: "sometimes", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("value="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("QNABOT_TRACES", tt.value)

			cfg, err := config.Load("", nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.ShowTraces)
		})
	}
}

func TestLoad_PrefixedEnvironmentWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("DefaultAnswer", "legacy")
	t.Setenv("QNABOT_DEFAULT_ANSWER", "prefixed")
	t.Setenv("QNABOT_LOG_FORMAT", "JSON")

	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "prefixed", cfg.DefaultAnswer)
	assert.Equal(t, logging.FormatJSON, cfg.LogFormat)
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log-level: debug
kb: ./faq.yaml
override-display: true
traces: true
max-input-size: 128
`), 0o600))

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "./faq.yaml", cfg.KnowledgeBaseFile)
	assert.True(t, cfg.OverrideDisplayQnAStep)
	assert.True(t, cfg.ShowTraces)
	assert.Equal(t, 128, cfg.MaxInputSize)
	assert.Equal(t, path, cfg.File)
}

func TestLoad_DiscoveredConfigFile(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.WriteFile("qnabot.yaml", []byte("default-answer: from file\n"), 0o600))

	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "from file", cfg.DefaultAnswer)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_FlagsOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("QNABOT_LOG_LEVEL", "warn")

	fs := flags()
	require.NoError(t, fs.Parse([]string{"--override-multiturn", "--default-answer", "flag answer"}))

	cfg, err := config.Load("", fs)
	require.NoError(t, err)

	assert.True(t, cfg.OverrideMultiTurnStep)
	assert.False(t, cfg.OverrideDisplayQnAStep)
	assert.Equal(t, "flag answer", cfg.DefaultAnswer)
	assert.Equal(t, "warn", cfg.LogLevel, "unset flags fall back to the environment")
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("QNABOT_LOG_LEVEL", "verbose")
	_, err := config.Load("", nil)
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("QNABOT_LOG_FORMAT", "xml")
	_, err = config.Load("", nil)
	assert.Error(t, err)
}
