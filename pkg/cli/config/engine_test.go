package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/caeleel/friendbook/pkg/cli/config"
	"github.com/caeleel/friendbook/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "assistant.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()
	return path
}

func TestLoadAssistantProfile(t *testing.T) {
	t.Run("full profile", func(t *testing.T) {
		path := writeProfile(t, `
name = "Rolodex"
model = "gpt-4o-mini"
instructions = "Remember everyone."
`)
		profile, err := config.LoadAssistantProfile(path)
		gt.NoError(t, err).Required()
		gt.Value(t, profile.Name).Equal("Rolodex")
		gt.Value(t, profile.Model).Equal("gpt-4o-mini")
		gt.Value(t, profile.Instructions).Equal("Remember everyone.")
	})

	t.Run("missing fields keep defaults", func(t *testing.T) {
		path := writeProfile(t, `model = "gpt-4.1"`)
		profile, err := config.LoadAssistantProfile(path)
		gt.NoError(t, err).Required()
		gt.Value(t, profile.Model).Equal("gpt-4.1")
		gt.Value(t, profile.Name).Equal(model.DefaultAssistantProfile().Name)
		gt.Value(t, profile.Instructions).Equal(model.DefaultAssistantProfile().Instructions)
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		path := writeProfile(t, `name = ""`)
		_, err := config.LoadAssistantProfile(path)
		gt.Bool(t, errors.Is(err, config.ErrInvalidProfile)).True()
	})

	t.Run("broken TOML", func(t *testing.T) {
		path := writeProfile(t, `name = `)
		_, err := config.LoadAssistantProfile(path)
		gt.Bool(t, errors.Is(err, config.ErrInvalidProfile)).True()
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadAssistantProfile(filepath.Join(t.TempDir(), "none.toml"))
		gt.Bool(t, errors.Is(err, config.ErrProfileNotFound)).True()
	})
}

func TestEngine_Configure(t *testing.T) {
	t.Run("openai engine", func(t *testing.T) {
		engine, err := config.NewEngineForTest("openai", "sk-test", "asst_123", "").Configure(t.Context())
		gt.NoError(t, err).Required()
		gt.Value(t, engine).NotNil()
	})

	t.Run("openai engine requires API key", func(t *testing.T) {
		_, err := config.NewEngineForTest("openai", "", "asst_123", "").Configure(t.Context())
		gt.Bool(t, errors.Is(err, config.ErrMissingRequired)).True()
	})

	t.Run("openai engine requires assistant", func(t *testing.T) {
		_, err := config.NewEngineForTest("openai", "sk-test", "", "").Configure(t.Context())
		gt.Bool(t, errors.Is(err, config.ErrMissingRequired)).True()
	})

	t.Run("gemini engine requires project", func(t *testing.T) {
		_, err := config.NewEngineForTest("gemini", "", "", "").Configure(t.Context())
		gt.Bool(t, errors.Is(err, config.ErrMissingRequired)).True()
	})

	t.Run("unknown engine", func(t *testing.T) {
		_, err := config.NewEngineForTest("claude", "", "", "").Configure(t.Context())
		gt.Bool(t, errors.Is(err, config.ErrInvalidEngine)).True()
	})

	t.Run("provision requires API key", func(t *testing.T) {
		_, err := config.NewEngineForTest("openai", "", "", "").Provision(t.Context())
		gt.Bool(t, errors.Is(err, config.ErrMissingRequired)).True()
	})
}

func TestEngine_Profile(t *testing.T) {
	profile, err := config.NewEngineForTest("openai", "", "", "").Profile()
	gt.NoError(t, err).Required()
	gt.Value(t, profile).Equal(model.DefaultAssistantProfile())
}

func TestEngine_UseCaseOptions(t *testing.T) {
	opts := config.NewEngineForTest("openai", "", "", "").UseCaseOptions()
	gt.Array(t, opts).Length(3)
}

func TestSentry_ConfigureDisabled(t *testing.T) {
	flush, err := config.NewSentryForTest("", "").Configure()
	gt.NoError(t, err).Required()
	flush()
}
