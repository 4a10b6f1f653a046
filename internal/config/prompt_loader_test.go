package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePromptFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadPromptsFromFiles(t *testing.T) {
	tempDir := t.TempDir()
	systemFile := writePromptFile(t, tempDir, "system.analyze.md", "Reviewer persona for full analysis")
	userFile := writePromptFile(t, tempDir, "user.analyze.md", "Analyze this resume: %s")

	cfg := &Config{}
	cfg.AI.Analyze.CustomPrompts.SystemPrompts.AnalyzeFile = systemFile
	cfg.AI.Analyze.CustomPrompts.UserPrompts.AnalyzeFile = userFile

	require.NoError(t, cfg.loadPromptsFromFiles())

	loaded := GetPromptsForOperation("analyze")
	assert.Equal(t, "Reviewer persona for full analysis", loaded.SystemPrompts.Analyze)
	assert.Equal(t, "Analyze this resume: %s", loaded.UserPrompts.Analyze)

	// File paths stay in the config; only the loaded store gets content.
	assert.Equal(t, systemFile, cfg.AI.Analyze.CustomPrompts.SystemPrompts.AnalyzeFile)
	assert.Equal(t, userFile, cfg.AI.Analyze.CustomPrompts.UserPrompts.AnalyzeFile)
}

func TestValidatePromptFiles(t *testing.T) {
	tempDir := t.TempDir()
	validFile := writePromptFile(t, tempDir, "valid.md", "Valid content")

	cfg := &Config{}
	cfg.AI.Ats.CustomPrompts.SystemPrompts.AtsFile = validFile
	assert.NoError(t, cfg.validatePromptFiles())

	cfg.AI.Ats.CustomPrompts.SystemPrompts.AtsFile = filepath.Join(tempDir, "nonexistent.md")
	err := cfg.validatePromptFiles()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadPromptFromFile(t *testing.T) {
	tempDir := t.TempDir()
	cfg := &Config{}

	t.Run("valid file", func(t *testing.T) {
		path := writePromptFile(t, tempDir, "test.md", "Prompt body")
		content, err := cfg.loadPromptFromFile(path, "system", "analyze")
		require.NoError(t, err)
		assert.Equal(t, "Prompt body", content)
	})

	t.Run("surrounding whitespace is trimmed", func(t *testing.T) {
		path := writePromptFile(t, tempDir, "padded.md", "\n  Prompt body  \n\n")
		content, err := cfg.loadPromptFromFile(path, "user", "focus")
		require.NoError(t, err)
		assert.Equal(t, "Prompt body", content)
	})

	t.Run("empty file rejected", func(t *testing.T) {
		path := writePromptFile(t, tempDir, "empty.md", "")
		_, err := cfg.loadPromptFromFile(path, "system", "analyze")
		assert.ErrorContains(t, err, "is empty")
	})

	t.Run("missing file rejected", func(t *testing.T) {
		_, err := cfg.loadPromptFromFile(filepath.Join(tempDir, "nonexistent.md"), "system", "analyze")
		assert.ErrorContains(t, err, "not found")
	})
}

func TestPromptFileIntegration(t *testing.T) {
	tempDir := t.TempDir()
	systemFile := writePromptFile(t, tempDir, "system.md", "Custom system persona")
	userFile := writePromptFile(t, tempDir, "user.md", "Custom user template: %s")

	cfg := &Config{
		AI: AIConfig{
			Provider:    "perplexity",
			Model:       "test-model",
			Timeout:     60 * time.Second,
			APIKey:      "test-key",
			MaxRetries:  2,
			Temperature: 0.7,
		},
		App: AppConfig{
			LogLevel:         "info",
			DefaultFormat:    "json",
			SupportedFormats: []string{"json", "text", "markdown"},
			MaxFileSize:      1024 * 1024,
		},
		Server: ServerConfig{Host: "localhost", Port: "8080"},
	}
	cfg.AI.Analyze.CustomPrompts.SystemPrompts.AnalyzeFile = systemFile
	cfg.AI.Analyze.CustomPrompts.UserPrompts.AnalyzeFile = userFile

	// Same sequence LoadConfig runs after unmarshalling.
	cfg.applyFallbacks()
	require.NoError(t, cfg.validatePromptFiles())
	require.NoError(t, cfg.loadPromptsFromFiles())

	loaded := GetPromptsForOperation("analyze")
	assert.Equal(t, "Custom system persona", loaded.SystemPrompts.Analyze)
	assert.Equal(t, "Custom user template: %s", loaded.UserPrompts.Analyze)

	assert.Equal(t, systemFile, cfg.AI.Analyze.CustomPrompts.SystemPrompts.AnalyzeFile)
	assert.Equal(t, userFile, cfg.AI.Analyze.CustomPrompts.UserPrompts.AnalyzeFile)
}
