package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// GetLoadedPrompts exposes the process-wide loaded prompt store.
func GetLoadedPrompts() *AllLoadedPrompts {
	return &loadedPrompts
}

// promptSlot pairs one configured prompt file with its destination in the
// loaded prompt store. kind and operation only feed log and error text.
type promptSlot struct {
	file      string
	dst       *string
	kind      string
	operation string
}

func systemPromptSlots(src *SystemPrompts, dst *LoadedSystemPrompts, kind string) []promptSlot {
	return []promptSlot{
		{src.AnalyzeFile, &dst.Analyze, kind, "analyze"},
		{src.FocusFile, &dst.Focus, kind, "focus"},
		{src.CareersFile, &dst.Careers, kind, "careers"},
		{src.AtsFile, &dst.Ats, kind, "ats"},
	}
}

func userPromptSlots(src *UserPrompts, dst *LoadedUserPrompts, kind string) []promptSlot {
	return []promptSlot{
		{src.AnalyzeFile, &dst.Analyze, kind, "analyze"},
		{src.FocusFile, &dst.Focus, kind, "focus"},
		{src.CareersFile, &dst.Careers, kind, "careers"},
		{src.AtsFile, &dst.Ats, kind, "ats"},
	}
}

// promptSlots enumerates every file-backed prompt in the configuration,
// global block first, then each operation's override block.
func (c *Config) promptSlots() []promptSlot {
	slots := systemPromptSlots(&c.AI.CustomPrompts.SystemPrompts, &loadedPrompts.Global.SystemPrompts, "system")
	slots = append(slots, userPromptSlots(&c.AI.CustomPrompts.UserPrompts, &loadedPrompts.Global.UserPrompts, "user")...)

	for _, op := range []struct {
		name string
		cfg  *PromptConfig
		dst  *OperationLoadedPrompts
	}{
		{"analyze", &c.AI.Analyze.CustomPrompts, &loadedPrompts.Analyze},
		{"focus", &c.AI.Focus.CustomPrompts, &loadedPrompts.Focus},
		{"careers", &c.AI.Careers.CustomPrompts, &loadedPrompts.Careers},
		{"ats", &c.AI.Ats.CustomPrompts, &loadedPrompts.Ats},
	} {
		slots = append(slots, systemPromptSlots(&op.cfg.SystemPrompts, &op.dst.SystemPrompts, op.name+" system")...)
		slots = append(slots, userPromptSlots(&op.cfg.UserPrompts, &op.dst.UserPrompts, op.name+" user")...)
	}
	return slots
}

// loadPromptsFromFiles reads every configured prompt file into the shared
// store. Inline prompt values are left untouched; file content only fills
// the loaded store, so the original config stays immutable.
func (c *Config) loadPromptsFromFiles() error {
	loadedPromptsOnce.Do(func() {
		loadedPrompts = AllLoadedPrompts{}
	})

	loaded := 0
	for _, slot := range c.promptSlots() {
		if slot.file == "" {
			continue
		}
		content, err := c.loadPromptFromFile(slot.file, slot.kind, slot.operation)
		if err != nil {
			return err
		}
		*slot.dst = content
		loaded++
	}

	if loaded == 0 {
		log.Println("[CONFIG] No custom prompt files configured, using built-in prompts")
	} else {
		log.Printf("[CONFIG] Loaded %d custom prompts from files", loaded)
	}
	return nil
}

// loadPromptFromFile reads one prompt file and rejects empty content.
func (c *Config) loadPromptFromFile(filePath, promptType, operation string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path for %s %s prompt file %q: %w", promptType, operation, filePath, err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s %s prompt file not found: %s", promptType, operation, absPath)
		}
		return "", fmt.Errorf("failed to read %s %s prompt file %q: %w", promptType, operation, absPath, err)
	}

	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return "", fmt.Errorf("%s %s prompt file %q is empty", promptType, operation, absPath)
	}

	log.Printf("[CONFIG] Loaded %s %s prompt from %s (%d characters)", promptType, operation, absPath, len(trimmed))
	return trimmed, nil
}

// validatePromptFiles checks every configured prompt file exists before any
// loading happens, so a bad path fails fast with all problems reported at
// once.
func (c *Config) validatePromptFiles() error {
	var problems []string
	for _, slot := range c.promptSlots() {
		if slot.file == "" {
			continue
		}
		absPath, err := filepath.Abs(slot.file)
		if err != nil {
			problems = append(problems, fmt.Sprintf("invalid path for %s %s prompt: %s", slot.kind, slot.operation, slot.file))
			continue
		}
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			problems = append(problems, fmt.Sprintf("%s %s prompt file not found: %s", slot.kind, slot.operation, absPath))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(problems, "\n"))
	}
	return nil
}
