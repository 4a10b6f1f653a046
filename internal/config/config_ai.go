package config

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.BaseURL == "" {
		opCfg.BaseURL = c.AI.BaseURL
	}
	if opCfg.Timeout == nil {
		opCfg.Timeout = &c.AI.Timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.MaxRetries == nil {
		opCfg.MaxRetries = &c.AI.MaxRetries
	}
	if opCfg.Temperature == nil {
		opCfg.Temperature = &c.AI.Temperature
	}
	if opCfg.TopP == nil {
		opCfg.TopP = &c.AI.TopP
	}
	// UseSystemPrompts: apply global default only if not explicitly set
	if opCfg.UseSystemPrompts == nil {
		opCfg.UseSystemPrompts = &c.AI.UseSystemPrompts
	}
}

// GetAnalyzeConfig returns the AI configuration for full analysis with fallback to global config
func (c *Config) GetAnalyzeConfig() OperationAIConfig {
	config := c.AI.Analyze

	c.applyOperationDefaults(&config)

	if config.CustomPrompts.SystemPrompts.Analyze == "" {
		config.CustomPrompts.SystemPrompts.Analyze = c.AI.CustomPrompts.SystemPrompts.Analyze
	}
	if config.CustomPrompts.UserPrompts.Analyze == "" {
		config.CustomPrompts.UserPrompts.Analyze = c.AI.CustomPrompts.UserPrompts.Analyze
	}
	// Also copy file paths for potential later loading
	if config.CustomPrompts.SystemPrompts.AnalyzeFile == "" {
		config.CustomPrompts.SystemPrompts.AnalyzeFile = c.AI.CustomPrompts.SystemPrompts.AnalyzeFile
	}
	if config.CustomPrompts.UserPrompts.AnalyzeFile == "" {
		config.CustomPrompts.UserPrompts.AnalyzeFile = c.AI.CustomPrompts.UserPrompts.AnalyzeFile
	}

	return config
}

// GetFocusConfig returns the AI configuration for focused analysis with fallback to global config
func (c *Config) GetFocusConfig() OperationAIConfig {
	config := c.AI.Focus

	c.applyOperationDefaults(&config)

	if config.CustomPrompts.SystemPrompts.Focus == "" {
		config.CustomPrompts.SystemPrompts.Focus = c.AI.CustomPrompts.SystemPrompts.Focus
	}
	if config.CustomPrompts.UserPrompts.Focus == "" {
		config.CustomPrompts.UserPrompts.Focus = c.AI.CustomPrompts.UserPrompts.Focus
	}
	if config.CustomPrompts.SystemPrompts.FocusFile == "" {
		config.CustomPrompts.SystemPrompts.FocusFile = c.AI.CustomPrompts.SystemPrompts.FocusFile
	}
	if config.CustomPrompts.UserPrompts.FocusFile == "" {
		config.CustomPrompts.UserPrompts.FocusFile = c.AI.CustomPrompts.UserPrompts.FocusFile
	}

	return config
}

// GetCareersConfig returns the AI configuration for career suggestions with fallback to global config
func (c *Config) GetCareersConfig() OperationAIConfig {
	config := c.AI.Careers

	c.applyOperationDefaults(&config)

	if config.CustomPrompts.SystemPrompts.Careers == "" {
		config.CustomPrompts.SystemPrompts.Careers = c.AI.CustomPrompts.SystemPrompts.Careers
	}
	if config.CustomPrompts.UserPrompts.Careers == "" {
		config.CustomPrompts.UserPrompts.Careers = c.AI.CustomPrompts.UserPrompts.Careers
	}
	if config.CustomPrompts.SystemPrompts.CareersFile == "" {
		config.CustomPrompts.SystemPrompts.CareersFile = c.AI.CustomPrompts.SystemPrompts.CareersFile
	}
	if config.CustomPrompts.UserPrompts.CareersFile == "" {
		config.CustomPrompts.UserPrompts.CareersFile = c.AI.CustomPrompts.UserPrompts.CareersFile
	}

	return config
}

// GetAtsConfig returns the AI configuration for ATS optimization with fallback to global config
func (c *Config) GetAtsConfig() OperationAIConfig {
	config := c.AI.Ats

	c.applyOperationDefaults(&config)

	if config.CustomPrompts.SystemPrompts.Ats == "" {
		config.CustomPrompts.SystemPrompts.Ats = c.AI.CustomPrompts.SystemPrompts.Ats
	}
	if config.CustomPrompts.UserPrompts.Ats == "" {
		config.CustomPrompts.UserPrompts.Ats = c.AI.CustomPrompts.UserPrompts.Ats
	}
	if config.CustomPrompts.SystemPrompts.AtsFile == "" {
		config.CustomPrompts.SystemPrompts.AtsFile = c.AI.CustomPrompts.SystemPrompts.AtsFile
	}
	if config.CustomPrompts.UserPrompts.AtsFile == "" {
		config.CustomPrompts.UserPrompts.AtsFile = c.AI.CustomPrompts.UserPrompts.AtsFile
	}

	return config
}

// GetLoadedAnalyzePrompts returns a copy of the loaded prompts for full analysis
func (c *Config) GetLoadedAnalyzePrompts() OperationLoadedPrompts {
	return loadedPrompts.Analyze
}

// GetLoadedFocusPrompts returns a copy of the loaded prompts for focused analysis
func (c *Config) GetLoadedFocusPrompts() OperationLoadedPrompts {
	return loadedPrompts.Focus
}

// GetLoadedCareersPrompts returns a copy of the loaded prompts for career suggestions
func (c *Config) GetLoadedCareersPrompts() OperationLoadedPrompts {
	return loadedPrompts.Careers
}

// GetLoadedAtsPrompts returns a copy of the loaded prompts for ATS optimization
func (c *Config) GetLoadedAtsPrompts() OperationLoadedPrompts {
	return loadedPrompts.Ats
}

// GetLoadedGlobalPrompts returns a copy of the loaded global prompts
func (c *Config) GetLoadedGlobalPrompts() LoadedPrompts {
	return loadedPrompts.Global
}
