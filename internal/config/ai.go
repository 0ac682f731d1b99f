package config

import "os"

// GeminiModels defines which Gemini models to use for different tasks
type GeminiModels struct {
	// Analyze classifies incoming questions (needs to be fast)
	Analyze string `json:"analyze"`

	// Generate drafts answers inside the critique loop (fast)
	Generate string `json:"generate"`

	// Critique scores drafts (fast, called once per iteration)
	Critique string `json:"critique"`

	// Refine is the single final polish pass
	Refine string `json:"refine"`

	// Extract pulls key points and delivery tips from the final answer
	Extract string `json:"extract"`

	// FollowUp predicts interviewer follow-up questions
	FollowUp string `json:"followUp"`

	// Questions generates mock interview question sets (quality over speed)
	Questions string `json:"questions"`
}

// AIConfig holds all AI-related configuration
type AIConfig struct {
	APIKey    string       `json:"-"` // Never serialize
	BaseURL   string       `json:"baseUrl"`
	Models    GeminiModels `json:"models"`
	TimeoutMS int          `json:"timeoutMs"`
}

// DefaultAIConfig returns the default AI configuration
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		BaseURL: "https://generativelanguage.googleapis.com/v1beta/models",
		Models: GeminiModels{
			// Fast models for the per-question loop
			Analyze:  getEnvOrDefault("GEMINI_MODEL_ANALYZE", "gemini-2.5-flash-preview-05-20"),
			Generate: getEnvOrDefault("GEMINI_MODEL_GENERATE", "gemini-2.5-flash-preview-05-20"),
			Critique: getEnvOrDefault("GEMINI_MODEL_CRITIQUE", "gemini-2.5-flash-preview-05-20"),
			Refine:   getEnvOrDefault("GEMINI_MODEL_REFINE", "gemini-2.0-flash"),
			Extract:  getEnvOrDefault("GEMINI_MODEL_EXTRACT", "gemini-2.0-flash"),
			FollowUp: getEnvOrDefault("GEMINI_MODEL_FOLLOWUP", "gemini-2.0-flash"),

			// Quality model for bulk question generation
			Questions: getEnvOrDefault("GEMINI_MODEL_QUESTIONS", "gemini-2.0-flash"),
		},
		TimeoutMS: 30000, // Generation calls run long
	}
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ModelEndpoint returns the full endpoint for a given model
func (c *AIConfig) ModelEndpoint(model string) string {
	return c.BaseURL + "/" + model + ":generateContent"
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
