package config

import "fmt"

// ValidationError describes a single invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateLogLevel checks that a log level is one of the accepted names.
func ValidateLogLevel(level string) error {
	switch level {
	case "debug", "info", "warn", "warning", "error", "fatal":
		return nil
	default:
		return &ValidationError{Field: "logging.level", Message: "must be one of: debug, info, warn, error, fatal"}
	}
}

// ValidateLogFormat checks that a log format is supported.
func ValidateLogFormat(format string) error {
	switch format {
	case "json", "console":
		return nil
	default:
		return &ValidationError{Field: "logging.format", Message: "must be one of: json, console"}
	}
}

// Validate checks the configuration for values that would break at runtime.
func (c *Config) Validate() error {
	if c.Search.URL == "" {
		return &ValidationError{Field: "search.url", Message: "is required"}
	}
	if c.Report.Days < 1 {
		return &ValidationError{Field: "report.days", Message: "must be at least 1"}
	}
	if c.Report.MaxSampleSize < 0 {
		return &ValidationError{Field: "report.max_sample_size", Message: "must not be negative"}
	}
	if c.Report.SampleLimit < 1 {
		return &ValidationError{Field: "report.sample_limit", Message: "must be at least 1"}
	}
	if c.LLM.MaxTokens < 1 {
		return &ValidationError{Field: "llm.max_tokens", Message: "must be at least 1"}
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 1 {
		return &ValidationError{Field: "llm.temperature", Message: "must be between 0 and 1"}
	}
	if c.Server.Transport != TransportStdio && c.Server.Transport != TransportHTTP {
		return &ValidationError{Field: "server.transport", Message: "must be one of: stdio, http"}
	}
	if err := ValidateLogLevel(c.Logging.Level); err != nil {
		return err
	}
	return ValidateLogFormat(c.Logging.Format)
}
