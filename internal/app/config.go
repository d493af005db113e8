package app

import (
	"errors"

	"github.com/vk/hbsbind/internal/hbs"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ProjectPath string // hcl project file

	LogFormat string
	LogLevel  string

	// ExportPath overrides the project's export_path; "-" is the output
	// writer.
	ExportPath string
	Preview    bool
	Check      bool
	// Interactive opens the explorer for every marker still needing a
	// binding.
	Interactive bool
	// BindID opens the explorer for one marker; hbs.NoID disables it.
	BindID int
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ProjectPath == "" {
		return nil, errors.New("ProjectPath is a required configuration field and cannot be empty")
	}
	if cfg.BindID < hbs.NoID {
		return nil, errors.New("BindID must be a marker id or -1")
	}
	return &cfg, nil
}
