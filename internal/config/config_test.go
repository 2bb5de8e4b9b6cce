package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kestrelops/liaison/internal/assert"
	"github.com/kestrelops/liaison/internal/config"
)

func TestDefaultConfigValues(t *testing.T) {
	as := assert.New(t)
	cfg := config.NewDefaultConfig()

	as.ConfigValid(cfg)
	as.Equal(config.DefaultAPIPort, cfg.APIPort)
	as.Equal("0.0.0.0", cfg.APIHost)
	as.Equal("info", cfg.LogLevel)
	as.Equal(30*time.Minute, cfg.Workflow.ReviewDuration)
	as.Equal(60*time.Minute, cfg.Workflow.KickoffDuration)
	as.Equal(9, cfg.Workflow.WorkdayStartHour)
	as.Equal(17, cfg.Workflow.WorkdayEndHour)
	as.False(cfg.History.Enabled)
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name          string
		configMod     func(*config.Config)
		errorContains string
	}{
		{
			name: "invalid_api_port_zero",
			configMod: func(c *config.Config) {
				c.APIPort = 0
			},
			errorContains: "invalid API port",
		},
		{
			name: "invalid_api_port_too_high",
			configMod: func(c *config.Config) {
				c.APIPort = 70000
			},
			errorContains: "invalid API port",
		},
		{
			name: "inverted_workday",
			configMod: func(c *config.Config) {
				c.Workflow.WorkdayStartHour = 18
				c.Workflow.WorkdayEndHour = 9
			},
			errorContains: "workday start hour",
		},
		{
			name: "zero_review_duration",
			configMod: func(c *config.Config) {
				c.Workflow.ReviewDuration = 0
			},
			errorContains: "durations must be positive",
		},
		{
			name: "zero_history_max_runs",
			configMod: func(c *config.Config) {
				c.History.MaxRuns = 0
			},
			errorContains: "history max runs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			as := assert.New(t)
			cfg := config.NewDefaultConfig()
			tt.configMod(cfg)
			as.ConfigInvalid(cfg, tt.errorContains)
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	as := assert.New(t)
	t.Setenv("API_PORT", "9090")
	t.Setenv("PROJECTS_COLLECTION_ID", "proj-coll")
	t.Setenv("INCIDENTS_COLLECTION_ID", "inc-coll")
	t.Setenv("HISTORY_REDIS_ADDR", "redis:6379")

	cfg := config.NewDefaultConfig()
	as.NoError(cfg.LoadFromEnv())
	as.Equal(9090, cfg.APIPort)
	as.Equal("proj-coll", cfg.ProjectsCollectionID)
	as.Equal("inc-coll", cfg.IncidentsCollectionID)
	as.True(cfg.History.Enabled)
	as.Equal("redis:6379", cfg.History.Addr)
}

func TestLoadFromEnvRejectsBadInts(t *testing.T) {
	as := assert.New(t)
	t.Setenv("API_PORT", "not-a-port")

	cfg := config.NewDefaultConfig()
	err := cfg.LoadFromEnv()
	as.Error(err)
	as.Contains(err.Error(), "API_PORT")
}

func TestLoadFromFile(t *testing.T) {
	as := assert.New(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "liaison.yaml")
	content := []byte(
		"api_port: 7070\n" +
			"workflow:\n" +
			"  review_duration: 45m\n" +
			"  workday_start_hour: 8\n" +
			"  workday_end_hour: 16\n")
	as.NoError(os.WriteFile(path, content, 0o644))

	cfg := config.NewDefaultConfig()
	as.NoError(cfg.LoadFromFile(path))
	as.Equal(7070, cfg.APIPort)
	as.Equal(45*time.Minute, cfg.Workflow.ReviewDuration)
	as.Equal(8, cfg.Workflow.WorkdayStartHour)

	t.Run("missing file is fine", func(t *testing.T) {
		as := assert.New(t)
		cfg := config.NewDefaultConfig()
		as.NoError(cfg.LoadFromFile(filepath.Join(dir, "nope.yaml")))
	})
}

func TestWithWorkflowDefaults(t *testing.T) {
	as := assert.New(t)
	cfg := &config.Config{APIPort: 8080}
	merged := cfg.WithWorkflowDefaults()

	as.Equal(config.DefaultReviewDuration,
		merged.Workflow.ReviewDuration)
	as.Equal(config.DefaultWorkdayStartHour,
		merged.Workflow.WorkdayStartHour)

	// caller-supplied values survive the merge
	cfg.Workflow.ReviewDuration = 20 * time.Minute
	merged = cfg.WithWorkflowDefaults()
	as.Equal(20*time.Minute, merged.Workflow.ReviewDuration)
	as.Equal(config.DefaultKickoffDuration,
		merged.Workflow.KickoffDuration)
}
