package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type (
	// Config holds configuration settings for the orchestrator and its
	// surrounding service
	Config struct {
		// API Server
		APIHost  string `yaml:"api_host"`
		APIPort  int    `yaml:"api_port"`
		LogLevel string `yaml:"log_level"`

		// Document collections, supplied by the environment and not
		// validated here
		ProjectsCollectionID  string `yaml:"projects_collection_id"`
		IncidentsCollectionID string `yaml:"incidents_collection_id"`

		// Workflow defaults, merged with overrides once at Orchestrator
		// construction
		Workflow WorkflowConfig `yaml:"workflow"`

		// Invocation history
		History HistoryConfig `yaml:"history"`

		// Artifact archive; disabled when the bucket URL is empty
		ArchiveBucketURL string `yaml:"archive_bucket_url"`
		ArchivePrefix    string `yaml:"archive_prefix"`

		ShutdownTimeout time.Duration `yaml:"-"`
	}

	// WorkflowConfig carries the scheduling knobs shared by the workflow
	// procedures
	WorkflowConfig struct {
		ReviewDuration     time.Duration `yaml:"review_duration"`
		KickoffDuration    time.Duration `yaml:"kickoff_duration"`
		EscalationDuration time.Duration `yaml:"escalation_duration"`
		MinLeadTime        time.Duration `yaml:"min_lead_time"`
		ReviewWindow       time.Duration `yaml:"review_window"`
		KickoffWindow      time.Duration `yaml:"kickoff_window"`
		SlotBuffer         time.Duration `yaml:"slot_buffer"`
		WorkdayStartHour   int           `yaml:"workday_start_hour"`
		WorkdayEndHour     int           `yaml:"workday_end_hour"`
	}

	// HistoryConfig configures the completed-invocation store
	HistoryConfig struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"redis_addr"`
		Password string `yaml:"redis_password"`
		DB       int    `yaml:"redis_db"`
		Prefix   string `yaml:"redis_prefix"`
		MaxRuns  int    `yaml:"max_runs"`
	}
)

const (
	DefaultAPIHost = "0.0.0.0"
	DefaultAPIPort = 8080
	MaxTCPPort     = 65535

	DefaultReviewDuration     = 30 * time.Minute
	DefaultKickoffDuration    = 60 * time.Minute
	DefaultEscalationDuration = 30 * time.Minute
	DefaultMinLeadTime        = 30 * time.Minute
	DefaultReviewWindow       = 24 * time.Hour
	DefaultKickoffWindow      = 48 * time.Hour
	DefaultSlotBuffer         = 15 * time.Minute
	DefaultWorkdayStartHour   = 9
	DefaultWorkdayEndHour     = 17

	DefaultRedisEndpoint = "localhost:6379"
	DefaultRedisDB       = 0
	DefaultHistoryPrefix = "liaison"
	DefaultMaxRuns       = 1000
	MaxHistoryRuns       = 1_000_000

	DefaultShutdownTimeout = 10 * time.Second
)

var (
	ErrInvalidAPIPort      = errors.New("invalid API port")
	ErrInvalidWorkdayHours = errors.New(
		"workday start hour must precede end hour within 0..24",
	)
	ErrInvalidDuration = errors.New("workflow durations must be positive")
	ErrInvalidWindow   = errors.New("search windows must be positive")
	ErrNegativeBuffer  = errors.New("slot buffer cannot be negative")
	ErrInvalidMaxRuns  = errors.New("history max runs out of range")
)

// NewDefaultConfig creates a configuration with sensible defaults for the
// server, workflow scheduling, and history settings
func NewDefaultConfig() *Config {
	return &Config{
		APIHost:  DefaultAPIHost,
		APIPort:  DefaultAPIPort,
		LogLevel: "info",
		Workflow: WorkflowConfig{
			ReviewDuration:     DefaultReviewDuration,
			KickoffDuration:    DefaultKickoffDuration,
			EscalationDuration: DefaultEscalationDuration,
			MinLeadTime:        DefaultMinLeadTime,
			ReviewWindow:       DefaultReviewWindow,
			KickoffWindow:      DefaultKickoffWindow,
			SlotBuffer:         DefaultSlotBuffer,
			WorkdayStartHour:   DefaultWorkdayStartHour,
			WorkdayEndHour:     DefaultWorkdayEndHour,
		},
		History: HistoryConfig{
			Addr:    DefaultRedisEndpoint,
			DB:      DefaultRedisDB,
			Prefix:  DefaultHistoryPrefix,
			MaxRuns: DefaultMaxRuns,
		},
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// LoadFromEnv populates configuration values from environment variables.
// Returns an error if any env var cannot be parsed
func (c *Config) LoadFromEnv() error {
	if apiHost := os.Getenv("API_HOST"); apiHost != "" {
		c.APIHost = apiHost
	}
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.LogLevel = logLevel
	}
	if projects := os.Getenv("PROJECTS_COLLECTION_ID"); projects != "" {
		c.ProjectsCollectionID = projects
	}
	if incidents := os.Getenv("INCIDENTS_COLLECTION_ID"); incidents != "" {
		c.IncidentsCollectionID = incidents
	}
	if bucket := os.Getenv("ARCHIVE_BUCKET_URL"); bucket != "" {
		c.ArchiveBucketURL = bucket
	}
	if prefix := os.Getenv("ARCHIVE_PREFIX"); prefix != "" {
		c.ArchivePrefix = prefix
	}

	if addr := os.Getenv("HISTORY_REDIS_ADDR"); addr != "" {
		c.History.Addr = addr
		c.History.Enabled = true
	}
	if password := os.Getenv("HISTORY_REDIS_PASSWORD"); password != "" {
		c.History.Password = password
	}
	if prefix := os.Getenv("HISTORY_REDIS_PREFIX"); prefix != "" {
		c.History.Prefix = prefix
	}

	if err := loadEnvInt("API_PORT", &c.APIPort, 0, MaxTCPPort); err != nil {
		return err
	}
	if err := loadEnvInt(
		"HISTORY_REDIS_DB", &c.History.DB, -1, 15,
	); err != nil {
		return err
	}
	if err := loadEnvInt(
		"HISTORY_MAX_RUNS", &c.History.MaxRuns, 0, MaxHistoryRuns,
	); err != nil {
		return err
	}

	return nil
}

// LoadFromFile merges a YAML override file into the configuration. A
// missing file is not an error
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return nil
}

// UnmarshalYAML accepts Go duration strings ("45m", "1h30m") for every
// duration-typed field
func (w *WorkflowConfig) UnmarshalYAML(node *yaml.Node) error {
	type raw struct {
		ReviewDuration     durationValue `yaml:"review_duration"`
		KickoffDuration    durationValue `yaml:"kickoff_duration"`
		EscalationDuration durationValue `yaml:"escalation_duration"`
		MinLeadTime        durationValue `yaml:"min_lead_time"`
		ReviewWindow       durationValue `yaml:"review_window"`
		KickoffWindow      durationValue `yaml:"kickoff_window"`
		SlotBuffer         durationValue `yaml:"slot_buffer"`
		WorkdayStartHour   *int          `yaml:"workday_start_hour"`
		WorkdayEndHour     *int          `yaml:"workday_end_hour"`
	}

	var r raw
	if err := node.Decode(&r); err != nil {
		return err
	}
	r.ReviewDuration.apply(&w.ReviewDuration)
	r.KickoffDuration.apply(&w.KickoffDuration)
	r.EscalationDuration.apply(&w.EscalationDuration)
	r.MinLeadTime.apply(&w.MinLeadTime)
	r.ReviewWindow.apply(&w.ReviewWindow)
	r.KickoffWindow.apply(&w.KickoffWindow)
	r.SlotBuffer.apply(&w.SlotBuffer)
	if r.WorkdayStartHour != nil {
		w.WorkdayStartHour = *r.WorkdayStartHour
	}
	if r.WorkdayEndHour != nil {
		w.WorkdayEndHour = *r.WorkdayEndHour
	}
	return nil
}

type durationValue struct {
	d   time.Duration
	set bool
}

func (v *durationValue) UnmarshalYAML(node *yaml.Node) error {
	d, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", node.Value, err)
	}
	v.d = d
	v.set = true
	return nil
}

func (v durationValue) apply(dst *time.Duration) {
	if v.set {
		*dst = v.d
	}
}

// WithWorkflowDefaults returns a copy of the config with zero-valued
// workflow fields filled in from defaults
func (c *Config) WithWorkflowDefaults() *Config {
	res := *c
	w := &res.Workflow
	if w.ReviewDuration <= 0 {
		w.ReviewDuration = DefaultReviewDuration
	}
	if w.KickoffDuration <= 0 {
		w.KickoffDuration = DefaultKickoffDuration
	}
	if w.EscalationDuration <= 0 {
		w.EscalationDuration = DefaultEscalationDuration
	}
	if w.MinLeadTime <= 0 {
		w.MinLeadTime = DefaultMinLeadTime
	}
	if w.ReviewWindow <= 0 {
		w.ReviewWindow = DefaultReviewWindow
	}
	if w.KickoffWindow <= 0 {
		w.KickoffWindow = DefaultKickoffWindow
	}
	if w.SlotBuffer <= 0 {
		w.SlotBuffer = DefaultSlotBuffer
	}
	if w.WorkdayStartHour == 0 && w.WorkdayEndHour == 0 {
		w.WorkdayStartHour = DefaultWorkdayStartHour
		w.WorkdayEndHour = DefaultWorkdayEndHour
	}
	return &res
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.APIPort <= 0 || c.APIPort > MaxTCPPort {
		return fmt.Errorf("%w: %d", ErrInvalidAPIPort, c.APIPort)
	}

	w := c.Workflow
	if w.WorkdayStartHour < 0 || w.WorkdayEndHour > 24 ||
		w.WorkdayStartHour >= w.WorkdayEndHour {
		return fmt.Errorf("%w: %d..%d",
			ErrInvalidWorkdayHours, w.WorkdayStartHour, w.WorkdayEndHour)
	}
	if w.ReviewDuration <= 0 || w.KickoffDuration <= 0 ||
		w.EscalationDuration <= 0 {
		return ErrInvalidDuration
	}
	if w.ReviewWindow <= 0 || w.KickoffWindow <= 0 {
		return ErrInvalidWindow
	}
	if w.SlotBuffer < 0 {
		return ErrNegativeBuffer
	}

	if c.History.MaxRuns <= 0 || c.History.MaxRuns > MaxHistoryRuns {
		return fmt.Errorf("%w: %d", ErrInvalidMaxRuns, c.History.MaxRuns)
	}

	return nil
}

// loadEnvInt reads key from the environment, parses it as an integer, and
// sets *dst if the value is in the range (min, max). Returns an error if
// the value cannot be parsed or falls outside the valid range
func loadEnvInt[T ~int](key string, dst *T, min, max T) error {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, s)
	}
	tv := T(v)
	if tv <= min || tv > max {
		return fmt.Errorf("invalid %s: %d out of range [%d, %d]",
			key, tv, min+1, max)
	}
	*dst = tv
	return nil
}
