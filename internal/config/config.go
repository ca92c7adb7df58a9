// Package config holds the editor-supplied configuration keys recognized by the
// analysis core (spec §6.4), grounded on android/config.go's typed config struct
// plus constructor pattern.
package config

import "time"

// TraceLevel holds the trace.level configuration value. The core stores it in
// Config and does not read it; log verbosity does not depend on it.
type TraceLevel string

const (
	TraceOff      TraceLevel = "off"
	TraceMessages TraceLevel = "messages"
	TraceVerbose  TraceLevel = "verbose"
)

// Config is the immutable set of values recognized at init from the editor, or
// environment (spec §6.4).
type Config struct {
	// JavaHome overrides JDK discovery for SDK module construction. Empty means
	// "discover from the environment at process startup".
	JavaHome string

	// JVMArgs is opaque to the core; it is only ever forwarded, never interpreted.
	JVMArgs []string

	// BuildVariant selects Android classpath configs and generated-source
	// directories. Defaults to "debug".
	BuildVariant string

	// AndroidAutoGenerate is a hint only; the core never acts on it.
	AndroidAutoGenerate bool

	// PrimaryTarget overrides the default primary-session pick (JVM > ANDROID >
	// any) for shared source-set files. Empty means "use the default order".
	PrimaryTarget string

	Trace TraceLevel

	// SaveCooldown is the open question from spec §9 resolved as a knob, default
	// 0 (disabled). It is stored only: no rebuild path reads it, so rebuild
	// timing depends on RebuildDebounce alone whatever its value.
	SaveCooldown time.Duration

	// RebuildDebounce batches bursts of build-file/generated-source changes
	// (spec §4.9); default ~2s.
	RebuildDebounce time.Duration
}

// Option mutates a Config during construction.
type Option func(*Config)

// WithJavaHome overrides JDK discovery.
func WithJavaHome(home string) Option { return func(c *Config) { c.JavaHome = home } }

// WithJVMArgs sets the opaque JVM argument list.
func WithJVMArgs(args []string) Option { return func(c *Config) { c.JVMArgs = args } }

// WithBuildVariant overrides the default "debug" variant.
func WithBuildVariant(variant string) Option {
	return func(c *Config) { c.BuildVariant = variant }
}

// WithAndroidAutoGenerate sets the auto-generate hint.
func WithAndroidAutoGenerate(v bool) Option {
	return func(c *Config) { c.AndroidAutoGenerate = v }
}

// WithPrimaryTarget overrides the primary-session platform pick.
func WithPrimaryTarget(target string) Option {
	return func(c *Config) { c.PrimaryTarget = target }
}

// WithTrace sets the trace level.
func WithTrace(level TraceLevel) Option { return func(c *Config) { c.Trace = level } }

// WithSaveCooldown sets the save-debounce cooldown knob.
func WithSaveCooldown(d time.Duration) Option {
	return func(c *Config) { c.SaveCooldown = d }
}

// WithRebuildDebounce overrides the build-file-burst debounce window.
func WithRebuildDebounce(d time.Duration) Option {
	return func(c *Config) { c.RebuildDebounce = d }
}

// New builds a Config with spec-mandated defaults, then applies opts.
func New(opts ...Option) Config {
	c := Config{
		BuildVariant:    "debug",
		Trace:           TraceOff,
		SaveCooldown:    0,
		RebuildDebounce: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
