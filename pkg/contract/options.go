package contract

import "github.com/goliatone/go-formbuilder/pkg/validation"

// DefaultSubmitPath is the gateway route submissions are posted to.
const DefaultSubmitPath = "/api/forms/{uuid}/submit"

// DefaultVersion is used as info.version when none is configured.
const DefaultVersion = "1.0.0"

// Options tunes what the generated payload schema enforces.
type Options struct {
	// Policy mirrors validation.Policy: required lists, email domain patterns
	// and option enums are only emitted for the constraints it enables.
	Policy validation.Policy
	// StrictBounds adds slider/rating bounds, the colour pattern and rejects
	// unknown keys.
	StrictBounds bool
	Path         string
	Version      string
}

// Option mutates Options.
type Option func(*Options)

// WithPolicy emits the constraints enabled by policy.
func WithPolicy(policy validation.Policy) Option {
	return func(o *Options) {
		o.Policy = policy
	}
}

// WithStrictBounds toggles bound and key checks.
func WithStrictBounds(enabled bool) Option {
	return func(o *Options) {
		o.StrictBounds = enabled
	}
}

// WithPath overrides the submission route. It must contain a {uuid} segment.
func WithPath(path string) Option {
	return func(o *Options) {
		if path != "" {
			o.Path = path
		}
	}
}

// WithVersion sets info.version.
func WithVersion(version string) Option {
	return func(o *Options) {
		if version != "" {
			o.Version = version
		}
	}
}

func newOptions(opts ...Option) Options {
	cfg := Options{Path: DefaultSubmitPath, Version: DefaultVersion}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
