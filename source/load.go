package source

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"typebind/internal/analyze"
	"typebind/internal/diagnostic"
	"typebind/meta"
)

// Report lists what the loader skipped or could not interpret.
type Report = diagnostic.Diagnostics

// Option configures Load.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger passed to the loader and the catalog builder.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// ErrStrict is returned by Load in strict mode when the report has warnings.
var ErrStrict = errors.New("source load reported warnings")

// Load describes the packages selected by cfg and builds a catalog from them.
// The report is returned even when the catalog cannot be built.
func Load(cfg *Config, opts ...Option) (*meta.Catalog, Report, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	var c Config
	if cfg != nil {
		c = *cfg
		c.Patterns = slices.Clone(cfg.Patterns)
		c.BuildTags = slices.Clone(cfg.BuildTags)
	}
	cfg = &c

	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, Report{}, err
	}

	a := analyze.NewAnalyzer(
		analyze.WithLogger(o.logger),
		analyze.WithDirective(cfg.Directive),
		analyze.WithDir(cfg.Dir),
		analyze.WithTests(cfg.Tests),
		analyze.WithBuildTags(cfg.BuildTags...),
	)

	decls, err := a.LoadPackages(cfg.Patterns...)
	report := a.Diagnostics()
	if err != nil {
		return nil, report, err
	}

	for _, w := range report.Warnings {
		o.logger.Warn("source loader warning", zap.Stringer("diagnostic", w))
	}

	if cfg.Strict && len(report.Warnings) > 0 {
		return nil, report, fmt.Errorf("%w: %d warning(s)", ErrStrict, len(report.Warnings))
	}

	b := meta.NewBuilder(meta.WithLogger(o.logger))
	for _, d := range decls {
		b.Declare(d)
	}

	cat, err := b.Build()
	if err != nil {
		return nil, report, fmt.Errorf("failed to build catalog: %w", err)
	}

	o.logger.Info("catalog loaded from source",
		zap.Strings("patterns", cfg.Patterns),
		zap.Int("types", cat.Len()),
	)

	return cat, report, nil
}
