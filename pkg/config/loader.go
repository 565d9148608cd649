package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Option configures the loader
type Option func(*loader)

type loader struct {
	fs        afero.Fs
	userFiles []string
	explicit  string
	home      string
}

// WithFs sets the file system used to look for config files
func WithFs(fs afero.Fs) Option {
	return func(l *loader) {
		if fs != nil {
			l.fs = fs
		}
	}
}

// WithUserFiles overrides the candidate user config files
func WithUserFiles(files ...string) Option {
	return func(l *loader) {
		l.userFiles = files
	}
}

// WithFile adds an explicit config file, applied over the user file.
// It must exist.
func WithFile(file string) Option {
	return func(l *loader) {
		l.explicit = file
	}
}

// WithHome sets the home directory used to expand filenames
func WithHome(home string) Option {
	return func(l *loader) {
		l.home = home
	}
}

// Load reads and validates the configuration
func Load(opts ...Option) (*Config, error) {
	l := &loader{
		fs:        afero.NewOsFs(),
		userFiles: UserFiles(),
		explicit:  os.Getenv(EnvConfigFile),
		home:      homeDir(),
	}
	for _, apply := range opts {
		apply(l)
	}

	v := newViper(l.fs)

	var source string
	for _, file := range l.userFiles {
		file = ExpandUser(file, l.home)
		ok, err := afero.Exists(l.fs, file)
		if err != nil {
			return nil, fmt.Errorf("looking for config file %s: %w", file, err)
		}
		if !ok {
			continue
		}
		if err := mergeFile(v, file); err != nil {
			return nil, err
		}
		source = file
		break
	}

	if l.explicit != "" {
		file := ExpandUser(l.explicit, l.home)
		if err := mergeFile(v, file); err != nil {
			return nil, err
		}
		source = file
	}

	if err := validate(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, ErrInvalid.Wrap(err)
	}
	cfg.FeatureFlags.Variables = cast.ToBool(v.Get(KeyFeatureFlagsVariables))
	cfg.APITokensFilename = ExpandUser(cfg.APITokensFilename, l.home)
	cfg.VariablesCacheFilename = ExpandUser(cfg.VariablesCacheFilename, l.home)
	cfg.AutoInstallVariablesFilename = ExpandUser(cfg.AutoInstallVariablesFilename, l.home)
	cfg.source = source

	return &cfg, nil
}

func mergeFile(v *viper.Viper, file string) error {
	v.SetConfigFile(file)
	if err := v.MergeInConfig(); err != nil {
		return ErrRead.Wrap(fmt.Errorf("%s: %w", file, err))
	}
	return nil
}

func validate(v *viper.Viper) error {
	var problems []string
	for _, key := range stringKeys {
		if _, ok := v.Get(key).(string); !ok {
			problems = append(problems, fmt.Sprintf("%s: must be a string, got %T", key, v.Get(key)))
		}
	}
	if _, err := cast.ToBoolE(v.Get(KeyFeatureFlagsVariables)); err != nil {
		problems = append(problems, fmt.Sprintf("%s: must be a boolean", KeyFeatureFlagsVariables))
	}
	if rps, err := cast.ToFloat64E(v.Get(KeyMaxRequestsPerSecond)); err != nil || rps < 0 {
		problems = append(problems, fmt.Sprintf("%s: must be a positive number", KeyMaxRequestsPerSecond))
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return &ValidationError{Problems: problems}
	}
	return nil
}

// ValidationError reports all invalid keys at once
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return ErrInvalid.Message() + ":\n  " + strings.Join(e.Problems, "\n  ")
}

// Unwrap to ErrInvalid
func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}
