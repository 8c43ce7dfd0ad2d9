package types

import "errors"

// Config holds the resolved runtime settings for a packrat store.
type Config struct {
	DataDir  string `json:"data_dir" yaml:"data_dir"`
	ImageDir string `json:"image_dir" yaml:"image_dir"`
	LogLevel string `json:"log_level" yaml:"log_level"`
	LogFile  string `json:"log_file" yaml:"log_file"`
}

// Config validation errors.
var (
	ErrDataDirEmpty  = errors.New("data_dir must not be empty")
	ErrImageDirEmpty = errors.New("image_dir must not be empty")
)

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return ErrDataDirEmpty
	}
	if c.ImageDir == "" {
		return ErrImageDirEmpty
	}
	return nil
}
