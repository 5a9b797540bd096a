// Package configload parses configuration files into typed values at the
// edge of a program.  Load reads, decodes, and optionally validates in one
// step, returning a Result: downstream code receives a trusted T and never
// re-validates, or a Failure classifying exactly what went wrong — a missing
// file is NOT_FOUND, a file that cannot be parsed or decoded is VALIDATION.
package configload

import (
	"errors"
	"io/fs"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/abevier/outcome/apperrors"
	"github.com/abevier/outcome/results"
)

// A ValidateFunction checks a decoded config value against rules the file
// format cannot express.  Returning nil accepts the value; returning an
// AppError rejects it and becomes the Load failure as-is, kind included.
type ValidateFunction[T any] func(cfg T) *apperrors.AppError

// Load reads the config file at path, decodes it into a T, and runs the
// optional validate hook.  Field names bind via mapstructure tags; duration
// fields accept strings like "30s".
func Load[T any](path string, validate ValidateFunction[T]) results.Result[T, *apperrors.AppError] {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return results.Failure[T](classifyReadError(path, err))
	}

	var cfg T
	err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		e := apperrors.Wrap(apperrors.Validation, "config file does not match the expected shape", err).
			With("path", path)
		return results.Failure[T](e)
	}

	if validate != nil {
		if e := validate(cfg); e != nil {
			return results.Failure[T](e)
		}
	}

	return results.Success[T, *apperrors.AppError](cfg)
}

func classifyReadError(path string, err error) *apperrors.AppError {
	var notFound viper.ConfigFileNotFoundError
	if errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound) {
		return apperrors.Wrap(apperrors.NotFound, "config file not found", err).
			With("path", path)
	}

	var parseErr viper.ConfigParseError
	if errors.As(err, &parseErr) {
		return apperrors.Wrap(apperrors.Validation, "config file is not parseable", err).
			With("path", path)
	}

	var unsupported viper.UnsupportedConfigError
	if errors.As(err, &unsupported) {
		return apperrors.Wrap(apperrors.Validation, "config file format is not supported", err).
			With("path", path)
	}

	return apperrors.Wrap(apperrors.Internal, "config file could not be read", err).
		With("path", path)
}
