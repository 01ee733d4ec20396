package board

import (
	"errors"
	"fmt"
)

var (
	ErrConfig      = errors.New("invalid board configuration")
	ErrOutOfBounds = errors.New("coordinates out of bounds")
	ErrNotReady    = errors.New("board has not been set up")
)

type ConfigError struct {
	message string
}

// [ConfigError] implements [error]
func (e *ConfigError) Error() string {
	return ErrConfig.Error() + ": " + e.message
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{message: fmt.Sprintf(format, args...)}
}

type OutOfBoundsError struct {
	Pos        Coord
	Rows, Cols int
}

// [OutOfBoundsError] implements [error]
func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("%s: %s not in %dx%d", ErrOutOfBounds, e.Pos, e.Rows, e.Cols)
}

func (e *OutOfBoundsError) Is(target error) bool {
	return target == ErrOutOfBounds
}
