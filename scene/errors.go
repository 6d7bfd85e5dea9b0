package scene

import (
	"errors"
	"fmt"
)

// ErrNoScene is returned when no scene file was given or found.
var ErrNoScene = errors.New("no scene file")

// SceneError describes a scene document that cannot be turned into a stack.
type SceneError struct {
	Path   string
	Reason string
}

func (e *SceneError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid scene: %s", e.Reason)
	}
	return fmt.Sprintf("invalid scene %s: %s", e.Path, e.Reason)
}

func invalid(format string, args ...any) error {
	return &SceneError{Reason: fmt.Sprintf(format, args...)}
}
