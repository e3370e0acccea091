package engine

import (
	"path/filepath"
	"strings"

	"github.com/iamNilotpal/ignite/pkg/errors"
	"github.com/iamNilotpal/ignite/pkg/filesys"
	"github.com/iamNilotpal/ignite/pkg/options"
)

// markerFileName is the on-disk engine-selection marker: its entire
// contents are the engine name the store was first started with.
const markerFileName = ".engine_flag"

// newEngineMismatchError builds the ErrorCodeEngineMismatch error returned
// for a marker-file mismatch at startup.
func newEngineMismatchError(want, got string) error {
	return errors.NewEngineError(
		nil, errors.ErrorCodeEngineMismatch, "configured engine does not match on-disk marker",
	).WithOperation("CheckMarker").WithDetail("configured", want).WithDetail("onDisk", got)
}

// CheckMarker verifies that opts.DataDir's engine-selection marker matches
// opts.EngineName, writing the marker on first use. A server must call
// this before binding its listener and refuse to start if it fails.
func CheckMarker(opts *options.Options) error {
	path := markerPath(opts)

	exists, err := filesys.Exists(path)
	if err != nil {
		return errors.NewEngineError(err, errors.ErrorCodeIO, "failed to stat engine marker").WithOperation("CheckMarker")
	}

	if !exists {
		if err := filesys.CreateDir(opts.DataDir, 0755, true); err != nil {
			return errors.ClassifyDirectoryCreationError(err, opts.DataDir)
		}
		if err := filesys.WriteFile(path, 0644, []byte(opts.EngineName)); err != nil {
			return errors.NewEngineError(err, errors.ErrorCodeIO, "failed to write engine marker").WithOperation("CheckMarker")
		}
		return nil
	}

	raw, err := filesys.ReadFile(path)
	if err != nil {
		return errors.NewEngineError(err, errors.ErrorCodeIO, "failed to read engine marker").WithOperation("CheckMarker")
	}

	onDisk := strings.TrimSpace(string(raw))
	if onDisk != opts.EngineName {
		return newEngineMismatchError(opts.EngineName, onDisk)
	}
	return nil
}

func markerPath(opts *options.Options) string {
	return filepath.Join(opts.DataDir, markerFileName)
}
