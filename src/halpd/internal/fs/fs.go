package fs

import (
	"os"

	"go.uber.org/fx"
)

//go:generate mockgen -source=fs.go -destination=fsmock/fs_mock.go -package=fsmock

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// HalpdFS wraps the filesystem operations used by halpd.
type HalpdFS interface {
	MkdirAll(path string) error
}

type fsImpl struct{}

// New creates a new HalpdFS.
func New() HalpdFS {
	return fsImpl{}
}

// MkdirAll creates a directory and all its parents.
func (fsImpl) MkdirAll(path string) error { return os.MkdirAll(path, os.ModePerm) }
