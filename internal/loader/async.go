package loader

import (
	"errors"
	"fmt"
	"path"

	"RealisticRender/internal/logger"
	"RealisticRender/internal/scene"

	"go.uber.org/zap"
)

// Poster accepts completion events for the frame-loop thread. Post must be
// safe to call from any goroutine.
type Poster interface {
	Post(event func())
}

// EnvironmentFunc and ModelFunc load one asset synchronously. LoadEnvironment
// and LoadModel are the production implementations.
type (
	EnvironmentFunc func(root string, paths [6]string) (*scene.EnvironmentTexture, error)
	ModelFunc       func(root, path string) (*scene.Subtree, error)
)

// Async runs load on its own goroutine and posts done with the result, so
// that done always runs on the thread that drains q. A load that panics is
// reported as an AssetLoadError of the given kind and path. Failures are
// logged before done sees them.
func Async[T any](q Poster, kind AssetKind, path string, load func() (T, error), done func(T, error)) {
	go func() {
		v, err := guard(kind, path, load)
		if err != nil {
			var ae *AssetLoadError
			if errors.As(err, &ae) {
				logger.Log.Warn("Asset load failed",
					zap.String("kind", string(ae.Kind)),
					zap.String("path", ae.Path),
					zap.Error(ae.Err))
			} else {
				logger.Log.Warn("Asset load failed", zap.Error(err))
			}
		}
		q.Post(func() { done(v, err) })
	}()
}

func guard[T any](kind AssetKind, path string, load func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			v, err = zero, &AssetLoadError{Kind: kind, Path: path, Err: fmt.Errorf("loader panicked: %v", r)}
		}
	}()
	return load()
}

// LoadEnvironmentAsync loads a cube map in the background with load, or
// LoadEnvironment when load is nil, and posts the result.
func LoadEnvironmentAsync(q Poster, load EnvironmentFunc, root string, paths [6]string, done func(*scene.EnvironmentTexture, error)) {
	if load == nil {
		load = LoadEnvironment
	}
	Async(q, KindEnvironment, resolve(root, path.Dir(paths[0])),
		func() (*scene.EnvironmentTexture, error) { return load(root, paths) }, done)
}

// LoadModelAsync loads a glTF model in the background with load, or
// LoadModel when load is nil, and posts the result.
func LoadModelAsync(q Poster, load ModelFunc, root, file string, done func(*scene.Subtree, error)) {
	if load == nil {
		load = LoadModel
	}
	Async(q, KindModel, resolve(root, file),
		func() (*scene.Subtree, error) { return load(root, file) }, done)
}
