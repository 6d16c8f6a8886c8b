package loader

import "fmt"

// AssetKind names what an asset load was producing.
type AssetKind string

const (
	KindEnvironment AssetKind = "environment"
	KindModel       AssetKind = "model"
)

// AssetLoadError reports an asset that could not be fetched or decoded. The
// scene contribution of a failed load stays absent; nothing retries it.
type AssetLoadError struct {
	Kind AssetKind
	Path string
	Err  error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("load %s %q: %v", e.Kind, e.Path, e.Err)
}

func (e *AssetLoadError) Unwrap() error {
	return e.Err
}
