package loader

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"
	"time"

	"RealisticRender/internal/logger"
	"RealisticRender/internal/scene"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"
)

// faceWorkers bounds the goroutines decoding cube faces.
const faceWorkers = 3

// LoadEnvironment decodes the six faces of a cube map, ordered +X, -X, +Y,
// -Y, +Z, -Z. Paths are resolved under root. Every face must be square and
// all faces must share one size.
func LoadEnvironment(root string, paths [6]string) (*scene.EnvironmentTexture, error) {
	var (
		faces [6]*image.RGBA
		errs  [6]error
		wg    sync.WaitGroup
	)
	pool := worker.NewDynamicWorkerPool(faceWorkers, len(paths), 100*time.Millisecond)
	for i, p := range paths {
		full := resolve(root, p)
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				faces[i], errs[i] = decodeFile(full)
				return nil, errs[i]
			},
		})
	}
	wg.Wait()

	env := &scene.EnvironmentTexture{Encoding: scene.SRGBEncoding}
	for i, img := range faces {
		face, full := scene.CubeFace(i), resolve(root, paths[i])
		if errs[i] != nil {
			return nil, &AssetLoadError{Kind: KindEnvironment, Path: full, Err: errs[i]}
		}
		w, h := img.Rect.Dx(), img.Rect.Dy()
		if w != h {
			return nil, &AssetLoadError{Kind: KindEnvironment, Path: full,
				Err: fmt.Errorf("face %s is %dx%d, want square", face, w, h)}
		}
		if i == 0 {
			env.Size = w
		} else if w != env.Size {
			return nil, &AssetLoadError{Kind: KindEnvironment, Path: full,
				Err: fmt.Errorf("face %s is %d pixels, want %d", face, w, env.Size)}
		}
		env.Faces[i] = img
	}
	logger.Log.Info("Environment loaded", zap.String("root", root), zap.Int("faceSize", env.Size))
	return env, nil
}

// resolve joins an asset path under root. Asset paths are written rooted
// ("/models/x.glb") the way a web server would serve them.
func resolve(root, p string) string {
	return filepath.Join(root, filepath.FromSlash(p))
}

func decodeFile(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return toRGBA(img), nil
}

// toRGBA returns img as tightly packed RGBA with its origin at (0, 0).
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == 4*rgba.Rect.Dx() {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)
	return rgba
}
