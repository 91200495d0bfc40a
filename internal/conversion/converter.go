package conversion

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ErrUnavailable is returned when the assimp binary cannot be found.
var ErrUnavailable = errors.New("model converter is not available")

// Converter turns FBX, OBJ, DAE, STL and glTF models into binary glTF using
// the Assimp command line tool.
type Converter struct {
	Binary string
}

func New(binary string) *Converter {
	if binary == "" {
		binary = "assimp"
	}
	return &Converter{Binary: binary}
}

// Available reports whether the converter binary can be executed.
func (c *Converter) Available() bool {
	_, err := exec.LookPath(c.Binary)
	return err == nil
}

// ConvertToGLB converts a 3D model file to GLB format next to the input and
// returns the path to the new file. GLB inputs are returned unchanged.
func (c *Converter) ConvertToGLB(ctx context.Context, inputPath string) (string, error) {
	ext := filepath.Ext(inputPath)
	if strings.EqualFold(ext, ".glb") {
		return inputPath, nil
	}
	if !c.Available() {
		return "", ErrUnavailable
	}
	outputPath := strings.TrimSuffix(inputPath, ext) + ".glb"

	// Embed textures so the GLB is self-contained.
	cmd := exec.CommandContext(ctx, c.Binary, "export", inputPath, outputPath, "-fglb2", "-embtex")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", errors.Wrapf(err, "assimp export: %s", msg)
		}
		return "", errors.Wrap(err, "assimp export")
	}
	return outputPath, nil
}
