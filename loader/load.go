package loader

import (
	"go.uber.org/zap"

	"github.com/wippyai/plcmem/decl"
)

// Load declares and resolves every declaration of f.
func Load(f *decl.File) (*Registry, error) {
	r := NewRegistry()
	if err := r.Declare(f); err != nil {
		return nil, err
	}
	if err := r.Resolve(); err != nil {
		return nil, err
	}

	Logger().Debug("declarations loaded",
		zap.Int("types", len(r.typeOrder)),
		zap.Int("blocks", len(r.blockOrder)))

	return r, nil
}

// LoadSource parses and loads declaration source.
func LoadSource(src string) (*Registry, error) {
	f, err := decl.Parse("", src)
	if err != nil {
		return nil, err
	}
	return Load(f)
}

// LoadFile parses and loads the declaration file at path.
func LoadFile(path string) (*Registry, error) {
	f, err := decl.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return Load(f)
}
