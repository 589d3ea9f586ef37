package memory

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/plcmem/errors"
)

const pageSize = 65536

// LinearConfig holds configuration for linear memory creation
type LinearConfig struct {
	// MemoryLimitPages sets the maximum memory in pages (64KB each).
	// 0 means the wazero default (65536 pages = 4GB).
	MemoryLimitPages uint32
}

// Linear is a plcmem.Memory stored in a WebAssembly linear memory.
//
// It owns a wazero runtime hosting a module that only exports its memory.
// Accesses are limited to the requested size even though the memory itself
// is allocated in whole pages.
type Linear struct {
	runtime wazero.Runtime
	module  api.Module
	mem     api.Memory
	size    uint32
}

// NewLinear creates a linear memory large enough for size bytes.
func NewLinear(ctx context.Context, size uint32, cfg *LinearConfig) (*Linear, error) {
	pages := (uint64(size) + pageSize - 1) / pageSize
	if pages == 0 {
		pages = 1
	}

	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg != nil && cfg.MemoryLimitPages > 0 {
		if pages > uint64(cfg.MemoryLimitPages) {
			return nil, errors.New(errors.PhaseMemory, errors.KindOutOfRange).
				Value(pages).
				Detail("%d bytes need %d pages, limit is %d", size, pages, cfg.MemoryLimitPages).
				Build()
		}
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}

	rt := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)
	mod, err := rt.Instantiate(ctx, memoryModule(uint32(pages)))
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Wrap(errors.PhaseMemory, errors.KindInvalidInput, err, "instantiate memory module")
	}

	mem := mod.ExportedMemory("memory")
	if mem == nil {
		_ = rt.Close(ctx)
		return nil, errors.InvalidInput(errors.PhaseMemory, "memory module has no exported memory")
	}

	return &Linear{runtime: rt, module: mod, mem: mem, size: size}, nil
}

// Memory returns the wazero memory for sharing with guest modules.
func (l *Linear) Memory() api.Memory {
	return l.mem
}

// Close releases the wazero runtime.
func (l *Linear) Close(ctx context.Context) error {
	return l.runtime.Close(ctx)
}

func (l *Linear) Size() uint32 {
	return l.size
}

func (l *Linear) Fetch(byteOffset uint32, bitOffset uint8, bits int) ([]byte, error) {
	return fetch(l, byteOffset, bitOffset, bits)
}

func (l *Linear) Store(byteOffset uint32, bitOffset uint8, bits int, data []byte) error {
	return store(l, byteOffset, bitOffset, bits, data)
}

func (l *Linear) read(offset, length uint32) ([]byte, bool) {
	if uint64(offset)+uint64(length) > uint64(l.size) {
		return nil, false
	}
	return l.mem.Read(offset, length)
}

func (l *Linear) write(offset uint32, data []byte) bool {
	if uint64(offset)+uint64(len(data)) > uint64(l.size) {
		return false
	}
	return l.mem.Write(offset, data)
}

func (l *Linear) String() string {
	return fmt.Sprintf("linear(%d bytes, %d pages)", l.size, l.mem.Size()/pageSize)
}

// memoryModule encodes a module that defines and exports one memory of
// minPages pages.
func memoryModule(minPages uint32) []byte {
	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

	// memory section: one memory, limits without maximum
	limits := append([]byte{0x01, 0x00}, appendLEB128u(nil, minPages)...)
	out = append(out, 0x05)
	out = appendLEB128u(out, uint32(len(limits)))
	out = append(out, limits...)

	// export section: "memory" -> memory 0
	export := []byte{0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00}
	out = append(out, 0x07)
	out = appendLEB128u(out, uint32(len(export)))
	out = append(out, export...)

	return out
}

func appendLEB128u(dst []byte, v uint32) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		dst = append(dst, b)
		if v == 0 {
			return dst
		}
	}
}
