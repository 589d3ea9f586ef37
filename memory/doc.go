// Package memory provides implementations of plcmem.Memory.
//
// # Buffer
//
// A plain Go byte slice, the default storage of an instance:
//
//	mem := memory.NewBuffer(s.Size())
//
// # Linear
//
// A WebAssembly linear memory hosted by wazero, for data blocks that are
// shared with a guest module:
//
//	mem, err := memory.NewLinear(ctx, s.Size(), nil)
//	defer mem.Close(ctx)
//	inst, err := instance.New(s, instance.WithMemory(mem))
//
// Both implementations share the same bit-addressing rules: 1-bit accesses
// transfer bit 0 of a single byte, wider accesses must be byte aligned and a
// multiple of 8 bits.
package memory
