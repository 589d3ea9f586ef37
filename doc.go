// Package plcmem provides a structured memory-layout engine for a soft-PLC.
//
// The engine models how an industrial controller packs compound data into
// byte-addressable data blocks: field offsets with byte and bit granularity,
// word alignment, bitfield packing, nested structures, arrays and user-defined
// types. Each layout can back any number of instances holding the actual bytes.
//
// # Architecture Overview
//
//	plcmem/          Root package with the bit-addressable Memory interface
//	├── layout/      Offsets, data types, fields and the struct layout builder
//	├── memory/      Memory implementations (byte buffer, wazero linear memory)
//	├── instance/    Struct instances with raw and typed field access
//	├── loader/      Two-phase UDT and data block registry
//	├── decl/        Declaration source parser (TYPE / DATA_BLOCK)
//	├── errors/      Structured error types
//	└── cmd/         plclayout command line tool
//
// # Quick Start
//
// Build a layout by hand:
//
//	b := layout.NewBuilder(nil)
//	b.AddField("x", layout.Bool, nil)
//	b.AddField("y", layout.Bool, nil)
//	b.AddField("z", layout.Byte, nil)
//	s := b.Finish() // x at 0.0, y at 0.1, z at 1.0, Size() == 2
//
//	inst, err := instance.New(s)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = inst.SetValueByName("z", uint8(42))
//
// Or load it from declaration source:
//
//	reg, err := loader.LoadSource(src)
//	inst, err := reg.NewInstance("DB1")
//
// # Layout Rules
//
//   - Fields are appended in declaration order and never relocated.
//   - Consecutive BOOL fields share a byte (up to eight).
//   - Word-sized and compound types start on even byte offsets when added
//     with natural alignment.
//   - A struct always ends on an even byte offset.
//
// # Thread Safety
//
// A finished layout.Struct is immutable and safe for concurrent use.
// Builders and instances are NOT thread-safe; access must be synchronized.
package plcmem
