// Package layout computes how structured PLC data is packed into a data block.
//
// A layout is built field by field with a Builder and frozen into an immutable
// Struct. Field positions are Offsets with byte and bit granularity.
//
// # Layout Rules
//
//   - Primitives are placed at the current end of the struct.
//   - A BOOL following a BOOL packs into the next bit of the same byte,
//     until the byte is full.
//   - STRUCT and UDT fields are merged: a descriptor field names the region,
//     the child fields follow with dotted names ("sub.a"), and a zero-width
//     guard field closes the region.
//   - ARRAY fields expand into one field per element ("arr[1,2]") in
//     row-major order, framed by a descriptor and a guard.
//   - Descriptor fields alias a private zero-width VOID field, so they never
//     contribute to the struct size.
//   - Struct size is the end of the last field rounded up to an even byte.
//
// # Usage
//
//	b := layout.NewBuilder(nil)
//	b.AddFieldNaturallyAligned("speed", layout.Int, nil)
//	b.AddFieldNaturallyAligned("on", layout.Bool, nil)
//	s := b.Finish()
//	f, _ := s.Field("on") // f.Offset() == 2.0
package layout
