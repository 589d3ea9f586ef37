// Package instance backs a finished layout with storage.
//
// An Instance pairs an immutable *layout.Struct with a plcmem.Memory sized
// for it. Creation writes every field's initial value; afterwards fields are
// read and written either as raw bytes or as Go values through the
// big-endian controller codec:
//
//	inst, err := instance.New(db, instance.WithName("DB1"))
//	if err != nil {
//		return err
//	}
//	if err := inst.SetValueByName("m.speed", int16(1500)); err != nil {
//		return err
//	}
//	speed, err := inst.ValueByName("m.speed")
//
// Raw access passes a field's bytes unchanged; single bits travel as
// []byte{0} or []byte{1}. Every accessor has an ...At variant that adds a
// base offset, for fields of a struct embedded elsewhere in the memory.
//
// # Codec
//
//	BOOL                          bool
//	BYTE, CHAR                    uint8
//	WORD, S5TIME, BLOCK_*         uint16
//	COUNTER, TIMER                uint16
//	INT                           int16
//	DWORD                         uint32
//	DINT                          int32
//	REAL                          float32
//	TIME, TIME_OF_DAY             time.Duration (milliseconds)
//	DATE                          time.Time (days since 1990-01-01)
//	DATE_AND_TIME                 time.Time (BCD)
//	STRING[n]                     string
//	ARRAY of primitives           []any
//	POINTER, ANY, STRUCT, UDT     []byte
//
// Instances are not synchronized.
package instance
