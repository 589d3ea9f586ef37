// Package loader turns parsed declarations into layouts.
//
// Loading is two-phase. All TYPE and DATA_BLOCK names are declared first,
// so declaration order in the source does not matter. Resolve then builds
// each layout depth-first, building every referenced type before the
// member that uses it. A type that reaches itself through its members,
// directly or through other types, is rejected with a cycle error.
//
//	reg, err := loader.LoadSource(src)
//	if err != nil {
//		return err
//	}
//	inst, err := reg.NewInstance("DB1")
//
// Registry implements layout.UDTResolver.
package loader
