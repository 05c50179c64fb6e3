package container

import (
	"strings"

	"github.com/whit3rabbit/dexmixer/internal/ir"
)

// PoolSizes counts the distinct items each index pool of an encoded file
// would hold.
type PoolSizes struct {
	Strings int
	Types   int
	Fields  int
	Methods int
}

type poolCounter struct {
	strings map[string]struct{}
	types   map[string]struct{}
	fields  map[string]struct{}
	methods map[string]struct{}
}

// CountPools walks f and sizes its string, type, field and method pools.
func CountPools(f *ir.File) PoolSizes {
	pc := &poolCounter{
		strings: make(map[string]struct{}),
		types:   make(map[string]struct{}),
		fields:  make(map[string]struct{}),
		methods: make(map[string]struct{}),
	}
	ir.Walk(f, pc)
	return PoolSizes{
		Strings: len(pc.strings),
		Types:   len(pc.types),
		Fields:  len(pc.fields),
		Methods: len(pc.methods),
	}
}

func (pc *poolCounter) Type(desc string) {
	pc.types[desc] = struct{}{}
	// Descriptors are also interned as strings.
	pc.strings[desc] = struct{}{}
}

func (pc *poolCounter) String(s string) {
	pc.strings[s] = struct{}{}
}

func (pc *poolCounter) Field(definingClass, name, typ string) {
	pc.fields[definingClass+"->"+name+":"+typ] = struct{}{}
	pc.strings[name] = struct{}{}
}

func (pc *poolCounter) Method(definingClass, name string, params []string, ret string) {
	pc.methods[definingClass+"->"+name+"("+strings.Join(params, "")+")"+ret] = struct{}{}
	pc.strings[name] = struct{}{}
}
