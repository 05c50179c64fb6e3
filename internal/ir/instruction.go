package ir

// Format is a DEX instruction format id, e.g. "21c" or "35c". The first
// digit is the width in 16-bit code units.
type Format string

const (
	Format10x  Format = "10x"
	Format11n  Format = "11n"
	Format11x  Format = "11x"
	Format12x  Format = "12x"
	Format10t  Format = "10t"
	Format20t  Format = "20t"
	Format21c  Format = "21c"
	Format21s  Format = "21s"
	Format21t  Format = "21t"
	Format22b  Format = "22b"
	Format22c  Format = "22c"
	Format22s  Format = "22s"
	Format22t  Format = "22t"
	Format22x  Format = "22x"
	Format23x  Format = "23x"
	Format31c  Format = "31c"
	Format31i  Format = "31i"
	Format31t  Format = "31t"
	Format32x  Format = "32x"
	Format35c  Format = "35c"
	Format3rc  Format = "3rc"
	Format45cc Format = "45cc"
	Format4rcc Format = "4rcc"
	Format51l  Format = "51l"
)

// HasReference reports whether instructions of this format carry a
// reference into one of the constant pools.
func (f Format) HasReference() bool {
	switch f {
	case Format21c, Format22c, Format31c, Format35c, Format3rc, Format45cc, Format4rcc:
		return true
	}
	return false
}

// Instruction is a single bytecode instruction. Reference is nil unless
// Format.HasReference() is true.
type Instruction struct {
	Opcode     string     `yaml:"opcode"`
	Format     Format     `yaml:"format"`
	Registers  []int      `yaml:"registers,omitempty"`
	Literal    int64      `yaml:"literal,omitempty"`
	CodeOffset int        `yaml:"code_offset,omitempty"`
	Reference  *Reference `yaml:"reference,omitempty"`
}

// ReferenceKind tags the variant held by a Reference.
type ReferenceKind string

const (
	StringRef ReferenceKind = "string"
	TypeRef   ReferenceKind = "type"
	FieldRef  ReferenceKind = "field"
	MethodRef ReferenceKind = "method"
)

// Reference is an item of the string, type, field or method pool. Only the
// attributes of the tagged Kind are meaningful:
//
//	string: String
//	type:   Type
//	field:  DefiningClass, Name, Type
//	method: DefiningClass, Name, ParameterTypes, ReturnType
type Reference struct {
	Kind           ReferenceKind `yaml:"kind"`
	String         string        `yaml:"string,omitempty"`
	Type           string        `yaml:"type,omitempty"`
	DefiningClass  string        `yaml:"defining_class,omitempty"`
	Name           string        `yaml:"name,omitempty"`
	ParameterTypes []string      `yaml:"parameter_types,omitempty"`
	ReturnType     string        `yaml:"return_type,omitempty"`
}

// NewStringReference returns a string pool reference.
func NewStringReference(s string) *Reference {
	return &Reference{Kind: StringRef, String: s}
}
