// Package ir defines the in-memory class graph that the rewrite engine
// consumes and produces.
//
// The model mirrors the structure of a DEX file after parsing: classes own
// fields and methods, methods own parameters and an optional body, and
// bodies carry instructions, try blocks and debug items. All cross-class
// links are expressed as type descriptors ("Lcom/example/Foo;") rather than
// pointers, so renaming a class is a matter of rewriting descriptors.
//
// Values in this package are treated as immutable once handed to the
// engine. Rewrite rules build new values and never write through the
// pointers they receive.
package ir

// File is a parsed container: an ordered list of class definitions.
// Order is the container's presentation order and is preserved.
type File struct {
	Classes []*ClassDef `yaml:"classes"`
}

// ClassDef is a single class definition.
type ClassDef struct {
	Type        string       `yaml:"type"`
	AccessFlags AccessFlags  `yaml:"access_flags"`
	SuperClass  string       `yaml:"super_class,omitempty"`
	Interfaces  []string     `yaml:"interfaces,omitempty"`
	SourceFile  string       `yaml:"source_file,omitempty"` // empty means absent
	Annotations []Annotation `yaml:"annotations,omitempty"`
	Fields      []*Field     `yaml:"fields,omitempty"`
	Methods     []*Method    `yaml:"methods,omitempty"`
}

// IsAnnotationType reports whether the class is itself an annotation
// definition (@interface).
func (c *ClassDef) IsAnnotationType() bool {
	return c.AccessFlags.Has(AccAnnotation)
}

// Field is a static or instance field.
type Field struct {
	DefiningClass string        `yaml:"defining_class"`
	Name          string        `yaml:"name"`
	Type          string        `yaml:"type"`
	AccessFlags   AccessFlags   `yaml:"access_flags"`
	InitialValue  *EncodedValue `yaml:"initial_value,omitempty"`
	Annotations   []Annotation  `yaml:"annotations,omitempty"`
}

// Method is a direct or virtual method.
type Method struct {
	DefiningClass  string                `yaml:"defining_class"`
	Name           string                `yaml:"name"`
	Parameters     []MethodParameter     `yaml:"parameters,omitempty"`
	ReturnType     string                `yaml:"return_type"`
	AccessFlags    AccessFlags           `yaml:"access_flags"`
	Annotations    []Annotation          `yaml:"annotations,omitempty"`
	Implementation *MethodImplementation `yaml:"implementation,omitempty"`
}

// ParameterTypes returns the descriptor of every parameter in order.
func (m *Method) ParameterTypes() []string {
	types := make([]string, len(m.Parameters))
	for i, p := range m.Parameters {
		types[i] = p.Type
	}
	return types
}

// MethodParameter is one formal parameter. Name is optional debug
// information; empty means absent.
type MethodParameter struct {
	Type        string       `yaml:"type"`
	Name        string       `yaml:"name,omitempty"`
	Annotations []Annotation `yaml:"annotations,omitempty"`
}

// MethodImplementation is a method body.
type MethodImplementation struct {
	RegisterCount int           `yaml:"register_count"`
	Instructions  []Instruction `yaml:"instructions,omitempty"`
	TryBlocks     []TryBlock    `yaml:"try_blocks,omitempty"`
	DebugItems    []DebugItem   `yaml:"debug_items,omitempty"`
}

// TryBlock covers a range of code units with exception handlers.
type TryBlock struct {
	StartAddress  int                `yaml:"start_address"`
	CodeUnitCount int                `yaml:"code_unit_count"`
	Handlers      []ExceptionHandler `yaml:"handlers,omitempty"`
}

// ExceptionHandler catches ExceptionType; an empty type is a catch-all.
type ExceptionHandler struct {
	ExceptionType  string `yaml:"exception_type,omitempty"`
	HandlerAddress int    `yaml:"handler_address"`
}

// DebugItemKind tags the variant held by a DebugItem.
type DebugItemKind string

const (
	DebugLineNumber    DebugItemKind = "line_number"
	DebugStartLocal    DebugItemKind = "start_local"
	DebugEndLocal      DebugItemKind = "end_local"
	DebugRestartLocal  DebugItemKind = "restart_local"
	DebugPrologueEnd   DebugItemKind = "prologue_end"
	DebugEpilogueBegin DebugItemKind = "epilogue_begin"
	DebugSetSourceFile DebugItemKind = "set_source_file"
)

// DebugItem is one entry of a method's debug_info stream.
type DebugItem struct {
	Kind        DebugItemKind `yaml:"kind"`
	CodeAddress int           `yaml:"code_address"`
	Line        int           `yaml:"line,omitempty"`
	Register    int           `yaml:"register,omitempty"`
	Name        string        `yaml:"name,omitempty"`
	Type        string        `yaml:"type,omitempty"`
	Signature   string        `yaml:"signature,omitempty"`
}

// AnnotationVisibility is the retention of an annotation in the container.
type AnnotationVisibility string

const (
	VisibilityBuild   AnnotationVisibility = "build"
	VisibilityRuntime AnnotationVisibility = "runtime"
	VisibilitySystem  AnnotationVisibility = "system"
)

// Annotation is an annotation instance. Type names the annotation's own
// class.
type Annotation struct {
	Visibility AnnotationVisibility `yaml:"visibility"`
	Type       string               `yaml:"type"`
	Elements   []AnnotationElement  `yaml:"elements,omitempty"`
}

// AnnotationElement is a name/value pair inside an annotation.
type AnnotationElement struct {
	Name  string       `yaml:"name"`
	Value EncodedValue `yaml:"value"`
}
