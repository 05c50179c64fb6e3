package ir

// ValueType tags the variant held by an EncodedValue.
type ValueType string

const (
	ValueByte           ValueType = "byte"
	ValueShort          ValueType = "short"
	ValueChar           ValueType = "char"
	ValueInt            ValueType = "int"
	ValueLong           ValueType = "long"
	ValueFloat          ValueType = "float"
	ValueDouble         ValueType = "double"
	ValueMethodType     ValueType = "method_type"
	ValueMethodHandle   ValueType = "method_handle"
	ValueString         ValueType = "string"
	ValueTypeDescriptor ValueType = "type"
	ValueField          ValueType = "field"
	ValueMethod         ValueType = "method"
	ValueEnum           ValueType = "enum"
	ValueArray          ValueType = "array"
	ValueAnnotation     ValueType = "annotation"
	ValueNull           ValueType = "null"
	ValueBoolean        ValueType = "boolean"
)

// EncodedValue is a constant as found in static initial values and
// annotation elements. Which attributes are meaningful depends on Type:
//
//	byte, short, char, int, long: Int
//	float, double:                Float
//	boolean:                      Bool
//	string:                       String
//	type:                         TypeRef
//	field, enum, method, method_type, method_handle: Ref
//	array:                        Elements
//	annotation:                   Annotation (Visibility unused)
type EncodedValue struct {
	Type       ValueType      `yaml:"type"`
	Int        int64          `yaml:"int,omitempty"`
	Float      float64        `yaml:"float,omitempty"`
	Bool       bool           `yaml:"bool,omitempty"`
	String     string         `yaml:"string,omitempty"`
	TypeRef    string         `yaml:"type_ref,omitempty"`
	Ref        *Reference     `yaml:"ref,omitempty"`
	Elements   []EncodedValue `yaml:"elements,omitempty"`
	Annotation *Annotation    `yaml:"annotation,omitempty"`
}

// StringValue returns an encoded string constant.
func StringValue(s string) EncodedValue {
	return EncodedValue{Type: ValueString, String: s}
}
