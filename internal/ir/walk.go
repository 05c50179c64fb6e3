package ir

// Visitor receives every pool item a File refers to. Walk calls the
// methods once per occurrence, not once per distinct value.
type Visitor interface {
	Type(desc string)
	String(s string)
	Field(definingClass, name, typ string)
	Method(definingClass, name string, params []string, ret string)
}

// NullVisitor ignores everything. Embed it to implement only some methods.
type NullVisitor struct{}

func (NullVisitor) Type(string)                             {}
func (NullVisitor) String(string)                           {}
func (NullVisitor) Field(string, string, string)            {}
func (NullVisitor) Method(string, string, []string, string) {}

// Walk reports every type descriptor, string, field and method that f
// defines or references. Array descriptors are reported as written.
func Walk(f *File, v Visitor) {
	for _, c := range f.Classes {
		walkClass(c, v)
	}
}

func walkClass(c *ClassDef, v Visitor) {
	v.Type(c.Type)
	if c.SuperClass != "" {
		v.Type(c.SuperClass)
	}
	for _, iface := range c.Interfaces {
		v.Type(iface)
	}
	if c.SourceFile != "" {
		v.String(c.SourceFile)
	}
	walkAnnotations(c.Annotations, v)
	for _, f := range c.Fields {
		v.Field(f.DefiningClass, f.Name, f.Type)
		v.Type(f.Type)
		if f.InitialValue != nil {
			walkValue(*f.InitialValue, v)
		}
		walkAnnotations(f.Annotations, v)
	}
	for _, m := range c.Methods {
		walkMethod(m, v)
	}
}

func walkMethod(m *Method, v Visitor) {
	v.Method(m.DefiningClass, m.Name, m.ParameterTypes(), m.ReturnType)
	v.Type(m.ReturnType)
	walkAnnotations(m.Annotations, v)
	for _, p := range m.Parameters {
		v.Type(p.Type)
		if p.Name != "" {
			v.String(p.Name)
		}
		walkAnnotations(p.Annotations, v)
	}
	impl := m.Implementation
	if impl == nil {
		return
	}
	for _, insn := range impl.Instructions {
		if insn.Reference != nil {
			walkReference(insn.Reference, v)
		}
	}
	for _, tb := range impl.TryBlocks {
		for _, h := range tb.Handlers {
			if h.ExceptionType != "" {
				v.Type(h.ExceptionType)
			}
		}
	}
	for _, item := range impl.DebugItems {
		if item.Name != "" {
			v.String(item.Name)
		}
		if item.Type != "" {
			v.Type(item.Type)
		}
		if item.Signature != "" {
			v.String(item.Signature)
		}
	}
}

func walkReference(ref *Reference, v Visitor) {
	switch ref.Kind {
	case StringRef:
		v.String(ref.String)
	case TypeRef:
		v.Type(ref.Type)
	case FieldRef:
		v.Type(ref.DefiningClass)
		v.Type(ref.Type)
		v.Field(ref.DefiningClass, ref.Name, ref.Type)
	case MethodRef:
		v.Type(ref.DefiningClass)
		for _, p := range ref.ParameterTypes {
			v.Type(p)
		}
		v.Type(ref.ReturnType)
		v.Method(ref.DefiningClass, ref.Name, ref.ParameterTypes, ref.ReturnType)
	}
}

func walkAnnotations(annotations []Annotation, v Visitor) {
	for _, a := range annotations {
		walkAnnotation(a, v)
	}
}

func walkAnnotation(a Annotation, v Visitor) {
	v.Type(a.Type)
	for _, el := range a.Elements {
		v.String(el.Name)
		walkValue(el.Value, v)
	}
}

func walkValue(val EncodedValue, v Visitor) {
	switch val.Type {
	case ValueString:
		v.String(val.String)
	case ValueTypeDescriptor:
		v.Type(val.TypeRef)
	case ValueField, ValueEnum, ValueMethod, ValueMethodType, ValueMethodHandle:
		if val.Ref != nil {
			walkReference(val.Ref, v)
		}
	case ValueArray:
		for _, el := range val.Elements {
			walkValue(el, v)
		}
	case ValueAnnotation:
		if val.Annotation != nil {
			walkAnnotation(*val.Annotation, v)
		}
	}
}
