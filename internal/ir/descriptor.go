package ir

import "strings"

// SplitArray strips leading array dimensions from a type descriptor and
// returns the element descriptor and the number of dimensions stripped.
//
//	SplitArray("[[Lfoo/Bar;") == ("Lfoo/Bar;", 2)
func SplitArray(desc string) (elem string, dims int) {
	for dims < len(desc) && desc[dims] == '[' {
		dims++
	}
	return desc[dims:], dims
}

// WrapArray prefixes desc with dims array dimensions.
func WrapArray(desc string, dims int) string {
	if dims == 0 {
		return desc
	}
	return strings.Repeat("[", dims) + desc
}

// IsClassDescriptor reports whether desc names a class ("L...;"), as
// opposed to a primitive or an array.
func IsClassDescriptor(desc string) bool {
	return len(desc) >= 3 && desc[0] == 'L' && desc[len(desc)-1] == ';'
}

// ClassDescriptor builds "L<pkg>/<name>;". An empty package yields a
// class in the default package.
func ClassDescriptor(pkg, name string) string {
	if pkg == "" {
		return "L" + name + ";"
	}
	return "L" + pkg + "/" + name + ";"
}

// SimpleName returns the last path segment of a class descriptor, without
// the L prefix and ; suffix. Non-class descriptors are returned unchanged.
func SimpleName(desc string) string {
	if !IsClassDescriptor(desc) {
		return desc
	}
	inner := desc[1 : len(desc)-1]
	if i := strings.LastIndexByte(inner, '/'); i >= 0 {
		return inner[i+1:]
	}
	return inner
}
