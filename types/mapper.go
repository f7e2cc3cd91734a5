package types

import (
	"fmt"
)

// DeclaredType is one of the scalar types an annotation may name.
type DeclaredType int

const (
	Integer DeclaredType = iota
	Double
	Boolean

	declaredTypeCount
)

// SignatureTag is the marshalling tag a foreign-call binder uses for one
// parameter or return slot. The zero value is not a valid tag.
type SignatureTag int

const (
	invalidTag SignatureTag = iota
	CInt
	CDouble
	CBool
)

var annotationNames = [declaredTypeCount]string{
	Integer: "int",
	Double:  "float",
	Boolean: "bool",
}

var keywords = [declaredTypeCount]string{
	Integer: "int",
	Double:  "double",
	Boolean: "bool",
}

var signatureTags = [declaredTypeCount]SignatureTag{
	Integer: CInt,
	Double:  CDouble,
	Boolean: CBool,
}

var tagNames = map[SignatureTag]string{
	CInt:    "c_int",
	CDouble: "c_double",
	CBool:   "c_bool",
}

// UnknownAnnotation is returned by NativeType. It is converted into the
// located errors.UnsupportedType by callers that know where the annotation
// appeared.
type UnknownAnnotation struct {
	Name string
}

func (e UnknownAnnotation) Error() string {
	return fmt.Sprintf("annotation '%s' is not one of int, float, bool", e.Name)
}

// NativeType resolves an annotation name.
func NativeType(name string) (DeclaredType, error) {
	for t, n := range annotationNames {
		if n == name {
			return DeclaredType(t), nil
		}
	}
	return 0, UnknownAnnotation{Name: name}
}

// DeclaredTypes lists every declared type in enumeration order.
func DeclaredTypes() []DeclaredType {
	ret := make([]DeclaredType, 0, declaredTypeCount)
	for t := DeclaredType(0); t < declaredTypeCount; t++ {
		ret = append(ret, t)
	}
	return ret
}

func (t DeclaredType) valid() bool {
	return t >= 0 && t < declaredTypeCount
}

// Keyword is the C++ spelling of the type.
func (t DeclaredType) Keyword() string {
	if !t.valid() {
		panic(fmt.Sprintf("declared type %d out of range", int(t)))
	}
	return keywords[t]
}

// SignatureTag maps the type to its marshalling tag.
func (t DeclaredType) SignatureTag() SignatureTag {
	if !t.valid() {
		panic(fmt.Sprintf("declared type %d out of range", int(t)))
	}
	return signatureTags[t]
}

func (t DeclaredType) String() string {
	if !t.valid() {
		return fmt.Sprintf("DeclaredType(%d)", int(t))
	}
	return annotationNames[t]
}

func (t SignatureTag) String() string {
	if n, ok := tagNames[t]; ok {
		return n
	}
	return fmt.Sprintf("SignatureTag(%d)", int(t))
}

// Keyword is the C++ spelling of the tagged slot.
func (t SignatureTag) Keyword() string {
	for dt, tag := range signatureTags {
		if tag == t {
			return keywords[dt]
		}
	}
	return ""
}

func (t SignatureTag) MarshalText() ([]byte, error) {
	n, ok := tagNames[t]
	if !ok {
		return nil, fmt.Errorf("cannot marshal invalid signature tag %d", int(t))
	}
	return []byte(n), nil
}

func (t *SignatureTag) UnmarshalText(text []byte) error {
	for tag, n := range tagNames {
		if n == string(text) {
			*t = tag
			return nil
		}
	}
	return fmt.Errorf("unknown signature tag '%s'", text)
}

// Signature describes how to call one generated routine. The JSON names
// follow ctypes' argtypes/restype attributes.
type Signature struct {
	Params  []SignatureTag `json:"argtypes"`
	Returns SignatureTag   `json:"restype"`
}

func (s Signature) Equal(o Signature) bool {
	if s.Returns != o.Returns || len(s.Params) != len(o.Params) {
		return false
	}
	for i := range s.Params {
		if s.Params[i] != o.Params[i] {
			return false
		}
	}
	return true
}

func (s Signature) String() string {
	return fmt.Sprintf("%v -> %s", s.Params, s.Returns)
}

// SignatureTable maps exported function names to their signatures.
type SignatureTable map[string]Signature
