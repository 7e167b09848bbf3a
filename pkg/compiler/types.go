package compiler

import "sort"

// Type is a name from the closed type vocabulary.
type Type string

const (
	TypeInt    Type = "int"
	TypeFloat  Type = "float"
	TypeChar   Type = "char"
	TypeVoid   Type = "void"
	TypeString Type = "string"

	// TypeIntPtr only appears as a parameter annotation. Any int actual
	// satisfies it; see Signature.Accepts.
	TypeIntPtr Type = "int*"
)

// typeKeywords maps declaration keywords to the type they name.
var typeKeywords = map[TokenType]Type{
	INT:   TypeInt,
	FLOAT: TypeFloat,
	CHAR:  TypeChar,
	VOID:  TypeVoid,
}

// Signature describes a callable in the function registry.
type Signature struct {
	Params []Type
	Return Type
}

// Accepts reports whether an argument of type actual may be passed where
// expected is declared.
func (Signature) Accepts(expected, actual Type) bool {
	if expected == TypeIntPtr {
		return actual == TypeInt
	}
	return expected == actual
}

// builtins is the fixed registry. It is never written after initialisation.
var builtins = map[string]Signature{
	"printf": {Params: []Type{TypeString}, Return: TypeInt},
	"scanf":  {Params: []Type{TypeString, TypeIntPtr}, Return: TypeInt},
	"main":   {Params: nil, Return: TypeInt},
}

// LookupFunction returns the registry entry for name. The returned Params
// slice is a copy.
func LookupFunction(name string) (Signature, bool) {
	sig, ok := builtins[name]
	if !ok {
		return Signature{}, false
	}
	sig.Params = append([]Type(nil), sig.Params...)
	return sig, true
}

// Functions lists the registered function names in sorted order.
func Functions() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
