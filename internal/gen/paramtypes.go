package gen

import "fmt"

// paramKind describes how a declared parameter type expression
// translates into generated Go: the Go type to use for the struct
// field, and the expression that parses a captured path segment's text
// into a value of that type.
//
// Rust resolves `.parse()` generically via the FromStr trait at compile
// time from the field's declared type; Go has no such mechanism without
// reflection, so the equivalent resolution happens here, at codegen
// time, from the type's textual name. A small table covers the builtin
// types this spec's examples exercise; anything else is assumed to be a
// type the caller brought into scope via a Header, with a matching
// `Parse<Type>` function alongside it — the same convention a header
// `use`-line stands in for in the original.
type paramKind struct {
	GoType     string
	ParseExpr  string // a Go expression reading the local `text string`
	NeverFails bool   // true if ParseExpr cannot fail (plain expression, not a call)

	NeedsStrconv bool
	NeedsUUID    bool
}

var builtinParamTypes = map[string]paramKind{
	"string": {GoType: "string", ParseExpr: "text", NeverFails: true},
	"String": {GoType: "string", ParseExpr: "text", NeverFails: true},

	"int":   {GoType: "int", ParseExpr: "strconv.Atoi(text)", NeedsStrconv: true},
	"isize": {GoType: "int", ParseExpr: "strconv.Atoi(text)", NeedsStrconv: true},

	"int64": {GoType: "int64", ParseExpr: "strconv.ParseInt(text, 10, 64)", NeedsStrconv: true},
	"i64":   {GoType: "int64", ParseExpr: "strconv.ParseInt(text, 10, 64)", NeedsStrconv: true},

	"uint64": {GoType: "uint64", ParseExpr: "strconv.ParseUint(text, 10, 64)", NeedsStrconv: true},
	"u64":    {GoType: "uint64", ParseExpr: "strconv.ParseUint(text, 10, 64)", NeedsStrconv: true},

	"float64": {GoType: "float64", ParseExpr: "strconv.ParseFloat(text, 64)", NeedsStrconv: true},
	"f64":     {GoType: "float64", ParseExpr: "strconv.ParseFloat(text, 64)", NeedsStrconv: true},

	"bool": {GoType: "bool", ParseExpr: "strconv.ParseBool(text)", NeedsStrconv: true},

	"Uuid":      {GoType: "uuid.UUID", ParseExpr: "uuid.Parse(text)", NeedsUUID: true},
	"uuid.UUID": {GoType: "uuid.UUID", ParseExpr: "uuid.Parse(text)", NeedsUUID: true},
}

// resolveParamType looks up how to handle a declared parameter type. An
// unrecognized type is assumed to already be in scope (via a Header)
// and to provide a package-level `Parse<Type>(string) (<Type>, error)`
// function, following the same naming convention `to_caps_case` uses
// elsewhere in the emitter.
func resolveParamType(typ string) paramKind {
	if k, ok := builtinParamTypes[typ]; ok {
		return k
	}
	return paramKind{
		GoType:    typ,
		ParseExpr: fmt.Sprintf("Parse%s(text)", ToCapsCase(typ)),
	}
}
