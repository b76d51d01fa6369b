package table

import "reflect"

// Symbols exposes this package to yaegi-interpreted candidate modules
// under the import path "parsesmith/table". The map follows the layout
// produced by yaegi's extract tool: importPath/packageName -> symbols.
var Symbols = map[string]map[string]reflect.Value{
	"parsesmith/table/table": {
		// functions
		"New":    reflect.ValueOf(New),
		"String": reflect.ValueOf(String),
		"Int":    reflect.ValueOf(Int),
		"Float":  reflect.ValueOf(Float),
		"Equal":  reflect.ValueOf(Equal),

		// constants
		"KindString": reflect.ValueOf(KindString),
		"KindInt":    reflect.ValueOf(KindInt),
		"KindFloat":  reflect.ValueOf(KindFloat),

		// types
		"Cell":  reflect.ValueOf((*Cell)(nil)),
		"Kind":  reflect.ValueOf((*Kind)(nil)),
		"Table": reflect.ValueOf((*Table)(nil)),
	},
}
