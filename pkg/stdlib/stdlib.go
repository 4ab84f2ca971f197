// Package stdlib implements the built-in function library.
package stdlib

import (
	"github.com/vexlang/vex/pkg/expression"
	"github.com/vexlang/vex/pkg/state"
	"github.com/vexlang/vex/pkg/types"
	"github.com/vexlang/vex/pkg/value"
)

// All returns every built-in function.
func All() []expression.Function {
	return []expression.Function{
		// Type checks
		newIsType("is_array", types.AnyArray()),
		newIsType("is_boolean", types.Boolean()),
		newIsType("is_float", types.Float()),
		newIsType("is_integer", types.Integer()),
		newIsType("is_null", types.Null()),
		newIsType("is_object", types.AnyObject()),
		newIsType("is_regex", types.Regex()),
		newIsType("is_string", types.Bytes()),
		newIsType("is_timestamp", types.Timestamp()),

		// Type assertions
		newNarrow("array", types.AnyArray()),
		newNarrow("bool", types.Boolean()),
		newNarrow("float", types.Float()),
		newNarrow("int", types.Integer()),
		newNarrow("object", types.AnyObject()),
		newNarrow("string", types.Bytes()),
		newNarrow("timestamp", types.Timestamp()),

		// Coercions
		toBool{},
		toInt{},
		toFloat{},
		toString{},
		toTimestamp{},

		// Timestamps
		now{},
		parseTimestamp{},
		formatTimestamp{},

		// Codecs
		parseJSON{},
		encodeJSON{},

		// Objects
		merge{},
		flatten{},
		keys{},
		values{},

		// Strings
		truncate{},
		replace{},
		upcase{},
		downcase{},
		contains{},
		startsWith{},
		endsWith{},
		split{},
		join{},

		// Collections
		length{},
		slice{},
		push{},

		// Paths
		exists{},
		del{},

		// Secrets
		getSecret{},
		setSecret{},
		removeSecret{},

		// Enumeration
		forEach{},
		filter{},
		fold{},
		mapKeys{},
		mapValues{},

		// System
		getEnvVar{},
		logFn{},
		uuidV4{},
		assertFn{},
	}
}

// fnExpr is the expression a built-in compiles to: a fixed type definition
// plus a resolution closure over the compiled arguments.
type fnExpr struct {
	def types.TypeDef
	run func(ctx *expression.Context) (value.Value, error)
}

func (e *fnExpr) Resolve(ctx *expression.Context) (value.Value, error) { return e.run(ctx) }

func (e *fnExpr) TypeInfo(st state.TypeState) state.TypeInfo {
	return state.NewTypeInfo(st, e.def)
}

// noExamples keeps the example-less builtins honest about it.
var noExamples []expression.Example
