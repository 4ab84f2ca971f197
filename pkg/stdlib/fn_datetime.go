package stdlib

import (
	"fmt"
	"strings"
	"time"

	"github.com/vexlang/vex/pkg/expression"
	"github.com/vexlang/vex/pkg/state"
	"github.com/vexlang/vex/pkg/types"
	"github.com/vexlang/vex/pkg/value"
)

// now

type now struct{}

func (now) Identifier() string                 { return "now" }
func (now) Parameters() []expression.Parameter { return nil }
func (now) Examples() []expression.Example     { return noExamples }

func (now) Compile(_ *state.TypeState, _ *expression.FunctionCompileContext, _ expression.ArgumentList) (expression.Expression, error) {
	return &fnExpr{
		def: types.TimestampDef().Impure(),
		run: func(_ *expression.Context) (value.Value, error) {
			return value.NewTimestamp(time.Now().UTC()), nil
		},
	}, nil
}

// parse_timestamp

type parseTimestamp struct{}

func (parseTimestamp) Identifier() string { return "parse_timestamp" }

func (parseTimestamp) Parameters() []expression.Parameter {
	return []expression.Parameter{
		param("value", types.Bytes().OrTimestamp(), true),
		param("format", types.Bytes(), true),
		param("timezone", types.Bytes(), false),
	}
}

func (parseTimestamp) Examples() []expression.Example {
	return []expression.Example{
		{
			Title:  "day-month-year",
			Source: `parse_timestamp!("11-Feb-2021 16:00 +00:00", format: "%v %R %z")`,
			Result: `t'2021-02-11T16:00:00Z'`,
		},
	}
}

func (parseTimestamp) Compile(_ *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	arg := args.Required("value")
	format := args.Required("format")
	timezone := optionalExpr(args, "timezone")

	return &fnExpr{
		def: types.TimestampDef().Fallible(),
		run: func(ctx *expression.Context) (value.Value, error) {
			v, err := arg.Resolve(ctx)
			if err != nil {
				return nil, err
			}
			if t, ok := v.(value.Timestamp); ok {
				return t, nil
			}
			s, err := value.AsString(v)
			if err != nil {
				return nil, err
			}

			spec, err := resolveString(ctx, format)
			if err != nil {
				return nil, err
			}
			layout, err := strftimeLayout(spec)
			if err != nil {
				return nil, err
			}

			loc, err := resolveLocation(ctx, timezone)
			if err != nil {
				return nil, err
			}

			t, err := time.ParseInLocation(layout, s, loc)
			if err != nil {
				return nil, fmt.Errorf("unable to parse timestamp %q with format %q", s, spec)
			}
			return value.NewTimestamp(t), nil
		},
	}, nil
}

// format_timestamp

type formatTimestamp struct{}

func (formatTimestamp) Identifier() string { return "format_timestamp" }

func (formatTimestamp) Parameters() []expression.Parameter {
	return []expression.Parameter{
		param("value", types.Timestamp(), true),
		param("format", types.Bytes(), true),
		param("timezone", types.Bytes(), false),
	}
}

func (formatTimestamp) Examples() []expression.Example {
	return []expression.Example{
		{Title: "date", Source: `format_timestamp!(t'2021-02-11T16:00:00Z', format: "%F")`, Result: `"2021-02-11"`},
	}
}

func (formatTimestamp) Compile(_ *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	arg := args.Required("value")
	format := args.Required("format")
	timezone := optionalExpr(args, "timezone")

	return &fnExpr{
		def: types.BytesDef().Fallible(),
		run: func(ctx *expression.Context) (value.Value, error) {
			v, err := arg.Resolve(ctx)
			if err != nil {
				return nil, err
			}
			t, err := value.AsTimestamp(v)
			if err != nil {
				return nil, err
			}

			spec, err := resolveString(ctx, format)
			if err != nil {
				return nil, err
			}
			layout, err := strftimeLayout(spec)
			if err != nil {
				return nil, err
			}

			loc, err := resolveLocation(ctx, timezone)
			if err != nil {
				return nil, err
			}

			return value.Bytes(t.In(loc).Format(layout)), nil
		},
	}, nil
}

// resolveLocation resolves an optional timezone argument; absent means the
// context timezone.
func resolveLocation(ctx *expression.Context, e expression.Expression) (*time.Location, error) {
	if e == nil {
		return ctx.Timezone(), nil
	}
	name, err := resolveString(ctx, e)
	if err != nil {
		return nil, err
	}
	if name == "local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q", name)
	}
	return loc, nil
}

// strftimeLayout converts an strftime-style format string into a Go
// reference-time layout. Specifiers without a Go equivalent are rejected.
func strftimeLayout(format string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(format) {
			return "", fmt.Errorf("timestamp format %q ends with a bare %%", format)
		}
		switch format[i] {
		case 'Y':
			b.WriteString("2006")
		case 'y':
			b.WriteString("06")
		case 'm':
			b.WriteString("01")
		case 'd':
			b.WriteString("02")
		case 'e':
			b.WriteString("_2")
		case 'H':
			b.WriteString("15")
		case 'I':
			b.WriteString("03")
		case 'M':
			b.WriteString("04")
		case 'S':
			b.WriteString("05")
		case 'p':
			b.WriteString("PM")
		case 'a':
			b.WriteString("Mon")
		case 'A':
			b.WriteString("Monday")
		case 'b', 'h':
			b.WriteString("Jan")
		case 'B':
			b.WriteString("January")
		case 'z':
			// Accepts both "Z" and "+00:00" style offsets.
			b.WriteString("Z07:00")
		case 'Z':
			b.WriteString("MST")
		case 'R':
			b.WriteString("15:04")
		case 'T', 'X':
			b.WriteString("15:04:05")
		case 'D', 'x':
			b.WriteString("01/02/06")
		case 'F':
			b.WriteString("2006-01-02")
		case 'v':
			b.WriteString("_2-Jan-2006")
		case '%':
			b.WriteByte('%')
		default:
			return "", fmt.Errorf("unsupported timestamp format specifier %%%c", format[i])
		}
	}
	return b.String(), nil
}
