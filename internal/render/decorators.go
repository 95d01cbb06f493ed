package render

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/stbl/stbl/internal/model1"
)

const squeezeSize = 2

var decorators = map[string]model1.DecoratorFunc{
	"age": func(v any) string {
		t, ok := ParseTime(v)
		if !ok {
			return UnknownValue
		}
		return ToAge(t)
	},
	"date":     timeDecorator(DateFmt),
	"datetime": timeDecorator(DateTimeFmt),
	"size": func(v any) string {
		f, err := strconv.ParseFloat(model1.FieldString(v), 64)
		if err != nil {
			return NAValue
		}
		return FormatSize(int64(f))
	},
	"yesno": func(v any) string {
		b, err := strconv.ParseBool(model1.FieldString(v))
		if err != nil {
			return NAValue
		}
		return BoolToYesNo(b)
	},
	"na": func(v any) string {
		return NA(model1.FieldString(v))
	},
	"missing": func(v any) string {
		return Missing(model1.FieldString(v))
	},
	"squeeze": func(v any) string {
		return Squeeze(model1.FieldString(v), squeezeSize)
	},
	"upper": func(v any) string {
		return strings.ToUpper(model1.FieldString(v))
	},
}

func timeDecorator(layout string) model1.DecoratorFunc {
	return func(v any) string {
		t, ok := ParseTime(v)
		if !ok {
			return NA(model1.FieldString(v))
		}
		return t.Format(layout)
	}
}

// Decorator returns the named field decorator. Names of the form
// truncate:N cut values to N runes.
func Decorator(name string) (model1.DecoratorFunc, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, nil
	}
	if n, ok := strings.CutPrefix(name, "truncate:"); ok {
		size, err := strconv.Atoi(n)
		if err != nil || size <= 0 {
			return nil, fmt.Errorf("invalid truncate size %q", n)
		}
		return func(v any) string {
			return Truncate(model1.FieldString(v), size)
		}, nil
	}

	fn, ok := decorators[name]
	if !ok {
		return nil, fmt.Errorf("unknown decorator %q", name)
	}

	return fn, nil
}

// DecoratorNames lists the available decorators.
func DecoratorNames() []string {
	nn := make([]string, 0, len(decorators)+1)
	for n := range decorators {
		nn = append(nn, n)
	}
	nn = append(nn, "truncate:N")
	slices.Sort(nn)

	return nn
}
