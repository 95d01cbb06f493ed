package render

import (
	"testing"
)

func TestDecorator(t *testing.T) {
	uu := map[string]struct {
		name string
		v    any
		e    string
		err  bool
	}{
		"date":     {name: "date", v: "2024-03-01T10:00:00.000Z", e: "2024-03-01"},
		"datetime": {name: "DateTime", v: "2024-03-01T10:30:00.000Z", e: "2024-03-01 10:30"},
		"badDate":  {name: "date", v: "soon", e: "soon"},
		"size":     {name: "size", v: float64(2048), e: "2.0 KiB"},
		"yesno":    {name: "yesno", v: true, e: "Yes"},
		"na":       {name: "na", v: nil, e: NAValue},
		"missing":  {name: "missing", v: "", e: MissingValue},
		"squeeze":  {name: "squeeze", v: "woooow", e: "woow"},
		"upper":    {name: "upper", v: "abc", e: "ABC"},
		"truncate": {name: "truncate:4", v: "abcdef", e: "a..."},
		"badSize":  {name: "truncate:x", err: true},
		"unknown":  {name: "sparkle", err: true},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			fn, err := Decorator(u.name)
			if u.err {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got := fn(u.v); got != u.e {
				t.Fatalf("expected %q but got %q", u.e, got)
			}
		})
	}
}

func TestDecoratorBlank(t *testing.T) {
	fn, err := Decorator(" ")
	if err != nil || fn != nil {
		t.Fatalf("expected no decorator but got %v, %v", fn, err)
	}
}
