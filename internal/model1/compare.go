package model1

import (
	"encoding/json"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/fvbommel/sortorder"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// CompareFunc orders two raw field values ascending, returning -1, 0 or 1.
type CompareFunc func(a, b any) int

var (
	comparators = map[SortType]CompareFunc{
		SortNumber:  CompareNumbers,
		SortString:  CompareStrings,
		SortNatural: CompareNatural,
	}
	comparatorsMx sync.RWMutex
)

// RegisterComparator installs a comparator for a sort type.
func RegisterComparator(t SortType, fn CompareFunc) {
	comparatorsMx.Lock()
	defer comparatorsMx.Unlock()
	comparators[t] = fn
}

// ComparatorFor returns the comparator for a sort type.
// Unknown and custom types use the numeric rule.
func ComparatorFor(t SortType) CompareFunc {
	comparatorsMx.RLock()
	defer comparatorsMx.RUnlock()
	if fn, ok := comparators[t]; ok && t != SortCustom {
		return fn
	}
	return CompareNumbers
}

// Compare orders rows a and b on field key according to t and dir.
func Compare(t SortType, key string, a, b Row, dir Direction) int {
	return sign(ComparatorFor(t)(a.Get(key), b.Get(key))) * dir.Multiplier()
}

// SortRows stable-sorts rows in place on the given column.
func SortRows(rows Rows, col Column, dir Direction) {
	cmp := ComparatorFor(col.SortType)
	m := dir.Multiplier()
	slices.SortStableFunc(rows, func(a, b Row) int {
		return sign(cmp(a.Get(col.ID), b.Get(col.ID))) * m
	})
}

// CompareNumbers orders numerically. Values that are not numbers sort after
// every number and tie with each other.
func CompareNumbers(a, b any) int {
	v1, ok1 := toFloat(a)
	v2, ok2 := toFloat(b)
	switch {
	case !ok1 && !ok2:
		return 0
	case !ok1:
		return 1
	case !ok2:
		return -1
	}
	switch d := v1 - v2; {
	case d < 0:
		return -1
	case d > 0:
		return 1
	default:
		return 0
	}
}

// CompareNatural orders strings with embedded numbers naturally, e.g. item2 < item10.
func CompareNatural(a, b any) int {
	s1, s2 := FieldString(a), FieldString(b)
	switch {
	case s1 == s2:
		return 0
	case sortorder.NaturalLess(s1, s2):
		return -1
	default:
		return 1
	}
}

// collation ranks upper case before lower case for otherwise equal letters.
// Script order is settled by scriptRank before it is consulted.
var collation = struct {
	loose *collate.Collator
	full  *collate.Collator
	mx    sync.Mutex
}{
	loose: collate.New(language.Russian, collate.IgnoreCase),
	full:  collate.New(language.Russian),
}

// CompareStrings orders values with locale-aware collation.
func CompareStrings(a, b any) int {
	s1, s2 := FieldString(a), FieldString(b)
	if s1 == s2 {
		return 0
	}
	if c := scriptRank(s1, s2); c != 0 {
		return c
	}

	// Collators hold scratch buffers.
	collation.mx.Lock()
	defer collation.mx.Unlock()

	if c := collation.loose.CompareString(s1, s2); c != 0 {
		return c
	}
	if c := upperFirst(s1, s2); c != 0 {
		return c
	}
	return collation.full.CompareString(s1, s2)
}

// scriptRank puts Cyrillic letters ahead of letters of any other script,
// decided on the first letter pair that differs regardless of case.
// Digits and punctuation are left to the collator.
func scriptRank(s1, s2 string) int {
	for len(s1) > 0 && len(s2) > 0 {
		r1, n1 := utf8.DecodeRuneInString(s1)
		r2, n2 := utf8.DecodeRuneInString(s2)
		if unicode.ToLower(r1) != unicode.ToLower(r2) {
			if !unicode.IsLetter(r1) || !unicode.IsLetter(r2) {
				return 0
			}
			c1, c2 := unicode.Is(unicode.Cyrillic, r1), unicode.Is(unicode.Cyrillic, r2)
			switch {
			case c1 && !c2:
				return -1
			case c2 && !c1:
				return 1
			}
			return 0
		}
		s1, s2 = s1[n1:], s2[n2:]
	}
	return 0
}

func upperFirst(s1, s2 string) int {
	for len(s1) > 0 && len(s2) > 0 {
		r1, n1 := utf8.DecodeRuneInString(s1)
		r2, n2 := utf8.DecodeRuneInString(s2)
		if r1 != r2 {
			if unicode.ToLower(r1) != unicode.ToLower(r2) {
				return 0
			}
			if unicode.IsUpper(r1) {
				return -1
			}
			return 1
		}
		s1, s2 = s1[n1:], s2[n2:]
	}
	return 0
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case uint:
		f = float64(t)
	case uint32:
		f = float64(t)
	case uint64:
		f = float64(t)
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(t), ",", ""), 64)
		if err != nil {
			return 0, false
		}
		f = n
	case bool:
		if t {
			f = 1
		}
	default:
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func sign(c int) int {
	switch {
	case c < 0:
		return -1
	case c > 0:
		return 1
	default:
		return 0
	}
}
