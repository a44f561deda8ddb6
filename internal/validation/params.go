package validation

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"outofschool/internal/types"

	"github.com/google/uuid"
)

// Params reads typed values from query parameters. Malformed values are
// recorded as violations and read as absent, so parsing always continues.
type Params struct {
	values     url.Values
	violations *Violations
}

// NewParams wraps values; violations are recorded into v
func NewParams(values url.Values, v *Violations) *Params {
	if values == nil {
		values = url.Values{}
	}
	return &Params{values: values, violations: v}
}

// lookup returns the first non-empty value among name and its aliases
func (p *Params) lookup(names ...string) (string, string, bool) {
	for _, name := range names {
		for _, raw := range p.values[name] {
			if s := strings.TrimSpace(raw); s != "" {
				return name, s, true
			}
		}
	}
	return names[0], "", false
}

// Int returns the integer under name (or an alias), 0 when absent
func (p *Params) Int(names ...string) int {
	return p.OptInt(names...).OrElse(0)
}

// OptInt returns the integer under name (or an alias)
func (p *Params) OptInt(names ...string) types.Option[int] {
	name, raw, ok := p.lookup(names...)
	if !ok {
		return types.None[int]()
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		p.violations.Add(name, raw, "must be an integer")
		return types.None[int]()
	}
	return types.Some(n)
}

// OptFloat returns the number under name
func (p *Params) OptFloat(name string) types.Option[float64] {
	_, raw, ok := p.lookup(name)
	if !ok {
		return types.None[float64]()
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.violations.Add(name, raw, "must be a number")
		return types.None[float64]()
	}
	return types.Some(f)
}

// OptBool returns the boolean under name
func (p *Params) OptBool(name string) types.Option[bool] {
	_, raw, ok := p.lookup(name)
	if !ok {
		return types.None[bool]()
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		p.violations.Add(name, raw, "must be true or false")
		return types.None[bool]()
	}
	return types.Some(b)
}

// Bool returns the boolean under name, false when absent
func (p *Params) Bool(name string) bool {
	return p.OptBool(name).OrElse(false)
}

// Text returns the trimmed value under name; empty means no filter
func (p *Params) Text(name string) string {
	_, raw, _ := p.lookup(name)
	return raw
}

// List returns the values under name, accepting repeated parameters and
// comma-separated lists. Values are trimmed; blanks are dropped.
func (p *Params) List(name string) []string {
	var out []string
	for _, raw := range p.values[name] {
		for _, part := range strings.Split(raw, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// UUID returns the canonical form of the UUID under name, empty when absent
func (p *Params) UUID(name string) string {
	_, raw, ok := p.lookup(name)
	if !ok {
		return ""
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		p.violations.Add(name, raw, "must be a valid UUID")
		return ""
	}
	return id.String()
}

// UUIDs returns the sorted, de-duplicated UUIDs under name
func (p *Params) UUIDs(name string) []string {
	var ids []string
	for _, raw := range p.List(name) {
		id, err := uuid.Parse(raw)
		if err != nil {
			p.violations.Add(name, raw, "must be a valid UUID")
			continue
		}
		ids = append(ids, id.String())
	}
	return SortedUnique(ids)
}

// PositiveInt64s returns the sorted, de-duplicated positive integers under name
func (p *Params) PositiveInt64s(name string) []int64 {
	var out []int64
	for _, raw := range p.List(name) {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			p.violations.Add(name, raw, "must be a positive integer")
			continue
		}
		out = append(out, n)
	}
	return SortedUnique(out)
}

// EnumValue parses the single enum member under name
func EnumValue[E ~string](p *Params, name string, members []E) types.Option[E] {
	_, raw, ok := p.lookup(name)
	if !ok {
		return types.None[E]()
	}
	value, ok := types.ParseEnum(raw, members)
	if !ok {
		p.violations.Add(name, raw, "must be one of: "+types.EnumNames(members))
		return types.None[E]()
	}
	return types.Some(value)
}

// EnumList parses every enum member under name into a sorted, de-duplicated set
func EnumList[E ~string](p *Params, name string, members []E) []E {
	var out []E
	for _, raw := range p.List(name) {
		value, ok := types.ParseEnum(raw, members)
		if !ok {
			p.violations.Add(name, raw, "must be one of: "+types.EnumNames(members))
			continue
		}
		out = append(out, value)
	}
	return SortedUnique(out)
}

// SortedUnique returns a sorted copy of values without duplicates; nil for none
func SortedUnique[T ~string | ~int64](values []T) []T {
	if len(values) == 0 {
		return nil
	}
	out := make([]T, len(values))
	copy(out, values)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	n := 1
	for i := 1; i < len(out); i++ {
		if out[i] != out[n-1] {
			out[n] = out[i]
			n++
		}
	}
	return out[:n]
}
