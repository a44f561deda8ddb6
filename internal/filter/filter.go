// Package filter turns list and search query parameters into validated,
// immutable filters. Every Parse function reports all violations at once.
//
// Filters are plain values: two filters parsed from the same parameters, in
// any order, are equal. Id and enum sets are sorted and de-duplicated.
package filter

import (
	"net/url"
	"strconv"

	"outofschool/internal/constants"
	"outofschool/internal/repository"
	"outofschool/internal/validation"
)

// Sort keys understood by the repositories
const (
	SortRating    = "rating"
	SortPrice     = "price"
	SortTitle     = "title"
	SortCreatedAt = "createdAt"
	SortDistance  = "distance"
	SortStatus    = "status"
	SortChildName = "childFullName"
)

// Options is the platform pagination and search policy applied while parsing
type Options struct {
	DefaultSize     int
	MaxSize         int
	DefaultRadiusKm float64
}

// DefaultOptions returns the built-in policy
func DefaultOptions() Options {
	return Options{
		DefaultSize:     constants.DefaultPageSize,
		MaxSize:         constants.MaxPageSize,
		DefaultRadiusKm: constants.DefaultRadiusKm,
	}
}

func (o Options) normalized() Options {
	defaults := DefaultOptions()
	if o.MaxSize <= 0 {
		o.MaxSize = defaults.MaxSize
	}
	if o.DefaultSize <= 0 {
		o.DefaultSize = defaults.DefaultSize
	}
	if o.DefaultSize > o.MaxSize {
		o.DefaultSize = o.MaxSize
	}
	if o.DefaultRadiusKm <= 0 {
		o.DefaultRadiusKm = defaults.DefaultRadiusKm
	}
	return o
}

// Offset is the pagination part shared by every filter. Size 0 means
// unbounded and only survives parsing for filters that allow it.
type Offset struct {
	From int `json:"from"`
	Size int `json:"size"`
}

// Window implements repository.Pageable
func (o Offset) Window() repository.Window {
	return repository.Window{Offset: o.From, Size: o.Size}
}

// Order implements repository.Pageable; a bare offset leaves ordering to the repository
func (o Offset) Order() repository.Order {
	return nil
}

// ParseOffset parses from (alias offset) and size
func ParseOffset(params url.Values, opts Options) (Offset, error) {
	return parse(params, func(p *validation.Params, v *validation.Violations) Offset {
		return parseOffset(p, v, opts, false)
	})
}

type offsetInput struct {
	From int `query:"from" validate:"gte=0"`
	Size int `query:"size" validate:"gte=0"`
}

func parseOffset(p *validation.Params, v *validation.Violations, opts Options, allowUnbounded bool) Offset {
	opts = opts.normalized()
	in := offsetInput{
		From: p.Int("from", "offset"),
		Size: p.Int("size"),
	}
	v.Struct(in)
	if in.Size > opts.MaxSize {
		v.Addf("size", strconv.Itoa(in.Size), "must be less than or equal to %d", opts.MaxSize)
	}

	size := in.Size
	if size == 0 && !allowUnbounded {
		size = opts.DefaultSize
	}
	return Offset{From: max(in.From, 0), Size: max(size, 0)}
}

// parse runs build against params and returns the filter or the collected violations
func parse[F any](params url.Values, build func(p *validation.Params, v *validation.Violations) F) (F, error) {
	var v validation.Violations
	p := validation.NewParams(params, &v)
	f := build(p, &v)
	if err := v.Err(); err != nil {
		var zero F
		return zero, err
	}
	return f, nil
}
