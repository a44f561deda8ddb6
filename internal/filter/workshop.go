package filter

import (
	"fmt"
	"net/url"
	"strconv"

	"outofschool/internal/repository"
	"outofschool/internal/types"
	"outofschool/internal/validation"
)

// GeoPoint restricts a workshop search to a circle around a location
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	RadiusKm  float64 `json:"radiusKm"`
}

// WorkshopFilter is the public workshop search
type WorkshopFilter struct {
	Offset
	SearchText      string
	DirectionIDs    []int64
	MinAge          types.Option[int]
	MaxAge          types.Option[int]
	IsFree          types.Option[bool]
	MinPrice        types.Option[float64]
	MaxPrice        types.Option[float64]
	Statuses        []types.WorkshopStatus
	FormsOfLearning []types.FormOfLearning
	City            string
	Near            types.Option[GeoPoint]
	OrderBy         types.WorkshopOrder // empty: relevance for text searches, otherwise rating
}

// HasGeo reports whether the search is restricted to a radius
func (f WorkshopFilter) HasGeo() bool {
	return f.Near.IsPresent()
}

// HasText reports whether the search ranks by free text
func (f WorkshopFilter) HasText() bool {
	return f.SearchText != ""
}

// Order implements repository.Pageable
func (f WorkshopFilter) Order() repository.Order {
	switch f.OrderBy {
	case types.OrderByRating:
		return repository.Order{{Key: SortRating, Direction: repository.Desc}}
	case types.OrderByPriceAsc:
		return repository.Order{{Key: SortPrice, Direction: repository.Asc}}
	case types.OrderByPriceDesc:
		return repository.Order{{Key: SortPrice, Direction: repository.Desc}}
	case types.OrderByAlphabet:
		return repository.Order{{Key: SortTitle, Direction: repository.Asc}}
	case types.OrderByNewest:
		return repository.Order{{Key: SortCreatedAt, Direction: repository.Desc}}
	case types.OrderByNearest:
		return repository.Order{{Key: SortDistance, Direction: repository.Asc}}
	}
	return nil
}

// String summarizes the filter for logs
func (f WorkshopFilter) String() string {
	return fmt.Sprintf("workshops(from=%d size=%d text=%t geo=%t order=%q)",
		f.From, f.Size, f.HasText(), f.HasGeo(), f.OrderBy)
}

type workshopInput struct {
	MinAge    *int     `query:"minAge" validate:"omitempty,gte=0,lte=120"`
	MaxAge    *int     `query:"maxAge" validate:"omitempty,gte=0,lte=120"`
	MinPrice  *float64 `query:"minPrice" validate:"omitempty,gte=0"`
	MaxPrice  *float64 `query:"maxPrice" validate:"omitempty,gte=0"`
	Latitude  *float64 `query:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `query:"longitude" validate:"omitempty,gte=-180,lte=180"`
	RadiusKm  *float64 `query:"radiusKm" validate:"omitempty,gt=0"`
}

// ParseWorkshop builds a WorkshopFilter from query parameters
func ParseWorkshop(params url.Values, opts Options) (WorkshopFilter, error) {
	opts = opts.normalized()
	return parse(params, func(p *validation.Params, v *validation.Violations) WorkshopFilter {
		f := WorkshopFilter{
			Offset:          parseOffset(p, v, opts, false),
			SearchText:      p.Text("searchText"),
			DirectionIDs:    p.PositiveInt64s("directionIds"),
			MinAge:          p.OptInt("minAge"),
			MaxAge:          p.OptInt("maxAge"),
			IsFree:          p.OptBool("isFree"),
			MinPrice:        p.OptFloat("minPrice"),
			MaxPrice:        p.OptFloat("maxPrice"),
			Statuses:        validation.EnumList(p, "statuses", types.WorkshopStatuses),
			FormsOfLearning: validation.EnumList(p, "formsOfLearning", types.FormsOfLearning),
			City:            p.Text("city"),
			OrderBy:         validation.EnumValue(p, "orderBy", types.WorkshopOrders).OrElse(""),
		}
		lat := p.OptFloat("latitude")
		lon := p.OptFloat("longitude")
		radius := p.OptFloat("radiusKm")

		v.Struct(workshopInput{
			MinAge:    f.MinAge.Ptr(),
			MaxAge:    f.MaxAge.Ptr(),
			MinPrice:  f.MinPrice.Ptr(),
			MaxPrice:  f.MaxPrice.Ptr(),
			Latitude:  lat.Ptr(),
			Longitude: lon.Ptr(),
			RadiusKm:  radius.Ptr(),
		})

		if f.MinAge.IsPresent() && f.MaxAge.IsPresent() && f.MinAge.Get() > f.MaxAge.Get() {
			v.Add("maxAge", strconv.Itoa(f.MaxAge.Get()), "must be greater than or equal to minAge")
		}
		if f.MinPrice.IsPresent() && f.MaxPrice.IsPresent() && f.MinPrice.Get() > f.MaxPrice.Get() {
			v.Add("maxPrice", formatFloat(f.MaxPrice.Get()), "must be greater than or equal to minPrice")
		}
		if f.IsFree.OrElse(false) && f.MinPrice.OrElse(0) > 0 {
			v.Add("isFree", "true", "conflicts with a positive minPrice")
		}

		switch {
		case lat.IsPresent() && lon.IsPresent():
			f.Near = types.Some(GeoPoint{
				Latitude:  lat.Get(),
				Longitude: lon.Get(),
				RadiusKm:  radius.OrElse(opts.DefaultRadiusKm),
			})
		case lat.IsPresent():
			v.Add("longitude", "", "is required when latitude is set")
		case lon.IsPresent():
			v.Add("latitude", "", "is required when longitude is set")
		}
		if !f.Near.IsPresent() {
			if radius.IsPresent() {
				v.Add("radiusKm", formatFloat(radius.Get()), "requires latitude and longitude")
			}
			if f.OrderBy == types.OrderByNearest {
				v.Add("orderBy", string(f.OrderBy), "requires latitude and longitude")
			}
		}
		return f
	})
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
