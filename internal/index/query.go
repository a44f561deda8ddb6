package index

import (
	"strconv"
	"strings"

	"outofschool/internal/filter"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Query is the index predicate for a workshop search
type Query struct {
	// Match selects the documents
	Match query.Query
	// Ranked orders hits by relevance before the default order
	Ranked bool
	// Near is the origin of distance ordering, nil without a point
	Near *filter.GeoPoint
}

// MatchAll returns a query matching every document
func MatchAll() Query {
	return Query{Match: bleve.NewMatchAllQuery()}
}

// WorkshopQuery translates a public workshop search into an index query
func WorkshopQuery(f filter.WorkshopFilter) Query {
	var must []query.Query

	if f.HasText() {
		should := make([]query.Query, 0, len(textFields))
		for _, field := range textFields {
			mq := bleve.NewMatchQuery(f.SearchText)
			mq.SetField(field.name)
			mq.SetBoost(field.boost)
			mq.SetOperator(query.MatchQueryOperatorAnd)
			should = append(should, mq)
		}
		must = append(must, bleve.NewDisjunctionQuery(should...))
	}

	if len(f.DirectionIDs) > 0 {
		should := make([]query.Query, 0, len(f.DirectionIDs))
		for _, id := range f.DirectionIDs {
			should = append(should, numericRange(fieldDirectionID, ptr(float64(id)), ptr(float64(id)), true, true))
		}
		must = append(must, bleve.NewDisjunctionQuery(should...))
	}

	// age ranges overlap
	if f.MinAge.IsPresent() {
		must = append(must, numericRange(fieldMaxAge, ptr(float64(f.MinAge.Get())), nil, true, false))
	}
	if f.MaxAge.IsPresent() {
		must = append(must, numericRange(fieldMinAge, nil, ptr(float64(f.MaxAge.Get())), false, true))
	}

	if f.IsFree.IsPresent() {
		if f.IsFree.Get() {
			must = append(must, numericRange(fieldPrice, ptr(0.0), ptr(0.0), true, true))
		} else {
			must = append(must, numericRange(fieldPrice, ptr(0.0), nil, false, false))
		}
	}
	if f.MinPrice.IsPresent() || f.MaxPrice.IsPresent() {
		must = append(must, numericRange(fieldPrice, f.MinPrice.Ptr(), f.MaxPrice.Ptr(), true, true))
	}

	if len(f.Statuses) > 0 {
		terms := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			terms[i] = string(s)
		}
		must = append(must, anyTerm(fieldStatus, terms))
	}
	if len(f.FormsOfLearning) > 0 {
		terms := make([]string, len(f.FormsOfLearning))
		for i, s := range f.FormsOfLearning {
			terms[i] = string(s)
		}
		must = append(must, anyTerm(fieldFormOfLearning, terms))
	}
	if f.City != "" {
		must = append(must, anyTerm(fieldCity, []string{strings.ToLower(f.City)}))
	}

	q := Query{Ranked: f.HasText()}
	if f.HasGeo() {
		point := f.Near.Get()
		distance := strconv.FormatFloat(point.RadiusKm, 'f', -1, 64) + "km"
		gq := bleve.NewGeoDistanceQuery(point.Longitude, point.Latitude, distance)
		gq.SetField(fieldLocation)
		must = append(must, gq)
		q.Near = &point
	}

	switch len(must) {
	case 0:
		q.Match = bleve.NewMatchAllQuery()
	case 1:
		q.Match = must[0]
	default:
		q.Match = bleve.NewConjunctionQuery(must...)
	}
	return q
}

func numericRange(field string, min, max *float64, minInclusive, maxInclusive bool) query.Query {
	q := bleve.NewNumericRangeInclusiveQuery(min, max, &minInclusive, &maxInclusive)
	q.SetField(field)
	return q
}

func anyTerm(field string, terms []string) query.Query {
	if len(terms) == 1 {
		tq := bleve.NewTermQuery(terms[0])
		tq.SetField(field)
		return tq
	}
	should := make([]query.Query, len(terms))
	for i, term := range terms {
		tq := bleve.NewTermQuery(term)
		tq.SetField(field)
		should[i] = tq
	}
	return bleve.NewDisjunctionQuery(should...)
}

func ptr[T any](v T) *T {
	return &v
}
