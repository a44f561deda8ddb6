package index

import (
	"encoding/json"
	"strings"

	"outofschool/internal/types"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
)

// Document field names
const (
	fieldTitle          = "title"
	fieldTitleSort      = "title_sort"
	fieldKeywords       = "keywords"
	fieldDescription    = "description"
	fieldProviderTitle  = "provider_title"
	fieldStatus         = "status"
	fieldFormOfLearning = "form_of_learning"
	fieldCity           = "city"
	fieldDirectionID    = "direction_id"
	fieldMinAge         = "min_age"
	fieldMaxAge         = "max_age"
	fieldPrice          = "price"
	fieldRating         = "rating"
	fieldCreatedAt      = "created_at"
	fieldLocation       = "location"
	fieldCard           = "card"
)

// textFields are matched by free-text searches with their boosts
var textFields = []struct {
	name  string
	boost float64
}{
	{fieldTitle, 3},
	{fieldKeywords, 2},
	{fieldProviderTitle, 1.5},
	{fieldDescription, 1},
}

// NewMapping returns the workshop index mapping. Unknown fields are not indexed.
func NewMapping() mapping.IndexMapping {
	doc := bleve.NewDocumentMapping()
	doc.Dynamic = false

	for _, field := range textFields {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = "standard"
		fm.Store = false
		doc.AddFieldMappingsAt(field.name, fm)
	}

	for _, name := range []string{fieldTitleSort, fieldStatus, fieldFormOfLearning, fieldCity} {
		fm := bleve.NewKeywordFieldMapping()
		fm.Store = false
		fm.IncludeInAll = false
		doc.AddFieldMappingsAt(name, fm)
	}

	for _, name := range []string{fieldDirectionID, fieldMinAge, fieldMaxAge, fieldPrice, fieldRating} {
		fm := bleve.NewNumericFieldMapping()
		fm.Store = false
		fm.IncludeInAll = false
		doc.AddFieldMappingsAt(name, fm)
	}

	created := bleve.NewDateTimeFieldMapping()
	created.Store = false
	created.IncludeInAll = false
	doc.AddFieldMappingsAt(fieldCreatedAt, created)

	location := bleve.NewGeoPointFieldMapping()
	location.Store = false
	location.IncludeInAll = false
	doc.AddFieldMappingsAt(fieldLocation, location)

	// the card is returned with every hit and never searched
	card := bleve.NewTextFieldMapping()
	card.Index = false
	card.Store = true
	card.IncludeInAll = false
	card.IncludeTermVectors = false
	card.DocValues = false
	doc.AddFieldMappingsAt(fieldCard, card)

	im := bleve.NewIndexMapping()
	im.DefaultMapping = doc
	im.DefaultAnalyzer = "standard"
	return im
}

// document converts a workshop into the indexed representation
func document(w types.Workshop) (map[string]interface{}, error) {
	card, err := json.Marshal(w.WorkshopCard)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		fieldTitle:          w.Title,
		fieldTitleSort:      strings.ToLower(w.Title),
		fieldKeywords:       w.Keywords,
		fieldDescription:    w.Description,
		fieldProviderTitle:  w.ProviderTitle,
		fieldStatus:         string(w.Status),
		fieldFormOfLearning: string(w.FormOfLearning),
		fieldCity:           strings.ToLower(w.City),
		fieldDirectionID:    float64(w.DirectionID),
		fieldMinAge:         float64(w.MinAge),
		fieldMaxAge:         float64(w.MaxAge),
		fieldPrice:          w.Price,
		fieldRating:         w.Rating,
		fieldCreatedAt:      w.CreatedAt,
		fieldLocation: map[string]interface{}{
			"lat": w.Latitude,
			"lon": w.Longitude,
		},
		fieldCard: string(card),
	}, nil
}
