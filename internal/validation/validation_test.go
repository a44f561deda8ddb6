package validation

import (
	"net/url"
	"testing"

	"outofschool/internal/errors"
	"outofschool/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rangeInput struct {
	From   int      `query:"from" validate:"gte=0"`
	Size   int      `query:"size" validate:"gte=0,lte=100"`
	MinAge *int     `query:"minAge" validate:"omitempty,gte=0,lte=120"`
	Lat    *float64 `query:"latitude" validate:"omitempty,gte=-90,lte=90"`
}

func TestViolations_Struct(t *testing.T) {
	age := 130
	lat := -91.5

	var v Violations
	v.Struct(rangeInput{From: -1, Size: 500, MinAge: &age, Lat: &lat})

	err := v.Err()
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	got := map[string]string{}
	for _, violation := range errors.Violations(err) {
		got[violation.Field] = violation.Reason + "|" + violation.Value
	}

	assert.Equal(t, map[string]string{
		"from":     "must be greater than or equal to 0|-1",
		"size":     "must be less than or equal to 100|500",
		"minAge":   "must be less than or equal to 120|130",
		"latitude": "must be greater than or equal to -90|-91.5",
	}, got)
}

func TestViolations_EmptyIsNil(t *testing.T) {
	var v Violations
	v.Struct(rangeInput{From: 0, Size: 10})
	assert.True(t, v.Empty())
	assert.NoError(t, v.Err())

	assert.False(t, v.Check(false, "size", "x", "bad"))
	assert.Equal(t, 1, v.Len())
}

func TestParams(t *testing.T) {
	values := url.Values{
		"from":         {"abc"},
		"size":         {" 15 "},
		"searchString": {"   "},
		"city":         {"  Kyiv "},
		"statuses":     {"open, CLOSED", "open", "archived"},
		"directionIds": {"3,1,3", "-2"},
		"workshopIds":  {"6F9619FF-8B86-D011-B42D-00CF4FC964FF", "not-a-uuid"},
		"isFree":       {"maybe"},
		"minPrice":     {"12.5"},
	}

	var v Violations
	p := NewParams(values, &v)

	assert.Equal(t, 0, p.Int("from", "offset"))
	assert.Equal(t, 15, p.Int("size"))
	assert.Equal(t, "", p.Text("searchString"))
	assert.Equal(t, "Kyiv", p.Text("city"))
	assert.Equal(t, []types.WorkshopStatus{types.WorkshopClosed, types.WorkshopOpen},
		EnumList(p, "statuses", types.WorkshopStatuses))
	assert.Equal(t, []int64{1, 3}, p.PositiveInt64s("directionIds"))
	assert.Equal(t, []string{"6f9619ff-8b86-d011-b42d-00cf4fc964ff"}, p.UUIDs("workshopIds"))
	assert.False(t, p.OptBool("isFree").IsPresent())
	assert.Equal(t, types.Some(12.5), p.OptFloat("minPrice"))

	fields := []string{}
	for _, violation := range errors.Violations(v.Err()) {
		fields = append(fields, violation.Field)
	}
	assert.ElementsMatch(t, []string{"from", "statuses", "directionIds", "workshopIds", "isFree"}, fields)
}

func TestParams_Alias(t *testing.T) {
	var v Violations
	p := NewParams(url.Values{"offset": {"40"}}, &v)
	assert.Equal(t, 40, p.Int("from", "offset"))
	assert.True(t, v.Empty())
}

func TestSortedUnique(t *testing.T) {
	assert.Nil(t, SortedUnique[string](nil))
	assert.Equal(t, []string{"a", "b"}, SortedUnique([]string{"b", "a", "b"}))
	assert.Equal(t, []int64{1, 2, 9}, SortedUnique([]int64{9, 1, 2, 1}))
}
