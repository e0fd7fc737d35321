package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderedMap_KeepsDocumentOrder(t *testing.T) {
	var m OrderedMap[int]
	require.NoError(t, json.Unmarshal([]byte(`{"z": 1, "a": 2, "m": 3}`), &m))

	assert.Equal(t, []string{"z", "a", "m"}, m.Keys())
	v, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestOrderedMap_RepeatedKeyFirstPositionLastValue(t *testing.T) {
	var m OrderedMap[string]
	require.NoError(t, json.Unmarshal([]byte(`{"b": "first", "a": "x", "b": "last"}`), &m))

	assert.Equal(t, []string{"b", "a"}, m.Keys())
	assert.Equal(t, 2, m.Len())
	v, _ := m.Get("b")
	assert.Equal(t, "last", v)

	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"b":"last","a":"x"}`, string(out))
}

func TestOrderedMap_RoundTrip(t *testing.T) {
	doc := `{"2F":{"image":"2F.png"},"1F":{"image":"1F.png","revisions":[{"version":"R1","image":"r.png","date":"","description":"","changes":null}]}}`

	var m OrderedMap[DisciplineData]
	require.NoError(t, json.Unmarshal([]byte(doc), &m))
	out, err := json.Marshal(m)
	require.NoError(t, err)

	var again OrderedMap[DisciplineData]
	require.NoError(t, json.Unmarshal(out, &again))
	assert.Equal(t, m.Keys(), again.Keys())
	assert.Equal(t, []string{"2F", "1F"}, again.Keys())
	first, _ := again.Get("1F")
	require.Len(t, first.Revisions, 1)
	assert.Equal(t, "R1", first.Revisions[0].Version)
}

func TestOrderedMap_Null(t *testing.T) {
	var holder struct {
		Regions *OrderedMap[Region] `json:"regions"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"regions": null}`), &holder))
	assert.Nil(t, holder.Regions)
	assert.Equal(t, 0, holder.Regions.Len())
	assert.Nil(t, holder.Regions.Keys())
	_, ok := holder.Regions.Get("R")
	assert.False(t, ok)

	var m OrderedMap[int]
	require.NoError(t, m.UnmarshalJSON([]byte(`null`)))
	assert.Equal(t, 0, m.Len())
}

func TestOrderedMap_RejectsNonObject(t *testing.T) {
	var m OrderedMap[int]
	assert.Error(t, json.Unmarshal([]byte(`[1, 2]`), &m))
	assert.Error(t, json.Unmarshal([]byte(`{"a": "not a number"}`), &m))
}

func TestOrderedMap_EmptyMarshalsAsObject(t *testing.T) {
	out, err := json.Marshal(NewOrderedMap[int]())
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(out))
}
