package models

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// ErrMalformedMetadata is returned when a metadata document cannot be turned
// into drawing entries without producing corrupt data.
var ErrMalformedMetadata = errors.New("malformed metadata")

// Project describes the drawing set. Descriptive only.
type Project struct {
	Name string `json:"name"`
	Unit string `json:"unit"`
}

// DisciplineMeta is a declared discipline. The disciplines actually offered
// for filtering are derived from the drawings.
type DisciplineMeta struct {
	Name string `json:"name"`
}

// ImageTransform positions an image relative to another drawing.
type ImageTransform struct {
	RelativeTo string  `json:"relativeTo,omitempty"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Scale      float64 `json:"scale"`
	Rotation   float64 `json:"rotation"`
}

type Polygon struct {
	Vertices         [][]float64     `json:"vertices"`
	PolygonTransform *ImageTransform `json:"polygonTransform,omitempty"`
}

// Revision is one dated change record of a drawing.
type Revision struct {
	Version        string          `json:"version"`
	Image          string          `json:"image"`
	Date           string          `json:"date"`
	Description    string          `json:"description"`
	Changes        []string        `json:"changes"`
	ImageTransform *ImageTransform `json:"imageTransform,omitempty"`
	Polygon        *Polygon        `json:"polygon,omitempty"`
}

// Region is a named sub-area of a discipline drawing with its own history.
type Region struct {
	Polygon   *Polygon   `json:"polygon,omitempty"`
	Revisions []Revision `json:"revisions,omitempty"`
}

type DisciplineData struct {
	Image          string              `json:"image,omitempty"`
	ImageTransform *ImageTransform     `json:"imageTransform,omitempty"`
	Polygon        *Polygon            `json:"polygon,omitempty"`
	Revisions      []Revision          `json:"revisions,omitempty"`
	Regions        *OrderedMap[Region] `json:"regions,omitempty"`
}

// Position places a drawing inside its parent.
type Position struct {
	Vertices       [][]float64     `json:"vertices"`
	ImageTransform *ImageTransform `json:"imageTransform,omitempty"`
}

// DrawingMeta is one entry of the drawings map. Parent is not traversed.
type DrawingMeta struct {
	ID          string                      `json:"id"`
	Name        string                      `json:"name"`
	Image       string                      `json:"image,omitempty"`
	Parent      *string                     `json:"parent"`
	Position    *Position                   `json:"position,omitempty"`
	Disciplines *OrderedMap[DisciplineData] `json:"disciplines,omitempty"`
}

// Metadata is the root of metadata.json.
type Metadata struct {
	Project     Project                  `json:"project"`
	Disciplines []DisciplineMeta         `json:"disciplines"`
	Drawings    *OrderedMap[DrawingMeta] `json:"drawings"`
}

// EmptyMetadata is the raw document used after a failed load.
func EmptyMetadata() *Metadata {
	return &Metadata{
		Disciplines: []DisciplineMeta{},
		Drawings:    NewOrderedMap[DrawingMeta](),
	}
}

// DecodeMetadata parses a metadata document. Syntax errors, wrong member
// types and documents whose derived drawing entries would share an id are
// reported as ErrMalformedMetadata.
func DecodeMetadata(data []byte) (*Metadata, error) {
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrap(ErrMalformedMetadata, err.Error())
	}
	if meta.Drawings == nil {
		meta.Drawings = NewOrderedMap[DrawingMeta]()
	}
	if err := meta.checkUniqueIDs(); err != nil {
		return nil, errors.Wrap(ErrMalformedMetadata, err.Error())
	}
	return &meta, nil
}

// checkUniqueIDs rejects repeated versions, a "base" revision next to a base
// image, drawings declaring the same id and discipline names that collide
// with region ids.
func (m *Metadata) checkUniqueIDs() error {
	seen := make(map[string]string)
	return m.derivedIDs(func(id, origin string) error {
		if first, ok := seen[id]; ok {
			return fmt.Errorf("duplicate drawing entry id %q from %s and %s", id, first, origin)
		}
		seen[id] = origin
		return nil
	})
}
