package models

import "fmt"

// BaseDrawingID is the id of a drawing's own image.
func BaseDrawingID(drawingID string) string {
	return drawingID + "-base"
}

// DisciplineBaseID is the id of a discipline's base image.
func DisciplineBaseID(drawingID, discipline string) string {
	return fmt.Sprintf("%s-%s-base", drawingID, discipline)
}

// RevisionID is the id of a discipline-level revision.
func RevisionID(drawingID, discipline, version string) string {
	return fmt.Sprintf("%s-%s-%s", drawingID, discipline, version)
}

// RegionRevisionID is the id of a revision of one region.
func RegionRevisionID(drawingID, discipline, region, version string) string {
	return fmt.Sprintf("%s-%s-region%s-%s", drawingID, discipline, region, version)
}

// DrawingKeyID returns the drawing id used for derivation: the declared id,
// or the map key when none is declared.
func (d DrawingMeta) DrawingKeyID(key string) string {
	if d.ID != "" {
		return d.ID
	}
	return key
}

// HasBaseImage reports whether the drawing contributes its own image. A
// drawing with disciplines is represented by those instead.
func (d DrawingMeta) HasBaseImage() bool {
	return d.Image != "" && d.Disciplines == nil
}

// derivedIDs walks the document the way the normalizer does and calls fn with
// every entry id and where it came from.
func (m *Metadata) derivedIDs(fn func(id, origin string) error) error {
	for _, key := range m.Drawings.Keys() {
		dwg, _ := m.Drawings.Get(key)
		drawingID := dwg.DrawingKeyID(key)
		if dwg.HasBaseImage() {
			if err := fn(BaseDrawingID(drawingID), fmt.Sprintf("drawing %q", key)); err != nil {
				return err
			}
		}
		for _, discipline := range dwg.Disciplines.Keys() {
			data, _ := dwg.Disciplines.Get(discipline)
			origin := fmt.Sprintf("drawing %q discipline %q", key, discipline)
			if data.Image != "" {
				if err := fn(DisciplineBaseID(drawingID, discipline), origin); err != nil {
					return err
				}
			}
			for _, rev := range data.Revisions {
				if err := fn(RevisionID(drawingID, discipline, rev.Version), origin+fmt.Sprintf(" revision %q", rev.Version)); err != nil {
					return err
				}
			}
			for _, region := range data.Regions.Keys() {
				r, _ := data.Regions.Get(region)
				for _, rev := range r.Revisions {
					if err := fn(RegionRevisionID(drawingID, discipline, region, rev.Version),
						origin+fmt.Sprintf(" region %q revision %q", region, rev.Version)); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}
