// Package revisions finds the revision history that applies to a drawing entry.
package revisions

import "drawing-service/internal/models"

// Resolve returns the ordered revision history for a drawing entry. Missing
// linkage of any kind yields an empty history.
//
// A region pinned by the entry wins over the discipline history. Without a
// pinned region the discipline history is used, and when a discipline only
// tracks history per region the region histories are concatenated in region
// order.
func Resolve(drawing *models.AppDrawing, meta *models.Metadata) []models.Revision {
	if drawing == nil || meta == nil {
		return []models.Revision{}
	}

	dwg, ok := lookupDrawing(meta, drawing.DrawingID)
	if !ok {
		return []models.Revision{}
	}
	data, ok := dwg.Disciplines.Get(drawing.Discipline)
	if !ok {
		return []models.Revision{}
	}

	if drawing.RegionKey != "" {
		if region, ok := data.Regions.Get(drawing.RegionKey); ok && len(region.Revisions) > 0 {
			return region.Revisions
		}
	}

	if len(data.Revisions) > 0 {
		return data.Revisions
	}

	merged := make([]models.Revision, 0)
	for _, key := range data.Regions.Keys() {
		region, _ := data.Regions.Get(key)
		merged = append(merged, region.Revisions...)
	}
	return merged
}

// lookupDrawing finds a drawing by map key, then by its declared id.
func lookupDrawing(meta *models.Metadata, drawingID string) (models.DrawingMeta, bool) {
	if dwg, ok := meta.Drawings.Get(drawingID); ok {
		return dwg, true
	}
	for _, key := range meta.Drawings.Keys() {
		dwg, _ := meta.Drawings.Get(key)
		if dwg.ID == drawingID {
			return dwg, true
		}
	}
	return models.DrawingMeta{}, false
}
