// Package normalizer flattens a nested metadata document into the list of
// drawings a viewer can select.
package normalizer

import (
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"drawing-service/internal/models"
)

// Normalizer turns metadata documents into ProcessedData. Disciplines are
// ordered with the collation rules of the configured locale.
type Normalizer struct {
	locale language.Tag
}

// New creates a Normalizer for the given BCP-47 locale. An unparsable tag
// falls back to Korean.
func New(locale string) *Normalizer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Korean
	}
	return &Normalizer{locale: tag}
}

// Normalize derives the discipline index and the flat drawing list. It never
// fails; absent optional members are skipped.
func (n *Normalizer) Normalize(meta *models.Metadata) *models.ProcessedData {
	if meta == nil {
		return models.FallbackProcessedData()
	}

	seen := map[string]struct{}{models.AllDisciplines: {}}
	drawings := make([]models.AppDrawing, 0)

	for _, key := range meta.Drawings.Keys() {
		dwg, _ := meta.Drawings.Get(key)
		drawingID := dwg.DrawingKeyID(key)

		if dwg.HasBaseImage() {
			drawings = append(drawings, models.AppDrawing{
				ID:         models.BaseDrawingID(drawingID),
				DrawingID:  drawingID,
				Name:       dwg.Name,
				Discipline: models.AllDisciplines,
				ImageFile:  NormalizeFilename(dwg.Image),
			})
		}

		for _, discipline := range dwg.Disciplines.Keys() {
			seen[discipline] = struct{}{}
			data, _ := dwg.Disciplines.Get(discipline)
			drawings = append(drawings, disciplineDrawings(drawingID, dwg.Name, discipline, data)...)
		}
	}

	return &models.ProcessedData{
		Disciplines: n.sortDisciplines(seen),
		Drawings:    drawings,
	}
}

func disciplineDrawings(drawingID, drawingName, discipline string, data models.DisciplineData) []models.AppDrawing {
	var out []models.AppDrawing

	if data.Image != "" {
		out = append(out, models.AppDrawing{
			ID:         models.DisciplineBaseID(drawingID, discipline),
			DrawingID:  drawingID,
			Name:       fmt.Sprintf("%s (%s)", drawingName, discipline),
			Discipline: discipline,
			ImageFile:  NormalizeFilename(data.Image),
		})
	}

	for _, rev := range data.Revisions {
		out = append(out, models.AppDrawing{
			ID:         models.RevisionID(drawingID, discipline, rev.Version),
			DrawingID:  drawingID,
			Name:       fmt.Sprintf("%s (%s %s)", drawingName, discipline, rev.Version),
			Discipline: discipline,
			ImageFile:  NormalizeFilename(rev.Image),
		})
	}

	for _, regionKey := range data.Regions.Keys() {
		region, _ := data.Regions.Get(regionKey)
		for _, rev := range region.Revisions {
			out = append(out, models.AppDrawing{
				ID:         models.RegionRevisionID(drawingID, discipline, regionKey, rev.Version),
				DrawingID:  drawingID,
				Name:       fmt.Sprintf("%s (%s %s %s)", drawingName, discipline, regionKey, rev.Version),
				Discipline: discipline,
				ImageFile:  NormalizeFilename(rev.Image),
				RegionKey:  regionKey,
			})
		}
	}

	return out
}

// sortDisciplines puts the ALL sentinel first and orders the rest by locale
// collation. Names the collator considers equal are ordered bytewise so the
// result is stable.
func (n *Normalizer) sortDisciplines(set map[string]struct{}) []string {
	rest := make([]string, 0, len(set))
	for name := range set {
		if name != models.AllDisciplines {
			rest = append(rest, name)
		}
	}

	col := collate.New(n.locale)
	sort.Slice(rest, func(i, j int) bool {
		if c := col.CompareString(rest[i], rest[j]); c != 0 {
			return c < 0
		}
		return rest[i] < rest[j]
	})

	return append([]string{models.AllDisciplines}, rest...)
}

// FilterByDiscipline returns the drawings listed under a discipline. The ALL
// sentinel returns every drawing.
func FilterByDiscipline(drawings []models.AppDrawing, discipline string) []models.AppDrawing {
	if discipline == models.AllDisciplines {
		return drawings
	}
	filtered := make([]models.AppDrawing, 0)
	for _, d := range drawings {
		if d.Discipline == discipline {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

// DrawingIDs returns the ids of drawings in order.
func DrawingIDs(drawings []models.AppDrawing) []string {
	ids := make([]string, len(drawings))
	for i, d := range drawings {
		ids[i] = d.ID
	}
	return ids
}
