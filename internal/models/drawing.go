package models

// AllDisciplines is the discipline sentinel that matches every drawing.
const AllDisciplines = "전체"

// AppDrawing is a single selectable and viewable drawing entry derived from
// the nested metadata tree.
type AppDrawing struct {
	ID         string `json:"id"`
	DrawingID  string `json:"drawingId"`
	Name       string `json:"name"`
	Discipline string `json:"discipline"`
	ImageFile  string `json:"imageFile"`
	RegionKey  string `json:"regionKey,omitempty"`
}

// ProcessedData is the flat view of a metadata document.
type ProcessedData struct {
	Disciplines []string     `json:"disciplines"`
	Drawings    []AppDrawing `json:"drawings"`
}

// FallbackProcessedData is served when the metadata document could not be loaded.
func FallbackProcessedData() *ProcessedData {
	return &ProcessedData{
		Disciplines: []string{AllDisciplines},
		Drawings:    []AppDrawing{},
	}
}

// FindDrawing returns the drawing with the given id, or nil.
func (p *ProcessedData) FindDrawing(id string) *AppDrawing {
	if p == nil {
		return nil
	}
	for i := range p.Drawings {
		if p.Drawings[i].ID == id {
			return &p.Drawings[i]
		}
	}
	return nil
}

// HasDiscipline reports whether the discipline index contains name.
func (p *ProcessedData) HasDiscipline(name string) bool {
	if p == nil {
		return false
	}
	for _, d := range p.Disciplines {
		if d == name {
			return true
		}
	}
	return false
}
