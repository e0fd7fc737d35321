package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"drawing-service/internal/metrics"
	"drawing-service/internal/models"
	"drawing-service/internal/normalizer"
	"drawing-service/internal/repository"
	"drawing-service/internal/revisions"
	"drawing-service/internal/selection"
)

var (
	ErrDrawingNotFound   = errors.New("drawing not found")
	ErrUnknownDiscipline = errors.New("unknown discipline")
)

const (
	NoDisciplineLabel = "공종 미선택"
	NoDrawingLabel    = "도면 미선택"
)

// Catalog provides the current catalog snapshot.
type Catalog interface {
	Snapshot() (CatalogSnapshot, bool)
}

// ViewerService applies selection events to viewer sessions.
type ViewerService struct {
	catalog  Catalog
	sessions repository.SessionRepository
	ttl      time.Duration
	metrics  *metrics.Metrics

	// Serializes read-reconcile-write of every transition.
	mu sync.Mutex
}

// ViewerHeader is the context line shown above the viewer.
type ViewerHeader struct {
	Discipline  string `json:"discipline"`
	DrawingName string `json:"drawingName"`
}

// ViewerState is everything a client needs to render one session.
type ViewerState struct {
	Session     models.ViewerSession  `json:"session"`
	Disciplines []string              `json:"disciplines"`
	Drawings    []models.AppDrawing   `json:"drawings"`
	Selected    []models.AppDrawing   `json:"selected"`
	Primary     *models.AppDrawing    `json:"primary"`
	Header      ViewerHeader          `json:"header"`
	Layout      [][]models.AppDrawing `json:"layout"`
	Revisions   []models.Revision     `json:"revisions"`
}

func NewViewerService(catalog Catalog, sessions repository.SessionRepository, ttl time.Duration, m *metrics.Metrics) *ViewerService {
	return &ViewerService{
		catalog:  catalog,
		sessions: sessions,
		ttl:      ttl,
		metrics:  m,
	}
}

// CreateSession starts a session on the ALL discipline with nothing selected.
func (s *ViewerService) CreateSession(ctx context.Context) (*ViewerState, error) {
	catalog, ok := s.catalog.Snapshot()
	if !ok {
		return nil, ErrMetadataLoading
	}

	session := &models.ViewerSession{
		ID:                uuid.NewString(),
		Discipline:        models.AllDisciplines,
		SelectedIDs:       []string{},
		CatalogGeneration: catalog.Generation,
		UpdatedAt:         time.Now(),
	}
	if err := s.sessions.Save(ctx, session, s.ttl); err != nil {
		return nil, errors.Wrap(err, "could not create session")
	}
	s.publishSessionCount(ctx)
	return s.view(catalog, session), nil
}

// GetView renders the current state of a session, first reconciling it
// against a reloaded catalog.
func (s *ViewerService) GetView(ctx context.Context, id string) (*ViewerState, error) {
	return s.transition(ctx, id, "", nil)
}

// SelectDiscipline switches the drawing list filter and reconciles the selection.
func (s *ViewerService) SelectDiscipline(ctx context.Context, id, discipline string) (*ViewerState, error) {
	return s.transition(ctx, id, "discipline_changed", func(data *models.ProcessedData, session *models.ViewerSession) (selection.Event, error) {
		if !data.HasDiscipline(discipline) {
			return nil, errors.Wrapf(ErrUnknownDiscipline, "%q", discipline)
		}
		session.Discipline = discipline
		return disciplineChanged(data, discipline), nil
	})
}

func (s *ViewerService) ToggleCompareMode(ctx context.Context, id string) (*ViewerState, error) {
	return s.transition(ctx, id, "compare_toggled", func(*models.ProcessedData, *models.ViewerSession) (selection.Event, error) {
		return selection.CompareModeToggled{}, nil
	})
}

// ClickDrawing selects or deselects a drawing of the session's current list.
func (s *ViewerService) ClickDrawing(ctx context.Context, id, drawingID string) (*ViewerState, error) {
	return s.transition(ctx, id, "drawing_clicked", func(data *models.ProcessedData, session *models.ViewerSession) (selection.Event, error) {
		filtered := normalizer.FilterByDiscipline(data.Drawings, session.Discipline)
		for _, drawing := range filtered {
			if drawing.ID == drawingID {
				return selection.DrawingClicked{ID: drawingID}, nil
			}
		}
		return nil, errors.Wrapf(ErrDrawingNotFound, "%q in discipline %q", drawingID, session.Discipline)
	})
}

func (s *ViewerService) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.sessions.Get(ctx, id); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "could not delete session")
	}
	s.publishSessionCount(ctx)
	return nil
}

type eventBuilder func(data *models.ProcessedData, session *models.ViewerSession) (selection.Event, error)

// transition reconciles the session with the current catalog, then applies
// the event from build. A nil build only reconciles.
func (s *ViewerService) transition(ctx context.Context, id, kind string, build eventBuilder) (*ViewerState, error) {
	catalog, ok := s.catalog.Snapshot()
	if !ok {
		return nil, ErrMetadataLoading
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	changed := false
	if session.CatalogGeneration != catalog.Generation {
		if !catalog.Processed.HasDiscipline(session.Discipline) {
			session.Discipline = models.AllDisciplines
		}
		apply(session, disciplineChanged(catalog.Processed, session.Discipline))
		session.CatalogGeneration = catalog.Generation
		s.metrics.RecordSelectionEvent("catalog_reloaded")
		changed = true
	}

	if build != nil {
		event, err := build(catalog.Processed, session)
		if err != nil {
			return nil, err
		}
		apply(session, event)
		s.metrics.RecordSelectionEvent(kind)
		changed = true
	}

	if changed {
		session.UpdatedAt = time.Now()
		if err := s.sessions.Save(ctx, session, s.ttl); err != nil {
			return nil, errors.Wrap(err, "could not save session")
		}
	}
	return s.view(catalog, session), nil
}

func disciplineChanged(data *models.ProcessedData, discipline string) selection.DisciplineChanged {
	filtered := normalizer.FilterByDiscipline(data.Drawings, discipline)
	return selection.DisciplineChanged{Filtered: normalizer.DrawingIDs(filtered)}
}

func apply(session *models.ViewerSession, event selection.Event) {
	next := selection.Reconcile(selection.State{
		SelectedIDs:   session.SelectedIDs,
		IsCompareMode: session.IsCompareMode,
	}, event)
	session.SelectedIDs = next.SelectedIDs
	session.IsCompareMode = next.IsCompareMode
}

func (s *ViewerService) view(catalog CatalogSnapshot, session *models.ViewerSession) *ViewerState {
	data := catalog.Processed
	state := &ViewerState{
		Session:     *session,
		Disciplines: data.Disciplines,
		Drawings:    normalizer.FilterByDiscipline(data.Drawings, session.Discipline),
		Selected:    make([]models.AppDrawing, 0, len(session.SelectedIDs)),
		Header:      ViewerHeader{Discipline: NoDisciplineLabel, DrawingName: NoDrawingLabel},
		Layout:      [][]models.AppDrawing{},
		Revisions:   []models.Revision{},
	}

	for _, id := range session.SelectedIDs {
		if drawing := data.FindDrawing(id); drawing != nil {
			state.Selected = append(state.Selected, *drawing)
		}
	}
	if len(state.Selected) == 0 {
		return state
	}

	primary := state.Selected[0]
	state.Primary = &primary
	state.Header = ViewerHeader{Discipline: primary.Discipline, DrawingName: primary.Name}

	if session.IsCompareMode {
		state.Layout = CompareLayout(state.Selected)
	} else {
		state.Layout = [][]models.AppDrawing{{primary}}
	}

	if catalog.Raw != nil {
		state.Revisions = revisions.Resolve(&primary, catalog.Raw)
	}
	return state
}

// CompareLayout arranges drawings in rows of two, in selection order.
func CompareLayout(drawings []models.AppDrawing) [][]models.AppDrawing {
	rows := make([][]models.AppDrawing, 0, (len(drawings)+1)/2)
	for i := 0; i < len(drawings); i += 2 {
		end := i + 2
		if end > len(drawings) {
			end = len(drawings)
		}
		rows = append(rows, drawings[i:end])
	}
	return rows
}

func (s *ViewerService) publishSessionCount(ctx context.Context) {
	if n, err := s.sessions.Count(ctx); err == nil {
		s.metrics.SetActiveSessions(n)
	}
}
