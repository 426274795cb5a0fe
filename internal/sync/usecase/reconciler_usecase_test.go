package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"notion-sync/internal/shared/errors"
	"notion-sync/internal/shared/logger"
	"notion-sync/internal/sync/config"
	"notion-sync/internal/sync/domain/model"
	"notion-sync/internal/sync/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockNoteRepo is an in-memory source store for reconciler tests
type MockNoteRepo struct {
	notes      []model.Note
	shouldFail bool
}

func (m *MockNoteRepo) ListNotes(ctx context.Context, ownerUID string) ([]model.Note, error) {
	if m.shouldFail {
		return nil, errors.NewInfrastructureError("source store unavailable")
	}
	return m.notes, nil
}

// storedPage is one row inside MockPageRepo
type storedPage struct {
	page  model.Page
	props model.PageProperties
}

// MockPageRepo is an in-memory target store for reconciler tests
type MockPageRepo struct {
	pages []*storedPage
	seq   int

	failLookupFor  map[string]bool
	failCreateFor  map[string]bool
	failArchiveFor map[string]bool

	createCalls  int
	updateCalls  int
	archiveCalls int
}

func NewMockPageRepo() *MockPageRepo {
	return &MockPageRepo{
		failLookupFor:  make(map[string]bool),
		failCreateFor:  make(map[string]bool),
		failArchiveFor: make(map[string]bool),
	}
}

func (m *MockPageRepo) AddPage(firebaseID string, archived bool) *storedPage {
	m.seq++
	sp := &storedPage{
		page: model.Page{
			ID:         fmt.Sprintf("page-%d", m.seq),
			FirebaseID: firebaseID,
			Archived:   archived,
		},
	}
	m.pages = append(m.pages, sp)
	return sp
}

func (m *MockPageRepo) FindByFirebaseID(ctx context.Context, firebaseID string) (*model.Page, error) {
	if m.failLookupFor[firebaseID] {
		return nil, errors.NewInfrastructureError("lookup failed")
	}
	for _, sp := range m.pages {
		if sp.page.FirebaseID == firebaseID {
			page := sp.page
			return &page, nil
		}
	}
	return nil, nil
}

func (m *MockPageRepo) CreatePage(ctx context.Context, props model.PageProperties) (*model.Page, error) {
	if m.failCreateFor[props.FirebaseID] {
		return nil, errors.NewInfrastructureError("create failed")
	}
	m.createCalls++
	sp := m.AddPage(props.FirebaseID, false)
	sp.props = props
	page := sp.page
	return &page, nil
}

func (m *MockPageRepo) UpdatePage(ctx context.Context, pageID string, props model.PageProperties, archived bool) error {
	m.updateCalls++
	for _, sp := range m.pages {
		if sp.page.ID == pageID {
			sp.props = props
			sp.page.FirebaseID = props.FirebaseID
			sp.page.Archived = archived
			return nil
		}
	}
	return errors.ErrPageNotFound
}

func (m *MockPageRepo) ArchivePage(ctx context.Context, pageID string) error {
	for _, sp := range m.pages {
		if sp.page.ID == pageID {
			if m.failArchiveFor[sp.page.FirebaseID] {
				return errors.NewInfrastructureError("archive failed")
			}
			m.archiveCalls++
			sp.page.Archived = true
			return nil
		}
	}
	return errors.ErrPageNotFound
}

func (m *MockPageRepo) ListAllPages(ctx context.Context) ([]model.Page, error) {
	pages := make([]model.Page, 0, len(m.pages))
	for _, sp := range m.pages {
		pages = append(pages, sp.page)
	}
	return pages, nil
}

func (m *MockPageRepo) rowsFor(firebaseID string) []*storedPage {
	var rows []*storedPage
	for _, sp := range m.pages {
		if sp.page.FirebaseID == firebaseID {
			rows = append(rows, sp)
		}
	}
	return rows
}

func testConfig() *config.Config {
	return &config.Config{
		NotionDatabaseID: "db-test",
		TitleProperty:    "Content",
		RequestDelay:     0,
		ScanPageSize:     100,
	}
}

func newReconciler(notes *MockNoteRepo, pages *MockPageRepo) *usecase.ReconcilerUsecase {
	return usecase.NewReconcilerUsecase(notes, pages, testConfig(), logger.NewLoggerWithConfig("error", "text"))
}

func TestUpsert_CreatesRowForUnseenIdentifier(t *testing.T) {
	pages := NewMockPageRepo()
	uc := newReconciler(&MockNoteRepo{}, pages)

	outcome, err := uc.Upsert(context.Background(), model.Note{ID: "note-A", Content: "hello"})
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeCreated, outcome)

	rows := pages.rowsFor("note-A")
	require.Len(t, rows, 1)
	assert.Equal(t, "note-A", rows[0].props.FirebaseID)
	assert.False(t, rows[0].page.Archived)
}

func TestUpsert_UpdatesExistingRowInPlace(t *testing.T) {
	pages := NewMockPageRepo()
	uc := newReconciler(&MockNoteRepo{}, pages)

	_, err := uc.Upsert(context.Background(), model.Note{ID: "note-A", Content: "v1"})
	require.NoError(t, err)

	outcome, err := uc.Upsert(context.Background(), model.Note{ID: "note-A", Content: "v2"})
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeUpdated, outcome)

	rows := pages.rowsFor("note-A")
	require.Len(t, rows, 1, "row count for the identifier must remain one")
	assert.Equal(t, "v2", rows[0].props.Title)
}

func TestUpsert_UnarchivesWhenIdentifierReappears(t *testing.T) {
	pages := NewMockPageRepo()
	pages.AddPage("note-A", true)
	uc := newReconciler(&MockNoteRepo{}, pages)

	outcome, err := uc.Upsert(context.Background(), model.Note{ID: "note-A", Content: "back"})
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeUpdated, outcome)

	rows := pages.rowsFor("note-A")
	require.Len(t, rows, 1)
	assert.False(t, rows[0].page.Archived, "archived flag must be cleared on update")
}

func TestRun_ArchivesStaleRowsOnly(t *testing.T) {
	notes := &MockNoteRepo{notes: []model.Note{
		{ID: "note-A", Content: "alive"},
	}}
	pages := NewMockPageRepo()
	pages.AddPage("note-A", false)
	pages.AddPage("note-stale", false)
	pages.AddPage("", false) // unmanaged, no firebase_id

	uc := newReconciler(notes, pages)
	report, err := uc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.RunStateDone, report.State)
	assert.Equal(t, 1, report.Archived)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 0, report.Failed)

	assert.False(t, pages.rowsFor("note-A")[0].page.Archived)
	assert.True(t, pages.rowsFor("note-stale")[0].page.Archived)
	assert.False(t, pages.rowsFor("")[0].page.Archived, "sweep must never touch unmanaged rows")
}

func TestRun_EndToEndScenario(t *testing.T) {
	// Source has {A, B}; target has rows for {A, C}. After the run A
	// is updated, B is created, C is archived.
	notes := &MockNoteRepo{notes: []model.Note{
		{ID: "note-A", Content: "a-content"},
		{ID: "note-B", Content: "b-content"},
	}}
	pages := NewMockPageRepo()
	pages.AddPage("note-A", false)
	pages.AddPage("note-C", false)

	uc := newReconciler(notes, pages)
	report, err := uc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.RunStateDone, report.State)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 1, report.Archived)
	assert.Equal(t, 0, report.Failed)

	assert.Len(t, pages.rowsFor("note-A"), 1)
	assert.Len(t, pages.rowsFor("note-B"), 1)
	assert.True(t, pages.rowsFor("note-C")[0].page.Archived)
}

func TestRun_PerItemFailuresDoNotAbort(t *testing.T) {
	notes := &MockNoteRepo{notes: []model.Note{
		{ID: "note-bad", Content: "x"},
		{ID: "note-good", Content: "y"},
	}}
	pages := NewMockPageRepo()
	pages.failCreateFor["note-bad"] = true
	pages.AddPage("note-stale-bad", false)
	pages.AddPage("note-stale-ok", false)
	pages.failArchiveFor["note-stale-bad"] = true

	uc := newReconciler(notes, pages)
	report, err := uc.Run(context.Background())
	require.NoError(t, err, "per-item failures must not abort the run")

	assert.Equal(t, model.RunStateDone, report.State)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Archived)
	assert.Equal(t, 2, report.Failed)

	assert.Len(t, pages.rowsFor("note-good"), 1)
	assert.True(t, pages.rowsFor("note-stale-ok")[0].page.Archived)
}

func TestRun_SourceFetchFailureIsFatal(t *testing.T) {
	uc := newReconciler(&MockNoteRepo{shouldFail: true}, NewMockPageRepo())

	report, err := uc.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, model.RunStateFailed, report.State)
	assert.True(t, report.State.Terminal())
}

func TestRun_AlreadyArchivedStaleRowIsLeftAlone(t *testing.T) {
	pages := NewMockPageRepo()
	pages.AddPage("note-gone", true)

	uc := newReconciler(&MockNoteRepo{}, pages)
	report, err := uc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, report.Archived)
	assert.Equal(t, 0, pages.archiveCalls)
}

func TestRun_CancelledContextAbortsRun(t *testing.T) {
	notes := &MockNoteRepo{notes: []model.Note{{ID: "note-A"}}}
	uc := usecase.NewReconcilerUsecase(notes, NewMockPageRepo(), &config.Config{RequestDelay: 1}, logger.NewLoggerWithConfig("error", "text"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := uc.Run(ctx)
	require.Error(t, err)
	assert.Equal(t, model.RunStateFailed, report.State)
}
