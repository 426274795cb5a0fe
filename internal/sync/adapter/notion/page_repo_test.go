package notion

import (
	"testing"
	"time"

	"notion-sync/internal/shared/logger"
	"notion-sync/internal/sync/config"
	"notion-sync/internal/sync/domain/model"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRepo() *NotionPageRepository {
	cfg := &config.Config{
		NotionDatabaseID: "db-test",
		TitleProperty:    "Content",
		ScanPageSize:     100,
	}
	return NewNotionPageRepository(notionapi.NewClient("secret_test"), cfg, logger.NewLoggerWithConfig("error", "text"))
}

func TestBuildProperties(t *testing.T) {
	repo := testRepo()
	createdAt := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)

	props := repo.buildProperties(model.PageProperties{
		Title:      "my note",
		CreatedAt:  createdAt,
		Tags:       []string{"alpha", "beta"},
		Category:   "work",
		FirebaseID: "note-1",
	})

	title, ok := props["Content"].(notionapi.TitleProperty)
	require.True(t, ok, "title property must use the configured name")
	require.Len(t, title.Title, 1)
	assert.Equal(t, "my note", title.Title[0].Text.Content)

	date, ok := props[propCreatedAt].(notionapi.DateProperty)
	require.True(t, ok)
	require.NotNil(t, date.Date.Start)
	assert.Equal(t, createdAt, time.Time(*date.Date.Start))

	multi, ok := props[propTags].(notionapi.MultiSelectProperty)
	require.True(t, ok)
	require.Len(t, multi.MultiSelect, 2)
	assert.Equal(t, "alpha", multi.MultiSelect[0].Name)

	sel, ok := props[propCategory].(notionapi.SelectProperty)
	require.True(t, ok)
	assert.Equal(t, "work", sel.Select.Name)

	fid, ok := props[propFirebaseID].(notionapi.RichTextProperty)
	require.True(t, ok)
	require.Len(t, fid.RichText, 1)
	assert.Equal(t, "note-1", fid.RichText[0].Text.Content)
}

func TestBuildProperties_EmptyTags(t *testing.T) {
	repo := testRepo()
	props := repo.buildProperties(model.PageProperties{Title: "x", FirebaseID: "note-1"})

	multi, ok := props[propTags].(notionapi.MultiSelectProperty)
	require.True(t, ok)
	assert.Empty(t, multi.MultiSelect)
}

func TestExtractFirebaseID(t *testing.T) {
	t.Run("reads plain text", func(t *testing.T) {
		page := notionapi.Page{Properties: notionapi.Properties{
			propFirebaseID: &notionapi.RichTextProperty{
				RichText: []notionapi.RichText{{PlainText: "note-42"}},
			},
		}}
		assert.Equal(t, "note-42", ExtractFirebaseID(page))
	})

	t.Run("joins fragments", func(t *testing.T) {
		page := notionapi.Page{Properties: notionapi.Properties{
			propFirebaseID: &notionapi.RichTextProperty{
				RichText: []notionapi.RichText{{PlainText: "note-"}, {PlainText: "42"}},
			},
		}}
		assert.Equal(t, "note-42", ExtractFirebaseID(page))
	})

	t.Run("falls back to text content", func(t *testing.T) {
		page := notionapi.Page{Properties: notionapi.Properties{
			propFirebaseID: notionapi.RichTextProperty{
				RichText: []notionapi.RichText{{Text: &notionapi.Text{Content: "note-7"}}},
			},
		}}
		assert.Equal(t, "note-7", ExtractFirebaseID(page))
	})

	t.Run("absent property yields empty string", func(t *testing.T) {
		page := notionapi.Page{Properties: notionapi.Properties{}}
		assert.Equal(t, "", ExtractFirebaseID(page))
	})

	t.Run("malformed property yields empty string", func(t *testing.T) {
		page := notionapi.Page{Properties: notionapi.Properties{
			propFirebaseID: &notionapi.NumberProperty{Number: 5},
		}}
		assert.Equal(t, "", ExtractFirebaseID(page))
	})

	t.Run("empty rich text yields empty string", func(t *testing.T) {
		page := notionapi.Page{Properties: notionapi.Properties{
			propFirebaseID: &notionapi.RichTextProperty{RichText: []notionapi.RichText{}},
		}}
		assert.Equal(t, "", ExtractFirebaseID(page))
	})
}

func TestPageFromNotion(t *testing.T) {
	page := pageFromNotion(notionapi.Page{
		ID:       notionapi.ObjectID("page-1"),
		Archived: true,
		Properties: notionapi.Properties{
			propFirebaseID: &notionapi.RichTextProperty{
				RichText: []notionapi.RichText{{PlainText: "note-1"}},
			},
		},
	})

	assert.Equal(t, "page-1", page.ID)
	assert.Equal(t, "note-1", page.FirebaseID)
	assert.True(t, page.Archived)
}
