package notion

import (
	"context"
	"fmt"
	"time"

	"notion-sync/internal/shared/logger"
	"notion-sync/internal/shared/utils"
	"notion-sync/internal/sync/config"
	"notion-sync/internal/sync/domain/model"

	"github.com/jomei/notionapi"
	"go.uber.org/zap"
)

// Fixed property names in the target database. The title property
// name is configurable because Notion renames it with the database.
const (
	propCreatedAt  = "created_at"
	propTags       = "tags"
	propCategory   = "category"
	propFirebaseID = "firebase_id"
)

// NotionPageRepository implements the PageRepository interface against
// the Notion API. All calls are sequential; pagination fetches are
// paced to respect the API rate limit.
type NotionPageRepository struct {
	client        *notionapi.Client
	databaseID    notionapi.DatabaseID
	titleProperty string
	pageSize      int
	pageDelay     time.Duration
	logger        logger.Logger
}

// NewNotionPageRepository creates a new Notion-backed page repository
func NewNotionPageRepository(client *notionapi.Client, cfg *config.Config, log logger.Logger) *NotionPageRepository {
	return &NotionPageRepository{
		client:        client,
		databaseID:    notionapi.DatabaseID(cfg.NotionDatabaseID),
		titleProperty: cfg.TitleProperty,
		pageSize:      cfg.ScanPageSize,
		pageDelay:     cfg.RequestDelay,
		logger:        log.WithComponent("notion"),
	}
}

// FindByFirebaseID queries for the row whose firebase_id equals the
// given identifier, returning the first result of a size-1 page or
// (nil, nil) when nothing matches.
func (r *NotionPageRepository) FindByFirebaseID(ctx context.Context, firebaseID string) (*model.Page, error) {
	resp, err := r.client.Database.Query(ctx, r.databaseID, &notionapi.DatabaseQueryRequest{
		Filter: notionapi.PropertyFilter{
			Property: propFirebaseID,
			RichText: &notionapi.TextFilterCondition{Equals: firebaseID},
		},
		PageSize: 1,
	})
	if err != nil {
		r.logger.Error("Failed to query page by firebase_id",
			zap.String("firebaseID", firebaseID),
			zap.Error(err))
		return nil, fmt.Errorf("notion query failed: %w", err)
	}

	if len(resp.Results) == 0 {
		return nil, nil
	}

	page := pageFromNotion(resp.Results[0])
	return &page, nil
}

// CreatePage creates a new row in the target database.
func (r *NotionPageRepository) CreatePage(ctx context.Context, props model.PageProperties) (*model.Page, error) {
	created, err := r.client.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: r.databaseID,
		},
		Properties: r.buildProperties(props),
	})
	if err != nil {
		r.logger.Error("Failed to create page",
			zap.String("firebaseID", props.FirebaseID),
			zap.Error(err))
		return nil, fmt.Errorf("notion create failed: %w", err)
	}

	r.logger.Debug("Page created",
		zap.String("pageID", created.ID.String()),
		zap.String("firebaseID", props.FirebaseID))

	page := pageFromNotion(*created)
	return &page, nil
}

// UpdatePage replaces the row's properties and sets its archived
// flag. The archived flag is always sent, so archived=false restores
// a previously archived row.
func (r *NotionPageRepository) UpdatePage(ctx context.Context, pageID string, props model.PageProperties, archived bool) error {
	_, err := r.client.Page.Update(ctx, notionapi.PageID(pageID), &notionapi.PageUpdateRequest{
		Properties: r.buildProperties(props),
		Archived:   archived,
	})
	if err != nil {
		r.logger.Error("Failed to update page",
			zap.String("pageID", pageID),
			zap.String("firebaseID", props.FirebaseID),
			zap.Error(err))
		return fmt.Errorf("notion update failed: %w", err)
	}
	return nil
}

// ArchivePage soft-deletes a row. Notion never physically removes it.
func (r *NotionPageRepository) ArchivePage(ctx context.Context, pageID string) error {
	_, err := r.client.Page.Update(ctx, notionapi.PageID(pageID), &notionapi.PageUpdateRequest{
		Properties: notionapi.Properties{},
		Archived:   true,
	})
	if err != nil {
		r.logger.Error("Failed to archive page",
			zap.String("pageID", pageID),
			zap.Error(err))
		return fmt.Errorf("notion archive failed: %w", err)
	}
	return nil
}

// ListAllPages paginates through the whole database, page size capped
// at 100, following the cursor while has_more is set. A fixed delay
// between fetches keeps the scan inside the API rate limit.
func (r *NotionPageRepository) ListAllPages(ctx context.Context) ([]model.Page, error) {
	var pages []model.Page
	var cursor notionapi.Cursor

	for {
		resp, err := r.client.Database.Query(ctx, r.databaseID, &notionapi.DatabaseQueryRequest{
			StartCursor: cursor,
			PageSize:    r.pageSize,
		})
		if err != nil {
			r.logger.Error("Failed to scan target database",
				zap.String("cursor", string(cursor)),
				zap.Error(err))
			return nil, fmt.Errorf("notion scan failed: %w", err)
		}

		for _, result := range resp.Results {
			pages = append(pages, pageFromNotion(result))
		}

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor

		if err := utils.Pace(ctx, r.pageDelay); err != nil {
			return nil, fmt.Errorf("scan cancelled: %w", err)
		}
	}

	r.logger.Debug("Target scan complete", zap.Int("pages", len(pages)))
	return pages, nil
}

// buildProperties translates the mapped property set to the Notion
// wire representation.
func (r *NotionPageRepository) buildProperties(props model.PageProperties) notionapi.Properties {
	tags := make([]notionapi.Option, 0, len(props.Tags))
	for _, tag := range props.Tags {
		tags = append(tags, notionapi.Option{Name: tag})
	}

	start := notionapi.Date(props.CreatedAt)

	return notionapi.Properties{
		r.titleProperty: notionapi.TitleProperty{
			Title: []notionapi.RichText{{Text: &notionapi.Text{Content: props.Title}}},
		},
		propCreatedAt: notionapi.DateProperty{
			Date: &notionapi.DateObject{Start: &start},
		},
		propTags: notionapi.MultiSelectProperty{
			MultiSelect: tags,
		},
		propCategory: notionapi.SelectProperty{
			Select: notionapi.Option{Name: props.Category},
		},
		propFirebaseID: notionapi.RichTextProperty{
			RichText: []notionapi.RichText{{Text: &notionapi.Text{Content: props.FirebaseID}}},
		},
	}
}

// pageFromNotion maps an API page to the domain representation.
func pageFromNotion(page notionapi.Page) model.Page {
	return model.Page{
		ID:         page.ID.String(),
		FirebaseID: ExtractFirebaseID(page),
		Archived:   page.Archived,
	}
}

// ExtractFirebaseID pulls the reconciliation key out of a page's
// firebase_id rich-text property. It returns the empty string when
// the property is absent or malformed; such rows are unmanaged and
// the sweep skips them.
func ExtractFirebaseID(page notionapi.Page) string {
	prop, ok := page.Properties[propFirebaseID]
	if !ok {
		return ""
	}

	var richText []notionapi.RichText
	switch p := prop.(type) {
	case *notionapi.RichTextProperty:
		richText = p.RichText
	case notionapi.RichTextProperty:
		richText = p.RichText
	default:
		return ""
	}

	var id string
	for _, rt := range richText {
		if rt.PlainText != "" {
			id += rt.PlainText
		} else if rt.Text != nil {
			id += rt.Text.Content
		}
	}
	return id
}
