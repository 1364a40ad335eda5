// internal/app/features/public/pages.go
package public

import (
	"context"

	"github.com/orkestra-ventures/orkestra/internal/app/system/rpc"
	"github.com/orkestra-ventures/orkestra/internal/domain/models"
)

// pageBySlug returns a published page. Drafts and archived pages are
// reported as not found.
func (h *Handler) pageBySlug(ctx context.Context, c *rpc.Call) (any, error) {
	var in models.SlugInput
	if err := c.Bind(&in); err != nil {
		return nil, err
	}
	return h.WebPages.GetPublishedBySlug(ctx, in.Slug)
}
