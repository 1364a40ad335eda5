// internal/app/features/public/newsletter.go
package public

import (
	"context"
	"errors"

	"github.com/orkestra-ventures/orkestra/internal/app/store/entity"
	newsletterstore "github.com/orkestra-ventures/orkestra/internal/app/store/newsletter"
	"github.com/orkestra-ventures/orkestra/internal/app/system/rpc"
	"github.com/orkestra-ventures/orkestra/internal/domain/models"
)

const alreadySubscribedMsg = "This email is already subscribed to our newsletter."

// subscribe reports a duplicate active signup as an unsuccessful result,
// not as an error.
func (h *Handler) subscribe(ctx context.Context, c *rpc.Call) (any, error) {
	var in models.NewsletterInput
	if err := c.Bind(&in); err != nil {
		return nil, err
	}
	if in.Source == "" {
		in.Source = "website"
	}

	sub, err := h.Newsletter.Subscribe(ctx, in)
	if errors.Is(err, newsletterstore.ErrAlreadySubscribed) {
		return rpc.Success{Success: false, Error: alreadySubscribedMsg}, nil
	}
	if err != nil {
		return nil, err
	}
	h.Audit.Subscribed(ctx, c.Request, sub.ID)
	return rpc.OK, nil
}

// unsubscribe answers the same way whether or not the address was
// subscribed, so the endpoint cannot be used to test list membership.
func (h *Handler) unsubscribe(ctx context.Context, c *rpc.Call) (any, error) {
	var in models.UnsubscribeInput
	if err := c.Bind(&in); err != nil {
		return nil, err
	}

	err := h.Newsletter.Unsubscribe(ctx, in.Email)
	found := err == nil
	if err != nil && !errors.Is(err, entity.ErrNotFound) {
		return nil, err
	}
	h.Audit.Unsubscribed(ctx, c.Request, found)
	return rpc.OK, nil
}
