// internal/app/features/public/submit.go
package public

import (
	"context"

	"github.com/orkestra-ventures/orkestra/internal/app/system/mailer"
	"github.com/orkestra-ventures/orkestra/internal/app/system/notify"
	"github.com/orkestra-ventures/orkestra/internal/app/system/rpc"
	"github.com/orkestra-ventures/orkestra/internal/domain/models"
	"go.uber.org/zap"
)

// submitApplication stores a program application and tells the owner.
// Visitors cannot choose the review status or write admin notes.
func (h *Handler) submitApplication(ctx context.Context, c *rpc.Call) (any, error) {
	var in models.ApplicationInput
	if err := c.Bind(&in); err != nil {
		return nil, err
	}
	in.Status = ""
	in.Notes = ""

	app, err := h.Applications.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	h.Audit.FormSubmitted(ctx, c.Request, "applications", app.ID)
	h.enqueue(notify.Message{
		Kind:     "application",
		Resource: "applications",
		RecordID: app.ID,
		Fields: []mailer.Field{
			{Label: "Name", Value: app.FullName},
			{Label: "Email", Value: app.Email},
			{Label: "Phone", Value: app.Phone},
			{Label: "Location", Value: app.City + ", " + app.Country},
			{Label: "Track", Value: app.Track},
			{Label: "Career path", Value: app.CareerPath},
			{Label: "LinkedIn", Value: app.LinkedInURL},
		},
		Text: app.Motivation,
	})
	return rpc.OK, nil
}

// submitContact stores a contact-form message and tells the owner.
func (h *Handler) submitContact(ctx context.Context, c *rpc.Call) (any, error) {
	var in models.ContactInput
	if err := c.Bind(&in); err != nil {
		return nil, err
	}
	in.Status = ""

	msg, err := h.Contacts.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	h.Audit.FormSubmitted(ctx, c.Request, "contacts", msg.ID)
	h.enqueue(notify.Message{
		Kind:     "contact message",
		Resource: "contacts",
		RecordID: msg.ID,
		Fields: []mailer.Field{
			{Label: "Name", Value: msg.Name},
			{Label: "Email", Value: msg.Email},
			{Label: "Phone", Value: msg.Phone},
			{Label: "Company", Value: msg.Company},
			{Label: "Inquiry", Value: msg.InquiryType},
			{Label: "Subject", Value: msg.Subject},
		},
		Text: msg.Message,
	})
	return rpc.OK, nil
}

// enqueue never fails the submission; a full queue only costs the notification.
func (h *Handler) enqueue(m notify.Message) {
	if h.Notify == nil {
		return
	}
	if !h.Notify.Enqueue(m) {
		h.Log.Warn("owner notification dropped",
			zap.String("resource", m.Resource),
			zap.Int64("id", m.RecordID))
	}
}
