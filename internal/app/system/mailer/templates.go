// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/orkestra-ventures/orkestra/internal/app/system/htmlsanitize"
)

// Field is one labelled value in a notification.
type Field struct {
	Label string
	Value string
}

// SubmissionEmailData holds data for the owner notification sent when a
// public form is submitted.
type SubmissionEmailData struct {
	SiteName string
	Kind     string // "application", "contact message", ...
	Fields   []Field
	Message  string // free text typed by the visitor
	AdminURL string
}

// BuildSubmissionEmail creates an owner notification with both HTML and text bodies.
func BuildSubmissionEmail(data SubmissionEmailData) Email {
	return Email{
		To:       "", // Set by caller
		Subject:  fmt.Sprintf("[%s] New %s", data.SiteName, data.Kind),
		TextBody: buildSubmissionText(data),
		HTMLBody: buildSubmissionHTML(data),
	}
}

func buildSubmissionText(data SubmissionEmailData) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "A new %s was submitted on %s.\n\n", data.Kind, data.SiteName)
	for _, f := range data.Fields {
		if f.Value == "" {
			continue
		}
		fmt.Fprintf(&buf, "%s: %s\n", f.Label, f.Value)
	}
	if data.Message != "" {
		buf.WriteString("\n" + data.Message + "\n")
	}
	if data.AdminURL != "" {
		buf.WriteString("\nReview it in the admin area:\n" + data.AdminURL + "\n")
	}
	return buf.String()
}

var submissionTmpl = template.Must(template.New("submission").Parse(submissionHTMLTemplate))

func buildSubmissionHTML(data SubmissionEmailData) string {
	view := struct {
		SubmissionEmailData
		MessageHTML template.HTML
	}{data, htmlsanitize.PrepareForDisplay(data.Message)}

	var buf bytes.Buffer
	_ = submissionTmpl.Execute(&buf, view)
	return buf.String()
}

const submissionHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>New {{.Kind}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 560px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);">
          <!-- Header -->
          <tr>
            <td style="padding: 32px 32px 24px; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 22px; font-weight: 600; color: #4f46e5;">{{.SiteName}}</h1>
              <p style="margin: 8px 0 0; font-size: 15px; color: #374151;">New {{.Kind}}</p>
            </td>
          </tr>

          <!-- Fields -->
          <tr>
            <td style="padding: 24px 32px;">
              <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
                {{range .Fields}}{{if .Value}}
                <tr>
                  <td style="padding: 6px 12px 6px 0; font-size: 13px; color: #6b7280; white-space: nowrap; vertical-align: top;">{{.Label}}</td>
                  <td style="padding: 6px 0; font-size: 14px; color: #1f2937;">{{.Value}}</td>
                </tr>
                {{end}}{{end}}
              </table>
              {{if .MessageHTML}}
              <div style="margin-top: 20px; padding: 16px; background-color: #f9fafb; border-radius: 6px; font-size: 14px; color: #374151; line-height: 1.5;">{{.MessageHTML}}</div>
              {{end}}
            </td>
          </tr>

          {{if .AdminURL}}
          <!-- Button -->
          <tr>
            <td align="center" style="padding: 0 32px 32px;">
              <a href="{{.AdminURL}}" style="display: inline-block; padding: 12px 28px; background-color: #4f46e5; color: #ffffff; text-decoration: none; font-size: 15px; font-weight: 500; border-radius: 6px;">
                Open admin
              </a>
            </td>
          </tr>
          {{end}}
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
