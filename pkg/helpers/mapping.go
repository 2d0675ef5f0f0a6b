package helpers

import (
	"fmt"
	"strings"

	"github.com/oksasatya/docvault-api/pkg/mailer"
	mailtpl "github.com/oksasatya/docvault-api/pkg/mailer/templates"
)

// SubjectFor is the fallback subject when a job carries neither a subject nor a
// renderable template.
func SubjectFor(template string) string {
	switch strings.ToLower(template) {
	case mailtpl.VaultApproved:
		return "Your vault request was approved"
	case mailtpl.VaultDenied:
		return "Your vault request was denied"
	default:
		return "Notification"
	}
}

// EnsureRecipientAndEmail copies job.To into the template data when the
// producer left the address fields blank.
func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}
