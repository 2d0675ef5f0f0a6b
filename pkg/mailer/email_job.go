package mailer

// EmailJob is the queue payload consumed by the notification worker. A job
// names a Template rendered with Data, or carries Subject/Text/HTML directly.
type EmailJob struct {
	To       string         `json:"to"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
}
