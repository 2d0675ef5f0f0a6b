package templates

import (
	"strings"
	"time"
)

// Option pattern
type Option func(*EmailData)

func WithLink(link string) Option {
	return func(d *EmailData) {
		if s := strings.TrimSpace(link); s != "" {
			d.Link = s
		}
	}
}

func WithReason(reason string) Option { return func(d *EmailData) { d.Reason = reason } }

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func newEmailData(typ, appName, name, vaultName, message string, opts ...Option) EmailData {
	d := EmailData{
		Name:      name,
		Type:      typ,
		AppName:   appName,
		VaultName: vaultName,
		Message:   message,
	}
	WithTime(time.Now())(&d)
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// NewVaultEventData builds the job data for a vault lifecycle email. The
// recipient address is filled in from the job by the worker.
func NewVaultEventData(appName, name, vaultName, message string, opts ...Option) map[string]any {
	return ToMap(newEmailData(VaultEvent, appName, name, vaultName, message, opts...))
}
