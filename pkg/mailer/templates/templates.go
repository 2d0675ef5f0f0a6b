package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	htmpl "html/template"
	"io/fs"
	"reflect"
	"strings"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

const (
	VaultApproved = "vault_approved"
	VaultDenied   = "vault_denied"

	// VaultEvent is the Type stamped on data built by NewVaultEventData.
	VaultEvent = "vault_event"
)

// EmailData is the field set every vault email template can rely on.
type EmailData struct {
	Name           string `json:"Name"`
	Email          string `json:"Email"`
	RecipientEmail string `json:"RecipientEmail"`
	Type           string `json:"Type"`
	AppName        string `json:"AppName"`

	VaultName string    `json:"VaultName"`
	Message   string    `json:"Message"`
	Reason    string    `json:"Reason"`
	Link      string    `json:"Link"`
	Time      string    `json:"Time"`
	TimeAt    time.Time `json:"TimeAt"`
}

// ToMap converts EmailData to the map form carried by EmailJob.Data.
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// set is one email: <name>.subject.tmpl, <name>.text.tmpl and <name>.html.tmpl.
type set struct {
	subject *texttpl.Template
	text    *texttpl.Template
	html    *htmpl.Template
}

var registry = mustLoad(FS)

func funcs() map[string]any {
	return map[string]any{
		"upper":   strings.ToUpper,
		"default": orDefault,
	}
}

// orDefault backs {{ .Value | default "Fallback" }}.
func orDefault(fallback, value any) any {
	if s, ok := value.(string); ok {
		if strings.TrimSpace(s) == "" {
			return fallback
		}
		return s
	}
	if value == nil || reflect.ValueOf(value).IsZero() {
		return fallback
	}
	return value
}

func mustLoad(fsys fs.FS) map[string]set {
	names, err := fs.Glob(fsys, "*.subject.tmpl")
	if err != nil {
		panic(err)
	}
	out := make(map[string]set, len(names))
	for _, n := range names {
		base := strings.TrimSuffix(n, ".subject.tmpl")
		out[base] = set{
			subject: texttpl.Must(texttpl.New(n).Funcs(funcs()).ParseFS(fsys, n)),
			text:    texttpl.Must(texttpl.New(base+".text.tmpl").Funcs(funcs()).ParseFS(fsys, base+".text.tmpl")),
			html:    htmpl.Must(htmpl.New(base+".html.tmpl").Funcs(funcs()).ParseFS(fsys, base+".html.tmpl")),
		}
	}
	return out
}

// Known reports whether name has an embedded template set.
func Known(name string) bool {
	_, ok := registry[name]
	return ok
}

// Render executes the subject, text and html templates of name.
func Render(name string, data any) (subject, text, html string, err error) {
	s, ok := registry[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
	var buf bytes.Buffer
	exec := func(run func() error) (string, error) {
		buf.Reset()
		if err := run(); err != nil {
			return "", fmt.Errorf("render %s: %w", name, err)
		}
		return buf.String(), nil
	}
	if subject, err = exec(func() error { return s.subject.Execute(&buf, data) }); err != nil {
		return "", "", "", err
	}
	if text, err = exec(func() error { return s.text.Execute(&buf, data) }); err != nil {
		return "", "", "", err
	}
	if html, err = exec(func() error { return s.html.Execute(&buf, data) }); err != nil {
		return "", "", "", err
	}
	return strings.TrimSpace(subject), text, html, nil
}
