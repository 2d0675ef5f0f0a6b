package entity

import "time"

type DocumentMetadata struct {
	Author     string    `json:"author,omitempty"`
	UploadedBy string    `json:"uploadedBy,omitempty"`
	UploadDate time.Time `json:"uploadDate"`
}

type Document struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	VaultID   string           `json:"vaultId"`
	Title     string           `json:"title"`
	Content   string           `json:"content"`
	FileURL   string           `json:"fileUrl"`
	Tags      []string         `json:"tags"`
	Metadata  DocumentMetadata `json:"metadata"`
	CreatedAt time.Time        `json:"createdAt"`
}

// DocumentUpdate is a partial update. A field is applied only when it is set;
// empty strings for Title, Content and FileURL also leave the stored value alone.
type DocumentUpdate struct {
	Title   Optional[string] `json:"title"`
	Tags    Optional[Tags]   `json:"tags"`
	Content Optional[string] `json:"content"`
	FileURL Optional[string] `json:"fileUrl"`
}

// Apply mutates d according to u and reports whether anything changed.
func (u DocumentUpdate) Apply(d *Document) bool {
	changed := false
	if v, ok := u.Title.Get(); ok && v != "" {
		d.Title = v
		changed = true
	}
	if v, ok := u.Tags.Get(); ok {
		d.Tags = v.Normalize()
		changed = true
	}
	if v, ok := u.Content.Get(); ok && v != "" {
		d.Content = v
		changed = true
	}
	if v, ok := u.FileURL.Get(); ok && v != "" {
		d.FileURL = v
		changed = true
	}
	return changed
}
