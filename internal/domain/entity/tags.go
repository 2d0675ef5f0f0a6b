package entity

import (
	"encoding/json"
	"errors"
	"strings"
)

type tagsForm uint8

const (
	tagsCSV tagsForm = iota + 1
	tagsList
)

// Tags is what clients send for a tag set: either a comma-separated string or
// an already split list. Normalize turns both into the stored form.
type Tags struct {
	form tagsForm
	csv  string
	list []string
}

var errTagsShape = errors.New("tags must be a string or an array of strings")

func CSVTags(s string) Tags       { return Tags{form: tagsCSV, csv: s} }
func ListTags(list []string) Tags { return Tags{form: tagsList, list: list} }
func (t Tags) IsCSV() bool        { return t.form == tagsCSV }
func (t Tags) IsList() bool       { return t.form == tagsList }

// Normalize trims every tag, drops empty ones and removes duplicates while
// keeping first-seen order. Case is preserved.
func (t Tags) Normalize() []string {
	var raw []string
	switch t.form {
	case tagsCSV:
		raw = strings.Split(t.csv, ",")
	case tagsList:
		raw = t.list
	}
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, tag := range raw {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func (t *Tags) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = CSVTags(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*t = ListTags(list)
		return nil
	}
	return errTagsShape
}

func (t Tags) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Normalize())
}
