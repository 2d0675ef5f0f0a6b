package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagsNormalize(t *testing.T) {
	tests := []struct {
		name string
		tags Tags
		want []string
	}{
		{"csv trimmed", CSVTags("a, b , c"), []string{"a", "b", "c"}},
		{"list untouched", ListTags([]string{"x", "y"}), []string{"x", "y"}},
		{"list trimmed", ListTags([]string{" x", "y "}), []string{"x", "y"}},
		{"empty csv", CSVTags(""), []string{}},
		{"duplicates dropped", CSVTags("Go,go,Go"), []string{"Go", "go"}},
		{"blank entries dropped", CSVTags("a,, ,b"), []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tags.Normalize())
		})
	}
}

func TestTagsUnmarshal(t *testing.T) {
	var fromString Tags
	require.NoError(t, json.Unmarshal([]byte(`"a,b"`), &fromString))
	assert.True(t, fromString.IsCSV())
	assert.Equal(t, []string{"a", "b"}, fromString.Normalize())

	var fromList Tags
	require.NoError(t, json.Unmarshal([]byte(`["a","b"]`), &fromList))
	assert.True(t, fromList.IsList())

	var bad Tags
	assert.Error(t, json.Unmarshal([]byte(`42`), &bad))
}

func TestDocumentUpdateApply(t *testing.T) {
	var upd DocumentUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"title":"","tags":["x","y"],"content":null}`), &upd))

	_, titleSet := upd.Title.Get()
	assert.True(t, titleSet, "empty title is present, not absent")
	_, contentSet := upd.Content.Get()
	assert.False(t, contentSet, "null content is absent")

	doc := &Document{Title: "keep", Content: "body", Tags: []string{"old"}}
	assert.True(t, upd.Apply(doc))
	assert.Equal(t, "keep", doc.Title)
	assert.Equal(t, "body", doc.Content)
	assert.Equal(t, []string{"x", "y"}, doc.Tags)
}

func TestDocumentUpdateApply_Nothing(t *testing.T) {
	doc := &Document{Title: "t"}
	assert.False(t, DocumentUpdate{}.Apply(doc))
	assert.Equal(t, "t", doc.Title)
}

func TestVaultFull(t *testing.T) {
	v := &Vault{DocumentLimit: 2}
	assert.False(t, v.Full(1))
	assert.True(t, v.Full(2))
	assert.True(t, ValidDocumentLimit(1))
	assert.True(t, ValidDocumentLimit(10))
	assert.False(t, ValidDocumentLimit(0))
	assert.False(t, ValidDocumentLimit(11))
}
