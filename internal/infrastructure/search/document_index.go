// Package search mirrors documents into Elasticsearch for full-text lookup.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/docvault-api/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

type DocumentIndex struct {
	ES        *elasticsearch.Client
	IndexName string
}

func NewDocumentIndex(es *elasticsearch.Client, index string) *DocumentIndex {
	return &DocumentIndex{ES: es, IndexName: index}
}

// indexedDocument is the stored _source. Content is indexed for matching.
type indexedDocument struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	VaultID   string    `json:"vault_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	FileURL   string    `json:"file_url"`
	Tags      []string  `json:"tags"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toIndexed(d *entity.Document) indexedDocument {
	return indexedDocument{
		ID:        d.ID,
		UserID:    d.UserID,
		VaultID:   d.VaultID,
		Title:     d.Title,
		Content:   d.Content,
		FileURL:   d.FileURL,
		Tags:      d.Tags,
		Author:    d.Metadata.Author,
		CreatedAt: d.CreatedAt,
	}
}

func (x indexedDocument) document() entity.Document {
	return entity.Document{
		ID:        x.ID,
		UserID:    x.UserID,
		VaultID:   x.VaultID,
		Title:     x.Title,
		Content:   x.Content,
		FileURL:   x.FileURL,
		Tags:      x.Tags,
		Metadata:  entity.DocumentMetadata{Author: x.Author},
		CreatedAt: x.CreatedAt,
	}
}

// documentMapping keeps ids and tags exact and leaves title/content analyzed.
const documentMapping = `{
  "mappings": {
    "properties": {
      "id":         {"type": "keyword"},
      "user_id":    {"type": "keyword"},
      "vault_id":   {"type": "keyword"},
      "title":      {"type": "text"},
      "content":    {"type": "text"},
      "file_url":   {"type": "keyword", "index": false},
      "tags":       {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "author":     {"type": "text"},
      "created_at": {"type": "date"}
    }
  }
}`

// EnsureIndex creates the index with its mapping unless it already exists.
func (i *DocumentIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	exists, err := esapi.IndicesExistsRequest{Index: []string{i.IndexName}}.Do(c, i.ES)
	if err != nil {
		return err
	}
	_ = exists.Body.Close()
	if exists.StatusCode == http.StatusOK {
		return nil
	}
	res, err := esapi.IndicesCreateRequest{Index: i.IndexName, Body: strings.NewReader(documentMapping)}.Do(c, i.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	// a concurrent creator wins the race with resource_already_exists_exception
	if res.IsError() && res.StatusCode != http.StatusBadRequest {
		return fmt.Errorf("es create index %s: %s", i.IndexName, res.Status())
	}
	return nil
}

func (i *DocumentIndex) Index(ctx context.Context, d *entity.Document) error {
	b, err := json.Marshal(toIndexed(d))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: i.IndexName, DocumentID: d.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, i.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index %s: %s", d.ID, res.Status())
	}
	return nil
}

// Remove deletes the document from the index; a missing entry is not an error.
func (i *DocumentIndex) Remove(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: i.IndexName, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, i.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("es delete %s: %s", id, res.Status())
	}
	return nil
}

// Search runs a multi_match over title, tags and content, title weighted highest.
func (i *DocumentIndex) Search(ctx context.Context, q string, size int) ([]entity.Document, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^3", "tags^2", "content"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := i.ES.Search(i.ES.Search.WithContext(c), i.ES.Search.WithIndex(i.IndexName), i.ES.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string          `json:"_id"`
				Source indexedDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]entity.Document, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		d := h.Source.document()
		if d.ID == "" {
			d.ID = h.ID
		}
		out = append(out, d)
	}
	return out, nil
}
