package filestore

import (
	"context"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/docvault-api/pkg/helpers"
)

type GCS struct {
	Client *storage.Client
	Bucket string
	Folder string
}

func NewGCS(client *storage.Client, bucket, folder string) *GCS {
	return &GCS{Client: client, Bucket: bucket, Folder: strings.Trim(folder, "/")}
}

func (g *GCS) Save(ctx context.Context, name string, r io.Reader, contentType string) (string, error) {
	return helpers.UploadObject(ctx, g.Client, g.Bucket, path.Join(g.Folder, path.Base(name)), contentType, r)
}

func (g *GCS) Remove(ctx context.Context, fileURL string) error {
	object, ok := strings.CutPrefix(fileURL, helpers.PublicURL(g.Bucket, ""))
	if !ok || object == "" {
		return nil
	}
	return helpers.DeleteObject(ctx, g.Client, g.Bucket, object)
}
