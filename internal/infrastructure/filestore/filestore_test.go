package filestore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_SaveAndRemove(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	l, err := NewLocal(dir, "uploads")
	require.NoError(t, err)

	url, err := l.Save(ctx, "1700000000000-abcd1234.pdf", strings.NewReader("hello"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/1700000000000-abcd1234.pdf", url)

	b, err := os.ReadFile(filepath.Join(dir, "1700000000000-abcd1234.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))

	_, err = l.Save(ctx, "1700000000000-abcd1234.pdf", strings.NewReader("again"), "")
	assert.Error(t, err, "names are never overwritten")

	require.NoError(t, l.Remove(ctx, url))
	require.NoError(t, l.Remove(ctx, url), "removing twice is fine")
	_, err = os.Stat(filepath.Join(dir, "1700000000000-abcd1234.pdf"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocal_SaveStripsDirectories(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLocal(dir, "/uploads")
	require.NoError(t, err)

	url, err := l.Save(context.Background(), "../../etc/evil.txt", strings.NewReader("x"), "")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/evil.txt", url)
	assert.FileExists(t, filepath.Join(dir, "evil.txt"))
}

type fakeS3 struct {
	puts    map[string]string
	deletes []string
	putErr  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	b, _ := io.ReadAll(in.Body)
	f.puts[*in.Key] = string(b)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3_SaveBuildsURLAndKey(t *testing.T) {
	ctx := context.Background()
	api := &fakeS3{puts: map[string]string{}}
	s := newS3(api, S3Config{Endpoint: "http://localhost:9000/", Bucket: "docs", Folder: "/vault/"})

	url, err := s.Save(ctx, "1-a.txt", io.NopCloser(strings.NewReader("body")), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/docs/vault/1-a.txt", url)
	assert.Equal(t, "body", api.puts["vault/1-a.txt"])

	require.NoError(t, s.Remove(ctx, url))
	require.NoError(t, s.Remove(ctx, "/uploads/elsewhere.txt"))
	assert.Equal(t, []string{"vault/1-a.txt"}, api.deletes)
}

func TestS3_AWSURLAndPutError(t *testing.T) {
	api := &fakeS3{puts: map[string]string{}, putErr: errors.New("denied")}
	s := newS3(api, S3Config{Region: "eu-west-1", Bucket: "docs"})
	assert.Equal(t, "https://docs.s3.eu-west-1.amazonaws.com", s.baseURL)

	_, err := s.Save(context.Background(), "x.pdf", strings.NewReader("b"), "")
	assert.ErrorContains(t, err, "denied")
}
