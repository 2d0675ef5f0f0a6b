package application

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/docvault-api/internal/domain/entity"
	"github.com/oksasatya/docvault-api/internal/infrastructure/memory"
	"github.com/oksasatya/docvault-api/pkg/helpers"
)

type fakeFiles struct {
	mu      sync.Mutex
	saved   map[string][]byte
	removed []string
	failErr error
}

func newFakeFiles() *fakeFiles { return &fakeFiles{saved: map[string][]byte{}} }

func (f *fakeFiles) Save(_ context.Context, name string, r io.Reader, _ string) (string, error) {
	if f.failErr != nil {
		return "", f.failErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	url := "/uploads/" + name
	f.saved[url] = buf.Bytes()
	return url, nil
}

func (f *fakeFiles) Remove(_ context.Context, fileURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.saved, fileURL)
	f.removed = append(f.removed, fileURL)
	return nil
}

type fakeIndexer struct {
	mu      sync.Mutex
	docs    map[string]entity.Document
	lastQ   string
	lastSz  int
	failErr error
}

func newFakeIndexer() *fakeIndexer { return &fakeIndexer{docs: map[string]entity.Document{}} }

func (f *fakeIndexer) Index(_ context.Context, d *entity.Document) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[d.ID] = *d
	return nil
}

func (f *fakeIndexer) Remove(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs, id)
	return nil
}

func (f *fakeIndexer) Search(_ context.Context, q string, size int) ([]entity.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQ, f.lastSz = q, size
	out := make([]entity.Document, 0, len(f.docs))
	for _, d := range f.docs {
		out = append(out, d)
	}
	return out, nil
}

type fakePublisher struct {
	mu   sync.Mutex
	jobs []any
	err  error
}

func (p *fakePublisher) PublishJSON(_ context.Context, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, v)
	return nil
}

// failingDocuments makes Create fail after the capacity check passed.
type failingDocuments struct {
	*memory.DocumentRepository
}

func (failingDocuments) Create(context.Context, *entity.Document) error {
	return errors.New("disk full")
}

type fixture struct {
	store     *memory.Store
	files     *fakeFiles
	indexer   *fakeIndexer
	pub       *fakePublisher
	notify    *NotificationService
	vaults    *VaultService
	documents *DocumentService
	users     *UserService
}

func newFixture(emailEnabled bool) *fixture {
	helpers.PasswordCost = bcrypt.MinCost
	store := memory.NewStore()
	f := &fixture{store: store, files: newFakeFiles(), indexer: newFakeIndexer(), pub: &fakePublisher{}}
	f.notify = NewNotificationService(store.Notifications(), store.Users(), f.pub, nil, emailEnabled, "docvault")
	f.vaults = NewVaultService(store.Vaults(), f.notify, nil)
	f.documents = NewDocumentService(store.Documents(), store.Vaults(), f.files, f.indexer, nil)
	f.users = NewUserService(store.Users(), helpers.NewJWTManager("a", "r", time.Minute, time.Hour), nil, nil)
	return f
}
