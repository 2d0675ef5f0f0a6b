// Package memory keeps every record kind in process memory. It backs the
// "memory" store driver for local runs and doubles as the repository fake in tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/docvault-api/internal/domain/entity"
	"github.com/oksasatya/docvault-api/internal/domain/repository"
)

type record[T any] struct {
	seq uint64
	val T
}

// Store holds all tables behind one lock so joins see a consistent view.
type Store struct {
	mu            sync.RWMutex
	seq           uint64
	now           func() time.Time
	users         map[string]*record[entity.User]
	vaults        map[string]*record[entity.Vault]
	documents     map[string]*record[entity.Document]
	notifications map[string]*record[entity.Notification]
}

func NewStore() *Store {
	return &Store{
		now:           time.Now,
		users:         map[string]*record[entity.User]{},
		vaults:        map[string]*record[entity.Vault]{},
		documents:     map[string]*record[entity.Document]{},
		notifications: map[string]*record[entity.Notification]{},
	}
}

func (s *Store) Users() *UserRepository                 { return &UserRepository{s} }
func (s *Store) Vaults() *VaultRepository               { return &VaultRepository{s} }
func (s *Store) Documents() *DocumentRepository         { return &DocumentRepository{s} }
func (s *Store) Notifications() *NotificationRepository { return &NotificationRepository{s} }

func (s *Store) next() uint64 {
	s.seq++
	return s.seq
}

// sorted returns the values of m in insertion order.
func sorted[T any](m map[string]*record[T]) []record[T] {
	out := make([]record[T], 0, len(m))
	for _, r := range m {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

func (s *Store) summary(userID string) *entity.UserSummary {
	sum := &entity.UserSummary{ID: userID}
	if u, ok := s.users[userID]; ok {
		sum.Name = u.val.Name
		sum.Email = u.val.Email
	}
	return sum
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.val.Email, u.Email) {
			return repository.ErrDuplicate
		}
	}
	now := r.s.now()
	u.ID = uuid.NewString()
	u.CreatedAt, u.UpdatedAt = now, now
	r.s.users[u.ID] = &record[entity.User]{seq: r.s.next(), val: *u}
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := rec.val
	return &u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, rec := range r.s.users {
		if strings.EqualFold(rec.val.Email, email) {
			u := rec.val
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) List(_ context.Context) ([]entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.User, 0, len(r.s.users))
	for _, rec := range sorted(r.s.users) {
		out = append(out, rec.val)
	}
	return out, nil
}

func (r *UserRepository) SetAdmin(_ context.Context, id string, isAdmin bool) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	rec.val.IsAdmin = isAdmin
	rec.val.UpdatedAt = r.s.now()
	u := rec.val
	return &u, nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

type VaultRepository struct{ s *Store }

func (r *VaultRepository) Create(_ context.Context, v *entity.Vault) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	v.ID = uuid.NewString()
	v.CreatedAt, v.UpdatedAt = now, now
	if v.Documents == nil {
		v.Documents = []string{}
	}
	stored := *v
	stored.Documents = cloneStrings(v.Documents)
	stored.Owner = nil
	r.s.vaults[v.ID] = &record[entity.Vault]{seq: r.s.next(), val: stored}
	return nil
}

func (r *VaultRepository) GetByID(_ context.Context, id string) (*entity.Vault, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.vaults[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	v := rec.val
	v.Documents = cloneStrings(rec.val.Documents)
	return &v, nil
}

func (r *VaultRepository) ListByUser(_ context.Context, userID string) ([]entity.Vault, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.Vault, 0)
	for _, rec := range sorted(r.s.vaults) {
		if rec.val.UserID == userID {
			v := rec.val
			v.Documents = cloneStrings(rec.val.Documents)
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *VaultRepository) ListPending(_ context.Context) ([]entity.Vault, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.Vault, 0)
	for _, rec := range sorted(r.s.vaults) {
		if rec.val.Status == entity.VaultProcessing {
			v := rec.val
			v.Documents = cloneStrings(rec.val.Documents)
			v.Owner = r.s.summary(v.UserID)
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *VaultRepository) Update(_ context.Context, v *entity.Vault) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.vaults[v.ID]
	if !ok {
		return repository.ErrNotFound
	}
	v.UpdatedAt = r.s.now()
	rec.val.Status = v.Status
	rec.val.Reason = v.Reason
	rec.val.Documents = cloneStrings(v.Documents)
	rec.val.UpdatedAt = v.UpdatedAt
	return nil
}

type DocumentRepository struct{ s *Store }

func (r *DocumentRepository) Create(_ context.Context, d *entity.Document) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d.ID = uuid.NewString()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = r.s.now()
	}
	if d.Tags == nil {
		d.Tags = []string{}
	}
	stored := *d
	stored.Tags = cloneStrings(d.Tags)
	r.s.documents[d.ID] = &record[entity.Document]{seq: r.s.next(), val: stored}
	return nil
}

func (r *DocumentRepository) GetByID(_ context.Context, id string) (*entity.Document, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.documents[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	d := rec.val
	d.Tags = cloneStrings(rec.val.Tags)
	return &d, nil
}

func (r *DocumentRepository) List(_ context.Context) ([]entity.Document, error) {
	return r.filter(func(*entity.Document) bool { return true }), nil
}

func (r *DocumentRepository) ListByVault(_ context.Context, vaultID string) ([]entity.Document, error) {
	return r.filter(func(d *entity.Document) bool { return d.VaultID == vaultID }), nil
}

func (r *DocumentRepository) CountByVault(ctx context.Context, vaultID string) (int, error) {
	docs, _ := r.ListByVault(ctx, vaultID)
	return len(docs), nil
}

func (r *DocumentRepository) filter(keep func(*entity.Document) bool) []entity.Document {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.Document, 0)
	for _, rec := range sorted(r.s.documents) {
		if keep(&rec.val) {
			d := rec.val
			d.Tags = cloneStrings(rec.val.Tags)
			out = append(out, d)
		}
	}
	return out
}

func (r *DocumentRepository) Update(_ context.Context, d *entity.Document) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.documents[d.ID]
	if !ok {
		return repository.ErrNotFound
	}
	rec.val.Title = d.Title
	rec.val.Content = d.Content
	rec.val.FileURL = d.FileURL
	rec.val.Tags = cloneStrings(d.Tags)
	return nil
}

func (r *DocumentRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.documents[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.documents, id)
	return nil
}

type NotificationRepository struct{ s *Store }

func (r *NotificationRepository) Create(_ context.Context, n *entity.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	n.ID = uuid.NewString()
	n.CreatedAt, n.UpdatedAt = now, now
	stored := *n
	stored.Requester = nil
	r.s.notifications[n.ID] = &record[entity.Notification]{seq: r.s.next(), val: stored}
	return nil
}

// unread returns matching unread notifications, newest first.
func (r *NotificationRepository) unread(keep func(*entity.Notification) bool, withRequester bool) []entity.Notification {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	recs := sorted(r.s.notifications)
	out := make([]entity.Notification, 0)
	for i := len(recs) - 1; i >= 0; i-- {
		n := recs[i].val
		if n.IsRead || !keep(&n) {
			continue
		}
		if withRequester {
			n.Requester = r.s.summary(n.UserID)
		}
		out = append(out, n)
	}
	return out
}

func (r *NotificationRepository) ListUnreadByUser(_ context.Context, userID string) ([]entity.Notification, error) {
	return r.unread(func(n *entity.Notification) bool { return n.UserID == userID }, false), nil
}

func (r *NotificationRepository) ListUnread(_ context.Context) ([]entity.Notification, error) {
	return r.unread(func(*entity.Notification) bool { return true }, true), nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.notifications[id]
	if !ok {
		return repository.ErrNotFound
	}
	rec.val.IsRead = true
	rec.val.UpdatedAt = r.s.now()
	return nil
}

var (
	_ repository.UserRepository         = (*UserRepository)(nil)
	_ repository.VaultRepository        = (*VaultRepository)(nil)
	_ repository.DocumentRepository     = (*DocumentRepository)(nil)
	_ repository.NotificationRepository = (*NotificationRepository)(nil)
)
