package hardware

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"hwcatalog/internal/core/apperror"
)

// memStore is an in-memory record store implementing QueryBuilder,
// Repository and tx.Manager for service tests.
type memStore struct {
	mu          sync.Mutex
	records     map[int64]Record
	images      map[int64]Image
	nextID      int64
	nextImageID int64

	// call counters
	queries int
	writes  int

	// fault injection
	queryErr       error
	deleteImageErr error
	beforeUpdate   func()
}

func newMemStore() *memStore {
	return &memStore{
		records: make(map[int64]Record),
		images:  make(map[int64]Image),
	}
}

// seed stores rec directly, bypassing the services.
func (m *memStore) seed(rec Record) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	rec.ID = m.nextID
	for i := range rec.Images {
		m.nextImageID++
		rec.Images[i].ID = m.nextImageID
		rec.Images[i].HardwareID = rec.ID
		m.images[rec.Images[i].ID] = rec.Images[i]
	}
	rec.Images = nil
	m.records[rec.ID] = rec
	return rec.ID
}

func (m *memStore) get(id int64) (Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	return r, ok
}

func (m *memStore) imagesOf(id int64) []Image {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.imagesOfLocked(id)
}

func (m *memStore) imagesOfLocked(id int64) []Image {
	var out []Image
	for _, img := range m.images {
		if img.HardwareID == id {
			out = append(out, img)
		}
	}
	slices.SortFunc(out, func(a, b Image) int { return int(a.ID - b.ID) })
	return out
}

// --- tx.Manager ---

func (m *memStore) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	records := maps.Clone(m.records)
	images := maps.Clone(m.images)
	m.mu.Unlock()

	if err := fn(ctx); err != nil {
		m.mu.Lock()
		m.records = records
		m.images = images
		m.mu.Unlock()
		return err
	}
	return nil
}

// --- QueryBuilder ---

type memQuery struct {
	store      *memStore
	match      func(Record) bool
	pageable   Pageable
	withImages bool
}

func (m *memStore) BuildByID(id int64, withImages bool) Query {
	return &memQuery{
		store:      m,
		match:      func(r Record) bool { return r.ID == id },
		withImages: withImages,
	}
}

func (m *memStore) Build(criteria SearchCriteria, pageable Pageable) Query {
	var preds []func(Record) bool

	if v, ok := criteria[KeyName]; ok {
		preds = append(preds, func(r Record) bool {
			return strings.Contains(strings.ToLower(r.Name), strings.ToLower(v))
		})
	}
	if v, ok := criteria[KeyRating]; ok {
		if n, ok := ParseRating(v); ok {
			preds = append(preds, func(r Record) bool { return r.Rating >= n })
		}
	}
	if v, ok := criteria[KeyPrice]; ok {
		if d, err := decimal.NewFromString(v); err == nil {
			preds = append(preds, func(r Record) bool { return r.Price.LessThanOrEqual(d) })
		}
	}
	for k, v := range criteria {
		switch {
		case k == KeyName || k == KeyRating || k == KeyPrice:
		case k == KeyType:
			preds = append(preds, func(r Record) bool { return string(r.Type) == v })
		case k == "manufacturer":
			preds = append(preds, func(r Record) bool { return r.Manufacturer == v })
		case k == "inStock":
			b, _ := strconv.ParseBool(v)
			preds = append(preds, func(r Record) bool { return r.InStock == b })
		case k == KeyTags:
			preds = append(preds, func(r Record) bool { return slices.Contains(r.Tags, v) })
		case IsTagLiteral(k):
			preds = append(preds, func(r Record) bool { return slices.Contains(r.Tags, k) })
		}
	}

	return &memQuery{
		store: m,
		match: func(r Record) bool {
			for _, p := range preds {
				if !p(r) {
					return false
				}
			}
			return true
		},
		pageable: pageable,
	}
}

func (q *memQuery) all() ([]Record, error) {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()
	q.store.queries++
	if q.store.queryErr != nil {
		return nil, q.store.queryErr
	}

	var out []Record
	for _, r := range q.store.records {
		if q.match(r) {
			r.Tags = slices.Clone(r.Tags)
			if q.withImages {
				r.Images = q.store.imagesOfLocked(r.ID)
			}
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b Record) int { return int(a.ID - b.ID) })
	return out, nil
}

func (q *memQuery) One(ctx context.Context) (*Record, error) {
	all, err := q.all()
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return &all[0], nil
}

func (q *memQuery) Many(ctx context.Context) ([]Record, error) {
	all, err := q.all()
	if err != nil || q.pageable.Size == 0 {
		return all, err
	}
	start := min(q.pageable.Offset(), len(all))
	end := min(start+q.pageable.Size, len(all))
	return all[start:end], nil
}

func (q *memQuery) Count(ctx context.Context) (int64, error) {
	all, err := q.all()
	return int64(len(all)), err
}

// --- Repository ---

func (m *memStore) ExistsByName(ctx context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries++
	for _, r := range m.records {
		if r.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) Insert(ctx context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	m.nextID++
	now := time.Now().UTC()
	rec.ID = m.nextID
	rec.Version = 0
	rec.Created = now
	rec.Updated = now
	stored := *rec
	stored.Images = nil
	stored.Tags = slices.Clone(rec.Tags)
	m.records[rec.ID] = stored
	return nil
}

func (m *memStore) InsertImage(ctx context.Context, hardwareID int64, img *Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	m.nextImageID++
	img.ID = m.nextImageID
	img.HardwareID = hardwareID
	m.images[img.ID] = *img
	return nil
}

func (m *memStore) Update(ctx context.Context, rec *Record) (int, error) {
	if m.beforeUpdate != nil {
		m.beforeUpdate()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	stored, ok := m.records[rec.ID]
	if !ok || stored.Version != rec.Version {
		return 0, apperror.NewVersionOutdated(rec.Version)
	}
	next := *rec
	next.Images = nil
	next.Version = stored.Version + 1
	next.Updated = time.Now().UTC()
	m.records[rec.ID] = next
	return next.Version, nil
}

func (m *memStore) DeleteImage(ctx context.Context, imageID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.deleteImageErr != nil {
		return m.deleteImageErr
	}
	delete(m.images, imageID)
	return nil
}

func (m *memStore) Delete(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if _, ok := m.records[id]; !ok {
		return false, nil
	}
	delete(m.records, id)
	return true, nil
}

// --- Notifier ---

type chanNotifier struct {
	sent chan Notification
	err  error
}

func newChanNotifier(err error) *chanNotifier {
	return &chanNotifier{sent: make(chan Notification, 8), err: err}
}

func (n *chanNotifier) Notify(ctx context.Context, msg Notification) error {
	n.sent <- msg
	return n.err
}

var errBoom = errors.New("boom")
