package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/variant"
)

type memState struct {
	products    map[int64]model.Product
	branches    map[int64]bool
	variants    map[int64]model.ProductVariant
	images      []model.ProductImage
	nextVariant int64
	nextImage   int64
}

func (s *memState) clone() *memState {
	c := &memState{
		products:    make(map[int64]model.Product, len(s.products)),
		branches:    make(map[int64]bool, len(s.branches)),
		variants:    make(map[int64]model.ProductVariant, len(s.variants)),
		images:      append([]model.ProductImage(nil), s.images...),
		nextVariant: s.nextVariant,
		nextImage:   s.nextImage,
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.branches {
		c.branches[k] = v
	}
	for k, v := range s.variants {
		c.variants[k] = v
	}
	return c
}

// knobs inject failures into memRepo.
type knobs struct {
	skuCollisions int
	insertErr     error
	// raceOnInsert is stored right before the next insert, as if another
	// writer committed the same identity concurrently.
	raceOnInsert *model.ProductVariant
}

type memRepo struct {
	state *memState
	knobs *knobs
	inTx  bool
}

func newMemRepo() *memRepo {
	return &memRepo{
		state: &memState{
			products: map[int64]model.Product{},
			branches: map[int64]bool{},
			variants: map[int64]model.ProductVariant{},
		},
		knobs: &knobs{},
	}
}

func (r *memRepo) addProduct(p model.Product) { r.state.products[p.ID] = p }
func (r *memRepo) addBranch(id int64)         { r.state.branches[id] = true }

func (r *memRepo) variantCount() int { return len(r.state.variants) }

func (r *memRepo) RunInTx(ctx context.Context, fn func(repo variant.Repository) error) error {
	if r.inTx {
		return fn(r)
	}
	snapshot := r.state.clone()
	tx := &memRepo{state: r.state, knobs: r.knobs, inTx: true}
	if err := fn(tx); err != nil {
		*r.state = *snapshot
		return err
	}
	return nil
}

func (r *memRepo) FindProduct(ctx context.Context, productID int64) (*model.Product, error) {
	p, ok := r.state.products[productID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memRepo) BranchExists(ctx context.Context, branchID int64) (bool, error) {
	return r.state.branches[branchID], nil
}

func (r *memRepo) FindByIdentity(ctx context.Context, productID int64, identity variant.Identity) (*model.ProductVariant, error) {
	var found *model.ProductVariant
	for _, v := range r.state.variants {
		if v.ProductID != productID || !variant.IdentityOf(&v).Matches(identity) {
			continue
		}
		if found == nil || v.ID < found.ID {
			v := v
			found = &v
		}
	}
	return found, nil
}

func (r *memRepo) FindByID(ctx context.Context, id int64) (*model.ProductVariant, error) {
	v, ok := r.state.variants[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (r *memRepo) ListByProduct(ctx context.Context, productID int64) ([]model.ProductVariant, error) {
	var out []model.ProductVariant
	for _, v := range r.state.variants {
		if v.ProductID == productID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRepo) InsertIfAbsent(ctx context.Context, v *model.ProductVariant) (bool, error) {
	if r.knobs.insertErr != nil {
		return false, r.knobs.insertErr
	}
	if r.knobs.skuCollisions > 0 {
		r.knobs.skuCollisions--
		return false, variant.ErrSKUCollision
	}
	if race := r.knobs.raceOnInsert; race != nil {
		r.knobs.raceOnInsert = nil
		r.store(*race)
	}

	for _, existing := range r.state.variants {
		if existing.ProductID == v.ProductID && variant.IdentityOf(&existing).Matches(variant.IdentityOf(v)) {
			return false, nil
		}
		if existing.SKU == v.SKU {
			return false, variant.ErrSKUCollision
		}
	}
	v.ID = r.store(*v)
	return true, nil
}

func (r *memRepo) store(v model.ProductVariant) int64 {
	r.state.nextVariant++
	v.ID = r.state.nextVariant
	v.Images = nil
	r.state.variants[v.ID] = v
	return v.ID
}

func (r *memRepo) UpdateStock(ctx context.Context, v *model.ProductVariant) error {
	cur := r.state.variants[v.ID]
	cur.BranchID, cur.Stock, cur.MinStock, cur.UpdatedAt = v.BranchID, v.Stock, v.MinStock, v.UpdatedAt
	r.state.variants[v.ID] = cur
	return nil
}

func (r *memRepo) Update(ctx context.Context, v *model.ProductVariant) error {
	stored := *v
	stored.Images = nil
	r.state.variants[v.ID] = stored
	return nil
}

func (r *memRepo) Delete(ctx context.Context, id int64) error {
	delete(r.state.variants, id)
	kept := r.state.images[:0]
	for _, img := range r.state.images {
		if img.VariantID != id {
			kept = append(kept, img)
		}
	}
	r.state.images = kept
	return nil
}

func (r *memRepo) InsertImages(ctx context.Context, variantID int64, urls []string, at time.Time) ([]model.ProductImage, error) {
	out := make([]model.ProductImage, 0, len(urls))
	for _, u := range urls {
		r.state.nextImage++
		img := model.ProductImage{ID: r.state.nextImage, VariantID: variantID, ImageURL: u, CreatedAt: at}
		r.state.images = append(r.state.images, img)
		out = append(out, img)
	}
	return out, nil
}

func (r *memRepo) ListImages(ctx context.Context, variantIDs ...int64) ([]model.ProductImage, error) {
	want := make(map[int64]bool, len(variantIDs))
	for _, id := range variantIDs {
		want[id] = true
	}
	var out []model.ProductImage
	for _, img := range r.state.images {
		if want[img.VariantID] {
			out = append(out, img)
		}
	}
	return out, nil
}

type memCache struct {
	mu          sync.Mutex
	locks       map[string]string
	busy        bool
	busyFor     int
	attempts    int
	invalidated int
}

func newMemCache() *memCache {
	return &memCache{locks: map[string]string{}}
}

func (c *memCache) AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attempts++
	if c.busy {
		return false, nil
	}
	if c.busyFor > 0 {
		c.busyFor--
		return false, nil
	}
	if _, held := c.locks[key]; held {
		return false, nil
	}
	c.locks[key] = value
	return true, nil
}

func (c *memCache) ReleaseLock(ctx context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.locks[key] == value {
		delete(c.locks, key)
	}
	return nil
}

func (c *memCache) DeleteByPattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	return nil
}

type publishedEvent struct {
	key       string
	eventType string
	payload   any
}

type memPublisher struct {
	events []publishedEvent
}

func (p *memPublisher) PublishEvent(ctx context.Context, key, eventType string, payload any) error {
	p.events = append(p.events, publishedEvent{key: key, eventType: eventType, payload: payload})
	return nil
}
