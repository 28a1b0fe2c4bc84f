package service

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"

	"linkly-be/internal/cache"
	"linkly-be/internal/entities"
	"linkly-be/internal/repository"
)

func uniqueViolation() error {
	return &pq.Error{Code: "23505"}
}

// scriptedGen returns queued identifiers, repeating the last one forever.
type scriptedGen struct {
	ids []string
	i   int
}

func (g *scriptedGen) Generate(int) string {
	if g.i < len(g.ids) {
		id := g.ids[g.i]
		g.i++
		return id
	}
	return g.ids[len(g.ids)-1]
}

type fakeSafety struct {
	unsafe bool
	calls  int
}

func (s *fakeSafety) IsPrivateOrUnsafe(context.Context, string) bool {
	s.calls++
	return s.unsafe
}

// fakeCache is an in-memory cache.Cache with injectable failures.
type fakeCache struct {
	mu        sync.Mutex
	data      map[string]string
	incrErr   error
	getErr    error
	setErr    error
	delErr    error
	scanErr   error
	perKeyErr map[string]error // GetDel failures for individual keys
	scanCalls int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return "", f.getErr
	}
	val, ok := f.data[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return val, nil
}

func (f *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	return nil
}

func (f *fakeCache) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return f.Set(ctx, key, string(data), ttl)
}

func (f *fakeCache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := f.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

func (f *fakeCache) Incr(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.incrErr != nil {
		return f.incrErr
	}
	n, _ := strconv.ParseInt(f.data[key], 10, 64)
	f.data[key] = strconv.FormatInt(n+1, 10)
	return nil
}

func (f *fakeCache) ScanKeys(_ context.Context, pattern string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scanCalls++
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for key := range f.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (f *fakeCache) GetDel(_ context.Context, keys []string) ([]cache.KeyValue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	results := make([]cache.KeyValue, len(keys))
	for i, key := range keys {
		if err := f.perKeyErr[key]; err != nil {
			results[i] = cache.KeyValue{Key: key, Err: err}
			continue
		}
		val, ok := f.data[key]
		if !ok {
			results[i] = cache.KeyValue{Key: key, Err: cache.ErrCacheMiss}
			continue
		}
		delete(f.data, key)
		results[i] = cache.KeyValue{Key: key, Value: val}
	}
	return results, nil
}

func (f *fakeCache) value(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	val, ok := f.data[key]
	return val, ok
}

// fakeLinkRepo is an in-memory repository.LinkRepository enforcing the
// short_code uniqueness constraint the way the database would.
type fakeLinkRepo struct {
	mu             sync.Mutex
	links          map[string]*entities.Link // by short code
	order          []string                  // insertion order, newest last
	createCalls    int
	findCalls      int
	addClicksCalls []map[string]int64
	addClicksErr   error
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{links: make(map[string]*entities.Link)}
}

func (r *fakeLinkRepo) Create(_ context.Context, shortCode, redirect, title string, description *string, tokenID string) (*entities.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	if _, exists := r.links[shortCode]; exists {
		return nil, uniqueViolation()
	}
	link := &entities.Link{
		ID:          shortCode + "-id",
		ShortCode:   shortCode,
		Redirect:    redirect,
		Title:       title,
		Description: description,
		TokenID:     tokenID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	r.links[shortCode] = link
	r.order = append(r.order, shortCode)
	return link, nil
}

func (r *fakeLinkRepo) FindByShortCode(_ context.Context, shortCode string) (*entities.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findCalls++
	link, ok := r.links[shortCode]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return link, nil
}

func (r *fakeLinkRepo) FindOwned(_ context.Context, shortCode, tokenID string) (*entities.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	link, ok := r.links[shortCode]
	if !ok || link.TokenID != tokenID {
		return nil, repository.ErrNotFound
	}
	return link, nil
}

func (r *fakeLinkRepo) matches(link *entities.Link, filter string) bool {
	if filter == "" {
		return true
	}
	filter = strings.ToLower(filter)
	if strings.Contains(strings.ToLower(link.Title), filter) ||
		strings.Contains(strings.ToLower(link.Redirect), filter) {
		return true
	}
	return link.Description != nil && strings.Contains(strings.ToLower(*link.Description), filter)
}

func (r *fakeLinkRepo) owned(tokenID, filter string) []*entities.Link {
	var out []*entities.Link
	// newest first, like the ORDER BY created_at DESC
	for i := len(r.order) - 1; i >= 0; i-- {
		link := r.links[r.order[i]]
		if link != nil && link.TokenID == tokenID && r.matches(link, filter) {
			out = append(out, link)
		}
	}
	return out
}

func (r *fakeLinkRepo) List(_ context.Context, tokenID, filter string, limit, offset int) ([]*entities.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owned := r.owned(tokenID, filter)
	if offset >= len(owned) {
		return nil, nil
	}
	end := min(offset+limit, len(owned))
	return owned[offset:end], nil
}

func (r *fakeLinkRepo) Count(_ context.Context, tokenID, filter string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.owned(tokenID, filter)), nil
}

func (r *fakeLinkRepo) Update(_ context.Context, shortCode, tokenID string, params repository.UpdateLinkParams) (*entities.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	link, ok := r.links[shortCode]
	if !ok || link.TokenID != tokenID {
		return nil, repository.ErrNotFound
	}
	if params.Redirect != nil {
		link.Redirect = *params.Redirect
	}
	if params.Title != nil {
		link.Title = *params.Title
	}
	if params.Description != nil {
		link.Description = params.Description
	}
	link.UpdatedAt = time.Now()
	return link, nil
}

func (r *fakeLinkRepo) Delete(_ context.Context, shortCode, tokenID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	link, ok := r.links[shortCode]
	if !ok || link.TokenID != tokenID {
		return repository.ErrNotFound
	}
	delete(r.links, shortCode)
	return nil
}

func (r *fakeLinkRepo) AddClicks(_ context.Context, deltas map[string]int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.addClicksErr != nil {
		return 0, r.addClicksErr
	}
	recorded := make(map[string]int64, len(deltas))
	var updated int64
	for shortCode, delta := range deltas {
		recorded[shortCode] = delta
		if link, ok := r.links[shortCode]; ok {
			link.ClickCount += delta
			updated++
		}
	}
	r.addClicksCalls = append(r.addClicksCalls, recorded)
	return updated, nil
}

func (r *fakeLinkRepo) clickCount(shortCode string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if link, ok := r.links[shortCode]; ok {
		return link.ClickCount
	}
	return -1
}

// fakeTokenRepo is an in-memory repository.TokenRepository.
type fakeTokenRepo struct {
	mu          sync.Mutex
	tokens      map[string]*entities.Token
	createCalls int
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]*entities.Token)}
}

func (r *fakeTokenRepo) Create(_ context.Context, id, hash string) (*entities.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	if _, exists := r.tokens[id]; exists {
		return nil, uniqueViolation()
	}
	token := &entities.Token{
		ID:        id,
		Hash:      hash,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	r.tokens[id] = token
	return token, nil
}

func (r *fakeTokenRepo) FindByID(_ context.Context, id string) (*entities.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return token, nil
}

func (r *fakeTokenRepo) Revoke(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[id]
	if !ok {
		return repository.ErrNotFound
	}
	token.Revoked = true
	return nil
}
