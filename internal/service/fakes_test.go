package service

import (
	"context"
	"sync"

	"xmute/mutehub/internal/model"
	"xmute/mutehub/internal/repository"
	"xmute/mutehub/internal/upstream"
)

// fakeAPI is an in-memory upstream.API that counts calls.
type fakeAPI struct {
	mu         sync.Mutex
	identities map[string]*upstream.Identity
	countries  map[string]string
	pages      []upstream.MutedPage

	identityCalls int
	countryCalls  int
	muteCalls     int
	unmuteCalls   int
	listCalls     int

	muteErr       error
	unmuteErrFor  map[string]error
	listErrAfter  int // return listErr once listCalls exceeds this; 0 = never
	listErr       error
	identityBlock chan struct{} // when set, ResolveIdentity waits on it
	unmuteBlock   chan struct{} // when set, Unmute waits on it
	unmuted       []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		identities:   make(map[string]*upstream.Identity),
		countries:    make(map[string]string),
		unmuteErrFor: make(map[string]error),
	}
}

func (f *fakeAPI) ResolveIdentity(ctx context.Context, username string) (*upstream.Identity, error) {
	f.mu.Lock()
	f.identityCalls++
	block := f.identityBlock
	identity := f.identities[username]
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if identity == nil {
		return nil, nil
	}
	cp := *identity
	return &cp, nil
}

func (f *fakeAPI) ResolveCountry(ctx context.Context, username string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.countryCalls++
	return f.countries[username], nil
}

func (f *fakeAPI) Mute(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.muteCalls++
	return f.muteErr
}

func (f *fakeAPI) Unmute(ctx context.Context, userID string) error {
	f.mu.Lock()
	f.unmuteCalls++
	block := f.unmuteBlock
	f.mu.Unlock()

	if block != nil {
		<-block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.unmuteErrFor[userID]; err != nil {
		return err
	}
	f.unmuted = append(f.unmuted, userID)
	return nil
}

func (f *fakeAPI) ListMuted(ctx context.Context, cursor string) (*upstream.MutedPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil && f.listCalls > f.listErrAfter {
		return nil, f.listErr
	}

	idx := 0
	for i, p := range f.pages {
		if p.NextCursor == cursor && cursor != "" {
			idx = i + 1
		}
	}
	if cursor == "" {
		idx = 0
	}
	if idx >= len(f.pages) {
		return &upstream.MutedPage{}, nil
	}
	page := f.pages[idx]
	return &page, nil
}

var _ upstream.API = (*fakeAPI)(nil)

// fakeMutedRepo is an in-memory repository.MutedUserRepository.
type fakeMutedRepo struct {
	mu      sync.Mutex
	records map[string]model.MutedUser
	order   []string
	listErr error
}

func newFakeMutedRepo() *fakeMutedRepo {
	return &fakeMutedRepo{records: make(map[string]model.MutedUser)}
}

func (r *fakeMutedRepo) Create(_ context.Context, user *model.MutedUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[user.UserID]; !ok {
		r.order = append(r.order, user.UserID)
	}
	r.records[user.UserID] = *user
	return nil
}

func (r *fakeMutedRepo) Exists(_ context.Context, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.records[userID]
	return ok, nil
}

func (r *fakeMutedRepo) List(_ context.Context) ([]model.MutedUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	users := make([]model.MutedUser, 0, len(r.order))
	for _, id := range r.order {
		users = append(users, r.records[id])
	}
	return users, nil
}

func (r *fakeMutedRepo) ListByCountry(_ context.Context, country string) ([]model.MutedUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var users []model.MutedUser
	for _, id := range r.order {
		if r.records[id].Country == country {
			users = append(users, r.records[id])
		}
	}
	return users, nil
}

func (r *fakeMutedRepo) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, userID)
	for i, id := range r.order {
		if id == userID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeMutedRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.records)), nil
}

func (r *fakeMutedRepo) CountByCountry(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, u := range r.records {
		counts[u.Country]++
	}
	return counts, nil
}

var _ repository.MutedUserRepository = (*fakeMutedRepo)(nil)

// fakeWhitelistRepo is an in-memory repository.WhitelistRepository.
type fakeWhitelistRepo struct {
	mu    sync.Mutex
	users map[string]model.WhitelistedUser
}

func newFakeWhitelistRepo() *fakeWhitelistRepo {
	return &fakeWhitelistRepo{users: make(map[string]model.WhitelistedUser)}
}

func (r *fakeWhitelistRepo) Add(_ context.Context, user *model.WhitelistedUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.UserID] = *user
	return nil
}

func (r *fakeWhitelistRepo) Remove(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, userID)
	return nil
}

func (r *fakeWhitelistRepo) List(_ context.Context) ([]model.WhitelistedUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]model.WhitelistedUser, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	return users, nil
}

func (r *fakeWhitelistRepo) Contains(_ context.Context, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[userID]
	return ok, nil
}

var _ repository.WhitelistRepository = (*fakeWhitelistRepo)(nil)
