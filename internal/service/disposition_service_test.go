package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"xmute/mutehub/internal/model"
	"xmute/mutehub/internal/queue"
	"xmute/mutehub/internal/repository"
	"xmute/mutehub/internal/upstream"
)

type dispositionFixture struct {
	svc       *dispositionService
	api       *fakeAPI
	muted     *fakeMutedRepo
	whitelist *fakeWhitelistRepo
	blacklist BlacklistService
	settings  SettingsService
}

func newDispositionFixture(t *testing.T) *dispositionFixture {
	t.Helper()

	api := newFakeAPI()
	muted := newFakeMutedRepo()
	whitelist := newFakeWhitelistRepo()
	store := repository.NewMemoryStateStore()
	settings := NewSettingsService(store)
	blacklist := NewBlacklistService(store)

	q := queue.New(10, time.Minute, zap.NewNop())
	t.Cleanup(q.Stop)

	svc := NewDispositionService(api, q, muted, whitelist, settings, blacklist, zap.NewNop()).(*dispositionService)
	return &dispositionFixture{
		svc:       svc,
		api:       api,
		muted:     muted,
		whitelist: whitelist,
		blacklist: blacklist,
		settings:  settings,
	}
}

func TestDisposition_MutesBlacklistedUser(t *testing.T) {
	f := newDispositionFixture(t)
	ctx := context.Background()
	require.NoError(t, f.blacklist.Set(ctx, []string{"Russia"}))
	f.api.identities["alice"] = &upstream.Identity{UserID: "1"}
	f.api.countries["alice"] = "Russia"

	outcome := f.svc.ProcessUser(ctx, "alice", "timeline")

	assert.Equal(t, OutcomeMuted, outcome)
	assert.Equal(t, 1, f.api.muteCalls)

	record, ok := f.muted.records["1"]
	require.True(t, ok)
	assert.Equal(t, "alice", record.Username)
	assert.Equal(t, "Russia", record.Country)
	assert.False(t, record.MutedAt.IsZero())
}

func TestDisposition_SecondRunDoesNotRemute(t *testing.T) {
	f := newDispositionFixture(t)
	ctx := context.Background()
	require.NoError(t, f.blacklist.Set(ctx, []string{"Russia"}))
	f.api.identities["alice"] = &upstream.Identity{UserID: "1"}
	f.api.countries["alice"] = "Russia"

	require.Equal(t, OutcomeMuted, f.svc.ProcessUser(ctx, "alice", "timeline"))

	// Country is now cached, so the second run must not fetch or mute again.
	outcome := f.svc.ProcessUser(ctx, "alice", "timeline")
	assert.Equal(t, OutcomeAlreadyHandled, outcome)
	assert.Equal(t, 1, f.api.muteCalls)
	assert.Equal(t, 1, f.api.countryCalls)
}

func TestDisposition_WhitelistShortCircuits(t *testing.T) {
	f := newDispositionFixture(t)
	ctx := context.Background()
	require.NoError(t, f.blacklist.Set(ctx, []string{"Russia"}))
	f.api.identities["bob"] = &upstream.Identity{UserID: "2"}
	f.api.countries["bob"] = "Russia"
	require.NoError(t, f.whitelist.Add(ctx, &model.WhitelistedUser{UserID: "2", Username: "bob"}))

	outcome := f.svc.ProcessUser(ctx, "bob", "timeline")

	assert.Equal(t, OutcomeWhitelisted, outcome)
	assert.Zero(t, f.api.countryCalls)
	assert.Zero(t, f.api.muteCalls)
}

func TestDisposition_FollowedUserExempt(t *testing.T) {
	f := newDispositionFixture(t)
	ctx := context.Background()
	require.NoError(t, f.blacklist.Set(ctx, []string{"Russia"}))
	f.api.identities["carol"] = &upstream.Identity{UserID: "3", Following: true}
	f.api.countries["carol"] = "Russia"

	outcome := f.svc.ProcessUser(ctx, "carol", "timeline")
	assert.Equal(t, OutcomeFollowingExempt, outcome)
	assert.Zero(t, f.api.countryCalls)

	// Opting in to muting followed users lets the pipeline continue.
	on := true
	_, err := f.settings.Update(ctx, SettingsPatch{MuteFollowing: &on})
	require.NoError(t, err)

	outcome = f.svc.ProcessUser(ctx, "carol", "timeline")
	assert.Equal(t, OutcomeMuted, outcome)
	assert.Equal(t, 1, f.api.muteCalls)
}

func TestDisposition_IdentityUnavailableNotCached(t *testing.T) {
	f := newDispositionFixture(t)
	ctx := context.Background()

	require.Equal(t, OutcomeIdentityUnavailable, f.svc.ProcessUser(ctx, "ghost", "timeline"))

	// Absence is never cached; a retry hits the upstream again.
	require.Equal(t, OutcomeIdentityUnavailable, f.svc.ProcessUser(ctx, "ghost", "timeline"))
	assert.Equal(t, 2, f.api.identityCalls)
}

func TestDisposition_CountryUnavailableNotCached(t *testing.T) {
	f := newDispositionFixture(t)
	ctx := context.Background()
	f.api.identities["dave"] = &upstream.Identity{UserID: "4"}

	require.Equal(t, OutcomeCountryUnavailable, f.svc.ProcessUser(ctx, "dave", "timeline"))
	require.Equal(t, OutcomeCountryUnavailable, f.svc.ProcessUser(ctx, "dave", "timeline"))
	assert.Equal(t, 2, f.api.countryCalls)
	assert.Zero(t, f.api.muteCalls)
}

func TestDisposition_AlreadyMutedSkipsCountryFetch(t *testing.T) {
	f := newDispositionFixture(t)
	ctx := context.Background()
	f.api.identities["erin"] = &upstream.Identity{UserID: "5"}
	f.api.countries["erin"] = "Russia"
	require.NoError(t, f.muted.Create(ctx, &model.MutedUser{UserID: "5", Username: "erin", Country: "Russia"}))

	outcome := f.svc.ProcessUser(ctx, "erin", "timeline")

	assert.Equal(t, OutcomeAlreadyMuted, outcome)
	assert.Zero(t, f.api.countryCalls)
	assert.Zero(t, f.api.muteCalls)
}

func TestDisposition_NotBlacklistedCountryIsCached(t *testing.T) {
	f := newDispositionFixture(t)
	ctx := context.Background()
	require.NoError(t, f.blacklist.Set(ctx, []string{"Russia"}))
	f.api.identities["frank"] = &upstream.Identity{UserID: "6"}
	f.api.countries["frank"] = "France"

	require.Equal(t, OutcomeNotBlacklisted, f.svc.ProcessUser(ctx, "frank", "timeline"))

	// A resolved country sticks even when it is not blacklisted.
	require.Equal(t, OutcomeNotBlacklisted, f.svc.ProcessUser(ctx, "frank", "timeline"))
	assert.Equal(t, 1, f.api.countryCalls)
	assert.Zero(t, f.api.muteCalls)
}

func TestDisposition_BlacklistMatchIgnoresCase(t *testing.T) {
	f := newDispositionFixture(t)
	ctx := context.Background()
	require.NoError(t, f.blacklist.Set(ctx, []string{"russia"}))
	f.api.identities["grace"] = &upstream.Identity{UserID: "7"}
	f.api.countries["grace"] = "Russia"

	assert.Equal(t, OutcomeMuted, f.svc.ProcessUser(ctx, "grace", "timeline"))
}

func TestDisposition_MuteFailureLeavesNoRecord(t *testing.T) {
	f := newDispositionFixture(t)
	ctx := context.Background()
	require.NoError(t, f.blacklist.Set(ctx, []string{"Russia"}))
	f.api.identities["henry"] = &upstream.Identity{UserID: "8"}
	f.api.countries["henry"] = "Russia"
	f.api.muteErr = assert.AnError

	outcome := f.svc.ProcessUser(ctx, "henry", "timeline")

	assert.Equal(t, OutcomeMuteFailed, outcome)
	assert.Empty(t, f.muted.records)
}

func TestDisposition_SingleFlightPerUser(t *testing.T) {
	f := newDispositionFixture(t)
	ctx := context.Background()
	f.api.identities["ivy"] = &upstream.Identity{UserID: "9"}

	block := make(chan struct{})
	f.api.identityBlock = block

	first := make(chan Outcome, 1)
	go func() {
		first <- f.svc.ProcessUser(ctx, "ivy", "timeline")
	}()

	// Wait until the first run holds the in-flight slot for ivy.
	require.Eventually(t, func() bool {
		return !f.svc.gate.TryEnter("ivy")
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, OutcomeInFlight, f.svc.ProcessUser(ctx, "ivy", "timeline"))

	close(block)
	require.Equal(t, OutcomeCountryUnavailable, <-first)
	assert.Equal(t, 1, f.api.identityCalls)
}

func TestDisposition_FollowStatusRefetchRepopulatesCaches(t *testing.T) {
	f := newDispositionFixture(t)
	ctx := context.Background()
	require.NoError(t, f.blacklist.Set(ctx, []string{"Russia"}))
	f.api.identities["judy"] = &upstream.Identity{UserID: "10", Following: true}
	f.api.countries["judy"] = "Russia"

	// Identity cached but the follow entry is gone, as after its shorter
	// lifetime elapses.
	f.svc.identities.Set("judy", "10")

	outcome := f.svc.ProcessUser(ctx, "judy", "timeline")
	assert.Equal(t, OutcomeFollowingExempt, outcome)
	assert.Equal(t, 1, f.api.identityCalls)

	following, ok := f.svc.follows.Get("10")
	require.True(t, ok)
	assert.True(t, following)
}
