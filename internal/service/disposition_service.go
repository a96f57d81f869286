package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"xmute/mutehub/internal/cache"
	"xmute/mutehub/internal/gate"
	"xmute/mutehub/internal/model"
	"xmute/mutehub/internal/queue"
	"xmute/mutehub/internal/repository"
	"xmute/mutehub/internal/upstream"
)

// Outcome says how a disposition run for one user ended.
type Outcome string

const (
	OutcomeInFlight            Outcome = "already_in_flight"
	OutcomeIdentityUnavailable Outcome = "identity_unavailable"
	OutcomeWhitelisted         Outcome = "whitelisted"
	OutcomeFollowingExempt     Outcome = "following_exempt"
	OutcomeAlreadyMuted        Outcome = "already_muted"
	OutcomeCountryUnavailable  Outcome = "country_unavailable"
	OutcomeNotBlacklisted      Outcome = "not_blacklisted"
	OutcomeAlreadyHandled      Outcome = "already_handled"
	OutcomeMuteFailed          Outcome = "mute_failed"
	OutcomeMuted               Outcome = "muted"
	OutcomeStorageError        Outcome = "storage_error"
)

// Cache lifetimes. Follow status changes far more often than identity or
// declared country and directly decides whether a followed user is muted,
// so it gets a much shorter lifetime.
const (
	IdentityCacheTTL = 24 * time.Hour
	FollowCacheTTL   = 5 * time.Minute
	CountryCacheTTL  = 24 * time.Hour
)

type DispositionService interface {
	// ProcessUser runs the full mute decision for one observed username.
	// Redundant calls for a user still being processed are dropped.
	ProcessUser(ctx context.Context, username, source string) Outcome
	// Reset drops all pending upstream requests, used when the discovery
	// client navigates away from the page that produced them.
	Reset()
}

type dispositionService struct {
	api       upstream.API
	queue     *queue.Queue
	gate      *gate.Gate
	mutedRepo repository.MutedUserRepository
	whitelist repository.WhitelistRepository
	settings  SettingsService
	blacklist BlacklistService
	logger    *zap.Logger

	identities *cache.Cache[string] // username -> user id
	follows    *cache.Cache[bool]   // user id -> following
	countries  *cache.Cache[string] // username -> country
	now        func() time.Time
}

func NewDispositionService(
	api upstream.API,
	q *queue.Queue,
	mutedRepo repository.MutedUserRepository,
	whitelist repository.WhitelistRepository,
	settings SettingsService,
	blacklist BlacklistService,
	logger *zap.Logger,
) DispositionService {
	return &dispositionService{
		api:        api,
		queue:      q,
		gate:       gate.New(),
		mutedRepo:  mutedRepo,
		whitelist:  whitelist,
		settings:   settings,
		blacklist:  blacklist,
		logger:     logger,
		identities: cache.New[string](IdentityCacheTTL),
		follows:    cache.New[bool](FollowCacheTTL),
		countries:  cache.New[string](CountryCacheTTL),
		now:        time.Now,
	}
}

func (s *dispositionService) Reset() {
	s.queue.Clear()
}

func (s *dispositionService) ProcessUser(ctx context.Context, username, source string) Outcome {
	if !s.gate.TryEnter(username) {
		s.logger.Debug("user already being processed", zap.String("username", username))
		return OutcomeInFlight
	}
	defer s.gate.Leave(username)

	log := s.logger.With(zap.String("username", username), zap.String("source", source))
	log.Debug("processing user")

	settings, err := s.settings.Get(ctx)
	if err != nil {
		log.Warn("settings unavailable, using defaults", zap.Error(err))
		settings = model.DefaultSettings()
	}

	userID, following, outcome := s.resolveIdentity(ctx, log, username)
	if outcome != "" {
		return outcome
	}

	whitelisted, err := s.whitelist.Contains(ctx, userID)
	if err != nil {
		log.Error("whitelist lookup failed", zap.Error(err))
		return OutcomeStorageError
	}
	if whitelisted {
		return OutcomeWhitelisted
	}

	if !settings.MuteFollowing && following {
		log.Debug("skipping followed user")
		return OutcomeFollowingExempt
	}

	country, ok := s.countries.Get(username)
	needsMute := false
	if !ok {
		// Before spending a country lookup, skip users this service has
		// already muted.
		alreadyMuted, err := s.mutedRepo.Exists(ctx, userID)
		if err != nil {
			log.Error("muted record lookup failed", zap.Error(err))
			return OutcomeStorageError
		}
		if alreadyMuted {
			return OutcomeAlreadyMuted
		}

		country, err = queue.Do(ctx, s.queue, "country:"+username, func(ctx context.Context) (string, error) {
			return s.api.ResolveCountry(ctx, username)
		})
		if err != nil {
			s.logFetchFailure(log, "country fetch failed", err)
			return OutcomeCountryUnavailable
		}
		if country == "" {
			log.Debug("user has no declared country")
			return OutcomeCountryUnavailable
		}

		log.Debug("resolved country", zap.String("country", country))
		s.countries.Set(username, country)
		needsMute = true
	} else {
		log.Debug("country from cache", zap.String("country", country))
	}

	blacklisted, err := s.blacklist.Contains(ctx, country)
	if err != nil {
		log.Error("blacklist lookup failed", zap.Error(err))
		return OutcomeStorageError
	}
	if !blacklisted {
		return OutcomeNotBlacklisted
	}

	// A cached country means the user was already actioned or rejected in a
	// prior run; only a freshly resolved country triggers a mute call.
	if !needsMute {
		return OutcomeAlreadyHandled
	}

	_, err = queue.Do(ctx, s.queue, "", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.api.Mute(ctx, userID)
	})
	if err != nil {
		s.logFetchFailure(log, "mute call failed", err)
		return OutcomeMuteFailed
	}

	record := &model.MutedUser{
		Username: username,
		UserID:   userID,
		Country:  country,
		MutedAt:  s.now(),
	}
	if err := s.mutedRepo.Create(ctx, record); err != nil {
		// The upstream mute succeeded; only the local record is missing.
		log.Error("failed to persist muted user record", zap.Error(err))
		return OutcomeMuted
	}

	log.Info("muted user",
		zap.String("user_id", userID),
		zap.String("country", country))
	return OutcomeMuted
}

// resolveIdentity returns the user id and follow status, cache-first. A
// returned non-empty Outcome ends the pipeline.
func (s *dispositionService) resolveIdentity(ctx context.Context, log *zap.Logger, username string) (string, bool, Outcome) {
	userID, ok := s.identities.Get(username)
	if !ok {
		identity, outcome := s.fetchIdentity(ctx, log, username)
		if outcome != "" {
			return "", false, outcome
		}
		s.identities.Set(username, identity.UserID)
		s.follows.Set(identity.UserID, identity.Following)
		return identity.UserID, identity.Following, ""
	}

	if following, ok := s.follows.Get(userID); ok {
		return userID, following, ""
	}

	// Identity cached but follow status expired; a fresh fetch repopulates both.
	identity, outcome := s.fetchIdentity(ctx, log, username)
	if outcome != "" {
		return "", false, outcome
	}
	s.identities.Set(username, identity.UserID)
	s.follows.Set(identity.UserID, identity.Following)
	return identity.UserID, identity.Following, ""
}

func (s *dispositionService) fetchIdentity(ctx context.Context, log *zap.Logger, username string) (*upstream.Identity, Outcome) {
	identity, err := queue.Do(ctx, s.queue, "identity:"+username, func(ctx context.Context) (*upstream.Identity, error) {
		return s.api.ResolveIdentity(ctx, username)
	})
	if err != nil {
		s.logFetchFailure(log, "identity fetch failed", err)
		return nil, OutcomeIdentityUnavailable
	}
	if identity == nil {
		log.Debug("user did not resolve to an identity")
		return nil, OutcomeIdentityUnavailable
	}
	return identity, ""
}

// logFetchFailure distinguishes a queue rejection, where the call never ran,
// from a failure of the call itself. Both end the pipeline the same way.
func (s *dispositionService) logFetchFailure(log *zap.Logger, msg string, err error) {
	if queue.IsRejection(err) {
		log.Debug(msg+" (never ran)", zap.Error(err))
		return
	}
	log.Warn(msg, zap.Error(err))
}
