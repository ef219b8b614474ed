package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"focus-starter/internal/models"
	"focus-starter/internal/repository"
)

const (
	maxUserIDLength = 128
	statsCacheTTL   = 60 * time.Second
)

type userStore interface {
	Upsert(ctx context.Context, userID string, now time.Time) error
}

type sessionStore interface {
	Create(ctx context.Context, s *models.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error)
	Close(ctx context.Context, id uuid.UUID, endTime time.Time, durationSeconds int) (bool, error)
	ListClosedSince(ctx context.Context, userID string, since time.Time) ([]models.Session, error)
}

type statsCache interface {
	GetField(ctx context.Context, key, field string) (string, bool)
	Generation(ctx context.Context, key string) (int64, bool)
	SetFieldIfGeneration(ctx context.Context, key, field, value string, ttl time.Duration, gen int64) bool
	Invalidate(ctx context.Context, key string)
}

type eventPublisher interface {
	Publish(ctx context.Context, userID string, msg models.WSMessage)
}

// LedgerService records focus session start/end events and serves daily
// totals. Each call is independent; no state is kept between requests.
type LedgerService struct {
	users        userStore
	sessions     sessionStore
	cache        statsCache
	events       eventPublisher
	loc          *time.Location
	storeTimeout time.Duration
	now          func() time.Time
}

func NewLedgerService(
	users userStore,
	sessions sessionStore,
	cache statsCache,
	events eventPublisher,
	loc *time.Location,
	storeTimeout time.Duration,
) *LedgerService {
	if loc == nil {
		loc = time.UTC
	}
	return &LedgerService{
		users:        users,
		sessions:     sessions,
		cache:        cache,
		events:       events,
		loc:          loc,
		storeTimeout: storeTimeout,
		now:          time.Now,
	}
}

func (s *LedgerService) StartSession(ctx context.Context, userID string) (uuid.UUID, error) {
	userID = strings.TrimSpace(userID)
	if err := validateUserID(userID); err != nil {
		return uuid.Nil, err
	}

	ctx, cancel := s.withStoreTimeout(ctx)
	defer cancel()

	now := s.now()
	if err := s.users.Upsert(ctx, userID, now); err != nil {
		return uuid.Nil, &StoreError{Op: "start session", Err: err}
	}

	session := &models.Session{UserID: userID, StartTime: now}
	if err := s.sessions.Create(ctx, session); err != nil {
		return uuid.Nil, &StoreError{Op: "start session", Err: err}
	}

	s.publish(ctx, userID, models.EventSessionStarted, models.SessionEvent{
		SessionID: session.ID.String(),
		UserID:    userID,
		At:        now,
	})

	return session.ID, nil
}

// EndSession closes the session and returns its duration in seconds. The
// first close wins: closing an already closed session changes nothing and
// returns the stored duration.
func (s *LedgerService) EndSession(ctx context.Context, rawSessionID string) (int, error) {
	rawSessionID = strings.TrimSpace(rawSessionID)
	if rawSessionID == "" {
		return 0, &ValidationError{Fields: map[string]string{"sessionId": "Session ID is required."}}
	}

	sessionID, err := uuid.Parse(rawSessionID)
	if err != nil {
		return 0, &NotFoundError{Message: "Session not found."}
	}

	ctx, cancel := s.withStoreTimeout(ctx)
	defer cancel()

	session, err := s.getSession(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	if session.Closed() {
		return storedDuration(session), nil
	}

	endTime := s.now()
	duration := durationSeconds(session.StartTime, endTime)

	closed, err := s.sessions.Close(ctx, sessionID, endTime, duration)
	if err != nil {
		return 0, &StoreError{Op: "end session", Err: err}
	}
	if !closed {
		// A concurrent call closed it between the read and the update.
		session, err = s.getSession(ctx, sessionID)
		if err != nil {
			return 0, err
		}
		return storedDuration(session), nil
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, statsCacheKey(session.UserID))
	}
	s.publish(ctx, session.UserID, models.EventSessionEnded, models.SessionEvent{
		SessionID: sessionID.String(),
		UserID:    session.UserID,
		At:        endTime,
		Duration:  &duration,
	})

	return duration, nil
}

// GetDailyStats returns per-day totals of closed sessions that started
// within the trailing window of windowDays days.
func (s *LedgerService) GetDailyStats(ctx context.Context, userID string, windowDays int) ([]models.DailyTotal, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, &ValidationError{Fields: map[string]string{"userId": "User ID is required."}}
	}
	if windowDays <= 0 {
		windowDays = DefaultStatsWindowDays
	}
	if windowDays > MaxStatsWindowDays {
		return nil, &ValidationError{Fields: map[string]string{"days": "days must be between 1 and 90"}}
	}

	ctx, cancel := s.withStoreTimeout(ctx)
	defer cancel()

	cacheKey, cacheField := statsCacheKey(userID), strconv.Itoa(windowDays)
	var (
		gen      int64
		cacheGen bool
	)
	if s.cache != nil {
		if raw, ok := s.cache.GetField(ctx, cacheKey, cacheField); ok {
			var cached []models.DailyTotal
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
		}
		// Read before the query: a session closed while we read bumps it.
		gen, cacheGen = s.cache.Generation(ctx, cacheKey)
	}

	since := windowStart(s.now(), windowDays, s.loc)
	sessions, err := s.sessions.ListClosedSince(ctx, userID, since)
	if err != nil {
		return nil, &StoreError{Op: "get daily stats", Err: err}
	}

	totals := aggregateDaily(sessions, s.loc)

	if cacheGen {
		if data, err := json.Marshal(totals); err == nil {
			s.cache.SetFieldIfGeneration(ctx, cacheKey, cacheField, string(data), statsCacheTTL, gen)
		}
	}

	return totals, nil
}

func (s *LedgerService) getSession(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Message: "Session not found."}
	}
	if err != nil {
		return nil, &StoreError{Op: "get session", Err: err}
	}
	return session, nil
}

func (s *LedgerService) withStoreTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}

func (s *LedgerService) publish(ctx context.Context, userID, eventType string, payload models.SessionEvent) {
	if s.events == nil {
		return
	}
	s.events.Publish(ctx, userID, models.WSMessage{Type: eventType, Payload: payload})
}

func validateUserID(userID string) error {
	if userID == "" {
		return &ValidationError{Fields: map[string]string{"userId": "User ID is required."}}
	}
	if len(userID) > maxUserIDLength {
		return &ValidationError{Fields: map[string]string{"userId": "User ID must be at most 128 characters."}}
	}
	return nil
}

// durationSeconds rounds to the nearest second and clamps clock skew to 0.
func durationSeconds(start, end time.Time) int {
	d := int(math.Round(end.Sub(start).Seconds()))
	if d < 0 {
		log.Printf("ledger: negative session duration %ds clamped to 0 (start=%s end=%s)", d, start, end)
		return 0
	}
	return d
}

func storedDuration(s *models.Session) int {
	if s.DurationSeconds == nil {
		return 0
	}
	return *s.DurationSeconds
}

func statsCacheKey(userID string) string {
	return "stats:" + userID
}
