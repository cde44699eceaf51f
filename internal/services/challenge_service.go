package services

import (
	"context"
	"time"

	"github.com/vytor/timestables/internal/errors"
	"github.com/vytor/timestables/internal/jobs"
	"github.com/vytor/timestables/internal/logger"
	"github.com/vytor/timestables/internal/models"
	"github.com/vytor/timestables/internal/repository"
	"github.com/vytor/timestables/internal/rewards"
	"github.com/vytor/timestables/internal/store"
)

// StartChallengeRequest describes a new challenge. A zero QuestionCount
// uses the configured default.
type StartChallengeRequest struct {
	QuestionCount int
	TimerEnabled  bool
	Review        bool
}

// AnswerResult is the outcome of one answered question.
type AnswerResult struct {
	Correct  bool
	Expected int
	Streak   rewards.StreakResult
	State    store.State
}

// ReviewResult is what the player sees when reviewing their errors.
type ReviewResult struct {
	WrongAnswers []models.ChallengeAnswer
	Strategist   *rewards.QueuedReward
	Deferred     bool
	State        store.State
}

// ChallengeService drives the challenge flow of one owner at a time
type ChallengeService interface {
	StartChallenge(ctx context.Context, owner models.Owner, req StartChallengeRequest) (*models.ChallengeSession, error)
	CurrentState(ctx context.Context, owner models.Owner) (store.State, error)
	SubmitAnswer(ctx context.Context, owner models.Owner, sessionID int64, multiplicand, multiplier, answer int) (*AnswerResult, error)
	CompleteChallenge(ctx context.Context, owner models.Owner, sessionID int64) (store.State, error)
	DismissReward(ctx context.Context, owner models.Owner, sessionID int64) (store.State, error)
	ReviewErrors(ctx context.Context, owner models.Owner, sessionID int64) (*ReviewResult, error)
}

// ChallengeLimits bounds the question count of a challenge.
type ChallengeLimits struct {
	DefaultQuestionCount int
	MaxQuestionCount     int
	DefaultTheme         rewards.Theme
}

type ChallengeOption func(*challengeService)

// WithClock replaces time.Now for reward evaluation.
func WithClock(now func() time.Time) ChallengeOption {
	return func(s *challengeService) { s.now = now }
}

type challengeService struct {
	challengeRepo repository.ChallengeRepository
	profileRepo   repository.ProfileRepository
	stores        *store.Registry
	queue         jobs.JobQueue
	limits        ChallengeLimits
	now           func() time.Time
}

// NewChallengeService creates a new ChallengeService
func NewChallengeService(
	challengeRepo repository.ChallengeRepository,
	profileRepo repository.ProfileRepository,
	stores *store.Registry,
	queue jobs.JobQueue,
	limits ChallengeLimits,
	opts ...ChallengeOption,
) ChallengeService {
	s := &challengeService{
		challengeRepo: challengeRepo,
		profileRepo:   profileRepo,
		stores:        stores,
		queue:         queue,
		limits:        limits,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *challengeService) storeFor(ctx context.Context, owner models.Owner) (*store.Store, error) {
	st, err := s.stores.Get(ctx, owner)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load reward state for %s: %v", owner, err)
		return nil, errors.NewInternalError(err)
	}
	return st, nil
}

// activeSession loads sessionID and checks it is owner's challenge in play.
func (s *challengeService) activeSession(ctx context.Context, st *store.Store, owner models.Owner, sessionID int64) (*models.ChallengeSession, error) {
	session, err := s.challengeRepo.GetSession(ctx, sessionID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to get challenge session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if session == nil || session.Owner != owner {
		return nil, errors.NewNotFoundError("challenge", sessionID)
	}
	state := st.GetState()
	if state.Session == nil || state.Session.ID != sessionID {
		return nil, errors.NewConflictError("this challenge is no longer active")
	}
	return session, nil
}

func (s *challengeService) StartChallenge(ctx context.Context, owner models.Owner, req StartChallengeRequest) (*models.ChallengeSession, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting challenge: owner=%s, questions=%d, timer=%v, review=%v", owner, req.QuestionCount, req.TimerEnabled, req.Review)

	count := req.QuestionCount
	if count == 0 {
		count = s.limits.DefaultQuestionCount
	}
	if count < 1 || count > s.limits.MaxQuestionCount {
		return nil, errors.NewValidationError("question_count", "out of range")
	}

	lk, err := resolveLook(ctx, s.profileRepo, owner, s.limits.DefaultTheme)
	if err != nil {
		return nil, err
	}
	st, err := s.storeFor(ctx, owner)
	if err != nil {
		return nil, err
	}
	if st.GetState().Phase == store.PhaseShowingRewards {
		return nil, storeError(store.ErrRewardsPending)
	}

	session := models.ChallengeSession{
		Owner:         owner,
		QuestionCount: count,
		TimerEnabled:  req.TimerEnabled,
		IsReview:      req.Review,
	}
	id, err := s.challengeRepo.InsertSession(ctx, session)
	if err != nil {
		log.Error("failed to insert challenge session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	session.ID = id
	session.CreatedAt = s.now()

	if _, err := st.Dispatch(ctx, store.StartChallenge{
		SessionID:     id,
		QuestionCount: count,
		TimerEnabled:  req.TimerEnabled,
		IsReview:      req.Review,
		Theme:         lk.Theme,
		Gender:        lk.Gender,
	}); err != nil {
		return nil, storeError(err)
	}

	log.Info("challenge started: id=%d, owner=%s", id, owner)
	return &session, nil
}

func (s *challengeService) CurrentState(ctx context.Context, owner models.Owner) (store.State, error) {
	st, err := s.storeFor(ctx, owner)
	if err != nil {
		return store.State{}, err
	}
	return st.GetState(), nil
}

func (s *challengeService) SubmitAnswer(ctx context.Context, owner models.Owner, sessionID int64, multiplicand, multiplier, answer int) (*AnswerResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("submitting answer: session=%d, %dx%d=%d", sessionID, multiplicand, multiplier, answer)

	st, err := s.storeFor(ctx, owner)
	if err != nil {
		return nil, err
	}
	session, err := s.activeSession(ctx, st, owner, sessionID)
	if err != nil {
		return nil, err
	}

	rec := models.ChallengeAnswer{
		SessionID:    sessionID,
		Multiplicand: multiplicand,
		Multiplier:   multiplier,
		Given:        answer,
	}
	rec.WasCorrect = rec.Expected() == answer

	state, err := st.Dispatch(ctx, store.AnswerSubmitted{SessionID: sessionID, Correct: rec.WasCorrect})
	if err != nil {
		return nil, storeError(err)
	}

	if _, err := s.challengeRepo.InsertAnswer(ctx, rec); err != nil {
		log.Error("failed to record answer: %v", err)
		return nil, errors.NewInternalError(err)
	}
	session.Answered = state.Session.Answered
	session.Correct = state.Session.Correct
	session.BestStreak = state.Session.BestStreak
	if err := s.challengeRepo.UpdateSession(ctx, *session); err != nil {
		log.Error("failed to update challenge session: %v", err)
		return nil, errors.NewInternalError(err)
	}

	return &AnswerResult{
		Correct:  rec.WasCorrect,
		Expected: rec.Expected(),
		Streak:   state.LastAnswer.Streak,
		State:    state,
	}, nil
}

func (s *challengeService) CompleteChallenge(ctx context.Context, owner models.Owner, sessionID int64) (store.State, error) {
	log := logger.FromContext(ctx)
	log.Debug("completing challenge: session=%d, owner=%s", sessionID, owner)

	st, err := s.storeFor(ctx, owner)
	if err != nil {
		return store.State{}, err
	}
	session, err := s.activeSession(ctx, st, owner, sessionID)
	if err != nil {
		return store.State{}, err
	}

	now := s.now()
	state, err := st.Dispatch(ctx, store.ChallengeCompleted{SessionID: sessionID, Now: now})
	if err != nil {
		return store.State{}, storeError(err)
	}

	session.CompletedAt = &now
	if err := s.challengeRepo.UpdateSession(ctx, *session); err != nil {
		log.Error("failed to mark challenge completed: %v", err)
		return store.State{}, errors.NewInternalError(err)
	}

	if err := s.queue.EnqueueStatsRefresh(owner); err != nil {
		log.Warn("failed to enqueue stats refresh for %s: %v", owner, err)
	}

	log.Info("challenge completed: id=%d, rewards=%d", sessionID, state.Presentation.Remaining())
	return state, nil
}

func (s *challengeService) DismissReward(ctx context.Context, owner models.Owner, sessionID int64) (store.State, error) {
	logger.FromContext(ctx).Debug("dismissing reward: session=%d, owner=%s", sessionID, owner)

	st, err := s.storeFor(ctx, owner)
	if err != nil {
		return store.State{}, err
	}
	if _, err := s.activeSession(ctx, st, owner, sessionID); err != nil {
		return store.State{}, err
	}

	state, err := st.Dispatch(ctx, store.RewardDismissed{SessionID: sessionID})
	if err != nil {
		return store.State{}, storeError(err)
	}
	return state, nil
}

func (s *challengeService) ReviewErrors(ctx context.Context, owner models.Owner, sessionID int64) (*ReviewResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("reviewing errors: session=%d, owner=%s", sessionID, owner)

	st, err := s.storeFor(ctx, owner)
	if err != nil {
		return nil, err
	}
	if _, err := s.activeSession(ctx, st, owner, sessionID); err != nil {
		return nil, err
	}

	state, err := st.Dispatch(ctx, store.ReviewRequested{SessionID: sessionID, Now: s.now()})
	if err != nil {
		return nil, storeError(err)
	}

	wrong, err := s.challengeRepo.WrongAnswers(ctx, sessionID)
	if err != nil {
		log.Error("failed to list wrong answers: %v", err)
		return nil, errors.NewInternalError(err)
	}

	return &ReviewResult{
		WrongAnswers: wrong,
		Strategist:   state.Strategist,
		Deferred:     state.Phase == store.PhaseShowingRewards,
		State:        state,
	}, nil
}
