package api

import (
	"net/http"

	"github.com/vytor/timestables/internal/models"
	"github.com/vytor/timestables/internal/services"
)

type startChallengeRequest struct {
	QuestionCount int  `json:"question_count" validate:"gte=0"`
	TimerEnabled  bool `json:"timer_enabled"`
	Review        bool `json:"review"`
}

type answerRequest struct {
	Multiplicand int  `json:"multiplicand" validate:"min=1,max=12"`
	Multiplier   int  `json:"multiplier" validate:"min=1,max=12"`
	Answer       *int `json:"answer" validate:"required,gte=0"`
}

func (s *Server) handleStartChallenge(w http.ResponseWriter, r *http.Request) {
	var req startChallengeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	ctx := r.Context()
	owner := ownerFromContext(ctx)
	session, err := s.ChallengeService.StartChallenge(ctx, owner, services.StartChallengeRequest{
		QuestionCount: req.QuestionCount,
		TimerEnabled:  req.TimerEnabled,
		Review:        req.Review,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}

	state, err := s.ChallengeService.CurrentState(ctx, owner)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, startChallengeResponse{
		Challenge: session,
		State:     newStateView(state),
	})
}

func (s *Server) handleCurrentChallenge(w http.ResponseWriter, r *http.Request) {
	state, err := s.ChallengeService.CurrentState(r.Context(), ownerFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newStateView(state))
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req answerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	res, err := s.ChallengeService.SubmitAnswer(r.Context(), ownerFromContext(r.Context()), id, req.Multiplicand, req.Multiplier, *req.Answer)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, answerResponse{
		Correct:  res.Correct,
		Expected: res.Expected,
		Streak:   res.Streak,
		State:    newStateView(res.State),
	})
}

func (s *Server) handleCompleteChallenge(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	state, err := s.ChallengeService.CompleteChallenge(r.Context(), ownerFromContext(r.Context()), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newStateView(state))
}

func (s *Server) handleDismissReward(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	state, err := s.ChallengeService.DismissReward(r.Context(), ownerFromContext(r.Context()), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newStateView(state))
}

func (s *Server) handleReviewErrors(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	res, err := s.ChallengeService.ReviewErrors(r.Context(), ownerFromContext(r.Context()), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	wrong := res.WrongAnswers
	if wrong == nil {
		wrong = []models.ChallengeAnswer{}
	}
	writeJSON(w, r, http.StatusOK, reviewResponse{
		WrongAnswers: wrong,
		Strategist:   res.Strategist,
		Deferred:     res.Deferred,
		State:        newStateView(res.State),
	})
}
