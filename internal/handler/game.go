package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/predictarena/predictarena/internal/domain"
	"github.com/predictarena/predictarena/internal/game"
	"github.com/predictarena/predictarena/internal/logger"
)

// GameHandler serves the prediction game HTTP API
type GameHandler struct {
	service game.Service
}

func NewGameHandler(service game.Service) *GameHandler {
	return &GameHandler{service: service}
}

// getGameID extracts and validates the game id query parameter. If ok is
// false the response has already been written.
func getGameID(w http.ResponseWriter, r *http.Request) (domain.GameID, bool) {
	idStr, ok := GetQueryParam(r, w, "id")
	if !ok {
		return "", false
	}
	if _, err := uuid.Parse(idStr); err != nil {
		http.Error(w, ErrMsgInvalidGameID, http.StatusBadRequest)
		return "", false
	}
	return domain.GameID(idStr), true
}

type OptionRequest struct {
	ID          string `json:"id" validate:"required,max=100"`
	Label       string `json:"label" validate:"required,max=200"`
	Description string `json:"description" validate:"max=500"`
}

type CreateGameRequest struct {
	CreatorID       string          `json:"creator_id" validate:"required,max=100"`
	Title           string          `json:"title" validate:"required,max=200"`
	Description     string          `json:"description" validate:"max=2000"`
	PredictionType  string          `json:"prediction_type" validate:"required,prediction_type"`
	Options         []OptionRequest `json:"options" validate:"required,min=2,dive"`
	StartTime       time.Time       `json:"start_time" validate:"required"`
	EndTime         time.Time       `json:"end_time" validate:"required"`
	SettlementTime  time.Time       `json:"settlement_time" validate:"required"`
	MinStake        int64           `json:"min_stake" validate:"gte=0"`
	MaxStake        int64           `json:"max_stake" validate:"gt=0"`
	MaxParticipants int             `json:"max_participants" validate:"gte=0"`
}

func (h *GameHandler) HandleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Create game"); err != nil {
		return
	}

	options := make([]domain.Option, len(req.Options))
	for i, opt := range req.Options {
		options[i] = domain.Option{ID: opt.ID, Label: opt.Label, Description: opt.Description}
	}

	cfg := domain.GameConfig{
		Title:           req.Title,
		Description:     req.Description,
		PredictionType:  domain.PredictionType(req.PredictionType),
		Options:         options,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		SettlementTime:  req.SettlementTime,
		MinStake:        req.MinStake,
		MaxStake:        req.MaxStake,
		MaxParticipants: req.MaxParticipants,
	}

	g, err := h.service.Create(r.Context(), domain.UserID(req.CreatorID), cfg)
	if err != nil {
		logger.FromContext(r.Context()).Error(ErrMsgCreateGameFailed, "error", err)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, g)
}

func (h *GameHandler) HandleStartGame(w http.ResponseWriter, r *http.Request) {
	id, ok := getGameID(w, r)
	if !ok {
		return
	}

	g, err := h.service.Start(r.Context(), id)
	if err != nil {
		logger.FromContext(r.Context()).Error(ErrMsgStartGameFailed, "error", err, "gameID", id)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, g)
}

type PlacePredictionRequest struct {
	UserID     string  `json:"user_id" validate:"required,max=100"`
	OptionID   string  `json:"option_id" validate:"required,max=100"`
	Stake      int64   `json:"stake" validate:"gt=0"`
	Confidence float64 `json:"confidence" validate:"gte=0,lte=1"`
	Reasoning  string  `json:"reasoning" validate:"max=2000"`
}

func (h *GameHandler) HandlePlacePrediction(w http.ResponseWriter, r *http.Request) {
	id, ok := getGameID(w, r)
	if !ok {
		return
	}

	var req PlacePredictionRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Place prediction"); err != nil {
		return
	}

	p, err := h.service.PlacePrediction(r.Context(), id, domain.UserID(req.UserID), req.OptionID, req.Stake, req.Confidence, req.Reasoning)
	if err != nil {
		logger.FromContext(r.Context()).Error(ErrMsgPlacePredictionFail, "error", err, "gameID", id, "userID", req.UserID)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, p)
}

func (h *GameHandler) HandleClosePredictions(w http.ResponseWriter, r *http.Request) {
	id, ok := getGameID(w, r)
	if !ok {
		return
	}

	g, err := h.service.ClosePredictions(r.Context(), id)
	if err != nil {
		logger.FromContext(r.Context()).Error(ErrMsgCloseGameFailed, "error", err, "gameID", id)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, g)
}

// Settlement policy selectors. Empty values fall back to the service
// defaults (binary accuracy, pari-mutuel payout).
const (
	ScorerBinary             = "binary"
	ScorerConfidenceWeighted = "confidence_weighted"

	PayoutPariMutuel    = "pari_mutuel"
	PayoutStakeMultiple = "stake_multiple"
)

type SettleGameRequest struct {
	CorrectOptionID string `json:"correct_option_id" validate:"required,max=100"`
	Scorer          string `json:"scorer" validate:"omitempty,oneof=binary confidence_weighted"`
	PayoutPolicy    string `json:"payout_policy" validate:"omitempty,oneof=pari_mutuel stake_multiple"`
	PayoutMultiple  int64  `json:"payout_multiple" validate:"omitempty,gt=0"`
}

// resolvePolicies maps the request's policy selectors onto concrete
// settlement policies. Nil returns mean the service default applies.
func resolvePolicies(w http.ResponseWriter, req SettleGameRequest) (domain.AccuracyScorer, domain.RewardCalculator, bool) {
	var scorer domain.AccuracyScorer
	switch req.Scorer {
	case "", ScorerBinary:
		// binary is the default; leave nil so Settle applies it
	case ScorerConfidenceWeighted:
		scorer = game.ConfidenceWeightedAccuracy()
	default:
		http.Error(w, fmt.Sprintf(ErrMsgInvalidScorer, req.Scorer), http.StatusBadRequest)
		return nil, nil, false
	}

	var calc domain.RewardCalculator
	switch req.PayoutPolicy {
	case "", PayoutPariMutuel:
		// pari-mutuel is the default; leave nil so Settle applies it
	case PayoutStakeMultiple:
		multiple := req.PayoutMultiple
		if multiple <= 0 {
			multiple = 2
		}
		calc = game.StakeMultiplePayout(multiple)
	default:
		http.Error(w, fmt.Sprintf(ErrMsgInvalidPayoutPolicy, req.PayoutPolicy), http.StatusBadRequest)
		return nil, nil, false
	}

	return scorer, calc, true
}

func (h *GameHandler) HandleSettleGame(w http.ResponseWriter, r *http.Request) {
	id, ok := getGameID(w, r)
	if !ok {
		return
	}

	var req SettleGameRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Settle game"); err != nil {
		return
	}

	scorer, calc, ok := resolvePolicies(w, req)
	if !ok {
		return
	}

	outcome, err := h.service.Settle(r.Context(), id, req.CorrectOptionID, scorer, calc)
	if err != nil {
		logger.FromContext(r.Context()).Error(ErrMsgSettleGameFailed, "error", err, "gameID", id)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, outcome)
}

func (h *GameHandler) HandleCancelGame(w http.ResponseWriter, r *http.Request) {
	id, ok := getGameID(w, r)
	if !ok {
		return
	}

	if err := h.service.Cancel(r.Context(), id); err != nil {
		logger.FromContext(r.Context()).Error(ErrMsgCancelGameFailed, "error", err, "gameID", id)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgGameCancelledSuccess})
}

func (h *GameHandler) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	id, ok := getGameID(w, r)
	if !ok {
		return
	}

	g, err := h.service.Get(r.Context(), id)
	if err != nil {
		logger.FromContext(r.Context()).Error(ErrMsgGetGameFailed, "error", err, "gameID", id)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, g)
}

func (h *GameHandler) HandleGetStatistics(w http.ResponseWriter, r *http.Request) {
	id, ok := getGameID(w, r)
	if !ok {
		return
	}

	stats, err := h.service.GetStatistics(r.Context(), id)
	if err != nil {
		logger.FromContext(r.Context()).Error(ErrMsgGetStatisticsFailed, "error", err, "gameID", id)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

type UpdateConfigRequest struct {
	Title           *string    `json:"title" validate:"omitempty,max=200"`
	Description     *string    `json:"description" validate:"omitempty,max=2000"`
	EndTime         *time.Time `json:"end_time"`
	SettlementTime  *time.Time `json:"settlement_time"`
	MinStake        *int64     `json:"min_stake" validate:"omitempty,gte=0"`
	MaxStake        *int64     `json:"max_stake" validate:"omitempty,gt=0"`
	MaxParticipants *int       `json:"max_participants" validate:"omitempty,gte=0"`
}

func (h *GameHandler) HandleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	id, ok := getGameID(w, r)
	if !ok {
		return
	}

	var req UpdateConfigRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Update game config"); err != nil {
		return
	}

	upd := domain.ConfigUpdate{
		Title:           req.Title,
		Description:     req.Description,
		EndTime:         req.EndTime,
		SettlementTime:  req.SettlementTime,
		MinStake:        req.MinStake,
		MaxStake:        req.MaxStake,
		MaxParticipants: req.MaxParticipants,
	}

	g, err := h.service.UpdateConfig(r.Context(), id, upd)
	if err != nil {
		logger.FromContext(r.Context()).Error(ErrMsgUpdateConfigFailed, "error", err, "gameID", id)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, g)
}

func (h *GameHandler) HandleListActive(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.ListActive(r.Context(), GetPageRequest(r))
	if err != nil {
		logger.FromContext(r.Context()).Error(ErrMsgListGamesFailed, "error", err)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, res)
}

func (h *GameHandler) HandleListByStatus(w http.ResponseWriter, r *http.Request) {
	statusStr, ok := GetQueryParam(r, w, "status")
	if !ok {
		return
	}

	res, err := h.service.ListByStatus(r.Context(), domain.GameStatus(statusStr), GetPageRequest(r))
	if err != nil {
		logger.FromContext(r.Context()).Error(ErrMsgListGamesFailed, "error", err, "status", statusStr)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, res)
}

func (h *GameHandler) HandleListByCreator(w http.ResponseWriter, r *http.Request) {
	creatorID, ok := GetQueryParam(r, w, "creator_id")
	if !ok {
		return
	}

	res, err := h.service.ListByCreator(r.Context(), domain.UserID(creatorID), GetPageRequest(r))
	if err != nil {
		logger.FromContext(r.Context()).Error(ErrMsgListGamesFailed, "error", err, "creatorID", creatorID)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, res)
}

func (h *GameHandler) HandleListByParticipant(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetQueryParam(r, w, "user_id")
	if !ok {
		return
	}

	res, err := h.service.ListByParticipant(r.Context(), domain.UserID(userID), GetPageRequest(r))
	if err != nil {
		logger.FromContext(r.Context()).Error(ErrMsgListGamesFailed, "error", err, "userID", userID)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, res)
}

func (h *GameHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	filter := domain.GameFilter{
		CreatorID:      domain.UserID(r.URL.Query().Get("creator_id")),
		PredictionType: domain.PredictionType(r.URL.Query().Get("prediction_type")),
		TitleContains:  r.URL.Query().Get("q"),
	}
	for _, s := range r.URL.Query()["status"] {
		filter.Statuses = append(filter.Statuses, domain.GameStatus(s))
	}

	res, err := h.service.Search(r.Context(), filter, GetPageRequest(r))
	if err != nil {
		logger.FromContext(r.Context()).Error(ErrMsgSearchFailed, "error", err)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, res)
}
