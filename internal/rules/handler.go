package rules

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"SpadesEngine/internal/game/card"
	"SpadesEngine/internal/game/hand"
	"SpadesEngine/internal/game/trick"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(r gin.IRouter) {
	r.POST("/trick/winner", h.Winner)
	r.POST("/hand/moves", h.Moves)
	r.POST("/trick/play", h.Play)
}

// POST /v1/trick/winner  body: {trick: {lead, plays}}
func (h *Handler) Winner(c *gin.Context) {
	var req WinnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.svc.Winner(c.Request.Context(), req.Trick)
	if err != nil {
		mapError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /v1/hand/moves  body: {hand: {cards, played}, trick: {lead, plays}}
func (h *Handler) Moves(c *gin.Context) {
	var req MovesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.svc.Moves(c.Request.Context(), req)
	if err != nil {
		mapError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /v1/trick/play  body: {hand, trick, seat, card}
func (h *Handler) Play(c *gin.Context) {
	var req PlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.svc.Play(c.Request.Context(), req)
	if err != nil {
		mapError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), RequestID: c.GetString("request_id")})
}

func mapError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, card.ErrInvalidCard),
		errors.Is(err, trick.ErrInvalidSeat),
		errors.Is(err, trick.ErrSeatOutOfRange),
		errors.Is(err, hand.ErrHandFull):
		status = http.StatusBadRequest
	case errors.Is(err, trick.ErrSeatAlreadyPlayed),
		errors.Is(err, trick.ErrOutOfTurn):
		status = http.StatusConflict
	case errors.Is(err, ErrIllegalMove),
		errors.Is(err, hand.ErrHandIncomplete),
		errors.Is(err, hand.ErrNoPlayableMoves),
		errors.Is(err, hand.ErrCardNotHeld),
		errors.Is(err, hand.ErrCardPlayed):
		status = http.StatusUnprocessableEntity
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.JSON(status, ErrorResponse{Error: msg, RequestID: c.GetString("request_id")})
}
