package api

import (
	"context"
	"net/http"

	reqdto "food-rescue-api/internal/handler/dto/request"
	resdto "food-rescue-api/internal/handler/dto/response"
	"food-rescue-api/internal/handler/httperr"
	"food-rescue-api/internal/handler/middleware"
	"food-rescue-api/internal/usecase/commands"
	"food-rescue-api/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ReservationHandler struct {
	cmds commands.ReservationCommands
	q    queries.ReservationQueries
}

func NewReservationHandler(cmds commands.ReservationCommands, q queries.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{cmds: cmds, q: q}
}

// @Summary Reserve one unit of an offer
// @Description A verified bearer identity takes precedence over user_liff_id in the body
// @Tags reservations
// @Accept json
// @Produce json
// @Param request body reqdto.ReserveRequest true "Reserve request"
// @Success 200 {object} resdto.ReservationEnvelope
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /api/reserve [post]
func (h *ReservationHandler) Reserve(c *gin.Context) {
	var req reqdto.ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "bad_request", "offer_id and user_liff_id are required")
		return
	}

	userID := req.UserLiffID
	if verified, ok := middleware.GetUserID(c); ok {
		userID = verified
	}

	result, err := h.cmds.Reserve(c.Request.Context(), commands.ReserveRequest{
		OfferID: req.OfferID,
		UserID:  userID,
	})
	if err != nil {
		abortWithCommandError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationResult(result))
}

// @Summary Redeem a pickup code
// @Tags reservations
// @Accept json
// @Produce json
// @Param request body reqdto.PickupRequest true "Pickup request"
// @Success 200 {object} resdto.OKResponse
// @Failure 400 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Router /api/pickup [post]
func (h *ReservationHandler) Pickup(c *gin.Context) {
	var req reqdto.PickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "invalid_or_used", "Invalid or already used pickup code")
		return
	}

	if err := h.cmds.PickupByCode(c.Request.Context(), req.PickupCode); err != nil {
		abortWithCommandError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.OKResponse{OK: true})
}

// @Summary Mark own reservation paid
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ReservationActionRequest true "Reservation id"
// @Success 200 {object} resdto.ReservationEnvelope
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/pay [post]
func (h *ReservationHandler) Pay(c *gin.Context) {
	h.ownedTransition(c, h.cmds.MarkPaid)
}

// @Summary Cancel own reservation
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ReservationActionRequest true "Reservation id"
// @Success 200 {object} resdto.ReservationEnvelope
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/cancel [post]
func (h *ReservationHandler) Cancel(c *gin.Context) {
	h.ownedTransition(c, h.cmds.Cancel)
}

// @Summary List own active reservations
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.ReservationListEnvelope
// @Failure 401 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /api/reservations/mine [get]
func (h *ReservationHandler) ListMine(c *gin.Context) {
	callerID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "unauthorized", "Unauthorized")
		return
	}

	items, err := h.q.ListMine(c.Request.Context(), callerID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "internal", "Failed to load reservations")
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationList(items))
}

type ownedTransitionFunc func(ctx context.Context, reservationID, callerID string) (*commands.ReservationResult, error)

func (h *ReservationHandler) ownedTransition(c *gin.Context, apply ownedTransitionFunc) {
	callerID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "unauthorized", "Unauthorized")
		return
	}

	var req reqdto.ReservationActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "bad_request", "reservation_id is required")
		return
	}

	result, err := apply(c.Request.Context(), req.ReservationID, callerID)
	if err != nil {
		abortWithCommandError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationResult(result))
}

type errorMapping struct {
	status  int
	message string
}

var commandErrors = map[string]errorMapping{
	"bad_request":      {http.StatusBadRequest, "Invalid request"},
	"offer_not_found":  {http.StatusNotFound, "Offer not found"},
	"sold_out":         {http.StatusConflict, "Offer is sold out"},
	"already_reserved": {http.StatusConflict, "You already hold a reservation for this offer"},
	"invalid_or_used":  {http.StatusBadRequest, "Invalid or already used pickup code"},
	"not_found":        {http.StatusNotFound, "Reservation not found"},
	"forbidden":        {http.StatusForbidden, "Reservation belongs to another user"},
	"invalid_state":    {http.StatusBadRequest, "Reservation cannot change state"},
	"internal":         {http.StatusInternalServerError, "Internal server error"},
}

func abortWithCommandError(c *gin.Context, err error) {
	code := commands.Outcome(err)
	m, ok := commandErrors[code]
	if !ok {
		code, m = "internal", commandErrors["internal"]
	}
	httperr.AbortWithError(c, m.status, err, code, m.message)
}
