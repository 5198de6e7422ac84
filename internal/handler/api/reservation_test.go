//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"food-rescue-api/internal/domain/reservation"
	"food-rescue-api/internal/handler/api"
	"food-rescue-api/internal/handler/middleware"
	resdto "food-rescue-api/internal/handler/dto/response"
	"food-rescue-api/internal/pkg/errs"
	"food-rescue-api/internal/usecase/commands"
	"food-rescue-api/internal/usecase/queries"
	"food-rescue-api/tests/common/httptest"
	"food-rescue-api/tests/common/testutil"
	commandsmock "food-rescue-api/tests/mock/commands"
	queriesmock "food-rescue-api/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

const (
	bearerUser = "U-token-subject"
	bodyUser   = "U-body-user"
)

type ReservationHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockReservationCommands
	mockQueries  *queriesmock.MockReservationQueries
}

func (s *ReservationHandlerTestSuite) SetupSubTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.router.Use(middleware.ErrorHandler())

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockReservationCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockReservationQueries(s.mockCtrl)
	handler := api.NewReservationHandler(s.mockCommands, s.mockQueries)

	// Mock authentication middleware for testing
	optionalAuth := func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			c.Set("user_id", bearerUser)
		}
		c.Next()
	}
	requireAuth := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": gin.H{"code": "unauthorized", "message": "Unauthorized"}})
			return
		}
		c.Set("user_id", bearerUser)
		c.Next()
	}

	s.router.POST("/api/reserve", optionalAuth, handler.Reserve)
	s.router.POST("/api/pickup", handler.Pickup)
	s.router.POST("/api/pay", requireAuth, handler.Pay)
	s.router.POST("/api/cancel", requireAuth, handler.Cancel)
	s.router.GET("/api/reservations/mine", requireAuth, handler.ListMine)
}

func TestReservationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReservationHandlerTestSuite))
}

func sampleResult(status reservation.Status) *commands.ReservationResult {
	start := time.Date(2025, 4, 1, 18, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	return &commands.ReservationResult{
		ID:          uuid.MustParse("0a1b2c3d-0000-4000-8000-000000000001"),
		OfferID:     uuid.MustParse("0a1b2c3d-0000-4000-8000-0000000000f1"),
		UserID:      bodyUser,
		PickupCode:  "ABC234",
		Status:      status,
		ShopName:    "Corner Bakery",
		PickupStart: &start,
		PickupEnd:   &end,
	}
}

// ================================================================================
// TestReserve
// ================================================================================

func (s *ReservationHandlerTestSuite) TestReserve() {
	url := "/api/reserve"
	reqBody := map[string]any{
		"offer_id":     "0a1b2c3d-0000-4000-8000-0000000000f1",
		"user_liff_id": bodyUser,
	}

	s.Run("成功: 200 と予約内容を返す", func() {
		result := sampleResult(reservation.StatusReserved)
		s.mockCommands.EXPECT().
			Reserve(gomock.Any(), commands.ReserveRequest{OfferID: reqBody["offer_id"].(string), UserID: bodyUser}).
			Return(result, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var got resdto.ReservationEnvelope
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &got)
		want := resdto.FromReservationResult(result)
		s.Empty(cmp.Diff(want, &got))
	})

	s.Run("成功: 検証済みトークンの subject が body の user_liff_id より優先される", func() {
		s.mockCommands.EXPECT().
			Reserve(gomock.Any(), commands.ReserveRequest{OfferID: reqBody["offer_id"].(string), UserID: bearerUser}).
			Return(sampleResult(reservation.StatusReserved), nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "id-token")
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("失敗: offer_id 欠落は 400 bad_request", func() {
		body := testutil.DtoMap(s.T(), reqBody, testutil.Field("offer_id", nil))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "bad_request")
	})

	errorCases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "invalid request", err: commands.ErrInvalidRequest, status: http.StatusBadRequest, code: "bad_request"},
		{name: "marked invalid request", err: errs.Mark(errs.New("invalid UUID length"), commands.ErrInvalidRequest), status: http.StatusBadRequest, code: "bad_request"},
		{name: "offer not found", err: commands.ErrOfferNotFound, status: http.StatusNotFound, code: "offer_not_found"},
		{name: "sold out", err: commands.ErrSoldOut, status: http.StatusConflict, code: "sold_out"},
		{name: "already reserved", err: commands.ErrAlreadyReserved, status: http.StatusConflict, code: "already_reserved"},
		{name: "store failure", err: errs.Mark(errs.New("conn reset"), commands.ErrDatabaseOperationFailed), status: http.StatusInternalServerError, code: "internal"},
	}
	for _, tc := range errorCases {
		s.Run("失敗: "+tc.name, func() {
			s.mockCommands.EXPECT().Reserve(gomock.Any(), gomock.Any()).Return(nil, tc.err)

			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
			httptest.AssertErrorResponse(s.T(), rec, tc.status, tc.code)
			s.NotContains(rec.Body.String(), "conn reset")
		})
	}
}

// ================================================================================
// TestPickup
// ================================================================================

func (s *ReservationHandlerTestSuite) TestPickup() {
	url := "/api/pickup"

	s.Run("成功: 200 ok:true", func() {
		s.mockCommands.EXPECT().PickupByCode(gomock.Any(), "abc234").Return(nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"pickup_code": "abc234"}, "")

		var got resdto.OKResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &got)
		s.True(got.OK)
	})

	s.Run("失敗: 使用済みコードは 400 invalid_or_used", func() {
		s.mockCommands.EXPECT().PickupByCode(gomock.Any(), "ABC234").Return(commands.ErrInvalidOrUsedCode)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"pickup_code": "ABC234"}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "invalid_or_used")
	})

	s.Run("失敗: 形式不正コードも invalid_or_used", func() {
		s.mockCommands.EXPECT().PickupByCode(gomock.Any(), "!!").
			Return(errs.Mark(reservation.ErrMalformedPickupCode, commands.ErrInvalidOrUsedCode))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"pickup_code": "!!"}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "invalid_or_used")
	})

	s.Run("失敗: pickup_code 欠落も invalid_or_used", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "invalid_or_used")
	})
}

// ================================================================================
// TestPay / TestCancel
// ================================================================================

func (s *ReservationHandlerTestSuite) TestOwnedTransitions() {
	reservationID := "0a1b2c3d-0000-4000-8000-000000000001"
	body := map[string]any{"reservation_id": reservationID}

	s.Run("成功: pay は呼び出し元をトークンから渡す", func() {
		s.mockCommands.EXPECT().MarkPaid(gomock.Any(), reservationID, bearerUser).
			Return(sampleResult(reservation.StatusPaid), nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/pay", body, "id-token")

		var got resdto.ReservationEnvelope
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &got)
		s.Equal("paid", got.Reservation.Status)
	})

	s.Run("成功: cancel", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), reservationID, bearerUser).
			Return(sampleResult(reservation.StatusCanceled), nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/cancel", body, "id-token")

		var got resdto.ReservationEnvelope
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &got)
		s.Equal("canceled", got.Reservation.Status)
	})

	s.Run("失敗: トークンなしは 401", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/pay", body, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "unauthorized")
	})

	s.Run("失敗: reservation_id 欠落は 400", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/pay", map[string]any{}, "id-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "bad_request")
	})

	errorCases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "not found", err: commands.ErrReservationNotFound, status: http.StatusNotFound, code: "not_found"},
		{name: "forbidden", err: commands.ErrForbidden, status: http.StatusForbidden, code: "forbidden"},
		{name: "invalid state", err: commands.ErrInvalidState, status: http.StatusBadRequest, code: "invalid_state"},
		{name: "marked forbidden", err: errs.Mark(errs.New("caller U2 is not U1"), commands.ErrForbidden), status: http.StatusForbidden, code: "forbidden"},
		{name: "marked invalid state", err: errs.Mark(errs.New("paid -> paid"), commands.ErrInvalidState), status: http.StatusBadRequest, code: "invalid_state"},
		{name: "marked invalid request", err: errs.Mark(errs.New("bad uuid"), commands.ErrInvalidRequest), status: http.StatusBadRequest, code: "bad_request"},
	}
	for _, tc := range errorCases {
		s.Run("失敗: pay "+tc.name, func() {
			s.mockCommands.EXPECT().MarkPaid(gomock.Any(), reservationID, bearerUser).Return(nil, tc.err)

			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/pay", body, "id-token")
			httptest.AssertErrorResponse(s.T(), rec, tc.status, tc.code)
		})
		s.Run("失敗: cancel "+tc.name, func() {
			s.mockCommands.EXPECT().Cancel(gomock.Any(), reservationID, bearerUser).Return(nil, tc.err)

			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/cancel", body, "id-token")
			httptest.AssertErrorResponse(s.T(), rec, tc.status, tc.code)
		})
	}
}

// ================================================================================
// TestListMine
// ================================================================================

func (s *ReservationHandlerTestSuite) TestListMine() {
	url := "/api/reservations/mine"

	s.Run("成功: items を返す", func() {
		items := []*queries.ReservationListItem{
			{ID: uuid.New(), OfferID: uuid.New(), Status: reservation.StatusPaid, PickupCode: "ABC234", ShopName: "Corner Bakery"},
		}
		s.mockQueries.EXPECT().ListMine(gomock.Any(), bearerUser).Return(items, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "id-token")

		var got resdto.ReservationListEnvelope
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &got)
		s.True(got.OK)
		s.Empty(cmp.Diff(items, got.Items))
	})

	s.Run("成功: 0 件は空配列", func() {
		s.mockQueries.EXPECT().ListMine(gomock.Any(), bearerUser).Return(nil, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "id-token")
		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`{"ok":true,"items":[]}`, rec.Body.String())
	})

	s.Run("失敗: 読み出しエラーは 500", func() {
		s.mockQueries.EXPECT().ListMine(gomock.Any(), bearerUser).Return(nil, queries.ErrListFailed)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "id-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "internal")
	})
}
