package handler

import (
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/hotel-operations-backend/internal/repository"
)

func newServiceHandlerForTest() *ServiceHandler {
    return NewServiceHandler(
        repository.NewServiceRepo(nil),
        repository.NewBookingRepo(nil),
        repository.NewCustomerRepo(nil),
    )
}

func postUsage(t *testing.T, h *ServiceHandler, body string) *httptest.ResponseRecorder {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodPost, "/v1/service-usages", strings.NewReader(body))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    rec := httptest.NewRecorder()
    require.NoError(t, h.RecordUsage(e.NewContext(req, rec)))
    return rec
}

func TestRecordUsageRequiresExactlyOneTarget(t *testing.T) {
    h := newServiceHandlerForTest()

    // Neither target.
    rec := postUsage(t, h, `{"service_id":1,"quantity":2}`)
    require.Equal(t, http.StatusBadRequest, rec.Code)
    require.Contains(t, rec.Body.String(), "exactly one of booking_room_id and customer_id")

    // Both targets.
    rec = postUsage(t, h, `{"service_id":1,"quantity":2,"booking_room_id":4,"customer_id":9}`)
    require.Equal(t, http.StatusBadRequest, rec.Code)
    require.Contains(t, rec.Body.String(), "exactly one of booking_room_id and customer_id")
}

func TestRecordUsageRejectsMissingServiceOrQuantity(t *testing.T) {
    h := newServiceHandlerForTest()

    rec := postUsage(t, h, `{"quantity":2,"booking_room_id":4}`)
    require.Equal(t, http.StatusBadRequest, rec.Code)
    require.Contains(t, rec.Body.String(), "service_id and a positive quantity are required")

    rec = postUsage(t, h, `{"service_id":1,"quantity":0,"booking_room_id":4}`)
    require.Equal(t, http.StatusBadRequest, rec.Code)
    require.Contains(t, rec.Body.String(), "service_id and a positive quantity are required")
}
