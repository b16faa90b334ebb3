package router

import (
	"github.com/iliyamo/hotel-operations-backend/internal/handler"
	"github.com/iliyamo/hotel-operations-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterDesk registers the front-desk endpoints under /v1.  All routes
// require a valid JWT; both RECEPTIONIST and MANAGER may operate the
// desk.  The desk covers the guest directory, the booking lifecycle
// (create, deposit, check-in), payments and service usage recording.
func RegisterDesk(e *echo.Echo, b *handler.BookingHandler, t *handler.TransactionHandler,
	cu *handler.CustomerHandler, s *handler.ServiceHandler, p *handler.PromotionHandler,
	r *handler.RoomHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("RECEPTIONIST", "MANAGER"),
	)

	// ---- Customers ----
	g.POST("/customers", cu.Create)
	// Lookup must be registered before /customers/:id so Echo does not
	// swallow "lookup" as a path parameter.
	g.GET("/customers/lookup", cu.Lookup)
	g.GET("/customers/:id", cu.Get)
	g.PUT("/customers/:id", cu.Update)
	g.GET("/customers/:id/promotions", p.ListByCustomer)

	// ---- Bookings ----
	g.POST("/bookings", b.CreateBooking)
	g.GET("/bookings/:id", b.GetBooking)
	g.POST("/bookings/:id/check-in", b.CheckIn)
	// Direct ledger entries on one booking: deposits, room and service
	// charges, refunds and adjustments.  A completed deposit reaching the
	// required amount confirms the booking.
	g.POST("/bookings/:id/transactions", b.CreateTransaction)
	g.GET("/bookings/:id/transactions", b.ListTransactions)
	g.GET("/bookings/:id/histories", b.ListHistories)

	// ---- Payments ----
	// Scenario payment pipeline: whole booking, room subset, booking
	// service or walk-in guest service, with optional promotions.
	g.POST("/transactions", t.Create)
	g.GET("/transactions/:id", t.Get)

	// ---- Service usage ----
	g.POST("/service-usages", s.RecordUsage)
	g.GET("/booking-rooms/:id/service-usages", s.ListUsages)
	g.GET("/services", s.List)

	// ---- Promotion grants ----
	g.POST("/promotions/:id/grants", p.Grant)

	// ---- Inventory (read side) ----
	g.GET("/room-types", r.ListRoomTypes)
	g.GET("/rooms", r.ListRooms)
}
