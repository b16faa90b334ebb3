package router // router defines how HTTP routes are registered for the API

import (
	"github.com/iliyamo/hotel-operations-backend/internal/handler"    // manager handlers
	"github.com/iliyamo/hotel-operations-backend/internal/middleware" // JWT + role middlewares
	"github.com/labstack/echo/v4"
)

// RegisterManager registers MANAGER-scoped endpoints under /v1.
// All routes require a valid JWT and MANAGER role.
func RegisterManager(e *echo.Echo, r *handler.RoomHandler, s *handler.ServiceHandler,
	p *handler.PromotionHandler, jwtSecret string) {
	// Attach middlewares at group construction time for clarity.
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("MANAGER"),
	)

	// ---- Room inventory ----
	g.POST("/room-types", r.CreateRoomType)
	g.POST("/rooms", r.CreateRoom)
	// NOTE: listing room types and rooms is registered on the desk group so
	// receptionists can browse inventory when creating bookings.

	// ---- Service catalog ----
	g.POST("/services", s.Create)
	g.PUT("/services/:id", s.Update)
	g.PATCH("/services/:id", s.Update) // allow partial/semantic updates via PATCH as well
	g.DELETE("/services/:id", s.Delete)

	// ---- Promotions ----
	g.POST("/promotions", p.Create)
}
