package router

import (
	"sitesurvey/internal/survey/handler"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func RegisterRoutes(e *echo.Echo, h *handler.Handler, sessions handler.SessionService) {
	// Enable CORS for the survey web front-end
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST, echo.PATCH, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Health Check
	e.GET("/health", handler.HealthCheck)

	v1 := e.Group("/api/v1")
	v1.Use(handler.RequestIDMiddleware)

	// Login is the only unauthenticated endpoint
	v1.POST("/auth/login", h.PostLogin)

	authed := v1.Group("")
	authed.Use(handler.SessionMiddleware(sessions))

	authed.POST("/auth/logout", h.PostLogout)
	authed.GET("/auth/me", h.GetMe)

	// Survey records (owner-scoped)
	authed.POST("/records", h.PostRecord)
	authed.GET("/records", h.GetRecords)
	authed.GET("/records/:id", h.GetRecord)
	authed.PATCH("/records/:id", h.PatchRecord)
	authed.DELETE("/records/:id", h.DeleteRecord)
	authed.POST("/records/:id/images", h.PostRecordImage)

	// Bulk exports
	authed.POST("/exports/pdf", h.PostExportPDF)
	authed.POST("/exports/excel", h.PostExportExcel)

	// Admin-wide flattened view (role enforced in the service layer)
	authed.GET("/admin/records", h.GetAdminRecords)
}
