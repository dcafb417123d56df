// Package http содержит маршрутизацию HTTP сервера.
package http

import (
	"github.com/gofiber/fiber/v3"

	"tagnote/internal/client"
	"tagnote/internal/gateway/adapters/http/auth"
	"tagnote/internal/gateway/adapters/http/health"
	"tagnote/internal/gateway/adapters/http/notes"
	"tagnote/internal/gateway/adapters/http/pages"
	"tagnote/internal/gateway/adapters/http/response"
	"tagnote/internal/gateway/app/dto"
	"tagnote/internal/gateway/app/http/middleware"
	"tagnote/internal/session"
	"tagnote/pkg/logger"
)

// Dependencies зависимости маршрутов.
type Dependencies struct {
	Logger  *logger.Logger
	Factory *client.Factory
	Manager *session.Manager
	Checker health.ReportSource
	Cookie  middleware.SessionOptions
}

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(app *fiber.App, deps Dependencies) error {
	pagesHandler, err := pages.NewHandler()
	if err != nil {
		return err
	}
	authHandler := auth.NewHandler(deps.Factory.Tokens())
	notesHandler := notes.NewHandler(func(token string) notes.NotesAPI {
		return deps.Factory.NotesWithToken(token)
	})
	healthHandler := health.NewHandler(deps.Checker)

	// Middleware для всех запросов.
	app.Use(middleware.NewRequestIDMiddleware(deps.Logger))
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())

	app.Get("/healthz", healthHandler.Check)

	// HTML страницы работают в браузерной сессии.
	browser := middleware.NewSessionMiddleware(deps.Manager, deps.Cookie)

	// Промежуточные обработчики маршрута выполняются до основного.
	app.Get(pages.PathLanding, pagesHandler.Landing, browser)

	authPages := app.Group("/auth", browser)
	authPages.Post("/submit", pagesHandler.Submit)
	authPages.Post("/toggle", pagesHandler.Toggle)
	authPages.Post("/signout", pagesHandler.SignOut)

	profilePages := app.Group(pages.PathProfile, browser)
	profilePages.Get("", pagesHandler.Profile)
	profilePages.Post("/notes", pagesHandler.CreateNote)
	profilePages.Get("/notes/:id/edit", pagesHandler.StartEdit)
	profilePages.Post("/notes/:id", pagesHandler.SaveEdit)
	profilePages.Post("/notes/:id/cancel", pagesHandler.CancelEdit)
	profilePages.Get("/notes/:id/delete", pagesHandler.ConfirmDelete)
	profilePages.Post("/notes/:id/delete", pagesHandler.Delete)
	profilePages.Post("/filter", pagesHandler.ToggleTag)
	profilePages.Post("/filter/clear", pagesHandler.ClearFilters)

	// API версии 1.
	apiV1 := app.Group("/api/v1")
	bearer := middleware.NewAuthMiddleware(deps.Factory.Tokens(), response.Error)

	// Auth routes (публичные).
	authRoutes := apiV1.Group("/auth")
	authRoutes.Post("/signup", authHandler.SignUp)
	authRoutes.Post("/signin", authHandler.SignIn)
	authRoutes.Post("/refresh", authHandler.Refresh)
	authRoutes.Post("/signout", authHandler.SignOut)

	// Защищенные маршруты.
	userRoutes := apiV1.Group("/user", bearer)
	userRoutes.Get("", authHandler.GetUser)

	tagsRoutes := apiV1.Group("/tags", bearer)
	tagsRoutes.Get("", notesHandler.UserTags)

	notesRoutes := apiV1.Group("/notes", bearer)
	notesRoutes.Get("", notesHandler.ListNotes)
	notesRoutes.Post("", notesHandler.CreateNote)
	notesRoutes.Get("/:id", notesHandler.GetNote)
	notesRoutes.Patch("/:id", notesHandler.UpdateNote)
	notesRoutes.Delete("/:id", notesHandler.DeleteNote)

	// Обработчик для несуществующих маршрутов.
	app.Use(func(c fiber.Ctx) error {
		return response.JSON(c, fiber.StatusNotFound, dto.ErrorResponse{Error: response.MsgRouteNotFound})
	})

	return nil
}
