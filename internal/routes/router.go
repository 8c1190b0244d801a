package routes

import (
	"log/slog"
	"net/http"

	"game_inventory/internal/config"
	"game_inventory/internal/controllers"
	"game_inventory/internal/services"
	"game_inventory/internal/storage/mariadb"
	"game_inventory/internal/storage/uploads"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func SetupRouter(log *slog.Logger, storage *mariadb.Storage, uploads *uploads.Uploads, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.HTTPServer.Cors,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	attributeService := services.NewAttributeService(storage, log)

	gameService := services.NewGameService(storage, log)
	gameController := controllers.NewGameController(gameService, attributeService, log, uploads)

	consoleService := services.NewConsoleService(storage, log)
	consoleController := controllers.NewConsoleController(consoleService, attributeService, log, uploads)

	familyService := services.NewFamilyService(storage, log)
	familyController := controllers.NewFamilyController(familyService, log)

	peripheralService := services.NewPeripheralService(storage, log)
	peripheralController := controllers.NewPeripheralController(peripheralService, attributeService, log, uploads)

	categoryService := services.NewCategoryService(storage, log)
	categoryController := controllers.NewCategoryController(categoryService, log)

	attributeController := controllers.NewAttributeController(attributeService, log)

	completionTypeService := services.NewCompletionTypeService(storage, log)
	completionTypeController := controllers.NewCompletionTypeController(completionTypeService, log)

	backlogService := services.NewBacklogService(storage, log)
	backlogController := controllers.NewBacklogController(backlogService, attributeService, log)

	exportService := services.NewExportService(storage, log)
	exportController := controllers.NewExportController(exportService, log)

	uploadController := controllers.NewUploadController(uploads, log)

	r.Route("/api", func(r chi.Router) {
		r.Route("/games", func(r chi.Router) {
			r.Get("/", gameController.GetAll)
			r.Post("/", gameController.Create)
			r.Post("/multi", gameController.CreateMulti)
			r.Get("/category/{categoryId}", gameController.GetByCategory)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", gameController.GetByID)
				r.Patch("/", gameController.Update)
				r.Delete("/", gameController.Delete)
			})
		})

		r.Route("/consoles", func(r chi.Router) {
			r.Get("/", consoleController.GetAll)
			r.Post("/", consoleController.Create)
			r.Get("/console/{familyId}", consoleController.GetByFamily)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", consoleController.GetByID)
				r.Patch("/", consoleController.Update)
				r.Delete("/", consoleController.Delete)
			})
		})

		r.Route("/console-families", func(r chi.Router) {
			r.Get("/", familyController.GetAll)
			r.Post("/", familyController.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", familyController.GetByID)
				r.Patch("/", familyController.Update)
				r.Delete("/", familyController.Delete)
			})
		})

		r.Route("/peripherals", func(r chi.Router) {
			r.Get("/", peripheralController.GetAll)
			r.Post("/", peripheralController.Create)
			r.Get("/console/{familyId}", peripheralController.GetByFamily)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", peripheralController.GetByID)
				r.Patch("/", peripheralController.Update)
				r.Delete("/", peripheralController.Delete)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categoryController.GetAll)
			r.Post("/", categoryController.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", categoryController.GetByID)
				r.Patch("/", categoryController.Update)
				r.Delete("/", categoryController.Delete)
			})
		})

		r.Route("/attributes", func(r chi.Router) {
			r.Get("/", attributeController.GetAll)
			r.Post("/", attributeController.Create)
			r.Get("/global", attributeController.GetGlobal)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", attributeController.GetByID)
				r.Delete("/", attributeController.Delete)
			})
		})

		r.Route("/completion-types", func(r chi.Router) {
			r.Get("/", completionTypeController.GetAll)
			r.Post("/", completionTypeController.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", completionTypeController.GetByID)
				r.Delete("/", completionTypeController.Delete)
			})
		})

		r.Route("/backlog", func(r chi.Router) {
			r.Get("/", backlogController.GetAll)
			r.Post("/", backlogController.Create)
			r.Get("/game/{gameId}", backlogController.GetByGame)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", backlogController.GetByID)
				r.Patch("/", backlogController.Update)
				r.Delete("/", backlogController.Delete)
			})
		})

		r.Route("/export", func(r chi.Router) {
			r.Get("/excel", exportController.Export)
			r.Post("/import", exportController.Import)
		})

		r.Post("/uploads", uploadController.Upload)
	})

	fileServer := http.FileServer(http.Dir(uploads.Path()))
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", fileServer))

	return r
}
