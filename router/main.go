package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/joemans3/TandemLaunch-Scouting-DB/database"
	"github.com/joemans3/TandemLaunch-Scouting-DB/handlers"
	catalog_handlers "github.com/joemans3/TandemLaunch-Scouting-DB/handlers/catalog"
	contact_handlers "github.com/joemans3/TandemLaunch-Scouting-DB/handlers/contact"
	country_handlers "github.com/joemans3/TandemLaunch-Scouting-DB/handlers/country"
	department_handlers "github.com/joemans3/TandemLaunch-Scouting-DB/handlers/department"
	email_handlers "github.com/joemans3/TandemLaunch-Scouting-DB/handlers/email"
	people_handlers "github.com/joemans3/TandemLaunch-Scouting-DB/handlers/people"
	search_handlers "github.com/joemans3/TandemLaunch-Scouting-DB/handlers/search"
	university_handlers "github.com/joemans3/TandemLaunch-Scouting-DB/handlers/university"
	"github.com/joemans3/TandemLaunch-Scouting-DB/model"
	"github.com/joemans3/TandemLaunch-Scouting-DB/services"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils/auth"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils/metrics"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies is everything the routes need, built once at start-up
type Dependencies struct {
	Store *database.GORMStore

	// Registry lookups; nil disables the registry fallback of the resolver
	UniversityLookup services.UniversityLookup
	CountryLookup    services.CountryLookup

	// Optional collaborators
	Dump     *services.RORDump
	JWT      *auth.JWTManager
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	Security middleware.SecurityConfig
	Log      *utils.Logger
}

func SetupRoutes(app *fiber.App, deps Dependencies) {
	log := deps.Log
	if log == nil {
		log = utils.NewNopLogger()
	}
	db := deps.Store.DB()

	// Services
	resolver := services.NewEntityResolver(db, deps.UniversityLookup, deps.CountryLookup, deps.Metrics, log)
	directory := services.NewDirectoryService(db, log)
	search := services.NewSearchService(db, deps.Metrics)
	entries := services.NewCatalogEntryService(db, log)
	people := services.NewPeopleService(db, resolver, log)

	// Handlers
	searchHandler := search_handlers.NewSearchHandler(search)
	universityHandler := university_handlers.NewUniversityHandler(directory, deps.Dump, log)
	departmentHandler := department_handlers.NewDepartmentHandler(directory)
	headHandler := contact_handlers.NewContactHandler(directory, model.RoleDepartmentHead)
	adminHandler := contact_handlers.NewContactHandler(directory, model.RoleAdmin)
	catalogHandler := catalog_handlers.NewCatalogHandler(entries)
	peopleHandler := people_handlers.NewPeopleHandler(people, log)
	emailHandler := email_handlers.NewEmailHandler(people)
	countryHandler := country_handlers.NewCountryHandler(directory)

	middleware.SetupSecurity(app, deps.Security)

	// Health and metrics stay outside the write guard
	app.Get("/ping", handlers.HandleCheckHealth(deps.Store))
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// Mutating routes require a write token when JWT is configured
	app.Use(middleware.RequireWriteToken(deps.JWT))

	app.Get("/search", searchHandler.Search)

	// University routes
	universities := app.Group("/universities")
	universities.Get("/", universityHandler.ListUniversities)
	universities.Get("/suggestions", universityHandler.Suggestions)
	universities.Post("/", universityHandler.CreateUniversity)
	universities.Post("/aliases", universityHandler.CreateAlias)
	universities.Patch("/:id", universityHandler.UpdateUniversity)
	universities.Delete("/:id", universityHandler.DeleteUniversity)

	// Department routes
	departments := app.Group("/departments")
	departments.Get("/", departmentHandler.ListDepartments)
	departments.Post("/", departmentHandler.CreateDepartment)
	departments.Patch("/:id", departmentHandler.UpdateDepartment)
	departments.Delete("/:id", departmentHandler.DeleteDepartment)

	// Contact routes
	heads := app.Group("/department_heads")
	heads.Post("/", headHandler.CreateContact)
	heads.Patch("/:id", headHandler.UpdateContact)
	heads.Delete("/:id", headHandler.DeleteContact)

	admins := app.Group("/admins")
	admins.Post("/", adminHandler.CreateContact)
	admins.Patch("/:id", adminHandler.UpdateContact)
	admins.Delete("/:id", adminHandler.DeleteContact)

	// Flattened catalog routes
	catalog := app.Group("/catalog")
	catalog.Get("/", catalogHandler.ListEntries)
	catalog.Post("/", catalogHandler.CreateEntry)
	catalog.Patch("/:id", catalogHandler.UpdateEntry)
	catalog.Delete("/:id", catalogHandler.DeleteEntry)

	// People directory routes
	peopleRoutes := app.Group("/people")
	peopleRoutes.Get("/", peopleHandler.ListPeople)
	peopleRoutes.Get("/export_csv", peopleHandler.ExportCSV)
	peopleRoutes.Post("/", peopleHandler.CreatePerson)
	peopleRoutes.Get("/:id/emails", peopleHandler.ListEmails)
	peopleRoutes.Patch("/:id", peopleHandler.UpdatePerson)
	peopleRoutes.Delete("/:id", peopleHandler.DeletePerson)

	app.Post("/emails", emailHandler.IngestThread)
	app.Post("/email_logs", emailHandler.LogEmail)
	app.Get("/countries", countryHandler.ListCountries)

	log.Info("Routes registered")
}
