// Embedded insurance API
//
// Quote, bind and portfolio analytics for embedded insurance products.
//
//	Schemes: https
//	Host: localhost
//	BasePath: /
//	Version: 0.0.1
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
//	Security:
//	- bearerAuth:
//
//	SecurityDefinitions:
//	bearerAuth:
//	    type: apiKey
//	    name: Authorization
//	    in: header
//
// swagger:meta
package actions

import (
	"github.com/gobuffalo/buffalo"
	paramlogger "github.com/gobuffalo/mw-paramlogger"

	"github.com/gobuffalo/buffalo-pop/v3/pop/popmw"
	contenttype "github.com/gobuffalo/mw-contenttype"
	"github.com/gorilla/sessions"
	"github.com/rs/cors"

	"github.com/embedsure/embed-api/compliance"
	"github.com/embedsure/embed-api/domain"
	"github.com/embedsure/embed-api/listeners"
	applog "github.com/embedsure/embed-api/log"
	"github.com/embedsure/embed-api/models"
	"github.com/embedsure/embed-api/underwriting"
)

var app *buffalo.App

// Underwriting configuration loaded once at startup. The carrier table is
// read from the database per request so capacity stays current.
var (
	uwCurves underwriting.RateCurves
	uwRules  *compliance.RuleSet
)

// App is where all routes and middleware for buffalo should be defined.
// This is the nerve center of your application.
//
// Routing, middleware, groups, etc... are declared TOP -> DOWN.
// This means if you add a middleware to `app` *after* declaring a
// group, that group will NOT have that new middleware. The same
// is true of resource declarations as well.
func App() *buffalo.App {
	if app == nil {
		app = buffalo.New(buffalo.Options{
			Env: domain.Env.GoEnv,
			PreWares: []buffalo.PreWare{
				cors.New(cors.Options{
					AllowCredentials: true,
					AllowedOrigins:   []string{domain.Env.UIURL},
					AllowedMethods:   []string{"HEAD", "GET", "POST", "PUT", "PATCH", "DELETE"},
					AllowedHeaders:   []string{"*"},
				}).Handler,
			},
			SessionName:  "_embed_api_session",
			SessionStore: sessions.NewCookieStore([]byte(domain.Env.SessionSecret)),
		})

		registerCustomErrorHandler(app)

		var err error
		if uwCurves, err = underwriting.LoadRateCurves(domain.Env.RateCurvesFile); err != nil {
			applog.Fatalf("failed to load rate curves: %s", err)
		}
		if uwRules, err = compliance.Load(domain.Env.ComplianceRulesFile); err != nil {
			applog.Fatalf("failed to load compliance rules: %s", err)
		}

		// Report panics and server errors to Sentry
		app.Use(applog.SentryMiddleware)

		// Log request parameters (filters apply).
		app.Use(paramlogger.ParameterLogger)

		// Set the request content type to JSON
		app.Use(contenttype.Set("application/json"))

		// Wraps each request in a transaction.
		app.Use(popmw.Transaction(models.DB))

		app.GET("/", homeHandler)

		app.Use(AuthN)
		app.Middleware.Skip(AuthN, homeHandler)

		quotesGroup := app.Group("/" + domain.TypeQuote)
		quotesGroup.POST("/", quotesCreate)
		quotesGroup.GET("/{id}", quotesView)
		quotesGroup.POST("/{id}/bind", quotesBind)

		policiesGroup := app.Group("/" + domain.TypePolicy)
		policiesGroup.GET("/", policiesList)
		policiesGroup.GET("/{id}", policiesView)
		policiesGroup.POST("/{id}/cancel", policiesCancel)

		carriersGroup := app.Group("/" + domain.TypeCarrier)
		carriersGroup.GET("/", carriersList)

		portfolioGroup := app.Group("/portfolio")
		portfolioGroup.POST("/simulations", portfolioSimulate)

		ledgerGroup := app.Group("/ledger")
		ledgerGroup.GET("/", ledgerList)
		ledgerGroup.POST("/", ledgerReconcile)

		listeners.RegisterListeners()
	}

	return app
}

// underwritingConfig assembles the pipeline configuration for one request:
// the startup rate curves and rules plus a fresh carrier snapshot.
func underwritingConfig(carriers models.Carriers) underwriting.Config {
	return underwriting.Config{
		Curves:   uwCurves,
		Carriers: carriers.RoutingSnapshot(),
		Rules:    uwRules,
	}
}
