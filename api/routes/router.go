package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/sgr-storefront/api/controllers"
	"github.com/angelmondragon/sgr-storefront/api/middleware"
	"github.com/angelmondragon/sgr-storefront/api/static"
	"github.com/angelmondragon/sgr-storefront/internal/catalog"
	"github.com/angelmondragon/sgr-storefront/internal/chat"
	"github.com/angelmondragon/sgr-storefront/pkg/config"
	"github.com/angelmondragon/sgr-storefront/pkg/logger"
	"github.com/angelmondragon/sgr-storefront/pkg/maps"
)

// NewRouter wires every storefront route: server-rendered pages, the chat
// widget's JSON API, health and metrics.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	engine *catalog.Engine,
	flows *catalog.Flows,
	directory *catalog.Directory,
	chatSession *chat.Session,
	mapsClient *maps.Client,
	registry *prometheus.Registry,
	startedAt time.Time,
	readiness map[string]func(context.Context) error,
) (http.Handler, error) {
	rn, err := controllers.NewRenderer(logg)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(startedAt))
		r.Get("/ready", controllers.HealthReady(logg, controllers.ReadinessChecks(readiness)))
	})
	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}
	r.Handle("/static/*", static.Handler())

	r.Get("/", controllers.HomePage(rn))

	r.Route("/products", func(r chi.Router) {
		r.Get("/", controllers.ProductsPage(rn, engine, flows, directory, logg))
		r.Post("/filters", controllers.ApplyFilters(engine))
		r.Post("/page", controllers.GoToPage(engine))
		r.Post("/dialog", controllers.OpenDialog(engine, flows))
		r.Post("/create", controllers.CreateProduct(flows))
		r.Post("/update", controllers.UpdateProduct(flows))
		r.Post("/delete", controllers.DeleteProduct(flows))
		r.Post("/categories", controllers.CreateCategory(flows, logg))
	})

	r.Get("/contacts", controllers.ContactsPage(rn, cfg.Contact, mapsClient, logg))

	r.Route("/api/chat", func(r chi.Router) {
		r.Get("/messages", controllers.ChatTranscript(chatSession))
		r.Post("/messages", controllers.ChatSend(chatSession, logg))
		r.Post("/reset", controllers.ChatReset(chatSession, logg))
	})

	return r, nil
}
