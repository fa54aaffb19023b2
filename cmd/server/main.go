package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/agenda"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/bookingapi"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/config"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/database"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/handler"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/metrics"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/middleware"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/queue"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/repository"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/router"
	queue_publisher "github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/service"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/state"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("env: .env not loaded: %v", err)
	}
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	display, err := config.LoadDisplay(cfg.DisplayFile)
	if err != nil {
		log.Fatal(err)
	}
	opts, err := display.Apply(agenda.DefaultRenderOptions(agenda.Date{}))
	if err != nil {
		log.Fatal(err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	rdb := config.NewRedisClient() // nil when Redis is off; limiter and cache degrade
	if rdb != nil {
		defer rdb.Close()
	}

	api := bookingapi.New(bookingapi.Options{
		BaseURL:  cfg.BookingAPIURL,
		Timeouts: bookingapi.Timeouts{Fetch: cfg.BookingAPITimeout},
		Metrics:  m,
	})
	store := state.NewStore(cfg.SnapshotTTL, cfg.Timezone, m)

	hub := handler.NewAgendaHub(originChecker(cfg.CORSOrigins), m)
	go hub.Run(ctx)

	var audit *handler.AuditHandler
	if cfg.AuditEnabled() {
		db, err := database.Open(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.Fatalf("audit db: %v", err)
		}
		defer db.Close()
		repo := repository.NewAuditRepo(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatalf("audit db: %v", err)
		}
		audit = &handler.AuditHandler{Repo: repo}
		if cfg.AMQPURL != "" {
			go func() {
				if err := queue.StartStaffActionConsumer(ctx, cfg.AMQPURL, repo); err != nil && !errors.Is(err, context.Canceled) {
					log.Printf("consumer: stopped: %v", err)
				}
			}()
		}
	}

	cacheCfg := config.LoadCacheConfig()
	changes := &handler.Changes{
		Store: store,
		Hub:   hub,
		Purge: func(ctx context.Context) error { return middleware.PurgeCache(ctx, cacheCfg, rdb) },
	}
	if pub := queue_publisher.New(cfg.AMQPURL); pub.Enabled() {
		changes.Publisher = pub
	}

	validate := validator.New()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			log.Printf("http: %s %s %d %s", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))

	router.RegisterRoutes(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	router.RegisterAdmin(e, router.Admin{
		JWTSecret:    cfg.JWTSecret,
		Agenda:       handler.NewAgendaHandler(api, store, hub, opts, m),
		Reservations: handler.NewReservationHandler(api, validate, store, changes),
		Reviews:      handler.NewReviewHandler(api, validate, changes),
		Dashboard:    handler.NewDashboardHandler(api),
		Financial:    handler.NewFinancialHandler(api, store, m),
		Audit:        audit,
		RateLimit:    middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		Cache:        middleware.NewRedisCache(cacheCfg, rdb),
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", middleware.TokenHeader},
		ExposedHeaders:   []string{"Content-Disposition", "Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(e),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Printf("listening on %s (env=%s)", srv.Addr, cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// originChecker limits websocket upgrades to the CORS origins.  A "*" entry
// or an empty list allows every origin.
func originChecker(origins []string) func(r *http.Request) bool {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			return nil
		}
		allowed[o] = true
	}
	if len(allowed) == 0 {
		return nil
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed[origin]
	}
}
