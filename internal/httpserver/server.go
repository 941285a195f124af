package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/fdg312/meal-planner/internal/auth"
	"github.com/fdg312/meal-planner/internal/blob"
	"github.com/fdg312/meal-planner/internal/catalog"
	"github.com/fdg312/meal-planner/internal/config"
	"github.com/fdg312/meal-planner/internal/foodprefs"
	"github.com/fdg312/meal-planner/internal/notifications"
	"github.com/fdg312/meal-planner/internal/nutrition"
	"github.com/fdg312/meal-planner/internal/planner"
	"github.com/fdg312/meal-planner/internal/reports"
	"github.com/fdg312/meal-planner/internal/storage"
	"github.com/fdg312/meal-planner/internal/storage/memory"
	"github.com/fdg312/meal-planner/internal/storage/postgres"
)

// Server представляет HTTP сервер
type Server struct {
	config         *config.Config
	mux            *http.ServeMux
	storage        storage.Storage
	blobStore      blob.Store
	hub            *notifications.Hub
	registry       *notifications.Registry
	authMiddleware *auth.Middleware
	logger         *log.Logger
}

// New создаёт новый HTTP сервер
func New(cfg *config.Config) *Server {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
		hub:    notifications.NewHub(),
		logger: log.Default(),
	}

	s.initStorage()
	s.initBlobStore()

	s.routes()
	return s
}

// initStorage инициализирует storage (Memory или Postgres)
func (s *Server) initStorage() {
	if s.config.DatabaseURL == "" {
		log.Println("Используется in-memory storage")
		s.storage = memory.New()
		return
	}

	log.Println("Подключение к PostgreSQL...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pgStorage, err := postgres.New(ctx, s.config.DatabaseURL)
	if err != nil {
		log.Printf("Ошибка подключения к PostgreSQL: %v", err)
		log.Println("Fallback на in-memory storage")
		s.storage = memory.New()
		return
	}
	log.Println("PostgreSQL подключен успешно")
	s.storage = pgStorage
}

// initBlobStore initializes the report file store. REPORTS_MODE overrides BLOB_MODE.
func (s *Server) initBlobStore() {
	log.Printf("INFO blob: initializing reports store (BLOB_MODE=%s, effective=%s)",
		s.config.Blob.Mode, s.config.Blob.EffectiveReportsMode())

	store, mode, err := blob.NewBlobStore(context.Background(), s.config.Blob, s.logger)
	if err != nil {
		log.Fatalf("FATAL blob: failed to initialize reports store: %v", err)
	}
	log.Printf("INFO blob: reports blob mode: %s", mode)
	s.blobStore = store
}

// routes регистрирует маршруты
func (s *Server) routes() {
	// Health check (no auth required)
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)

	// Auth API (no auth required)
	authService := auth.NewService(s.config)
	authHandler := auth.NewHandlers(authService)
	s.authMiddleware = auth.NewMiddleware(s.config, authService)

	// POST /v1/auth/dev - local dev token
	s.mux.HandleFunc("POST /v1/auth/dev", authHandler.HandleDevAuth)

	state := s.storage.State()

	// Preferences API
	foodPrefsService := foodprefs.NewService(state, s.logger)
	foodPrefsHandler := foodprefs.NewHandler(foodPrefsService)
	s.mux.HandleFunc("GET /v1/preferences", foodPrefsHandler.HandleGet)
	s.mux.HandleFunc("PUT /v1/preferences", foodPrefsHandler.HandlePut)

	// Recipes API
	catalogHandler := catalog.NewHandler(foodPrefsService)
	s.mux.HandleFunc("GET /v1/recipes", catalogHandler.HandleList)
	s.mux.HandleFunc("GET /v1/recipes/{id}", catalogHandler.HandleGet)

	// Nutrition Targets API
	nutritionService := nutrition.NewService(state, foodPrefsService, s.logger)
	nutritionHandler := nutrition.NewHandler(nutritionService)
	s.mux.HandleFunc("GET /v1/nutrition/targets", nutritionHandler.HandleGetTargets)
	s.mux.HandleFunc("PUT /v1/nutrition/targets", nutritionHandler.HandleUpsertTargets)
	s.mux.HandleFunc("DELETE /v1/nutrition/targets", nutritionHandler.HandleResetTargets)

	// Planner API
	s.registry = notifications.NewRegistry(s.config.NotificationTimeout, s.hub)
	plannerService := planner.NewService(state, s.registry, nutritionService, s.config.WeekStart, s.logger)
	plannerHandler := planner.NewHandler(plannerService)

	s.mux.HandleFunc("GET /v1/planner/week", plannerHandler.HandleWeek)
	s.mux.HandleFunc("PUT /v1/planner/current-week", plannerHandler.HandleSetCurrentWeek)
	s.mux.HandleFunc("POST /v1/planner/current-week/shift", plannerHandler.HandleShiftWeek)

	s.mux.HandleFunc("POST /v1/planner/meals", plannerHandler.HandleAddMeal)
	s.mux.HandleFunc("DELETE /v1/planner/meals", plannerHandler.HandleRemoveMeal)
	s.mux.HandleFunc("DELETE /v1/planner/meals/{id}", plannerHandler.HandleRemoveInstance)
	s.mux.HandleFunc("POST /v1/planner/meals/servings", plannerHandler.HandleChangeServings)
	s.mux.HandleFunc("DELETE /v1/planner", plannerHandler.HandleClear)
	s.mux.HandleFunc("GET /v1/planner/export", plannerHandler.HandleExport)

	s.mux.HandleFunc("GET /v1/planner/selection", plannerHandler.HandleGetSelection)
	s.mux.HandleFunc("PUT /v1/planner/selection", plannerHandler.HandleSelect)
	s.mux.HandleFunc("DELETE /v1/planner/selection", plannerHandler.HandleClearSelection)

	s.mux.HandleFunc("GET /v1/planner/notification", plannerHandler.HandleGetNotification)
	s.mux.HandleFunc("POST /v1/planner/notification/dismiss", plannerHandler.HandleDismissNotification)
	s.mux.HandleFunc("POST /v1/planner/notification/undo", plannerHandler.HandleUndo)

	// Notifications stream (SSE)
	notificationsHandler := notifications.NewHandler(s.hub)
	s.mux.HandleFunc("GET /v1/notifications/stream", notificationsHandler.HandleStream)

	// Nutrition summaries
	s.mux.HandleFunc("GET /v1/nutrition/day", plannerHandler.HandleDayNutrition)
	s.mux.HandleFunc("GET /v1/nutrition/week", plannerHandler.HandleWeekNutrition)
	s.mux.HandleFunc("GET /v1/dashboard", plannerHandler.HandleDashboard)

	// Shopping API
	s.mux.HandleFunc("GET /v1/shopping", plannerHandler.HandleShopping)
	s.mux.HandleFunc("PUT /v1/shopping/checked", plannerHandler.HandleSetChecked)
	s.mux.HandleFunc("DELETE /v1/shopping/checked", plannerHandler.HandleClearChecked)
	s.mux.HandleFunc("POST /v1/shopping/items", plannerHandler.HandleAddExtra)
	s.mux.HandleFunc("DELETE /v1/shopping/items/{id}", plannerHandler.HandleRemoveExtra)

	// Reports API
	generator := reports.NewGenerator(plannerService, s.config.WeekStart)
	reportsService := reports.NewService(
		s.storage.Reports(),
		generator,
		s.blobStore,
		s.config.ReportsMaxPerPage,
		s.logger,
	)
	reportsHandler := reports.NewHandlers(reportsService)

	s.mux.HandleFunc("POST /v1/reports", reportsHandler.HandleCreate)
	s.mux.HandleFunc("GET /v1/reports", reportsHandler.HandleList)
	s.mux.HandleFunc("GET /v1/reports/{id}/download", reportsHandler.HandleDownload)
	s.mux.HandleFunc("DELETE /v1/reports/{id}", reportsHandler.HandleDelete)
}

// Handler returns the router wrapped in the middleware chain
// (outermost first): CORS -> Rate Limit -> Auth -> Router.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux
	handler = s.authMiddleware.RequireAuth(handler)
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)
	return handler
}

// handleHealthz возвращает статус сервера
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// Run запускает HTTP сервер и останавливает его при отмене ctx.
// Открытые SSE-потоки закрываются вместе с контекстом запросов.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Сервер запущен на http://localhost%s\n", addr)
		log.Printf("Health check: http://localhost%s/healthz\n", addr)
		log.Printf("Planner API: http://localhost%s/v1/planner/week\n", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("INFO http: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close останавливает таймеры уведомлений и закрывает storage
func (s *Server) Close() error {
	if s.registry != nil {
		s.registry.Close()
	}
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
