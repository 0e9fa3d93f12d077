// Command server runs the landmark guide web application.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/generative-ai-go/genai"
	"github.com/gorilla/csrf"
	"google.golang.org/api/option"
	texttospeech "google.golang.org/api/texttospeech/v1"

	"github.com/rahul4469/landmark-guide/internal/config"
	"github.com/rahul4469/landmark-guide/internal/controllers"
	"github.com/rahul4469/landmark-guide/internal/crypto"
	"github.com/rahul4469/landmark-guide/internal/middleware"
	"github.com/rahul4469/landmark-guide/internal/models"
	"github.com/rahul4469/landmark-guide/internal/services"
	"github.com/rahul4469/landmark-guide/internal/views"
	"github.com/rahul4469/landmark-guide/templates"
)

// identifyBudget covers the slowest request: reading the upload, describing
// and translating it, then the link lookups.
const identifyBudget = 30*time.Second + 2*services.GeminiTimeout + controllers.LinkLookupTimeout

func main() {
	genKey := flag.Bool("gen-session-key", false, "print a random SESSION_ENCRYPTION_KEY and exit")
	flag.Parse()

	if *genKey {
		key, err := crypto.GenerateKeyBase64()
		if err != nil {
			slog.Error("key generation failed", "error", err)
			os.Exit(1)
		}
		fmt.Println(key)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Server.LogLevel,
	}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Setup session storage ---------------
	var sealer models.Sealer
	if cfg.Security.SessionEncryptionKey != "" {
		enc, err := crypto.NewEncryptorFromSecret(cfg.Security.SessionEncryptionKey)
		if err != nil {
			return fmt.Errorf("session encryption: %w", err)
		}
		sealer = enc
	}

	store, err := openSessionStore(ctx, cfg, sealer, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	// Setup Services ---------------
	genaiClient, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIs.GeminiAPIKey))
	if err != nil {
		return fmt.Errorf("gemini client: %w", err)
	}
	defer genaiClient.Close()

	ttsService, err := texttospeech.NewService(ctx, option.WithAPIKey(cfg.APIs.TTSAPIKey))
	if err != nil {
		return fmt.Errorf("text-to-speech client: %w", err)
	}

	catalog, err := services.LoadLanguageCatalog()
	if err != nil {
		return err
	}

	landmarkServices := controllers.LandmarkServices{
		Describer: services.NewGeminiDescriber(genaiClient.GenerativeModel(cfg.APIs.GeminiModel), catalog),
		Wiki:      services.NewWikiClient(cfg.APIs.WikipediaBaseURL, cfg.APIs.WikipediaUserAgent),
		Speech:    services.NewCloudSpeech(ttsService),
		Planner:   services.NewItineraryGenerator(cfg.Itinerary.CheapestFlightDays),
	}

	// Setup Controllers ---------------
	views.TemplateFS = templates.FS
	landmarkCtrl := controllers.NewLandmarkController(
		landmarkServices,
		store,
		catalog,
		controllers.LandmarkTemplates{
			Home: views.MustParseFS("pages/home.gohtml"),
		},
		cfg.Security.SessionCookieName,
		cfg.Limits.MaxUploadBytes,
		logger,
	)

	sessionMw := middleware.NewSessionMiddleware(
		store,
		cfg.Security.SessionCookieName,
		cfg.Security.SessionDuration,
		cfg.Security.SecureCookies,
		logger,
	)
	csrfMw := csrf.Protect(
		[]byte(cfg.Security.CSRFSecret),
		csrf.Secure(cfg.Security.SecureCookies),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(landmarkCtrl.CSRFFailure)),
	)

	// Setup router and routes
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", controllers.HealthCheck(store.checks))

	r.Group(func(r chi.Router) {
		// The session and body limit run before the CSRF check so its
		// error handler can render the page for oversized uploads.
		r.Use(sessionMw.SetSession)
		r.Use(middleware.LimitBody(cfg.Limits.MaxUploadBytes))
		if !cfg.Security.SecureCookies {
			r.Use(plaintextCSRF)
		}
		r.Use(csrfMw)

		r.Get("/", landmarkCtrl.GetHome)
		r.Post("/identify", landmarkCtrl.PostIdentify)
		r.Post("/itinerary", landmarkCtrl.PostItinerary)
		r.Post("/reset", landmarkCtrl.PostReset)
		r.Get("/image", landmarkCtrl.GetImage)
		r.Get("/audio", landmarkCtrl.GetAudio)
	})

	// Start the Server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      identifyBudget,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port, "env", cfg.Server.Environment, "session_store", cfg.Store.Backend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// plaintextCSRF tells the CSRF middleware that requests arrive over plain
// HTTP, which is the case in local development.
func plaintextCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}
