package webd

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jellydator/ttlcache/v3"
	"github.com/olahol/melody"
	"github.com/rotblauer/catspots/api"
	"github.com/rotblauer/catspots/conceptual"
	"github.com/rotblauer/catspots/events"
	"github.com/rotblauer/catspots/params"
	"github.com/rotblauer/catspots/types/inference"
)

type WebDaemon struct {
	Config *params.WebDaemonConfig

	// Geocoder is optional.
	Geocoder api.Geocoder

	logger  *slog.Logger
	started time.Time
	results *ttlcache.Cache[conceptual.CatID, *inference.Result]
	melody  *melody.Melody
}

func NewWebDaemon(config *params.WebDaemonConfig) *WebDaemon {
	if config == nil {
		config = params.DefaultWebDaemonConfig()
	}
	if config.Inference == nil {
		config.Inference = params.DefaultInferenceConfig()
	}
	s := &WebDaemon{
		Config:  config,
		logger:  slog.With("d", "web"),
		started: time.Now(),
		results: ttlcache.New[conceptual.CatID, *inference.Result](
			ttlcache.WithTTL[conceptual.CatID, *inference.Result](params.CacheLastResultTTL),
			ttlcache.WithDisableTouchOnHit[conceptual.CatID, *inference.Result](),
		),
	}
	s.melody = s.newMelody()
	return s
}

func (s *WebDaemon) cat(catID conceptual.CatID) *api.Cat {
	c := api.NewCat(catID, s.Config.DataDir, s.Config.Inference)
	c.Geocoder = s.Geocoder
	return c
}

// watchResults caches and broadcasts every announced run result until ctx is done.
// The subscription is live when watchResults returns.
func (s *WebDaemon) watchResults(ctx context.Context) {
	ch := make(chan *inference.Result, 16)
	sub := events.InferencesFeed.Subscribe(ch)
	go func() {
		defer sub.Unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case err := <-sub.Err():
				if err != nil {
					s.logger.Error("Result subscription failed", "error", err)
				}
				return
			case res := <-ch:
				s.results.Set(res.CatID, res, ttlcache.DefaultTTL)
				s.logger.Debug("Cached result", "cat", res.CatID, "status", res.Status)
				s.broadcastResult(res)
			}
		}
	}()
}

// Run serves HTTP on the configured listener until ctx is done.
func (s *WebDaemon) Run(ctx context.Context) error {
	s.watchResults(ctx)
	go s.results.Start()
	defer s.results.Stop()

	ln, err := net.Listen(s.Config.Network, s.Config.Address)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           s.NewRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errs := make(chan error, 1)
	go func() {
		errs <- srv.Serve(ln)
	}()
	s.logger.Info("Web daemon listening", "network", s.Config.Network, "address", ln.Addr().String())

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}
	if err := s.melody.Close(); err != nil {
		s.logger.Warn("Failed to close websockets", "error", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *WebDaemon) NewRouter() *mux.Router {
	router := mux.NewRouter().StrictSlash(false)
	router.Use(s.loggingMiddleware, recoveryMiddleware)

	// /socket streams run results over a websocket.
	router.Path("/socket").HandlerFunc(s.handleSocket)

	apiRoutes := router.NewRoute().Subrouter()

	// All API routes use permissive CORS settings.
	apiRoutes.Use(permissiveCorsMiddleware)

	// /ping is a simple server healthcheck endpoint
	apiRoutes.Path("/ping").HandlerFunc(pingPong)

	apiJSONRoutes := apiRoutes.NewRoute().Subrouter()
	apiJSONRoutes.Use(contentTypeMiddlewareFunc("application/json"))

	apiJSONRoutes.Path("/status").HandlerFunc(s.statusReport).Methods(http.MethodGet)
	apiJSONRoutes.Path("/metrics").HandlerFunc(handleMetrics).Methods(http.MethodGet)
	apiJSONRoutes.Path("/cats").HandlerFunc(s.handleCats).Methods(http.MethodGet)
	apiJSONRoutes.Path("/cats/{cat}/inferences").HandlerFunc(s.handleInferences).Methods(http.MethodGet)
	apiJSONRoutes.Path("/cats/{cat}/timetable").HandlerFunc(s.handleTimetable).Methods(http.MethodGet)
	apiJSONRoutes.Path("/cats/{cat}/predict").HandlerFunc(s.handlePredict).Methods(http.MethodGet)
	apiJSONRoutes.Path("/cats/{cat}/result").HandlerFunc(s.handleResult).Methods(http.MethodGet)
	apiJSONRoutes.Path("/cats/{cat}/runs").HandlerFunc(s.handleRuns).Methods(http.MethodGet)

	authenticatedAPIRoutes := apiJSONRoutes.NewRoute().Subrouter()
	authenticatedAPIRoutes.Use(s.tokenAuthenticationMiddleware)
	authenticatedAPIRoutes.Path("/cats/{cat}/infer").HandlerFunc(s.handleInfer).Methods(http.MethodPost)

	return router
}
