package main

import (
	"context"
	"net"
	"net/http"

	"github.com/mager/cochlea/analysis"
	"github.com/mager/cochlea/blob"
	"github.com/mager/cochlea/config"
	"github.com/mager/cochlea/database"
	analyzeHandler "github.com/mager/cochlea/handler/analyze"
	"github.com/mager/cochlea/handler/health"
	jobHandler "github.com/mager/cochlea/handler/job"
	"github.com/mager/cochlea/jobstore"
	"github.com/mager/cochlea/logger"
	"github.com/mager/cochlea/promptgen"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Route is an http.Handler that knows the mux pattern
// under which it will be registered.
type Route interface {
	http.Handler

	// Pattern reports the path at which this is registered.
	Pattern() string
}

//	@title			Cochlea
//	@version		1.0
//	@description	This is the API for cochlea

// @host		localhost:8080
// @BasePath	/
func main() {
	fx.New(
		fx.Provide(NewHTTPServer,
			config.Options,
			logger.Options,
			database.Options,
			jobstore.Options,
			blob.Options,
			promptgen.Options,
			analysis.Options,

			AsRoute(health.NewHealthHandler),
			AsRoute(analyzeHandler.NewAnalyzeHandler),
			AsRoute(jobHandler.NewGetJobHandler),
			AsRoute(jobHandler.NewListJobsHandler),
		),
		fx.Invoke(func(*http.Server) {}),
	).Run()
}

func NewHTTPServer(
	lc fx.Lifecycle,
	log *zap.SugaredLogger,
	store jobstore.Store,
	orch *analysis.Orchestrator,
) *http.Server {
	mux := http.NewServeMux()

	jsonHandler := jsonMiddleware(mux)

	srv := &http.Server{Addr: ":8080", Handler: jsonHandler}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Infof("Starting HTTP server at %s", srv.Addr)
			go srv.Serve(ln)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	// Define handlers
	healthHandler := health.NewHealthHandler(log, store)
	mux.Handle(healthHandler.Pattern(), healthHandler)

	uploadHandler := analyzeHandler.NewAnalyzeHandler(log, orch)
	mux.Handle(uploadHandler.Pattern(), uploadHandler)

	getJobHandler := jobHandler.NewGetJobHandler(log, store)
	mux.Handle(getJobHandler.Pattern(), getJobHandler)

	listJobsHandler := jobHandler.NewListJobsHandler(log, store)
	mux.Handle(listJobsHandler.Pattern(), listJobsHandler)

	return srv
}

// AsRoute annotates the given constructor to state that
// it provides a route to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
