package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"agrolink/internal/httpapi"
)

// RouteMounter is implemented by every module controller.
type RouteMounter interface {
	Routes(r chi.Router)
}

type Controllers struct {
	Orders         RouteMounter
	Products       RouteMounter
	DeliveryPoints RouteMounter
	Farmers        RouteMounter
}

func NewRouter(ctrls Controllers, requestTimeout time.Duration, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	if requestTimeout > 0 {
		r.Use(middleware.Timeout(requestTimeout))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httpapi.IdentityMiddleware)
		r.Route("/orders", ctrls.Orders.Routes)
		r.Route("/products", ctrls.Products.Routes)
		r.Route("/delivery-points", ctrls.DeliveryPoints.Routes)
		r.Route("/farmers", ctrls.Farmers.Routes)
	})

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("http request",
				zap.String("requestId", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
