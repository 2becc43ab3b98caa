package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Abdullo200604/idealmarket/internal/auth"
	"github.com/Abdullo200604/idealmarket/internal/cart"
	"github.com/Abdullo200604/idealmarket/internal/catalog"
	"github.com/Abdullo200604/idealmarket/internal/checkout"
	"github.com/Abdullo200604/idealmarket/internal/handlers"
	"github.com/Abdullo200604/idealmarket/internal/httpx"
	"github.com/Abdullo200604/idealmarket/internal/metrics"
	"github.com/Abdullo200604/idealmarket/internal/models"
	"github.com/Abdullo200604/idealmarket/internal/stats"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	// Resolve session user ids to capability sets once per request.
	auth.SetIdentityResolver(func(ctx context.Context, uid uint) (auth.CapabilitySet, bool) {
		var user models.User
		if err := db.WithContext(ctx).Preload("Role").First(&user, uid).Error; err != nil {
			return nil, false
		}
		return auth.CapabilitiesForRole(user.Role.Name), true
	})

	store := catalog.NewStore(db)
	sessions := cart.NewSessionStore()
	checkoutSvc := checkout.NewService(db, store, logger)
	statsSvc := stats.NewService(db)

	// --- Health endpoints ---
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("/metrics", promhttp.Handler())

	// Auth endpoints
	ah := handlers.NewAuthHandler(db)
	mux.Handle("/login", post(ah.Login))
	mux.Handle("/logout", post(ah.Logout))
	mux.Handle("/me", get(ah.Me))

	// Till: browse and sell
	kh := handlers.NewKassaHandler(store)
	mux.Handle("/kassa/products", sell(get(kh.Products)))

	ch := handlers.NewCartHandler(store, sessions, checkoutSvc)
	mux.Handle("/cart", sell(get(ch.Show)))
	mux.Handle("/cart/items", sell(post(ch.Add)))
	mux.Handle("/cart/items/update", sell(post(ch.Update)))
	mux.Handle("/cart/items/remove", sell(post(ch.Remove)))
	mux.Handle("/cart/clear", sell(post(ch.Clear)))
	mux.Handle("/checkout", sell(post(ch.Pay)))

	// Sale ledger
	sh := handlers.NewSalesHandler(db)
	mux.Handle("/sales", sell(get(sh.List)))
	mux.Handle("/sales/detail", sell(get(sh.Detail)))
	mux.Handle("/sales/pdf", sell(get(sh.Receipt)))
	mux.Handle("/sales/export/pdf", admin(get(sh.ExportPDF)))
	mux.Handle("/sales/export/xlsx", admin(get(sh.ExportXLSX)))
	mux.Handle("/sales/delete", admin(post(sh.Delete)))

	// Statistics dashboards
	th := handlers.NewStatsHandler(statsSvc)
	mux.Handle("/statistics", admin(get(th.Summary)))
	mux.Handle("/statistics/expired", admin(get(th.Expired)))
	mux.Handle("/statistics/export/pdf", admin(get(th.ExportPDF)))
	mux.Handle("/statistics/export/xlsx", admin(get(th.ExportXLSX)))
	mux.Handle("/statistics/export/json", admin(get(th.ExportJSON)))

	// Catalog administration
	ph := handlers.NewProductHandler(db, store)
	mux.Handle("/products", admin(byMethod(ph.List, ph.Create)))
	mux.Handle("/products/update", admin(post(ph.Update)))
	mux.Handle("/products/delete", admin(post(ph.Delete)))
	mux.Handle("/products/bulk-delete", admin(post(ph.BulkDelete)))
	mux.Handle("/catalog/export", admin(get(ph.Export)))
	mux.Handle("/catalog/import", admin(post(ph.Import)))

	cath := handlers.NewCategoryHandler(db, store)
	mux.Handle("/categories", admin(byMethod(cath.List, cath.Create)))
	mux.Handle("/categories/update", admin(post(cath.Update)))
	mux.Handle("/categories/delete", admin(post(cath.Delete)))

	wh := handlers.NewWarehouseHandler(db, store)
	mux.Handle("/warehouses", admin(byMethod(wh.List, wh.Create)))
	mux.Handle("/warehouses/update", admin(post(wh.Update)))
	mux.Handle("/warehouses/delete", admin(post(wh.Delete)))

	uh := handlers.NewUserHandler(db)
	mux.Handle("/users", admin(byMethod(uh.List, uh.Create)))
	mux.Handle("/users/update", admin(post(uh.Update)))
	mux.Handle("/users/password", admin(post(uh.Password)))
	mux.Handle("/users/delete", admin(post(uh.Delete)))

	rh := handlers.NewRoleHandler(db)
	mux.Handle("/roles", admin(byMethod(rh.List, rh.Create)))
	mux.Handle("/roles/update", admin(post(rh.Update)))
	mux.Handle("/roles/delete", admin(post(rh.Delete)))

	return auth.Middleware(withRecover(logger, withLogging(logger, mux)))
}

// sell gates a route on the "sell" capability, admin on "administer". The
// admin wildcard satisfies both.
func sell(next http.Handler) http.Handler  { return auth.RequireCapability(auth.CapSell, next) }
func admin(next http.Handler) http.Handler { return auth.RequireCapability(auth.CapAdminister, next) }

func get(h http.HandlerFunc) http.Handler  { return methodOnly(http.MethodGet, h) }
func post(h http.HandlerFunc) http.Handler { return methodOnly(http.MethodPost, h) }

func methodOnly(method string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			return
		}
		h(w, r)
	})
}

func byMethod(getFn, postFn http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			getFn(w, r)
		case http.MethodPost:
			postFn(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	})
}

// statusRecorder captures the status code for request logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func withLogging(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(rec.status)).Inc()
		logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func withRecover(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic recovered", zap.Any("panic", rec), zap.String("path", r.URL.Path))
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
