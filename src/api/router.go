package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"fintrack-server/src/config"
	"fintrack-server/src/handlers"
	"fintrack-server/src/market"
	"fintrack-server/src/middleware"
	"fintrack-server/src/syncutil"
)

func NewRouter(cfg config.Config, log zerolog.Logger, pool *pgxpool.Pool, marketClient *market.Client) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORSMiddleware([]string{"*"}))
	r.Use(middleware.NewGlobalRateLimiter(cfg.GlobalRateLimitRPS, cfg.GlobalRateLimitBurst).Middleware)
	r.Use(middleware.DemoModeMiddleware(cfg.DemoMode))

	limiter := syncutil.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	rateLimited := middleware.EndpointRateLimit(limiter)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.With(rateLimited).Post("/login", handlers.Login(pool, cfg.JWTSecret))
		r.With(rateLimited).Post("/register", handlers.Register(pool, cfg.JWTSecret))

		// Protected routes
		r.With(middleware.JWTAuthMiddleware(cfg.JWTSecret), rateLimited).Group(func(r chi.Router) {
			// User
			r.Get("/user", handlers.GetUser(pool))
			r.Put("/user", handlers.UpdateUser(pool))
			r.Post("/user/change-password", handlers.ChangePassword(pool))
			r.Delete("/user", handlers.DeleteUser(pool))

			// Transactions
			r.Post("/transactions", handlers.CreateTransaction(pool))
			r.Get("/transactions", handlers.GetTransactions(pool))
			r.Get("/transactions/{transaction_id}", handlers.GetTransaction(pool))
			r.Put("/transactions/{transaction_id}", handlers.UpdateTransaction(pool))
			r.Delete("/transactions/{transaction_id}", handlers.DeleteTransaction(pool))

			// Categories
			r.Post("/user-categories", handlers.CreateCategory(pool))
			r.Get("/user-categories", handlers.GetCategories(pool))
			r.Delete("/user-categories/{category_id}", handlers.DeleteCategory(pool))

			// Budgets
			r.Post("/budgets/generate", handlers.GenerateBudget())
			r.Post("/budgets", handlers.CreateBudget(pool))
			r.Get("/budgets", handlers.GetAllBudgetsForUser(pool))
			r.Get("/budgets/{budget_id}", handlers.GetBudgetByID(pool))
			r.Put("/budgets/{budget_id}", handlers.UpdateBudget(pool))
			r.Delete("/budgets/{budget_id}", handlers.DeleteBudget(pool))

			// Families
			r.Post("/families", handlers.CreateFamily(pool))
			r.Get("/families", handlers.GetFamilies(pool))
			r.Get("/families/{family_id}", handlers.GetFamily(pool))
			r.Post("/families/{family_id}/members", handlers.InviteFamilyMember(pool))
			r.Put("/families/{family_id}/members", handlers.UpdateFamilyMemberRole(pool))
			r.Delete("/families/{family_id}/members/{member_id}", handlers.RemoveFamilyMember(pool))

			// Price alerts
			r.Post("/price-alerts", handlers.CreatePriceAlert(pool))
			r.Get("/price-alerts", handlers.GetPriceAlerts(pool))
			r.Get("/price-alerts/{alert_id}", handlers.GetPriceAlert(pool))
			r.Put("/price-alerts/{alert_id}", handlers.UpdatePriceAlert(pool))
			r.Delete("/price-alerts/{alert_id}", handlers.DeletePriceAlert(pool))

			// Reports
			r.Get("/reports/net-worth", handlers.GetNetWorth(pool))
			r.Get("/reports/savings-rate", handlers.GetSavingsRate(pool))
			r.Get("/reports/health-score", handlers.GetHealthScore(pool))

			// Crypto market data
			r.Get("/crypto/prices", handlers.GetCryptoPrices(marketClient))
			r.Get("/crypto/search", handlers.SearchCrypto(marketClient))
		})
	})

	return r
}
