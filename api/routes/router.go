package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lonoleggi/lonoleggi-backend/api/controllers"
	webhookcontrollers "github.com/lonoleggi/lonoleggi-backend/api/controllers/webhooks"
	"github.com/lonoleggi/lonoleggi-backend/api/middleware"
	checkoutsvc "github.com/lonoleggi/lonoleggi-backend/internal/checkout"
	"github.com/lonoleggi/lonoleggi-backend/internal/equipment"
	"github.com/lonoleggi/lonoleggi-backend/internal/notifications"
	"github.com/lonoleggi/lonoleggi-backend/internal/rentals"
	stripewebhook "github.com/lonoleggi/lonoleggi-backend/internal/webhooks/stripe"
	"github.com/lonoleggi/lonoleggi-backend/pkg/config"
	"github.com/lonoleggi/lonoleggi-backend/pkg/db"
	"github.com/lonoleggi/lonoleggi-backend/pkg/enums"
	"github.com/lonoleggi/lonoleggi-backend/pkg/logger"
	"github.com/lonoleggi/lonoleggi-backend/pkg/redis"
	"github.com/lonoleggi/lonoleggi-backend/pkg/stripe"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	equipmentService equipment.Service,
	rentalsService rentals.Service,
	notificationsService notifications.Service,
	checkoutService checkoutsvc.Service,
	stripeClient *stripe.Client,
	stripeWebhookService *stripewebhook.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Stripe posts deliveries server to server; the webhook stays outside
		// the browser origin policy and relies on the signature check instead.
		r.Post("/webhooks/stripe", webhookcontrollers.StripeWebhook(stripeWebhookService, stripeClient, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.CORS(cfg.Checkout.AllowedOrigin))

			// Catalog reads are public; the storefront browses without a session.
			r.Get("/equipment", controllers.ListEquipment(equipmentService, logg))
			r.Get("/equipment/{equipmentId}", controllers.GetEquipment(equipmentService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, logg))

				r.Post("/equipment", controllers.CreateEquipment(equipmentService, logg))
				r.Patch("/equipment/{equipmentId}", controllers.UpdateEquipment(equipmentService, logg))
				r.Post("/equipment/{equipmentId}/status", controllers.SetEquipmentStatus(equipmentService, logg))

				r.Post("/checkout/payment-intent", controllers.StartCheckout(checkoutService, logg))

				r.Route("/rentals", func(r chi.Router) {
					r.Get("/", controllers.ListRentals(rentalsService, logg))
					r.Get("/{rentalId}", controllers.GetRental(rentalsService, logg))
					r.Post("/{rentalId}/confirm", controllers.TransitionRental(rentalsService, enums.RentalStatusConfirmed, logg))
					r.Post("/{rentalId}/cancel", controllers.TransitionRental(rentalsService, enums.RentalStatusCancelled, logg))
					r.Post("/{rentalId}/complete", controllers.TransitionRental(rentalsService, enums.RentalStatusCompleted, logg))
				})

				r.Route("/owner", func(r chi.Router) {
					r.Get("/equipment", controllers.ListOwnedEquipment(equipmentService, logg))
					r.Get("/rentals", controllers.ListOwnerRentals(rentalsService, logg))
				})

				r.Route("/notifications", func(r chi.Router) {
					r.Get("/", controllers.ListNotifications(notificationsService, logg))
					r.Post("/{notificationId}/read", controllers.MarkNotificationRead(notificationsService, logg))
					r.Post("/read-all", controllers.MarkAllNotificationsRead(notificationsService, logg))
				})
			})
		})
	})

	return r
}
