package router

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	mem "vet-clinic-backend/internal/adapters/storage/memory"
	pg "vet-clinic-backend/internal/adapters/storage/postgres"
	"vet-clinic-backend/internal/domain/accounts"
	"vet-clinic-backend/internal/domain/appointments"
	"vet-clinic-backend/internal/domain/clients"
	"vet-clinic-backend/internal/domain/dashboard"
	"vet-clinic-backend/internal/domain/pets"
	"vet-clinic-backend/internal/domain/treatments"
	"vet-clinic-backend/internal/domain/vets"
	"vet-clinic-backend/internal/middleware"
	"vet-clinic-backend/internal/ports/auth"
	"vet-clinic-backend/internal/ports/media"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev con X-Debug-*)
	TokenIssuer  auth.TokenIssuer  // puede ser nil (registro sin token)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: almacén de imágenes de mascotas.
	Media media.Store

	// Opcional: logging de requests.
	Logger *zap.Logger
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if opts.Logger != nil {
		r.Use(middleware.RequestLogger(opts.Logger))
	}
	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		clientsRepo clients.Repository
		petsRepo    pets.Repository
		vetsRepo    vets.Repository
		apptsRepo   appointments.Repository
		trRepo      treatments.Repository
		usersRepo   accounts.Repository
	)

	if opts.DB != nil {
		clientsRepo = pg.NewClientsRepo(opts.DB)
		petsRepo = pg.NewPetsRepo(opts.DB)
		vetsRepo = pg.NewVetsRepo(opts.DB)
		apptsRepo = pg.NewAppointmentsRepo(opts.DB)
		trRepo = pg.NewTreatmentsRepo(opts.DB)
		usersRepo = pg.NewUsersRepo(opts.DB)
	} else {
		store := mem.NewStore()
		clientsRepo = store.Clients()
		petsRepo = store.Pets()
		vetsRepo = store.Vets()
		apptsRepo = store.Appointments()
		trRepo = store.Treatments()
		usersRepo = store.Users()
	}

	// Services por módulo. Las citas listan tratamientos directamente del
	// repo (sin control de acceso: el servicio de citas ya lo aplicó).
	clientsSvc := clients.NewService(clientsRepo)
	vetsSvc := vets.NewService(vetsRepo)
	petsSvc := pets.NewService(petsRepo, clientsSvc, opts.Media)
	apptsSvc := appointments.NewService(apptsRepo, petsSvc, vetsSvc, trRepo)
	trSvc := treatments.NewService(trRepo, apptsSvc)
	accountsSvc := accounts.NewService(usersRepo, clientsSvc, vetsSvc, opts.TokenIssuer)
	dashSvc := dashboard.NewService(clientsRepo, petsRepo, vetsRepo, apptsRepo, apptsRepo)

	r.Route("/api", func(api chi.Router) {
		accounts.RegisterRoutes(api, accountsSvc)
		clients.RegisterRoutes(api, clientsSvc)
		pets.RegisterRoutes(api, petsSvc)
		vets.RegisterRoutes(api, vetsSvc)
		appointments.RegisterRoutes(api, apptsSvc)
		treatments.RegisterRoutes(api, trSvc)
		dashboard.RegisterRoutes(api, dashSvc)
	})

	return r
}
