package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/CHRISTIANARIBAL/guiritan/api/handler"
	"github.com/CHRISTIANARIBAL/guiritan/internal/auth"
	"github.com/CHRISTIANARIBAL/guiritan/internal/config"
	"github.com/CHRISTIANARIBAL/guiritan/internal/db"
	"github.com/CHRISTIANARIBAL/guiritan/internal/hash"
	"github.com/CHRISTIANARIBAL/guiritan/internal/logging"
	"github.com/CHRISTIANARIBAL/guiritan/internal/middleware"
	"github.com/CHRISTIANARIBAL/guiritan/internal/realm"
	"github.com/CHRISTIANARIBAL/guiritan/internal/session"
	"github.com/joho/godotenv"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	db     *db.DB
	port   string
	router http.Handler
}

func New() *Server {
	err := godotenv.Load(".env")
	if err != nil {
		log.Printf("godotenv: %v\n", err)
	}

	config, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("[CONFIG] Load failure: %v\n", err)
	}

	log.Printf("[CONFIG] Load finished !\n")

	logging.Setup(config.Logging)

	// DB setup,
	// construct connection string (DSN),
	// pass base timeout value for queries
	db := db.New(config.DB.DSN(), config.DB.Timeout)

	hash.Setup(config.Hash)

	// One store per realm, always. Even on the same backend the two
	// realms get disjoint key namespaces.
	publicStore, adminStore := newStores(config)

	publicManager := session.NewManager(realm.Public, publicStore, config.Session)
	adminManager := session.NewManager(realm.Admin, adminStore, config.Session)

	gateway := session.NewGateway(session.GatewayConfig{
		Classifier:       realm.NewClassifier(config.Session.AdminPrefixes),
		Public:           publicManager,
		Admin:            adminManager,
		Authorize:        auth.IsPrivileged,
		AdminExemptPaths: []string{"/admin-login/"},
	})

	stack := middleware.NewStack(
		logging.Middleware(),
		gateway.Middleware(),
	)

	router := http.NewServeMux()

	productCache := gocache.New(1*time.Minute, 5*time.Minute)

	catalogHandler := handler.NewCatalogHandler(db, productCache)
	catalogHandler.RegisterRoutes(router)

	cartHandler := handler.NewCartHandler(db)
	cartHandler.RegisterRoutes(router)

	accountHandler := handler.NewAccountHandler(db, publicManager)
	accountHandler.RegisterRoutes(router)

	checkoutHandler := handler.NewCheckoutHandler(db)
	checkoutHandler.RegisterRoutes(router)

	adminAuthHandler := handler.NewAdminAuthHandler(db, adminManager)
	adminAuthHandler.RegisterRoutes(router)

	dashboardHandler := handler.NewDashboardHandler(db)
	dashboardHandler.RegisterRoutes(router)

	productAdminHandler := handler.NewProductAdminHandler(db, productCache)
	productAdminHandler.RegisterRoutes(router)

	categoryAdminHandler := handler.NewCategoryAdminHandler(db)
	categoryAdminHandler.RegisterRoutes(router)

	orderAdminHandler := handler.NewOrderAdminHandler(db)
	orderAdminHandler.RegisterRoutes(router)

	return &Server{
		db:     db,
		port:   config.Port,
		router: stack(router),
	}
}

func newStores(cfg *config.Config) (session.Store, session.Store) {
	switch cfg.Session.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})

		public := session.NewRedisStore(
			client,
			realm.Public,
			cfg.Session.Public.IdleExpiration,
			cfg.Session.Public.AbsoluteExpiration,
		)
		admin := session.NewRedisStore(
			client,
			realm.Admin,
			cfg.Session.Admin.IdleExpiration,
			cfg.Session.Admin.AbsoluteExpiration,
		)

		return public, admin

	case "memory":
		return session.NewInMemoryStore(), session.NewInMemoryStore()

	default:
		log.Fatalf("[CONFIG] SESSION_BACKEND=%s invalid", cfg.Session.Backend)
		return nil, nil
	}
}

func (s *Server) Run() error {
	fmt.Printf("Listening on port %s...\n", s.port)
	return http.ListenAndServe(":"+s.port, s.router)
}
