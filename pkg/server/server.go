package server

import (
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/keyhaven/keyhaven/pkg/audit"
	"github.com/keyhaven/keyhaven/pkg/authn"
	"github.com/keyhaven/keyhaven/pkg/config"
	"github.com/keyhaven/keyhaven/pkg/notify"
	"github.com/keyhaven/keyhaven/pkg/server/middleware"
	"github.com/keyhaven/keyhaven/pkg/server/store"
)

// Server holds the router and every dependency the endpoints need.
type Server struct {
	Config *config.Config
	Router *mux.Router
	DB     *gorm.DB

	Users    store.UsersStore
	Vaults   store.VaultsStore
	Items    store.ItemsStore
	Requests store.RequestsStore
	Audit    store.AuditStore
	Stats    store.StatsStore

	Auditor      *audit.Auditor
	Notifier     *notify.Notifier
	LoginService *authn.LoginService
	OAuth        *authn.OAuthClient

	SessionMiddleware *middleware.SessionAuthenticator

	srv *http.Server
}

// Stores bundles the store implementations handed to NewServer.
type Stores struct {
	Users    store.UsersStore
	Vaults   store.VaultsStore
	Items    store.ItemsStore
	Requests store.RequestsStore
	Audit    store.AuditStore
	Stats    store.StatsStore
}

func NewServer(
	cfg *config.Config,
	db *gorm.DB,
	stores Stores,
	auditor *audit.Auditor,
	notifier *notify.Notifier,
	loginService *authn.LoginService,
	oauth *authn.OAuthClient,
	sessionMiddleware *middleware.SessionAuthenticator,
) *Server {

	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, handlers.CORS(
			handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
			handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		)(router)),
		Addr: cfg.Addr(),
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Config:            cfg,
		Router:            router,
		DB:                db,
		Users:             stores.Users,
		Vaults:            stores.Vaults,
		Items:             stores.Items,
		Requests:          stores.Requests,
		Audit:             stores.Audit,
		Stats:             stores.Stats,
		Auditor:           auditor,
		Notifier:          notifier,
		LoginService:      loginService,
		OAuth:             oauth,
		SessionMiddleware: sessionMiddleware,
		srv:               srv,
	}
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}
