package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/keyhaven/keyhaven/pkg/audit"
	"github.com/keyhaven/keyhaven/pkg/authn"
	"github.com/keyhaven/keyhaven/pkg/config"
	"github.com/keyhaven/keyhaven/pkg/db"
	"github.com/keyhaven/keyhaven/pkg/keybox"
	"github.com/keyhaven/keyhaven/pkg/notify"
	"github.com/keyhaven/keyhaven/pkg/server"
	"github.com/keyhaven/keyhaven/pkg/server/endpoints"
	"github.com/keyhaven/keyhaven/pkg/server/middleware"
	gormstore "github.com/keyhaven/keyhaven/pkg/server/store/gorm"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the KeyHaven application server",
	Long: `Run the KeyHaven application server.

To run the server requires the environment variables KEYHAVEN_MASTER_KEY,
KEYHAVEN_SESSION_KEY and DATABASE_URL.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Validate required environment variables first (fail fast)
		masterKey, ok := os.LookupEnv("KEYHAVEN_MASTER_KEY")
		if !ok || masterKey == "" {
			fmt.Fprintln(os.Stderr, "KEYHAVEN_MASTER_KEY environment variable is required")
			os.Exit(1)
		}

		sessionKey, ok := os.LookupEnv("KEYHAVEN_SESSION_KEY")
		if !ok || sessionKey == "" {
			fmt.Fprintln(os.Stderr, "KEYHAVEN_SESSION_KEY environment variable is required")
			os.Exit(1)
		}

		if os.Getenv("DATABASE_URL") == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to load configuration:", err)
			os.Exit(1)
		}
		if host, _ := cmd.Flags().GetString("bind-address"); host != "" {
			cfg.BindAddress = host
		}
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.Port = port
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, "Invalid configuration:", err)
			os.Exit(1)
		}

		// Run migrations unless --no-migrate is set
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		sealer, err := keybox.NewSealerFromPassphrase(masterKey)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to initiate sealer:", err)
			os.Exit(1)
		}

		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		zlog, err := zap.NewProduction()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to create logger:", err)
			os.Exit(1)
		}
		defer func() { _ = zlog.Sync() }()

		auditStore := gormstore.NewAuditStore(database)
		usersStore := gormstore.NewUsersStore(database)
		stores := server.Stores{
			Users:    usersStore,
			Vaults:   gormstore.NewVaultsStore(database),
			Items:    gormstore.NewItemsStore(database, sealer),
			Requests: gormstore.NewRequestsStore(database),
			Audit:    auditStore,
			Stats:    gormstore.NewStatsStore(database),
		}

		auditor := audit.NewAuditor(auditStore, zlog)

		var sink notify.Sink
		if cfg.WebhookURL != "" {
			sink = notify.NewWebhookSink(cfg.WebhookURL, cfg.NotifyTimeout())
		}
		notifier := notify.NewNotifier(sink, zlog)

		issuer := authn.NewTokenIssuer([]byte(sessionKey), cfg.SessionTokenTTL())
		loginService := authn.NewLoginService(usersStore, issuer, cfg.AllowedEmailDomain)
		sessionMiddleware := middleware.NewSessionAuthenticator(issuer, usersStore)

		oauth := authn.NewOAuthClient(authn.OAuthConfig{
			ClientID:     os.Getenv("KEYHAVEN_OAUTH_CLIENT_ID"),
			ClientSecret: os.Getenv("KEYHAVEN_OAUTH_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("KEYHAVEN_OAUTH_REDIRECT_URL"),
			TokenURL:     os.Getenv("KEYHAVEN_OAUTH_TOKEN_URL"),
			UserInfoURL:  os.Getenv("KEYHAVEN_OAUTH_USERINFO_URL"),
		})

		s := server.NewServer(cfg, database, stores, auditor, notifier, loginService, oauth, sessionMiddleware)
		endpoints.RegisterAll(s)

		log.Printf("Running server at http://%s...\n", cfg.Addr())
		log.Fatal(s.Start())
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().IntP("port", "p", 0, "server listen port (overrides config)")
	serverCmd.Flags().StringP("bind-address", "b", "", "server bind address (overrides config)")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}
