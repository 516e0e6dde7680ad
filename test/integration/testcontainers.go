package integration

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/keyhaven/keyhaven/pkg/audit"
	"github.com/keyhaven/keyhaven/pkg/authn"
	"github.com/keyhaven/keyhaven/pkg/config"
	"github.com/keyhaven/keyhaven/pkg/keybox"
	"github.com/keyhaven/keyhaven/pkg/notify"
	"github.com/keyhaven/keyhaven/pkg/server"
	"github.com/keyhaven/keyhaven/pkg/server/endpoints"
	"github.com/keyhaven/keyhaven/pkg/server/middleware"
	gormstore "github.com/keyhaven/keyhaven/pkg/server/store/gorm"
)

const testServerPort = 18080

// TestContext holds all the resources needed for integration tests.
type TestContext struct {
	DB          *gorm.DB
	RawDB       *sql.DB
	Container   testcontainers.Container
	ServerURL   string
	DatabaseURL string
	Issuer      *authn.TokenIssuer
	Users       *gormstore.UsersStore
	HTTPClient  *http.Client
}

// NewTestContext starts a PostgreSQL testcontainer, migrates it, and runs the
// server in-process against it.
func NewTestContext(ctx context.Context) (*TestContext, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %w", err)
	}
	migrationsDir := filepath.Join(projectRoot, "db", "migrations")

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("keyhaven_test"),
		tcpostgres.WithUsername("keyhaven"),
		tcpostgres.WithPassword("keyhaven"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	host, err := pgContainer.Host(ctx)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}
	connStr := fmt.Sprintf("postgres://keyhaven:keyhaven@%s:%s/keyhaven_test?sslmode=disable", host, port.Port())

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	rawDB, err := db.DB()
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get raw db: %w", err)
	}

	if err := runMigrations(rawDB, migrationsDir); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	issuer, users, err := startInlineServer(db)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to start inline server: %w", err)
	}

	serverURL := fmt.Sprintf("http://127.0.0.1:%d", testServerPort)
	if err := waitForServer(serverURL, 30*time.Second); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return &TestContext{
		DB:          db,
		RawDB:       rawDB,
		Container:   pgContainer,
		ServerURL:   serverURL,
		DatabaseURL: connStr,
		Issuer:      issuer,
		Users:       users,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// startInlineServer wires the real stores against the container database and
// serves HTTP in-process.
func startInlineServer(db *gorm.DB) (*authn.TokenIssuer, *gormstore.UsersStore, error) {
	sealer, err := keybox.NewSealerFromPassphrase("integration-test-master-key")
	if err != nil {
		return nil, nil, err
	}

	cfg := &config.Config{
		BindAddress:          "127.0.0.1",
		Port:                 testServerPort,
		SessionTokenTTLHours: 1,
		NotifyTimeoutSeconds: 2,
		APIListLimitMax:      1000,
	}

	auditStore := gormstore.NewAuditStore(db)
	users := gormstore.NewUsersStore(db)
	stores := server.Stores{
		Users:    users,
		Vaults:   gormstore.NewVaultsStore(db),
		Items:    gormstore.NewItemsStore(db, sealer),
		Requests: gormstore.NewRequestsStore(db),
		Audit:    auditStore,
		Stats:    gormstore.NewStatsStore(db),
	}

	auditor := audit.NewAuditor(auditStore, nil)
	notifier := notify.NewNotifier(nil, nil)
	issuer := authn.NewTokenIssuer([]byte("integration-test-session-key"), time.Hour)
	loginService := authn.NewLoginService(users, issuer, "")
	sessionMiddleware := middleware.NewSessionAuthenticator(issuer, users)

	s := server.NewServer(cfg, db, stores, auditor, notifier, loginService, nil, sessionMiddleware)
	endpoints.RegisterAll(s)

	go func() {
		_ = s.Start()
	}()

	return issuer, users, nil
}

// waitForServer polls the status endpoint until it responds or times out.
func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server did not become ready within %v", timeout)
}

// Close cleans up all test resources.
func (tc *TestContext) Close(ctx context.Context) {
	if tc.RawDB != nil {
		_ = tc.RawDB.Close()
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}

// findProjectRoot locates the project root directory.
func findProjectRoot() (string, error) {
	paths := []string{
		"../..",
		"..",
		".",
	}

	for _, p := range paths {
		goMod := filepath.Join(p, "go.mod")
		if _, err := os.Stat(goMod); err == nil {
			return filepath.Abs(p)
		}
	}

	return "", fmt.Errorf("project root not found (looking for go.mod)")
}

// runMigrations executes the up migration files in order.
func runMigrations(db *sql.DB, migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("migration %s failed: %w", filepath.Base(file), err)
		}
	}
	log.Printf("Applied %d migration(s)", len(files))

	return nil
}
