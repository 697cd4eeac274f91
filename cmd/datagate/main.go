package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"datagate/admin"
	"datagate/api"
	"datagate/config"
	"datagate/engine"
	"datagate/middleware/auth"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

func main() {
	// Add flags
	debug := flag.Bool("debug", false, "Enable engine call debug logging")
	noAuth := flag.Bool("no-auth", false, "Disable admin panel authentication")
	flag.Parse()

	// Set DEBUG environment variable if -debug flag is used
	if *debug {
		os.Setenv("DEBUG", "true")
		fmt.Println("🐛 Engine debug mode enabled via DEBUG=true")
	}

	// Load configuration including DEBUG environment variable
	cfg := config.LoadConfig()

	// Create the engine client shared by the API and the admin panel
	client := engine.NewWithDebug(cfg.Engine, cfg.DebugEnabled)

	// Configure admin panel authentication
	var authConfig auth.AuthConfig
	if *noAuth {
		authConfig = auth.WithNoAuth()
		fmt.Println("🚫 Admin panel authentication disabled")
	} else {
		store, cleanup := buildSessionStore(cfg.Admin)
		defer cleanup()
		authConfig = auth.WithPanelAuthFromConfig(cfg.Admin, store)
		fmt.Println("🔐 Admin panel authentication enabled")
		fmt.Println("   👤 Credentials loaded from environment/config")
	}

	mux := http.NewServeMux()
	mux.Handle("/admin/", admin.Handler(client, &authConfig))
	mux.Handle("/", api.Handler(cfg, client))

	fmt.Println()
	fmt.Println("🚀 DataGate started!")
	fmt.Printf("🌐 API:   http://localhost:%s/\n", cfg.Port)
	fmt.Printf("📱 Admin: http://localhost:%s/admin/\n", cfg.Port)
	fmt.Printf("🔌 Engine: %s\n", cfg.Engine.BaseURL)
	fmt.Println()
	fmt.Println("🌐 API endpoints:")
	fmt.Println("  POST /insert")
	fmt.Println("  POST /batch-insert")
	fmt.Println("  POST /get")
	fmt.Println("  POST /update")
	fmt.Println("  POST /batch-update")
	fmt.Println("  POST /delete")
	fmt.Println("  POST /aggregate")
	fmt.Println("  GET  /health")
	fmt.Println()
	fmt.Println("💡 Usage examples:")
	fmt.Println("  # Default:")
	fmt.Println("  go run cmd/datagate/main.go")
	fmt.Println("  # Without admin login:")
	fmt.Println("  go run cmd/datagate/main.go -no-auth")
	fmt.Println("  # With engine call logging:")
	fmt.Println("  DEBUG=true go run cmd/datagate/main.go")
	fmt.Println("  # With debug flag (equivalent):")
	fmt.Println("  go run cmd/datagate/main.go -debug")

	log.Fatal(http.ListenAndServe(":"+cfg.Port, mux))
}

// buildSessionStore picks the session backend: a SQLite-backed store when
// SESSION_DB is set, otherwise in-memory (sessions reset on restart).
func buildSessionStore(cfg *config.AdminConfig) (auth.SessionStore, func()) {
	if cfg.SessionDB == "" {
		fmt.Println("💾 Sessions: in-memory (set SESSION_DB for persistence)")
		return auth.NewMemorySessionStore(), func() {}
	}

	db, err := sql.Open("sqlite3", cfg.SessionDB)
	if err != nil {
		log.Fatal("failed to open session database:", err)
	}

	dbx := sqlx.NewDb(db, "sqlite3")
	store, err := auth.NewSQLSessionStore(dbx)
	if err != nil {
		log.Fatal("failed to initialize session store:", err)
	}

	fmt.Printf("💾 Sessions: %s\n", cfg.SessionDB)
	return store, func() { db.Close() }
}
