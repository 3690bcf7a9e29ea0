package main

import (
	"context"
	"log"
	"net/http"
	"time"

	api "github.com/mind-engage/qbank/internal/api/http"
	auth "github.com/mind-engage/qbank/internal/auth/middleware"
	"github.com/mind-engage/qbank/internal/bank"
	"github.com/mind-engage/qbank/internal/config"
	"github.com/mind-engage/qbank/internal/db"
	storage "github.com/mind-engage/qbank/internal/storage"
	syncx "github.com/mind-engage/qbank/internal/sync"

	// paper renderers register themselves by extension
	_ "github.com/mind-engage/qbank/internal/paper/docx"
	_ "github.com/mind-engage/qbank/internal/paper/pdf"
)

func main() {
	cfg := config.Load()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := bank.NewSQLStore(dbh, cfg.DBDriver)

	// first-run superadmin
	if _, err := store.EnsureUser(ctx, "Super Admin", cfg.AdminEmail, cfg.AdminPassHash, bank.RoleSuperAdmin); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	r := api.NewRouter(api.Deps{
		Store:            store,
		Auth:             auth.NewAuthService(cfg.AuthSecret, cfg.TokenTTL),
		Blobs:            bs,
		Events:           syncx.NewEventRepo(dbh),
		CORSOrigins:      cfg.CORSOrigins,
		DefaultPageLimit: cfg.DefaultPageLimit,
		DevRoleFallback:  cfg.Mode == config.ModeOffline,
	})

	s := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(s.ListenAndServe())
}
