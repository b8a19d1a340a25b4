package app

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/LoanRangers/SelfServiceLoaningBackend/db"
	"github.com/LoanRangers/SelfServiceLoaningBackend/session"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Aliases for handlers.
type Ctx = gin.Context
type H = gin.H

// App aggregates the shared dependencies.
type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	RDB    *redis.Client
	Repo   *db.Repo
	Config Config

	appSess *session.AppSessionStore
}

type Config struct {
	RedisAddr    string
	RedisPwd     string
	WebOrigin    string
	FrontendURL  string
	JWTSecret    string
	SessionTTL   time.Duration
	GitLabURL    string
	ClientID     string
	ClientSecret string
}

func (a *App) AppSessions() *session.AppSessionStore { return a.appSess }

func MustNew() *App {
	cfg := loadConfig()

	dbConn := db.ConnectDB()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis: %v", err)
	}

	InitMetrics()

	r := gin.Default()
	useCORS(r, cfg.WebOrigin)
	r.Use(Instrument())
	r.Use(RateLimit(20, 40))

	return &App{
		Router:  r,
		DB:      dbConn,
		RDB:     rdb,
		Repo:    db.NewRepo(dbConn),
		Config:  cfg,
		appSess: session.NewAppSessionStore(rdb, cfg.SessionTTL),
	}
}

func (a *App) Close() { _ = a.RDB.Close() }

func loadConfig() Config {
	get := func(k, def string) string {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		return v
	}
	ttl := 24 * time.Hour
	if s := os.Getenv("SESSION_TTL_SECONDS"); s != "" {
		if d, err := time.ParseDuration(s + "s"); err == nil {
			ttl = d
		}
	}
	secret := os.Getenv("JWT_ACCESS_SECRET")
	if secret == "" {
		log.Fatal("JWT_ACCESS_SECRET is required")
	}
	return Config{
		RedisAddr:    get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPwd:     os.Getenv("REDIS_PASSWORD"),
		WebOrigin:    get("WEB_ORIGIN", "http://localhost:5173"),
		FrontendURL:  get("FRONTEND_URL", "http://localhost:5173"),
		JWTSecret:    secret,
		SessionTTL:   ttl,
		GitLabURL:    strings.TrimRight(get("GITLAB_BASE_URL", "https://gitlab-ext.utu.fi"), "/"),
		ClientID:     os.Getenv("GITLAB_CLIENT_ID"),
		ClientSecret: os.Getenv("GITLAB_CLIENT_SECRET"),
	}
}
