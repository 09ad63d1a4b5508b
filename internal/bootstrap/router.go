package bootstrap

import (
	"database/sql"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	httpapi "github.com/NEhIL06/Ecosap/internal/api/http"
	"github.com/NEhIL06/Ecosap/internal/api/http/middleware"
	"github.com/NEhIL06/Ecosap/internal/auth"
	"github.com/NEhIL06/Ecosap/internal/detector"
	subhttp "github.com/NEhIL06/Ecosap/internal/submissions/http"
	"github.com/NEhIL06/Ecosap/internal/submissions/repository"
	subservice "github.com/NEhIL06/Ecosap/internal/submissions/service"
	"github.com/NEhIL06/Ecosap/internal/users"
	userhttp "github.com/NEhIL06/Ecosap/internal/users/http"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type RouterDeps struct {
	ServiceName     string
	Version         string
	DetectorURL     string
	DetectorTimeout time.Duration
	DB              *pgxpool.Pool
	SQLDB           *sql.DB
	Redis           *redis.Client
	// FirebaseAuth enables token verification; nil falls back to the
	// trusted-header mode.
	FirebaseAuth *fbauth.Client
	// Archive is optional evidence archival.
	Archive subservice.Archiver

	CORSOrigins  []string
	SubmitPerMin int
	SubmitBurst  int
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.RequestID())

	corsCfg := cors.DefaultConfig()
	if len(dep.CORSOrigins) > 0 {
		corsCfg.AllowOrigins = dep.CORSOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-User-Id", "X-Request-Id")
	r.Use(cors.New(corsCfg))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	userRepo := users.NewRepo(dep.DB)

	api := r.Group("/api/v1")
	if dep.FirebaseAuth != nil {
		api.Use(auth.FirebaseAuth(dep.FirebaseAuth, userRepo))
	} else {
		api.Use(auth.WithUser(userRepo))
	}

	userGroup := api.Group("/user")
	userhttp.Register(userGroup, userhttp.NewHandler(userRepo))

	historyRepo := repository.NewHistoryRepo(dep.Redis)
	leaderboardRepo := repository.NewLeaderboardRepo(dep.Redis)

	var auditRepo *repository.AuditRepo
	if dep.SQLDB != nil {
		auditRepo = repository.NewAuditRepo(dep.SQLDB)
	}

	measurer := detector.NewClient(dep.DetectorURL, dep.DetectorTimeout)
	submitSvc := subservice.NewSubmissionService(
		measurer, userRepo, historyRepo, leaderboardRepo, auditRepo, dep.Archive,
	)

	saplingGroup := api.Group("/sapling")
	saplingGroup.Use(middleware.PerUserRateLimit(dep.SubmitPerMin, dep.SubmitBurst))
	subhttp.Register(saplingGroup, subhttp.NewHandler(submitSvc))

	return r
}
