package main

import (
	"context"
	"log"

	"github.com/NEhIL06/Ecosap/config"
	"github.com/NEhIL06/Ecosap/internal/archive"
	"github.com/NEhIL06/Ecosap/internal/auth"
	"github.com/NEhIL06/Ecosap/internal/bootstrap"
	cronjob "github.com/NEhIL06/Ecosap/internal/cron"
	"github.com/NEhIL06/Ecosap/internal/submissions/repository"
	subservice "github.com/NEhIL06/Ecosap/internal/submissions/service"
	"github.com/NEhIL06/Ecosap/internal/users"

	fbauth "firebase.google.com/go/v4/auth"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{
		DSN:      cfg.Database.DSN,
		MaxConns: int32(cfg.Database.MaxConns),
		MinConns: int32(cfg.Database.MinConns),
	})
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	sqlDB, err := bootstrap.OpenSQLDB(cfg.Database.DSN)
	if err != nil {
		log.Fatalf("postgres (audit): %v", err)
	}
	defer sqlDB.Close()

	rdb, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	var fbClient *fbauth.Client
	if cfg.Auth.Mode == "firebase" {
		fbClient, err = auth.InitializeFirebase(cfg.Auth.CredentialsPath)
		if err != nil {
			log.Fatalf("firebase: %v", err)
		}
	}

	var archiver subservice.Archiver
	if cfg.Archive.Bucket != "" {
		s3arc, err := archive.NewS3Archive(ctx, cfg.Archive.Bucket, cfg.Archive.Region)
		if err != nil {
			log.Printf("[warn] operation=archive_init message=archival disabled error=%v", err)
		} else {
			archiver = s3arc
		}
	}

	scheduler := cronjob.NewScheduler(users.NewRepo(pool), repository.NewLeaderboardRepo(rdb))
	scheduler.Start()
	defer scheduler.Stop()

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:     "ecosap-api",
		Version:         cfg.App.Version,
		DetectorURL:     cfg.Detector.URL,
		DetectorTimeout: cfg.Detector.Timeout,
		DB:              pool,
		SQLDB:           sqlDB,
		Redis:           rdb,
		FirebaseAuth:    fbClient,
		Archive:         archiver,
		CORSOrigins:     cfg.Server.CORSOrigins,
		SubmitPerMin:    cfg.Limits.SubmitPerMin,
		SubmitBurst:     cfg.Limits.SubmitBurst,
	})

	log.Printf("[info] operation=startup message=listening port=%s env=%s", cfg.Server.Port, cfg.App.Environment)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
