package main

import (
	"database/sql"

	"voting-ledger/audit"
	"voting-ledger/config"
	"voting-ledger/functions"
	"voting-ledger/ledger"
	"voting-ledger/storage"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

func setupRoutes() *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/createPoll", functions.CreatePoll)
		apiV1.POST("/getPolls", functions.ListPolls)
		apiV1.GET("/polls/:id", functions.GetPoll)
		apiV1.POST("/polls/:id/vote", functions.CastVote)
		apiV1.POST("/polls/:id/close", functions.ClosePoll)
		apiV1.POST("/userVotes", functions.GetUserVotes)
	}

	return router
}

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	engine, err := storage.NewBunt(cfg.LedgerPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to open ledger store")
	}
	defer engine.Close()

	var mirror *sql.DB
	if cfg.DatabaseURL != "" {
		mirror, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Fatal("Failed to open database connection")
		}
		if err := functions.EnsureMirrorSchema(mirror); err != nil {
			log.WithError(err).Fatal("Failed to prepare database mirror")
		}
		log.Info("Database mirror established successfully")
	}

	functions.Init(ledger.New(engine, audit.NewLogSink()), mirror)

	router := setupRoutes()

	log.Infof("Server starting on port %s", cfg.Port)
	log.Fatal(router.Run(cfg.Port))
}
