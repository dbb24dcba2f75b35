package main

import (
	"context"
	"net/http"

	"rentmap/internal/config"
	"rentmap/internal/geocode"
	"rentmap/internal/handler"
	"rentmap/internal/repository"
	"rentmap/internal/service"
	"rentmap/internal/session"
	"rentmap/internal/upstream"

	_ "rentmap/docs"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func main() {
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	// Session store: device file by default, Postgres when configured
	var store session.RecordStore = repository.NewFileStore(cfg.SessionFile)
	if cfg.SessionDBSource != "" {
		conn, err := pgxpool.New(context.Background(), cfg.SessionDBSource)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot connect to session db")
		}
		defer conn.Close()

		pg := repository.NewPostgresStore(conn)
		if err := pg.EnsureSchema(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("cannot prepare session schema")
		}
		store = pg
	}

	// Initialize layers
	api := upstream.NewClient(cfg.APIBaseURL)
	resolver := geocode.NewClient(cfg.NominatimURL, cfg.UserAgent, geocode.NewCache())
	sessions := session.NewManager(session.NewAPIClient(cfg.APIBaseURL), store)

	groupService := service.NewGroupService(api, resolver)
	listingService := service.NewListingService(api)
	reservationService := service.NewReservationService(api)

	mapHandler := handler.NewMapHandler(groupService)
	authHandler := handler.NewAuthHandler(sessions)
	listingsHandler := handler.NewListingsHandler(listingService)
	reservationsHandler := handler.NewReservationsHandler(reservationService)

	r := gin.New()
	r.Use(handler.RequestID(), handler.RequestLogger(), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/map/groups", mapHandler.Groups)
	r.GET("/map/groups/:key/action", mapHandler.MarkerAction)

	r.GET("/auth/status", authHandler.Status)
	r.POST("/auth/login", authHandler.Login)
	r.POST("/auth/register", authHandler.Register)
	r.POST("/auth/logout", authHandler.Logout)

	r.GET("/listings", listingsHandler.List)
	r.GET("/listings/:id", listingsHandler.Get)
	r.POST("/listings", listingsHandler.Create)

	r.GET("/reservations", reservationsHandler.Overview)

	r.Run(cfg.ServerAddress)
}
