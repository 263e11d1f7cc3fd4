package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"hostel-backend/config"
	"hostel-backend/controllers"
	"hostel-backend/locks"
	"hostel-backend/repositories"
	"hostel-backend/routes"
	"hostel-backend/services"
	"hostel-backend/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.Logger.Fatalf("invalid configuration: %v", err)
	}
	utils.InitLogger(cfg.AppName)
	if utils.EnvOrDefault("GIN_MODE", "") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	store := openStore(cfg)
	locker, closeLocker := openLocker(cfg)
	defer closeLocker()

	guestService := services.NewGuestService(store, utils.Logger)
	roomTypeService := services.NewRoomTypeService(store, utils.Logger)
	roomService := services.NewRoomService(store, locker, utils.Logger)
	reservationService := services.NewReservationService(store, locker, utils.Logger)

	if cfg.SeedData {
		if err := roomTypeService.SeedDefaults(context.Background()); err != nil {
			utils.Logger.Fatalf("seeding room types failed: %v", err)
		}
	}

	router := routes.SetupRouter(routes.Controllers{
		Guests:       controllers.NewGuestController(guestService),
		RoomTypes:    controllers.NewRoomTypeController(roomTypeService),
		Rooms:        controllers.NewRoomController(roomService, roomTypeService, reservationService),
		Reservations: controllers.NewReservationController(reservationService),
	}, cfg.CORSOrigins)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		utils.Logger.Infof("server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.Logger.Fatalf("ListenAndServe: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	utils.Logger.Info("shutdown signal received, shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.Logger.Errorf("server forced to shutdown: %v", err)
		return
	}
	utils.Logger.Info("server stopped gracefully")
}

func openStore(cfg config.Config) repositories.Store {
	if cfg.DBDriver == config.DriverMemory {
		utils.Logger.Warn("no database configured; using the in-memory store")
		return repositories.NewMemoryStore()
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		utils.Logger.Fatalf("database connect failed: %v", err)
	}
	store := repositories.NewGormStore(db)
	if err := store.Migrate(); err != nil {
		utils.Logger.Fatalf("database migration failed: %v", err)
	}
	return store
}

// openLocker uses Redis when REDIS_URL is set so several instances share
// room locks; otherwise locks are process-local.
func openLocker(cfg config.Config) (locks.RoomLocker, func()) {
	if cfg.RedisURL == "" {
		return locks.NewLocalLocker(), func() {}
	}

	client, err := locks.NewRedisClient(cfg.RedisURL)
	if err != nil {
		utils.Logger.Fatalf("invalid REDIS_URL: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		utils.Logger.Fatalf("redis ping failed: %v", err)
	}
	utils.Logger.Info("using redis room locks")
	return locks.NewRedisLocker(client, cfg.RoomLockTTL, utils.Logger), func() { _ = client.Close() }
}
