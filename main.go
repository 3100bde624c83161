package main

import (
	"context"
	"log"
	"net/http"
	_ "net/http/pprof"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"goeda/internal/config"
	"goeda/internal/container"
	"goeda/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	db, err := container.OpenDatabase(context.Background(), appConfig.Catalog)
	if err != nil {
		log.Fatalf("Failed to initialize catalog database: %v", err)
	}
	if err := appContainer.InitWithDatabase(db); err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	if appConfig.Profiling.Enabled {
		go func() {
			log.Printf("[Profiling] pprof listening on :%s", appConfig.Profiling.Port)
			if err := http.ListenAndServe(":"+appConfig.Profiling.Port, nil); err != nil {
				log.Printf("[Profiling] pprof server failed: %v", err)
			}
		}()
	}

	server := ui.NewServer(appContainer.AnalysisService, appContainer.DatasetService, ui.ServerConfig{
		RequestTimeout: appConfig.Server.RequestTimeout,
		MaxUploadBytes: appConfig.Storage.MaxUploadBytes(),
	})

	log.Printf("Starting goeda server on port %s (datasets in %s)", appConfig.Server.Port, appConfig.Storage.Dir)
	log.Fatal(server.Start(":" + appConfig.Server.Port))
}
