package main

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"

	"github.com/hauswerk/property-service/internal/app"
	"github.com/hauswerk/property-service/internal/config"
	"github.com/hauswerk/property-service/internal/controllers"
	"github.com/hauswerk/property-service/internal/repositories"
	"github.com/hauswerk/property-service/internal/routes"
	"github.com/hauswerk/property-service/internal/services"
	"github.com/hauswerk/property-service/internal/utils"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize property-service:", err)
	}
	defer application.Close()

	propRepo := repositories.NewPropertyRepository(application.DB)
	bldgRepo := repositories.NewBuildingRepository(application.DB)
	unitRepo := repositories.NewUnitRepository(application.DB)

	fileService, err := services.NewFileService(cfg.UploadDir)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize upload storage:", err)
	}
	propertyService := services.NewPropertyService(propRepo, bldgRepo, unitRepo)
	extractionService := services.NewExtractionService(cfg.OpenAIAPIKey, fileService)

	propertyController := controllers.NewPropertyController(propertyService, fileService, extractionService)
	healthController := controllers.NewHealthController(application)

	router := mux.NewRouter()

	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)

	router.HandleFunc(routes.Properties, propertyController.CreatePropertyHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.Properties, propertyController.ListPropertiesHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.PropertyUpload, propertyController.UploadHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.PropertyExtract, propertyController.ExtractHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.PropertyByID, propertyController.GetPropertyHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.PropertyByID, propertyController.UpdatePropertyHandler).Methods(http.MethodPut)
	router.HandleFunc(routes.PropertyByID, propertyController.DeletePropertyHandler).Methods(http.MethodDelete)

	c := cron.New()
	_, sweepErr := c.AddFunc("30 3 * * *", func() {
		referenced, e := propertyService.ReferencedDeclarationFiles(context.Background())
		if e != nil {
			utils.Logger.WithError(e).Error("Upload sweep: listing referenced files failed")
			return
		}
		removed, e := fileService.SweepOrphans(referenced)
		if e != nil {
			utils.Logger.WithError(e).Error("Upload sweep failed")
			return
		}
		if removed > 0 {
			utils.Logger.Infof("Upload sweep removed %d orphaned file(s)", removed)
		}
	})
	if sweepErr != nil {
		utils.Logger.WithError(sweepErr).Fatal("Failed to schedule upload sweep cron")
	}
	c.Start()

	co := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AppUrl},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("property-service failed to start:", err)
	}
}
