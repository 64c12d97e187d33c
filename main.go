package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"worksafe/config"
	certificatesController "worksafe/controllers/certificates"
	"worksafe/database"
	authRoutes "worksafe/routers/authRoutes"
	certificateRoutes "worksafe/routers/certificateRoutes"
	registryRoutes "worksafe/routers/registryRoutes"
	"worksafe/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024, // template uploads
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders:  "Content-Type,Authorization",
		ExposeHeaders: "Content-Disposition,X-Certificates-Count,X-Run-Id",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	certificateRoutes.SetupCertificateRoutes(app)
	registryRoutes.SetupRegistryRoutes(app)

	scheduler, err := utils.InitializeRenewalScheduler(database.Database.Db, utils.NewMailer(config.AppConfig))
	if err != nil {
		log.Printf("[RENEWAL-SCHEDULER] Not started: %v", err)
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down...")
		if scheduler != nil {
			<-scheduler.Stop().Done()
		}
		if err := app.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	if err := app.Listen(":" + config.AppConfig.Port); err != nil {
		log.Printf("Server stopped: %v", err)
	}

	// remove exports still waiting for their grace period
	certificatesController.Janitor().Flush()
}
