package main

import (
	"github.com/Ix1ax/upme-platform/config"
	"github.com/Ix1ax/upme-platform/database"
	courseRoutes "github.com/Ix1ax/upme-platform/routers/courseRoutes"
	"github.com/Ix1ax/upme-platform/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"log"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	utils.StartProgressReconciler()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve course blobs (structure, bulk lesson payloads)
	app.Static(config.AppConfig.BlobBaseURL, config.AppConfig.BlobDir)

	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAuthorRoutes(app)

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
