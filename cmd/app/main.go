package main

import (
	"NotaScan-Backend/cmd/config"
	migration "NotaScan-Backend/cmd/database/migrate"
	"NotaScan-Backend/internal/utils"
	"log"
)

func main() {
	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	app, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("failed to set up application: %v", err)
	}

	if err := app.Listen(":3001"); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
