package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"restaurant-pos/config"
	"restaurant-pos/controllers"
	"restaurant-pos/models"
	"restaurant-pos/repository"
	"restaurant-pos/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := repository.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Running database migrations...")
	err = db.AutoMigrate(
		&models.Restaurant{},
		&models.Branch{},
		&models.Table{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.TaxLine{},
		&models.Tip{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate database: %v", err)
	}
	log.Println("Database migration complete.")

	seedDemoCatalog(db)

	orderRepo := repository.NewOrderRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)

	kafkaSvc, err := services.NewKafkaService(cfg.Kafka.Brokers)
	if err != nil {
		log.Fatalf("Failed to initialize Kafka service: %v", err)
	}

	orderSvc := services.NewOrderService(orderRepo, kafkaSvc, cfg.Kafka.Topic)
	ticketSvc := services.NewTicketService(ticketRepo, kafkaSvc, cfg.Kafka.Topic)
	catalogSvc := services.NewCatalogService(catalogRepo)

	orderCtrl := controllers.NewOrderController(orderSvc)
	ticketCtrl := controllers.NewTicketController(ticketSvc)
	catalogCtrl := controllers.NewCatalogController(catalogSvc)

	app := fiber.New()

	app.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/restaurants", catalogCtrl.ListRestaurants)
	app.Get("/menus", catalogCtrl.ListMenuItems)

	app.Post("/orders", orderCtrl.CreateOrder)
	app.Post("/orders/:id/items", orderCtrl.AddItem)
	app.Post("/orders/:id/payments", orderCtrl.TakePayment)
	app.Get("/orders/:id", orderCtrl.GetOrder)

	app.Get("/kds/tickets", ticketCtrl.ListTickets)
	app.Post("/kds/tickets/:id/start", ticketCtrl.StartTicket)
	app.Post("/kds/tickets/:id/serve", ticketCtrl.ServeTicket)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		log.Printf("Server is starting on %s", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutdown signal received, draining...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Failed to shut down HTTP server: %v", err)
	}
	if err := kafkaSvc.Close(); err != nil {
		log.Printf("Failed to close Kafka producer: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("Failed to close database pool: %v", err)
		}
	}
	log.Println("Server stopped.")
}

// seedDemoCatalog creates a demo restaurant with tables and a small menu when
// the catalog is empty, so a fresh install can take orders immediately.
func seedDemoCatalog(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.Restaurant{}).Count(&count).Error; err != nil {
		log.Printf("Failed to check catalog state: %v", err)
		return
	}
	if count > 0 {
		return
	}

	restaurant := models.Restaurant{
		Name:     "Demo Bistro",
		Timezone: "Asia/Taipei",
		Branches: []models.Branch{
			{
				Name:    "Main Branch",
				Address: "123 Demo St",
				Hours:   "10:00-22:00",
				Tables: []models.Table{
					{Code: "T1", Seats: 2},
					{Code: "T2", Seats: 4},
				},
				MenuItems: []models.MenuItem{
					{SKU: "FOOD-001", Name: "Beef Noodles", BasePrice: decimal.NewFromInt(180)},
					{SKU: "FOOD-002", Name: "Fried Rice", BasePrice: decimal.NewFromInt(120)},
					{SKU: "DRINK-001", Name: "Iced Tea", BasePrice: decimal.NewFromInt(40)},
				},
			},
		},
	}
	if err := db.Create(&restaurant).Error; err != nil {
		log.Printf("Failed to seed demo catalog: %v", err)
		return
	}
	log.Println("Seeded demo catalog.")
}
