package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"eshop/internal/config"
	"eshop/internal/database"
	"eshop/internal/model"
	"eshop/internal/repository"
	"eshop/internal/service"
)

// Seeds a development database with a small catalogue and, when ADMIN_EMAIL
// and ADMIN_PASSWORD are set, the first administrator account.
//
// Usage: go run ./scripts
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Logger)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client, err := database.NewClient(ctx, cfg.Database, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.Database.Name)
	if err := database.EnsureIndexes(ctx, db, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Unable to create indexes: %v\n", err)
		os.Exit(1)
	}

	categories := repository.NewCategoryRepository(db, logger)
	products := repository.NewProductRepository(db, logger)
	users := service.NewUserService(repository.NewUserRepository(db, logger), nil, cfg.Auth.SaltCost, logger)

	if email := os.Getenv("ADMIN_EMAIL"); email != "" {
		_, err := users.Create(ctx, &model.UserRequest{
			Name:     "Administrator",
			Email:    email,
			Password: os.Getenv("ADMIN_PASSWORD"),
			Phone:    "-",
			IsAdmin:  true,
		})
		switch {
		case errors.Is(err, model.ErrEmailTaken):
			fmt.Printf("Administrator %s already exists\n", email)
		case err != nil:
			fmt.Fprintf(os.Stderr, "Unable to create administrator: %v\n", err)
			os.Exit(1)
		default:
			fmt.Printf("Created administrator %s\n", email)
		}
	}

	existing, err := products.Count(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to count products: %v\n", err)
		os.Exit(1)
	}
	if existing > 0 {
		fmt.Printf("Catalogue already has %d products, skipping\n", existing)
		return
	}

	catalogue := []struct {
		category model.Category
		products []model.Product
	}{
		{
			category: model.Category{Name: "Electronics", Icon: "icon-laptop", Color: "#4a90e2"},
			products: []model.Product{
				{Name: "Wireless Mouse", Description: "Ergonomic 2.4GHz mouse", Brand: "Clicky", Price: 24.99, CountInStock: 120, IsFeatured: true},
				{Name: "USB-C Hub", Description: "Seven ports in one", Brand: "Porty", Price: 39.5, CountInStock: 45},
			},
		},
		{
			category: model.Category{Name: "Books", Icon: "icon-book", Color: "#7ed321"},
			products: []model.Product{
				{Name: "Learning Go", Description: "An idiomatic approach", Brand: "Paperback", Price: 44, CountInStock: 30, IsFeatured: true},
			},
		},
		{
			category: model.Category{Name: "Home", Icon: "icon-home", Color: "#f5a623"},
			products: []model.Product{
				{Name: "Desk Lamp", Description: "Warm LED light", Brand: "Glow", Price: 19.99, CountInStock: 60},
			},
		},
	}

	created := 0
	for _, entry := range catalogue {
		category := entry.category
		if err := categories.Create(ctx, &category); err != nil {
			fmt.Fprintf(os.Stderr, "Unable to create category %s: %v\n", category.Name, err)
			os.Exit(1)
		}

		for _, p := range entry.products {
			p.Category = category.ID
			p.Images = []string{}
			p.DateCreated = time.Now().UTC()
			if err := products.Create(ctx, &p); err != nil {
				fmt.Fprintf(os.Stderr, "Unable to create product %s: %v\n", p.Name, err)
				os.Exit(1)
			}
			created++
		}
	}

	fmt.Printf("Seeded %d categories and %d products into %s\n", len(catalogue), created, cfg.Database.Name)
}
