package main

import (
	"context"
	"fmt"
	"time"

	"github.com/mytheresa/product-catalog/config"
	"github.com/mytheresa/product-catalog/logger"
	"github.com/mytheresa/product-catalog/models"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type seedProduct struct {
	name     string
	price    string
	category string
}

var seedCategories = []string{"Electrónico", "Deporte", "Computación", "Muebles"}

var seedProducts = []seedProduct{
	{name: "TV Panasonic Pantalla LCD", price: "456.89", category: "Electrónico"},
	{name: "Sony Camara HD Digital", price: "177.89", category: "Electrónico"},
	{name: "Apple iPod", price: "46.89", category: "Electrónico"},
	{name: "Sony Notebook", price: "846.89", category: "Computación"},
	{name: "Hewlett Packard Multifuncional", price: "200.89", category: "Computación"},
	{name: "Bianchi Bicicleta", price: "70.89", category: "Deporte"},
	{name: "HP Notebook Omen 17", price: "2500.89", category: "Computación"},
	{name: "Mica Cómoda 5 Cajones", price: "150.89", category: "Muebles"},
	{name: "TV Sony Bravia OLED 4K Ultra HD", price: "2255.89", category: "Electrónico"},
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo categories and products",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context())
		},
	}
}

func runSeed(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	return seed(ctx, st, log)
}

func seed(ctx context.Context, st *stores, log *zap.Logger) error {
	byName := make(map[string]models.Category, len(seedCategories))
	for _, name := range seedCategories {
		c, err := st.categories.Save(ctx, &models.Category{Name: name})
		if err != nil {
			return fmt.Errorf("seed category %s: %w", name, err)
		}
		byName[name] = *c
		log.Info("Inserted category", zap.String("id", c.ID), zap.String("name", c.Name))
	}

	for _, sp := range seedProducts {
		p, err := st.products.Save(ctx, &models.Product{
			Name:      sp.name,
			Price:     decimal.RequireFromString(sp.price),
			CreatedAt: time.Now(),
			Category:  byName[sp.category],
		})
		if err != nil {
			return fmt.Errorf("seed product %s: %w", sp.name, err)
		}
		log.Info("Inserted product", zap.String("id", p.ID), zap.String("name", p.Name))
	}
	return nil
}
