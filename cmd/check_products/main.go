// Command check_products prints the first products of the table and the
// loyalty breakdown.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/light-bringer/procat-batch/internal/app/batch/queries/list_products"
	"github.com/light-bringer/procat-batch/internal/config"
	"github.com/light-bringer/procat-batch/internal/pkg/logging"
	"github.com/light-bringer/procat-batch/internal/services"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (defaults to $BATCH_CONFIG)")
	payload := flag.String("payload", "", "Only show products with this payload")
	limit := flag.Int("limit", 10, "Maximum number of products to show")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	serviceOpts, err := services.NewServiceOptions(ctx, cfg, logging.Discard())
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer serviceOpts.Close()

	products, err := serviceOpts.ListProducts.Execute(ctx, &list_products.Request{Payload: *payload, Limit: *limit})
	if err != nil {
		log.Fatalf("Failed to list products: %v", err)
	}

	fmt.Println("Rows in products table:")
	for i, p := range products {
		fmt.Printf("%d. id=%d sku=%d name=%q amount=%d payload=%s\n", i+1, p.ID, p.SKU, p.Name, p.Amount, p.Payload)
	}
	if len(products) == 0 {
		fmt.Println("No products found!")
	}

	stats, err := serviceOpts.ProductStats.Execute(ctx)
	if err != nil {
		log.Fatalf("Failed to count products: %v", err)
	}
	fmt.Printf("\nTotal: %d products (loyalty on: %d, loyalty off: %d)\n", stats.Total, stats.LoyaltyOn, stats.LoyaltyOff)
}
