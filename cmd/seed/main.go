package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ecofoods/ecofoods-backend/config"
	"github.com/ecofoods/ecofoods-backend/internal/app/model"
	"github.com/ecofoods/ecofoods-backend/internal/app/repository"
	"github.com/ecofoods/ecofoods-backend/internal/app/service"
	"github.com/ecofoods/ecofoods-backend/internal/db"
	"github.com/ecofoods/ecofoods-backend/internal/spreadsheet"
)

func main() {
	yes := flag.Bool("yes", false, "import without asking for confirmation")
	flag.Parse()

	if flag.NArg() < 2 {
		log.Fatal("Usage: go run ./cmd/seed [-yes] <merchant-email> <products.xlsx>")
	}
	email := model.NormalizeEmail(flag.Arg(0))
	filePath := flag.Arg(1)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db.GetDB())
	merchant, err := userRepo.FindByEmail(email)
	if err != nil {
		log.Fatalf("Merchant %s not found: %v", email, err)
	}
	if !merchant.IsMerchant {
		log.Fatalf("User %s is not a merchant", email)
	}

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX:", err)
	}
	defer f.Close()

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, err := spreadsheet.ReadProducts(f)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}
	fmt.Printf("Total products to import for %s: %d\n", email, len(products))

	if !*yes {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	productService := service.NewProductService(
		db.GetDB(),
		repository.NewProductRepository(db.GetDB()),
		repository.NewImageRepository(db.GetDB()),
		userRepo,
	)
	count, err := productService.ImportProducts(merchant.ID, products)
	if err != nil {
		log.Fatal("Failed to import products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", count)
}
