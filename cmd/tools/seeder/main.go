package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	seedItems(db)
	seedParties(db)
	seedAccounts(db)

	log.Println("Seeding completed successfully!")
}

func seedItems(db *sql.DB) {
	items := []struct {
		Name          string
		UnitKind      string
		BaseUnit      string
		SecondaryUnit string
		UnitFactor    string
		UnitLabel     string
		Purchase      string
		PurchaseUnit  string
		Sale          string
		SaleUnit      string
		Wholesale     string
		WholesaleUnit string
		MinWholesale  string
	}{
		{"Rice", "convertible", "Kg", "Bag", "25", "", "1.10", "base", "32.50", "secondary", "1.05", "base", "100"},
		{"Sugar", "simple", "Kg", "", "1", "", "0.80", "base", "1.20", "secondary", "1.00", "base", "50"},
		{"Cooking Oil", "convertible", "Litre", "Carton", "12", "", "1.90", "base", "26.40", "secondary", "1.75", "base", "48"},
		{"Flour", "simple", "Kg", "", "1", "", "0.55", "base", "0.85", "secondary", "0.70", "base", "25"},
		{"Tea Box", "custom", "", "", "1", "Box", "2.40", "base", "3.50", "secondary", "3.10", "base", "20"},
		{"Notebook", "none", "", "", "1", "", "0.90", "base", "1.50", "secondary", "0", "base", "0"},
	}

	fmt.Println("Seeding Items...")
	for _, it := range items {
		_, err := db.Exec(`
			INSERT INTO items (
				name, unit_kind, base_unit, secondary_unit, unit_factor, unit_label,
				purchase_price, purchase_price_unit, sale_price, sale_price_unit,
				wholesale_price, wholesale_price_unit, min_wholesale_qty
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
			ON CONFLICT ((lower(name))) DO UPDATE SET
				purchase_price = EXCLUDED.purchase_price,
				sale_price = EXCLUDED.sale_price,
				wholesale_price = EXCLUDED.wholesale_price,
				min_wholesale_qty = EXCLUDED.min_wholesale_qty,
				updated_at = now();
		`, it.Name, it.UnitKind, nullIfEmpty(it.BaseUnit), nullIfEmpty(it.SecondaryUnit), it.UnitFactor, nullIfEmpty(it.UnitLabel),
			it.Purchase, it.PurchaseUnit, it.Sale, it.SaleUnit, it.Wholesale, it.WholesaleUnit, it.MinWholesale)
		if err != nil {
			log.Printf("Failed to seed item %s: %v", it.Name, err)
		}
	}
}

func seedParties(db *sql.DB) {
	parties := []struct {
		Type    string
		Name    string
		Phone   string
		Address string
	}{
		{"customer", "Budi Santoso", "+62 812 0001", "Jl. Merdeka 12, Bandung"},
		{"customer", "Siti Aminah", "+62 812 0002", "Jl. Dago 45, Bandung"},
		{"customer", "Warung Pak Eko", "+62 812 0003", "Pasar Baru blok C"},
		{"supplier", "CV Sumber Pangan", "+62 22 555 010", "Kawasan Industri Cimahi"},
		{"supplier", "PT Beras Sejahtera", "+62 22 555 011", "Jl. Raya Cirebon km 8"},
	}

	fmt.Println("Seeding Parties...")
	for _, p := range parties {
		_, err := db.Exec(`
			INSERT INTO parties (type, name, phone, address)
			SELECT $1, $2, $3, $4
			WHERE NOT EXISTS (SELECT 1 FROM parties WHERE name = $2);
		`, p.Type, p.Name, p.Phone, p.Address)
		if err != nil {
			log.Printf("Failed to seed party %s: %v", p.Name, err)
		}
	}
}

func seedAccounts(db *sql.DB) {
	accounts := []struct {
		Name string
		Kind string
	}{
		{"Cash Drawer", "cash"},
		{"BCA Checking", "bank"},
	}

	fmt.Println("Seeding Accounts...")
	for _, a := range accounts {
		_, err := db.Exec(`
			INSERT INTO accounts (name, kind)
			SELECT $1, $2
			WHERE NOT EXISTS (SELECT 1 FROM accounts WHERE name = $1);
		`, a.Name, a.Kind)
		if err != nil {
			log.Printf("Failed to seed account %s: %v", a.Name, err)
		}
	}
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
