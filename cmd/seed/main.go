package main

import (
	"log"
	"os"

	"inventaris/internal/database"
	"inventaris/internal/model"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeds a development database with accounts for each role, the
// reference tables and a handful of catalog items. Safe to re-run:
// every record is looked up by its natural key first.
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dsn := "postgres://" + envOr("DB_USER", "postgres") + ":" + envOr("DB_PASSWORD", "postgres") +
		"@" + envOr("DB_HOST", "localhost") + ":" + envOr("DB_PORT", "5432") +
		"/" + envOr("DB_NAME", "inventaris") + "?sslmode=" + envOr("DB_SSLMODE", "disable")

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}

	seedUsers(db)
	categories := seedCategories(db)
	suppliers := seedSuppliers(db)
	seedItems(db, categories, suppliers)

	log.Println("Seeding completed.")
}

func seedUsers(db *gorm.DB) {
	users := []model.User{
		{Name: "Super Admin", Email: "superadmin@inventaris.local", Role: model.RoleSuperadmin, Divisi: "IT"},
		{Name: "Admin Gudang", Email: "admin@inventaris.local", Role: model.RoleAdmin, Divisi: "Warehouse"},
		{Name: "Budi Santoso", Email: "user@inventaris.local", Role: model.RoleUser, Divisi: "Produksi"},
	}

	for _, user := range users {
		var existing model.User
		err := db.Where("email = ?", user.Email).First(&existing).Error
		if err == nil {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		user.Password = string(hash)

		if err := db.Create(&user).Error; err != nil {
			log.Fatalf("Failed to seed user %s: %v", user.Email, err)
		}
		log.Printf("Seeded user %s (%s)", user.Email, user.Role)
	}
}

func seedCategories(db *gorm.DB) map[string]uint {
	names := []string{"Alat Tulis Kantor", "Bahan Bangunan", "Elektronik", "Perkakas", "Kebersihan"}
	ids := make(map[string]uint, len(names))

	for _, name := range names {
		var category model.Category
		if err := db.Where("name = ?", name).First(&category).Error; err != nil {
			category = model.Category{Name: name}
			if err := db.Create(&category).Error; err != nil {
				log.Fatalf("Failed to seed category %s: %v", name, err)
			}
		}
		ids[name] = category.ID
	}
	return ids
}

func seedSuppliers(db *gorm.DB) map[string]uint {
	suppliers := []model.Supplier{
		{Name: "PT Sumber Makmur", ContactPerson: "Andi Wijaya", Phone: "021-5551234", Email: "sales@sumbermakmur.co.id"},
		{Name: "CV Jaya Abadi", ContactPerson: "Siti Rahma", Phone: "021-5555678"},
		{Name: "Toko Material Sentosa", Phone: "0812-9876-5432"},
	}
	ids := make(map[string]uint, len(suppliers))

	for _, supplier := range suppliers {
		var existing model.Supplier
		if err := db.Where("name = ?", supplier.Name).First(&existing).Error; err != nil {
			if err := db.Create(&supplier).Error; err != nil {
				log.Fatalf("Failed to seed supplier %s: %v", supplier.Name, err)
			}
			existing = supplier
		}
		ids[existing.Name] = existing.ID
	}
	return ids
}

func seedItems(db *gorm.DB, categories, suppliers map[string]uint) {
	supplierID := func(name string) *uint {
		if id, ok := suppliers[name]; ok {
			return &id
		}
		return nil
	}

	items := []model.Item{
		{
			Code: "CNS0001", Name: "Kertas A4 80gsm", Type: model.ItemTypeConsumable,
			CategoryID: categories["Alat Tulis Kantor"], SupplierID: supplierID("PT Sumber Makmur"),
			Unit: "rim", StockQuantity: 50,
		},
		{
			Code: "CNS0002", Name: "Tinta Printer Hitam", Type: model.ItemTypeConsumable,
			CategoryID: categories["Alat Tulis Kantor"], SupplierID: supplierID("PT Sumber Makmur"),
			Unit: "botol", StockQuantity: 24,
		},
		{
			Code: "RAW0001", Name: "Besi Beton 10mm", Type: model.ItemTypeRawMaterial,
			CategoryID: categories["Bahan Bangunan"], SupplierID: supplierID("Toko Material Sentosa"),
			Unit: "batang", Size: "10mm x 12m", StockQuantity: 200,
		},
		{
			Code: "MAT0001", Name: "Kabel NYM 3x2.5", Type: model.ItemTypeMaterial,
			CategoryID: categories["Elektronik"], SupplierID: supplierID("CV Jaya Abadi"),
			Unit: "roll", StockQuantity: 15,
		},
	}

	for _, item := range items {
		var existing model.Item
		if err := db.Where("code = ?", item.Code).First(&existing).Error; err == nil {
			continue
		}
		if err := db.Create(&item).Error; err != nil {
			log.Fatalf("Failed to seed item %s: %v", item.Code, err)
		}
		log.Printf("Seeded item %s %s", item.Code, item.Name)
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
