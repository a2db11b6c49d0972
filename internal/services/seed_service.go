package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SeedService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewSeedService(db *gorm.DB, cfg *config.Config) *SeedService {
	return &SeedService{db: db, cfg: cfg}
}

// Seed loads the demo catalog and admin account into an empty store.
// It reports false without touching anything once any product exists.
func (s *SeedService) Seed(ctx context.Context) (bool, error) {
	seeded := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Product{}).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count products: %w", err)
		}
		if count > 0 {
			return nil
		}

		products := demoProducts(time.Now())
		if err := tx.Create(&products).Error; err != nil {
			return fmt.Errorf("failed to seed products: %w", err)
		}

		if err := s.ensureAdmin(tx); err != nil {
			return err
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if seeded {
		slog.Info("demo data seeded", "admin_email", s.cfg.SeedAdminEmail)
	}
	return seeded, nil
}

func (s *SeedService) ensureAdmin(tx *gorm.DB) error {
	email := normalizeEmail(s.cfg.SeedAdminEmail)

	var existing models.User
	err := tx.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	hash, err := HashPassword(s.cfg.SeedAdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	admin := models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: hash,
		Name:     "Admin",
		Role:     models.RoleAdmin,
	}
	if err := tx.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

type demoProduct struct {
	name, description, category, brand string
	price                              int64
	stock                              int
	featured                           bool
	images, sizes, colors              []string
}

var (
	mensSizes   = []string{"7", "8", "9", "10", "11", "12"}
	womensSizes = []string{"5", "6", "7", "8", "9"}
)

var demoCatalog = []demoProduct{
	{
		name:        "Classic Oxford",
		description: "Timeless elegance meets unparalleled comfort. Handcrafted from premium Italian leather with Goodyear welt construction.",
		category:    "men", brand: "Maison Luxe", price: 485, stock: 50, featured: true,
		images: []string{"https://images.unsplash.com/photo-1614252369475-531eba835eb1?w=800", "https://images.unsplash.com/photo-1587521503498-24ac2bab8f72?w=800"},
		sizes:  mensSizes, colors: []string{"Black", "Cognac", "Burgundy"},
	},
	{
		name:        "Stiletto Elegance",
		description: "A masterpiece of design. These stunning heels feature genuine Nappa leather and a hand-polished finish.",
		category:    "women", brand: "Valentina", price: 595, stock: 35, featured: true,
		images: []string{"https://images.unsplash.com/photo-1543163521-1bf539c55dd2?w=800", "https://images.unsplash.com/photo-1515347619252-60a4bf4fff4f?w=800"},
		sizes:  womensSizes, colors: []string{"Noir", "Crimson", "Nude"},
	},
	{
		name:        "Monaco Loafer",
		description: "Effortless sophistication. Slip-on luxury crafted from supple suede with leather-wrapped soles.",
		category:    "men", brand: "Maison Luxe", price: 425, stock: 45, featured: true,
		images: []string{"https://images.unsplash.com/photo-1626379953822-baec19c3accd?w=800", "https://images.unsplash.com/photo-1533867617858-e7b97e060509?w=800"},
		sizes:  mensSizes, colors: []string{"Navy", "Tan", "Charcoal"},
	},
	{
		name:        "Athena Sandal",
		description: "Goddess-worthy comfort. Braided leather straps meet a cushioned footbed for all-day elegance.",
		category:    "women", brand: "Valentina", price: 345, stock: 40,
		images: []string{"https://images.unsplash.com/photo-1603808033192-082d6919d3e1?w=800", "https://images.unsplash.com/photo-1562273138-f46be4ebdf33?w=800"},
		sizes:  womensSizes, colors: []string{"Gold", "Silver", "Bronze"},
	},
	{
		name:        "Junior Elite",
		description: "Premium quality for young explorers. Durable yet stylish footwear designed for active kids.",
		category:    "kids", brand: "Piccolo", price: 185, stock: 60,
		images: []string{"https://images.unsplash.com/photo-1555274175-75f79b09d5b8?w=800", "https://images.unsplash.com/photo-1514989940723-e8e51d675571?w=800"},
		sizes:  []string{"1", "2", "3", "4", "5"}, colors: []string{"White", "Navy", "Red"},
	},
	{
		name:        "Velocity Pro",
		description: "Engineered for excellence. Advanced cushioning technology meets aerodynamic design.",
		category:    "sports", brand: "Athletica", price: 275, stock: 75, featured: true,
		images: []string{"https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=800", "https://images.unsplash.com/photo-1608231387042-66d1773070a5?w=800"},
		sizes:  mensSizes, colors: []string{"Black/Gold", "White/Silver", "Navy/Red"},
	},
	{
		name:        "Chelsea Boot",
		description: "The epitome of British craftsmanship. Full-grain leather with elastic side panels.",
		category:    "men", brand: "Maison Luxe", price: 545, stock: 30, featured: true,
		images: []string{"https://images.unsplash.com/photo-1638247025967-b4e38f787b76?w=800", "https://images.unsplash.com/photo-1605812860427-4024433a70fd?w=800"},
		sizes:  mensSizes, colors: []string{"Black", "Brown", "Suede Tan"},
	},
	{
		name:        "Ballet Flat",
		description: "Parisian chic at its finest. Quilted leather with signature bow detail.",
		category:    "women", brand: "Valentina", price: 365, stock: 55,
		images: []string{"https://images.unsplash.com/photo-1566150905458-1bf1fc113f0d?w=800", "https://images.unsplash.com/photo-1595950653106-6c9ebd614d3a?w=800"},
		sizes:  womensSizes, colors: []string{"Blush", "Black", "Cream"},
	},
}

// demoProducts stamps created_at one second apart so newest-first listing
// returns the catalog in its declared order.
func demoProducts(now time.Time) []models.Product {
	out := make([]models.Product, 0, len(demoCatalog))
	for i, d := range demoCatalog {
		out = append(out, models.Product{
			ID:          uuid.New(),
			Name:        d.name,
			Description: d.description,
			Price:       decimal.NewFromInt(d.price),
			Category:    d.category,
			Images:      datatypes.JSONSlice[string](d.images),
			Sizes:       datatypes.JSONSlice[string](d.sizes),
			Colors:      datatypes.JSONSlice[string](d.colors),
			Brand:       d.brand,
			Stock:       d.stock,
			Featured:    d.featured,
			CreatedAt:   now.Add(-time.Duration(i) * time.Second),
		})
	}
	return out
}
