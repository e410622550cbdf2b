// Command seed fills a development database with an admin account,
// customers and a product catalog spread over every category.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

var technologies = []string{
	"Go", "React", "Vue", "Svelte", "Next.js", "Flutter", "Swift", "Kotlin",
	"PostgreSQL", "Redis", "Tailwind CSS", "Docker", "Kubernetes", "Electron",
	"Node.js", "Python", "Django", "Laravel", "GraphQL", "gRPC",
}

type options struct {
	adminEmail    string
	adminPassword string
	customers     int
	products      int
	seed          uint64
}

func main() {
	var opts options
	flag.StringVar(&opts.adminEmail, "admin-email", "admin@marketplace.local", "admin account email")
	flag.StringVar(&opts.adminPassword, "admin-password", "ChangeMe123!", "admin account password")
	flag.IntVar(&opts.customers, "customers", 20, "number of customer accounts")
	flag.IntVar(&opts.products, "products", 40, "number of products")
	flag.Uint64Var(&opts.seed, "seed", 0, "faker seed, 0 for random")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{Level: "info", Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	db, err := persistence.NewDatabase(&cfg.Database, log, gormlogger.Warn, time.Second)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	s := &seeder{
		faker:    gofakeit.New(opts.seed),
		users:    persistence.NewGormUserRepository(db.DB),
		products: persistence.NewGormProductRepository(db.DB),
		log:      log,
	}
	if err := s.run(ctx, opts); err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}
}

type seeder struct {
	faker    *gofakeit.Faker
	users    identity.UserRepository
	products catalog.ProductRepository
	log      *zap.Logger
}

func (s *seeder) run(ctx context.Context, opts options) error {
	admin, err := s.ensureAdmin(ctx, opts.adminEmail, opts.adminPassword)
	if err != nil {
		return fmt.Errorf("admin: %w", err)
	}

	created := 0
	for i := 0; i < opts.customers; i++ {
		ok, err := s.customer(ctx)
		if err != nil {
			return fmt.Errorf("customer %d: %w", i, err)
		}
		if ok {
			created++
		}
	}
	s.log.Info("Customers seeded", zap.Int("created", created))

	for i := 0; i < opts.products; i++ {
		// round robin so every category has listings
		category := catalog.Categories[i%len(catalog.Categories)]
		p, err := catalog.NewProduct(s.productDetails(category), &admin.ID)
		if err != nil {
			return fmt.Errorf("product %d: %w", i, err)
		}
		if err := s.products.Create(ctx, p); err != nil {
			return fmt.Errorf("product %d: %w", i, err)
		}
	}
	s.log.Info("Products seeded", zap.Int("created", opts.products))
	return nil
}

func (s *seeder) ensureAdmin(ctx context.Context, email, password string) (*identity.User, error) {
	if existing, err := s.users.FindByEmail(ctx, email); err == nil {
		s.log.Info("Admin already exists", zap.String("email", existing.Email))
		return existing, nil
	}

	admin, err := identity.NewUser("Marketplace Admin", email, password)
	if err != nil {
		return nil, err
	}
	if err := admin.SetRole(identity.RoleAdmin); err != nil {
		return nil, err
	}
	admin.SetVerified(true)
	if err := s.users.Create(ctx, admin); err != nil {
		return nil, err
	}
	s.log.Info("Admin created", zap.String("email", admin.Email))
	return admin, nil
}

// customer creates one fake account. Email collisions are skipped.
func (s *seeder) customer(ctx context.Context) (bool, error) {
	email := s.faker.Email()
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil || exists {
		return false, err
	}

	u, err := identity.NewUser(s.faker.Name(), email, s.faker.Password(true, true, true, false, false, 12))
	if err != nil {
		return false, err
	}
	if err := u.UpdateProfile(u.Name, s.faker.Phone(), s.faker.Sentence(12), ""); err != nil {
		return false, err
	}
	u.SetVerified(s.faker.Bool())
	return true, s.users.Create(ctx, u)
}

func (s *seeder) productDetails(category catalog.Category) catalog.ProductDetails {
	f := s.faker

	var stock *int
	if f.Bool() {
		n := f.Number(0, 50)
		stock = &n
	}

	features := make([]string, f.Number(3, 6))
	for i := range features {
		features[i] = f.ProductFeature()
	}

	techs := make([]string, f.Number(2, 5))
	for i := range techs {
		techs[i] = technologies[f.Number(0, len(technologies)-1)]
	}

	return catalog.ProductDetails{
		Title:        fmt.Sprintf("%s %s", f.ProductName(), category.Label()),
		Description:  f.Paragraph(2, 4, 12, " "),
		Price:        decimal.NewFromFloat(f.Price(9, 499)).Round(2),
		Category:     category,
		Features:     features,
		Technologies: techs,
		Images:       []string{fmt.Sprintf("https://picsum.photos/seed/%s/800/600", f.UUID())},
		DemoURL:      f.URL(),
		Stock:        stock,
		IsFeatured:   f.Float64Range(0, 1) < 0.2,
	}
}
