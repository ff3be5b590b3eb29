package main

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"skillshub/internal/auth"
	"skillshub/internal/config"
	"skillshub/internal/database"
)

// 塞拉利昂 16 个行政区，作为定位参考数据。
var sierraLeoneDistricts = []string{
	"Bo", "Bombali", "Bonthe", "Falaba",
	"Kailahun", "Kambia", "Karene", "Kenema",
	"Koinadugu", "Kono", "Moyamba", "Port Loko",
	"Pujehun", "Tonkolili", "Western Area Rural", "Western Area Urban",
}

// 技能字典的初始条目，slug -> 展示名。
var seedSkills = map[string]string{
	"excel":            "Microsoft Excel",
	"data-entry":       "Data Entry",
	"graphic-design":   "Graphic Design",
	"tailoring":        "Tailoring",
	"carpentry":        "Carpentry",
	"plumbing":         "Plumbing",
	"solar-install":    "Solar Installation",
	"customer-service": "Customer Service",
	"bookkeeping":      "Bookkeeping",
	"web-development":  "Web Development",
	"mobile-money":     "Mobile Money Operations",
	"driving":          "Driving",
}

func main() {
	var (
		email     = flag.String("email", "", "初始管理员邮箱（创建管理员时必填）")
		name      = flag.String("name", "Administrator", "管理员显示名")
		seedOnly  = flag.Bool("seed-only", false, "只写入参考数据，不创建管理员")
		skipSeeds = flag.Bool("skip-seeds", false, "跳过参考数据写入")
	)
	flag.Parse()

	cfg := config.MustLoad()

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	if !*skipSeeds {
		if err := seedReferenceData(db); err != nil {
			log.Fatalf("seed reference data: %v", err)
		}
		log.Printf("reference data seeded: %d districts, %d skills", len(sierraLeoneDistricts), len(seedSkills))
	}
	if *seedOnly {
		return
	}

	addr := strings.ToLower(strings.TrimSpace(*email))
	if addr == "" {
		log.Fatal("missing required flag: --email")
	}

	var existing database.User
	switch err := db.Where("email = ?", addr).First(&existing).Error; {
	case err == nil:
		log.Fatalf("user %q already exists", addr)
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		log.Fatalf("query user: %v", err)
	}

	password, err := generateRandomPassword(24)
	if err != nil {
		log.Fatalf("generate password: %v", err)
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	user := database.User{
		Email:              addr,
		PasswordHash:       hashed,
		Role:               database.RoleAdmin,
		Name:               strings.TrimSpace(*name),
		MustChangePassword: true,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("create user: %v", err)
	}

	fmt.Printf("已创建初始管理员账号（首次登录需强制改密）：\n")
	fmt.Printf("邮箱: %s\n", addr)
	fmt.Printf("初始密码: %s\n", password)
	fmt.Printf("提示：请立即登录并修改密码（该密码仅显示一次）。\n")
}

func seedReferenceData(db *gorm.DB) error {
	for _, district := range sierraLeoneDistricts {
		region := database.Region{Name: district}
		if err := db.Where("name = ?", district).FirstOrCreate(&region).Error; err != nil {
			return fmt.Errorf("seed region %q: %w", district, err)
		}
	}
	for slug, name := range seedSkills {
		skill := database.Skill{Slug: slug, Name: name}
		if err := db.Where("slug = ?", slug).FirstOrCreate(&skill).Error; err != nil {
			return fmt.Errorf("seed skill %q: %w", slug, err)
		}
	}
	return nil
}

func generateRandomPassword(bytesLen int) (string, error) {
	if bytesLen <= 0 {
		bytesLen = 24
	}
	buf := make([]byte, bytesLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
