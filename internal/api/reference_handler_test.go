package api

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"skillshub/internal/client"
	"skillshub/internal/database"
	"skillshub/internal/refcache"
)

// refMemStore 是测试用的内存缓存后端。
type refMemStore struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newRefMemStore() *refMemStore {
	return &refMemStore{entries: make(map[string][]byte)}
}

func (s *refMemStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.entries[key]
	if !ok {
		return nil, refcache.ErrMiss
	}
	return raw, nil
}

func (s *refMemStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

func newReferenceServer(t *testing.T, db *gorm.DB) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handler := NewReferenceHandler(db, refcache.New(newRefMemStore(), time.Minute))
	router := gin.New()
	router.GET("/api/skills", handler.ListSkills)
	router.GET("/api/locations/regions", handler.ListRegions)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

// 客户端直连真实 handler，保证两端对参考数据的序列化约定一致。
func TestReferenceEndpoints_ClientRoundTrip(t *testing.T) {
	db := newTestDB(t)
	seedSkill(t, db, "excel", "Microsoft Excel")
	seedSkill(t, db, "data-entry", "Data Entry")
	for _, name := range []string{"Bo", "Kenema", "Western Area Urban"} {
		if err := db.Create(&database.Region{Name: name}).Error; err != nil {
			t.Fatal(err)
		}
	}

	server := newReferenceServer(t, db)
	api := client.New(server.URL)
	ctx := context.Background()

	regions, err := api.Regions(ctx)
	if err != nil {
		t.Fatalf("Regions: %v", err)
	}
	if len(regions) != 3 {
		t.Fatalf("regions = %d, want 3", len(regions))
	}
	if regions[0].Name != "Bo" || regions[0].ID == 0 {
		t.Fatalf("first region = %+v", regions[0])
	}

	skills, err := api.Skills(ctx)
	if err != nil {
		t.Fatalf("Skills: %v", err)
	}
	if len(skills) != 2 {
		t.Fatalf("skills = %d, want 2", len(skills))
	}
	if skills[0].Name != "Data Entry" || skills[0].Slug != "data-entry" {
		t.Fatalf("first skill = %+v", skills[0])
	}
}
