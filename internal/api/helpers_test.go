package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"skillshub/internal/database"
	"skillshub/internal/jobs"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// testContext 构造带 userID 的 gin 测试上下文。
func testContext(t *testing.T, userID uint, method, target string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var reqBody *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reqBody = bytes.NewBuffer(encoded)
	} else {
		reqBody = &bytes.Buffer{}
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, reqBody)
	if body != nil {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	if userID != 0 {
		c.Set("userID", userID)
	}
	return c, w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func seedEmployer(t *testing.T, db *gorm.DB, email string, verified bool) (database.User, database.EmployerProfile) {
	t.Helper()
	user := database.User{Email: email, PasswordHash: "x", Role: database.RoleEmployer, Name: "Salone Builds Ltd"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed employer user: %v", err)
	}
	profile := database.EmployerProfile{
		UserID:   user.ID,
		Name:     "Salone Builds Ltd",
		OrgType:  "BUSINESS",
		Verified: verified,
	}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("seed employer profile: %v", err)
	}
	return user, profile
}

func seedSeeker(t *testing.T, db *gorm.DB, email string) (database.User, database.SeekerProfile) {
	t.Helper()
	user := database.User{Email: email, PasswordHash: "x", Role: database.RoleSeeker, Name: "Aminata Kamara"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed seeker user: %v", err)
	}
	profile := database.SeekerProfile{
		UserID:     user.ID,
		FirstName:  "Aminata",
		LastName:   "Kamara",
		Profession: "Data Clerk",
		Pathway:    database.PathwayGraduate,
	}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("seed seeker profile: %v", err)
	}
	return user, profile
}

func seedSkill(t *testing.T, db *gorm.DB, slug, name string) database.Skill {
	t.Helper()
	skill := database.Skill{Slug: slug, Name: name}
	if err := db.Where("slug = ?", slug).FirstOrCreate(&skill).Error; err != nil {
		t.Fatalf("seed skill %q: %v", slug, err)
	}
	return skill
}

// seedPartTimeJob 写入一条 "Data Entry Clerk" 兼职岗位。
func seedPartTimeJob(t *testing.T, db *gorm.DB, employerID uint, requiredSkill database.Skill) database.Job {
	t.Helper()
	hours := "20"
	schedule := "Mon/Wed/Fri mornings"
	rate := "Le 50 per hour"
	location := "Freetown"
	job := database.Job{
		EmployerProfileID: employerID,
		Title:             "Data Entry Clerk",
		Description:       "Enter field survey data into spreadsheets for our Freetown office.",
		Type:              jobs.TypePartTime,
		Location:          &location,
		Status:            jobs.StatusOpen,
		HoursPerWeek:      &hours,
		Schedule:          &schedule,
		HourlyRate:        &rate,
	}
	if err := db.Create(&job).Error; err != nil {
		t.Fatalf("seed job: %v", err)
	}
	link := database.JobSkill{JobID: job.ID, SkillID: requiredSkill.ID, Required: true}
	if err := db.Create(&link).Error; err != nil {
		t.Fatalf("seed job skill: %v", err)
	}
	return job
}

func seedFile(t *testing.T, db *gorm.DB, userID uint, kind string) database.File {
	t.Helper()
	file := database.File{
		UserID:      userID,
		ObjectKey:   fmt.Sprintf("user-files/%d/%s-%s.pdf", userID, kind, t.Name()),
		ContentType: "application/pdf",
		SizeBytes:   1024,
		Kind:        kind,
	}
	if err := db.Create(&file).Error; err != nil {
		t.Fatalf("seed file: %v", err)
	}
	return file
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d got %d body=%s", want, w.Code, w.Body.String())
	}
}

func assertKind(t *testing.T, body map[string]any, want string) {
	t.Helper()
	if body["kind"] != want {
		t.Fatalf("expected kind %q got %v", want, body["kind"])
	}
}
