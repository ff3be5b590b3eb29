package api

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"

	"skillshub/internal/database"
	"skillshub/internal/jobs"
)

func TestGetJob_PartTimeDetailShape(t *testing.T) {
	db := newTestDB(t)
	_, employer := seedEmployer(t, db, "builds@example.sl", true)
	excel := seedSkill(t, db, "excel", "Microsoft Excel")
	job := seedPartTimeJob(t, db, employer.ID, excel)

	h := NewJobHandler(db)
	c, w := testContext(t, 0, http.MethodGet, "/api/jobs/"+strconv.Itoa(int(job.ID)), nil)
	c.Params = gin.Params{{Key: "id", Value: strconv.Itoa(int(job.ID))}}

	h.GetJob(c)
	assertStatus(t, w, http.StatusOK)
	body := decodeBody(t, w)

	if body["type"] != jobs.TypePartTime {
		t.Fatalf("type = %v", body["type"])
	}
	if body["hoursPerWeek"] != "20" {
		t.Fatalf("hoursPerWeek = %v", body["hoursPerWeek"])
	}
	// 异类字段始终在场且为 null。
	for _, field := range []string{"projectDuration", "stipend", "workArrangement", "deadline"} {
		value, present := body[field]
		if !present {
			t.Fatalf("field %s missing from response", field)
		}
		if value != nil {
			t.Fatalf("field %s should be null, got %v", field, value)
		}
	}

	skills, ok := body["skills"].([]any)
	if !ok || len(skills) != 1 {
		t.Fatalf("skills = %v", body["skills"])
	}
	chip := skills[0].(map[string]any)
	if chip["name"] != "Microsoft Excel" || chip["required"] != true {
		t.Fatalf("skill chip = %v", chip)
	}

	employerBody := body["employer"].(map[string]any)
	if employerBody["verified"] != true {
		t.Fatalf("employer = %v", employerBody)
	}
}

func TestGetJob_NotFound(t *testing.T) {
	db := newTestDB(t)
	h := NewJobHandler(db)

	c, w := testContext(t, 0, http.MethodGet, "/api/jobs/999", nil)
	c.Params = gin.Params{{Key: "id", Value: "999"}}
	h.GetJob(c)

	assertStatus(t, w, http.StatusNotFound)
	assertKind(t, decodeBody(t, w), "not_found")
}

func TestListAvailable_FiltersStatusTypeAndSearch(t *testing.T) {
	db := newTestDB(t)
	_, employer := seedEmployer(t, db, "builds@example.sl", true)
	excel := seedSkill(t, db, "excel", "Microsoft Excel")
	seedPartTimeJob(t, db, employer.ID, excel)

	closed := database.Job{
		EmployerProfileID: employer.ID,
		Title:             "Closed Clerk Role",
		Description:       "This one is no longer accepting applications at all.",
		Type:              jobs.TypePartTime,
		Status:            jobs.StatusClosed,
	}
	if err := db.Create(&closed).Error; err != nil {
		t.Fatalf("seed closed job: %v", err)
	}
	gig := database.Job{
		EmployerProfileID: employer.ID,
		Title:             "Bakery Logo",
		Description:       "Design a simple logo for a bakery storefront in Bo town.",
		Type:              jobs.TypeGig,
		Status:            jobs.StatusOpen,
	}
	if err := db.Create(&gig).Error; err != nil {
		t.Fatalf("seed gig: %v", err)
	}

	h := NewJobHandler(db)

	// 无过滤：只返回开放岗位。
	c, w := testContext(t, 0, http.MethodGet, "/api/jobs/available", nil)
	h.ListAvailable(c)
	assertStatus(t, w, http.StatusOK)
	if got := len(decodeBody(t, w)["jobs"].([]any)); got != 2 {
		t.Fatalf("expected 2 open jobs, got %d", got)
	}

	// 类型过滤。
	c, w = testContext(t, 0, http.MethodGet, "/api/jobs/available?type=GIG", nil)
	h.ListAvailable(c)
	assertStatus(t, w, http.StatusOK)
	rows := decodeBody(t, w)["jobs"].([]any)
	if len(rows) != 1 || rows[0].(map[string]any)["title"] != "Bakery Logo" {
		t.Fatalf("type filter rows = %v", rows)
	}

	// 大小写不敏感搜索。
	c, w = testContext(t, 0, http.MethodGet, "/api/jobs/available?search=data+ENTRY", nil)
	h.ListAvailable(c)
	assertStatus(t, w, http.StatusOK)
	rows = decodeBody(t, w)["jobs"].([]any)
	if len(rows) != 1 || rows[0].(map[string]any)["title"] != "Data Entry Clerk" {
		t.Fatalf("search rows = %v", rows)
	}

	// 未知类型直接拒绝。
	c, w = testContext(t, 0, http.MethodGet, "/api/jobs/available?type=FREELANCE", nil)
	h.ListAvailable(c)
	assertStatus(t, w, http.StatusBadRequest)
}

func TestListRecommended_ScoresAndSorts(t *testing.T) {
	db := newTestDB(t)
	_, employer := seedEmployer(t, db, "builds@example.sl", true)
	excel := seedSkill(t, db, "excel", "Microsoft Excel")
	design := seedSkill(t, db, "graphic-design", "Graphic Design")

	clerk := seedPartTimeJob(t, db, employer.ID, excel)

	gig := database.Job{
		EmployerProfileID: employer.ID,
		Title:             "Bakery Logo",
		Description:       "Design a simple logo for a bakery storefront in Bo town.",
		Type:              jobs.TypeGig,
		Status:            jobs.StatusOpen,
	}
	if err := db.Create(&gig).Error; err != nil {
		t.Fatalf("seed gig: %v", err)
	}
	if err := db.Create(&database.JobSkill{JobID: gig.ID, SkillID: design.ID, Required: true}).Error; err != nil {
		t.Fatalf("seed gig skill: %v", err)
	}

	seekerUser, seeker := seedSeeker(t, db, "aminata@example.sl")
	if err := db.Create(&database.SeekerSkill{SeekerProfileID: seeker.ID, SkillID: excel.ID, Level: 4}).Error; err != nil {
		t.Fatalf("seed seeker skill: %v", err)
	}

	h := NewJobHandler(db)
	c, w := testContext(t, seekerUser.ID, http.MethodGet, "/api/jobs/recommended", nil)
	h.ListRecommended(c)
	assertStatus(t, w, http.StatusOK)

	rows := decodeBody(t, w)["jobs"].([]any)
	if len(rows) != 2 {
		t.Fatalf("expected 2 jobs, got %v", rows)
	}
	first := rows[0].(map[string]any)
	if uint(first["id"].(float64)) != clerk.ID {
		t.Fatalf("full match should rank first, got %v", first["title"])
	}
	if first["matchScore"].(float64) != 100 || first["matchingSkillsCount"].(float64) != 1 {
		t.Fatalf("first match data = %v", first)
	}
	second := rows[1].(map[string]any)
	if second["matchScore"].(float64) != 0 || second["mandatoryMissing"] != true {
		t.Fatalf("second match data = %v", second)
	}
}

func TestListRecommended_RequiresProfile(t *testing.T) {
	db := newTestDB(t)
	user := database.User{Email: "new@example.sl", PasswordHash: "x", Role: database.RoleSeeker}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	h := NewJobHandler(db)
	c, w := testContext(t, user.ID, http.MethodGet, "/api/jobs/recommended", nil)
	h.ListRecommended(c)

	assertStatus(t, w, http.StatusNotFound)
}
