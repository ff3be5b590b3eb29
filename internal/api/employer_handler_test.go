package api

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"

	"skillshub/internal/database"
	"skillshub/internal/jobs"
)

func gigPayload() map[string]any {
	return map[string]any{
		"title":       "Bakery Logo",
		"description": "Design a simple logo for a bakery storefront in Bo town.",
		"type":        jobs.TypeGig,
		"status":      jobs.StatusOpen,
		"skills":      []map[string]any{{"slug": "graphic-design", "name": "Graphic Design", "required": true}},
		"budget":      "Le 2,000",
		"deadline":    "2026-12-31",
		// 表单切换类型后的残留值，入库时必须被丢弃。
		"hoursPerWeek": "20",
		"stipend":      "Le 500",
	}
}

func TestCreateJob_ShortTitleRejectedWithFieldError(t *testing.T) {
	db := newTestDB(t)
	employerUser, _ := seedEmployer(t, db, "builds@example.sl", true)

	payload := gigPayload()
	payload["title"] = "ab"

	h := NewEmployerHandler(db, nil)
	c, w := testContext(t, employerUser.ID, http.MethodPost, "/api/employer/jobs", payload)
	h.CreateJob(c)

	assertStatus(t, w, http.StatusBadRequest)
	body := decodeBody(t, w)
	assertKind(t, body, "validation")
	fields := body["fields"].(map[string]any)
	if fields["title"] == nil {
		t.Fatalf("expected title field error, got %v", fields)
	}

	var count int64
	db.Model(&database.Job{}).Count(&count)
	if count != 0 {
		t.Fatalf("nothing should persist, got %d rows", count)
	}
}

func TestCreateJob_PersistsOnlySelectedVariant(t *testing.T) {
	db := newTestDB(t)
	employerUser, _ := seedEmployer(t, db, "builds@example.sl", true)

	payload := gigPayload()
	payload["title"] = "abc" // 恰好 3 个字符，应当通过

	h := NewEmployerHandler(db, nil)
	c, w := testContext(t, employerUser.ID, http.MethodPost, "/api/employer/jobs", payload)
	h.CreateJob(c)

	assertStatus(t, w, http.StatusCreated)
	body := decodeBody(t, w)
	jobID := uint(body["jobId"].(float64))

	var job database.Job
	if err := db.Preload("Skills.Skill").First(&job, jobID).Error; err != nil {
		t.Fatalf("load job: %v", err)
	}
	if job.Budget == nil || *job.Budget != "Le 2,000" {
		t.Fatalf("budget = %v", job.Budget)
	}
	if job.Deadline == nil {
		t.Fatal("deadline not persisted")
	}
	if job.HoursPerWeek != nil || job.Stipend != nil {
		t.Fatalf("foreign variant columns must be null: hours=%v stipend=%v", job.HoursPerWeek, job.Stipend)
	}
	if len(job.Skills) != 1 || job.Skills[0].Skill.Slug != "graphic-design" || !job.Skills[0].Required {
		t.Fatalf("skills = %+v", job.Skills)
	}
}

func TestUpdateJob_TypeSwitchRenullsOldColumns(t *testing.T) {
	db := newTestDB(t)
	employerUser, employer := seedEmployer(t, db, "builds@example.sl", true)
	excel := seedSkill(t, db, "excel", "Microsoft Excel")
	job := seedPartTimeJob(t, db, employer.ID, excel)

	payload := map[string]any{
		"title":             "Office Administrator",
		"description":       "Run the front office and keep our records in good order.",
		"type":              jobs.TypeFullTime,
		"status":            jobs.StatusOpen,
		"skills":            []map[string]any{{"slug": "excel", "name": "Microsoft Excel", "required": true}},
		"workArrangement":   "ONSITE",
		"startDateFullTime": "2026-10-01",
		// 旧类型残留
		"hoursPerWeek": "20",
	}

	h := NewEmployerHandler(db, nil)
	idParam := strconv.Itoa(int(job.ID))
	c, w := testContext(t, employerUser.ID, http.MethodPatch, "/api/employer/jobs/"+idParam, payload)
	c.Params = gin.Params{{Key: "id", Value: idParam}}
	h.UpdateJob(c)

	assertStatus(t, w, http.StatusOK)
	view := decodeBody(t, w)["job"].(map[string]any)
	if view["type"] != jobs.TypeFullTime || view["workArrangement"] != "ONSITE" {
		t.Fatalf("view = %v", view)
	}
	if view["hoursPerWeek"] != nil {
		t.Fatalf("hoursPerWeek should be re-nulled, got %v", view["hoursPerWeek"])
	}

	var reloaded database.Job
	if err := db.First(&reloaded, job.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.HoursPerWeek != nil || reloaded.Schedule != nil || reloaded.HourlyRate != nil {
		t.Fatalf("part-time columns must be null: %+v", reloaded)
	}
	if reloaded.WorkArrangement == nil || reloaded.StartDateFullTime == nil {
		t.Fatal("full-time columns not written")
	}
}

func TestUpdateJob_OtherEmployersJobIsNotFound(t *testing.T) {
	db := newTestDB(t)
	_, owner := seedEmployer(t, db, "owner@example.sl", true)
	excel := seedSkill(t, db, "excel", "Microsoft Excel")
	job := seedPartTimeJob(t, db, owner.ID, excel)

	otherUser, _ := seedEmployer(t, db, "other@example.sl", false)

	h := NewEmployerHandler(db, nil)
	idParam := strconv.Itoa(int(job.ID))
	c, w := testContext(t, otherUser.ID, http.MethodPatch, "/api/employer/jobs/"+idParam, gigPayload())
	c.Params = gin.Params{{Key: "id", Value: idParam}}
	h.UpdateJob(c)

	assertStatus(t, w, http.StatusNotFound)
}

func TestRecruit_ReportsWhetherTalentHasResume(t *testing.T) {
	db := newTestDB(t)
	employerUser, employer := seedEmployer(t, db, "builds@example.sl", true)
	excel := seedSkill(t, db, "excel", "Microsoft Excel")
	job := seedPartTimeJob(t, db, employer.ID, excel)
	seekerUser, seeker := seedSeeker(t, db, "aminata@example.sl")

	h := NewEmployerHandler(db, nil)

	c, w := testContext(t, employerUser.ID, http.MethodPost, "/api/employer/recruit", map[string]any{
		"talentId": seeker.ID,
		"jobId":    job.ID,
		"message":  "We would love you to apply.",
	})
	h.Recruit(c)
	assertStatus(t, w, http.StatusOK)
	if decodeBody(t, w)["hasResume"] != false {
		t.Fatal("talent has no resume yet")
	}

	resume := seedFile(t, db, seekerUser.ID, database.FileKindResume)
	if err := db.Model(&seeker).Update("resume_file_id", resume.ID).Error; err != nil {
		t.Fatalf("attach resume: %v", err)
	}

	c, w = testContext(t, employerUser.ID, http.MethodPost, "/api/employer/recruit", map[string]any{
		"talentId": seeker.ID,
		"jobId":    job.ID,
	})
	h.Recruit(c)
	assertStatus(t, w, http.StatusOK)
	if decodeBody(t, w)["hasResume"] != true {
		t.Fatal("expected hasResume true")
	}

	var invites int64
	db.Model(&database.RecruitInvite{}).Count(&invites)
	if invites != 2 {
		t.Fatalf("expected 2 invites, got %d", invites)
	}
}

func TestRecruit_RequiresOwnOpenJob(t *testing.T) {
	db := newTestDB(t)
	employerUser, employer := seedEmployer(t, db, "builds@example.sl", true)
	_, otherEmployer := seedEmployer(t, db, "other@example.sl", true)
	excel := seedSkill(t, db, "excel", "Microsoft Excel")
	foreignJob := seedPartTimeJob(t, db, otherEmployer.ID, excel)
	_, seeker := seedSeeker(t, db, "aminata@example.sl")

	h := NewEmployerHandler(db, nil)
	c, w := testContext(t, employerUser.ID, http.MethodPost, "/api/employer/recruit", map[string]any{
		"talentId": seeker.ID,
		"jobId":    foreignJob.ID,
	})
	h.Recruit(c)
	assertStatus(t, w, http.StatusNotFound)

	ownJob := seedPartTimeJob(t, db, employer.ID, seedSkill(t, db, "data-entry", "Data Entry"))
	if err := db.Model(&database.Job{}).Where("id = ?", ownJob.ID).Update("status", jobs.StatusClosed).Error; err != nil {
		t.Fatalf("close job: %v", err)
	}

	c, w = testContext(t, employerUser.ID, http.MethodPost, "/api/employer/recruit", map[string]any{
		"talentId": seeker.ID,
		"jobId":    ownJob.ID,
	})
	h.Recruit(c)
	assertStatus(t, w, http.StatusConflict)
}
