package api

import (
	"net/http"
	"testing"

	"skillshub/internal/database"
	"skillshub/internal/jobs"
)

func TestApply_BlockedWithoutDocuments(t *testing.T) {
	db := newTestDB(t)
	_, employer := seedEmployer(t, db, "builds@example.sl", true)
	excel := seedSkill(t, db, "excel", "Microsoft Excel")
	job := seedPartTimeJob(t, db, employer.ID, excel)
	seekerUser, _ := seedSeeker(t, db, "aminata@example.sl")

	h := NewApplicationHandler(db, nil)
	c, w := testContext(t, seekerUser.ID, http.MethodPost, "/api/applications/apply", map[string]any{
		"jobId": job.ID,
	})
	h.Apply(c)

	assertStatus(t, w, http.StatusBadRequest)
	body := decodeBody(t, w)
	assertKind(t, body, "validation")
	if body["error"] != missingApplicationDocsMessage {
		t.Fatalf("error = %v", body["error"])
	}

	var count int64
	db.Model(&database.Application{}).Count(&count)
	if count != 0 {
		t.Fatalf("no application should persist, got %d", count)
	}
}

func TestApply_ProfileResumeUnblocks(t *testing.T) {
	db := newTestDB(t)
	_, employer := seedEmployer(t, db, "builds@example.sl", true)
	excel := seedSkill(t, db, "excel", "Microsoft Excel")
	job := seedPartTimeJob(t, db, employer.ID, excel)
	seekerUser, seeker := seedSeeker(t, db, "aminata@example.sl")

	resume := seedFile(t, db, seekerUser.ID, database.FileKindResume)
	if err := db.Model(&seeker).Update("resume_file_id", resume.ID).Error; err != nil {
		t.Fatalf("attach resume: %v", err)
	}

	h := NewApplicationHandler(db, nil)
	c, w := testContext(t, seekerUser.ID, http.MethodPost, "/api/applications/apply", map[string]any{
		"jobId":       job.ID,
		"expectedPay": "Le 60 per hour",
	})
	h.Apply(c)

	assertStatus(t, w, http.StatusCreated)

	var app database.Application
	if err := db.First(&app).Error; err != nil {
		t.Fatalf("load application: %v", err)
	}
	// 投递时快照档案简历。
	if app.CVFileID == nil || *app.CVFileID != resume.ID {
		t.Fatalf("cv snapshot = %v", app.CVFileID)
	}
	if app.Status != database.ApplicationSubmitted {
		t.Fatalf("status = %s", app.Status)
	}
}

func TestApply_CoverLetterFileUnblocks(t *testing.T) {
	db := newTestDB(t)
	_, employer := seedEmployer(t, db, "builds@example.sl", true)
	excel := seedSkill(t, db, "excel", "Microsoft Excel")
	job := seedPartTimeJob(t, db, employer.ID, excel)
	seekerUser, _ := seedSeeker(t, db, "aminata@example.sl")

	letter := seedFile(t, db, seekerUser.ID, database.FileKindCoverLetter)

	h := NewApplicationHandler(db, nil)
	c, w := testContext(t, seekerUser.ID, http.MethodPost, "/api/applications/apply", map[string]any{
		"jobId":             job.ID,
		"coverLetterFileId": letter.ID,
	})
	h.Apply(c)

	assertStatus(t, w, http.StatusCreated)
}

func TestApply_RejectsForeignCoverLetterFile(t *testing.T) {
	db := newTestDB(t)
	employerUser, employer := seedEmployer(t, db, "builds@example.sl", true)
	excel := seedSkill(t, db, "excel", "Microsoft Excel")
	job := seedPartTimeJob(t, db, employer.ID, excel)
	seekerUser, _ := seedSeeker(t, db, "aminata@example.sl")

	// 他人的文件。
	foreign := seedFile(t, db, employerUser.ID, database.FileKindCoverLetter)

	h := NewApplicationHandler(db, nil)
	c, w := testContext(t, seekerUser.ID, http.MethodPost, "/api/applications/apply", map[string]any{
		"jobId":             job.ID,
		"coverLetterFileId": foreign.ID,
	})
	h.Apply(c)

	assertStatus(t, w, http.StatusBadRequest)
}

func TestApply_DuplicateIsConflict(t *testing.T) {
	db := newTestDB(t)
	_, employer := seedEmployer(t, db, "builds@example.sl", true)
	excel := seedSkill(t, db, "excel", "Microsoft Excel")
	job := seedPartTimeJob(t, db, employer.ID, excel)
	seekerUser, seeker := seedSeeker(t, db, "aminata@example.sl")

	resume := seedFile(t, db, seekerUser.ID, database.FileKindResume)
	if err := db.Model(&seeker).Update("resume_file_id", resume.ID).Error; err != nil {
		t.Fatalf("attach resume: %v", err)
	}

	h := NewApplicationHandler(db, nil)
	payload := map[string]any{"jobId": job.ID}

	c, w := testContext(t, seekerUser.ID, http.MethodPost, "/api/applications/apply", payload)
	h.Apply(c)
	assertStatus(t, w, http.StatusCreated)

	c, w = testContext(t, seekerUser.ID, http.MethodPost, "/api/applications/apply", payload)
	h.Apply(c)
	assertStatus(t, w, http.StatusConflict)
	assertKind(t, decodeBody(t, w), "conflict")
}

func TestApply_ClosedJobIsConflict(t *testing.T) {
	db := newTestDB(t)
	_, employer := seedEmployer(t, db, "builds@example.sl", true)
	excel := seedSkill(t, db, "excel", "Microsoft Excel")
	job := seedPartTimeJob(t, db, employer.ID, excel)
	if err := db.Model(&database.Job{}).Where("id = ?", job.ID).Update("status", jobs.StatusClosed).Error; err != nil {
		t.Fatalf("close job: %v", err)
	}
	seekerUser, seeker := seedSeeker(t, db, "aminata@example.sl")
	resume := seedFile(t, db, seekerUser.ID, database.FileKindResume)
	if err := db.Model(&seeker).Update("resume_file_id", resume.ID).Error; err != nil {
		t.Fatalf("attach resume: %v", err)
	}

	h := NewApplicationHandler(db, nil)
	c, w := testContext(t, seekerUser.ID, http.MethodPost, "/api/applications/apply", map[string]any{"jobId": job.ID})
	h.Apply(c)

	assertStatus(t, w, http.StatusConflict)
}
