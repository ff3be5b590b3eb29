package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"skillshub/internal/database"
	"skillshub/internal/errcode"
	"skillshub/internal/jobs"
	"skillshub/internal/tasks"
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

// fakePublisher 捕获发布到各频道的消息。
type fakePublisher struct {
	mu       sync.Mutex
	messages map[string][][]byte
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{messages: make(map[string][][]byte)}
}

func (p *fakePublisher) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	p.mu.Lock()
	defer p.mu.Unlock()
	if raw, ok := message.([]byte); ok {
		p.messages[channel] = append(p.messages[channel], raw)
	}
	return redis.NewIntCmd(ctx)
}

func (p *fakePublisher) single(t *testing.T, channel string) []byte {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	msgs := p.messages[channel]
	if len(msgs) != 1 {
		t.Fatalf("channel %q got %d messages, want 1 (all: %v)", channel, len(msgs), p.messages)
	}
	return msgs[0]
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedApplication(t *testing.T, db *gorm.DB) (database.Application, uint) {
	t.Helper()

	employerUser := database.User{Email: "builds@example.sl", Role: database.RoleEmployer, Name: "Freetown Builds"}
	if err := db.Create(&employerUser).Error; err != nil {
		t.Fatal(err)
	}
	employer := database.EmployerProfile{UserID: employerUser.ID, Name: employerUser.Name}
	if err := db.Create(&employer).Error; err != nil {
		t.Fatal(err)
	}
	job := database.Job{
		EmployerProfileID: employer.ID,
		Title:             "Data Entry Clerk",
		Description:       "Enter survey data for our Freetown field office.",
		Type:              jobs.TypePartTime,
		Status:            jobs.StatusOpen,
	}
	if err := db.Create(&job).Error; err != nil {
		t.Fatal(err)
	}

	seekerUser := database.User{Email: "aminata@example.sl", Role: database.RoleSeeker}
	if err := db.Create(&seekerUser).Error; err != nil {
		t.Fatal(err)
	}
	seeker := database.SeekerProfile{UserID: seekerUser.ID, FirstName: "Aminata", LastName: "Kamara"}
	if err := db.Create(&seeker).Error; err != nil {
		t.Fatal(err)
	}

	cv := uint(1)
	app := database.Application{
		JobID:           job.ID,
		SeekerProfileID: seeker.ID,
		CVFileID:        &cv,
		Status:          database.ApplicationSubmitted,
	}
	if err := db.Create(&app).Error; err != nil {
		t.Fatal(err)
	}
	return app, employerUser.ID
}

func TestApplicationTask_NotifiesEmployer(t *testing.T) {
	db := newTestDB(t)
	app, employerUserID := seedApplication(t, db)
	publisher := newFakePublisher()
	h := &ApplicationTaskHandler{db: db, redisClient: publisher, logger: discardLogger()}

	task, err := tasks.NewApplicationSubmittedTask(app.ID, 99, "corr-1")
	if err != nil {
		t.Fatal(err)
	}
	if err := h.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("ProcessTask: %v", err)
	}

	raw := publisher.single(t, fmt.Sprintf("user_notify:%d", employerUserID))
	var msg ApplicationNotifyMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Event != eventApplicationSubmitted || msg.ApplicationID != app.ID {
		t.Fatalf("message = %+v", msg)
	}
	if msg.ErrorCode != errcode.OK {
		t.Fatalf("error code = %d", msg.ErrorCode)
	}
	if msg.ApplicantName != "Aminata Kamara" {
		t.Fatalf("applicant name = %q", msg.ApplicantName)
	}
}

func TestApplicationTask_MissingRecordNotifiesActor(t *testing.T) {
	db := newTestDB(t)
	publisher := newFakePublisher()
	h := &ApplicationTaskHandler{db: db, redisClient: publisher, logger: discardLogger()}

	task, err := tasks.NewApplicationSubmittedTask(12345, 7, "corr-2")
	if err != nil {
		t.Fatal(err)
	}
	if err := h.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("missing record must not fail the task: %v", err)
	}

	raw := publisher.single(t, "user_notify:7")
	var msg ApplicationNotifyMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatal(err)
	}
	if msg.ErrorCode != errcode.ResourceMissing {
		t.Fatalf("error code = %d, want %d", msg.ErrorCode, errcode.ResourceMissing)
	}
	if msg.ApplicationID != 12345 || msg.CorrelationID != "corr-2" {
		t.Fatalf("message = %+v", msg)
	}
}

func TestRecruitTask_MissingRecordNotifiesActor(t *testing.T) {
	db := newTestDB(t)
	publisher := newFakePublisher()
	h := &RecruitTaskHandler{db: db, redisClient: publisher, logger: discardLogger()}

	task, err := tasks.NewRecruitInviteTask(54321, 11, "corr-3")
	if err != nil {
		t.Fatal(err)
	}
	if err := h.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("missing record must not fail the task: %v", err)
	}

	raw := publisher.single(t, "user_notify:11")
	var msg RecruitNotifyMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatal(err)
	}
	if msg.ErrorCode != errcode.ResourceMissing || msg.InviteID != 54321 {
		t.Fatalf("message = %+v", msg)
	}
}
