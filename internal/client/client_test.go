package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"skillshub/internal/errcode"
)

func TestClient_DecodesErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"title must be at least 3 characters","kind":"validation","fields":{"title":"title must be at least 3 characters"}}`))
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.GetJob(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error")
	}

	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("err type %T", err)
	}
	if apiErr.Kind != errcode.KindValidation || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("apiErr = %+v", apiErr)
	}
	if apiErr.Fields["title"] == "" {
		t.Fatalf("fields = %v", apiErr.Fields)
	}
	if !IsKind(err, errcode.KindValidation) {
		t.Fatal("IsKind mismatch")
	}
}

func TestClient_FallsBackToStatusKind(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "plain not found", http.StatusNotFound)
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.GetJob(context.Background(), 42)
	if !IsKind(err, errcode.KindNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestClient_NetworkFailureIsKindNetwork(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // 立即关掉，连接必然失败

	c := New(server.URL)
	_, err := c.GetJob(context.Background(), 1)
	if !IsKind(err, errcode.KindNetwork) {
		t.Fatalf("err = %v", err)
	}
}

func TestClient_SendsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"jobs":[]}`))
	}))
	defer server.Close()

	c := New(server.URL, WithTokenProvider(func() string { return "token-123" }))
	if _, err := c.ListRecommendedJobs(context.Background()); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer token-123" {
		t.Fatalf("auth header = %q", gotAuth)
	}
}

func TestClient_DecodesJobPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/jobs/7" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": 7, "title": "Data Entry Clerk", "type": "PART_TIME", "status": "OPEN",
			"hoursPerWeek": "20", "projectDuration": null,
			"skills": [{"id":1,"slug":"excel","name":"Microsoft Excel","required":true}],
			"employer": {"id":3,"name":"Salone Builds Ltd","verified":true}
		}`))
	}))
	defer server.Close()

	c := New(server.URL)
	job, err := c.GetJob(context.Background(), 7)
	if err != nil {
		t.Fatal(err)
	}
	if job.HoursPerWeek == nil || *job.HoursPerWeek != "20" {
		t.Fatalf("hoursPerWeek = %v", job.HoursPerWeek)
	}
	if job.ProjectDuration != nil {
		t.Fatalf("projectDuration = %v", job.ProjectDuration)
	}
	if len(job.Skills) != 1 || !job.Skills[0].Required {
		t.Fatalf("skills = %+v", job.Skills)
	}
	if !job.Employer.Verified {
		t.Fatal("employer.verified lost")
	}
}
