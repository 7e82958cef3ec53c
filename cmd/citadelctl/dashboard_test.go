package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"citadel/internal/agenda"
	"citadel/internal/client"
	"citadel/internal/model"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDashboard(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first := "Marcus"
	desc := `Added "Meditations" to literature`
	d := &dashboard{
		User: &model.User{ID: "u1", FirstName: &first, SubscriptionStatus: model.SubscriptionPremium},
		Upcoming: []agenda.Classified{
			{Reminder: model.Reminder{Title: "Journal", DueDate: now.Add(-30 * time.Minute)}, Urgency: agenda.UrgencyCritical},
			{Reminder: model.Reminder{Title: "Read", DueDate: now.Add(5 * time.Hour)}, Urgency: agenda.UrgencyWarning},
		},
		Counts:   map[string]int{"literature": 2, "rituals": 0, "aesthetics": 1, "music": 0},
		Activity: []model.ActivityLog{{Action: model.ActionContentCreated, Description: &desc, CreatedAt: now}},
	}

	var buf bytes.Buffer
	renderDashboard(&buf, d, now)
	out := buf.String()

	assert.Contains(t, out, "Citadel: Marcus (premium)")
	assert.Contains(t, out, "overdue by 30m0s")
	assert.Contains(t, out, "in 5h0m0s")
	assert.Contains(t, out, "critical")
	assert.Regexp(t, `literature\s+2`, out)
	assert.Contains(t, out, desc)
}

func TestLoadDashboardThroughClient(t *testing.T) {
	now := time.Now()
	mux := http.NewServeMux()
	write := func(w http.ResponseWriter, v any) { _ = json.NewEncoder(w).Encode(v) }
	mux.HandleFunc("GET /api/auth/user", func(w http.ResponseWriter, r *http.Request) {
		write(w, model.User{ID: "u1"})
	})
	mux.HandleFunc("GET /api/reminders", func(w http.ResponseWriter, r *http.Request) {
		write(w, []model.Reminder{{Title: "Read", DueDate: now.Add(time.Hour)}})
	})
	mux.HandleFunc("GET /api/content", func(w http.ResponseWriter, r *http.Request) {
		write(w, []model.ContentEntry{{Category: "music"}})
	})
	mux.HandleFunc("GET /api/activity", func(w http.ResponseWriter, r *http.Request) {
		write(w, []model.ActivityLog{})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cmd := &cobra.Command{}
	cmd.SetContext(t.Context())
	d, err := loadDashboard(cmd, client.New(srv.URL, ""), now)
	require.NoError(t, err)
	require.Len(t, d.Upcoming, 1)
	assert.Equal(t, agenda.UrgencyCritical, d.Upcoming[0].Urgency)
	assert.Equal(t, 1, d.Counts["music"])
}

func TestGrantRoleRejectsUnknownRole(t *testing.T) {
	cmd := newGrantRoleCmd(testLogger())
	cmd.SetArgs([]string{"u1", "owner"})
	cmd.SetOut(&bytes.Buffer{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "role must be")
}

func testLogger() zerolog.Logger { return zerolog.Nop() }
