package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"citadel/internal/agenda"
	"citadel/internal/api/v1/dto"
	"citadel/internal/middleware"
	"citadel/internal/model"
	"citadel/internal/repository"
	"citadel/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
)

const testUserHeader = "X-Test-User"

// fakeAuth stands in for middleware.Authenticate.
func fakeAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(testUserHeader)
		if id == "" {
			writeMessage(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r.WithContext(middleware.WithUserID(r.Context(), id)))
	})
}

func passthrough(next http.Handler) http.Handler { return next }

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func do(t *testing.T, h http.Handler, method, path, user, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if user != "" {
		req.Header.Set(testUserHeader, user)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type fakeContentService struct {
	service.ContentService
	owners   map[int64]string
	created  *model.ContentEntry
	updated  int64
	deleted  int64
	listArgs [2]string
}

func (f *fakeContentService) OwnerOf(_ context.Context, id int64) (string, error) {
	owner, ok := f.owners[id]
	if !ok {
		return "", repository.ErrNotFound
	}
	return owner, nil
}

func (f *fakeContentService) List(_ context.Context, userID, category string) ([]model.ContentEntry, error) {
	f.listArgs = [2]string{userID, category}
	return []model.ContentEntry{}, nil
}

func (f *fakeContentService) Create(_ context.Context, e *model.ContentEntry) error {
	e.ID = 7
	f.created = e
	return nil
}

func (f *fakeContentService) Update(_ context.Context, id int64, _ model.ContentEntryPatch) (*model.ContentEntry, error) {
	f.updated = id
	return &model.ContentEntry{ID: id}, nil
}

func (f *fakeContentService) Delete(_ context.Context, id int64) error {
	f.deleted = id
	return nil
}

func contentMux(svc *fakeContentService) *http.ServeMux {
	mux := http.NewServeMux()
	NewContentHandler(svc, newValidator(), zerolog.Nop()).RegisterRoutes(mux, fakeAuth)
	return mux
}

func TestContentRequiresAuth(t *testing.T) {
	rec := do(t, contentMux(&fakeContentService{}), http.MethodGet, "/api/content", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Unauthorized"}`, rec.Body.String())
}

func TestContentListByCategory(t *testing.T) {
	svc := &fakeContentService{}
	mux := contentMux(svc)

	rec := do(t, mux, http.MethodGet, "/api/content/music", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, [2]string{"u1", "music"}, svc.listArgs)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, mux, http.MethodGet, "/api/content/poetry", "u1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContentCreateValidation(t *testing.T) {
	rec := do(t, contentMux(&fakeContentService{}), http.MethodPost, "/api/content", "u1",
		`{"title":"","category":"sculpture"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body dto.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Invalid input", body.Message)
	fields := map[string]string{}
	for _, fe := range body.Errors {
		fields[fe.Field] = fe.Tag
	}
	assert.Equal(t, "required", fields["Title"])
	assert.Equal(t, "oneof", fields["Category"])
}

func TestContentCreateAssignsCaller(t *testing.T) {
	svc := &fakeContentService{}
	rec := do(t, contentMux(svc), http.MethodPost, "/api/content", "u1",
		`{"title":"Meditations","category":"literature","userId":"someone-else"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.created)
	assert.Equal(t, "u1", svc.created.UserID)
	assert.Equal(t, []string{}, svc.created.Tags)
}

func TestContentOwnership(t *testing.T) {
	svc := &fakeContentService{owners: map[int64]string{1: "u1"}}
	mux := contentMux(svc)

	assert.Equal(t, http.StatusForbidden, do(t, mux, http.MethodDelete, "/api/content/1", "u2", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, mux, http.MethodDelete, "/api/content/99", "u1", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodDelete, "/api/content/abc", "u1", "").Code)
	assert.Zero(t, svc.deleted)

	rec := do(t, mux, http.MethodDelete, "/api/content/1", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Content deleted successfully"}`, rec.Body.String())
	assert.Equal(t, int64(1), svc.deleted)
}

type fakeReminderService struct {
	service.ReminderService
	filter  agenda.StatusFilter
	n       int
	owners  map[int64]string
	updated int64
	deleted int64
}

func (f *fakeReminderService) OwnerOf(_ context.Context, id int64) (string, error) {
	owner, ok := f.owners[id]
	if !ok {
		return "", repository.ErrNotFound
	}
	return owner, nil
}

func (f *fakeReminderService) Update(_ context.Context, id int64, _ model.ReminderPatch) (*model.Reminder, error) {
	f.updated = id
	return &model.Reminder{ID: id}, nil
}

func (f *fakeReminderService) Delete(_ context.Context, id int64) error {
	f.deleted = id
	return nil
}

func (f *fakeReminderService) List(_ context.Context, _ string, filter agenda.StatusFilter) ([]model.Reminder, error) {
	f.filter = filter
	return []model.Reminder{}, nil
}

func (f *fakeReminderService) Upcoming(_ context.Context, _ string, n int, _ time.Time) ([]agenda.Classified, error) {
	f.n = n
	return []agenda.Classified{}, nil
}

func TestReminderQueryParams(t *testing.T) {
	svc := &fakeReminderService{}
	mux := http.NewServeMux()
	NewReminderHandler(svc, newValidator(), zerolog.Nop()).RegisterRoutes(mux, fakeAuth)

	require.Equal(t, http.StatusOK, do(t, mux, http.MethodGet, "/api/reminders?status=completed", "u1", "").Code)
	assert.Equal(t, agenda.FilterCompleted, svc.filter)

	require.Equal(t, http.StatusOK, do(t, mux, http.MethodGet, "/api/reminders/upcoming", "u1", "").Code)
	assert.Equal(t, agenda.UpcomingLimit, svc.n)

	rec := do(t, mux, http.MethodPost, "/api/reminders", "u1", `{"title":"Read","type":"hourly"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "DueDate")
}

func TestContentUpdateOwnership(t *testing.T) {
	svc := &fakeContentService{owners: map[int64]string{1: "u1"}}
	mux := contentMux(svc)
	body := `{"title":"Letters"}`

	assert.Equal(t, http.StatusForbidden, do(t, mux, http.MethodPut, "/api/content/1", "u2", body).Code)
	assert.Equal(t, http.StatusNotFound, do(t, mux, http.MethodPut, "/api/content/99", "u1", body).Code)
	assert.Zero(t, svc.updated)

	require.Equal(t, http.StatusOK, do(t, mux, http.MethodPut, "/api/content/1", "u1", body).Code)
	assert.Equal(t, int64(1), svc.updated)
}

func TestReminderOwnership(t *testing.T) {
	svc := &fakeReminderService{owners: map[int64]string{5: "u1"}}
	mux := http.NewServeMux()
	NewReminderHandler(svc, newValidator(), zerolog.Nop()).RegisterRoutes(mux, fakeAuth)
	body := `{"isCompleted":true}`

	assert.Equal(t, http.StatusForbidden, do(t, mux, http.MethodPut, "/api/reminders/5", "u2", body).Code)
	assert.Equal(t, http.StatusNotFound, do(t, mux, http.MethodPut, "/api/reminders/6", "u1", body).Code)
	assert.Equal(t, http.StatusForbidden, do(t, mux, http.MethodDelete, "/api/reminders/5", "u2", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, mux, http.MethodDelete, "/api/reminders/6", "u1", "").Code)
	assert.Zero(t, svc.updated)
	assert.Zero(t, svc.deleted)

	require.Equal(t, http.StatusOK, do(t, mux, http.MethodPut, "/api/reminders/5", "u1", body).Code)
	assert.Equal(t, int64(5), svc.updated)

	rec := do(t, mux, http.MethodDelete, "/api/reminders/5", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Reminder deleted successfully"}`, rec.Body.String())
	assert.Equal(t, int64(5), svc.deleted)
}

type fakeUserService struct {
	service.UserService
	users map[string]*model.User
}

func (f *fakeUserService) Get(_ context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, service.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserService) UpdateTheme(_ context.Context, id, theme string) (*model.User, error) {
	u, err := f.Get(context.Background(), id)
	if err != nil {
		return nil, err
	}
	u.Theme = theme
	return u, nil
}

func TestUserEndpoints(t *testing.T) {
	svc := &fakeUserService{users: map[string]*model.User{"u1": {ID: "u1", Theme: model.DefaultTheme}}}
	mux := http.NewServeMux()
	NewUserHandler(svc, newValidator(), zerolog.Nop()).RegisterRoutes(mux, fakeAuth)

	assert.Equal(t, http.StatusNotFound, do(t, mux, http.MethodGet, "/api/auth/user", "ghost", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodPut, "/api/theme", "u1", `{"theme":"neon"}`).Code)

	rec := do(t, mux, http.MethodPut, "/api/theme", "u1", `{"theme":"modern"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"theme":"modern"}`, rec.Body.String())
}

type fakeAdminService struct {
	service.AdminService
	deleted string
}

func (f *fakeAdminService) DeleteUser(_ context.Context, id string) error {
	if id == "missing" {
		return service.ErrUserNotFound
	}
	f.deleted = id
	return nil
}

func (f *fakeAdminService) SystemStats(context.Context) (*model.SystemStats, error) {
	return &model.SystemStats{}, nil
}

func TestAdminGate(t *testing.T) {
	users := &fakeUserService{users: map[string]*model.User{
		"root": {ID: "root", Role: model.RoleAdmin},
		"u1":   {ID: "u1", Role: model.RoleUser},
	}}
	svc := &fakeAdminService{}
	mux := http.NewServeMux()
	NewAdminHandler(svc, newValidator(), zerolog.Nop()).
		RegisterRoutes(mux, fakeAuth, middleware.RequireAdmin(users, zerolog.Nop()))

	assert.Equal(t, http.StatusUnauthorized, do(t, mux, http.MethodGet, "/api/admin/stats", "", "").Code)
	assert.Equal(t, http.StatusForbidden, do(t, mux, http.MethodGet, "/api/admin/stats", "u1", "").Code)
	assert.Equal(t, http.StatusOK, do(t, mux, http.MethodGet, "/api/admin/stats", "root", "").Code)

	assert.Equal(t, http.StatusNotFound, do(t, mux, http.MethodDelete, "/api/admin/users/missing", "root", "").Code)
	require.Equal(t, http.StatusOK, do(t, mux, http.MethodDelete, "/api/admin/users/u1", "root", "").Code)
	assert.Equal(t, "u1", svc.deleted)

	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodPut, "/api/admin/users/u1/role", "root", `{"role":"owner"}`).Code)
}

type fakeBilling struct {
	service.BillingService
	createErr  error
	webhookErr error
	signature  string
}

func (f *fakeBilling) CreateSubscription(context.Context, string) (*service.SubscriptionIntent, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &service.SubscriptionIntent{SubscriptionID: "sub_1", ClientSecret: "pi_secret"}, nil
}

func (f *fakeBilling) HandleWebhook(_ context.Context, _ []byte, sig string) error {
	f.signature = sig
	return f.webhookErr
}

func (f *fakeBilling) HandleEvent(context.Context, stripe.Event) error { return nil }

func billingMux(b *fakeBilling) *http.ServeMux {
	mux := http.NewServeMux()
	NewSubscriptionHandler(b, zerolog.Nop()).RegisterRoutes(mux, fakeAuth, passthrough)
	return mux
}

func TestCreateSubscription(t *testing.T) {
	rec := do(t, billingMux(&fakeBilling{}), http.MethodPost, "/api/create-subscription", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"subscriptionId":"sub_1","clientSecret":"pi_secret"}`, rec.Body.String())

	rec = do(t, billingMux(&fakeBilling{createErr: service.ErrNoEmail}), http.MethodPost, "/api/create-subscription", "u1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"No user email on file"}`, rec.Body.String())

	rec = do(t, billingMux(&fakeBilling{createErr: errors.New("stripe down")}), http.MethodPost, "/api/create-subscription", "u1", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "stripe down")
}

func TestStripeWebhook(t *testing.T) {
	b := &fakeBilling{}
	req := httptest.NewRequest(http.MethodPost, "/api/stripe/webhook", strings.NewReader(`{}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	rec := httptest.NewRecorder()
	billingMux(b).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "t=1,v1=abc", b.signature)

	rec = do(t, billingMux(&fakeBilling{webhookErr: service.ErrInvalidSignature}), http.MethodPost, "/api/stripe/webhook", "", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type fakeIntegrationService struct {
	service.IntegrationService
	err error
}

func (f *fakeIntegrationService) Upsert(_ context.Context, in service.IntegrationInput) (*model.Integration, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.Integration{UserID: in.UserID, Platform: in.Platform, IsConnected: in.IsConnected}, nil
}

func TestIntegrationUpsert(t *testing.T) {
	mux := http.NewServeMux()
	NewIntegrationHandler(&fakeIntegrationService{err: service.ErrSecretsUnavailable}, newValidator(), zerolog.Nop()).
		RegisterRoutes(mux, fakeAuth)

	rec := do(t, mux, http.MethodPost, "/api/integrations", "u1", `{"platform":"notion","isConnected":true,"apiKey":"k"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, mux, http.MethodPost, "/api/integrations", "u1", `{"platform":"myspace","isConnected":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Platform")
}

func TestUploadDisabled(t *testing.T) {
	mux := http.NewServeMux()
	NewUploadHandler(nil, newValidator(), zerolog.Nop()).RegisterRoutes(mux, fakeAuth)

	rec := do(t, mux, http.MethodPost, "/api/uploads/images", "u1", `{"filename":"a.png"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
