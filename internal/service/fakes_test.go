package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"citadel/internal/model"
	"citadel/internal/repository"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeUserRepo struct {
	repository.UserRepository
	users map[string]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*model.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetUserByStripeCustomerID(_ context.Context, customerID string) (*model.User, error) {
	for _, u := range r.users {
		if u.StripeCustomerID != nil && *u.StripeCustomerID == customerID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) UpdateTheme(_ context.Context, id, theme string) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.Theme = theme
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdateStripeInfo(_ context.Context, id, customerID, subscriptionID string) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.StripeCustomerID = &customerID
	u.StripeSubscriptionID = &subscriptionID
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdateSubscriptionStatus(_ context.Context, id, status string) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.SubscriptionStatus = status
	return nil
}

type fakeContentRepo struct {
	repository.ContentRepository
	entries []model.ContentEntry
	nextID  int64
}

func (r *fakeContentRepo) CreateEntry(_ context.Context, e *model.ContentEntry) error {
	r.nextID++
	e.ID = r.nextID
	e.CreatedAt = time.Now()
	r.entries = append(r.entries, *e)
	return nil
}

func (r *fakeContentRepo) GetEntriesForUser(_ context.Context, userID, category string) ([]model.ContentEntry, error) {
	out := []model.ContentEntry{}
	for _, e := range r.entries {
		if e.UserID == userID && (category == "" || e.Category == category) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeContentRepo) GetEntryByID(_ context.Context, id int64) (*model.ContentEntry, error) {
	for _, e := range r.entries {
		if e.ID == id {
			cp := e
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeActivityRepo struct {
	repository.ActivityRepository
	rows      []model.ActivityLog
	lastLimit int
	err       error
}

func (r *fakeActivityRepo) CreateActivity(_ context.Context, a *model.ActivityLog) error {
	if r.err != nil {
		return r.err
	}
	r.rows = append(r.rows, *a)
	return nil
}

func (r *fakeActivityRepo) GetActivityForUser(_ context.Context, _ string, limit int) ([]model.ActivityLog, error) {
	r.lastLimit = limit
	return r.rows, nil
}

type fakeStatsRepo struct {
	repository.StatsRepository
	stats map[string]*model.UserStats
	err   error
}

func newFakeStatsRepo() *fakeStatsRepo {
	return &fakeStatsRepo{stats: map[string]*model.UserStats{}}
}

func (r *fakeStatsRepo) GetUserStats(_ context.Context, userID string) (*model.UserStats, error) {
	st, ok := r.stats[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *st
	return &cp, nil
}

func (r *fakeStatsRepo) IncrementUserStats(_ context.Context, userID string, d model.UserStatsDelta) (*model.UserStats, error) {
	if r.err != nil {
		return nil, r.err
	}
	st, ok := r.stats[userID]
	if !ok {
		st = &model.UserStats{UserID: userID}
		r.stats[userID] = st
	}
	st.TotalEntries += d.TotalEntries
	st.HoursStudied += d.HoursStudied
	st.ActiveRituals += d.ActiveRituals
	st.Connections += d.Connections
	cp := *st
	return &cp, nil
}

// fakeTransactor runs fn over the fake repositories and restores their
// contents when fn fails.
type fakeTransactor struct {
	content   *fakeContentRepo
	activity  *fakeActivityRepo
	stats     *fakeStatsRepo
	commits   int
	rollbacks int
}

func (t *fakeTransactor) InTx(_ context.Context, fn func(tx *repository.Store) error) error {
	entries, nextID := append([]model.ContentEntry(nil), t.content.entries...), t.content.nextID
	rows := append([]model.ActivityLog(nil), t.activity.rows...)
	stats := make(map[string]*model.UserStats, len(t.stats.stats))
	for k, v := range t.stats.stats {
		cp := *v
		stats[k] = &cp
	}

	if err := fn(&repository.Store{Content: t.content, Activity: t.activity, Stats: t.stats}); err != nil {
		t.content.entries, t.content.nextID = entries, nextID
		t.activity.rows = rows
		t.stats.stats = stats
		t.rollbacks++
		return err
	}
	t.commits++
	return nil
}

type fakeIntegrationRepo struct {
	repository.IntegrationRepository
	rows map[string]model.Integration
}

func (r *fakeIntegrationRepo) UpsertIntegration(_ context.Context, in *model.Integration) error {
	if r.rows == nil {
		r.rows = map[string]model.Integration{}
	}
	key := in.UserID + "/" + in.Platform
	if existing, ok := r.rows[key]; ok {
		in.ID = existing.ID
	} else {
		in.ID = int64(len(r.rows) + 1)
	}
	r.rows[key] = *in
	return nil
}

type fakeSecrets struct {
	stored  map[string]string
	deleted []string
}

func (f *fakeSecrets) StoreUserAPIKey(_ context.Context, userID, platform, apiKey string) error {
	if f.stored == nil {
		f.stored = map[string]string{}
	}
	f.stored[SecretName(userID, platform)] = apiKey
	return nil
}

func (f *fakeSecrets) GetUserAPIKey(_ context.Context, userID, platform string) (string, error) {
	k, ok := f.stored[SecretName(userID, platform)]
	if !ok {
		return "", errors.New("not found")
	}
	return k, nil
}

func (f *fakeSecrets) DeleteUserAPIKey(_ context.Context, userID, platform string) error {
	f.deleted = append(f.deleted, SecretName(userID, platform))
	delete(f.stored, SecretName(userID, platform))
	return nil
}

type fakeGateway struct {
	customers     int
	subscriptions int
	lastPrice     string
}

func (g *fakeGateway) CreateCustomer(_ context.Context, _, _, _ string) (string, error) {
	g.customers++
	return "cus_test", nil
}

func (g *fakeGateway) CreateSubscription(_ context.Context, _, priceID, _ string) (*SubscriptionIntent, error) {
	g.subscriptions++
	g.lastPrice = priceID
	return &SubscriptionIntent{SubscriptionID: "sub_test", ClientSecret: "pi_secret"}, nil
}

func (g *fakeGateway) GetSubscription(_ context.Context, id string) (*SubscriptionIntent, error) {
	return &SubscriptionIntent{SubscriptionID: id, ClientSecret: "pi_secret"}, nil
}

// recordingPublisher satisfies pubsub.Publisher.
type recordingPublisher struct {
	mu       sync.Mutex
	topics   []string
	payloads [][]byte
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, payload []byte) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return "", p.err
	}
	p.topics = append(p.topics, topic)
	p.payloads = append(p.payloads, payload)
	return "msg-1", nil
}

type fakePresigner struct {
	lastInput *s3.PutObjectInput
}

func (f *fakePresigner) PresignPutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	f.lastInput = params
	return &v4.PresignedHTTPRequest{URL: "https://s3.test/" + *params.Key + "?X-Amz-Signature=abc", Method: "PUT"}, nil
}
