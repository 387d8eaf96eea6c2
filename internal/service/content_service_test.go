package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lpk-cms-api/internal/models"
	appErrors "github.com/noah-isme/lpk-cms-api/pkg/errors"
)

type memoryCache struct {
	entries map[string][]byte
	deleted []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCache) DeleteByPattern(_ context.Context, pattern string) error {
	m.deleted = append(m.deleted, pattern)
	for key := range m.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.entries, key)
		}
	}
	return nil
}

type fakeProgramRepo struct {
	programs      map[int64]*models.Program
	listCalls     int
	registrations map[int64]int
	nextID        int64
}

func (f *fakeProgramRepo) List(_ context.Context, _ models.ProgramFilter) ([]models.Program, int, error) {
	f.listCalls++
	out := make([]models.Program, 0, len(f.programs))
	for _, p := range f.programs {
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (f *fakeProgramRepo) FindByID(_ context.Context, id int64) (*models.Program, error) {
	p, ok := f.programs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProgramRepo) Create(_ context.Context, p *models.Program) error {
	f.nextID++
	p.ID = f.nextID
	cp := *p
	f.programs[p.ID] = &cp
	return nil
}

func (f *fakeProgramRepo) Update(_ context.Context, p *models.Program) error {
	cp := *p
	f.programs[p.ID] = &cp
	return nil
}

func (f *fakeProgramRepo) Delete(_ context.Context, id int64) error {
	delete(f.programs, id)
	return nil
}

func (f *fakeProgramRepo) CountRegistrations(_ context.Context, id int64) (int, error) {
	return f.registrations[id], nil
}

func TestProgramCreateDefaultsAndValidation(t *testing.T) {
	repo := &fakeProgramRepo{programs: map[int64]*models.Program{}}
	svc := NewProgramService(repo, nil, nil, nil)

	_, err := svc.Create(context.Background(), CreateProgramRequest{Title: "Caregiver"})
	assert.Equal(t, "INVALID_DESCRIPTION", appErrors.FromError(err).Code)

	program, err := svc.Create(context.Background(), CreateProgramRequest{
		Title: "Caregiver", Description: "Care work", Duration: "6 months", Requirements: "SMA", Benefits: "Placement",
	})
	require.NoError(t, err)
	assert.True(t, program.IsActive)
	assert.Nil(t, program.ImageURL)
}

func TestProgramListIsCachedUntilMutation(t *testing.T) {
	repo := &fakeProgramRepo{programs: map[int64]*models.Program{1: {ID: 1, Title: "Welding"}}, nextID: 1}
	store := newMemoryCache()
	cache := NewCacheService(store, nil, time.Minute, nil, true)
	svc := NewProgramService(repo, cache, nil, nil)

	for i := 0; i < 2; i++ {
		items, page, err := svc.List(context.Background(), models.ProgramFilter{})
		require.NoError(t, err)
		assert.Len(t, items, 1)
		assert.Equal(t, 1, page.Total)
	}
	assert.Equal(t, 1, repo.listCalls)

	title := "Welding Advanced"
	_, err := svc.Update(context.Background(), 1, UpdateProgramRequest{Title: &title})
	require.NoError(t, err)
	assert.Contains(t, store.deleted, "programs:*")

	items, _, err := svc.List(context.Background(), models.ProgramFilter{})
	require.NoError(t, err)
	assert.Equal(t, "Welding Advanced", items[0].Title)
	assert.Equal(t, 2, repo.listCalls)
}

func TestProgramDeleteBlockedByRegistrations(t *testing.T) {
	repo := &fakeProgramRepo{
		programs:      map[int64]*models.Program{1: {ID: 1, Title: "Welding"}, 2: {ID: 2, Title: "Farming"}},
		registrations: map[int64]int{1: 3},
	}
	svc := NewProgramService(repo, nil, nil, nil)

	_, err := svc.Delete(context.Background(), 1)
	assert.Equal(t, "HAS_REGISTRATIONS", appErrors.FromError(err).Code)
	assert.Contains(t, repo.programs, int64(1))

	deleted, err := svc.Delete(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Farming", deleted.Title)

	_, err = svc.Delete(context.Background(), 2)
	assert.Equal(t, "PROGRAM_NOT_FOUND", appErrors.FromError(err).Code)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello World":                      "hello-world",
		"  Pelatihan Bahasa Jepang 2024! ": "pelatihan-bahasa-jepang-2024",
		"snake_case -- and   spaces":       "snake-case-and-spaces",
		"--Trim me--":                      "trim-me",
		"!!!":                              "",
		"Open House: Batch #3":             "open-house-batch-3",
		"a!b & c":                          "ab-c",
		"Kursus Café\tTokyo":               "kursus-caf-tokyo",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

type fakeNewsRepo struct {
	items  map[int64]*models.News
	nextID int64
}

func (f *fakeNewsRepo) List(context.Context, models.NewsFilter) ([]models.News, int, error) {
	return nil, 0, nil
}

func (f *fakeNewsRepo) FindByID(_ context.Context, id int64) (*models.News, error) {
	n, ok := f.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *n
	return &cp, nil
}

func (f *fakeNewsRepo) FindBySlug(_ context.Context, slug string) (*models.News, error) {
	for _, n := range f.items {
		if n.Slug == slug {
			cp := *n
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeNewsRepo) ExistsBySlug(_ context.Context, slug string, excludeID int64) (bool, error) {
	for _, n := range f.items {
		if n.Slug == slug && n.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeNewsRepo) Create(_ context.Context, n *models.News) error {
	f.nextID++
	n.ID = f.nextID
	cp := *n
	f.items[n.ID] = &cp
	return nil
}

func (f *fakeNewsRepo) Update(_ context.Context, n *models.News) error {
	cp := *n
	f.items[n.ID] = &cp
	return nil
}

func (f *fakeNewsRepo) Delete(_ context.Context, id int64) error {
	delete(f.items, id)
	return nil
}

func TestNewsCreateDerivesSlugAndRejectsDuplicates(t *testing.T) {
	repo := &fakeNewsRepo{items: map[int64]*models.News{}}
	svc := NewNewsService(repo, nil, nil)
	publishedAt := "2024-05-01T08:00:00+07:00"

	req := CreateNewsRequest{Title: "Batch 12 Departs!", Content: "c", Excerpt: "e", Category: "event", PublishedAt: &publishedAt}
	item, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "batch-12-departs", item.Slug)
	require.NotNil(t, item.PublishedAt)
	assert.Equal(t, time.Date(2024, 5, 1, 1, 0, 0, 0, time.UTC), *item.PublishedAt)

	_, err = svc.Create(context.Background(), req)
	assert.Equal(t, "DUPLICATE_SLUG", appErrors.FromError(err).Code)

	found, err := svc.GetBySlug(context.Background(), "batch-12-departs")
	require.NoError(t, err)
	assert.Equal(t, item.ID, found.ID)

	_, err = svc.GetBySlug(context.Background(), "missing")
	assert.Equal(t, "NEWS_NOT_FOUND", appErrors.FromError(err).Code)

	bad := "yesterday"
	_, err = svc.Update(context.Background(), item.ID, UpdateNewsRequest{PublishedAt: &bad})
	assert.Equal(t, "INVALID_PUBLISHED_AT", appErrors.FromError(err).Code)

	empty := ""
	updated, err := svc.Update(context.Background(), item.ID, UpdateNewsRequest{PublishedAt: &empty})
	require.NoError(t, err)
	assert.Nil(t, updated.PublishedAt)
}

func TestNewsCreateRequiresFields(t *testing.T) {
	svc := NewNewsService(&fakeNewsRepo{items: map[int64]*models.News{}}, nil, nil)
	_, err := svc.Create(context.Background(), CreateNewsRequest{Title: "t", Content: "c", Excerpt: "e"})
	assert.Equal(t, "MISSING_CATEGORY", appErrors.FromError(err).Code)

	_, err = svc.Create(context.Background(), CreateNewsRequest{Title: "???", Content: "c", Excerpt: "e", Category: "x"})
	assert.Equal(t, "INVALID_SLUG", appErrors.FromError(err).Code)
}

type fakeSettingRepo struct {
	settings map[int64]*models.SiteSetting
	nextID   int64
}

func (f *fakeSettingRepo) List(context.Context) ([]models.SiteSetting, error) {
	out := make([]models.SiteSetting, 0, len(f.settings))
	for _, s := range f.settings {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeSettingRepo) FindByID(_ context.Context, id int64) (*models.SiteSetting, error) {
	s, ok := f.settings[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSettingRepo) FindByKey(_ context.Context, key string) (*models.SiteSetting, error) {
	for _, s := range f.settings {
		if s.Key == key {
			cp := *s
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeSettingRepo) ExistsByKey(_ context.Context, key string, excludeID int64) (bool, error) {
	for _, s := range f.settings {
		if s.Key == key && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSettingRepo) Create(_ context.Context, s *models.SiteSetting) error {
	f.nextID++
	s.ID = f.nextID
	cp := *s
	f.settings[s.ID] = &cp
	return nil
}

func (f *fakeSettingRepo) Update(_ context.Context, s *models.SiteSetting) error {
	cp := *s
	f.settings[s.ID] = &cp
	return nil
}

func (f *fakeSettingRepo) Delete(_ context.Context, id int64) error {
	delete(f.settings, id)
	return nil
}

func TestSiteSettingRefs(t *testing.T) {
	repo := &fakeSettingRepo{settings: map[int64]*models.SiteSetting{}}
	svc := NewSiteSettingService(repo, nil, nil)
	ctx := context.Background()

	phone, err := svc.Create(ctx, CreateSiteSettingRequest{Key: "phone", Value: "021-555"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateSiteSettingRequest{Key: "email", Value: "info@lpk.id"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateSiteSettingRequest{Key: "phone", Value: "x"})
	assert.Equal(t, "DUPLICATE_KEY", appErrors.FromError(err).Code)

	byKey, err := svc.Get(ctx, SettingRef{Key: "phone"})
	require.NoError(t, err)
	assert.Equal(t, phone.ID, byKey.ID)

	_, err = svc.Get(ctx, SettingRef{})
	assert.Equal(t, "MISSING_IDENTIFIER", appErrors.FromError(err).Code)

	_, err = svc.Update(ctx, SettingRef{ID: &phone.ID}, UpdateSiteSettingRequest{})
	assert.Equal(t, "NO_UPDATE_FIELDS", appErrors.FromError(err).Code)

	taken := "email"
	_, err = svc.Update(ctx, SettingRef{ID: &phone.ID}, UpdateSiteSettingRequest{Key: &taken})
	assert.Equal(t, "DUPLICATE_KEY", appErrors.FromError(err).Code)

	value := "021-777"
	updated, err := svc.Update(ctx, SettingRef{Key: "phone"}, UpdateSiteSettingRequest{Value: &value})
	require.NoError(t, err)
	assert.Equal(t, "021-777", updated.Value)

	_, err = svc.Delete(ctx, SettingRef{Key: "fax"})
	assert.Equal(t, "SETTING_NOT_FOUND", appErrors.FromError(err).Code)
}
