package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lpk-cms-api/internal/models"
	"github.com/noah-isme/lpk-cms-api/internal/service"
)

type settingStore struct {
	rows []models.SiteSetting
}

func (s *settingStore) List(context.Context) ([]models.SiteSetting, error) {
	return s.rows, nil
}

func (s *settingStore) FindByID(_ context.Context, id int64) (*models.SiteSetting, error) {
	for i := range s.rows {
		if s.rows[i].ID == id {
			row := s.rows[i]
			return &row, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *settingStore) FindByKey(_ context.Context, key string) (*models.SiteSetting, error) {
	for i := range s.rows {
		if s.rows[i].Key == key {
			row := s.rows[i]
			return &row, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *settingStore) ExistsByKey(_ context.Context, key string, excludeID int64) (bool, error) {
	for _, row := range s.rows {
		if row.Key == key && row.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *settingStore) Create(_ context.Context, setting *models.SiteSetting) error {
	setting.ID = int64(len(s.rows) + 1)
	s.rows = append(s.rows, *setting)
	return nil
}

func (s *settingStore) Update(_ context.Context, setting *models.SiteSetting) error {
	for i := range s.rows {
		if s.rows[i].ID == setting.ID {
			s.rows[i] = *setting
		}
	}
	return nil
}

func (s *settingStore) Delete(_ context.Context, id int64) error {
	for i := range s.rows {
		if s.rows[i].ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func settingRouter(store *settingStore) *gin.Engine {
	h := NewSiteSettingHandler(service.NewSiteSettingService(store, nil, nil))
	return testRouter(nil, func(r *gin.Engine) {
		r.GET("/site-settings", h.List)
		r.GET("/site-settings/:ref", h.Get)
		r.POST("/site-settings", h.Create)
		r.PUT("/site-settings/:ref", h.Update)
		r.DELETE("/site-settings/:ref", h.Delete)
	})
}

func TestSiteSettingHandlerResolvesIDOrKey(t *testing.T) {
	store := &settingStore{rows: []models.SiteSetting{{ID: 1, Key: "phone", Value: "021-555"}, {ID: 2, Key: "email", Value: "info@lpk.id"}}}
	router := settingRouter(store)

	for _, target := range []string{"/site-settings/2", "/site-settings/email", "/site-settings?key=email"} {
		rec := perform(router, http.MethodGet, target, "")
		require.Equal(t, http.StatusOK, rec.Code, target)
		var got models.SiteSetting
		require.NoError(t, json.Unmarshal(decode(t, rec).Data, &got))
		assert.Equal(t, "info@lpk.id", got.Value, target)
	}

	rec := perform(router, http.MethodGet, "/site-settings/fax", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "SETTING_NOT_FOUND", errorCode(t, rec))
}

func TestSiteSettingHandlerMutations(t *testing.T) {
	store := &settingStore{rows: []models.SiteSetting{{ID: 1, Key: "phone", Value: "021-555"}}}
	router := settingRouter(store)

	rec := perform(router, http.MethodPost, "/site-settings", `{"key":"phone","value":"x"}`)
	assert.Equal(t, "DUPLICATE_KEY", errorCode(t, rec))

	rec = perform(router, http.MethodPut, "/site-settings/phone", `{"value":"021-777"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "021-777", store.rows[0].Value)

	rec = perform(router, http.MethodDelete, "/site-settings/phone", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Site setting deleted successfully")
	assert.Empty(t, store.rows)
}
