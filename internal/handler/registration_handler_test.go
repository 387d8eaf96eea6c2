package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lpk-cms-api/internal/models"
	"github.com/noah-isme/lpk-cms-api/internal/service"
	appErrors "github.com/noah-isme/lpk-cms-api/pkg/errors"
	"github.com/noah-isme/lpk-cms-api/pkg/response"
)

type fakeRegistrationSrv struct {
	created      *service.CreateRegistrationRequest
	lastFilter   models.RegistrationFilter
	lastFormat   string
	lookupNumber string
	err          error
}

func (f *fakeRegistrationSrv) List(_ context.Context, filter models.RegistrationFilter) ([]models.Registration, *response.Pagination, error) {
	f.lastFilter = filter
	return []models.Registration{{ID: 1, RegistrationNumber: "REG-2024-001"}}, &response.Pagination{Limit: filter.Limit, Offset: filter.Offset, Total: 1}, f.err
}

func (f *fakeRegistrationSrv) Get(_ context.Context, id int64) (*models.Registration, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Registration{ID: id}, nil
}

func (f *fakeRegistrationSrv) Lookup(_ context.Context, number string) (*models.RegistrationStatusView, error) {
	f.lookupNumber = number
	if f.err != nil {
		return nil, f.err
	}
	return &models.RegistrationStatusView{RegistrationNumber: number, FullName: "Siti", Status: models.RegistrationStatusPending}, nil
}

func (f *fakeRegistrationSrv) Create(_ context.Context, req service.CreateRegistrationRequest) (*models.Registration, error) {
	f.created = &req
	if f.err != nil {
		return nil, f.err
	}
	return &models.Registration{ID: 1, RegistrationNumber: "REG-2024-001", FullName: req.FullName, Status: models.RegistrationStatusPending}, nil
}

func (f *fakeRegistrationSrv) Update(_ context.Context, id int64, _ service.UpdateRegistrationRequest) (*models.Registration, error) {
	return &models.Registration{ID: id}, f.err
}

func (f *fakeRegistrationSrv) Delete(_ context.Context, id int64) (*models.Registration, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Registration{ID: id, RegistrationNumber: "REG-2024-009"}, nil
}

func (f *fakeRegistrationSrv) Export(_ context.Context, filter models.RegistrationFilter, format string) (*service.ExportFile, error) {
	f.lastFilter = filter
	f.lastFormat = format
	if f.err != nil {
		return nil, f.err
	}
	return &service.ExportFile{Filename: "registrations-20240501.csv", ContentType: "text/csv", Content: []byte("a,b\n")}, nil
}

func registrationRouter(srv *fakeRegistrationSrv) *gin.Engine {
	h := NewRegistrationHandler(srv)
	return testRouter(nil, func(r *gin.Engine) {
		r.POST("/registrations", h.Create)
		r.GET("/registrations/lookup", h.Lookup)
		r.GET("/registrations/export", h.Export)
		r.GET("/registrations", h.List)
		r.GET("/registrations/:id", h.Get)
		r.DELETE("/registrations/:id", h.Delete)
	})
}

func TestRegistrationHandlerCreate(t *testing.T) {
	srv := &fakeRegistrationSrv{}
	rec := perform(registrationRouter(srv), http.MethodPost, "/registrations",
		`{"fullName":"Siti Rahma","email":"siti@example.com","programId":3,"status":"accepted"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, srv.created)
	assert.Equal(t, "Siti Rahma", srv.created.FullName)
	require.NotNil(t, srv.created.ProgramID)
	assert.Equal(t, int64(3), *srv.created.ProgramID)

	var got models.Registration
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &got))
	assert.Equal(t, "REG-2024-001", got.RegistrationNumber)
	assert.Equal(t, models.RegistrationStatusPending, got.Status)
}

func TestRegistrationHandlerCreateRejectsMalformedJSON(t *testing.T) {
	srv := &fakeRegistrationSrv{}
	rec := perform(registrationRouter(srv), http.MethodPost, "/registrations", `{"fullName":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))
	assert.Nil(t, srv.created)
}

func TestRegistrationHandlerCreatePropagatesConflict(t *testing.T) {
	srv := &fakeRegistrationSrv{err: appErrors.ErrRegistrationNumberConflict}
	rec := perform(registrationRouter(srv), http.MethodPost, "/registrations", `{"fullName":"A"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "REGISTRATION_NUMBER_CONFLICT", errorCode(t, rec))
}

func TestRegistrationHandlerLookup(t *testing.T) {
	srv := &fakeRegistrationSrv{}
	router := registrationRouter(srv)

	rec := perform(router, http.MethodGet, "/registrations/lookup", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MISSING_REGISTRATION_NUMBER", errorCode(t, rec))

	rec = perform(router, http.MethodGet, "/registrations/lookup?registration_number=REG-2024-005", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "REG-2024-005", srv.lookupNumber)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &data))
	assert.Equal(t, "pending", data["status"])
	for _, field := range []string{"email", "phone", "address", "dateOfBirth", "id"} {
		assert.NotContains(t, data, field)
	}
}

func TestRegistrationHandlerListFilters(t *testing.T) {
	srv := &fakeRegistrationSrv{}
	rec := perform(registrationRouter(srv), http.MethodGet,
		"/registrations?search=siti&status=accepted&program_id=4&limit=500&offset=-3", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "siti", srv.lastFilter.Search)
	assert.Equal(t, models.RegistrationStatusAccepted, srv.lastFilter.Status)
	require.NotNil(t, srv.lastFilter.ProgramID)
	assert.Equal(t, int64(4), *srv.lastFilter.ProgramID)
	assert.Equal(t, models.MaxListLimit, srv.lastFilter.Limit)
	assert.Equal(t, 0, srv.lastFilter.Offset)

	env := decode(t, rec)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 1, env.Pagination.Total)
}

func TestRegistrationHandlerGetInvalidID(t *testing.T) {
	for _, id := range []string{"abc", "0", "-4"} {
		rec := perform(registrationRouter(&fakeRegistrationSrv{}), http.MethodGet, "/registrations/"+id, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, id)
		assert.Equal(t, "INVALID_ID", errorCode(t, rec), id)
	}
}

func TestRegistrationHandlerGetNotFound(t *testing.T) {
	srv := &fakeRegistrationSrv{err: appErrors.Clone(appErrors.ErrNotFound, "registration not found")}
	rec := perform(registrationRouter(srv), http.MethodGet, "/registrations/12", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegistrationHandlerDeleteReturnsRecord(t *testing.T) {
	rec := perform(registrationRouter(&fakeRegistrationSrv{}), http.MethodDelete, "/registrations/9", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Message      string              `json:"message"`
		Registration models.Registration `json:"registration"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &body))
	assert.Equal(t, "Registration deleted successfully", body.Message)
	assert.Equal(t, int64(9), body.Registration.ID)
}

func TestRegistrationHandlerExport(t *testing.T) {
	srv := &fakeRegistrationSrv{}
	rec := perform(registrationRouter(srv), http.MethodGet, "/registrations/export?status=pending", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "csv", srv.lastFormat)
	assert.Equal(t, models.RegistrationStatusPending, srv.lastFilter.Status)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="registrations-20240501.csv"`)
	assert.Equal(t, "a,b\n", rec.Body.String())
}
