package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lpk-cms-api/internal/dto"
	"github.com/noah-isme/lpk-cms-api/internal/models"
	"github.com/noah-isme/lpk-cms-api/internal/service"
	appErrors "github.com/noah-isme/lpk-cms-api/pkg/errors"
)

type fakeOrganizationSrv struct {
	lastFilter models.OrganizationMemberFilter
	created    *service.CreateOrganizationMemberRequest
	updated    *service.UpdateOrganizationMemberRequest
	err        error
}

func (f *fakeOrganizationSrv) List(_ context.Context, filter models.OrganizationMemberFilter) ([]models.OrganizationMember, error) {
	f.lastFilter = filter
	return []models.OrganizationMember{}, f.err
}

func (f *fakeOrganizationSrv) Tree(context.Context) ([]*dto.OrganizationNode, error) {
	parent := int64(1)
	return []*dto.OrganizationNode{{
		OrganizationMember: models.OrganizationMember{ID: 1, Name: "Director"},
		Children: []*dto.OrganizationNode{{
			OrganizationMember: models.OrganizationMember{ID: 2, Name: "Manager", ParentID: &parent, Level: 1},
			Children:           []*dto.OrganizationNode{},
		}},
	}}, f.err
}

func (f *fakeOrganizationSrv) Get(_ context.Context, id int64) (*models.OrganizationMember, error) {
	return &models.OrganizationMember{ID: id}, f.err
}

func (f *fakeOrganizationSrv) Create(_ context.Context, req service.CreateOrganizationMemberRequest) (*models.OrganizationMember, error) {
	f.created = &req
	if f.err != nil {
		return nil, f.err
	}
	return &models.OrganizationMember{ID: 10, Name: req.Name}, nil
}

func (f *fakeOrganizationSrv) Update(_ context.Context, id int64, req service.UpdateOrganizationMemberRequest) (*models.OrganizationMember, error) {
	f.updated = &req
	if f.err != nil {
		return nil, f.err
	}
	return &models.OrganizationMember{ID: id}, nil
}

func (f *fakeOrganizationSrv) Delete(_ context.Context, id int64) (*models.OrganizationMember, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.OrganizationMember{ID: id}, nil
}

func organizationRouter(srv *fakeOrganizationSrv) *gin.Engine {
	h := NewOrganizationHandler(srv)
	return testRouter(nil, func(r *gin.Engine) {
		r.GET("/organization-members", h.List)
		r.GET("/organization-members/tree", h.Tree)
		r.GET("/organization-members/:id", h.Get)
		r.POST("/organization-members", h.Create)
		r.PUT("/organization-members/:id", h.Update)
		r.DELETE("/organization-members/:id", h.Delete)
	})
}

func TestOrganizationHandlerListParentFilter(t *testing.T) {
	srv := &fakeOrganizationSrv{}
	router := organizationRouter(srv)

	rec := perform(router, http.MethodGet, "/organization-members?parent_id=null", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, srv.lastFilter.RootsOnly)
	assert.Nil(t, srv.lastFilter.ParentID)

	rec = perform(router, http.MethodGet, "/organization-members?parent_id=3&level=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, srv.lastFilter.ParentID)
	assert.Equal(t, int64(3), *srv.lastFilter.ParentID)
	require.NotNil(t, srv.lastFilter.Level)
	assert.Equal(t, 1, *srv.lastFilter.Level)
	assert.False(t, srv.lastFilter.RootsOnly)
}

func TestOrganizationHandlerListRejectsBadFilters(t *testing.T) {
	router := organizationRouter(&fakeOrganizationSrv{})

	rec := perform(router, http.MethodGet, "/organization-members?parent_id=boss", "")
	assert.Equal(t, "INVALID_PARENT_ID", errorCode(t, rec))

	rec = perform(router, http.MethodGet, "/organization-members?level=top", "")
	assert.Equal(t, "INVALID_LEVEL", errorCode(t, rec))
}

func TestOrganizationHandlerTreeIsNested(t *testing.T) {
	rec := perform(organizationRouter(&fakeOrganizationSrv{}), http.MethodGet, "/organization-members/tree", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var tree []struct {
		ID       int64 `json:"id"`
		Children []struct {
			ID       int64  `json:"id"`
			ParentID *int64 `json:"parentId"`
		} `json:"children"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &tree))
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, int64(2), tree[0].Children[0].ID)
	assert.Equal(t, int64(1), *tree[0].Children[0].ParentID)
}

func TestOrganizationHandlerCreateAcceptsStringNumbers(t *testing.T) {
	srv := &fakeOrganizationSrv{}
	rec := perform(organizationRouter(srv), http.MethodPost, "/organization-members",
		`{"name":"Staff","position":"Admin","parentId":"2","order":"3","level":2}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, srv.created)
	require.NotNil(t, srv.created.ParentID.Value)
	assert.Equal(t, int64(2), *srv.created.ParentID.Value)
	assert.Equal(t, int64(3), *srv.created.Order.Value)
	assert.Equal(t, int64(2), *srv.created.Level.Value)
}

func TestOrganizationHandlerUpdateDetach(t *testing.T) {
	srv := &fakeOrganizationSrv{}
	rec := perform(organizationRouter(srv), http.MethodPut, "/organization-members/4", `{"parentId":null}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, srv.updated.ParentID.Set)
	assert.Nil(t, srv.updated.ParentID.Value)
	assert.False(t, srv.updated.Order.Set)
}

func TestOrganizationHandlerErrorsPassThrough(t *testing.T) {
	srv := &fakeOrganizationSrv{err: appErrors.ErrCircularReference}
	rec := perform(organizationRouter(srv), http.MethodPut, "/organization-members/4", `{"parentId":5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "CIRCULAR_REFERENCE", errorCode(t, rec))

	srv.err = appErrors.ErrHasSubordinates
	rec = perform(organizationRouter(srv), http.MethodDelete, "/organization-members/4", "")
	assert.Equal(t, "HAS_SUBORDINATES", errorCode(t, rec))
}
