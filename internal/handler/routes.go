package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/lpk-cms-api/internal/middleware"
	"github.com/noah-isme/lpk-cms-api/internal/models"
)

// Handlers groups every HTTP handler mounted under the API prefix.
type Handlers struct {
	Auth           *AuthHandler
	Program        *ProgramHandler
	News           *NewsHandler
	Graduate       *GraduateHandler
	Gallery        *GalleryHandler
	Slider         *SliderHandler
	ContactMessage *ContactMessageHandler
	ProfileSection *ProfileSectionHandler
	SiteSetting    *SiteSettingHandler
	Registration   *RegistrationHandler
	Organization   *OrganizationHandler
	Backup         *BackupHandler
	Upload         *UploadHandler
	Dashboard      *DashboardHandler
}

// RouteOptions carries the guards applied to admin routes.
type RouteOptions struct {
	Auth   gin.HandlerFunc
	Audit  middleware.AuditWriter
	Logger *zap.Logger
}

type crudHandler interface {
	List(*gin.Context)
	Get(*gin.Context)
	Create(*gin.Context)
	Update(*gin.Context)
	Delete(*gin.Context)
}

// RegisterRoutes mounts public reads and JWT guarded admin routes on api.
func RegisterRoutes(api *gin.RouterGroup, h Handlers, opts RouteOptions) {
	admin := api.Group("")
	if opts.Auth != nil {
		admin.Use(opts.Auth)
	}
	audit := func(resource string) gin.HandlerFunc {
		return middleware.Audit(opts.Audit, resource, opts.Logger)
	}
	auditAs := func(action, resource string) gin.HandlerFunc {
		return middleware.AuditAction(opts.Audit, action, resource, opts.Logger)
	}

	content := []struct {
		path     string
		param    string
		resource string
		handler  crudHandler
	}{
		{"/programs", ":id", "program", h.Program},
		{"/news", ":id", "news", h.News},
		{"/graduates", ":id", "graduate", h.Graduate},
		{"/gallery", ":id", "gallery", h.Gallery},
		{"/sliders", ":id", "slider", h.Slider},
		{"/profile-sections", ":id", "profile_section", h.ProfileSection},
		{"/site-settings", ":ref", "site_setting", h.SiteSetting},
		{"/organization-members", ":id", "organization_member", h.Organization},
	}
	for _, r := range content {
		item := r.path + "/" + r.param
		api.GET(r.path, r.handler.List)
		api.GET(item, r.handler.Get)
		admin.POST(r.path, audit(r.resource), r.handler.Create)
		admin.PUT(item, audit(r.resource), r.handler.Update)
		admin.DELETE(item, audit(r.resource), r.handler.Delete)
	}
	api.GET("/news/slug/:slug", h.News.GetBySlug)
	api.GET("/organization-members/tree", h.Organization.Tree)

	api.POST("/registrations", h.Registration.Create)
	api.GET("/registrations/lookup", h.Registration.Lookup)
	admin.GET("/registrations", h.Registration.List)
	admin.GET("/registrations/export", auditAs(models.AuditActionExport, "registration"), h.Registration.Export)
	admin.GET("/registrations/:id", h.Registration.Get)
	admin.PUT("/registrations/:id", audit("registration"), h.Registration.Update)
	admin.DELETE("/registrations/:id", audit("registration"), h.Registration.Delete)

	api.POST("/contact-messages", h.ContactMessage.Create)
	admin.GET("/contact-messages", h.ContactMessage.List)
	admin.GET("/contact-messages/:id", h.ContactMessage.Get)
	admin.PUT("/contact-messages/:id", audit("contact_message"), h.ContactMessage.Update)
	admin.DELETE("/contact-messages/:id", audit("contact_message"), h.ContactMessage.Delete)

	admin.GET("/backup", auditAs(models.AuditActionExport, "backup"), h.Backup.Export)
	admin.POST("/backup", auditAs(models.AuditActionRestore, "backup"), h.Backup.Restore)
	admin.POST("/backup/snapshots", auditAs(models.AuditActionExport, "backup_snapshot"), h.Backup.CreateSnapshot)
	admin.GET("/backup/snapshots/download", h.Backup.DownloadSnapshot)
	admin.GET("/backup/snapshots/:id", h.Backup.GetSnapshot)

	admin.POST("/upload", auditAs(models.AuditActionUpload, "upload"), h.Upload.Upload)
	admin.GET("/dashboard/stats", h.Dashboard.Stats)

	api.POST("/auth/login", h.Auth.Login)
	admin.GET("/auth/me", h.Auth.Me)
	admin.POST("/auth/change-password", h.Auth.ChangePassword)
}
