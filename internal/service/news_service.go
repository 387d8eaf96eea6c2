package service

import (
	"context"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/lpk-cms-api/internal/models"
	"github.com/noah-isme/lpk-cms-api/internal/repository"
	appErrors "github.com/noah-isme/lpk-cms-api/pkg/errors"
	"github.com/noah-isme/lpk-cms-api/pkg/response"
)

var errNewsMissing = appErrors.New("NEWS_NOT_FOUND", http.StatusNotFound, "news not found")

// Slugify lowercases title, drops punctuation and joins words with hyphens.
// Only ASCII letters and digits survive; runs of spaces, underscores and hyphens become one hyphen.
func Slugify(title string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case r == '_' || r == '-' || unicode.IsSpace(r):
			pendingDash = true
		}
	}
	return b.String()
}

type newsRepository interface {
	List(ctx context.Context, filter models.NewsFilter) ([]models.News, int, error)
	FindByID(ctx context.Context, id int64) (*models.News, error)
	FindBySlug(ctx context.Context, slug string) (*models.News, error)
	ExistsBySlug(ctx context.Context, slug string, excludeID int64) (bool, error)
	Create(ctx context.Context, item *models.News) error
	Update(ctx context.Context, item *models.News) error
	Delete(ctx context.Context, id int64) error
}

// CreateNewsRequest captures fields for publishing news. PublishedAt is RFC 3339.
type CreateNewsRequest struct {
	Title       string  `json:"title"`
	Slug        string  `json:"slug"`
	Content     string  `json:"content"`
	Excerpt     string  `json:"excerpt"`
	Category    string  `json:"category"`
	ImageURL    *string `json:"imageUrl"`
	PublishedAt *string `json:"publishedAt"`
}

// UpdateNewsRequest modifies only the fields that are present. An empty publishedAt unpublishes.
type UpdateNewsRequest struct {
	Title       *string `json:"title"`
	Slug        *string `json:"slug"`
	Content     *string `json:"content"`
	Excerpt     *string `json:"excerpt"`
	Category    *string `json:"category"`
	ImageURL    *string `json:"imageUrl"`
	PublishedAt *string `json:"publishedAt"`
}

// NewsService handles news workflows.
type NewsService struct {
	repo      newsRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewNewsService creates a new news service.
func NewNewsService(repo newsRepository, validate *validator.Validate, logger *zap.Logger) *NewsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NewsService{repo: repo, validator: validate, logger: logger}
}

// List returns paginated news.
func (s *NewsService) List(ctx context.Context, filter models.NewsFilter) ([]models.News, *response.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list news")
	}
	return items, pageOf(filter.ListParams, total), nil
}

// Get returns a news item by id.
func (s *NewsService) Get(ctx context.Context, id int64) (*models.News, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, errNewsMissing, "news")
	}
	return item, nil
}

// GetBySlug returns a news item by slug.
func (s *NewsService) GetBySlug(ctx context.Context, slug string) (*models.News, error) {
	item, err := s.repo.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, loadError(err, errNewsMissing, "news")
	}
	return item, nil
}

// Create publishes a news item, deriving the slug from the title when none is given.
func (s *NewsService) Create(ctx context.Context, req CreateNewsRequest) (*models.News, error) {
	if err := requireFields(
		requiredField{"MISSING_TITLE", "title", req.Title},
		requiredField{"MISSING_CONTENT", "content", req.Content},
		requiredField{"MISSING_EXCERPT", "excerpt", req.Excerpt},
		requiredField{"MISSING_CATEGORY", "category", req.Category},
	); err != nil {
		return nil, err
	}

	slug := trim(req.Slug)
	if slug == "" {
		slug = Slugify(req.Title)
	}
	if slug == "" {
		return nil, appErrors.Validation("INVALID_SLUG", "slug could not be derived from title")
	}
	if err := s.ensureSlugFree(ctx, slug, 0); err != nil {
		return nil, err
	}

	publishedAt, err := parsePublishedAt(req.PublishedAt)
	if err != nil {
		return nil, err
	}

	item := &models.News{
		Title:       trim(req.Title),
		Slug:        slug,
		Content:     trim(req.Content),
		Excerpt:     trim(req.Excerpt),
		Category:    trim(req.Category),
		ImageURL:    optionalString(req.ImageURL),
		PublishedAt: publishedAt,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.ErrDuplicateSlug
		}
		return nil, internalError(err, "failed to create news")
	}
	return item, nil
}

// Update applies the provided fields to a news item.
func (s *NewsService) Update(ctx context.Context, id int64, req UpdateNewsRequest) (*models.News, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, errNewsMissing, "news")
	}

	for _, p := range []struct {
		dst   *string
		value *string
		code  string
		label string
	}{
		{&item.Title, req.Title, "INVALID_TITLE", "title"},
		{&item.Content, req.Content, "INVALID_CONTENT", "content"},
		{&item.Excerpt, req.Excerpt, "INVALID_EXCERPT", "excerpt"},
		{&item.Category, req.Category, "INVALID_CATEGORY", "category"},
	} {
		if err := patchString(p.dst, p.value, p.code, p.label); err != nil {
			return nil, err
		}
	}

	if req.Slug != nil {
		slug := trim(*req.Slug)
		if slug == "" {
			return nil, appErrors.Validation("INVALID_SLUG", "slug cannot be empty")
		}
		if slug != item.Slug {
			if err := s.ensureSlugFree(ctx, slug, id); err != nil {
				return nil, err
			}
		}
		item.Slug = slug
	}
	patchOptional(&item.ImageURL, req.ImageURL)
	if req.PublishedAt != nil {
		if item.PublishedAt, err = parsePublishedAt(req.PublishedAt); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, item); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.ErrDuplicateSlug
		}
		return nil, internalError(err, "failed to update news")
	}
	return item, nil
}

// Delete removes a news item and returns it.
func (s *NewsService) Delete(ctx context.Context, id int64) (*models.News, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, errNewsMissing, "news")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, internalError(err, "failed to delete news")
	}
	return item, nil
}

func (s *NewsService) ensureSlugFree(ctx context.Context, slug string, excludeID int64) error {
	exists, err := s.repo.ExistsBySlug(ctx, slug, excludeID)
	if err != nil {
		return internalError(err, "failed to check slug")
	}
	if exists {
		return appErrors.ErrDuplicateSlug
	}
	return nil
}

func parsePublishedAt(value *string) (*time.Time, error) {
	raw := optionalString(value)
	if raw == nil {
		return nil, nil
	}
	ts, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return nil, appErrors.Validation("INVALID_PUBLISHED_AT", "publishedAt must be an RFC 3339 timestamp")
	}
	ts = ts.UTC()
	return &ts, nil
}
