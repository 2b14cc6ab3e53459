package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"unicode"

	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/grocery-api/internal/common"
	"github.com/noah-isme/grocery-api/internal/events"
	"github.com/noah-isme/grocery-api/internal/store"
)

// SortKeys enumerates the fields the listing can be sorted by. Anything else
// is rejected with an INVALID_SORT_KEY error rather than silently ignored.
var SortKeys = []string{"name", "price", "stock"}

// ListParams captures filters for the product listing.
type ListParams struct {
	Search   string
	MaxPrice *store.Money
	Sort     string
	Desc     bool
	Page     int
	Limit    int
}

// ProductView is the listing projection of a catalog entry.
type ProductView struct {
	Name  string      `json:"name"`
	Price store.Money `json:"price"`
	Unit  string      `json:"unit"`
	Stock int64       `json:"stock"`
}

// ListResult contains listing data and pagination metadata.
type ListResult struct {
	Items []ProductView
	Total int
	Page  int
	Limit int
}

// UpdateInput is the admin price/stock update payload.
type UpdateInput struct {
	Price *store.Money `json:"price" validate:"omitempty,gt=0"`
	Stock *int64       `json:"stock" validate:"omitempty,gte=0"`
}

// Service orchestrates catalog queries, projection assembly, and caching.
type Service struct {
	store        *store.Store
	cache        *Cache
	events       *events.Bus
	validate     *validator.Validate
	defaultLimit int
	maxLimit     int
	allowUpdate  bool
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Store            *store.Store
	Cache            *Cache
	Events           *events.Bus
	Validate         *validator.Validate
	DefaultLimit     int
	MaxLimit         int
	AllowAdminUpdate bool
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("catalog: store is required")
	}
	defaultLimit := cfg.DefaultLimit
	if defaultLimit < 1 {
		defaultLimit = 20
	}
	maxLimit := cfg.MaxLimit
	if maxLimit < 1 {
		maxLimit = 100
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}
	validate := cfg.Validate
	if validate == nil {
		validate = validator.New()
	}
	return &Service{
		store:        cfg.Store,
		cache:        cfg.Cache,
		events:       cfg.Events,
		validate:     validate,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		allowUpdate:  cfg.AllowAdminUpdate,
	}, nil
}

// ParseListParams normalises raw query values into strongly typed filters.
func (s *Service) ParseListParams(values url.Values) (ListParams, error) {
	params := ListParams{
		Page:  1,
		Limit: s.defaultLimit,
	}
	params.Search = strings.TrimSpace(values.Get("search"))

	if v := strings.TrimSpace(values.Get("max_price")); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil || parsed < 0 {
			return params, badRequest("max_price", "max_price must be a non-negative integer", err)
		}
		params.MaxPrice = &parsed
	}

	if v := strings.ToLower(strings.TrimSpace(values.Get("sort"))); v != "" {
		valid := false
		for _, key := range SortKeys {
			if v == key {
				valid = true
				break
			}
		}
		if !valid {
			return params, common.NewAppError("INVALID_SORT_KEY",
				fmt.Sprintf("sort must be one of %s", strings.Join(SortKeys, ", ")),
				http.StatusBadRequest, nil)
		}
		params.Sort = v
	}

	switch order := strings.ToLower(strings.TrimSpace(values.Get("order"))); order {
	case "", "asc":
	case "desc":
		params.Desc = true
	default:
		return params, badRequest("order", "order must be asc or desc", nil)
	}

	page, limit, err := common.ParsePagination(values, s.defaultLimit, s.maxLimit)
	if err != nil {
		return params, err
	}
	params.Page = page
	params.Limit = limit

	return params, nil
}

// List returns the filtered, sorted, paginated catalog projection.
func (s *Service) List(ctx context.Context, params ListParams) (ListResult, error) {
	cacheKey := s.cache.ListKey(ctx, params)
	var cached ListResult
	if ok, err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil && ok {
		return cached, nil
	}

	products := s.store.Products()
	filtered := make([]ProductView, 0, len(products))
	search := strings.ToLower(params.Search)
	for _, p := range products {
		if search != "" && !strings.Contains(p.Name, search) {
			continue
		}
		if params.MaxPrice != nil && p.Price > *params.MaxPrice {
			continue
		}
		filtered = append(filtered, ProductView{
			Name:  capitalize(p.Name),
			Price: p.Price,
			Unit:  p.Unit,
			Stock: p.Stock,
		})
	}

	if params.Sort != "" {
		sort.SliceStable(filtered, func(i, j int) bool {
			var less bool
			switch params.Sort {
			case "price":
				less = filtered[i].Price < filtered[j].Price
			case "stock":
				less = filtered[i].Stock < filtered[j].Stock
			default:
				less = filtered[i].Name < filtered[j].Name
			}
			if params.Desc {
				return !less
			}
			return less
		})
	}

	total := len(filtered)
	start := (params.Page - 1) * params.Limit
	if start > total {
		start = total
	}
	end := start + params.Limit
	if end > total {
		end = total
	}

	result := ListResult{
		Items: filtered[start:end],
		Total: total,
		Page:  params.Page,
		Limit: params.Limit,
	}
	_ = s.cache.SetJSON(ctx, cacheKey, result)
	return result, nil
}

// UpdateProduct applies an admin price/stock update on behalf of actorID.
func (s *Service) UpdateProduct(ctx context.Context, actorID, name string, in UpdateInput) (store.Product, error) {
	if !s.allowUpdate {
		return store.Product{}, common.NewAppError("FORBIDDEN", "product updates are disabled", http.StatusForbidden, nil)
	}
	actor, err := s.store.User(actorID)
	if err != nil {
		return store.Product{}, err
	}
	if !actor.Admin {
		return store.Product{}, common.NewAppError("FORBIDDEN", "admin privileges required", http.StatusForbidden, nil)
	}
	if err := s.validate.Struct(in); err != nil {
		return store.Product{}, common.NewAppError("VALIDATION", "invalid product update", http.StatusBadRequest, err)
	}
	if in.Price == nil && in.Stock == nil {
		return store.Product{}, badRequest("body", "at least one of price or stock is required", nil)
	}
	updated, err := s.store.UpdateProduct(name, in.Price, in.Stock)
	if err != nil {
		return store.Product{}, err
	}
	if s.events != nil {
		_, _ = s.events.Emit(ctx, events.TopicProductUpdated, updated.Name, map[string]any{
			"product": updated.Name,
			"price":   updated.Price,
			"stock":   updated.Stock,
			"actor":   actorID,
		})
	}
	return updated, nil
}

func capitalize(name string) string {
	if name == "" {
		return name
	}
	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func badRequest(field, message string, err error) *common.AppError {
	return &common.AppError{
		Code:       "BAD_REQUEST",
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Err:        err,
		Details:    map[string]any{"field": field},
	}
}
