package http

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	"github.com/weatherdash/backend/internal/config"
	"github.com/weatherdash/backend/internal/domain"
	"github.com/weatherdash/backend/internal/query"
	"github.com/weatherdash/backend/internal/service"
	"github.com/weatherdash/backend/pkg/utils"
	"github.com/weatherdash/backend/pkg/validator"
)

// Handler contains all HTTP handlers
type Handler struct {
	dashboardSvc *service.DashboardService
	citySvc      *service.CityService
	searchSvc    *service.SearchService
	client       *query.Client
	render       config.RenderConfig
	logger       *zap.Logger
}

// NewHandler creates a new handler
func NewHandler(
	dashboardSvc *service.DashboardService,
	citySvc *service.CityService,
	searchSvc *service.SearchService,
	client *query.Client,
	render config.RenderConfig,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		dashboardSvc: dashboardSvc,
		citySvc:      citySvc,
		searchSvc:    searchSvc,
		client:       client,
		render:       render,
		logger:       logger,
	}
}

type cityRequest struct {
	Name string `query:"-" validate:"required,max=100"`
	Lat  string `query:"lat" validate:"omitempty,latitude"`
	Lon  string `query:"lon" validate:"omitempty,longitude"`
}

type searchRequest struct {
	Query string `query:"q" validate:"max=100"`
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":         "ok",
		"service":        "weatherdash-backend",
		"version":        "1.0.0",
		"cached_queries": h.client.Len(),
	})
}

// GetDashboard returns the "My Location" view once queries settle or the wait elapses
func (h *Handler) GetDashboard(c *fiber.Ctx) error {
	ctx, cancel, err := h.waitContext(c)
	if err != nil {
		return err
	}
	defer cancel()

	h.settle(ctx, h.dashboardSvc.Wait)
	return success(c, h.dashboardSvc.View())
}

// RefreshDashboard is the refresh button: re-requests the location and refetches all queries
func (h *Handler) RefreshDashboard(c *fiber.Ctx) error {
	ctx, cancel, err := h.waitContext(c)
	if err != nil {
		return err
	}
	defer cancel()

	result := h.dashboardSvc.Refresh()
	h.settle(ctx, h.dashboardSvc.Wait)

	return success(c, fiber.Map{
		"refresh": result,
		"view":    h.dashboardSvc.View(),
	})
}

// GetLocation returns the geolocation state
func (h *Handler) GetLocation(c *fiber.Ctx) error {
	return success(c, h.dashboardSvc.Location())
}

// RequestLocation is the "Enable Location" action
func (h *Handler) RequestLocation(c *fiber.Ctx) error {
	ctx, cancel, err := h.waitContext(c)
	if err != nil {
		return err
	}
	defer cancel()

	h.dashboardSvc.GetLocation()
	h.settle(ctx, h.dashboardSvc.Wait)
	return success(c, h.dashboardSvc.Location())
}

// GetCity returns the weather page for one city
func (h *Handler) GetCity(c *fiber.Ctx) error {
	// params and query values alias the request buffer; fetches outlive the handler
	name, err := url.PathUnescape(fiberutils.CopyString(c.Params("cityName")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid city name")
	}

	req := cityRequest{Name: name}
	if err := c.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}
	if err := validator.Validate(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if (req.Lat == "") != (req.Lon == "") {
		return fiber.NewError(fiber.StatusBadRequest, "lat and lon must be given together")
	}

	var coords *domain.Coordinates
	if req.Lat != "" {
		lat, _ := strconv.ParseFloat(req.Lat, 64)
		lon, _ := strconv.ParseFloat(req.Lon, 64)
		coords = &domain.Coordinates{Latitude: lat, Longitude: lon}
	}

	ctx, cancel, err := h.waitContext(c)
	if err != nil {
		return err
	}
	defer cancel()

	view, err := h.citySvc.View(ctx, name, coords)
	if err != nil {
		return h.serviceError(err, "Failed to load city")
	}
	return success(c, view)
}

// SearchLocations backs the header search box
func (h *Handler) SearchLocations(c *fiber.Ctx) error {
	var req searchRequest
	if err := c.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}
	if err := validator.Validate(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	ctx, cancel, err := h.waitContext(c)
	if err != nil {
		return err
	}
	defer cancel()

	result, err := h.searchSvc.Search(ctx, fiberutils.CopyString(req.Query))
	if err != nil {
		return h.serviceError(err, "Failed to search locations")
	}
	return success(c, result)
}

// waitContext bounds how long a request waits for queries to settle. The
// wait query parameter overrides the default and is capped at the maximum.
func (h *Handler) waitContext(c *fiber.Ctx) (context.Context, context.CancelFunc, error) {
	wait := h.render.Wait
	if raw := c.Query("wait"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "Invalid wait duration")
		}
		wait = d
	}
	wait = utils.Clamp(wait, 0, h.render.MaxWait)

	ctx, cancel := context.WithTimeout(c.UserContext(), wait)
	return ctx, cancel, nil
}

// settle waits for background work; running out of time just renders the current state
func (h *Handler) settle(ctx context.Context, wait func(context.Context) error) {
	if err := wait(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		h.logger.Debug("Stopped waiting for queries", zap.Error(err))
	}
}

func (h *Handler) serviceError(err error, message string) error {
	if errors.Is(err, service.ErrCityNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "City not found")
	}

	var fetchErr *domain.FetchError
	if errors.As(err, &fetchErr) {
		h.logger.Warn("Upstream weather API failed", zap.Error(err))
		return fiber.NewError(fiber.StatusBadGateway, message)
	}

	h.logger.Error(message, zap.Error(err))
	return fiber.NewError(fiber.StatusInternalServerError, message)
}

func success(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}
