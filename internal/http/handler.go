package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/storeforge/appcore/internal/analytics"
	"github.com/storeforge/appcore/internal/appconfig"
	"github.com/storeforge/appcore/internal/domain/dto"
	"github.com/storeforge/appcore/internal/domain/model"
	"github.com/storeforge/appcore/internal/feature"
	"github.com/storeforge/appcore/internal/i18n"
	"github.com/storeforge/appcore/internal/initializer"
	"github.com/storeforge/appcore/internal/injector"
	"github.com/storeforge/appcore/internal/permission"
	"github.com/storeforge/appcore/internal/push"
	"github.com/storeforge/appcore/internal/repository"
	"github.com/storeforge/appcore/internal/service"
)

// NotificationScheduler is the local notification surface the handler needs.
type NotificationScheduler interface {
	ScheduleLocal(title, body string, fireAt time.Time, data map[string]string) (string, error)
	Reset()
}

// Handler provides HTTP handlers for the app configuration routes.
type Handler struct {
	store         *appconfig.Store
	initializer   *initializer.Initializer
	injector      *injector.Injector
	permissions   *permission.Manager
	analytics     *analytics.Manager
	push          *push.Manager
	recorder      *service.Recorder
	appRequests   repository.AppRequestsRepositoryInterface
	notifications NotificationScheduler
}

// HandlerConfig wires the Handler's collaborators.
type HandlerConfig struct {
	Store         *appconfig.Store
	Initializer   *initializer.Initializer
	Injector      *injector.Injector
	Permissions   *permission.Manager
	Analytics     *analytics.Manager
	Push          *push.Manager
	Recorder      *service.Recorder
	AppRequests   repository.AppRequestsRepositoryInterface
	Notifications NotificationScheduler
}

// NewHandler creates a new Handler instance.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		store:         cfg.Store,
		initializer:   cfg.Initializer,
		injector:      cfg.Injector,
		permissions:   cfg.Permissions,
		analytics:     cfg.Analytics,
		push:          cfg.Push,
		recorder:      cfg.Recorder,
		appRequests:   cfg.AppRequests,
		notifications: cfg.Notifications,
	}
}

// Initialize handles POST /api/initialize requests. It runs the full boot
// sequence for the tenant payload; repeated calls return the cached result
// of the first run.
func (h *Handler) Initialize(c *gin.Context) {
	builder := NewResponseBuilder(c)

	var req dto.InitializeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	if err := req.AppRequestData.Validate(); err != nil {
		if _, ok := err.(*dto.ValidationError); ok {
			builder.Error(http.StatusBadRequest, i18n.ErrKeyValidationAppDetails, err)
		} else {
			builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		}
		return
	}

	injReq := req.AppRequestData.ToInjectorRequest()
	alreadyInitialized := h.initializer.Initialized()
	result := h.initializer.Initialize(c.Request.Context(), initializer.Options{
		Request:                injReq,
		ValidateConfiguration:  req.ValidateConfiguration,
		LoadCustomAssets:       req.LoadCustomAssets,
		AutoRequestPermissions: req.AutoRequestPermissions,
	})

	// Persist only runs that actually executed; an already-initialized call
	// is answered without touching storage.
	if result.Success && !alreadyInitialized {
		h.record(injReq, result.Features)
	}

	builder.SuccessOK(result)
}

// InjectAppRequest handles POST /api/app-request requests. It applies the
// tenant payload to the configuration store without running the full boot
// sequence. Partial injection is accepted: stage failures are reported but
// applied stages stay applied.
func (h *Handler) InjectAppRequest(c *gin.Context) {
	builder := NewResponseBuilder(c)

	var req dto.AppRequestData
	if err := c.ShouldBindJSON(&req); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	if err := req.Validate(); err != nil {
		if _, ok := err.(*dto.ValidationError); ok {
			builder.Error(http.StatusBadRequest, i18n.ErrKeyValidationAppDetails, err)
		} else {
			builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		}
		return
	}

	injReq := req.ToInjectorRequest()
	errs := h.injector.Inject(c.Request.Context(), injReq)

	cfg := h.store.Snapshot()
	h.record(injReq, feature.Enabled(cfg))

	stageErrors := make([]string, 0, len(errs))
	for _, err := range errs {
		stageErrors = append(stageErrors, err.Error())
	}

	builder.SuccessOK(gin.H{
		"valid":        h.injector.Validate(),
		"features":     feature.Enabled(cfg),
		"stage_errors": stageErrors,
	})
}

// GetFeatures handles GET /api/features requests.
func (h *Handler) GetFeatures(c *gin.Context) {
	builder := NewResponseBuilder(c)
	cfg := h.store.Snapshot()

	builder.SuccessOK(gin.H{
		"enabled": feature.Enabled(cfg),
		"summary": feature.Summary(cfg),
	})
}

// GetConfigSummary handles GET /api/config/summary requests.
func (h *Handler) GetConfigSummary(c *gin.Context) {
	builder := NewResponseBuilder(c)
	builder.SuccessOK(h.injector.GetSummary())
}

// GetPermissions handles GET /api/permissions requests. It reports the
// current grant status of every enabled capability without prompting.
func (h *Handler) GetPermissions(c *gin.Context) {
	builder := NewResponseBuilder(c)

	builder.SuccessOK(gin.H{
		"enabled": h.permissions.Config(),
		"status":  h.permissions.CheckAll(c.Request.Context()),
	})
}

// SendNotification handles POST /api/notifications requests.
func (h *Handler) SendNotification(c *gin.Context) {
	builder := NewResponseBuilder(c)

	var req dto.NotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	if !h.initializer.Initialized() {
		builder.Error(http.StatusConflict, i18n.ErrKeyNotInitialized, nil)
		return
	}

	err := h.push.SendNotification(c.Request.Context(), push.Notification{
		Title:       req.Title,
		Body:        req.Body,
		Data:        req.Data,
		DeviceToken: req.DeviceToken,
		Topic:       req.Topic,
	})
	if err != nil {
		builder.Error(http.StatusBadGateway, i18n.ErrKeyInternalError, err)
		return
	}

	locale := i18n.GetLocale(c)
	builder.SuccessOK(gin.H{
		"message": i18n.GetTranslator().Translate(i18n.SuccessKeyNotificationSent, locale),
		"token":   h.push.Token(),
	})
}

// ScheduleNotification handles POST /api/notifications/schedule requests.
// It schedules a local notification; scheduling requires a completed
// initialization run.
func (h *Handler) ScheduleNotification(c *gin.Context) {
	builder := NewResponseBuilder(c)

	var req dto.ScheduleNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	if !h.initializer.Initialized() {
		builder.Error(http.StatusConflict, i18n.ErrKeyNotInitialized, nil)
		return
	}

	fireAt := req.FireAt
	if fireAt.IsZero() {
		fireAt = time.Now()
	}

	id, err := h.notifications.ScheduleLocal(req.Title, req.Body, fireAt, req.Data)
	if err != nil {
		builder.Error(http.StatusConflict, i18n.ErrKeyNotInitialized, err)
		return
	}

	builder.SuccessCreated(gin.H{"id": id})
}

// TrackEvent handles POST /api/analytics/events requests. Events for
// disabled or uninitialized providers are dropped silently, matching the
// fire-and-forget tracking contract.
func (h *Handler) TrackEvent(c *gin.Context) {
	builder := NewResponseBuilder(c)

	var req dto.AnalyticsEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	if req.Screen != "" {
		h.analytics.TrackScreen(c.Request.Context(), req.Screen)
	}
	h.analytics.TrackEvent(c.Request.Context(), req.Name, req.Params)

	locale := i18n.GetLocale(c)
	builder.SuccessAccepted(gin.H{
		"message": i18n.GetTranslator().Translate(i18n.SuccessKeyEventTracked, locale),
	})
}

// ListAppRequests handles GET /api/app-requests requests.
func (h *Handler) ListAppRequests(c *gin.Context) {
	builder := NewResponseBuilder(c)

	if h.appRequests == nil {
		builder.Error(http.StatusNotFound, i18n.ErrKeyNotFound, nil)
		return
	}

	opts := model.AppRequestQueryOptions{
		AppName: c.Query("app_name"),
		Limit:   50,
	}
	if limit := c.Query("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n > 0 && n <= 500 {
			opts.Limit = n
		}
	}

	records, err := h.appRequests.List(c.Request.Context(), opts)
	if err != nil {
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyInternalError, err)
		return
	}

	count, err := h.appRequests.Count(c.Request.Context(), opts)
	if err != nil {
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyInternalError, err)
		return
	}

	builder.SuccessOK(gin.H{
		"items": records,
		"total": count,
	})
}

// Reset handles POST /api/reset requests. It clears the configuration
// store and every manager back to defaults so a new tenant payload can be
// initialized. Guarded by the admin key middleware.
func (h *Handler) Reset(c *gin.Context) {
	builder := NewResponseBuilder(c)

	h.initializer.Reset()

	builder.SuccessOK(gin.H{"reset": true})
}

// record enqueues the injected payload for async persistence. Recording is
// best effort: a missing repository or a full buffer drops the record.
func (h *Handler) record(req injector.AppRequest, features []string) {
	if h.recorder == nil {
		return
	}
	h.recorder.Record(&model.AppRequestRecord{
		AppName:  req.AppName,
		LogoURL:  req.LogoURL,
		Colors:   req.Colors,
		Request:  req.Request,
		Features: features,
	})
}
