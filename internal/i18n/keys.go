// Package i18n provides internationalization support for the app core service.
package i18n

// Error message translation keys.
const (
	// ErrKeyInvalidRequest indicates an invalid request.
	ErrKeyInvalidRequest = "error.invalid_request"
	// ErrKeyInvalidRequestBody indicates an invalid request body.
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	// ErrKeyInternalError indicates an internal server error.
	ErrKeyInternalError = "error.internal_error"
	// ErrKeyUnauthorized indicates missing or invalid authentication.
	ErrKeyUnauthorized = "error.unauthorized"
	// ErrKeyAPIKeyRequired indicates that an API key is required.
	ErrKeyAPIKeyRequired = "error.api_key_required"
	// ErrKeyInvalidAPIKey indicates an invalid API key.
	ErrKeyInvalidAPIKey = "error.invalid_api_key"
	// ErrKeyAdminKeyRequired indicates that an admin key is required.
	ErrKeyAdminKeyRequired = "error.admin_key_required"
	// ErrKeyInvalidAdminKey indicates an invalid admin key.
	ErrKeyInvalidAdminKey = "error.invalid_admin_key"
	// ErrKeyForbidden indicates insufficient permissions.
	ErrKeyForbidden = "error.forbidden"
	// ErrKeyNotFound indicates a resource was not found.
	ErrKeyNotFound = "error.not_found"
	// ErrKeyRateLimitExceeded indicates rate limit exceeded.
	ErrKeyRateLimitExceeded = "error.rate_limit_exceeded"
	// ErrKeyConflict indicates a conflict with current state.
	ErrKeyConflict = "error.conflict"
	// ErrKeyValidationAppDetails indicates an invalid app request payload.
	ErrKeyValidationAppDetails = "error.validation.app_details"
	// ErrKeyNotInitialized indicates the app has not been initialized yet.
	ErrKeyNotInitialized = "error.not_initialized"
	// ErrKeyTimeout indicates a request timeout.
	ErrKeyTimeout = "error.timeout"
)

// Success message translation keys.
const (
	// SuccessKeyAppInitialized indicates a completed initialization run.
	SuccessKeyAppInitialized = "success.app_initialized"
	// SuccessKeyAppRequestInjected indicates a processed app request payload.
	SuccessKeyAppRequestInjected = "success.app_request_injected"
	// SuccessKeyNotificationSent indicates a dispatched push notification.
	SuccessKeyNotificationSent = "success.notification_sent"
	// SuccessKeyEventTracked indicates a forwarded analytics event.
	SuccessKeyEventTracked = "success.event_tracked"
)
