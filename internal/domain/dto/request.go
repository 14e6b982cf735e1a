// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs are used to decouple the HTTP layer from the internal configuration
// model, providing validation and serialization for API communication.
package dto

import (
	"time"

	"github.com/storeforge/appcore/internal/appconfig"
	"github.com/storeforge/appcore/internal/injector"
)

// AppRequestData is the inbound JSON payload describing one tenant build.
// Field names follow the wire contract the tenant dashboard emits, hence
// the camelCase tags.
type AppRequestData struct {
	AppDetails AppDetails `json:"appDetails" binding:"required"`
}

// AppDetails carries everything a tenant can customize.
type AppDetails struct {
	AppName        string          `json:"appName"`
	CustomBranding *CustomBranding `json:"customBranding,omitempty"`
	Identifiers    *Identifiers    `json:"identifiers,omitempty"`
	Icons          *Icons          `json:"icons,omitempty"`
	Splash         *Splash         `json:"splash,omitempty"`
	Fonts          []Font          `json:"fonts,omitempty"`
	Permissions    *Permissions    `json:"permissions,omitempty"`
	Analytics      *Analytics      `json:"analytics,omitempty"`
	Push           *Push           `json:"push,omitempty"`
}

// CustomBranding overrides the default look and feel.
type CustomBranding struct {
	Logo    string  `json:"logo,omitempty"`
	Colors  *Colors `json:"colors,omitempty"`
	AppName string  `json:"appName,omitempty"`
}

// Colors is the tenant color palette.
type Colors struct {
	Primary    string `json:"primary,omitempty"`
	Secondary  string `json:"secondary,omitempty"`
	Background string `json:"background,omitempty"`
	Text       string `json:"text,omitempty"`
}

// Identifiers holds the platform application identifiers.
type Identifiers struct {
	AndroidPackageName string `json:"androidPackageName,omitempty"`
	IOSBundleID        string `json:"iosBundleId,omitempty"`
}

// Icons holds the tenant icon asset sources.
type Icons struct {
	AppIconURL              string `json:"appIconUrl,omitempty"`
	AdaptiveForegroundURL   string `json:"adaptiveForegroundUrl,omitempty"`
	AdaptiveBackgroundColor string `json:"adaptiveBackgroundColor,omitempty"`
}

// Splash holds the tenant splash screen sources.
type Splash struct {
	ImageURL            string `json:"imageUrl,omitempty"`
	BackgroundColor     string `json:"backgroundColor,omitempty"`
	ResizeMode          string `json:"resizeMode,omitempty"`
	DarkImageURL        string `json:"darkImageUrl,omitempty"`
	DarkBackgroundColor string `json:"darkBackgroundColor,omitempty"`
}

// Font describes one custom font.
type Font struct {
	FamilyName string `json:"familyName" binding:"required"`
	URL        string `json:"url" binding:"required"`
	Weight     int    `json:"weight"`
	Style      string `json:"style,omitempty"`
}

// Permissions holds the capability opt-ins.
type Permissions struct {
	Camera        bool `json:"camera"`
	Photos        bool `json:"photos"`
	Files         bool `json:"files"`
	Location      bool `json:"location"`
	Notifications bool `json:"notifications"`
}

// Analytics holds the analytics provider keys.
type Analytics struct {
	GA4ID     string `json:"ga4Id,omitempty"`
	SentryDSN string `json:"sentryDsn,omitempty"`
}

// Push holds the push provider configuration.
type Push struct {
	FCMServerKey string       `json:"fcmServerKey,omitempty"`
	Android      *AndroidPush `json:"android,omitempty"`
	APNS         *APNSPush    `json:"apns,omitempty"`
}

// AndroidPush holds the FCM topic configuration.
type AndroidPush struct {
	Enable          bool   `json:"enable"`
	TopicOrders     string `json:"topicOrders,omitempty"`
	TopicPromotions string `json:"topicPromotions,omitempty"`
}

// APNSPush holds the APNS provider-token configuration.
type APNSPush struct {
	KeyID    string `json:"keyId,omitempty"`
	TeamID   string `json:"teamId,omitempty"`
	BundleID string `json:"bundleId,omitempty"`
	P8URL    string `json:"p8Url,omitempty"`
}

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

var (
	// ErrMissingAppDetails is returned when the payload has no usable app details.
	ErrMissingAppDetails = &ValidationError{
		Field:   "appDetails",
		Message: "is required",
	}
	// ErrMissingFontURL is returned when a font entry has no download URL.
	ErrMissingFontURL = &ValidationError{
		Field:   "appDetails.fonts.url",
		Message: "is required for every font",
	}
)

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate performs custom validation on the payload beyond binding tags.
func (r *AppRequestData) Validate() error {
	if r.AppDetails.AppName == "" && r.AppDetails.CustomBranding == nil {
		return ErrMissingAppDetails
	}
	for _, f := range r.AppDetails.Fonts {
		if f.URL == "" {
			return ErrMissingFontURL
		}
	}
	return nil
}

// ToInjectorRequest maps the wire payload onto the internal injector shape.
// Nil sub-objects map to zero values, which downstream consumers read as
// "feature disabled".
func (r *AppRequestData) ToInjectorRequest() injector.AppRequest {
	d := r.AppDetails

	out := injector.AppRequest{AppName: d.AppName}
	if d.CustomBranding != nil {
		out.LogoURL = d.CustomBranding.Logo
		if d.CustomBranding.AppName != "" {
			out.AppName = d.CustomBranding.AppName
		}
		if c := d.CustomBranding.Colors; c != nil {
			out.Colors = appconfig.Colors{
				Primary:    c.Primary,
				Secondary:  c.Secondary,
				Background: c.Background,
				Text:       c.Text,
			}
		}
	}
	if d.Identifiers != nil {
		out.Request.Identifiers = appconfig.Identifiers{
			AndroidPackageName: d.Identifiers.AndroidPackageName,
			IOSBundleID:        d.Identifiers.IOSBundleID,
		}
	}
	if d.Icons != nil {
		out.Request.Icons = appconfig.Icons{
			AppIconURL:              d.Icons.AppIconURL,
			AdaptiveForegroundURL:   d.Icons.AdaptiveForegroundURL,
			AdaptiveBackgroundColor: d.Icons.AdaptiveBackgroundColor,
		}
	}
	if d.Splash != nil {
		out.Request.Splash = appconfig.Splash{
			ImageURL:            d.Splash.ImageURL,
			BackgroundColor:     d.Splash.BackgroundColor,
			ResizeMode:          d.Splash.ResizeMode,
			DarkImageURL:        d.Splash.DarkImageURL,
			DarkBackgroundColor: d.Splash.DarkBackgroundColor,
		}
	}
	for _, f := range d.Fonts {
		out.Request.Fonts = append(out.Request.Fonts, appconfig.Font{
			FamilyName: f.FamilyName,
			URL:        f.URL,
			Weight:     f.Weight,
			Style:      f.Style,
		})
	}
	if d.Permissions != nil {
		out.Request.Permissions = appconfig.Permissions{
			Camera:        d.Permissions.Camera,
			Photos:        d.Permissions.Photos,
			Files:         d.Permissions.Files,
			Location:      d.Permissions.Location,
			Notifications: d.Permissions.Notifications,
		}
	}
	if d.Analytics != nil {
		out.Request.Analytics = appconfig.Analytics{
			GA4ID:     d.Analytics.GA4ID,
			SentryDSN: d.Analytics.SentryDSN,
		}
	}
	if d.Push != nil {
		out.Request.Push.FCMServerKey = d.Push.FCMServerKey
		if a := d.Push.Android; a != nil {
			out.Request.Push.Android = appconfig.AndroidPush{
				Enable:          a.Enable,
				TopicOrders:     a.TopicOrders,
				TopicPromotions: a.TopicPromotions,
			}
		}
		if a := d.Push.APNS; a != nil {
			out.Request.Push.APNS = appconfig.APNSPush{
				KeyID:    a.KeyID,
				TeamID:   a.TeamID,
				BundleID: a.BundleID,
				P8URL:    a.P8URL,
			}
		}
	}
	return out
}

// InitializeRequest is the JSON body for the initialize endpoint.
type InitializeRequest struct {
	AppRequestData         AppRequestData `json:"appRequestData" binding:"required"`
	ValidateConfiguration  bool           `json:"validateConfiguration"`
	LoadCustomAssets       bool           `json:"loadCustomAssets"`
	AutoRequestPermissions bool           `json:"autoRequestPermissions"`
}

// NotificationRequest is the JSON body for the send-notification endpoint.
type NotificationRequest struct {
	Title       string            `json:"title" binding:"required"`
	Body        string            `json:"body"`
	Data        map[string]string `json:"data,omitempty"`
	DeviceToken string            `json:"deviceToken,omitempty"`
	Topic       string            `json:"topic,omitempty"`
}

// ScheduleNotificationRequest is the JSON body for the schedule-notification
// endpoint. FireAt is RFC 3339; a zero value means fire immediately.
type ScheduleNotificationRequest struct {
	Title  string            `json:"title" binding:"required"`
	Body   string            `json:"body"`
	FireAt time.Time         `json:"fireAt,omitempty"`
	Data   map[string]string `json:"data,omitempty"`
}

// AnalyticsEventRequest is the JSON body for the track-event endpoint.
type AnalyticsEventRequest struct {
	Name   string         `json:"name" binding:"required"`
	Screen string         `json:"screen,omitempty"`
	Params map[string]any `json:"params,omitempty"`
}
