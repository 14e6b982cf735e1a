// Package appconfig holds the per-tenant application configuration tree and
// the store that guards it.
package appconfig

// Config is the complete configuration for one tenant build. Every field has
// a zero default so reads never fail; consumers treat missing values as
// "feature disabled".
type Config struct {
	Store      StoreInfo  `json:"store" bson:"store"`
	AppRequest AppRequest `json:"app_request" bson:"app_request"`
}

// StoreInfo identifies the tenant storefront and carries its branding.
type StoreInfo struct {
	ID       string   `json:"id" bson:"id"`
	Name     string   `json:"name" bson:"name"`
	Branding Branding `json:"branding" bson:"branding"`
}

// Branding is the single source of truth for tenant look and feel.
// The theme is derived from it (see Config.Theme), never stored separately.
type Branding struct {
	AppName string `json:"app_name" bson:"app_name"`
	LogoURL string `json:"logo_url" bson:"logo_url"`
	Colors  Colors `json:"colors" bson:"colors"`
}

// Colors holds the tenant color palette.
type Colors struct {
	Primary    string `json:"primary" bson:"primary"`
	Secondary  string `json:"secondary" bson:"secondary"`
	Background string `json:"background" bson:"background"`
	Text       string `json:"text" bson:"text"`
}

// Theme is a derived view over branding. Computing it on demand keeps a
// single writable copy of the branding fields.
type Theme struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Background string `json:"background"`
	Text       string `json:"text"`
	AppName    string `json:"app_name"`
}

// Theme returns the theme derived from the current branding.
func (c *Config) Theme() Theme {
	b := c.Store.Branding
	return Theme{
		Primary:    b.Colors.Primary,
		Secondary:  b.Colors.Secondary,
		Background: b.Colors.Background,
		Text:       b.Colors.Text,
		AppName:    b.AppName,
	}
}

// AppRequest is the tenant-specific build request: identifiers, assets,
// permission opt-ins and provider keys.
type AppRequest struct {
	Identifiers Identifiers `json:"identifiers" bson:"identifiers"`
	Icons       Icons       `json:"icons" bson:"icons"`
	Splash      Splash      `json:"splash" bson:"splash"`
	Fonts       []Font      `json:"fonts" bson:"fonts"`
	Permissions Permissions `json:"permissions" bson:"permissions"`
	Analytics   Analytics   `json:"analytics" bson:"analytics"`
	Push        Push        `json:"push" bson:"push"`
}

// Identifiers holds the platform application identifiers.
type Identifiers struct {
	AndroidPackageName string `json:"android_package_name" bson:"android_package_name"`
	IOSBundleID        string `json:"ios_bundle_id" bson:"ios_bundle_id"`
}

// Icons holds the tenant icon asset sources.
type Icons struct {
	AppIconURL              string `json:"app_icon_url" bson:"app_icon_url"`
	AdaptiveForegroundURL   string `json:"adaptive_foreground_url" bson:"adaptive_foreground_url"`
	AdaptiveBackgroundColor string `json:"adaptive_background_color" bson:"adaptive_background_color"`
}

// Splash holds the tenant splash screen sources.
type Splash struct {
	ImageURL            string `json:"image_url" bson:"image_url"`
	BackgroundColor     string `json:"background_color" bson:"background_color"`
	ResizeMode          string `json:"resize_mode" bson:"resize_mode"`
	DarkImageURL        string `json:"dark_image_url" bson:"dark_image_url"`
	DarkBackgroundColor string `json:"dark_background_color" bson:"dark_background_color"`
}

// Font describes one custom font to download and register.
type Font struct {
	FamilyName string `json:"family_name" bson:"family_name"`
	URL        string `json:"url" bson:"url"`
	Weight     int    `json:"weight" bson:"weight"`
	Style      string `json:"style" bson:"style"`
}

// Permissions holds the capabilities the tenant opted into. A false flag
// means the capability must never be requested from the device.
type Permissions struct {
	Camera        bool `json:"camera" bson:"camera"`
	Photos        bool `json:"photos" bson:"photos"`
	Files         bool `json:"files" bson:"files"`
	Location      bool `json:"location" bson:"location"`
	Notifications bool `json:"notifications" bson:"notifications"`
}

// Analytics holds the analytics provider keys. An empty key disables the
// corresponding provider.
type Analytics struct {
	GA4ID     string `json:"ga4_id" bson:"ga4_id"`
	SentryDSN string `json:"sentry_dsn" bson:"sentry_dsn"`
}

// Push holds the push notification provider configuration.
type Push struct {
	FCMServerKey string      `json:"fcm_server_key" bson:"fcm_server_key"`
	Android      AndroidPush `json:"android" bson:"android"`
	APNS         APNSPush    `json:"apns" bson:"apns"`
}

// AndroidPush holds the FCM topic configuration.
type AndroidPush struct {
	Enable          bool   `json:"enable" bson:"enable"`
	TopicOrders     string `json:"topic_orders" bson:"topic_orders"`
	TopicPromotions string `json:"topic_promotions" bson:"topic_promotions"`
}

// APNSPush holds the APNS provider-token configuration.
type APNSPush struct {
	KeyID    string `json:"key_id" bson:"key_id"`
	TeamID   string `json:"team_id" bson:"team_id"`
	BundleID string `json:"bundle_id" bson:"bundle_id"`
	P8URL    string `json:"p8_url" bson:"p8_url"`
}

// Defaults returns the boot-time configuration: everything empty, every
// capability disabled.
func Defaults() Config {
	return Config{}
}

// clone returns a deep copy of the configuration.
func (c *Config) clone() *Config {
	out := *c
	if c.AppRequest.Fonts != nil {
		out.AppRequest.Fonts = make([]Font, len(c.AppRequest.Fonts))
		copy(out.AppRequest.Fonts, c.AppRequest.Fonts)
	}
	return &out
}
