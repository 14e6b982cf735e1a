package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppRequestData_Validate(t *testing.T) {
	tests := []struct {
		name          string
		request       AppRequestData
		expectedError error
	}{
		{
			name:    "valid with app name",
			request: AppRequestData{AppDetails: AppDetails{AppName: "Acme Store"}},
		},
		{
			name: "valid with branding only",
			request: AppRequestData{AppDetails: AppDetails{
				CustomBranding: &CustomBranding{AppName: "Acme"},
			}},
		},
		{
			name:          "empty payload",
			request:       AppRequestData{},
			expectedError: ErrMissingAppDetails,
		},
		{
			name: "font without url",
			request: AppRequestData{AppDetails: AppDetails{
				AppName: "Acme",
				Fonts:   []Font{{FamilyName: "Inter"}},
			}},
			expectedError: ErrMissingFontURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAppRequestData_UnmarshalWireFormat(t *testing.T) {
	payload := `{
		"appDetails": {
			"appName": "Acme Store",
			"customBranding": {"logo": "https://cdn/logo.png", "colors": {"primary": "#ff0000"}},
			"identifiers": {"androidPackageName": "com.acme.store", "iosBundleId": "com.acme.Store"},
			"fonts": [{"familyName": "Inter", "url": "https://cdn/inter.ttf", "weight": 400, "style": "normal"}],
			"permissions": {"camera": true, "notifications": true},
			"analytics": {"ga4Id": "G-TEST", "sentryDsn": "https://key@sentry.io/42"},
			"push": {"fcmServerKey": "server-key", "android": {"enable": true, "topicOrders": "orders"}}
		}
	}`

	var req AppRequestData
	require.NoError(t, json.Unmarshal([]byte(payload), &req))

	assert.Equal(t, "Acme Store", req.AppDetails.AppName)
	require.NotNil(t, req.AppDetails.CustomBranding)
	assert.Equal(t, "https://cdn/logo.png", req.AppDetails.CustomBranding.Logo)
	require.NotNil(t, req.AppDetails.Identifiers)
	assert.Equal(t, "com.acme.store", req.AppDetails.Identifiers.AndroidPackageName)
	require.Len(t, req.AppDetails.Fonts, 1)
	assert.Equal(t, 400, req.AppDetails.Fonts[0].Weight)
	require.NotNil(t, req.AppDetails.Permissions)
	assert.True(t, req.AppDetails.Permissions.Camera)
	assert.False(t, req.AppDetails.Permissions.Location)
}

func TestAppRequestData_ToInjectorRequest(t *testing.T) {
	req := AppRequestData{AppDetails: AppDetails{
		AppName: "Acme Store",
		CustomBranding: &CustomBranding{
			Logo:   "https://cdn/logo.png",
			Colors: &Colors{Primary: "#ff0000", Text: "#111111"},
		},
		Identifiers: &Identifiers{AndroidPackageName: "com.acme.store"},
		Splash:      &Splash{ImageURL: "https://cdn/splash.png", DarkImageURL: "https://cdn/splash-dark.png"},
		Fonts:       []Font{{FamilyName: "Inter", URL: "https://cdn/inter.ttf", Weight: 700, Style: "italic"}},
		Permissions: &Permissions{Camera: true},
		Analytics:   &Analytics{GA4ID: "G-TEST"},
		Push: &Push{
			FCMServerKey: "server-key",
			Android:      &AndroidPush{Enable: true, TopicOrders: "orders"},
		},
	}}

	out := req.ToInjectorRequest()

	assert.Equal(t, "Acme Store", out.AppName)
	assert.Equal(t, "https://cdn/logo.png", out.LogoURL)
	assert.Equal(t, "#ff0000", out.Colors.Primary)
	assert.Equal(t, "com.acme.store", out.Request.Identifiers.AndroidPackageName)
	assert.Equal(t, "https://cdn/splash-dark.png", out.Request.Splash.DarkImageURL)
	require.Len(t, out.Request.Fonts, 1)
	assert.Equal(t, 700, out.Request.Fonts[0].Weight)
	assert.True(t, out.Request.Permissions.Camera)
	assert.False(t, out.Request.Permissions.Photos)
	assert.Equal(t, "G-TEST", out.Request.Analytics.GA4ID)
	assert.Equal(t, "server-key", out.Request.Push.FCMServerKey)
	assert.Equal(t, "orders", out.Request.Push.Android.TopicOrders)
}

func TestAppRequestData_ToInjectorRequest_BrandingNameOverrides(t *testing.T) {
	req := AppRequestData{AppDetails: AppDetails{
		AppName:        "Default Name",
		CustomBranding: &CustomBranding{AppName: "Branded Name"},
	}}

	out := req.ToInjectorRequest()
	assert.Equal(t, "Branded Name", out.AppName)
}

func TestAppRequestData_ToInjectorRequest_EmptySubObjects(t *testing.T) {
	req := AppRequestData{AppDetails: AppDetails{AppName: "Plain"}}

	out := req.ToInjectorRequest()

	assert.Equal(t, "Plain", out.AppName)
	assert.Empty(t, out.Request.Fonts)
	assert.False(t, out.Request.Permissions.Camera)
	assert.Empty(t, out.Request.Analytics.GA4ID)
	assert.Empty(t, out.Request.Push.FCMServerKey)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Field: "appDetails", Message: "is required"}
	assert.Equal(t, "appDetails: is required", err.Error())
}
