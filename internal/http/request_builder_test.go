package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeforge/appcore/internal/domain/dto"
	"github.com/storeforge/appcore/internal/i18n"
	"github.com/storeforge/appcore/internal/middleware"
)

func TestRequestBuilder_Bind(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name         string
		body         string
		expectedName string
		expectError  bool
	}{
		{
			name:         "valid request",
			body:         `{"name": "screen_view"}`,
			expectedName: "screen_view",
			expectError:  false,
		},
		{
			name:        "invalid JSON",
			body:        `{"name": invalid}`,
			expectError: true,
		},
		{
			name:        "empty body",
			body:        ``,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			c.Request = req

			builder := NewRequestBuilder(c)
			var request dto.AnalyticsEventRequest
			err := builder.Bind(&request)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedName, request.Name)
			}
		})
	}
}

func TestUnmarshalFromBytes(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		expectError bool
	}{
		{
			name:        "valid JSON",
			data:        []byte(`{"name": "add_to_cart"}`),
			expectError: false,
		},
		{
			name:        "invalid JSON",
			data:        []byte(`{"name": invalid}`),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := UnmarshalFromBytes[dto.AnalyticsEventRequest](tt.data)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, result)
				assert.Equal(t, "add_to_cart", result.Name)
			}
		})
	}
}

func TestUnmarshalFromReader(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		expectError bool
	}{
		{
			name:        "valid JSON",
			body:        `{"appDetails": {"appName": "Aurora Shop"}}`,
			expectError: false,
		},
		{
			name:        "invalid JSON",
			body:        `{"appDetails": invalid}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := bytes.NewBufferString(tt.body)
			result, err := UnmarshalFromReader[dto.AppRequestData](reader)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, result)
				assert.Equal(t, "Aurora Shop", result.AppDetails.AppName)
			}
		})
	}
}

func TestBuildRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		body        string
		expectError bool
	}{
		{
			name:        "valid request",
			body:        `{"appDetails": {"appName": "Aurora Shop"}}`,
			expectError: false,
		},
		{
			name:        "invalid JSON",
			body:        `{"appDetails": invalid}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			c.Request = req

			result, err := BuildRequest[dto.AppRequestData](c)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, result)
				assert.Equal(t, "Aurora Shop", result.AppDetails.AppName)
			}
		})
	}
}

func TestBuildRequestAndValidate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		body        string
		expectError bool
	}{
		{
			name:        "valid request",
			body:        `{"appDetails": {"appName": "Aurora Shop"}}`,
			expectError: false,
		},
		{
			name:        "invalid request - font without url",
			body:        `{"appDetails": {"appName": "Aurora Shop", "fonts": [{"familyName": "Inter"}]}}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			c.Request = req

			result, err := BuildRequestAndValidate[dto.AppRequestData](c)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, result)
				assert.Equal(t, "Aurora Shop", result.AppDetails.AppName)
			}
		})
	}
}

func TestResponseBuilder_ErrorWithKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	middleware.RequestID()(c)
	builder := NewResponseBuilder(c)

	builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var errorResp dto.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &errorResp)
	assert.NoError(t, err)
	assert.Equal(t, dto.ErrCodeInvalidRequest, errorResp.Error)
	assert.NotEmpty(t, errorResp.Message)
}

func TestResponseBuilder_ErrorWithCustomMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	middleware.RequestID()(c)
	builder := NewResponseBuilder(c)

	customMessage := "Custom error message"
	builder.ErrorWithMessage(http.StatusBadRequest, customMessage, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var errorResp dto.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &errorResp)
	assert.NoError(t, err)
	assert.Equal(t, customMessage, errorResp.Message)
}

func TestMarshalJSON(t *testing.T) {
	data := dto.AnalyticsEventRequest{Name: "checkout_started"}
	result, err := MarshalJSON(data)

	assert.NoError(t, err)
	assert.NotNil(t, result)

	var unmarshaled dto.AnalyticsEventRequest
	err = json.Unmarshal(result, &unmarshaled)
	assert.NoError(t, err)
	assert.Equal(t, "checkout_started", unmarshaled.Name)
}

func TestMarshalToWriter(t *testing.T) {
	data := dto.AnalyticsEventRequest{Name: "checkout_started"}
	var buf bytes.Buffer

	err := MarshalToWriter(&buf, data)
	assert.NoError(t, err)

	var result dto.AnalyticsEventRequest
	err = json.Unmarshal(buf.Bytes(), &result)
	assert.NoError(t, err)
	assert.Equal(t, "checkout_started", result.Name)
}
