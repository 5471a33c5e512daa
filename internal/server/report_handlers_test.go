package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"findtogether/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetReports(t *testing.T) {
	postID := "p1"
	mockReports := new(MockReportRepository)
	s := &Server{reportRepo: mockReports}

	app := fiber.New()
	app.Get("/api/reports", s.GetReports)

	// Attached and standalone reports come back together.
	mockReports.On("ListAll", mock.Anything).Return([]*models.Report{
		{ID: "r2", PostID: &postID, Lat: 37.6, Lng: 127.1},
		{ID: "r1", Lat: 37.5, Lng: 127.0},
	}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/reports", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var reports []models.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reports))
	require.Len(t, reports, 2)
	assert.NotNil(t, reports[0].PostID)
	assert.Nil(t, reports[1].PostID)
}

func TestCreateGlobalReport(t *testing.T) {
	mockReports := new(MockReportRepository)
	s := &Server{config: testConfig(), reportRepo: mockReports, store: newTestStore(t)}

	app := fiber.New()
	app.Post("/api/report", s.CreateGlobalReport)

	tests := []struct {
		name           string
		fields         map[string]string
		mockSetup      func()
		expectedStatus int
	}{
		{
			name: "Success",
			fields: map[string]string{
				"description": "stray dog near the bridge",
				"lat":         "37.55",
				"lng":         "126.99",
			},
			mockSetup: func() {
				mockReports.On("Create", mock.Anything, mock.MatchedBy(func(r *models.Report) bool {
					if r.Lat != 37.55 || r.Lng != 126.99 || r.PostID != nil {
						return false
					}
					// Sighting time is stamped server-side.
					_, err := time.Parse(time.RFC3339, r.Time)
					return err == nil
				})).Return(nil).Once()
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Missing description",
			fields: map[string]string{
				"lat": "37.55",
				"lng": "126.99",
			},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Missing coordinates",
			fields: map[string]string{
				"description": "stray dog",
			},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Unparseable coordinates",
			fields: map[string]string{
				"description": "stray dog",
				"lat":         "north",
				"lng":         "126.99",
			},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Non-finite coordinates",
			fields: map[string]string{
				"description": "stray dog",
				"lat":         "NaN",
				"lng":         "126.99",
			},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			body, contentType := multipartBody(t, tt.fields, "", nil)
			req := httptest.NewRequest(http.MethodPost, "/api/report", body)
			req.Header.Set("Content-Type", contentType)

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}

	mockReports.AssertExpectations(t)
}

func TestUpdateNickname(t *testing.T) {
	mockUsers := new(MockUserRepository)
	s := &Server{config: testConfig(), userRepo: mockUsers}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", "user-1")
		return c.Next()
	})
	app.Patch("/api/user/nickname", s.UpdateNickname)

	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func()
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]string{"nickname": "캡틴"},
			mockSetup: func() {
				mockUsers.On("UpdateNickname", mock.Anything, "user-1", "캡틴").
					Return(&models.User{ID: "user-1", Username: "finder", Nickname: "캡틴"}, nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Empty nickname",
			body:           map[string]string{"nickname": ""},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Unknown user",
			body: map[string]string{"nickname": "ghost"},
			mockSetup: func() {
				mockUsers.On("UpdateNickname", mock.Anything, "user-1", "ghost").
					Return(nil, models.NewNotFoundError("User", "user-1")).Once()
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			resp, err := app.Test(jsonRequest(t, http.MethodPatch, "/api/user/nickname", tt.body))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}

	mockUsers.AssertExpectations(t)
}
