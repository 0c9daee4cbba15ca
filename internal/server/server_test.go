package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"pawtopia/internal/auth"
	"pawtopia/internal/config"
	"pawtopia/internal/database"
	"pawtopia/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestServer builds a Server on an in-memory database, with no Redis,
// and a Fiber app carrying the full route table.
func setupTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := &config.Config{
		Port:      "0",
		JWTSecret: "test-secret-key",
		UploadDir: t.TempDir(),
		Env:       "test",
	}
	srv, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	app := srv.newApp()
	srv.SetupRoutes(app)
	return srv, app
}

// createUser inserts a user directly and returns it with a valid token.
func createUser(t *testing.T, srv *Server, username string, role models.UserRole) (*models.User, string) {
	t.Helper()

	hashed, err := auth.HashPassword("password123")
	require.NoError(t, err)

	user := &models.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  hashed,
		FirstName: "Test",
		LastName:  "User",
		UserType:  role,
	}
	require.NoError(t, srv.userRepo.Create(context.Background(), user))

	token, err := srv.tokens.Issue(user.ID)
	require.NoError(t, err)
	return user, token
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, app *fiber.App, method, path string, body any, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func validListingBody(title string) map[string]any {
	return map[string]any{
		"title": title,
		"details": map[string]any{
			"animalType": "cat",
			"name":       title,
			"age":        "adult",
			"gender":     "female",
			"location":   map[string]any{"country": "USA", "city": "Portland"},
		},
		"contactDetails": map[string]any{"email": "owner@example.com"},
	}
}

func TestRegister(t *testing.T) {
	_, app := setupTestServer(t)

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantRole   string
	}{
		{
			name: "valid with explicit role",
			body: map[string]any{
				"username": "alice", "password": "pw", "email": "alice@example.com",
				"firstName": "Alice", "lastName": "Smith", "userType": "paw-guardian",
			},
			wantStatus: fiber.StatusCreated,
			wantRole:   "paw-guardian",
		},
		{
			name: "role inferred from survey",
			body: map[string]any{
				"username": "bob", "password": "pw", "email": "bob@example.com",
				"firstName": "Bob", "lastName": "Jones",
				"surveyResults": map[string]any{"purpose": "looking-pet"},
			},
			wantStatus: fiber.StatusCreated,
			wantRole:   "paw-seeker",
		},
		{
			name: "admin request downgraded",
			body: map[string]any{
				"username": "eve", "password": "pw", "email": "eve@example.com",
				"firstName": "Eve", "lastName": "Adams", "userType": "paw-admin",
			},
			wantStatus: fiber.StatusCreated,
			wantRole:   "other",
		},
		{
			name: "missing email",
			body: map[string]any{
				"username": "carol", "password": "pw",
				"firstName": "Carol", "lastName": "White",
			},
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name: "duplicate username",
			body: map[string]any{
				"username": "alice", "password": "pw", "email": "alice2@example.com",
				"firstName": "Alice", "lastName": "Clone",
			},
			wantStatus: fiber.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, "POST", "/auth/register", tt.body, "")
			require.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantRole != "" {
				var user map[string]any
				decodeBody(t, resp, &user)
				require.Equal(t, tt.wantRole, user["userType"])
				require.Nil(t, user["password"], "password must never be serialized")
			}
		})
	}
}

func TestLoginAndMe(t *testing.T) {
	srv, app := setupTestServer(t)
	createUser(t, srv, "alice", models.RoleSeeker)

	resp := doJSON(t, app, "POST", "/auth/login",
		map[string]string{"username": "alice", "password": "password123"}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	require.NotEmpty(t, body["token"])

	resp = doJSON(t, app, "GET", "/auth/user", nil, body["token"])
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var me map[string]any
	decodeBody(t, resp, &me)
	require.Equal(t, "alice", me["username"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	srv, app := setupTestServer(t)
	createUser(t, srv, "alice", models.RoleSeeker)

	resp := doJSON(t, app, "POST", "/auth/login",
		map[string]string{"username": "alice", "password": "wrong"}, "")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/auth/login",
		map[string]string{"username": "nobody", "password": "password123"}, "")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthGate(t *testing.T) {
	_, app := setupTestServer(t)

	resp := doJSON(t, app, "GET", "/auth/user", nil, "")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/auth/user", nil, "not-a-token")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestListingLifecycle(t *testing.T) {
	srv, app := setupTestServer(t)
	_, ownerToken := createUser(t, srv, "owner", models.RoleGuardian)
	_, adminToken := createUser(t, srv, "admin", models.RoleAdmin)

	// Create: server assigns owner and pending state.
	resp := doJSON(t, app, "POST", "/listing", validListingBody("Whiskers"), ownerToken)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var listing map[string]any
	decodeBody(t, resp, &listing)
	require.Equal(t, false, listing["isApproved"])
	id := int(listing["id"].(float64))

	// Pending listings are invisible on the public list.
	resp = doJSON(t, app, "GET", "/listing", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var page map[string]any
	decodeBody(t, resp, &page)
	require.Empty(t, page["items"])

	// Admins see the pending listing.
	resp = doJSON(t, app, "GET", "/listing", nil, adminToken)
	decodeBody(t, resp, &page)
	require.Len(t, page["items"], 1)

	// Approval flips public visibility.
	resp = doJSON(t, app, "PUT", fmt.Sprintf("/listing/%d/approve", id), nil, adminToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/listing", nil, "")
	decodeBody(t, resp, &page)
	require.Len(t, page["items"], 1)
	require.EqualValues(t, 1, page["metaData"].(map[string]any)["totalCount"])
}

func TestListingRejectIsTerminal(t *testing.T) {
	srv, app := setupTestServer(t)
	_, ownerToken := createUser(t, srv, "owner", models.RoleGuardian)
	_, adminToken := createUser(t, srv, "admin", models.RoleAdmin)

	resp := doJSON(t, app, "POST", "/listing", validListingBody("Whiskers"), ownerToken)
	var listing map[string]any
	decodeBody(t, resp, &listing)
	id := int(listing["id"].(float64))

	resp = doJSON(t, app, "PUT", fmt.Sprintf("/listing/%d/reject", id), nil, adminToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, "GET", fmt.Sprintf("/listing/%d", id), nil, "")
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestListingApprovalGateIsAdminOnly(t *testing.T) {
	srv, app := setupTestServer(t)
	_, ownerToken := createUser(t, srv, "owner", models.RoleGuardian)

	resp := doJSON(t, app, "POST", "/listing", validListingBody("Whiskers"), ownerToken)
	var listing map[string]any
	decodeBody(t, resp, &listing)
	id := int(listing["id"].(float64))

	// Even the owner cannot approve their own listing.
	resp = doJSON(t, app, "PUT", fmt.Sprintf("/listing/%d/approve", id), nil, ownerToken)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestListingOwnershipGate(t *testing.T) {
	srv, app := setupTestServer(t)
	_, ownerToken := createUser(t, srv, "owner", models.RoleGuardian)
	_, strangerToken := createUser(t, srv, "stranger", models.RoleSeeker)
	_, adminToken := createUser(t, srv, "admin", models.RoleAdmin)

	resp := doJSON(t, app, "POST", "/listing", validListingBody("Whiskers"), ownerToken)
	var listing map[string]any
	decodeBody(t, resp, &listing)
	id := int(listing["id"].(float64))
	path := fmt.Sprintf("/listing/%d", id)

	// A non-owner cannot edit.
	resp = doJSON(t, app, "PUT", path, validListingBody("Hijacked"), strangerToken)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// The owner can.
	resp = doJSON(t, app, "PUT", path, validListingBody("Renamed"), ownerToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// So can an admin.
	resp = doJSON(t, app, "PUT", path, validListingBody("Admin renamed"), adminToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Deleting follows the same gate.
	resp = doJSON(t, app, "DELETE", path, nil, strangerToken)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	resp = doJSON(t, app, "DELETE", path, nil, ownerToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGetMyListings(t *testing.T) {
	srv, app := setupTestServer(t)
	_, ownerToken := createUser(t, srv, "owner", models.RoleGuardian)
	_, otherToken := createUser(t, srv, "other", models.RoleGuardian)

	doJSON(t, app, "POST", "/listing", validListingBody("Mine"), ownerToken)
	doJSON(t, app, "POST", "/listing", validListingBody("Not mine"), otherToken)

	resp := doJSON(t, app, "GET", "/listing/user", nil, ownerToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var page struct {
		Items []models.Listing `json:"items"`
	}
	decodeBody(t, resp, &page)
	require.Len(t, page.Items, 1)
	require.Equal(t, "Mine", page.Items[0].Title)
}

func TestListingInvalidID(t *testing.T) {
	_, app := setupTestServer(t)

	resp := doJSON(t, app, "GET", "/listing/abc", nil, "")
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestListingMalformedFilter(t *testing.T) {
	_, app := setupTestServer(t)

	resp := doJSON(t, app, "GET", "/listing?filter={bad", nil, "")
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestFavoritesFlow(t *testing.T) {
	srv, app := setupTestServer(t)
	_, ownerToken := createUser(t, srv, "owner", models.RoleGuardian)
	_, seekerToken := createUser(t, srv, "seeker", models.RoleSeeker)

	resp := doJSON(t, app, "POST", "/listing", validListingBody("Whiskers"), ownerToken)
	var listing map[string]any
	decodeBody(t, resp, &listing)
	id := int(listing["id"].(float64))

	// Toggle on.
	resp = doJSON(t, app, "POST", fmt.Sprintf("/user/favorites/%d", id), nil, seekerToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/user/favorites/all", nil, seekerToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var favorites []models.Listing
	decodeBody(t, resp, &favorites)
	require.Len(t, favorites, 1)

	// Toggle off.
	resp = doJSON(t, app, "POST", fmt.Sprintf("/user/favorites/%d", id), nil, seekerToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/user/favorites/all", nil, seekerToken)
	decodeBody(t, resp, &favorites)
	require.Empty(t, favorites)
}

func TestUserAdminCRUD(t *testing.T) {
	srv, app := setupTestServer(t)
	_, seekerToken := createUser(t, srv, "seeker", models.RoleSeeker)
	_, adminToken := createUser(t, srv, "admin", models.RoleAdmin)

	// Non-admins are rejected.
	resp := doJSON(t, app, "GET", "/user", nil, seekerToken)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/user", nil, adminToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var page map[string]any
	decodeBody(t, resp, &page)
	require.Len(t, page["items"], 2)

	// Admin creation stores the role as given, including admin.
	resp = doJSON(t, app, "POST", "/user", map[string]any{
		"username": "root2", "password": "pw", "email": "root2@example.com",
		"userType": "paw-admin",
	}, adminToken)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created map[string]any
	decodeBody(t, resp, &created)
	require.Equal(t, "paw-admin", created["userType"])

	// Admin update.
	id := int(created["id"].(float64))
	resp = doJSON(t, app, "PUT", fmt.Sprintf("/user/%d", id),
		map[string]any{"city": "Denver"}, adminToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated map[string]any
	decodeBody(t, resp, &updated)
	require.Equal(t, "Denver", updated["city"])
}

func TestImageUploadAndFetch(t *testing.T) {
	srv, app := setupTestServer(t)
	_, token := createUser(t, srv, "alice", models.RoleSeeker)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "cat.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/image/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var image map[string]any
	decodeBody(t, resp, &image)
	require.Equal(t, "cat.jpg", image["filename"])
	id := int(image["id"].(float64))

	// The stored file is served back.
	resp = doJSON(t, app, "GET", fmt.Sprintf("/image/%d", id), nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "fake image bytes", string(body))
}

func TestImageUploadRequiresFile(t *testing.T) {
	srv, app := setupTestServer(t)
	_, token := createUser(t, srv, "alice", models.RoleSeeker)

	resp := doJSON(t, app, "POST", "/image/upload", nil, token)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHealthEndpoints(t *testing.T) {
	_, app := setupTestServer(t)

	resp := doJSON(t, app, "GET", "/health/live", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/health/ready", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestUnmatchedRouteReturns404(t *testing.T) {
	_, app := setupTestServer(t)

	// Framework errors keep their own status instead of collapsing to 500.
	resp := doJSON(t, app, "GET", "/nonexistent", nil, "")
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, "PATCH", "/listing", nil, "")
	require.Equal(t, fiber.StatusMethodNotAllowed, resp.StatusCode)
}
