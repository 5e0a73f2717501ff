package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"catalog/internal/database"
	"catalog/internal/handlers"
	"catalog/internal/middleware"
	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jwtSecret = "test_jwt_secret"

// setupApp sets up a Fiber app for testing with in-memory SQLite and all handlers/services.
func setupApp(t *testing.T) (*fiber.App, *services.AuthService) {
	t.Helper()
	return setupAppWithLogger(t, zerolog.Nop())
}

func setupAppWithLogger(t *testing.T, logger zerolog.Logger) (*fiber.App, *services.AuthService) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.OpenGORM("sqlite", dsn, logger)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	productRepo := repositories.NewGORMProductRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	productService := services.NewProductService(productRepo, nil, logger)
	userService := services.NewUserService(userRepo, nil, logger)
	authService := services.NewAuthService(userRepo, jwtSecret, time.Hour, nil, logger)

	app := fiber.New()
	auth := middleware.AuthRequired(authService, logger)
	handlers.NewProductHandler(productService, logger).RegisterRoutes(app, auth)
	handlers.NewAuthHandler(authService, logger).RegisterRoutes(app)
	handlers.NewUserHandler(userService, logger).RegisterRoutes(app, auth)

	return app, authService
}

type response struct {
	status int
	body   map[string]any
}

func (r response) object(key string) map[string]any {
	obj, _ := r.body[key].(map[string]any)
	return obj
}

func (r response) list(key string) []any {
	list, _ := r.body[key].([]any)
	return list
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body any) response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			encoded, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(encoded)
		}
		reader = bytes.NewBufferString(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := response{status: resp.StatusCode}
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(data) > 0 {
		require.NoError(t, json.Unmarshal(data, &out.body), string(data))
	}
	return out
}

func signup(t *testing.T, app *fiber.App) (string, string) {
	t.Helper()
	resp := doRequest(t, app, http.MethodPost, "/signup", "", map[string]string{
		"name":         "Jim Tool",
		"email":        "jim@x.com",
		"mobileNumber": "+971501234567",
		"password":     "pw",
	})
	require.Equal(t, http.StatusCreated, resp.status)
	return resp.object("userResult")["id"].(string), resp.body["auth"].(string)
}

func TestAuthHandlers(t *testing.T) {
	app, _ := setupApp(t)

	t.Run("Signup then login", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/signup", "", map[string]string{
			"name":         " Jim Tool ",
			"email":        "jim@x.com",
			"mobileNumber": "+971501234567",
			"password":     "pw",
		})
		require.Equal(t, http.StatusCreated, resp.status)

		user := resp.object("userResult")
		require.NotNil(t, user)
		assert.NotContains(t, user, "password")
		assert.Equal(t, "Jim Tool", user["name"])
		assert.NotEmpty(t, resp.body["auth"])

		login := doRequest(t, app, http.MethodPost, "/login", "", map[string]string{
			"email":    "jim@x.com",
			"password": "pw",
		})
		require.Equal(t, http.StatusCreated, login.status)
		assert.Equal(t, user["id"], login.object("user")["id"])
		assert.NotContains(t, login.object("user"), "password")
		assert.NotEmpty(t, login.body["auth"])
	})

	t.Run("Duplicate email", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/signup", "", map[string]string{
			"name":         "Jim Other",
			"email":        "jim@x.com",
			"mobileNumber": "+971501234568",
			"password":     "pw2",
		})
		assert.Equal(t, http.StatusConflict, resp.status)
	})

	t.Run("Wrong password", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/login", "", map[string]string{
			"email":    "jim@x.com",
			"password": "nope",
		})
		assert.Equal(t, http.StatusNotFound, resp.status)
		assert.Equal(t, "Incorrect details provided", resp.body["error"])
	})

	t.Run("Unknown email", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/login", "", map[string]string{
			"email":    "nobody@x.com",
			"password": "pw",
		})
		assert.Equal(t, http.StatusNotFound, resp.status)
	})

	t.Run("Invalid signup fields", func(t *testing.T) {
		tests := []struct {
			name    string
			body    map[string]string
			message string
		}{
			{
				name:    "single name",
				body:    map[string]string{"name": "Jim", "email": "a@b.com", "mobileNumber": "+971501234567", "password": "pw"},
				message: "Please enter a valid name",
			},
			{
				name:    "bad email",
				body:    map[string]string{"name": "Jim Tool", "email": "a@b", "mobileNumber": "+971501234567", "password": "pw"},
				message: "Please enter a valid email address",
			},
			{
				name:    "bad mobile",
				body:    map[string]string{"name": "Jim Tool", "email": "a@b.com", "mobileNumber": "0501234567", "password": "pw"},
				message: "Please enter a valid mobile number",
			},
			{
				name:    "extra field",
				body:    map[string]string{"name": "Jim Tool", "email": "a@b.com", "mobileNumber": "+971501234567", "password": "pw", "role": "admin"},
				message: "Invalid request body provided",
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				resp := doRequest(t, app, http.MethodPost, "/signup", "", tt.body)
				assert.Equal(t, http.StatusBadRequest, resp.status)
				assert.Equal(t, tt.message, resp.body["error"])
			})
		}
	})
}

func TestProductHandlers(t *testing.T) {
	app, _ := setupApp(t)
	_, token := signup(t, app)

	t.Run("Empty catalog", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodGet, "/products", token, nil)
		assert.Equal(t, http.StatusNotFound, resp.status)
		assert.Equal(t, "No products found", resp.body["error"])
	})

	var productID string

	t.Run("Create product", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/add-product", token, map[string]string{
			"name":     "  Phone ",
			"price":    "30",
			"category": "Mobile",
			"company":  "Acme",
		})
		require.Equal(t, http.StatusCreated, resp.status)

		product := resp.object("product")
		assert.Equal(t, "Phone", product["name"])
		assert.Equal(t, "30.00", product["price"])
		productID, _ = product["id"].(string)
		assert.NotEmpty(t, productID)
	})

	t.Run("Get product by ID", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodGet, "/product/"+productID, token, nil)
		require.Equal(t, http.StatusOK, resp.status)
		assert.Equal(t, "30.00", resp.object("result")["price"])
		assert.Equal(t, "Acme", resp.object("result")["company"])
	})

	t.Run("Duplicate product", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/add-product", token, map[string]string{
			"name":     "Phone",
			"price":    "30.0",
			"category": "Mobile",
			"company":  "Acme",
		})
		assert.Equal(t, http.StatusConflict, resp.status)
		assert.Equal(t, "Product already exists", resp.body["error"])
	})

	t.Run("Invalid price", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/add-product", token, map[string]string{
			"name":     "Tablet",
			"price":    "abc",
			"category": "Mobile",
			"company":  "Acme",
		})
		assert.Equal(t, http.StatusBadRequest, resp.status)
		assert.Equal(t, "Please enter a valid price", resp.body["error"])
		assert.Equal(t, "InvalidFormat:price", resp.body["message"])
	})

	t.Run("Missing field", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/add-product", token, map[string]string{
			"name":  "Tablet",
			"price": "10",
		})
		assert.Equal(t, http.StatusBadRequest, resp.status)
	})

	t.Run("Malformed body", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/add-product", token, "{not json")
		assert.Equal(t, http.StatusBadRequest, resp.status)
		assert.Equal(t, "Invalid request body provided", resp.body["error"])
	})

	t.Run("Update product", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPut, "/product/"+productID, token, map[string]string{
			"name":     "Phone X",
			"price":    "45.5",
			"category": "Mobile",
			"company":  "Acme",
		})
		require.Equal(t, http.StatusOK, resp.status)
		assert.Equal(t, "Phone X", resp.object("updated_product")["name"])
		assert.Equal(t, "45.50", resp.object("updated_product")["price"])
	})

	t.Run("Update missing product", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPut, "/product/"+uuid.NewString(), token, map[string]string{
			"name":     "Ghost",
			"price":    "1",
			"category": "None",
			"company":  "Nobody",
		})
		assert.Equal(t, http.StatusNotFound, resp.status)
	})

	t.Run("Search", func(t *testing.T) {
		create := doRequest(t, app, http.MethodPost, "/add-product", token, map[string]string{
			"name":     "a.b* cable",
			"price":    "2.5",
			"category": "Accessories",
			"company":  "ABC Corp",
		})
		require.Equal(t, http.StatusCreated, create.status)

		resp := doRequest(t, app, http.MethodGet, "/search/abc", token, nil)
		require.Equal(t, http.StatusOK, resp.status)
		assert.Len(t, resp.list("result"), 1)

		resp = doRequest(t, app, http.MethodGet, "/search/a.b%2A", token, nil)
		require.Equal(t, http.StatusOK, resp.status)
		assert.Len(t, resp.list("result"), 1)

		resp = doRequest(t, app, http.MethodGet, "/search/a%25b", token, nil)
		assert.Equal(t, http.StatusNotFound, resp.status)
		assert.Equal(t, "No product(s) found by search", resp.body["error"])
	})

	t.Run("List products", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodGet, "/products", token, nil)
		require.Equal(t, http.StatusOK, resp.status)
		assert.Len(t, resp.list("products"), 2)
	})

	t.Run("Delete product twice", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodDelete, "/product/"+productID, token, nil)
		require.Equal(t, http.StatusOK, resp.status)
		assert.Equal(t, productID, resp.object("deleted_product")["id"])

		resp = doRequest(t, app, http.MethodDelete, "/product/"+productID, token, nil)
		assert.Equal(t, http.StatusNotFound, resp.status)
		assert.Equal(t, "Product not found", resp.body["error"])
	})
}

func TestAuthGate(t *testing.T) {
	app, authService := setupApp(t)

	t.Run("No token", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodGet, "/products", "", nil)
		assert.Equal(t, http.StatusForbidden, resp.status)
		assert.Equal(t, "Please provide a token", resp.body["error"])
	})

	t.Run("Invalid token", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodGet, "/products", "not-a-token", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.status)
		assert.Equal(t, "Please provide a valid token", resp.body["error"])
	})

	t.Run("Expired token", func(t *testing.T) {
		expired := services.NewAuthService(nil, jwtSecret, -time.Minute, nil, zerolog.Nop())
		token, err := expired.IssueToken(models.User{ID: "u1", Name: "Jim Tool"})
		require.NoError(t, err)

		resp := doRequest(t, app, http.MethodPost, "/add-product", token, map[string]string{
			"name": "Phone", "price": "1", "category": "c", "company": "d",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.status)
	})

	t.Run("Valid token reaches handler", func(t *testing.T) {
		token, err := authService.IssueToken(models.User{ID: "u1", Name: "Jim Tool"})
		require.NoError(t, err)

		resp := doRequest(t, app, http.MethodGet, "/products", token, nil)
		assert.Equal(t, http.StatusNotFound, resp.status)
		assert.Equal(t, "No products found", resp.body["error"])
	})
}

func TestUserHandlers(t *testing.T) {
	app, _ := setupApp(t)
	userID, token := signup(t, app)

	t.Run("List users", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodGet, "/api/users", token, nil)
		require.Equal(t, http.StatusOK, resp.status)
		users := resp.list("users")
		require.Len(t, users, 1)
		assert.NotContains(t, users[0], "password")
	})

	t.Run("Update profile", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPut, "/profile/"+userID, token, map[string]string{
			"name":         "James Tool",
			"email":        "james@x.com",
			"mobileNumber": "+971501234567",
		})
		require.Equal(t, http.StatusOK, resp.status)
		assert.Equal(t, "James Tool", resp.object("updated_user")["name"])
		assert.Equal(t, "james@x.com", resp.object("updated_user")["email"])
	})

	t.Run("Update missing profile", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPut, "/profile/"+uuid.NewString(), token, map[string]string{
			"name":         "James Tool",
			"email":        "james@x.com",
			"mobileNumber": "+971501234567",
		})
		assert.Equal(t, http.StatusNotFound, resp.status)
		assert.Equal(t, "User not found", resp.body["error"])
	})

	t.Run("Update profile requires token", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPut, "/profile/"+userID, "", map[string]string{
			"name":         "James Tool",
			"email":        "james@x.com",
			"mobileNumber": "+971501234567",
		})
		assert.Equal(t, http.StatusForbidden, resp.status)
	})

	t.Run("Delete user twice", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodDelete, "/api/users/"+userID, "", nil)
		require.Equal(t, http.StatusOK, resp.status)
		assert.Equal(t, userID, resp.object("deleted_user")["id"])

		resp = doRequest(t, app, http.MethodDelete, "/api/users/"+userID, "", nil)
		assert.Equal(t, http.StatusNotFound, resp.status)
	})
}

func TestUpdateProfile_LogsActingUser(t *testing.T) {
	var buf bytes.Buffer
	app, _ := setupAppWithLogger(t, zerolog.New(&buf))
	userID, token := signup(t, app)

	resp := doRequest(t, app, http.MethodPut, "/profile/"+userID, token, map[string]string{
		"name":         "James Tool",
		"email":        "jim@x.com",
		"mobileNumber": "+971501234567",
	})
	require.Equal(t, http.StatusOK, resp.status)

	assert.Contains(t, buf.String(), `"actor_id":"`+userID+`"`)
	assert.Contains(t, buf.String(), `"self":true`)
}
