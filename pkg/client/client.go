// Package client is a Go client for the catalog REST API.
//
// Authenticated calls take an explicit *Session obtained from Signup or
// Login. A session is rejected locally once it expires and is invalidated
// by Logout or by a 401 from the server.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"catalog/internal/models"

	"github.com/gofiber/fiber/v2"
)

const defaultTimeout = 10 * time.Second

// APIError is a non-2xx reply from the server.
type APIError struct {
	Status  int
	Reason  string `json:"error"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("catalog api: %d %s (%s)", e.Status, e.Reason, e.Message)
	}
	return fmt.Sprintf("catalog api: %d %s", e.Status, e.Reason)
}

// StatusCode returns the status of the API error in err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// SignupRequest is the body of a signup call.
type SignupRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobileNumber"`
	Password     string `json:"password"`
}

// Profile is the body of a profile update.
type Profile struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobileNumber"`
}

// ProductInput is the body of product create and update calls.
type ProductInput struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Category string `json:"category"`
	Company  string `json:"company"`
}

// Client talks to one catalog server.
type Client struct {
	baseURL string
	agents  *fiber.Client
	timeout time.Duration
	now     func() time.Time
}

// New returns a client for the server at baseURL, e.g. "http://localhost:3004".
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		agents:  &fiber.Client{},
		timeout: defaultTimeout,
		now:     time.Now,
	}
}

// Signup creates an account and returns its session.
func (c *Client) Signup(req SignupRequest) (*Session, error) {
	var out struct {
		User  models.User `json:"userResult"`
		Token string      `json:"auth"`
	}
	if err := c.send(fiber.MethodPost, "/signup", "", req, &out); err != nil {
		return nil, err
	}
	return newSession(out.User, out.Token)
}

// Login authenticates with email and password.
func (c *Client) Login(email, password string) (*Session, error) {
	var out struct {
		User  models.User `json:"user"`
		Token string      `json:"auth"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.send(fiber.MethodPost, "/login", "", body, &out); err != nil {
		return nil, err
	}
	return newSession(out.User, out.Token)
}

// Logout clears the session. Tokens are stateless, so nothing is sent to the server.
func (c *Client) Logout(s *Session) {
	s.invalidate()
}

// Products lists the catalog.
func (c *Client) Products(s *Session) ([]models.Product, error) {
	var out struct {
		Products []models.Product `json:"products"`
	}
	err := c.do(fiber.MethodGet, "/products", s, nil, &out)
	return out.Products, err
}

// Product fetches one product.
func (c *Client) Product(s *Session, id string) (*models.Product, error) {
	var out struct {
		Result models.Product `json:"result"`
	}
	if err := c.do(fiber.MethodGet, "/product/"+url.PathEscape(id), s, nil, &out); err != nil {
		return nil, err
	}
	return &out.Result, nil
}

// AddProduct creates a product.
func (c *Client) AddProduct(s *Session, in ProductInput) (*models.Product, error) {
	var out struct {
		Product models.Product `json:"product"`
	}
	if err := c.do(fiber.MethodPost, "/add-product", s, in, &out); err != nil {
		return nil, err
	}
	return &out.Product, nil
}

// UpdateProduct replaces every field of a product.
func (c *Client) UpdateProduct(s *Session, id string, in ProductInput) (*models.Product, error) {
	var out struct {
		Product models.Product `json:"updated_product"`
	}
	if err := c.do(fiber.MethodPut, "/product/"+url.PathEscape(id), s, in, &out); err != nil {
		return nil, err
	}
	return &out.Product, nil
}

// DeleteProduct removes a product and returns it.
func (c *Client) DeleteProduct(s *Session, id string) (*models.Product, error) {
	var out struct {
		Product models.Product `json:"deleted_product"`
	}
	if err := c.do(fiber.MethodDelete, "/product/"+url.PathEscape(id), s, nil, &out); err != nil {
		return nil, err
	}
	return &out.Product, nil
}

// Search returns the products containing key in any field.
func (c *Client) Search(s *Session, key string) ([]models.Product, error) {
	var out struct {
		Result []models.Product `json:"result"`
	}
	err := c.do(fiber.MethodGet, "/search/"+url.PathEscape(key), s, nil, &out)
	return out.Result, err
}

// UpdateProfile replaces the profile of user id. When id is the session's
// own user, the session is refreshed with the result.
func (c *Client) UpdateProfile(s *Session, id string, p Profile) (*models.User, error) {
	var out struct {
		User models.User `json:"updated_user"`
	}
	if err := c.do(fiber.MethodPut, "/profile/"+url.PathEscape(id), s, p, &out); err != nil {
		return nil, err
	}
	if s.User().ID == out.User.ID {
		s.setUser(out.User)
	}
	return &out.User, nil
}

// Users lists every account.
func (c *Client) Users(s *Session) ([]models.User, error) {
	var out struct {
		Users []models.User `json:"users"`
	}
	err := c.do(fiber.MethodGet, "/api/users", s, nil, &out)
	return out.Users, err
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(id string) (*models.User, error) {
	var out struct {
		User models.User `json:"deleted_user"`
	}
	if err := c.send(fiber.MethodDelete, "/api/users/"+url.PathEscape(id), "", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// do sends one request authorized by s. A 401 reply invalidates s.
func (c *Client) do(method, path string, s *Session, in, out any) error {
	token, err := s.bearer(c.now())
	if err != nil {
		return err
	}
	err = c.send(method, path, token, in, out)
	if StatusCode(err) == http.StatusUnauthorized {
		s.invalidate()
	}
	return err
}

// send performs the request. An empty token sends no Authorization header.
func (c *Client) send(method, path, token string, in, out any) error {
	var agent *fiber.Agent
	switch method {
	case fiber.MethodGet:
		agent = c.agents.Get(c.baseURL + path)
	case fiber.MethodPost:
		agent = c.agents.Post(c.baseURL + path)
	case fiber.MethodPut:
		agent = c.agents.Put(c.baseURL + path)
	case fiber.MethodDelete:
		agent = c.agents.Delete(c.baseURL + path)
	default:
		return fmt.Errorf("unsupported method %s", method)
	}

	agent.Timeout(c.timeout)
	if token != "" {
		agent.Set(fiber.HeaderAuthorization, "bearer "+token)
	}
	if in != nil {
		agent.JSON(in)
	}

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%s %s: %w", method, path, errors.Join(errs...))
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		apiErr := &APIError{Status: status}
		_ = json.Unmarshal(body, apiErr)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}
