package handlers

import (
	"net/url"

	"catalog/internal/services"
	"catalog/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

var (
	listProducts   = outcome{action: "retrieving all products", notFound: "No products found"}
	addProduct     = outcome{action: "adding a product", conflict: "Product already exists"}
	getProduct     = outcome{action: "retrieving a product", notFound: "Product not found"}
	updateProduct  = outcome{action: "updating a product", notFound: "Product not found", conflict: "Product already exists"}
	deleteProduct  = outcome{action: "deleting a product", notFound: "Product not found"}
	searchProducts = outcome{action: "searching for a product", notFound: "No product(s) found by search"}
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
	responder
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service:   service,
		responder: responder{logger: logger.With().Str("component", "product_handler").Logger()},
	}
}

// RegisterRoutes registers the product routes behind auth.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Get("/products", auth, h.HandleGetProducts)
	router.Post("/add-product", auth, h.HandleCreateProduct)
	router.Get("/product/:id", auth, h.HandleGetProductByID)
	router.Put("/product/:id", auth, h.HandleUpdateProduct)
	router.Delete("/product/:id", auth, h.HandleDeleteProduct)
	router.Get("/search/:key", auth, h.HandleSearchProducts)
}

// HandleGetProducts lists the catalog.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return h.fail(c, err, listProducts)
	}
	return c.JSON(fiber.Map{"products": products})
}

// HandleCreateProduct adds a product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	values, err := h.bind(c, validation.ProductSchema)
	if err != nil {
		return h.fail(c, err, addProduct)
	}
	product, err := h.service.CreateProduct(c.UserContext(), values)
	if err != nil {
		return h.fail(c, err, addProduct)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"product": product})
}

// HandleGetProductByID fetches one product.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err, getProduct)
	}
	return c.JSON(fiber.Map{"result": product})
}

// HandleUpdateProduct replaces all fields of a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	values, err := h.bind(c, validation.ProductSchema)
	if err != nil {
		return h.fail(c, err, updateProduct)
	}
	product, err := h.service.UpdateProduct(c.UserContext(), c.Params("id"), values)
	if err != nil {
		return h.fail(c, err, updateProduct)
	}
	return c.JSON(fiber.Map{"updated_product": product})
}

// HandleDeleteProduct removes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	product, err := h.service.DeleteProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err, deleteProduct)
	}
	return c.JSON(fiber.Map{"deleted_product": product})
}

// HandleSearchProducts matches the key against every product field.
func (h *ProductHandler) HandleSearchProducts(c *fiber.Ctx) error {
	key := c.Params("key")
	if unescaped, err := url.PathUnescape(key); err == nil {
		key = unescaped
	}
	products, err := h.service.SearchProducts(c.UserContext(), key)
	if err != nil {
		return h.fail(c, err, searchProducts)
	}
	return c.JSON(fiber.Map{"result": products})
}
