package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"undian/internal/store"
)

// CustomerHandler handles customer lookup and maintenance for the admin
// console.
type CustomerHandler struct {
	store    *store.Store
	validate *validator.Validate
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(st *store.Store) *CustomerHandler {
	return &CustomerHandler{
		store:    st,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the customer routes on an admin-protected group.
func (h *CustomerHandler) RegisterRoutes(router fiber.Router) {
	customerRoutes := router.Group("/customers")
	customerRoutes.Get("/", h.HandleListCustomers)
	customerRoutes.Get("/:id", h.HandleGetCustomer)
	customerRoutes.Put("/:id", h.HandleUpdateCustomer)
	customerRoutes.Delete("/:id", h.HandleDeleteCustomer)
}

// HandleListCustomers searches customers by name, NIK or phone fragment.
func (h *CustomerHandler) HandleListCustomers(c *fiber.Ctx) error {
	criteria := map[string]any{
		"nama":       c.Query("nama"),
		"nik":        c.Query("nik"),
		"no_telepon": c.Query("no_telepon"),
	}
	return c.JSON(h.store.Search(store.KindCustomers, criteria))
}

// HandleGetCustomer retrieves a single customer by id.
func (h *CustomerHandler) HandleGetCustomer(c *fiber.Ctx) error {
	doc := h.store.GetByID(store.KindCustomers, c.Params("id"))
	if doc == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Customer tidak ditemukan",
		})
	}
	return c.JSON(doc)
}

// UpdateCustomerRequest is the merge patch for a customer record. Only the
// supplied fields change.
type UpdateCustomerRequest struct {
	Nama      string `json:"nama,omitempty"`
	NoTelepon string `json:"no_telepon,omitempty" validate:"omitempty,telepon_id"`
	Alamat    string `json:"alamat,omitempty"`
}

// HandleUpdateCustomer merges the patch over the customer record. The NIK is
// the enrolment key and stays immutable here.
func (h *CustomerHandler) HandleUpdateCustomer(c *fiber.Ctx) error {
	var req UpdateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing customer update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationResponse(c, err)
	}

	doc, ok := h.store.Update(store.KindCustomers, c.Params("id"), store.Patch(req))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Customer tidak ditemukan",
		})
	}
	return c.JSON(doc)
}

// HandleDeleteCustomer removes a customer record.
func (h *CustomerHandler) HandleDeleteCustomer(c *fiber.Ctx) error {
	if !h.store.Delete(store.KindCustomers, c.Params("id")) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Customer tidak ditemukan",
		})
	}
	return c.JSON(fiber.Map{"message": "Customer berhasil dihapus"})
}
