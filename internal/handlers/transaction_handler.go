package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"undian/internal/middleware"
	"undian/internal/models"
	"undian/internal/services"
)

// TransactionHandler handles HTTP requests for transactions and the dashboard
// aggregates.
type TransactionHandler struct {
	service  *services.TransactionService
	validate *validator.Validate
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(service *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the transaction routes on an authenticated group.
func (h *TransactionHandler) RegisterRoutes(router fiber.Router) {
	txnRoutes := router.Group("/transactions")
	txnRoutes.Get("/", h.HandleListTransactions)
	txnRoutes.Post("/", h.HandleCreateTransaction)
	txnRoutes.Get("/:id", h.HandleGetTransaction)
	txnRoutes.Post("/:id/claim", h.HandleClaimTransaction)
}

// RegisterStatsRoute exposes the dashboard aggregates.
func (h *TransactionHandler) RegisterStatsRoute(router fiber.Router) {
	router.Get("/stats", h.HandleStats)
}

// sessionFrom pulls the session the auth middleware resolved.
func sessionFrom(c *fiber.Ctx) *models.Session {
	session, _ := c.Locals(middleware.SessionKey).(*models.Session)
	return session
}

// HandleCreateTransaction records a transaction and issues its vouchers. A
// kasir always records against their own toko, whatever the body says.
func (h *TransactionHandler) HandleCreateTransaction(c *fiber.Ctx) error {
	var req services.CreateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing transaction request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if session := sessionFrom(c); session != nil && session.Role == models.RoleKasir {
		req.TokoName = session.TokoName
	}

	if err := h.validate.Struct(req); err != nil {
		return validationResponse(c, err)
	}

	result, err := h.service.Create(req)
	if err != nil {
		log.Printf("Error creating transaction: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create transaction",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// HandleListTransactions searches transactions. A kasir only sees their own
// toko; an admin can filter freely. The kasir scope is exact string equality,
// not the substring matching Search applies to criteria, so "Toko A" never
// surfaces rows from "Toko A Cabang".
func (h *TransactionHandler) HandleListTransactions(c *fiber.Ctx) error {
	criteria := map[string]any{
		"no_transaksi": c.Query("no_transaksi"),
		"toko_name":    c.Query("toko_name"),
	}
	if session := sessionFrom(c); session != nil && session.Role == models.RoleKasir {
		delete(criteria, "toko_name")
		scoped := make([]models.Transaction, 0)
		for _, txn := range h.service.Search(criteria) {
			if txn.TokoName == session.TokoName {
				scoped = append(scoped, txn)
			}
		}
		return c.JSON(scoped)
	}
	return c.JSON(h.service.Search(criteria))
}

// HandleGetTransaction retrieves a single transaction by id.
func (h *TransactionHandler) HandleGetTransaction(c *fiber.Ctx) error {
	id := c.Params("id")
	txn := h.service.GetByID(id)
	if txn == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Transaksi tidak ditemukan",
		})
	}
	return c.JSON(txn)
}

// HandleClaimTransaction marks the coupon claimed and activates its vouchers.
func (h *TransactionHandler) HandleClaimTransaction(c *fiber.Ctx) error {
	id := c.Params("id")
	result, err := h.service.Claim(id)
	if err != nil {
		log.Printf("Error claiming transaction %s: %v", id, err)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Transaksi tidak ditemukan",
			"error":   err.Error(),
		})
	}
	return c.JSON(result)
}

// HandleStats returns the dashboard aggregate snapshot.
func (h *TransactionHandler) HandleStats(c *fiber.Ctx) error {
	return c.JSON(h.service.Stats())
}
