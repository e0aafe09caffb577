package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"undian/internal/auth"
	"undian/internal/identity"
	"undian/internal/models"
	"undian/internal/store"
)

// AuthHandler handles login/logout for both session domains plus staff
// account administration.
type AuthHandler struct {
	admin    *auth.SessionService
	kasir    *auth.SessionService
	issuer   *auth.TokenIssuer
	store    *store.Store
	hasher   identity.Hasher
	validate *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(admin, kasir *auth.SessionService, issuer *auth.TokenIssuer, st *store.Store, hasher identity.Hasher) *AuthHandler {
	return &AuthHandler{
		admin:    admin,
		kasir:    kasir,
		issuer:   issuer,
		store:    st,
		hasher:   hasher,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the public auth routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/admin/login", h.HandleAdminLogin)
	authRoutes.Post("/admin/logout", h.HandleAdminLogout)
	authRoutes.Post("/kasir/login", h.HandleKasirLogin)
	authRoutes.Post("/kasir/logout", h.HandleKasirLogout)
	authRoutes.Get("/stores", h.HandleActiveStores)
}

// RegisterUserRoutes registers staff account administration on an
// admin-protected group.
func (h *AuthHandler) RegisterUserRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/", h.HandleListUsers)
	userRoutes.Post("/", h.HandleCreateUser)
	userRoutes.Delete("/:id", h.HandleDeleteUser)
}

// LoginRequest is the request body for the admin login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// KasirLoginRequest additionally carries the toko the kasir selected at the
// terminal.
type KasirLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	TokoName string `json:"toko_name" validate:"required"`
}

// HandleAdminLogin opens the persistent admin session.
func (h *AuthHandler) HandleAdminLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing admin login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationResponse(c, err)
	}

	result := h.admin.Login(req.Username, req.Password, models.RoleAdmin)
	if !result.Success {
		return c.Status(fiber.StatusUnauthorized).JSON(result)
	}
	return h.loginResponse(c, result)
}

// HandleKasirLogin opens the ephemeral kasir session after the store-affinity
// check.
func (h *AuthHandler) HandleKasirLogin(c *fiber.Ctx) error {
	var req KasirLoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing kasir login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationResponse(c, err)
	}

	result := h.kasir.LoginWithStoreValidation(req.Username, req.Password, req.TokoName)
	if !result.Success {
		return c.Status(fiber.StatusUnauthorized).JSON(result)
	}
	return h.loginResponse(c, result)
}

// loginResponse attaches the terminal token to a successful login result.
func (h *AuthHandler) loginResponse(c *fiber.Ctx, result auth.LoginResult) error {
	token, err := h.issuer.Issue(result.User)
	if err != nil {
		log.Printf("Error issuing token for %s: %v", result.User.Username, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not issue token",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"user":    result.User,
		"token":   token,
	})
}

// HandleAdminLogout clears only the admin session namespace.
func (h *AuthHandler) HandleAdminLogout(c *fiber.Ctx) error {
	h.admin.Logout()
	return c.JSON(fiber.Map{"message": "Logout berhasil"})
}

// HandleKasirLogout clears only the kasir session namespace.
func (h *AuthHandler) HandleKasirLogout(c *fiber.Ctx) error {
	h.kasir.Logout()
	return c.JSON(fiber.Map{"message": "Logout berhasil"})
}

// HandleActiveStores lists the toko names kasir accounts are assigned to, for
// the store-selection screen.
func (h *AuthHandler) HandleActiveStores(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"stores": auth.ActiveStores(h.store),
	})
}

// CreateUserRequest is the request body for enrolling a staff account.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=admin kasir"`
	TokoName string `json:"toko_name" validate:"required_if=Role kasir"`
	Nama     string `json:"nama" validate:"required"`
}

// HandleCreateUser enrols a new admin or kasir account.
func (h *AuthHandler) HandleCreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create user request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationResponse(c, err)
	}

	if existing := h.store.FindOneBy(store.KindUsers, "username", req.Username); existing != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Username sudah digunakan",
		})
	}

	doc, err := h.store.Insert(store.KindUsers, models.User{
		Username: req.Username,
		Password: h.hasher.Hash(req.Password),
		Role:     req.Role,
		TokoName: req.TokoName,
		Nama:     req.Nama,
	})
	if err != nil {
		log.Printf("Error creating user %s: %v", req.Username, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create user",
			"error":   err.Error(),
		})
	}

	// Never echo the digest back.
	delete(doc, "password")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    doc,
	})
}

// HandleListUsers lists staff accounts without their digests.
func (h *AuthHandler) HandleListUsers(c *fiber.Ctx) error {
	docs := h.store.GetAll(store.KindUsers)
	for _, doc := range docs {
		delete(doc, "password")
	}
	return c.JSON(docs)
}

// HandleDeleteUser removes a staff account. The bootstrap super admin is
// refused with 403.
func (h *AuthHandler) HandleDeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if auth.IsSuperAdmin(h.store, id) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Super Admin tidak dapat dihapus",
		})
	}
	if !auth.DeleteUser(h.store, id) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "User tidak ditemukan",
		})
	}
	return c.JSON(fiber.Map{"message": "User berhasil dihapus"})
}
