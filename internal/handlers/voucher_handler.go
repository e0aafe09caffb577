package handlers

import (
	"bytes"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"undian/internal/export"
	"undian/internal/models"
	"undian/internal/store"
)

// VoucherHandler handles voucher lookup and the claimed-voucher export.
type VoucherHandler struct {
	store   *store.Store
	builder *export.Builder
}

// NewVoucherHandler creates a new VoucherHandler.
func NewVoucherHandler(st *store.Store, builder *export.Builder) *VoucherHandler {
	return &VoucherHandler{
		store:   st,
		builder: builder,
	}
}

// RegisterRoutes registers the voucher routes on an authenticated group.
func (h *VoucherHandler) RegisterRoutes(router fiber.Router) {
	voucherRoutes := router.Group("/vouchers")
	voucherRoutes.Get("/", h.HandleListVouchers)
	voucherRoutes.Get("/export", h.HandleExportVouchers)
}

// HandleListVouchers searches vouchers. A kasir only sees their own toko,
// scoped by exact equality rather than Search's substring criteria so nested
// store names stay separated.
func (h *VoucherHandler) HandleListVouchers(c *fiber.Ctx) error {
	criteria := map[string]any{
		"kode_voucher": c.Query("kode_voucher"),
		"status":       c.Query("status"),
		"tipe_hadiah":  c.Query("tipe_hadiah"),
		"toko_name":    c.Query("toko_name"),
	}
	if session := sessionFrom(c); session != nil && session.Role == models.RoleKasir {
		delete(criteria, "toko_name")
		scoped := make([]store.Document, 0)
		for _, doc := range h.store.Search(store.KindVouchers, criteria) {
			if doc.Str("toko_name") == session.TokoName {
				scoped = append(scoped, doc)
			}
		}
		return c.JSON(scoped)
	}
	return c.JSON(h.store.Search(store.KindVouchers, criteria))
}

// HandleExportVouchers builds the claimed-voucher report. ?type filters the
// prize tier; an admin may pass ?toko to scope one store or ?toko= (empty) for
// all stores, while a kasir is always scoped to their own toko. ?format=csv
// downloads the plain-text rendering, otherwise rows plus column hints are
// returned as JSON for the formatting layer.
func (h *VoucherHandler) HandleExportVouchers(c *fiber.Ctx) error {
	session := sessionFrom(c)
	opts := export.Options{Type: c.Query("type")}

	isKasir := session != nil && session.Role == models.RoleKasir
	if !isKasir && c.Context().QueryArgs().Has("toko") {
		toko := c.Query("toko")
		opts.TokoName = &toko
	}

	result := h.builder.BuildVoucherExport(session, opts)

	if c.Query("format") == "csv" {
		var buf bytes.Buffer
		if err := result.WriteCSV(&buf); err != nil {
			log.Printf("Error rendering voucher export CSV: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not render export",
				"error":   err.Error(),
			})
		}
		filename := fmt.Sprintf("Data_Voucher_%s.csv", result.TokoName)
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
		return c.Send(buf.Bytes())
	}

	return c.JSON(result)
}
