package handlers

import (
	"github.com/labstack/echo/v4"
)

// Handlers groups every route handler of the API.
type Handlers struct {
	Auth      *AuthHandlers
	Medicines *MedicineHandlers
	Inventory *InventoryHandlers
	Intake    *IntakeHandlers
	Chatbot   *ChatbotHandlers
}

// RegisterRoutes mounts the API on group. authenticate guards everything
// except signup and login; limit throttles the collaborator-backed routes.
func RegisterRoutes(group *echo.Group, h *Handlers, authenticate echo.MiddlewareFunc, limit func(scope string) echo.MiddlewareFunc) {
	auth := group.Group("/auth")
	auth.POST("/signup", h.Auth.Signup)
	auth.POST("/login", h.Auth.Login)

	protected := group.Group("", authenticate)

	protected.GET("/medicines", h.Medicines.ListMedicines)
	protected.GET("/medicines/search", h.Medicines.SearchMedicine)
	protected.GET("/medicines/barcode/:barcode", h.Medicines.GetByBarcode)
	protected.GET("/medicines/:id", h.Medicines.GetMedicine)
	protected.PUT("/medicines/:id", h.Medicines.UpdateMedicine)
	protected.DELETE("/medicines/:id", h.Medicines.DeleteMedicine)
	protected.POST("/medicines/smart-create", h.Medicines.SmartCreate)

	protected.POST("/inventory/receive", h.Inventory.Receive)
	protected.POST("/inventory/receive-gs1", h.Inventory.ReceiveGS1)
	protected.POST("/inventory/dispense", h.Inventory.Dispense)
	protected.POST("/inventory/restock", h.Inventory.Restock)
	protected.GET("/inventory/expiry-alerts", h.Inventory.ExpiryAlerts)

	protected.POST("/ocr/extract-text", h.Intake.ExtractText, limit("ocr"))
	protected.POST("/voice/process-audio", h.Intake.ProcessAudio, limit("voice"))
	protected.POST("/chatbot/query", h.Chatbot.Query, limit("chatbot"))
}
