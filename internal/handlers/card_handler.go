package handlers

import (
	"net/http"

	"cardkey_backend/internal/keygen"
	"cardkey_backend/internal/middleware"
	"cardkey_backend/internal/models"
	"cardkey_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type CardHandler struct {
	*BaseHandler
	cardService services.CardService
}

func NewCardHandler(base *BaseHandler, cardService services.CardService) *CardHandler {
	return &CardHandler{
		BaseHandler: base,
		cardService: cardService,
	}
}

func (h *CardHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Public route - device-side redemption, authenticated by the card
	// code itself.
	r.POST("/cards/activate", h.ActivateCard)

	cards := r.Group("/cards")
	cards.Use(middleware.AuthMiddleware())
	{
		cards.POST("", h.CreateCards)
		cards.GET("", h.ListCards)
		cards.GET("/:cardId", h.GetCard)
		cards.PUT("/:cardId", h.EditCard)
		cards.DELETE("/:cardId", h.DeleteCard)
		cards.POST("/batch-delete", h.DeleteCardsBatch)
		cards.POST("/:cardId/clear-bindings", middleware.RequireRoles(models.UserRoleAdmin), h.ClearMachineBindings)
		cards.GET("/generate-code", middleware.RequireRoles(models.UserRoleAdmin), h.GenerateCode)
	}
}

func (h *CardHandler) CreateCards(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req models.CreateCardsRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.cardService.CreateCards(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"cards":      result.Cards,
		"total":      len(result.Cards),
		"total_cost": result.TotalCost,
	})
}

func (h *CardHandler) ListCards(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var filter models.CardListFilter
	if !h.BindAndValidate_Query(c, &filter) {
		return
	}

	cards, total, err := h.cardService.ListCards(h.GetDB(c), userID, filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cards": cards,
		"total": total,
	})
}

func (h *CardHandler) GetCard(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	card, err := h.cardService.GetCard(h.GetDB(c), userID, c.Param("cardId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *CardHandler) EditCard(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req models.EditCardRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.cardService.EditCard(h.GetDB(c), userID, c.Param("cardId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"card":           result.Card,
		"balance_change": result.BalanceChange,
	})
}

func (h *CardHandler) DeleteCard(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	result, err := h.cardService.DeleteCard(h.GetDB(c), userID, c.Param("cardId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Card deleted successfully",
		"refunded":      result.Refunded,
		"refund_amount": result.RefundAmount,
	})
}

func (h *CardHandler) DeleteCardsBatch(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req models.BatchDeleteCardsRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.cardService.DeleteCardsBatch(h.GetDB(c), userID, req.CardIDs)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success_count":  result.SuccessCount,
		"error_count":    result.ErrorCount,
		"total_refunded": result.TotalRefunded,
	})
}

func (h *CardHandler) ClearMachineBindings(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.cardService.ClearMachineBindings(h.GetDB(c), userID, c.Param("cardId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Machine bindings cleared successfully"})
}

// GenerateCode previews a card code in the canonical format without
// persisting anything.
func (h *CardHandler) GenerateCode(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"code": keygen.Generate()})
}

func (h *CardHandler) ActivateCard(c *gin.Context) {
	var req models.ActivateCardRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	card, err := h.cardService.ActivateCard(h.GetDB(c), req.Code, req.MachineCode)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    card.Status,
		"expire_at": card.ExpireAt,
	})
}
