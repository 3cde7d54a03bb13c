package handlers

import (
	"net/http"

	"cardkey_backend/internal/middleware"
	"cardkey_backend/internal/models"
	"cardkey_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type RechargeHandler struct {
	*BaseHandler
	rechargeService services.RechargeService
	balanceService  services.BalanceService
}

func NewRechargeHandler(base *BaseHandler, rechargeService services.RechargeService, balanceService services.BalanceService) *RechargeHandler {
	return &RechargeHandler{
		BaseHandler:     base,
		rechargeService: rechargeService,
		balanceService:  balanceService,
	}
}

func (h *RechargeHandler) RegisterRoutes(r *gin.RouterGroup) {
	recharge := r.Group("/recharge-cards")
	recharge.Use(middleware.AuthMiddleware())
	{
		recharge.POST("", middleware.RequireRoles(models.UserRoleAdmin), h.CreateRechargeCards)
		recharge.GET("", middleware.RequireRoles(models.UserRoleAdmin), h.ListRechargeCards)
		recharge.POST("/redeem", h.Redeem)
	}

	balance := r.Group("/balance")
	balance.Use(middleware.AuthMiddleware())
	{
		balance.GET("/records", h.ListBalanceRecords)
		balance.POST("/adjust", middleware.RequireRoles(models.UserRoleAdmin), h.AdjustBalance)
	}
}

func (h *RechargeHandler) CreateRechargeCards(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req models.CreateRechargeCardsRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	cards, err := h.rechargeService.CreateCards(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"cards": cards,
		"total": len(cards),
	})
}

func (h *RechargeHandler) ListRechargeCards(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)
	cards, total, err := h.rechargeService.ListCards(h.GetDB(c), userID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cards": cards,
		"total": total,
	})
}

func (h *RechargeHandler) Redeem(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req models.RedeemRechargeCardRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.rechargeService.Redeem(h.GetDB(c), userID, req.Code)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"amount":      result.Amount,
		"new_balance": result.NewBalance,
	})
}

func (h *RechargeHandler) ListBalanceRecords(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)
	records, total, err := h.balanceService.ListRecords(h.GetDB(c), userID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"records": records,
		"total":   total,
	})
}

func (h *RechargeHandler) AdjustBalance(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req models.AdjustBalanceRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	record, err := h.balanceService.AdminAdjust(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}
