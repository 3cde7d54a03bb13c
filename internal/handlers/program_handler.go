package handlers

import (
	"net/http"

	"cardkey_backend/internal/middleware"
	"cardkey_backend/internal/models"
	"cardkey_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ProgramHandler struct {
	*BaseHandler
	programService services.ProgramService
}

func NewProgramHandler(base *BaseHandler, programService services.ProgramService) *ProgramHandler {
	return &ProgramHandler{
		BaseHandler:    base,
		programService: programService,
	}
}

func (h *ProgramHandler) RegisterRoutes(r *gin.RouterGroup) {
	programs := r.Group("/programs")
	programs.Use(middleware.AuthMiddleware())
	{
		programs.POST("", middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleAgent), h.CreateProgram)
		programs.GET("", h.ListPrograms)
		programs.GET("/:programId", h.GetProgram)
		programs.PUT("/:programId", middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleAgent), h.UpdateProgram)
		programs.DELETE("/:programId", middleware.RequireRoles(models.UserRoleAdmin), h.DeleteProgram)

		permissions := programs.Group("/:programId/permissions")
		permissions.Use(middleware.RequireRoles(models.UserRoleAdmin))
		{
			permissions.POST("", h.GrantPermission)
			permissions.GET("", h.ListPermissions)
			permissions.DELETE("/:agentId", h.RevokePermission)
		}
	}
}

func (h *ProgramHandler) CreateProgram(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req models.CreateProgramRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	program, err := h.programService.Create(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, program)
}

func (h *ProgramHandler) ListPrograms(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)
	programs, total, err := h.programService.List(h.GetDB(c), userID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"programs": programs,
		"total":    total,
	})
}

func (h *ProgramHandler) GetProgram(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	program, err := h.programService.Get(h.GetDB(c), userID, c.Param("programId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

func (h *ProgramHandler) UpdateProgram(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req models.UpdateProgramRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	program, err := h.programService.Update(h.GetDB(c), userID, c.Param("programId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

func (h *ProgramHandler) DeleteProgram(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	result, err := h.programService.DeleteProgram(h.GetDB(c), userID, c.Param("programId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Program deleted successfully",
		"deleted_cards":  result.DeletedCards,
		"refunded_cards": result.RefundedCards,
		"total_refunded": result.TotalRefunded,
	})
}

func (h *ProgramHandler) GrantPermission(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req models.GrantPermissionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	perm, err := h.programService.GrantPermission(h.GetDB(c), userID, c.Param("programId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, perm)
}

func (h *ProgramHandler) ListPermissions(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	perms, err := h.programService.ListPermissions(h.GetDB(c), userID, c.Param("programId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"permissions": perms,
		"total":       len(perms),
	})
}

func (h *ProgramHandler) RevokePermission(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.programService.RevokePermission(h.GetDB(c), userID, c.Param("programId"), c.Param("agentId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Permission revoked successfully"})
}
