package handlers

import (
	"net/http"

	"cardkey_backend/internal/middleware"
	"cardkey_backend/internal/models"
	"cardkey_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type PackageHandler struct {
	*BaseHandler
	packageService services.PackageService
}

func NewPackageHandler(base *BaseHandler, packageService services.PackageService) *PackageHandler {
	return &PackageHandler{
		BaseHandler:    base,
		packageService: packageService,
	}
}

func (h *PackageHandler) RegisterRoutes(r *gin.RouterGroup) {
	packages := r.Group("/packages")
	packages.Use(middleware.AuthMiddleware())
	{
		packages.GET("", h.ListPackages)
		packages.POST("", middleware.RequireRoles(models.UserRoleAdmin), h.CreatePackage)
		packages.PUT("/:packageId", middleware.RequireRoles(models.UserRoleAdmin), h.UpdatePackage)
		packages.DELETE("/:packageId", middleware.RequireRoles(models.UserRoleAdmin), h.DeletePackage)
	}
}

func (h *PackageHandler) ListPackages(c *gin.Context) {
	pkgs, err := h.packageService.List(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"packages": pkgs,
		"total":    len(pkgs),
	})
}

func (h *PackageHandler) CreatePackage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req models.CreatePackageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	pkg, err := h.packageService.Create(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pkg)
}

func (h *PackageHandler) UpdatePackage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req models.UpdatePackageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	pkg, err := h.packageService.Update(h.GetDB(c), userID, c.Param("packageId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pkg)
}

func (h *PackageHandler) DeletePackage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.packageService.Delete(h.GetDB(c), userID, c.Param("packageId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Package deleted successfully"})
}
