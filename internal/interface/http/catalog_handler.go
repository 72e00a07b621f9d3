package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	catalogapp "github.com/recipebox/recipebox/internal/application"
	repo "github.com/recipebox/recipebox/internal/domain/repository"
	"github.com/recipebox/recipebox/pkg/response"
	"github.com/recipebox/recipebox/pkg/validation"
)

// CatalogHandler serves the tag and ingredient endpoints. Both namespaces
// share request shapes, so one handler carries them.
type CatalogHandler struct {
	Svc    *catalogapp.CatalogService
	Logger *logrus.Logger
}

func NewCatalogHandler(svc *catalogapp.CatalogService, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{Svc: svc, Logger: logger}
}

type catalogItemRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// assignedOnly reads the assigned_only query flag. Absent or unparseable
// values mean false.
func assignedOnly(c *gin.Context) bool {
	v, err := strconv.ParseBool(c.DefaultQuery("assigned_only", "false"))
	return err == nil && v
}

func (h *CatalogHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalogapp.ErrTagNotFound):
		response.Error[any](c, http.StatusNotFound, "tag not found", nil)
	case errors.Is(err, catalogapp.ErrIngredientNotFound):
		response.Error[any](c, http.StatusNotFound, "ingredient not found", nil)
	case errors.Is(err, repo.ErrConflict):
		response.Error[any](c, http.StatusBadRequest, "name already in use", nil)
	default:
		if h.Logger != nil {
			h.Logger.WithError(err).Error("catalog operation failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}

func (h *CatalogHandler) ListTags(c *gin.Context) {
	uid := c.GetString("userID")
	tags, err := h.Svc.ListTags(c.Request.Context(), uid, assignedOnly(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, tagsJSON(tags), "tags", gin.H{"count": len(tags)})
}

func (h *CatalogHandler) CreateTag(c *gin.Context) {
	uid := c.GetString("userID")
	var req catalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	t, err := h.Svc.CreateTag(c.Request.Context(), uid, req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"id": t.ID, "name": t.Name}, "tag created", nil)
}

func (h *CatalogHandler) RenameTag(c *gin.Context) {
	uid := c.GetString("userID")
	var req catalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	t, err := h.Svc.RenameTag(c.Request.Context(), uid, c.Param("id"), req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": t.ID, "name": t.Name}, "tag updated", nil)
}

func (h *CatalogHandler) DeleteTag(c *gin.Context) {
	uid := c.GetString("userID")
	if err := h.Svc.DeleteTag(c.Request.Context(), uid, c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) ListIngredients(c *gin.Context) {
	uid := c.GetString("userID")
	ingredients, err := h.Svc.ListIngredients(c.Request.Context(), uid, assignedOnly(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, ingredientsJSON(ingredients), "ingredients", gin.H{"count": len(ingredients)})
}

func (h *CatalogHandler) CreateIngredient(c *gin.Context) {
	uid := c.GetString("userID")
	var req catalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	ing, err := h.Svc.CreateIngredient(c.Request.Context(), uid, req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"id": ing.ID, "name": ing.Name}, "ingredient created", nil)
}

func (h *CatalogHandler) RenameIngredient(c *gin.Context) {
	uid := c.GetString("userID")
	var req catalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	ing, err := h.Svc.RenameIngredient(c.Request.Context(), uid, c.Param("id"), req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": ing.ID, "name": ing.Name}, "ingredient updated", nil)
}

func (h *CatalogHandler) DeleteIngredient(c *gin.Context) {
	uid := c.GetString("userID")
	if err := h.Svc.DeleteIngredient(c.Request.Context(), uid, c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
