package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	recipeapp "github.com/recipebox/recipebox/internal/application"
	"github.com/recipebox/recipebox/internal/domain/entity"
	repo "github.com/recipebox/recipebox/internal/domain/repository"
	"github.com/recipebox/recipebox/pkg/response"
	"github.com/recipebox/recipebox/pkg/validation"
)

// image content types accepted for upload
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

type RecipeHandler struct {
	Svc    *recipeapp.RecipeService
	Logger *logrus.Logger
}

func NewRecipeHandler(svc *recipeapp.RecipeService, logger *logrus.Logger) *RecipeHandler {
	return &RecipeHandler{Svc: svc, Logger: logger}
}

// nameInput is one nested association entry: {"name": "..."}.
type nameInput struct {
	Name string `json:"name" binding:"required,max=255"`
}

type createRecipeRequest struct {
	Title       string      `json:"title" binding:"required,max=255"`
	TimeMinutes int         `json:"time_minutes" binding:"required,gt=0"`
	Price       string      `json:"price" binding:"required,price"`
	Description string      `json:"description"`
	Link        string      `json:"link" binding:"omitempty,url"`
	Tags        []nameInput `json:"tags" binding:"omitempty,dive"`
	Ingredients []nameInput `json:"ingredients" binding:"omitempty,dive"`
}

// putRecipeRequest is the full update: non-association fields required.
// Association pointers distinguish "key absent" (keep) from "[]" (clear).
// Any owner/user key in the payload is not bound and thus silently ignored.
type putRecipeRequest struct {
	Title       string       `json:"title" binding:"required,max=255"`
	TimeMinutes int          `json:"time_minutes" binding:"required,gt=0"`
	Price       string       `json:"price" binding:"required,price"`
	Description string       `json:"description"`
	Link        string       `json:"link" binding:"omitempty,url"`
	Tags        *[]nameInput `json:"tags" binding:"omitempty,dive"`
	Ingredients *[]nameInput `json:"ingredients" binding:"omitempty,dive"`
}

type patchRecipeRequest struct {
	Title       *string      `json:"title" binding:"omitempty,max=255"`
	TimeMinutes *int         `json:"time_minutes" binding:"omitempty,gt=0"`
	Price       *string      `json:"price" binding:"omitempty,price"`
	Description *string      `json:"description"`
	Link        *string      `json:"link" binding:"omitempty,url"`
	Tags        *[]nameInput `json:"tags" binding:"omitempty,dive"`
	Ingredients *[]nameInput `json:"ingredients" binding:"omitempty,dive"`
}

func names(in []nameInput) []string {
	out := make([]string, len(in))
	for i, n := range in {
		out[i] = n.Name
	}
	return out
}

func namesPtr(in *[]nameInput) *[]string {
	if in == nil {
		return nil
	}
	out := names(*in)
	return &out
}

func tagsJSON(tags []entity.Tag) []gin.H {
	out := make([]gin.H, len(tags))
	for i, t := range tags {
		out[i] = gin.H{"id": t.ID, "name": t.Name}
	}
	return out
}

func ingredientsJSON(ingredients []entity.Ingredient) []gin.H {
	out := make([]gin.H, len(ingredients))
	for i, ing := range ingredients {
		out[i] = gin.H{"id": ing.ID, "name": ing.Name}
	}
	return out
}

func recipeJSON(r *entity.Recipe) gin.H {
	return gin.H{
		"id":           r.ID,
		"title":        r.Title,
		"time_minutes": r.TimeMinutes,
		"price":        r.Price,
		"description":  r.Description,
		"link":         r.Link,
		"image_url":    r.ImageURL,
		"tags":         tagsJSON(r.Tags),
		"ingredients":  ingredientsJSON(r.Ingredients),
		"created_at":   r.CreatedAt,
		"updated_at":   r.UpdatedAt,
	}
}

func recipesJSON(recipes []entity.Recipe) []gin.H {
	out := make([]gin.H, len(recipes))
	for i := range recipes {
		out[i] = recipeJSON(&recipes[i])
	}
	return out
}

// parseIDList parses a comma-separated UUID list query parameter.
func parseIDList(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, err := uuid.Parse(p); err != nil {
			return nil, err
		}
		ids = append(ids, p)
	}
	return ids, nil
}

func (h *RecipeHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, recipeapp.ErrRecipeNotFound):
		response.Error[any](c, http.StatusNotFound, "recipe not found", nil)
	case errors.Is(err, repo.ErrConflict):
		// lost a uniqueness race; the transaction was rolled back
		response.Error[any](c, http.StatusBadRequest, "conflicting write, please retry", nil)
	default:
		if h.Logger != nil {
			h.Logger.WithError(err).Error("recipe operation failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}

func (h *RecipeHandler) List(c *gin.Context) {
	uid := c.GetString("userID")

	tagIDs, err := parseIDList(c.Query("tags"))
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid tags filter", gin.H{"tags": "must be a comma-separated list of ids"})
		return
	}
	ingredientIDs, err := parseIDList(c.Query("ingredients"))
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid ingredients filter", gin.H{"ingredients": "must be a comma-separated list of ids"})
		return
	}

	recipes, err := h.Svc.List(c.Request.Context(), uid, repo.RecipeFilter{TagIDs: tagIDs, IngredientIDs: ingredientIDs})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, recipesJSON(recipes), "recipes", gin.H{"count": len(recipes)})
}

func (h *RecipeHandler) Get(c *gin.Context) {
	uid := c.GetString("userID")
	rec, err := h.Svc.Get(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, recipeJSON(rec), "recipe", nil)
}

func (h *RecipeHandler) Create(c *gin.Context) {
	uid := c.GetString("userID")
	var req createRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	rec, err := h.Svc.Create(c.Request.Context(), uid, recipeapp.CreateRecipeInput{
		Title:       req.Title,
		TimeMinutes: req.TimeMinutes,
		Price:       req.Price,
		Description: req.Description,
		Link:        req.Link,
		Tags:        names(req.Tags),
		Ingredients: names(req.Ingredients),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, recipeJSON(rec), "recipe created", nil)
}

func (h *RecipeHandler) Put(c *gin.Context) {
	uid := c.GetString("userID")
	var req putRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	ch := repo.RecipeChanges{
		Title:       &req.Title,
		TimeMinutes: &req.TimeMinutes,
		Price:       &req.Price,
		Description: &req.Description,
		Link:        &req.Link,
		Tags:        namesPtr(req.Tags),
		Ingredients: namesPtr(req.Ingredients),
	}
	rec, err := h.Svc.Update(c.Request.Context(), uid, c.Param("id"), ch)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, recipeJSON(rec), "recipe updated", nil)
}

func (h *RecipeHandler) Patch(c *gin.Context) {
	uid := c.GetString("userID")
	var req patchRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	ch := repo.RecipeChanges{
		Title:       req.Title,
		TimeMinutes: req.TimeMinutes,
		Price:       req.Price,
		Description: req.Description,
		Link:        req.Link,
		Tags:        namesPtr(req.Tags),
		Ingredients: namesPtr(req.Ingredients),
	}
	rec, err := h.Svc.Update(c.Request.Context(), uid, c.Param("id"), ch)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, recipeJSON(rec), "recipe updated", nil)
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	uid := c.GetString("userID")
	if err := h.Svc.Delete(c.Request.Context(), uid, c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) UploadImage(c *gin.Context) {
	uid := c.GetString("userID")

	file, err := c.FormFile("image")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", gin.H{"image": "is required"})
		return
	}
	contentType := file.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", gin.H{"image": "must be a jpeg, png, or webp image"})
		return
	}

	src, err := file.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", gin.H{"image": "could not read file"})
		return
	}
	defer func() { _ = src.Close() }()

	rec, err := h.Svc.UploadImage(c.Request.Context(), uid, c.Param("id"), src, file.Filename, contentType)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, recipeJSON(rec), "image uploaded", nil)
}

func (h *RecipeHandler) Search(c *gin.Context) {
	uid := c.GetString("userID")
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "invalid query", gin.H{"q": "is required"})
		return
	}
	results, err := h.Svc.Search(c.Request.Context(), uid, q, 10)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, results, "search results", gin.H{"count": len(results)})
}
