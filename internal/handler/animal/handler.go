package animal

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vitavet/vitavet-api/internal/handler"
	"github.com/vitavet/vitavet-api/internal/model"
	animalsvc "github.com/vitavet/vitavet-api/internal/service/animal"
)

type Handler struct {
	service *animalsvc.Service
}

func NewHandler(service *animalsvc.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	animals := r.Group("/animals")
	{
		animals.POST("", h.CreateAnimal)
		animals.GET("", h.ListAnimals)
		animals.GET("/:id", h.GetAnimal)
		animals.PUT("/:id", h.UpdateAnimal)
		animals.DELETE("/:id", h.DeleteAnimal)
	}
}

func (h *Handler) CreateAnimal(c *gin.Context) {
	var req model.CreateAnimalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err.Error())
		return
	}

	animal, err := h.service.CreateAnimal(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.Success(c, http.StatusCreated, animal)
}

func (h *Handler) GetAnimal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "invalid animal ID")
		return
	}

	animal, err := h.service.GetAnimal(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.Success(c, http.StatusOK, animal)
}

func (h *Handler) ListAnimals(c *gin.Context) {
	ownerID, err := uuid.Parse(c.Query("owner_user_id"))
	if err != nil {
		handler.BadRequest(c, "invalid owner ID")
		return
	}

	animals, err := h.service.ListAnimalsByOwner(c.Request.Context(), ownerID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.Success(c, http.StatusOK, animals)
}

func (h *Handler) UpdateAnimal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "invalid animal ID")
		return
	}

	var req model.UpdateAnimalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err.Error())
		return
	}

	animal, err := h.service.UpdateAnimal(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.Success(c, http.StatusOK, animal)
}

func (h *Handler) DeleteAnimal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "invalid animal ID")
		return
	}

	if err := h.service.DeleteAnimal(c.Request.Context(), id); err != nil {
		handler.Error(c, err)
		return
	}

	handler.Success(c, http.StatusOK, nil)
}
