package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/Kilat-Pet-Delivery/service-kennel/internal/application"
	dogDomain "github.com/Kilat-Pet-Delivery/service-kennel/internal/domain/dog"
	"github.com/Kilat-Pet-Delivery/service-kennel/internal/platform/apperror"
	"github.com/Kilat-Pet-Delivery/service-kennel/internal/platform/response"
)

// DogRequest is the JSON body for creating or replacing a dog record.
// Leaving date and leaving reason are given together or not at all.
type DogRequest struct {
	Name                     string  `json:"name" binding:"required,max=100"`
	Breed                    string  `json:"breed" binding:"required,max=100"`
	Supplier                 string  `json:"supplier" binding:"required,max=150"`
	BadgeID                  string  `json:"badge_id" binding:"max=50"`
	Gender                   string  `json:"gender" binding:"required,max=20"`
	BirthDate                string  `json:"birth_date" binding:"required,datetime=2006-01-02"`
	DateAcquired             string  `json:"date_acquired" binding:"required,datetime=2006-01-02"`
	StatusID                 int64   `json:"status_id" binding:"required,gt=0"`
	LeavingDate              *string `json:"leaving_date" binding:"required_with=LeavingReasonID,omitempty,datetime=2006-01-02"`
	LeavingReasonID          *int64  `json:"leaving_reason_id" binding:"required_with=LeavingDate,omitempty,gt=0"`
	KennellingCharacteristic string  `json:"kennelling_characteristic"`
}

func (r DogRequest) toInput() (application.DogInput, error) {
	birth, err := time.Parse(application.DateLayout, r.BirthDate)
	if err != nil {
		return application.DogInput{}, err
	}
	acquired, err := time.Parse(application.DateLayout, r.DateAcquired)
	if err != nil {
		return application.DogInput{}, err
	}

	var leaving *time.Time
	if r.LeavingDate != nil {
		t, err := time.Parse(application.DateLayout, *r.LeavingDate)
		if err != nil {
			return application.DogInput{}, err
		}
		leaving = &t
	}

	return application.DogInput{
		Name:                     r.Name,
		Breed:                    r.Breed,
		Supplier:                 r.Supplier,
		BadgeID:                  r.BadgeID,
		Gender:                   r.Gender,
		BirthDate:                birth,
		DateAcquired:             acquired,
		StatusID:                 r.StatusID,
		LeavingDate:              leaving,
		LeavingReasonID:          r.LeavingReasonID,
		KennellingCharacteristic: r.KennellingCharacteristic,
	}, nil
}

// DogHandler handles HTTP requests for dog record operations.
type DogHandler struct {
	service *application.DogService
}

// NewDogHandler creates a new DogHandler.
func NewDogHandler(service *application.DogService) *DogHandler {
	return &DogHandler{service: service}
}

// RegisterRoutes registers all dog record routes.
func (h *DogHandler) RegisterRoutes(r *gin.RouterGroup) {
	dogs := r.Group("/api/v1/dogs")
	{
		dogs.POST("", h.CreateDog)
		dogs.GET("", h.ListDogs)
		dogs.GET("/:id", h.GetDog)
		dogs.PUT("/:id", h.UpdateDog)
		dogs.DELETE("/:id", h.DeleteDog)
	}
}

// CreateDog handles POST /api/v1/dogs.
func (h *DogHandler) CreateDog(c *gin.Context) {
	input, ok := bindDogRequest(c)
	if !ok {
		return
	}

	result, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListDogs handles GET /api/v1/dogs. Any of name, breed or supplier turns
// the listing into a search.
func (h *DogHandler) ListDogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(dogDomain.DefaultPageSize)))
	req := dogDomain.NewPageRequest(page, limit)

	filter := dogDomain.SearchFilter{
		Name:     c.Query("name"),
		Breed:    c.Query("breed"),
		Supplier: c.Query("supplier"),
	}

	var (
		dogs  []application.DogDTO
		total int64
		err   error
	)
	if filter.IsEmpty() {
		dogs, total, err = h.service.ListDogs(c.Request.Context(), req.Page, req.Limit)
	} else {
		dogs, total, err = h.service.SearchDogs(c.Request.Context(), filter, req.Page, req.Limit)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, dogs, total, req.Page, req.Limit)
}

// GetDog handles GET /api/v1/dogs/:id.
func (h *DogHandler) GetDog(c *gin.Context) {
	id, ok := parseDogID(c)
	if !ok {
		return
	}

	result, err := h.service.GetDog(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateDog handles PUT /api/v1/dogs/:id.
func (h *DogHandler) UpdateDog(c *gin.Context) {
	id, ok := parseDogID(c)
	if !ok {
		return
	}

	input, ok := bindDogRequest(c)
	if !ok {
		return
	}

	result, err := h.service.UpdateDog(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteDog handles DELETE /api/v1/dogs/:id.
func (h *DogHandler) DeleteDog(c *gin.Context) {
	id, ok := parseDogID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteDog(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

func parseDogID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.BadRequest(c, "invalid dog ID")
		return 0, false
	}
	return id, true
}

func bindDogRequest(c *gin.Context) (application.DogInput, bool) {
	var req DogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			response.Error(c, apperror.NewValidationError(verrs.Error()))
			return application.DogInput{}, false
		}
		response.BadRequest(c, err.Error())
		return application.DogInput{}, false
	}

	input, err := req.toInput()
	if err != nil {
		response.Error(c, apperror.NewValidationError(err.Error()))
		return application.DogInput{}, false
	}
	return input, true
}
