package pricing

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/askhat-b/partforge/internal/model"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts quote intake under the provided router group.
func RegisterRoutes(group *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	group.POST("/quotes", handler.createQuote)
}

type httpHandler struct {
	service *Service
}

func (h *httpHandler) createQuote(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}

	quantity, err := strconv.Atoi(c.DefaultPostForm("quantity", "1"))
	if err != nil || quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quantity"})
		return
	}

	in := CreateQuoteInput{
		FileHeader: fileHeader,
		QuoteID:    c.PostForm("quoteId"),
		PartName:   c.PostForm("partName"),
		Spec: PartSpec{
			Technology: c.PostForm("technology"),
			Material:   c.PostForm("material"),
			Finish:     c.PostForm("finish"),
			Quantity:   quantity,
		},
	}

	quote, err := h.service.CreateQuote(c.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidFileType):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type; accepted: stl, step, stp, obj"})
		case errors.Is(err, model.ErrFileTooLarge):
			c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
		case errors.Is(err, ErrUnquotable):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "part cannot be quoted"})
		case errors.Is(err, ErrPricingUnavailable):
			c.JSON(http.StatusBadGateway, gin.H{"error": "pricing service unavailable"})
		case errors.Is(err, model.ErrStorageUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create quote"})
		}
		return
	}

	c.JSON(http.StatusCreated, quote)
}
