package handlers

import (
	"errors"
	"math"
	"net/http"

	"signlearn/internal/application/usecase"
	"signlearn/internal/domain"

	"github.com/gin-gonic/gin"
)

// respondErr translates domain errors into the HTTP taxonomy. Business-rule
// rejections keep their message; anything unexpected becomes a generic 500.
func respondErr(c *gin.Context, err error) {
	var levelErr *usecase.LevelNotAllowedError
	if errors.As(err, &levelErr) {
		c.JSON(http.StatusForbidden, gin.H{
			"message":       levelErr.Error(),
			"current_level": levelErr.CurrentLevel,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrLanguageNotFound),
		errors.Is(err, domain.ErrSeasonNotFound),
		errors.Is(err, domain.ErrTierNotFound),
		errors.Is(err, domain.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrUserAlreadyExists),
		errors.Is(err, domain.ErrNotEnoughXP),
		errors.Is(err, domain.ErrAlreadyClaimed),
		errors.Is(err, domain.ErrNotEnoughCoins),
		errors.Is(err, domain.ErrNoHearts),
		errors.Is(err, domain.ErrMaxHearts),
		errors.Is(err, domain.ErrItemNotOwned):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}

func userEmail(c *gin.Context) string {
	return c.GetString("email")
}

// jsonNumber keeps integral fixed-point values as integers on the wire.
func jsonNumber(f float64) interface{} {
	if f == math.Trunc(f) {
		return int64(f)
	}
	return f
}
