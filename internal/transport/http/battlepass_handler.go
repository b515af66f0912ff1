package handlers

import (
	"net/http"
	"strconv"

	"signlearn/internal/application/usecase"

	"github.com/gin-gonic/gin"
)

type BattlepassHandler struct {
	battlepass *usecase.BattlepassUsecase
}

func NewBattlepassHandler(battlepass *usecase.BattlepassUsecase) *BattlepassHandler {
	return &BattlepassHandler{battlepass: battlepass}
}

// GET /battlepass
func (h *BattlepassHandler) Status(c *gin.Context) {
	status, err := h.battlepass.Status(c, userEmail(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// POST /claim-battlepass?battlepass_level=<digits>
func (h *BattlepassHandler) Claim(c *gin.Context) {
	level, err := strconv.Atoi(c.Query("battlepass_level"))
	if err != nil || level <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "battlepass_level must be a positive integer"})
		return
	}

	result, err := h.battlepass.Claim(c, userEmail(c), level)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
