package handlers

import (
	"net/http"

	"signlearn/internal/application/usecase"

	"github.com/gin-gonic/gin"
)

type ItemHandler struct {
	items *usecase.ItemUsecase
}

func NewItemHandler(items *usecase.ItemUsecase) *ItemHandler {
	return &ItemHandler{items: items}
}

// GET /shop
func (h *ItemHandler) Shop(c *gin.Context) {
	items, err := h.items.Shop(c)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GET /inventory
func (h *ItemHandler) Inventory(c *gin.Context) {
	inventory, err := h.items.Inventory(c, userEmail(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items_inventory": inventory})
}

// POST /buy-item
func (h *ItemHandler) BuyItem(c *gin.Context) {
	var req struct {
		ItemID string `json:"item_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	result, err := h.items.BuyItem(c, userEmail(c), req.ItemID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// POST /consume-item?item_id=…
func (h *ItemHandler) ConsumeItem(c *gin.Context) {
	itemID := c.Query("item_id")
	if itemID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "item_id is required"})
		return
	}

	result, err := h.items.ConsumeItem(c, userEmail(c), itemID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
