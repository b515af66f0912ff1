package handlers

import (
	"net/http"

	"signlearn/internal/application/usecase"

	"github.com/gin-gonic/gin"
)

type GameHandler struct {
	progression *usecase.ProgressionUsecase
	hearts      *usecase.HeartsUsecase
	users       *usecase.UserUsecase
}

func NewGameHandler(progression *usecase.ProgressionUsecase, hearts *usecase.HeartsUsecase, users *usecase.UserUsecase) *GameHandler {
	return &GameHandler{progression: progression, hearts: hearts, users: users}
}

// POST /complete-level
func (h *GameHandler) CompleteLevel(c *gin.Context) {
	var req usecase.CompleteLevelInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	result, err := h.progression.CompleteLevel(c, userEmail(c), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GET /hearts
func (h *GameHandler) GetHearts(c *gin.Context) {
	state, err := h.hearts.GetHearts(c, userEmail(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// POST /consume-heart
func (h *GameHandler) ConsumeHeart(c *gin.Context) {
	state, err := h.hearts.ConsumeHeart(c, userEmail(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// GET /profile
func (h *GameHandler) GetProfile(c *gin.Context) {
	user, err := h.users.GetProfile(c, userEmail(c))
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"email":                        user.Email,
		"username":                     user.Username,
		"sound":                        user.Sound,
		"haptic":                       user.Haptic,
		"notifications":                user.Notifications,
		"reminder":                     user.Reminder,
		"language":                     user.Language,
		"current_level":                user.CurrentLevel,
		"letters_learned":              user.LettersLearned,
		"time_played":                  jsonNumber(user.TimePlayed),
		"xp":                           user.XP,
		"coins":                        user.Coins,
		"hearts":                       user.Hearts,
		"hearts_next_refill":           user.HeartsNextRefill,
		"subscription":                 user.Subscription,
		"subscription_expiration_date": user.SubscriptionExpiresAt,
		"battlepass":                   user.Battlepass,
		"items_inventory":              user.ItemsInventory,
		"activated_items":              user.ActivatedItems,
		"achievements":                 user.Achievements,
	})
}

// PUT /preferences
func (h *GameHandler) UpdatePreferences(c *gin.Context) {
	var req usecase.PreferencesInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if err := h.users.UpdatePreferences(c, userEmail(c), req); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
