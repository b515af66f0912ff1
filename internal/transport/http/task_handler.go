package handlers

import (
	"net/http"
	"strconv"

	"signlearn/internal/application/usecase"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	tasks        *usecase.TaskUsecase
	achievements *usecase.AchievementUsecase
}

func NewTaskHandler(tasks *usecase.TaskUsecase, achievements *usecase.AchievementUsecase) *TaskHandler {
	return &TaskHandler{tasks: tasks, achievements: achievements}
}

// GET /list-tasks?level=<digits>&language_id=<id>
func (h *TaskHandler) ListTasks(c *gin.Context) {
	level, err := strconv.Atoi(c.Query("level"))
	if err != nil || level <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "level must be a positive integer"})
		return
	}
	languageID := c.Query("language_id")
	if languageID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "language_id is required"})
		return
	}

	tasks, err := h.tasks.ListTasks(c, userEmail(c), languageID, level)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// GET /achievements?query_page_size=<digits>&next_token=<opaque>
func (h *TaskHandler) ListAchievements(c *gin.Context) {
	pageSize := 0
	if raw := c.Query("query_page_size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "query_page_size must be a positive integer"})
			return
		}
		pageSize = parsed
	}

	page, err := h.achievements.List(c, pageSize, c.Query("next_token"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
