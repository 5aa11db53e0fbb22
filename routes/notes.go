package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"study-sync/studysync/models"
	"study-sync/studysync/services"
)

func RegisterNoteRoutes(group *gin.RouterGroup, noteService services.NoteServiceInterface) {
	group.GET("/notes/:id", func(c *gin.Context) { GetNote(c, noteService) })
	group.PUT("/notes/:id", func(c *gin.Context) { SaveNote(c, noteService) })
	group.DELETE("/notes/:id", func(c *gin.Context) { DeleteNote(c, noteService) })
}

func GetNote(c *gin.Context, noteService services.NoteServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	note, err := noteService.GetNote(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if note == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
		return
	}
	c.JSON(http.StatusOK, note)
}

func SaveNote(c *gin.Context, noteService services.NoteServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var fields models.NoteFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := noteService.SaveNote(c.Request.Context(), userID, c.Param("id"), fields); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func DeleteNote(c *gin.Context, noteService services.NoteServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := noteService.DeleteNote(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
