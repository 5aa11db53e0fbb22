package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"study-sync/studysync/services"
)

type createSpaceRequest struct {
	Name string `json:"name"`
}

type createNoteRequest struct {
	Title string `json:"title"`
}

func RegisterSpaceRoutes(group *gin.RouterGroup, spaceService services.SpaceServiceInterface, noteService services.NoteServiceInterface) {
	group.GET("/spaces", func(c *gin.Context) { ListSpaces(c, spaceService) })
	group.POST("/spaces", func(c *gin.Context) { CreateSpace(c, spaceService) })

	group.GET("/spaces/:id", func(c *gin.Context) { GetSpace(c, spaceService) })
	group.DELETE("/spaces/:id", func(c *gin.Context) { DeleteSpace(c, spaceService) })

	group.GET("/spaces/:id/notes", func(c *gin.Context) { ListSpaceNotes(c, noteService) })
	group.POST("/spaces/:id/notes", func(c *gin.Context) { CreateSpaceNote(c, noteService) })
}

func ListSpaces(c *gin.Context, spaceService services.SpaceServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	spaces, err := spaceService.ListSpaces(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, spaces)
}

func CreateSpace(c *gin.Context, spaceService services.SpaceServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var request createSpaceRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	space, err := spaceService.CreateSpace(c.Request.Context(), userID, request.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, space)
}

func GetSpace(c *gin.Context, spaceService services.SpaceServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	space, err := spaceService.GetSpace(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if space == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Space not found"})
		return
	}
	c.JSON(http.StatusOK, space)
}

func DeleteSpace(c *gin.Context, spaceService services.SpaceServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := spaceService.DeleteSpace(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func ListSpaceNotes(c *gin.Context, noteService services.NoteServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	notes, err := noteService.ListNotes(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

func CreateSpaceNote(c *gin.Context, noteService services.NoteServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var request createNoteRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, err := noteService.CreateNote(c.Request.Context(), c.Param("id"), userID, request.Title)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}
