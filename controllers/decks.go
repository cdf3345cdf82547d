package controllers

import (
	"errors"
	"net/http"

	"github.com/bellapacxx/sandbox-backend/models"
	"github.com/bellapacxx/sandbox-backend/services"
	"github.com/bellapacxx/sandbox-backend/utils/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type addDeckRequest struct {
	Name     string         `json:"name"`
	Type     string         `json:"type" binding:"required"`
	NumCards int            `json:"numCards"`
	Deck     datatypes.JSON `json:"deck" binding:"required"`
}

// AddDeck stores a deck template
func AddDeck(svc *services.RoomService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addDeckRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errorJSON(c, http.StatusBadRequest, err.Error())
			return
		}
		id, err := svc.AddDeck(c.Request.Context(), &models.Grid{
			Name:     req.Name,
			Type:     req.Type,
			NumCards: req.NumCards,
			Deck:     req.Deck,
		})
		if err != nil {
			if errors.Is(err, services.ErrInvalidDeck) {
				errorJSON(c, http.StatusBadRequest, err.Error())
				return
			}
			logger.Errorf("[API] add deck: %v", err)
			errorJSON(c, http.StatusInternalServerError, "Failed to insert grid")
			return
		}
		c.JSON(http.StatusOK, gin.H{"deckId": id})
	}
}
