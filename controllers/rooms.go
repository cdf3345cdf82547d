package controllers

import (
	"errors"
	"net/http"
	"sort"

	"github.com/bellapacxx/sandbox-backend/game"
	"github.com/bellapacxx/sandbox-backend/services"
	"github.com/bellapacxx/sandbox-backend/store"
	"github.com/bellapacxx/sandbox-backend/utils/logger"
	"github.com/gin-gonic/gin"
)

// roomResponse is a room as served over HTTP. Hands stay private; only the
// names of the players holding one are listed.
type roomResponse struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Cards         []game.Item      `json:"cards"`
	Deck          [][]game.Item    `json:"deck"`
	DeckDimension []game.Dimension `json:"deckDimension"`
	Tokens        [][]game.Item    `json:"tokens"`
	Pieces        [][]game.Item    `json:"pieces"`
	CardsInDeck   [][]string       `json:"cardsInDeck"`
	Players       []string         `json:"players"`
}

func newRoomResponse(r *game.Room) roomResponse {
	players := make([]string, 0, len(r.Hand))
	for name := range r.Hand {
		players = append(players, name)
	}
	sort.Strings(players)
	return roomResponse{
		ID:            r.ID,
		Name:          r.Name,
		Cards:         r.Cards,
		Deck:          r.Deck,
		DeckDimension: r.DeckDimension,
		Tokens:        r.Tokens,
		Pieces:        r.Pieces,
		CardsInDeck:   r.CardsInDeck,
		Players:       players,
	}
}

func errorJSON(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"status": "error", "message": message})
}

// ListRooms returns every stored room
func ListRooms(svc *services.RoomService) gin.HandlerFunc {
	return func(c *gin.Context) {
		rooms, err := svc.Rooms(c.Request.Context())
		if err != nil {
			logger.Errorf("[API] list rooms: %v", err)
			errorJSON(c, http.StatusInternalServerError, "Failed to fetch rooms")
			return
		}
		out := make([]roomResponse, 0, len(rooms))
		for _, r := range rooms {
			out = append(out, newRoomResponse(r))
		}
		c.JSON(http.StatusOK, out)
	}
}

// GetRoom returns a single room by ?id=
func GetRoom(svc *services.RoomService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Query("id")
		if id == "" {
			errorJSON(c, http.StatusBadRequest, "Room ID is required")
			return
		}
		room, err := svc.Room(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrRoomNotFound) {
				errorJSON(c, http.StatusBadRequest, "Invalid room ID")
				return
			}
			logger.Errorf("[API] get room %s: %v", id, err)
			errorJSON(c, http.StatusInternalServerError, "Failed to fetch room")
			return
		}
		c.JSON(http.StatusOK, newRoomResponse(room))
	}
}

type createRoomRequest struct {
	Name     string   `json:"name"`
	CardDeck []string `json:"cardDeck"`
}

// CreateRoom builds a room from stored deck templates
func CreateRoom(svc *services.RoomService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createRoomRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errorJSON(c, http.StatusBadRequest, err.Error())
			return
		}
		room, err := svc.CreateRoom(c.Request.Context(), req.Name, req.CardDeck)
		if err != nil {
			if errors.Is(err, services.ErrNoDecks) {
				errorJSON(c, http.StatusBadRequest, "At least one deck is required")
				return
			}
			logger.Errorf("[API] create room: %v", err)
			errorJSON(c, http.StatusInternalServerError, "Room not created")
			return
		}
		c.JSON(http.StatusOK, newRoomResponse(room))
	}
}
