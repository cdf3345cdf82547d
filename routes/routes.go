package routes

import (
	"github.com/bellapacxx/sandbox-backend/controllers"
	"github.com/bellapacxx/sandbox-backend/services"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, rooms *services.RoomService, engine *services.Engine) {
	api := r.Group("/api")

	// ----------------------
	// Room routes
	// ----------------------
	api.GET("/rooms", controllers.ListRooms(rooms))  // List stored rooms
	api.GET("/room", controllers.GetRoom(rooms))     // Get room by ?id=
	api.POST("/room", controllers.CreateRoom(rooms)) // Create room from decks

	// ----------------------
	// Deck routes
	// ----------------------
	api.POST("/addDecks", controllers.AddDeck(rooms)) // Store a deck template

	// WebSocket table sync
	r.GET("/ws", engine.HandleWebSocket)
}
