package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"

	"github.com/lupine-games/werewolf/services"
)

var (
	upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true // tighten for production deployments
		},
	}

	config       *services.Config
	webSocketMgr *services.WebSocketManager
	gameManager  *services.GameManager
)

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	var err error
	config, err = services.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	webSocketMgr = services.NewWebSocketManager()
	gameManager = services.NewGameManager(config, webSocketMgr)
}

func main() {
	r := gin.Default()

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	r.GET("/ws", spectateGame)

	api := r.Group("/api")
	{
		api.POST("/games", createGame)
		api.POST("/games/:id/start", startGame)
		api.GET("/games/:id", getGameStatus)
		api.GET("/games/:id/history", getGameHistory)
	}

	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
	log.Printf("server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal("server failed:", err)
	}
}

func createGame(c *gin.Context) {
	var req struct {
		NumPlayers int  `json:"num_players" binding:"required"`
		UseLLM     bool `json:"use_llm"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	gameID, players, err := gameManager.CreateGame(req.NumPlayers, req.UseLLM)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"game_id": gameID,
		"players": players,
	})
}

func startGame(c *gin.Context) {
	gameID := c.Param("id")

	if err := gameManager.StartAsync(gameID); err != nil {
		status := http.StatusBadRequest
		if err == services.ErrGameNotFound {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "game started"})
}

func getGameStatus(c *gin.Context) {
	status, err := gameManager.Snapshot(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, status)
}

func getGameHistory(c *gin.Context) {
	status, err := gameManager.Snapshot(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"game_id": status.GameID,
		"history": status.History,
	})
}

func spectateGame(c *gin.Context) {
	gameID := c.Query("game")
	if gameID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing game parameter"})
		return
	}
	if _, err := gameManager.Snapshot(gameID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	webSocketMgr.Register(gameID, ws)
}
