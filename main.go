package main

import (
	"meetpoll-api/core/logger"
	"meetpoll-api/core/server"
)

// @title MeetPoll API
// @version 1.0
// @description Timezone-correct group scheduling: propose days, collect availability, rank the best time windows.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Organizer JWT. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
