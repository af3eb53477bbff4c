package main

import (
	"github.com/nnypa/endorsement_service/config"
	"github.com/nnypa/endorsement_service/internal/api"
)

func main() {
	cfg := config.LoadConfig()
	api.StartServer(cfg)
}
