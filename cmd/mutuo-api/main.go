package main

import (
	"fmt"

	"github.com/mutuoclub/mutuo/config"
	"github.com/mutuoclub/mutuo/mq_client"
	"github.com/mutuoclub/mutuo/routes"
	"github.com/mutuoclub/mutuo/services/market_service"
)

func main() {
	if err := config.InitializeConfig(); err != nil {
		fmt.Println(err.Error())
		return
	}
	mq_client.Connect()

	market_service.LoadBook()

	r := routes.SetupRouter()
	// running
	r.Listen(":3000")
}
