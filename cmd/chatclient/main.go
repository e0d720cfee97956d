package main

import (
	"log"

	"github.com/eltonjung81/atualizarfront/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}
