package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/WMASewwandi/clovesis-sub003/internal/cli"
)

func main() {
	// .env opcional: las variables ya exportadas tienen prioridad
	if err := godotenv.Load(); err != nil {
		log.Printf("aviso: no se cargó .env: %v", err)
	}
	cli.Execute()
}
