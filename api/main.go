package main

import (
	"log"

	"github.com/CHRISTIANARIBAL/guiritan/api/server"
)

func main() {
	s := server.New()

	if err := s.Run(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
