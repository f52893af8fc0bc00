package main

import "turno/internal/app/server"

func main() {
	server.Run()
}
