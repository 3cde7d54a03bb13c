// @title           Card Key Admin API
// @version         1.0
// @description     Admin console backend for card key and license management.
// @host            localhost:4000
// @BasePath        /api/v1

package main

import "cardkey_backend/internal/app"

func main() {
	app.Run()
}
