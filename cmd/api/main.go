package main

// @title Real Estate Catalog API
// @version 1.0
// @description Search and manage properties, owners, images, places and sale history.
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Editor token minted with catalogctl token, sent as "Bearer <token>"
func main() {
	cfg := LoadConfiguration()

	app := NewApp(cfg)
	defer app.cleanup()

	app.InitializeServer()
	app.StartServer()
}
