package main

import "mini-social/cmd"

// @title Mini Social API
// @version 1.0
// @description Accounts, image posts, comments and likes
// @host localhost:8080
// @BasePath /
// @SecurityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Entrez le JWT avec le préfixe Bearer: Bearer <JWT>
func main() {
	cmd.Execute()
}
