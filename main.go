package main

import (
	"rental-admin/cmd"
	_ "rental-admin/docs"
)

// @title Rental Admin API
// @version 1.0
// @description Admin dashboard backend for the vehicle rental marketplace.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cmd.Execute()
}
