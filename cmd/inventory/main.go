// Command inventory runs the SmartSupply inventory API and its maintenance
// tasks.
//
//	inventory serve                      # HTTP API with graceful shutdown
//	inventory migrate                    # apply the schema and exit
//	inventory token --email a@b.c        # print a bearer token for local use
//
// Configuration comes from the environment, optionally seeded from a .env
// file in the working directory.
//
// @title                      SmartSupply Inventory API
// @version                    1.0
// @description                Suppliers, inventory items, stock history and analytics.
// @BasePath                   /api
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
// @description                Type "Bearer" followed by a space and the token.
package main

import (
	"os"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
