// Command shopctl is the operator CLI for the photo shop: schema migrations
// and read-only views of the catalog and carts. It reads the same
// environment as the server.
package main

import "github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/cmd/shopctl/commands"

func main() {
	commands.Execute()
}
