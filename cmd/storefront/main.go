package main

import "github.com/cetrics/nexdawn-storefront/internal/cli"

func main() {
	cli.Execute()
}
