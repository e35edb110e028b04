package main

import (
	"os"

	"github.com/turbot/tailpipe-plugin-envi/logging"
)

func main() {
	logging.Initialize("collect")
	os.Exit(Execute())
}
