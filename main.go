package main

import (
	"os"

	"github.com/BayiPanel/BayiPanel/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
