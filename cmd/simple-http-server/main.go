package main

import (
	"github.com/Karim-Chrif/simple-http-server/internal/cmd"
)

func main() {
	cmd.Execute()
}
