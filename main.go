package main

import (
	"github.com/insightdelivered/card-statement-parser/cmd"
)

func main() {
	cmd.Execute()
}
