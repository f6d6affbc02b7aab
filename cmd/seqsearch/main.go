package main

import (
	"seqsearch/internal/app"
	"seqsearch/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
