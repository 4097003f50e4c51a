package main

import (
	"github.com/bstardust/snapchat-memories-downloader/pkg/cli"
)

func main() {
	cli.Execute()
}
