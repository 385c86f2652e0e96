package main

import "github.com/init-pkg/sheet-relay/internal/bootstrap"

func main() {
	bootstrap.Run()
}
