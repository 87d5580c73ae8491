// cmd/kprof/main.go
package main

import (
	"kprof/internal/app"
	"kprof/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
