// cmd/kprof-build/main.go
package main

import (
	"kprof/internal/appshell"
	"kprof/internal/buildapp"
)

func main() {
	appshell.Main(buildapp.RunContext)
}
