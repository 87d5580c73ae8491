// cmd/kprof-db/main.go
package main

import (
	"kprof/internal/appshell"
	"kprof/internal/dbapp"
)

func main() {
	appshell.Main(dbapp.RunContext)
}
