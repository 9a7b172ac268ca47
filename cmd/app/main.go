package main

import (
	"go.uber.org/fx"

	"github.com/sidtheone/ecoticker-sub001/internal/app"
)

func main() {
	fx.New(app.CreateApp()).Run()
}
