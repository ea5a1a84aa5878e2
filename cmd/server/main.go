// Package main runs the local business search API.
//
//	@title						Bizsearch API
//	@version					1.0
//	@description				Search local businesses by keyword and location, with cached paginated results and per-user search history.
//	@host						localhost:8080
//	@BasePath					/
//	@schemes					http https
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"log/slog"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	_ "github.com/sp3dr4/bizsearch/docs"
	appFX "github.com/sp3dr4/bizsearch/internal/fx"
)

func main() {
	fx.New(
		appFX.HTTPServerModules,
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger}
		}),
	).Run()
}
