package main

import "github.com/missionctrl/missionctrl-api/internal/app"

func main() {
	app.InitDefaultLogger()
	app.MustReadEnv()
	app.MustInitApplicationLogger()

	app.MustConnectPostgres()
	defer app.DisconnectPostgres()
	app.MustEnsureSchema()

	app.MustListenAndServeHTTP()
}
