/*
Package main
File: main.go
Description: Server entry point. Loads the universe definition, generates a
galaxy, starts the fixed-rate simulation loop and the WebSocket hub, and
serves the REST API until the process is told to stop.
*/

package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/calebaero/stellar-drift-trader-game/internal/api"
	"github.com/calebaero/stellar-drift-trader-game/internal/game"
	"github.com/calebaero/stellar-drift-trader-game/pkg/logger"
)

func main() {
	// 1. Environment and logging. A missing .env file is normal outside dev.
	if err := godotenv.Load(); err != nil {
		logger.Log.Info("No .env file found, using system environment variables")
	}
	logger.Init()

	// 2. Seed. Explicit -seed reproduces a galaxy; 0 rolls a fresh one.
	var seed int64
	flag.Int64Var(&seed, "seed", 0, "Galaxy seed (0 for random)")
	flag.Parse()
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	// 3. Load the static universe configuration from YAML.
	universePath := os.Getenv("UNIVERSE_FILE")
	if universePath == "" {
		universePath = "universe.yaml"
	}
	uni, err := game.LoadUniverse(universePath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load universe definition")
	}

	// 4. Generate the galaxy and boot the player.
	state, err := game.NewGame(seed, uni)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to generate galaxy")
	}
	logger.Log.WithFields(map[string]interface{}{
		"seed":    seed,
		"systems": game.GalaxySystemCount,
	}).Info("Galaxy generated")

	// 5. Real-time hub. Flight input from the socket goes straight into the
	// state; the loop reads it on the next tick.
	hub := api.NewHub()
	hub.OnInput = state.SetInput
	go hub.Run()

	// 6. Simulation loop. Sync points and economy pulses broadcast through
	// the hub, state frames and discrete events alike.
	loop := game.NewLoop(state, hub.BroadcastState)
	loop.OnEvent = func(ev game.Event) {
		hub.BroadcastEvent(ev.Kind, ev.Payload)
	}
	if err := loop.Start(); err != nil {
		logger.Log.WithError(err).Fatal("Failed to start simulation loop")
	}

	// 7. HTTP server.
	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}
	server := api.NewServer(state, loop, hub)
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      api.NewRouter(server),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.WithField("addr", srv.Addr).Info("STELLAR DRIFT server live")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	// 8. Graceful shutdown: stop the loop first so no sync races the exit,
	// then drain the HTTP server.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Log.Info("Shutting down...")
	loop.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Warn("HTTP shutdown did not finish cleanly")
	}
	logger.Log.Info("Done.")
}
