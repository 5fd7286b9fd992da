package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"elevrig/lib/driver-go/elevio"
	"elevrig/lib/network-go/network/peers"
	"elevrig/src/cmdline"
	"elevrig/src/config"
	"elevrig/src/console"
	"elevrig/src/dispatcher"
	"elevrig/src/network"
	"elevrig/src/timer"
	"elevrig/src/utils"
)

func main() {
	configPath := flag.String("config", "", "Path to the rig YAML config")
	envPath := flag.String("env", ".env", "Path to a .env file with RIG_* overrides")
	rigID := flag.String("id", "", "Rig identifier. Defaults to the config value or a random string")
	listen := flag.String("listen", "", "TCP address for command clients")
	keys := flag.Bool("keys", false, "Enable the interactive keyboard console")
	flag.Parse()

	cfg, err := config.Load(*configPath, *envPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if *rigID != "" {
		cfg.ID = *rigID
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	logCloser, err := utils.InitLogger(cfg.ID, cfg.Log.Level, cfg.Log.File)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	peerUpdateCh := make(chan peers.PeerUpdate, 8)
	server, err := network.Listen(cfg.Listen, peerUpdateCh)
	if err != nil {
		log.Fatal().Err(err).Msg("Command server failed")
	}

	motorWriters := []io.Writer{server}
	if cfg.Echo {
		motorWriters = append(motorWriters, os.Stdout)
	}
	panel := elevio.NewPanel()
	d, err := dispatcher.New(cfg, elevio.NewMotorPort(motorWriters...), panel)
	if err != nil {
		log.Fatal().Err(err).Msg("Dispatcher failed")
	}
	d.RefreshIndicators()

	tickCh := make(chan time.Time)
	tickAction := make(chan timer.TimerAction, 1)
	go timer.Ticker(ctx, cfg.TickPeriod, tickCh, tickAction)
	mgr := dispatcher.StartMgr(ctx, d, tickCh)
	tickAction <- timer.Start

	serveErrCh := make(chan error, 1)
	go func() {
		serveErrCh <- server.Serve(ctx, cmdline.NewHandler(mgr))
	}()

	if *keys {
		go func() {
			if err := console.Run(ctx, os.Stdout, cfg.ID, mgr, cancel); err != nil {
				log.Error().Err(err).Msg("Console stopped")
			}
		}()
	}

	log.Info().
		Int("cars", cfg.Cars).
		Int("floors", cfg.Floors).
		Dur("tick", cfg.TickPeriod).
		Int("ticksPerFloor", cfg.StepTicks()).
		Str("pendingMode", string(cfg.PendingMode)).
		Msg("Rig started")

	for {
		select {
		case update := <-peerUpdateCh:
			log.Info().Strs("peers", update.Peers).Str("new", update.New).Strs("lost", update.Lost).Msg("Peer update")
		case err := <-serveErrCh:
			if err != nil {
				log.Error().Err(err).Msg("Command server stopped")
			}
			cancel()
			<-mgr.Done()
			return
		case <-ctx.Done():
			<-mgr.Done()
			log.Info().Msg("Rig stopped")
			return
		}
	}
}
