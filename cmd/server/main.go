package main

import (
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/vskvj3/geomys/internal/core"
	"github.com/vskvj3/geomys/internal/network"
	"github.com/vskvj3/geomys/internal/persistence"
	"github.com/vskvj3/geomys/internal/utils"
)

func main() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		utils.GetLogger().Error("Error getting home directory: " + err.Error())
		os.Exit(1)
	}
	dataDir := filepath.Join(homeDir, ".geomys")

	// Parse command-line arguments
	configPtr := flag.String("config", filepath.Join(dataDir, "geomys.yaml"), "Path of the YAML configuration file")
	portPtr := flag.String("port", "", "Port of server")
	debugPtr := flag.Bool("debug", false, "Print debug logs to the console")
	noPersistPtr := flag.Bool("no-persistence", false, "Keep lists in memory only")
	flag.Parse()

	// Load configurations
	config, err := utils.LoadConfig(*configPtr)
	if err != nil {
		utils.GetLogger().Error("Error loading configuration: " + err.Error())
		os.Exit(1)
	}

	logger := utils.NewLogger(config.LogFile, config.Debug || *debugPtr)
	logger.Info("Loaded configurations from " + *configPtr)

	// Determine Port
	port := strconv.Itoa(config.Port)
	if *portPtr != "" {
		if _, err := strconv.Atoi(*portPtr); err != nil {
			logger.Error("Invalid port: must be an integer")
			os.Exit(1)
		}
		port = *portPtr
	}
	logger.Info("Port assigned: " + port)

	var disk *persistence.Persistence
	if config.PersistenceEnabled && !*noPersistPtr {
		path := config.PersistencePath
		if !filepath.IsAbs(path) {
			path = filepath.Join(dataDir, path)
		}
		disk, err = persistence.NewPersistence(path)
		if err != nil {
			logger.Error("Could not open persistence log: " + err.Error())
			os.Exit(1)
		}
		defer disk.Close()
		logger.Info("Persisting writes to " + disk.Path())
	} else {
		logger.Info("Persistence disabled, lists live in memory only")
	}

	db := core.NewDatabase(config.MaxListLength)
	// a nil *Persistence must not become a non nil RequestLogger
	var handler *core.CommandHandler
	if disk != nil {
		handler = core.NewCommandHandler(db, disk)
	} else {
		handler = core.NewCommandHandler(db, nil)
	}

	server, err := network.NewServer(port, handler)
	if err != nil {
		logger.Error("Server creation failed: " + err.Error())
		os.Exit(1)
	}
	if _, err := server.Listen(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		logger.Info("Shutting down...")
		server.Close()
	}()

	if err := server.Serve(); err != nil {
		logger.Error("Server stopped: " + err.Error())
	}
}
