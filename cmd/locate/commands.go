package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benmeehan/locate/internal/metrics"
	"github.com/benmeehan/locate/internal/quickstart"
	"github.com/benmeehan/locate/internal/service_registry"
	"github.com/benmeehan/locate/internal/services"
	"github.com/benmeehan/locate/internal/utils"
	"github.com/benmeehan/locate/internal/version"
	"github.com/benmeehan/locate/pkg/file"
	"github.com/benmeehan/locate/pkg/identity"
	"github.com/benmeehan/locate/pkg/mqtt"
	"github.com/benmeehan/locate/pkg/wps"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	configFile    string
	apiKey        string
	engine        string
	streetAddress string
	ipFallback    bool
	timeout       time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "locate",
	Short: "Print the current location of this machine",
	Long: `Locate determines the current location from nearby WiFi access points and
cell towers, or from a serial GPS receiver, and prints it as

  latitude, longitude +/-hpe m

where hpe is the estimated horizontal position error in meters.`,
	Version:      version.Full(),
	SilenceUsage: true,
	RunE:         runLocate,
}

var watchCmd = &cobra.Command{
	Use:          "watch",
	Short:        "Publish the location to an MQTT broker on an interval",
	SilenceUsage: true,
	RunE:         runWatch,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "locate %s\n", version.Full())
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	bindConfigFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}

// bindConfigFlags registers the flags that override configuration values.
func bindConfigFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&configFile, "config", "c", "configs/config.yaml", "path to the YAML configuration file")
	flags.StringVar(&apiKey, "key", "", "positioning service API key (overrides "+utils.EnvAPIKey+")")
	flags.StringVar(&engine, "engine", "", "positioning engine: wifi or gps")
	flags.StringVar(&streetAddress, "street-address", "", "street address lookup: none, limited or full")
	flags.BoolVar(&ipFallback, "ip-fallback", false, "fall back to an IP based lookup when the query fails")
	flags.DurationVar(&timeout, "timeout", 0, "upper bound for a single location query")
}

// loadConfig reads the config file, applies the flags the user set explicitly and
// validates the result. Flags take precedence over the environment and the file.
func loadConfig(cmd *cobra.Command) (*utils.Config, error) {
	config, err := utils.ReadConfig(configFile, file.NewFileService())
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("key") {
		config.APIKey = apiKey
	}
	if flags.Changed("engine") {
		config.Engine = engine
	}
	if flags.Changed("street-address") {
		config.StreetAddressLookup = streetAddress
	}
	if flags.Changed("ip-fallback") {
		config.IPFallback = ipFallback
	}
	if flags.Changed("timeout") {
		config.Timeout = timeout
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func newClient(config *utils.Config, logger zerolog.Logger) (*wps.Client, error) {
	return wps.NewClient(wps.Config{
		Engine:        wps.Engine(config.Engine),
		Timeout:       config.Timeout,
		ModemIndex:    config.Scanner.ModemIndex,
		GPSDevicePort: config.GPS.DevicePort,
		GPSBaudRate:   config.GPS.BaudRate,
	}, file.NewFileService(), logger)
}

func runLocate(cmd *cobra.Command, _ []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := utils.NewLogger(config.LogLevel, os.Stderr)
	if err != nil {
		return err
	}

	lookup, err := wps.ParseStreetAddressLookup(config.StreetAddressLookup)
	if err != nil {
		return err
	}

	client, err := newClient(config, logger)
	if err != nil {
		return err
	}

	exitCode = quickstart.Run(cmd.Context(), client, quickstart.Options{
		Key:        config.APIKey,
		Lookup:     lookup,
		IPFallback: config.IPFallback,
	}, cmd.OutOrStdout(), cmd.ErrOrStderr())
	return nil
}

func runWatch(cmd *cobra.Command, _ []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	level := config.LogLevel
	if level == "" {
		level = zerolog.LevelInfoValue
	}
	logger, err := utils.NewLogger(level, os.Stderr)
	if err != nil {
		return err
	}

	lookup, err := wps.ParseStreetAddressLookup(config.StreetAddressLookup)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fileClient := file.NewFileService()

	deviceInfo := identity.NewDeviceInfo(config.Identity.DeviceFile, fileClient)
	if err := deviceInfo.LoadDeviceInfo(); err != nil {
		return fmt.Errorf("failed to load device information: %w", err)
	}

	client, err := newClient(config, logger)
	if err != nil {
		return err
	}
	if err := client.Load(ctx); err != nil {
		return err
	}
	defer client.Unload()
	client.SetKey(config.APIKey)

	// Generate a unique MQTT Client ID by appending a UUID
	clientID := config.MQTT.ClientID + "-" + uuid.New().String()
	logger.Info().Str("client_id", clientID).Msg("Connecting to MQTT broker")

	mqttClient := mqtt.NewMqttService(fileClient)
	if err := mqttClient.Initialize(config.MQTT.Broker, clientID, config.MQTT.CACertificate); err != nil {
		return fmt.Errorf("failed to initialize MQTT connection: %w", err)
	}
	defer mqttClient.Disconnect(250)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	serviceRegistry := service_registry.NewServiceRegistry(logger)
	if config.Watch.MetricsAddr != "" {
		serviceRegistry.RegisterService("metrics", services.NewMetricsService(config.Watch.MetricsAddr, reg, logger))
	}
	serviceRegistry.RegisterService("location", services.NewLocationService(
		config.Watch.Topic,
		config.Watch.Interval,
		config.Watch.QOS,
		lookup,
		version.Semantic(),
		deviceInfo,
		mqttClient,
		client,
		appMetrics,
		logger,
	))

	if err := serviceRegistry.StartServices(); err != nil {
		return err
	}
	logger.Info().Str("device_id", deviceInfo.GetDeviceID()).Msg("All services started successfully")

	<-ctx.Done()

	logger.Info().Msg("Shutting down gracefully...")
	return serviceRegistry.StopServices()
}
