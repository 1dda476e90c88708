package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/luma/meteo/feed"
	"github.com/luma/meteo/internal/env"
	"github.com/luma/meteo/internal/httpapi"
	"github.com/luma/meteo/storage"
	"github.com/luma/meteo/transport"
	"github.com/luma/meteo/weather"
)

var (
	// The host to listen on
	host string

	// The port to listen for http requests on
	httpPort string

	// The port to listen for udp clients on
	port int
)

func init() {
	flags := ServeCmd.PersistentFlags()

	flags.IntVarP(&port, "port", "p", 56700, "The port to listen for queries on")
	flags.StringVar(&httpPort, "http-port", "", "The port to listen to HTTP requests on, disabled when empty")
	flags.StringVarP(&host, "host", "a", "0.0.0.0", "The host to listen on")
}

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start up the Meteo server",
	Long: `Start up the Meteo server

Usage
	meteo serve
	meteo serve -p 56700

`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ctx, signalStop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer signalStop()

		conf, err := env.LoadConfig(ctx)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("port") {
			conf.Port = port
		}
		if flags.Changed("host") {
			conf.Host = host
		}
		if flags.Changed("http-port") {
			conf.HTTPPort = httpPort
		}

		log, err := env.MakeLogger(conf.LogLevel)
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck

		seed := conf.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}

		cities := weather.NewCitySet(weather.DefaultCities...)

		var (
			source     weather.Source = weather.NewRandomSource(seed)
			store      storage.Store
			subscriber *feed.Subscriber
		)

		if conf.MQTTBroker != "" {
			store = storage.NewInmemoryStore()

			live := weather.NewLiveSource(weather.LiveOptions{
				Store:    store,
				Cities:   cities,
				Fallback: source,
				MaxAge:   conf.MQTTMaxAge,
				Log:      log.Named("live"),
			})
			source = live

			subscriber = feed.NewSubscriber(feed.Options{
				Broker:   conf.MQTTBroker,
				Port:     conf.MQTTPort,
				ClientID: conf.MQTTClientID,
				Topic:    conf.MQTTTopic,
				Handler:  live.Record,
				Log:      log.Named("feed"),
			})

			connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			if err := subscriber.Connect(connectCtx); err != nil {
				// Readings fall back to the random source until the broker shows up
				log.Warn("MQTT broker unreachable, serving synthetic readings", zap.Error(err))
			}
			cancel()
		}

		udp := transport.NewUDP(transport.Options{
			Host:         conf.Host,
			Port:         conf.Port,
			Reuseport:    conf.Reuseport,
			NumListeners: conf.Listeners,
			ResolveHosts: conf.ResolveHosts,
			Dispatcher:   weather.NewDispatcher(cities, source),
			Log:          log.Named("transport"),
		})

		if err := udp.Start(ctx); err != nil {
			return err
		}

		var s *http.Server
		if conf.HTTPPort != "" {
			s = &http.Server{
				Addr: net.JoinHostPort(conf.Host, conf.HTTPPort),
				Handler: httpapi.NewRouter(httpapi.Options{
					Cities: cities,
					Store:  store,
					Debug:  conf.DebugHTTP,
					Log:    log.Named("http"),
				}),
			}

			// Initializing the server in a goroutine so that
			// it won't block the graceful shutdown handling below
			go func() {
				if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("Http server errored", zap.Error(err))
				}
			}()
		}

		log.Info("Listening",
			zap.String("addr", udp.Addr().String()),
			zap.Int("cities", cities.Len()),
			zap.Bool("liveFeed", subscriber != nil),
			zap.String("httpPort", conf.HTTPPort))

		// Listen for the interrupt signal.
		<-ctx.Done()

		// Restore default behavior on the interrupt signal and notify user of shutdown.
		signalStop()
		log.Info("Shutting down gracefully, press Ctrl+C again to force")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if s != nil {
			s.SetKeepAlivesEnabled(false)
			err = multierr.Append(err, s.Shutdown(shutdownCtx))
		}

		err = multierr.Append(err, udp.Close())

		if subscriber != nil {
			subscriber.Disconnect()
		}

		if store != nil {
			err = multierr.Append(err, store.Close())
		}

		if err != nil {
			log.Error("Forced to shutdown", zap.Error(err))
			return err
		}

		log.Info("Exiting")
		return nil
	},
}
