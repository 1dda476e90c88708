package cmd

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/luma/meteo/client"
	"github.com/luma/meteo/internal/env"
	"github.com/luma/meteo/internal/netutil"
)

var (
	// The server to send the query to
	server string

	// "<type> <city>", e.g. "t roma"
	request string

	// The port the server listens on
	queryPort int
)

func init() {
	flags := QueryCmd.Flags()

	flags.StringVarP(&server, "server", "s", "localhost", "The server to query")
	flags.IntVarP(&queryPort, "port", "p", 56700, "The port the server listens on")
	flags.StringVarP(&request, "request", "r", "", `The query, "<type> <city>" where type is one of t, h, w, p`)

	if err := QueryCmd.MarkFlagRequired("request"); err != nil {
		panic(err)
	}
}

var QueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Ask a Meteo server for a reading",
	Long: `Ask a Meteo server for a reading

Types are t (temperature), h (humidity), w (wind) and p (pressure).

Usage
	meteo query -s localhost -p 56700 -r "t roma"
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		conf, err := env.LoadConfig(ctx)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if !flags.Changed("server") {
			server = conf.Server
		}
		if !flags.Changed("port") {
			queryPort = conf.Port
		}

		log, err := env.MakeLogger(conf.LogLevel)
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck

		req, err := client.ParseQuery(request)
		if err != nil {
			return err
		}

		conn := client.New(conf.Timeout, log.Named("client"))
		if err := conn.Connect(ctx, net.JoinHostPort(server, strconv.Itoa(queryPort))); err != nil {
			return err
		}
		defer conn.Disconnect()

		resp, err := conn.Query(ctx, req)
		if err != nil {
			log.Debug("Query failed", zap.String("server", server), zap.Error(err))
			return err
		}

		host, ip := netutil.HostName(ctx, conn.RemoteAddr())

		fmt.Fprintf(cmd.OutOrStdout(), "Ricevuto risultato dal server %s (ip %s). %s\n",
			host, ip, client.Interpret(resp, req.City))

		return nil
	},
}
