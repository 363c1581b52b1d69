// Command corehttpd is a small smoke-test binary: it wires one
// transport adapter (socket or cgi) to a demo static router so the
// routing core can be exercised end to end, configured via flags or
// environment variables through viper.
package main

import (
	"fmt"
	"net"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/webpp-sub002/corehttp/internal/obs"
	"github.com/webpp-sub002/corehttp/router"
	"github.com/webpp-sub002/corehttp/transport/cgi"
	"github.com/webpp-sub002/corehttp/transport/socket"
	"github.com/webpp-sub002/corehttp/valve"
)

func demoRouter(metrics *obs.Metrics) *router.StaticRouter {
	return router.NewStaticRouter(
		router.NewRoute(valve.Segment("page"), func(ctx *router.Context) any {
			return "page 1"
		}, "GET /page"),
		router.NewRoute(valve.Segment("test"), func(ctx *router.Context) any {
			return "test 2"
		}, "GET /test"),
		router.NewRoute(valve.Root(), func(ctx *router.Context) any {
			return "welcome"
		}, "GET /"),
	).WithMetrics(metrics)
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "corehttpd",
		Short: "Smoke-test server for the routing core",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(v)
		},
	}

	flags := cmd.Flags()
	flags.String("transport", "socket", "transport to serve on: socket or cgi")
	flags.String("addr", "127.0.0.1:8080", "bind address for the socket transport")
	flags.String("log-level", "info", "logrus log level")

	_ = v.BindPFlag("transport", flags.Lookup("transport"))
	_ = v.BindPFlag("addr", flags.Lookup("addr"))
	_ = v.BindPFlag("log-level", flags.Lookup("log-level"))
	v.SetEnvPrefix("COREHTTPD")
	v.AutomaticEnv()

	return cmd
}

func run(v *viper.Viper) error {
	log := obs.NewLogger(v.GetString("log-level"))
	metrics := obs.NewMetrics(prometheus.NewRegistry())
	r := demoRouter(metrics).WithLogger(log)

	switch v.GetString("transport") {
	case "cgi":
		h := cgi.NewHandler(r)
		h.Log = log
		env := func(key string) string { return os.Getenv(key) }
		return h.ServeCGI(os.Environ(), env, os.Stdin, os.Stdout)

	case "socket":
		ln, err := net.Listen("tcp", v.GetString("addr"))
		if err != nil {
			return err
		}
		defer ln.Close()
		log.WithField("addr", ln.Addr().String()).Info("corehttpd: listening")
		srv := socket.NewServer(r)
		srv.Log = log
		return srv.Serve(ln)

	default:
		return fmt.Errorf("corehttpd: unknown transport %q", v.GetString("transport"))
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
