package cmd

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/respkit/respkit/pkg/api"
	"github.com/respkit/respkit/pkg/logging"
	"github.com/respkit/respkit/pkg/metrics"
	"github.com/respkit/respkit/pkg/middleware"
	"github.com/respkit/respkit/pkg/ratelimit"
	"github.com/respkit/respkit/pkg/shutdown"
	respkittls "github.com/respkit/respkit/pkg/tls"
	"github.com/respkit/respkit/pkg/tracing"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the respkit demo server",
	Long: `Starts the HTTP server with the full middleware chain: buffered responses,
request IDs, access logging, Prometheus metrics, rate limiting and optional
OpenTelemetry tracing.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (overrides config)")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logging.NewLogger(logging.ParseLevel(viper.GetString("log.level")), viper.GetBool("log.json"))

	provider, err := tracing.InitTracer(tracing.Config{
		ServiceName:    "respkit",
		ServiceVersion: Version,
		Environment:    viper.GetString("tracing.environment"),
		OTLPEndpoint:   viper.GetString("tracing.endpoint"),
		Enabled:        viper.GetBool("tracing.enabled"),
	})
	if err != nil {
		return err
	}

	recorder := metrics.NewRecorder()

	router := mux.NewRouter()
	api.NewHandler().RegisterRoutes(router)
	router.Handle("/metrics", recorder.Handler()).Methods("GET")

	chain := []middleware.Middleware{
		middleware.Buffer(viper.GetInt("server.buffer_size")),
		middleware.RequestID(),
		middleware.AccessLog(log),
		middleware.Metrics(recorder),
		tracing.HTTPMiddleware(provider),
		middleware.Charset(viper.GetString("server.charset")),
	}
	if viper.GetBool("ratelimit.enabled") {
		limiter := ratelimit.NewLimiter(viper.GetFloat64("ratelimit.rps"), viper.GetInt("ratelimit.burst"))
		keyFunc := ratelimit.IPKeyFunc
		if viper.GetString("ratelimit.key") == "api_key" {
			keyFunc = ratelimit.APIKeyFunc
		}
		chain = append(chain, middleware.Middleware(limiter.Middleware(keyFunc)))
	}

	server := &http.Server{
		Addr:         viper.GetString("server.addr"),
		Handler:      middleware.Chain(router, chain...),
		ReadTimeout:  viper.GetDuration("server.read_timeout"),
		WriteTimeout: viper.GetDuration("server.write_timeout"),
	}

	mgr := shutdown.New(viper.GetDuration("server.shutdown_timeout"), log)
	mgr.Register(provider.Shutdown)
	mgr.Register(shutdown.StopHTTPServer(server, "respkit"))

	useTLS := viper.GetBool("server.tls.enabled")
	if useTLS {
		certFile := viper.GetString("server.tls.cert_file")
		keyFile := viper.GetString("server.tls.key_file")
		created, err := respkittls.EnsureCert(certFile, keyFile, "respkit")
		if err != nil {
			return err
		}
		if created {
			log.Warn("Generated self-signed certificate", map[string]interface{}{"cert": certFile})
		}
		tlsConfig, err := respkittls.LoadServerTLSConfig(certFile, keyFile, viper.GetString("server.tls.ca_file"))
		if err != nil {
			return err
		}
		server.TLSConfig = tlsConfig
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Server listening", map[string]interface{}{"addr": server.Addr, "tls": useTLS})
		var err error
		if useTLS {
			err = server.ListenAndServeTLS("", "")
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	go func() {
		mgr.Wait()
		mgr.Shutdown()
		errChan <- nil
	}()

	return <-errChan
}
