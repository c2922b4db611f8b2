// Command livesse subscribes to a server-sent event stream and logs every
// state change until interrupted.
//
//	livesse --url https://api.example.com/jobs/stream
//	livesse --config ./config.yml --header X-Tenant=acme
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/pflag"

	"github.com/kbukum/livesse/bootstrap"
	"github.com/kbukum/livesse/config"
	"github.com/kbukum/livesse/eventsource"
	"github.com/kbukum/livesse/httpclient"
	"github.com/kbukum/livesse/logger"
	"github.com/kbukum/livesse/observability"
	"github.com/kbukum/livesse/subscription"
	"github.com/kbukum/livesse/version"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "livesse:", err)
		os.Exit(1)
	}
}

type flags struct {
	configFile string
	envFile    string
	url        string
	retries    int
	strategy   string
	method     string
	headers    map[string]string
	token      string
	raw        bool
	version    bool
}

func parseFlags(args []string, out io.Writer) (*flags, *pflag.FlagSet, error) {
	f := &flags{}
	fs := pflag.NewFlagSet(serviceName, pflag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVarP(&f.configFile, "config", "c", "", "config file (default: search ./cmd/livesse, ./config, .)")
	fs.StringVar(&f.envFile, "env-file", "", ".env file loaded before environment overrides")
	fs.StringVarP(&f.url, "url", "u", "", "event stream URL")
	fs.IntVar(&f.retries, "max-retries", 0, "reconnects allowed per session")
	fs.StringVar(&f.strategy, "retry-strategy", "", "on-error or always")
	fs.StringVarP(&f.method, "method", "X", "", "HTTP method, GET or POST")
	fs.StringToStringVarP(&f.headers, "header", "H", nil, "extra request header as key=value (repeatable)")
	fs.StringVar(&f.token, "token", "", "bearer token")
	fs.BoolVar(&f.raw, "raw", false, "keep message payloads as text instead of decoding JSON")
	fs.BoolVarP(&f.version, "version", "v", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs, nil
}

// loadConfig layers defaults, config file, environment and flags.
func loadConfig(f *flags, fs *pflag.FlagSet) (AppConfig, error) {
	cfg := DefaultAppConfig()

	var opts []config.LoaderOption
	if f.configFile != "" {
		opts = append(opts, config.WithConfigFile(f.configFile))
	}
	if f.envFile != "" {
		opts = append(opts, config.WithEnvFile(f.envFile))
	}
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return cfg, err
	}

	if fs.Changed("url") {
		cfg.Subscription.URL = f.url
	}
	if fs.Changed("max-retries") {
		cfg.Subscription.MaxRetryCount = f.retries
	}
	if fs.Changed("retry-strategy") {
		cfg.Subscription.RetryStrategy = eventsource.RetryStrategy(f.strategy)
	}
	if fs.Changed("method") {
		cfg.Subscription.Method = f.method
	}
	if len(f.headers) > 0 {
		if cfg.Subscription.Headers == nil {
			cfg.Subscription.Headers = make(map[string]string, len(f.headers))
		}
		for k, v := range f.headers {
			cfg.Subscription.Headers[k] = v
		}
	}
	if fs.Changed("token") {
		cfg.Client.Auth = httpclient.BearerAuth(f.token)
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, out io.Writer) error {
	f, fs, err := parseFlags(args, out)
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	if f.version {
		fmt.Fprintln(out, version.String())
		return nil
	}

	cfg, err := loadConfig(f, fs)
	if err != nil {
		return err
	}
	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		return err
	}

	if err := initTelemetry(ctx, app); err != nil {
		return err
	}
	metrics, err := observability.NewSubscriptionMetrics(observability.Meter(observability.TracerName))
	if err != nil {
		return err
	}

	client, err := httpclient.New(cfg.Client)
	if err != nil {
		return err
	}
	transport := eventsource.NewTransport(client)

	opts := []subscription.Option{subscription.WithMetrics(metrics)}
	if f.raw {
		opts = append(opts, subscription.WithDecoder(subscription.DecoderFunc(decodeText)))
	}
	mgr, err := subscription.FromConfig[any](cfg.Subscription, transport, opts...)
	if err != nil {
		return err
	}
	mgr.Watch(logState(app.Logger))

	if err := app.RegisterComponent(mgr); err != nil {
		return err
	}
	return app.Run(ctx)
}

// initTelemetry installs the OTLP meter and tracer providers when enabled
// and flushes them after the components stopped.
func initTelemetry(ctx context.Context, app *bootstrap.App[*AppConfig]) error {
	oc := app.Cfg.Observability
	if !oc.Enabled {
		return nil
	}
	mp, err := observability.InitMeter(ctx, oc.Meter(app.Name, app.Version))
	if err != nil {
		return err
	}
	tp, err := observability.InitTracer(ctx, oc.Tracer(app.Name, app.Version))
	if err != nil {
		_ = mp.Shutdown(ctx)
		return err
	}
	app.OnStop(tp.Shutdown, mp.Shutdown)
	return nil
}

func decodeText(data []byte, v any) error {
	p, ok := v.(*any)
	if !ok {
		return fmt.Errorf("text decoder needs *any, got %T", v)
	}
	*p = string(data)
	return nil
}

func logState(log *logger.Logger) func(subscription.State[any]) {
	return func(s subscription.State[any]) {
		fields := logger.Fields(
			logger.FieldSessionID, s.PID,
			"connected", s.Connected,
		)
		if s.Error != "" {
			fields[logger.FieldError] = s.Error
		}
		if s.Data != nil {
			if b, err := json.Marshal(*s.Data); err == nil {
				fields["data"] = string(b)
			}
		}
		log.Info("Subscription state", fields)
	}
}
