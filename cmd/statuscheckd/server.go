package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/hashicorp/go-version"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/jonwraymond/statuscheck/auth"
	"github.com/jonwraymond/statuscheck/cache"
	"github.com/jonwraymond/statuscheck/checks"
	"github.com/jonwraymond/statuscheck/observe"
	"github.com/jonwraymond/statuscheck/resilience"
	"github.com/jonwraymond/statuscheck/secret"
	"github.com/jonwraymond/statuscheck/settings"
	"github.com/jonwraymond/statuscheck/status"
)

const serviceName = "statuscheckd"

// daemon is the assembled service.
type daemon struct {
	server   *http.Server
	observer observe.Observer
	resolver *secret.Resolver
	logger   observe.Logger
}

// newDaemon wires every component described by conf. It does not start
// listening.
func newDaemon(ctx context.Context, conf Config, appVersion string) (*daemon, error) {
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	obs, err := observe.NewObserver(ctx, observe.Config{
		ServiceName: serviceName,
		Version:     appVersion,
		Tracing: observe.TracingConfig{
			Enabled:   conf.TracingExporter != "none" && conf.TracingExporter != "",
			Exporter:  conf.TracingExporter,
			SamplePct: 1,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  conf.MetricsExporter != "none" && conf.MetricsExporter != "",
			Exporter: conf.MetricsExporter,
		},
		Logging: observe.LoggingConfig{Enabled: true, Level: conf.LogLevel},
	})
	if err != nil {
		return nil, fmt.Errorf("observability: %w", err)
	}
	logger := obs.Logger()

	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		return nil, fmt.Errorf("observability: %w", err)
	}

	resolver, err := newResolver(conf)
	if err != nil {
		return nil, err
	}

	store := cache.NewMemoryCache(cache.DefaultPolicy())
	provider := newSettingsProvider(conf, store, resolver)

	registry := status.NewRegistry()
	if err := registerChecks(ctx, registry, conf, logger); err != nil {
		return nil, err
	}

	var baseURL *url.URL
	if conf.BaseURL != "" {
		baseURL, _ = url.Parse(conf.BaseURL)
	}

	agg, err := status.NewAggregator(registry,
		status.WithSettings(provider),
		status.WithNormalizer(status.NewNormalizer(baseURL, mw)),
		status.WithMiddleware(mw),
		status.WithLogger(logger),
		status.WithPlatform(status.Platform{Version: conf.PlatformVersion, Release: conf.PlatformRelease}),
	)
	if err != nil {
		return nil, err
	}
	svc := status.NewCachedAggregator(agg, store)

	gate, err := newGate(ctx, conf, resolver, logger)
	if err != nil {
		return nil, err
	}
	limiter := resilience.NewRateLimiter(resilience.RateLimiterConfig{Rate: conf.RateLimit, Burst: conf.RateBurst})

	mux := http.NewServeMux()
	status.RegisterHandlers(mux, svc, logger,
		func(h http.Handler) http.Handler { return status.LimitHandler(limiter, h) },
		gate.Wrap,
	)
	if conf.MetricsExporter == "prometheus" {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	return &daemon{
		server: &http.Server{
			Addr:              conf.Listen,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		observer: obs,
		resolver: resolver,
		logger:   logger,
	}, nil
}

// run serves until ctx is canceled, then drains in-flight requests.
func (d *daemon) run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		d.logger.Info(ctx, "server started", observe.Field{Key: "addr", Value: d.server.Addr})
		errCh <- d.server.ListenAndServe()
	}()

	var serveErr error
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = err
		}
	case <-ctx.Done():
		d.logger.Info(context.Background(), "shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return errors.Join(serveErr, d.close(shutdownCtx))
}

func (d *daemon) close(ctx context.Context) error {
	var errs []error
	if err := d.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := d.observer.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := d.resolver.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func newResolver(conf Config) (*secret.Resolver, error) {
	providers, err := secret.NewDefaultRegistry().CreateAll(map[string]map[string]any{
		"env":  nil,
		"file": {"dir": conf.SecretsDir},
	})
	if err != nil {
		return nil, fmt.Errorf("secret providers: %w", err)
	}
	return secret.NewResolver(true, providers...), nil
}

// newSettingsProvider layers environment over the settings file. Raw values
// are cached; secret references are resolved on every read.
func newSettingsProvider(conf Config, c cache.Cache, resolver *secret.Resolver) settings.Provider {
	chain := settings.ChainProvider{settings.NewEnvProvider()}
	if conf.SettingsFile != "" {
		chain = append(chain, settings.NewFileProvider(conf.SettingsFile))
	}
	return settings.NewResolvingProvider(settings.NewCachedProvider(chain, c, conf.SettingsTTL), resolver)
}

func registerChecks(ctx context.Context, registry *status.Registry, conf Config, logger observe.Logger) error {
	guard := func(check status.Check) status.Check {
		ref := check.Ref()
		cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			OnStateChange: func(from, to resilience.State) {
				logger.Warn(ctx, "check circuit changed",
					observe.Field{Key: "check", Value: ref},
					observe.Field{Key: "from", Value: from.String()},
					observe.Field{Key: "to", Value: to.String()},
				)
			},
		})
		return checks.Guard(check, resilience.NewExecutor(
			resilience.WithCircuitBreaker(cb),
			resilience.WithTimeout(conf.CheckTimeout),
		))
	}

	builtins := []status.Check{checks.NewMemoryCheck(checks.MemoryConfig{})}

	if conf.PlatformVersion != "" {
		builtins = append(builtins, newReleaseCheck(conf))
	}

	client, err := kubeClient(conf)
	if err != nil {
		return err
	}
	if client != nil {
		builtins = append(builtins, checks.NewNodeCheck(client, conf.NodeSelector))
	}

	for _, check := range builtins {
		if err := registry.RegisterTyped(guard(check)); err != nil {
			return fmt.Errorf("register %s: %w", check.Ref(), err)
		}
	}
	return nil
}

// newReleaseCheck assumes conf has been validated.
func newReleaseCheck(conf Config) *checks.ReleaseCheck {
	var (
		minimum *version.Version
		opts    []checks.ReleaseOption
	)
	if conf.MinimumRelease != "" {
		minimum = version.Must(version.NewVersion(conf.MinimumRelease))
	}
	if conf.RecommendedRelease != "" {
		opts = append(opts, checks.WithRecommended(version.Must(version.NewVersion(conf.RecommendedRelease))))
	}
	if conf.UpgradeURL != "" {
		if u, err := url.Parse(conf.UpgradeURL); err == nil {
			opts = append(opts, checks.WithUpgradeURL(u))
		}
	}
	return checks.NewReleaseCheck(conf.PlatformVersion, minimum, opts...)
}

// kubeClient returns nil when no cluster access is configured.
func kubeClient(conf Config) (kubernetes.Interface, error) {
	var (
		restConfig *rest.Config
		err        error
	)
	switch {
	case conf.InCluster:
		restConfig, err = rest.InClusterConfig()
	case conf.Kubeconfig != "":
		restConfig, err = clientcmd.BuildConfigFromFlags("", conf.Kubeconfig)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("kubernetes config: %w", err)
	}
	client, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("kubernetes client: %w", err)
	}
	return client, nil
}

func newGate(ctx context.Context, conf Config, resolver *secret.Resolver, logger observe.Logger) (*auth.Gate, error) {
	var chain auth.Chain

	if conf.APIKeysFile != "" {
		data, err := os.ReadFile(conf.APIKeysFile)
		if err != nil {
			return nil, fmt.Errorf("api keys: %w", err)
		}
		keys, err := auth.ParseAPIKeys(data)
		if err != nil {
			return nil, err
		}
		chain = append(chain, auth.NewAPIKeyAuthenticator(auth.DefaultAPIKeyHeader, keys...))
	}

	if conf.JWTSecret != "" {
		jwtSecret, err := resolver.ResolveValue(ctx, conf.JWTSecret)
		if err != nil {
			return nil, fmt.Errorf("jwt secret: %w", err)
		}
		chain = append(chain, auth.NewJWTAuthenticator(auth.JWTConfig{
			Secret:   []byte(jwtSecret),
			Issuer:   conf.JWTIssuer,
			Audience: conf.JWTAudience,
		}))
	}

	if len(chain) == 0 {
		logger.Warn(ctx, "no credentials configured, status endpoints are open")
		return auth.NewGate(nil, auth.AllowAllAuthorizer{}, auth.WithAnonymous(), auth.WithLogger(logger)), nil
	}

	policy := auth.DefaultPolicy()
	if conf.PolicyFile != "" {
		data, err := os.ReadFile(conf.PolicyFile)
		if err != nil {
			return nil, fmt.Errorf("policy: %w", err)
		}
		if policy, err = auth.ParsePolicy(data); err != nil {
			return nil, err
		}
	}

	opts := []auth.GateOption{auth.WithLogger(logger)}
	if conf.AllowAnonymous {
		opts = append(opts, auth.WithAnonymous())
	}
	return auth.NewGate(chain, auth.NewRBACAuthorizer(policy), opts...), nil
}
