package main

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/hashicorp/go-version"
	"github.com/urfave/cli"
)

// Flag names.
const (
	listenFlag             = "listen"
	settingsFileFlag       = "settings-file"
	settingsTTLFlag        = "settings-ttl"
	platformVersionFlag    = "platform-version"
	platformReleaseFlag    = "platform-release"
	minimumReleaseFlag     = "minimum-release"
	recommendedReleaseFlag = "recommended-release"
	upgradeURLFlag         = "upgrade-url"
	baseURLFlag            = "base-url"
	logLevelFlag           = "log-level"
	tracingExporterFlag    = "tracing-exporter"
	metricsExporterFlag    = "metrics-exporter"
	jwtSecretFlag          = "jwt-secret"
	jwtIssuerFlag          = "jwt-issuer"
	jwtAudienceFlag        = "jwt-audience"
	apiKeysFileFlag        = "api-keys-file"
	policyFileFlag         = "policy-file"
	allowAnonymousFlag     = "allow-anonymous"
	secretsDirFlag         = "secrets-dir"
	rateLimitFlag          = "rate-limit"
	rateBurstFlag          = "rate-burst"
	checkTimeoutFlag       = "check-timeout"
	kubeconfigFlag         = "kubeconfig"
	inClusterFlag          = "in-cluster"
	nodeSelectorFlag       = "node-selector"
)

// Flags is the set of flags supported by statuscheckd.
var Flags = []cli.Flag{
	cli.StringFlag{Name: listenFlag, EnvVar: "STATUSCHECK_LISTEN", Value: ":8080", Usage: "HTTP listen address"},
	cli.StringFlag{Name: settingsFileFlag, EnvVar: "STATUSCHECK_SETTINGS_FILE", Usage: "YAML settings file"},
	cli.DurationFlag{Name: settingsTTLFlag, EnvVar: "STATUSCHECK_SETTINGS_TTL", Value: 30 * time.Second, Usage: "How long settings lookups are cached"},
	cli.StringFlag{Name: platformVersionFlag, EnvVar: "STATUSCHECK_PLATFORM_VERSION", Usage: "Platform version reported in detailed responses"},
	cli.StringFlag{Name: platformReleaseFlag, EnvVar: "STATUSCHECK_PLATFORM_RELEASE", Usage: "Platform release name reported in detailed responses"},
	cli.StringFlag{Name: minimumReleaseFlag, EnvVar: "STATUSCHECK_MINIMUM_RELEASE", Usage: "Oldest supported platform version"},
	cli.StringFlag{Name: recommendedReleaseFlag, EnvVar: "STATUSCHECK_RECOMMENDED_RELEASE", Usage: "Platform version below which a warning is reported"},
	cli.StringFlag{Name: upgradeURLFlag, EnvVar: "STATUSCHECK_UPGRADE_URL", Usage: "Upgrade instructions linked from release results"},
	cli.StringFlag{Name: baseURLFlag, EnvVar: "STATUSCHECK_BASE_URL", Usage: "Base URL for relative action links"},
	cli.StringFlag{Name: logLevelFlag, EnvVar: "STATUSCHECK_LOG_LEVEL", Value: "info", Usage: "Logging level (debug, info, warn, error)"},
	cli.StringFlag{Name: tracingExporterFlag, EnvVar: "STATUSCHECK_TRACING_EXPORTER", Value: "none", Usage: "Trace exporter (otlp, jaeger, stdout, none)"},
	cli.StringFlag{Name: metricsExporterFlag, EnvVar: "STATUSCHECK_METRICS_EXPORTER", Value: "prometheus", Usage: "Metrics exporter (otlp, prometheus, stdout, none)"},
	cli.StringFlag{Name: jwtSecretFlag, EnvVar: "STATUSCHECK_JWT_SECRET", Usage: "HMAC secret for bearer tokens; accepts secretref:env:NAME or secretref:file:PATH"},
	cli.StringFlag{Name: jwtIssuerFlag, EnvVar: "STATUSCHECK_JWT_ISSUER", Usage: "Required token issuer"},
	cli.StringFlag{Name: jwtAudienceFlag, EnvVar: "STATUSCHECK_JWT_AUDIENCE", Usage: "Required token audience"},
	cli.StringFlag{Name: apiKeysFileFlag, EnvVar: "STATUSCHECK_API_KEYS_FILE", Usage: "YAML file of hashed API keys"},
	cli.StringFlag{Name: policyFileFlag, EnvVar: "STATUSCHECK_POLICY_FILE", Usage: "YAML role policy; defaults to admin and monitor roles"},
	cli.BoolFlag{Name: allowAnonymousFlag, EnvVar: "STATUSCHECK_ALLOW_ANONYMOUS", Usage: "Treat requests without credentials as anonymous"},
	cli.StringFlag{Name: secretsDirFlag, EnvVar: "STATUSCHECK_SECRETS_DIR", Usage: "Base directory for relative secretref:file references"},
	cli.Float64Flag{Name: rateLimitFlag, EnvVar: "STATUSCHECK_RATE_LIMIT", Value: 10, Usage: "Requests per second admitted to status endpoints"},
	cli.IntFlag{Name: rateBurstFlag, EnvVar: "STATUSCHECK_RATE_BURST", Value: 20, Usage: "Request burst admitted to status endpoints"},
	cli.DurationFlag{Name: checkTimeoutFlag, EnvVar: "STATUSCHECK_CHECK_TIMEOUT", Value: 10 * time.Second, Usage: "Time limit for a single built-in check"},
	cli.StringFlag{Name: kubeconfigFlag, EnvVar: "KUBECONFIG", Usage: "Kubeconfig for the node readiness check"},
	cli.BoolFlag{Name: inClusterFlag, EnvVar: "STATUSCHECK_IN_CLUSTER", Usage: "Use the in-cluster service account for the node readiness check"},
	cli.StringFlag{Name: nodeSelectorFlag, EnvVar: "STATUSCHECK_NODE_SELECTOR", Usage: "Label selector limiting which nodes are checked"},
}

// Config holds the daemon configuration.
type Config struct {
	Listen       string
	SettingsFile string
	SettingsTTL  time.Duration

	PlatformVersion    string
	PlatformRelease    string
	MinimumRelease     string
	RecommendedRelease string
	UpgradeURL         string
	BaseURL            string

	LogLevel        string
	TracingExporter string
	MetricsExporter string

	JWTSecret      string
	JWTIssuer      string
	JWTAudience    string
	APIKeysFile    string
	PolicyFile     string
	AllowAnonymous bool
	SecretsDir     string

	RateLimit    float64
	RateBurst    int
	CheckTimeout time.Duration

	Kubeconfig   string
	InCluster    bool
	NodeSelector string
}

// New reads the configuration from the parsed command line.
func New(context *cli.Context) *Config {
	return &Config{
		Listen:             context.String(listenFlag),
		SettingsFile:       context.String(settingsFileFlag),
		SettingsTTL:        context.Duration(settingsTTLFlag),
		PlatformVersion:    context.String(platformVersionFlag),
		PlatformRelease:    context.String(platformReleaseFlag),
		MinimumRelease:     context.String(minimumReleaseFlag),
		RecommendedRelease: context.String(recommendedReleaseFlag),
		UpgradeURL:         context.String(upgradeURLFlag),
		BaseURL:            context.String(baseURLFlag),
		LogLevel:           context.String(logLevelFlag),
		TracingExporter:    context.String(tracingExporterFlag),
		MetricsExporter:    context.String(metricsExporterFlag),
		JWTSecret:          context.String(jwtSecretFlag),
		JWTIssuer:          context.String(jwtIssuerFlag),
		JWTAudience:        context.String(jwtAudienceFlag),
		APIKeysFile:        context.String(apiKeysFileFlag),
		PolicyFile:         context.String(policyFileFlag),
		AllowAnonymous:     context.Bool(allowAnonymousFlag),
		SecretsDir:         context.String(secretsDirFlag),
		RateLimit:          context.Float64(rateLimitFlag),
		RateBurst:          context.Int(rateBurstFlag),
		CheckTimeout:       context.Duration(checkTimeoutFlag),
		Kubeconfig:         context.String(kubeconfigFlag),
		InCluster:          context.Bool(inClusterFlag),
		NodeSelector:       context.String(nodeSelectorFlag),
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error
	if c.Listen == "" {
		errs = append(errs, errors.New("listen address is required"))
	}
	for _, f := range [][2]string{{minimumReleaseFlag, c.MinimumRelease}, {recommendedReleaseFlag, c.RecommendedRelease}} {
		if f[1] == "" {
			continue
		}
		if _, err := version.NewVersion(f[1]); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f[0], err))
		}
	}
	for _, f := range [][2]string{{upgradeURLFlag, c.UpgradeURL}, {baseURLFlag, c.BaseURL}} {
		if f[1] == "" {
			continue
		}
		if u, err := url.Parse(f[1]); err != nil || !u.IsAbs() {
			errs = append(errs, fmt.Errorf("%s: %q is not an absolute URL", f[0], f[1]))
		}
	}
	if c.RateLimit <= 0 || c.RateBurst <= 0 {
		errs = append(errs, errors.New("rate limit and burst must be positive"))
	}
	if c.Kubeconfig != "" && c.InCluster {
		errs = append(errs, fmt.Errorf("%s and %s are mutually exclusive", kubeconfigFlag, inClusterFlag))
	}
	return errors.Join(errs...)
}
