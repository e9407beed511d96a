package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/spf13/viper"

	"github.com/subgame-network/subgame/app"
)

// EnvPrefix prefixes every environment override, e.g. DEXD_API_AUTH_SECRET.
const EnvPrefix = "DEXD"

const appConfigTemplate = `# This is a TOML config file.
# For more information, see https://github.com/toml-lang/toml

###############################################################################
###                           Base Configuration                            ###
###############################################################################

# Minimum level of emitted log lines (trace|debug|info|warn|error).
log-level = "{{ .LogLevel }}"

# Log line format (plain|json).
log-format = "{{ .LogFormat }}"

# Assert the registered invariants after every block and drop a block that
# breaks one.
check-invariants = {{ .CheckInvariants }}

###############################################################################
###                            Native Currency                              ###
###############################################################################

[native]

denom = "{{ .Native.Denom }}"
symbol = "{{ .Native.Symbol }}"
decimals = {{ .Native.Decimals }}

# Smallest native balance an account may hold. Zero disables reaping.
existential-deposit = "{{ .Native.ExistentialDeposit }}"

###############################################################################
###                                 Store                                   ###
###############################################################################

[store]

# Database backend (goleveldb|memdb). memdb keeps nothing across runs.
backend = "{{ .Store.Backend }}"

# Database directory, relative to the home directory.
dir = "{{ .Store.Dir }}"

###############################################################################
###                               Telemetry                                 ###
###############################################################################

[telemetry]

enabled = {{ .Telemetry.Enabled }}
metrics-port = {{ .Telemetry.MetricsPort }}
prometheus-enabled = {{ .Telemetry.PrometheusEnabled }}

# OTLP/HTTP collector endpoint. Tracing is off while empty.
trace-endpoint = "{{ .Telemetry.TraceEndpoint }}"
sample-rate = {{ .Telemetry.SampleRate }}

###############################################################################
###                                  API                                    ###
###############################################################################

[api]

address = "{{ .API.Address }}"
allowed-origins = [{{ range $i, $o := .API.AllowedOrigins }}{{ if $i }}, {{ end }}"{{ $o }}"{{ end }}]

# Requests per second and burst allowed per client IP. Zero disables limiting.
rate-limit = {{ .API.RateLimit }}
rate-burst = {{ .API.RateBurst }}

# HS256 secret for block submission tokens. Submission is disabled while empty.
auth-secret = "{{ .API.AuthSecret }}"
`

var configTemplate = template.Must(template.New("app.toml").Parse(appConfigTemplate))

// ConfigFile returns the path of app.toml under home.
func ConfigFile(home string) string {
	return filepath.Join(home, "config", "app.toml")
}

// GenesisFile returns the path of genesis.json under home.
func GenesisFile(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

func renderConfig(cfg app.Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := configTemplate.Execute(&buf, cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteConfigFile renders cfg into path.
func WriteConfigFile(path string, cfg app.Config) error {
	bz, err := renderConfig(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, bz, 0o600)
}

// LoadConfig merges app.toml under home over the defaults and applies DEXD_*
// environment overrides. A missing file leaves the defaults in place.
func LoadConfig(v *viper.Viper, home string) (app.Config, error) {
	cfg := app.DefaultConfig()
	defaults, err := renderConfig(cfg)
	if err != nil {
		return cfg, err
	}

	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Every key is known up front so environment overrides apply without a file.
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return cfg, err
	}
	v.SetConfigFile(ConfigFile(home))
	if err := v.MergeInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("failed to read %s: %w", ConfigFile(home), err)
	}
	var loaded app.Config
	if err := v.Unmarshal(&loaded); err != nil {
		return cfg, fmt.Errorf("failed to decode config: %w", err)
	}
	return loaded, loaded.Validate()
}
