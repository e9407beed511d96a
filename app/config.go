package app

import (
	"fmt"
	"os"
	"path/filepath"

	"cosmossdk.io/math"

	assetstypes "github.com/subgame-network/subgame/x/assets/types"
)

// Store backends understood by OpenDB.
const (
	BackendMemDB   = "memdb"
	BackendLevelDB = "goleveldb"
)

// DefaultNodeHome is the default home directory for dexd.
var DefaultNodeHome string

func init() {
	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}

	DefaultNodeHome = filepath.Join(userHomeDir, ".dexd")
}

// NativeSection configures the base currency. The existential deposit is a
// decimal string so large values survive TOML.
type NativeSection struct {
	Denom              string `mapstructure:"denom"`
	Symbol             string `mapstructure:"symbol"`
	Decimals           uint8  `mapstructure:"decimals"`
	ExistentialDeposit string `mapstructure:"existential-deposit"`
}

// StoreSection selects the database backend.
type StoreSection struct {
	Backend string `mapstructure:"backend"`
	Dir     string `mapstructure:"dir"`
}

// TelemetrySection configures metrics and tracing export.
type TelemetrySection struct {
	Enabled           bool    `mapstructure:"enabled"`
	MetricsPort       int     `mapstructure:"metrics-port"`
	PrometheusEnabled bool    `mapstructure:"prometheus-enabled"`
	TraceEndpoint     string  `mapstructure:"trace-endpoint"`
	SampleRate        float64 `mapstructure:"sample-rate"`
}

// APISection configures the HTTP query server.
type APISection struct {
	Address        string   `mapstructure:"address"`
	AllowedOrigins []string `mapstructure:"allowed-origins"`
	RateLimit      float64  `mapstructure:"rate-limit"`
	RateBurst      int      `mapstructure:"rate-burst"`
	// AuthSecret signs the HS256 tokens that may submit blocks. Submission
	// is disabled while it is empty.
	AuthSecret string `mapstructure:"auth-secret"`
}

// Config is the host configuration, read from app.toml and DEXD_* variables.
type Config struct {
	Native          NativeSection    `mapstructure:"native"`
	Store           StoreSection     `mapstructure:"store"`
	LogLevel        string           `mapstructure:"log-level"`
	LogFormat       string           `mapstructure:"log-format"`
	CheckInvariants bool             `mapstructure:"check-invariants"`
	Telemetry       TelemetrySection `mapstructure:"telemetry"`
	API             APISection       `mapstructure:"api"`
}

// DefaultConfig returns the configuration written by `dexd init`.
func DefaultConfig() Config {
	native := assetstypes.DefaultNativeConfig()
	return Config{
		Native: NativeSection{
			Denom:              native.Denom,
			Symbol:             native.Symbol,
			Decimals:           native.Decimals,
			ExistentialDeposit: native.ExistentialDeposit.String(),
		},
		Store:           StoreSection{Backend: BackendLevelDB, Dir: "data"},
		LogLevel:        "info",
		LogFormat:       "plain",
		CheckInvariants: true,
		Telemetry: TelemetrySection{
			MetricsPort: 36660,
			SampleRate:  0.1,
		},
		API: APISection{
			Address:        "127.0.0.1:1317",
			AllowedOrigins: []string{"*"},
			RateLimit:      20,
			RateBurst:      40,
		},
	}
}

// NativeConfig converts the native section into the ledger configuration.
func (c Config) NativeConfig() (assetstypes.NativeConfig, error) {
	ed := math.ZeroInt()
	if c.Native.ExistentialDeposit != "" {
		var ok bool
		ed, ok = math.NewIntFromString(c.Native.ExistentialDeposit)
		if !ok {
			return assetstypes.NativeConfig{}, fmt.Errorf("invalid existential deposit %q", c.Native.ExistentialDeposit)
		}
	}
	native := assetstypes.NativeConfig{
		Denom:              c.Native.Denom,
		Symbol:             c.Native.Symbol,
		Decimals:           c.Native.Decimals,
		ExistentialDeposit: ed,
	}
	return native, native.Validate()
}

// Validate performs basic configuration checks.
func (c Config) Validate() error {
	if _, err := c.NativeConfig(); err != nil {
		return err
	}
	switch c.Store.Backend {
	case BackendMemDB, BackendLevelDB:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	switch c.LogFormat {
	case "", "plain", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		return fmt.Errorf("trace sample rate %v outside [0, 1]", c.Telemetry.SampleRate)
	}
	return nil
}
