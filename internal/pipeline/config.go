package pipeline

import (
	"encoding/json"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"

	"github.com/signalcraft-lab/signalcraft/pkg/errors"
)

// Config is the validated parameter set for one pipeline run. It is
// constructed by the caller (CLI flags, YAML file or API request) up front;
// the core never prompts for parameters.
type Config struct {
	// Symbol is used for logging and history lookup only; the computation is
	// symbol-agnostic.
	Symbol string `yaml:"symbol" json:"symbol" jsonschema:"title=Symbol,description=The equity symbol the price series belongs to,required" validate:"required"`
	// TargetPct is the profit-target offset in percent of the close.
	TargetPct float64 `yaml:"target_pct" json:"targetPct" jsonschema:"title=Target Percent,description=Profit target offset in percent of the closing price,default=2" validate:"gt=-100"`
	// StopLossPct is the stop-loss offset in percent of the close.
	StopLossPct float64 `yaml:"stop_loss_pct" json:"stopLossPct" jsonschema:"title=Stop Loss Percent,description=Stop loss offset in percent of the closing price,default=2" validate:"gt=-100"`
	// BuyRSIThreshold marks oversold territory for the buy rule.
	BuyRSIThreshold float64 `yaml:"buy_rsi_threshold" json:"buyRsiThreshold" jsonschema:"title=Buy RSI Threshold,description=RSI level below which the buy rule may fire,default=30" validate:"gte=0,lte=100"`
	// SellRSIThreshold marks overbought territory for the sell rule.
	SellRSIThreshold float64 `yaml:"sell_rsi_threshold" json:"sellRsiThreshold" jsonschema:"title=Sell RSI Threshold,description=RSI level above which the sell rule may fire,default=70" validate:"gte=0,lte=100"`
	// DynamicTarget is a reserved extension point; it currently changes
	// nothing about the target/stop-loss formulas.
	DynamicTarget bool `yaml:"dynamic_target" json:"dynamicTarget" jsonschema:"title=Dynamic Target,description=Reserved flag with no current behavior,default=false"`
}

// DefaultConfig returns the configuration with the standard parameter
// defaults for the given symbol.
func DefaultConfig(symbol string) Config {
	return Config{
		Symbol:           symbol,
		TargetPct:        2,
		StopLossPct:      2,
		BuyRSIThreshold:  30,
		SellRSIThreshold: 70,
		DynamicTarget:    false,
	}
}

// LoadConfig reads a YAML config file. Fields absent from the file keep
// their defaults. The result is not validated; callers run Validate before
// entering the pipeline.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to read config file", err)
	}

	config := DefaultConfig("")
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config file", err)
	}

	return config, nil
}

// Validate checks the configuration against its field constraints.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	return nil
}

// ConfigJSONSchema returns the JSON schema of the run configuration.
func ConfigJSONSchema() (string, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true
	schema := r.Reflect(&Config{})

	jsonSchemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(jsonSchemaBytes), nil
}
