package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// PayrollConfig carries the statutory figures that change yearly. The
// compiled-in tables are the source of truth; a mounted payroll.yml can
// override them ahead of a release when new figures are published.
type PayrollConfig struct {
	RateOverrides []RateOverride `mapstructure:"rateOverrides"`
}

// RateOverride replaces the FICA figures for one calendar year.
type RateOverride struct {
	Year                        int     `mapstructure:"year"`
	SocialSecurityRate          float64 `mapstructure:"socialSecurityRate"`
	SocialSecurityWageBaseCents int64   `mapstructure:"socialSecurityWageBaseCents"`
	MedicareRate                float64 `mapstructure:"medicareRate"`
	AdditionalMedicareRate      float64 `mapstructure:"additionalMedicareRate"`
	AdditionalMedicareFloor     int64   `mapstructure:"additionalMedicareFloorCents"`
}

func DefaultPayrollConfig() PayrollConfig {
	return PayrollConfig{}
}

type PayrollConfigHolder struct {
	current atomic.Value // holds PayrollConfig
}

func NewPayrollConfigHolder() (*PayrollConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("payroll")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/paydocs/config") // Volume-mounted config
	v.AddConfigPath("/etc/paydocs")            // System config
	v.AddConfigPath(".")                       // Current directory (dev mode)

	v.SetEnvPrefix("PAYDOCS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg PayrollConfig
	if err := v.UnmarshalKey("payroll", &cfg); err != nil {
		return nil, err
	}
	if err := validatePayrollConfig(cfg); err != nil {
		return nil, err
	}

	holder := &PayrollConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated PayrollConfig
		if err := v.UnmarshalKey("payroll", &updated); err != nil {
			log.Printf("[payroll-config] reload failed: %v", err)
			return
		}
		if err := validatePayrollConfig(updated); err != nil {
			log.Printf("[payroll-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[payroll-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticPayrollConfigHolder wraps a fixed config with no file
// watching. Useful when the figures come from somewhere other than a
// mounted payroll.yml.
func NewStaticPayrollConfigHolder(cfg PayrollConfig) *PayrollConfigHolder {
	holder := &PayrollConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *PayrollConfigHolder) Get() PayrollConfig {
	return h.current.Load().(PayrollConfig)
}

// Override returns the override for a year, if any.
func (h *PayrollConfigHolder) Override(year int) (RateOverride, bool) {
	for _, o := range h.Get().RateOverrides {
		if o.Year == year {
			return o, true
		}
	}
	return RateOverride{}, false
}

func validatePayrollConfig(cfg PayrollConfig) error {
	for _, o := range cfg.RateOverrides {
		if o.Year < 2000 {
			return errors.New("payroll config: rate override year out of range")
		}
		if o.SocialSecurityRate < 0 || o.SocialSecurityRate >= 1 ||
			o.MedicareRate < 0 || o.MedicareRate >= 1 ||
			o.AdditionalMedicareRate < 0 || o.AdditionalMedicareRate >= 1 {
			return errors.New("payroll config: rate must be a fraction below 1")
		}
		if o.SocialSecurityWageBaseCents < 0 || o.AdditionalMedicareFloor < 0 {
			return errors.New("payroll config: negative wage base")
		}
	}
	return nil
}
