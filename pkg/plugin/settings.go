package plugin

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"

	"github.com/collectd-shrimp/pkg/config"
)

var valid = validator.New()

// DecodeSettings decodes conf.Settings into out (a pointer to a tagged struct)
// and runs struct validation. Unknown keys are rejected. A missing settings
// table decodes to the zero value.
func DecodeSettings(instance string, conf *config.PluginConfig, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("new settings decoder: %w", err)
	}
	if conf.Settings != nil {
		if err := decoder.Decode(conf.Settings); err != nil {
			return fmt.Errorf("%w: instance %q: settings: %v", ErrInvalidConfig, instance, err)
		}
	}
	if err := valid.Struct(out); err != nil {
		return fmt.Errorf("%w: instance %q: settings: %v", ErrInvalidConfig, instance, err)
	}
	return nil
}
