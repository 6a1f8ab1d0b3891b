package config

import (
	"errors"

	"github.com/go-viper/mapstructure/v2"
)

// structProvider loads configuration from a struct.
type structProvider struct {
	cfg interface{}
}

func newStructProvider(cfg interface{}) *structProvider {
	return &structProvider{cfg: cfg}
}

// Read reads the configuration from the struct.
func (s *structProvider) Read() (map[string]interface{}, error) {
	var out map[string]interface{}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &out,
		TagName: "koanf",
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(s.cfg); err != nil {
		return nil, err
	}

	return out, nil
}

// ReadBytes is required by the Provider interface but not used for struct providers.
func (s *structProvider) ReadBytes() ([]byte, error) {
	return nil, errors.New("ReadBytes not supported for struct provider")
}

// mapProvider loads an already parsed map, canonicalizing its top level keys.
type mapProvider struct {
	values map[string]interface{}
}

func newMapProvider(values map[string]interface{}) *mapProvider {
	return &mapProvider{values: values}
}

func (m *mapProvider) Read() (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(m.values))
	for key, value := range m.values {
		out[canonicalKey(key)] = value
	}
	return out, nil
}

func (m *mapProvider) ReadBytes() ([]byte, error) {
	return nil, errors.New("ReadBytes not supported for map provider")
}
