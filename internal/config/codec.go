package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tailscale/hujson"
)

// Encode renders cfg as indented JSON, the form written for a new
// configuration file.
func Encode(cfg Config) ([]byte, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Decode parses a configuration document. Comments and trailing commas are
// allowed. Every field must be present; unknown, repeated or
// differently-cased keys are rejected.
func Decode(data []byte) (Config, error) {
	v, err := hujson.Parse(bytes.Clone(data))
	if err != nil {
		return Config{}, err
	}
	if err := checkKeys(v, configKeys, ""); err != nil {
		return Config{}, err
	}
	v.Standardize()
	std := v.Pack()

	dec := json.NewDecoder(bytes.NewReader(std))
	dec.DisallowUnknownFields()

	var raw rawConfig
	if err := dec.Decode(&raw); err != nil {
		return Config{}, err
	}
	return raw.resolve()
}

// keySet lists the allowed member names of an object; a nil entry is a
// leaf field.
type keySet map[string]keySet

var configKeys = keySet{
	"network": keySet{
		"interface": nil,
		"port":      nil,
	},
	"database_path": nil,
}

// checkKeys matches object member names exactly. encoding/json alone folds
// case and lets a repeated key overwrite the first one.
func checkKeys(v hujson.Value, allowed keySet, prefix string) error {
	obj, ok := v.Value.(*hujson.Object)
	if !ok {
		// Non-objects are reported by the typed decode.
		return nil
	}
	seen := make(map[string]bool, len(obj.Members))
	for _, m := range obj.Members {
		lit, _ := m.Name.Value.(hujson.Literal)
		var name string
		if err := json.Unmarshal(lit, &name); err != nil {
			return fmt.Errorf("invalid member name %s: %w", lit, err)
		}
		field := prefix + name

		sub, known := allowed[name]
		if !known {
			return fmt.Errorf("unknown field %q", field)
		}
		if seen[name] {
			return fmt.Errorf("duplicate field %q", field)
		}
		seen[name] = true

		if sub != nil {
			if err := checkKeys(m.Value, sub, field+"."); err != nil {
				return err
			}
		}
	}
	return nil
}

// rawConfig mirrors Config with pointer fields so absent keys can be told
// apart from zero values.
type rawConfig struct {
	Network      *rawNetwork `json:"network"`
	DatabasePath *string     `json:"database_path"`
}

type rawNetwork struct {
	Interface *string `json:"interface"`
	Port      *uint16 `json:"port"`
}

func (r rawConfig) resolve() (Config, error) {
	var missing []string
	if r.Network == nil {
		missing = append(missing, "network")
	} else {
		if r.Network.Interface == nil {
			missing = append(missing, "network.interface")
		}
		if r.Network.Port == nil {
			missing = append(missing, "network.port")
		}
	}
	if r.DatabasePath == nil {
		missing = append(missing, "database_path")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required field(s): %s", strings.Join(missing, ", "))
	}

	return Config{
		Network: NetworkConfig{
			Interface: *r.Network.Interface,
			Port:      *r.Network.Port,
		},
		DatabasePath: *r.DatabasePath,
	}, nil
}
