package config

import (
	"net"
	"strconv"
)

const (
	defaultInterface    = "0.0.0.0"
	defaultPort         = 3250
	defaultDatabasePath = "database.db"
)

// Config is the on-disk configuration of the backend.
type Config struct {
	Network      NetworkConfig `json:"network"`
	DatabasePath string        `json:"database_path"`
}

// NetworkConfig is the address the server binds to.
//
// Interface may be a gateway address (only devices on the same network can
// connect), a specific address, or 127.0.0.1 / localhost (local machine
// only). The default 0.0.0.0 accepts connections from anywhere.
type NetworkConfig struct {
	Interface string `json:"interface"`
	Port      uint16 `json:"port"`
}

// Default returns the configuration written on first run.
func Default() Config {
	return Config{
		Network: NetworkConfig{
			Interface: defaultInterface,
			Port:      defaultPort,
		},
		DatabasePath: defaultDatabasePath,
	}
}

// Addr returns the listen address in host:port form.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Network.Interface, strconv.Itoa(int(c.Network.Port)))
}
