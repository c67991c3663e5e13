package oracle

import (
	"fmt"
	"strings"

	"creditmarket/core"
	"creditmarket/internal/oracle"
)

// Load build the oracle registry from config
func Load(cfgs []core.OracleConfig) (*oracle.Registry, error) {
	r := oracle.NewRegistry()

	for _, cfg := range cfgs {
		switch strings.ToLower(cfg.Kind) {
		case "", "static":
			r.Register(cfg.Address, oracle.NewStatic(cfg.Price))
		case "http":
			r.Register(cfg.Address, NewHTTP(cfg.EndPoint, DefaultTTL))
		default:
			return nil, fmt.Errorf("%w: %s at %s", ErrUnknownKind, cfg.Kind, cfg.Address.Hex())
		}
	}

	return r, nil
}
