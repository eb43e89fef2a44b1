package warehouse

import (
	"errors"
	"fmt"
	"strings"
)

func NewSource(cfg ConnectionConfig) (Source, error) {
	if strings.TrimSpace(cfg.Type) == "" {
		return nil, errors.New("warehouse type is required")
	}
	switch strings.ToLower(cfg.Type) {
	case "mysql":
		return newMySQLSource(cfg)
	case "postgres", "postgresql":
		return newPostgresSource(cfg)
	case "mssql", "sqlserver":
		return newMSSQLSource(cfg)
	default:
		return nil, fmt.Errorf("unsupported warehouse type %q", cfg.Type)
	}
}
