// internal/config/database.go
package config

import (
	"fmt"
)

// DSN builds the Postgres connection string in keyword form.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s application_name=siteqa",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// RedactedDSN is safe to log.
func (d *DatabaseConfig) RedactedDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Database, d.SSLMode,
	)
}
