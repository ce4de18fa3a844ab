package data

import (
	"context"
	"database/sql"
	"time"
)

// DBStatus is the outcome of a store health probe.
type DBStatus struct {
	Success     bool       `json:"success"`
	Version     string     `json:"version,omitempty"`
	CurrentTime *time.Time `json:"current_time,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// HealthModel probes the PostgreSQL pool.
type HealthModel struct {
	DB *sql.DB
}

// Check runs a trivial round trip and reports the server version and clock.
func (m HealthModel) Check(ctx context.Context) DBStatus {
	if m.DB == nil {
		return DBStatus{Error: "database pool not configured"}
	}

	var (
		version string
		now     time.Time
	)
	err := m.DB.QueryRowContext(ctx, `SELECT version(), now()`).Scan(&version, &now)
	if err != nil {
		return DBStatus{Error: err.Error()}
	}
	return DBStatus{Success: true, Version: version, CurrentTime: &now}
}
