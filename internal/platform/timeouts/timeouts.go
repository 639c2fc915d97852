// Package timeouts defines shared timeout constants used across commands.
package timeouts

import "time"

// ScenarioStep caps one scenario step, including its rolls and journaling.
const ScenarioStep = 10 * time.Second

// TelemetryShutdown limits how long a command waits to flush spans on exit.
const TelemetryShutdown = 5 * time.Second
