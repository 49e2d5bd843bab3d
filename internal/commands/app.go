// Package commands wires the emdash CLI commands to the detection engine.
package commands

import (
	"github.com/jasonkneen/emdash/internal/core/broadcast"
	"github.com/jasonkneen/emdash/internal/core/config"
	"github.com/jasonkneen/emdash/internal/core/detect"
	"github.com/jasonkneen/emdash/internal/core/provider"
)

// App aggregates the services commands operate on. It is populated in
// main's Before hook, after configuration and the database are ready.
type App struct {
	Config   *config.Config
	Registry *provider.Registry
	Store    provider.Store
	Bus      *broadcast.Bus
	Detector *detect.Detector
}
