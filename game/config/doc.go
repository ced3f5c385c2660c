// Package config provides board configuration management for Amino Trail.
//
// The config package handles:
//   - Loading board configurations from JSON or YAML files
//   - Configuration validation before use
//   - Default configuration management
//   - Configuration discovery and listing
//
// Configuration Format:
//
// Board configurations are stored in the configs directory as .json, .yaml
// or .yml files. The file name without extension is the config ID used when
// creating sessions. Each configuration either fixes the ring:
//
//	name: Membrane jump
//	description: The interior of a membrane pair is skipped
//	direction: clockwise
//	layout:
//	  - lab:red
//	  - mem:p1
//	  - ser
//	  - mem:p1
//	  - gly
//
// or describes a deck that is shuffled for every round:
//
//	name: Full deck
//	description: Table game setup
//	labs: [red, blue, yellow]
//	deck:
//	  gly: 2
//	  ser+boc: 2
//	  rxn:enzyme: 1
//	  mem:a: 2
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		return err
//	}
//
//	boardConfig, err := manager.LoadConfig("classic")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
//
// Validation:
//
// Fixed layouts must build into a board and solve. Decks must have paired
// membranes, at least one laboratory colour and a terminal card.
package config
