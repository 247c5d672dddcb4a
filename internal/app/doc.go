// Package app holds the application state of the terminal client: the mode
// stack, the open modals and the catalog and account snapshots.
//
// # Architecture Role
//
// State is owned by the event loop's consumer goroutine. Key handlers call
// the free functions of this package (ShowSearch, IncreaseQuantity,
// ConfirmParking, ...) and the action orchestrator writes fetched snapshots
// into the same value. Nothing here performs I/O except persisting
// settings through the configured config.SettingsStore.
//
// # Package Structure
//
//	internal/app/
//	├── state.go        # State, catalog and account snapshots, purchase checks
//	├── modes.go        # Mode enum and the ModeStack of frames
//	├── modals.go       # Modal variants and typed accessors
//	├── navigation.go   # Product cursor and count prefix
//	├── username.go     # Username editor
//	├── purchase.go     # Purchase confirmation and quantity
//	├── search.go       # Search prompt backed by internal/search
//	├── errors.go       # Blocking error modal
//	├── parking.go      # Parking form and confirmation step
//	├── qr.go           # Deposit amount prompt and payment code
//	└── terminal.go     # Terminal-too-small guard
//
// # Modes and Modals
//
// Every open modal owns one or more frames on the ModeStack. Opening a
// modal pushes a frame; closing it removes every frame it owns, so nested
// workflows unwind in order at any depth:
//
//	Normal
//	  └── ParkingInput        (*ParkingModal)
//	        └── ParkingConfirmation (same *ParkingModal)
//	              └── Error   (*ErrorModal)
//
// An empty stack is Normal mode.
package app
