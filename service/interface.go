package service

import "context"

// Service defines the lifecycle of a long-running part of a session
// Services own resources with goroutines or OS state: the terminal, the audio player, the input pump
//
// Lifecycle:
//  1. Construction
//  2. Start(ctx) - acquire resources, launch goroutines bound to ctx
//  3. [runtime operation]
//  4. Stop() - halt goroutines, release resources
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Dependencies returns names of services that must Start before this one
	// Return nil or empty slice if no dependencies
	Dependencies() []string

	// Start begins service operation
	Start(ctx context.Context) error

	// Stop halts service operation and releases resources
	// Must be idempotent - safe to call multiple times
	Stop() error
}
