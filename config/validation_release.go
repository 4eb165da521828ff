//go:build release || darwin

package config

// MoltenVK ships without layers, and release builds skip validation.
const defaultEnableValidation = false
