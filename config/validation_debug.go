//go:build !release && !darwin

package config

const defaultEnableValidation = true
