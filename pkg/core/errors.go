package core

import (
	errorsmod "cosmossdk.io/errors"
)

// Codespace groups the registered raytracer error codes.
const Codespace = "whitted"

// Registered validation errors. Wrap them with errorsmod.Wrapf and test
// with errors.Is.
var (
	ErrInvalidSphere   = errorsmod.Register(Codespace, 2, "invalid sphere")
	ErrInvalidMaterial = errorsmod.Register(Codespace, 3, "invalid material")
	ErrInvalidLight    = errorsmod.Register(Codespace, 4, "invalid light")
	ErrUnknownScene    = errorsmod.Register(Codespace, 5, "unknown scene")
	ErrUnknownMaterial = errorsmod.Register(Codespace, 6, "unknown material")
	ErrInvalidConfig   = errorsmod.Register(Codespace, 7, "invalid configuration")
)
