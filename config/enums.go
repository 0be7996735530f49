package config

// Specification of preview image resizing mode.
// ENUM(none, keepAR, stretch)
type ImageResizeMode int
