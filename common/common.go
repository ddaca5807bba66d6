// Package common holds package-wide constants and the logger setup shared
// by all commands.
package common

// PackageName identifies this project in logs and user agents.
const PackageName = "build-provisioner"

// Version is set at build time via -ldflags.
var Version = "dev"
