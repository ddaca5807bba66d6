// Package overlay loads the optional user-supplied configuration overlay
// that customizes default build behavior. Absence of the file is not an
// error: it only disables optional features, which the orchestrator
// records in its disabled-services report.
package overlay
