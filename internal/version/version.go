package version

// Version is the semantic version of doctrack, overridable at build time
// via -ldflags.
var Version = "0.3.0"
