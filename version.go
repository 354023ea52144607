package waterfall

// Version is the release of this module. Overridden at build time with
// -ldflags "-X github.com/aretw0/waterfall.Version=...".
var Version = "0.1.0-dev"
