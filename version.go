package anreach

// Version is the release of the library and the CLI.
// Release builds override it with -ldflags "-X github.com/aretw0/anreach.Version=...".
var Version = "0.3.0-dev"
