package tally

// Version is the library version. Release builds override it with
// -ldflags "-X github.com/aretw0/tally.Version=...".
var Version = "0.3.0"
