package version

// Version is overridden at build time with -ldflags "-X seqsearch/internal/version.Version=...".
var Version = "dev"
