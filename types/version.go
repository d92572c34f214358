package types

// Version is the canonical project version, shared by the CLI and the
// encoder IPC stream header.
const Version = "0.4.0"
