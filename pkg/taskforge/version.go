package taskforge

// Version is the engine version string printed by --version.
const Version = "0.1.0"
