package version

// Version is the current version of the signalcraft library.
// This value is set at build time using ldflags:
// -ldflags "-X github.com/signalcraft-lab/signalcraft/internal/version.Version=1.2.3"
// The default value "main" indicates a development build.
var Version = "v0.4.0"

// SchemaVersion is the version of the history store's on-disk schema. It is
// written to the store's meta table on creation and checked on every open.
var SchemaVersion = "1.0.0"

// GetVersion returns the current version of the library.
func GetVersion() string {
	return Version
}
