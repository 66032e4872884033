package irmaseal

import "golang.org/x/mod/semver"

// moduleVersion is this module's own release version, independent of the
// single-variant wire Version tag carried inside Metadata.
const moduleVersion = "v1.0.0"

func init() {
	if !semver.IsValid(moduleVersion) {
		panic("irmaseal: moduleVersion is not a valid semantic version: " + moduleVersion)
	}
}

// LibraryVersion reports this module's release version.
func LibraryVersion() string {
	return moduleVersion
}

// String renders a wire Version tag for diagnostics.
func (v Version) String() string {
	switch v {
	case V1_0:
		return "v1.0"
	default:
		return "unknown"
	}
}
