// Package version provides version information and build metadata for splitfs.
//
// Version information comes from, in order of preference:
//   - Compile-time variables (Version, Commit, Date) set via -ldflags
//   - Runtime build info from debug.ReadBuildInfo()
//   - Fallback defaults for development builds
//
// Release builds set them with:
//
//	-ldflags "-X github.com/dendrascience/dendra-splitfs/version.Version=v1.0.0 -X github.com/dendrascience/dendra-splitfs/version.Commit=abc123 -X github.com/dendrascience/dendra-splitfs/version.Date=2023-01-01T00:00:00Z"
//
// The value is reported by `splitfs --version`, `splitfs version`, on mount
// startup and in every manifest written by inspect.
package version
