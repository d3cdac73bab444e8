package anchortl

// Release of this module. Untagged builds carry the "-dev" suffix.
const release = "v0.1.0-dev"

// GitCommit is filled in at build time with
// -ldflags "-X github.com/cqfd/anchor-tl.GitCommit=<hash>".
var GitCommit = ""

// Version is the release followed by the commit, if known.
func Version() string {
	if GitCommit == "" {
		return release
	}
	return release + " " + GitCommit
}
