package driver

import (
	"oxmerge/internal/project"
	"oxmerge/internal/source"
)

// parserFingerprint changes whenever the shape of a cached unit changes, so
// that stale entries miss instead of decoding into the wrong layout.
var parserFingerprint = project.NameDigest("oxmerge/ast/v1")

// unitCacheKey: H(content hash || parser fingerprint).
func unitCacheKey(f *source.File) project.Digest {
	return project.Combine(project.Digest(f.Hash), parserFingerprint)
}

// pluginDigest fingerprints a plugin by its name and its files' contents in
// file order.
func pluginDigest(name string, files []*source.File) project.Digest {
	parts := make([]project.Digest, 0, len(files))
	for _, f := range files {
		parts = append(parts, project.Digest(f.Hash))
	}
	return project.Combine(project.NameDigest(name), parts...)
}
