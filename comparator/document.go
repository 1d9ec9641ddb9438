package comparator

import (
	"errors"
	"strconv"
	"strings"

	"github.com/criteo/openapi-comparator/internal/pathutil"
	"github.com/criteo/openapi-comparator/oaserrors"
	"github.com/criteo/openapi-comparator/parser"
)

// compareDocuments walks the whole document pair. The only error it returns
// is a malformed x-ms-paths payload.
func (c *comparison) compareDocuments() error {
	c.compareVersions(c.old.Info, c.new.Info)
	c.compareServers(c.old.Servers, c.new.Servers)
	c.comparePaths(c.old.Paths, c.new.Paths, "paths")
	if err := c.compareCustomPaths(); err != nil {
		return err
	}
	c.compareComponents(c.old.Components, c.new.Components)
	return nil
}

// compareVersions classifies the info.version change on its first two
// dot-separated components. Patch-level changes are not reported.
func (c *comparison) compareVersions(oldInfo, newInfo *parser.Info) {
	if oldInfo == nil || newInfo == nil || oldInfo.Version == "" || newInfo.Version == "" {
		return
	}
	old, new := oldInfo.Version, newInfo.Version

	c.pushProperty("info")
	c.pushProperty("version")
	defer c.pop()
	defer c.pop()

	if fold.String(old) == fold.String(new) {
		if c.reportUnchangedVersion {
			c.log(NoVersionChange)
		}
		return
	}

	oldParts, newParts := strings.Split(old, "."), strings.Split(new, ".")
	oldMajor, newMajor, areIntegers := parsePair(oldParts[0], newParts[0])
	switch {
	case areIntegers && newMajor > oldMajor:
		c.log(MajorVersionChange, old, new)
	case areIntegers && newMajor < oldMajor:
		c.log(VersionsReversed, old, new)
	case areIntegers && len(oldParts) > 1 && len(newParts) > 1:
		var oldMinor, newMinor int
		oldMinor, newMinor, areIntegers = parsePair(oldParts[1], newParts[1])
		switch {
		case areIntegers && newMinor > oldMinor:
			c.log(MinorVersionChange, old, new)
		case areIntegers && newMinor < oldMinor:
			c.log(VersionsReversed, old, new)
		}
	}
	if !areIntegers {
		c.log(NonSemanticVersion, old, new)
	}
}

func parsePair(a, b string) (int, int, bool) {
	x, err := strconv.Atoi(a)
	if err != nil {
		return 0, 0, false
	}
	y, err := strconv.Atoi(b)
	if err != nil {
		return 0, 0, false
	}
	return x, y, true
}

func (c *comparison) compareServers(old, new []*parser.Server) {
	if old == nil && new == nil {
		return
	}
	c.pushProperty("servers")
	defer c.pop()

	removed := stringSetDiff(serverURLs(old), serverURLs(new))
	for _, url := range removed {
		c.pushServer(url)
		c.log(ServerNoLongerSupported, url)
		c.pop()
	}
}

func serverURLs(servers []*parser.Server) []string {
	urls := make([]string, 0, len(servers))
	for _, s := range servers {
		if s != nil {
			urls = append(urls, s.URL)
		}
	}
	return urls
}

// pathEntry is a path item keyed by its normalised template.
type pathEntry struct {
	template string
	item     *parser.PathItem
}

// normalizePaths re-keys paths by template with parameter names erased, so
// that renaming {id} to {petId} is not a removal.
func normalizePaths(paths *parser.Map[*parser.PathItem]) *parser.Map[pathEntry] {
	out := parser.NewMap[pathEntry]()
	for template, item := range paths.All() {
		out.Set(pathutil.OpenAPIPathName(template), pathEntry{template: template, item: item})
	}
	return out
}

// comparePaths compares two path maps found under the document key root.
func (c *comparison) comparePaths(oldPaths, newPaths *parser.Map[*parser.PathItem], root string) {
	if oldPaths == nil && newPaths == nil {
		return
	}
	old, new := normalizePaths(oldPaths), normalizePaths(newPaths)

	c.pushProperty(root)
	defer c.pop()

	for name, entry := range old.All() {
		if new.Has(name) {
			continue
		}
		c.pushPathTemplate(name)
		c.log(RemovedPath, entry.template)
		c.pop()
	}
	for name := range new.All() {
		if old.Has(name) {
			continue
		}
		c.pushPathTemplate(name)
		c.log(AddedPath)
		c.pop()
	}
	for name, n := range new.All() {
		o, ok := old.Get(name)
		if !ok {
			continue
		}
		c.pushPathTemplate(name)
		c.comparePathItem(o.item, n.item)
		c.pop()
	}
}

// compareCustomPaths compares x-ms-paths when both documents carry it.
func (c *comparison) compareCustomPaths() error {
	if !hasCustomPaths(c.old) || !hasCustomPaths(c.new) {
		return nil
	}
	if err := sideError(c.old.CustomPathsErr, "old"); err != nil {
		return err
	}
	if err := sideError(c.new.CustomPathsErr, "new"); err != nil {
		return err
	}
	c.comparePaths(c.old.CustomPaths, c.new.CustomPaths, parser.CustomPathsExtension)
	return nil
}

func hasCustomPaths(doc *parser.Document) bool {
	return doc.CustomPaths != nil || doc.CustomPathsErr != nil
}

// sideError tags an extension error with the document it comes from.
func sideError(err error, side string) error {
	if err == nil {
		return nil
	}
	var extErr *oaserrors.ExtensionError
	if errors.As(err, &extErr) {
		tagged := *extErr
		tagged.Document = side
		return &tagged
	}
	return &oaserrors.ExtensionError{
		Extension: parser.CustomPathsExtension,
		Document:  side,
		Cause:     err,
	}
}
