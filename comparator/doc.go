/*
Package comparator detects breaking changes between two versions of an OpenAPI 3
document.

# Overview

The comparator walks an old and a new document side by side and reports every
difference as a Message built from a fixed rule catalog. Each rule has a stable
numeric ID, a code, a message template, a kind (Addition, Update, Removal or
Specification) and a base severity. Base severities are resolved against the
strict flag: breaking rules are warnings by default and errors in strict mode.

Schemas are compared with an awareness of where they are used. The same change
can be breaking in a request and harmless in a response, so the comparator
tracks a direction (request, response or both) while it descends through
parameters, request bodies and responses.

# Usage

The package provides two API styles:

 1. CompareWithOptions for one-off comparisons configured with functional options
 2. A Comparator struct for reusable instances

# Example

	result, err := comparator.CompareWithOptions(
		comparator.WithOldFilePath("api-v1.yaml"),
		comparator.WithNewFilePath("api-v2.yaml"),
		comparator.WithStrict(true),
	)
	if err != nil {
		log.Fatal(err)
	}
	for _, m := range result.Messages {
		fmt.Printf("%s %s: %s\n", m.Severity, m.Code, m.Message)
	}
	if result.HasErrors() {
		os.Exit(1)
	}

# Locations

Every message carries an Old and a New Location. Ref is the JSON pointer as
traversed, Path is the same pointer with every $ref hop replaced by its target,
and Position is the line and column of the deepest node that exists along the
path. Additions have no old location and removals have no new location.

# Errors

Dangling references are not errors: the affected subtree is skipped and a debug
line is logged. The only fatal condition is a malformed x-ms-paths extension
when both documents carry it; Compare then returns an error wrapping
oaserrors.ErrExtension and no result.
*/
package comparator
