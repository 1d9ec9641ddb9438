// Package fileutil holds file-system constants shared by commands.
package fileutil

import "os"

// ReportMode is the permission of report files written with --output.
// Reports quote API paths and schemas, so only the owner may read them.
const ReportMode os.FileMode = 0o600
