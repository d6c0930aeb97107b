//go:build !linux && !darwin && !windows

package scanner

import (
	"os"
	"time"
)

// accessTime and createTime have no portable implementation on this
// platform; callers fall back to omitting the corresponding timestamp.
func accessTime(info os.FileInfo) (time.Time, bool) { return time.Time{}, false }
func createTime(info os.FileInfo) (time.Time, bool) { return time.Time{}, false }
