package osutil

import "os"

// FileExists returns whether or not a file exists on the filesystem. Any
// error returned by os.Stat is treated as the file not existing.
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}
