package payload

import (
	"strings"
)

// FileSpec is a parsed --file value.
type FileSpec struct {
	// Name is the environment variable that receives the staged file path.
	Name string
	// Suffix is appended to the staged file name, including its leading
	// dot. Empty for none.
	Suffix string
}

// ParseFileSpec splits NAME[.EXT] on the last dot. When nothing precedes
// the last dot (".env") the whole value is the name. A trailing dot
// ("NAME.") gives no suffix.
func ParseFileSpec(spec string) (FileSpec, error) {
	fs := FileSpec{Name: spec}

	if i := strings.LastIndexByte(spec, '.'); i > 0 {
		fs.Name = spec[:i]
		if ext := spec[i+1:]; ext != "" {
			fs.Suffix = "." + ext
		}
	}

	switch {
	case fs.Name == "":
		return FileSpec{}, &ConfigError{Spec: spec, Reason: "variable name is empty"}
	case strings.ContainsAny(fs.Name, "=\x00"):
		return FileSpec{}, &ConfigError{Spec: spec, Reason: "variable name must not contain '=' or NUL"}
	case strings.ContainsAny(fs.Suffix, `/\`+"\x00"):
		return FileSpec{}, &ConfigError{Spec: spec, Reason: "file extension must not contain a path separator"}
	}

	return fs, nil
}

func (fs FileSpec) String() string {
	return fs.Name + fs.Suffix
}
