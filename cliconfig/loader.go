// Package cliconfig fills a config struct from CLI flags, positional
// arguments and a configuration file.
//
// It is intended for internal use by rbwchain only.
package cliconfig

import (
	"fmt"
	"os"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/oleiade/reflections"
	"github.com/rbwchain/rbwchain/internal/osutil"
	"github.com/rbwchain/rbwchain/logger"
	"github.com/urfave/cli"
)

type Loader struct {
	// The context that is passed when using a urfave/cli action
	CLI *cli.Context

	// The struct that the config values will be loaded into
	Config any

	// The logger used
	Logger logger.Logger

	// A slice of paths to files that should be used as config files
	DefaultConfigFilePaths []string

	// The file that was used when loading this configuration
	File *File
}

// Matches "arg:N" (one positional arg), "arg:N+" (positional args from N
// onwards) or "arg:*" (all positional args).
var argCLINameRE = regexp.MustCompile(`^arg:(?:(\d+)(\+)?|\*)$`)

// Load fills Config. Flag values set on the command line or through their
// environment variable win over the config file, which wins over flag
// defaults.
func (l *Loader) Load() error {
	if err := l.findFile(); err != nil {
		return err
	}

	if l.File != nil {
		if err := l.File.Load(); err != nil {
			return fmt.Errorf("loading config file: %w", err)
		}
		l.logger().Debug("Loaded config file %s", l.File.Path)
	}

	fields, err := reflections.FieldsDeep(l.Config)
	if err != nil {
		return fmt.Errorf("listing config fields: %w", err)
	}

	for _, fieldName := range fields {
		cliName, _ := reflections.GetFieldTag(l.Config, fieldName, "cli")
		if cliName != "" {
			if err := l.setFieldValueFromCLI(fieldName, cliName); err != nil {
				return fmt.Errorf("setting config field %s: %w", fieldName, err)
			}
		}

		normalization, _ := reflections.GetFieldTag(l.Config, fieldName, "normalize")
		if normalization != "" {
			if err := l.normalizeField(fieldName, normalization); err != nil {
				return fmt.Errorf("normalizing config field %s: %w", fieldName, err)
			}
		}

		validationRules, _ := reflections.GetFieldTag(l.Config, fieldName, "validate")
		if validationRules != "" {
			label, _ := reflections.GetFieldTag(l.Config, fieldName, "label")
			if label == "" {
				label = cliName
			}
			if label == "" {
				label = fieldName
			}

			if err := l.validateField(fieldName, label, validationRules); err != nil {
				return err
			}
		}
	}

	return nil
}

// findFile picks the file named by --config, which must exist, or else the
// first default path that does.
func (l *Loader) findFile() error {
	if path := l.CLI.String("config"); path != "" {
		file := File{Path: path}
		if !file.Exists() {
			absolutePath, _ := file.AbsolutePath()
			return fmt.Errorf("a configuration file could not be found at: %q", absolutePath)
		}
		l.File = &file
		return nil
	}

	for _, path := range l.DefaultConfigFilePaths {
		file := File{Path: path}
		if file.Exists() {
			l.File = &file
			return nil
		}
	}
	return nil
}

func (l Loader) setFieldValueFromCLI(fieldName, cliName string) error {
	fieldKind, err := reflections.GetFieldKind(l.Config, fieldName)
	if err != nil {
		return fmt.Errorf("getting the kind of struct field %q: %w", fieldName, err)
	}

	var value any

	if argMatch := argCLINameRE.FindStringSubmatch(cliName); argMatch != nil {
		value, err = l.argValue(argMatch[1], argMatch[2] == "+")
		if err != nil {
			return err
		}
	} else {
		// Start with the config file value, if there is one.
		if l.File != nil {
			if configFileValue, ok := l.File.Config[cliName]; ok {
				value, err = convertFileValue(fieldKind, configFileValue)
				if err != nil {
					return fmt.Errorf("config file value for %s: %w", cliName, err)
				}
			}
		}

		// The flag wins if it was given, and supplies the default
		// otherwise.
		if value == nil || l.cliValueIsSet(cliName) {
			switch fieldKind {
			case reflect.String:
				value = l.CLI.String(cliName)
			case reflect.Slice:
				value = l.CLI.StringSlice(cliName)
			case reflect.Bool:
				value = l.CLI.Bool(cliName)
			case reflect.Int:
				value = l.CLI.Int(cliName)
			default:
				return fmt.Errorf("unable to handle type: %s", fieldKind)
			}
		}
	}

	if value != nil {
		if err := reflections.SetField(l.Config, fieldName, value); err != nil {
			return fmt.Errorf("setting value field %q to %q: %w", fieldName, value, err)
		}
	}

	return nil
}

// argValue returns positional args as a string ("arg:N") or a []string
// ("arg:N+", "arg:*"). A missing single arg is nil.
func (l Loader) argValue(index string, rest bool) (any, error) {
	args := []string(l.CLI.Args())

	if index == "" {
		return slices.Clone(args), nil
	}

	argIndex, err := strconv.Atoi(index)
	if err != nil {
		return nil, fmt.Errorf("converting string to int: %w", err)
	}

	if rest {
		if argIndex >= len(args) {
			return []string{}, nil
		}
		return slices.Clone(args[argIndex:]), nil
	}

	if argIndex < len(args) {
		return args[argIndex], nil
	}
	return nil, nil
}

func convertFileValue(kind reflect.Kind, s string) (any, error) {
	switch kind {
	case reflect.String:
		return s, nil
	case reflect.Slice:
		return strings.Split(s, ","), nil
	case reflect.Bool:
		return strconv.ParseBool(s)
	case reflect.Int:
		return strconv.Atoi(s)
	default:
		return nil, fmt.Errorf("unable to convert string to type %s", kind)
	}
}

func (l Loader) Errorf(format string, v ...any) error {
	usage := l.CLI.App.Name
	if name := l.CLI.Command.Name; name != "" {
		usage += " " + name
	}
	suffix := fmt.Sprintf(" See: `%s --help`", usage)

	return fmt.Errorf(format+suffix, v...)
}

// cliValueIsSet reports whether the flag was given on the command line or
// through its environment variable.
func (l Loader) cliValueIsSet(cliName string) bool {
	if l.CLI.IsSet(cliName) {
		return true
	}

	flags := l.CLI.Command.Flags
	if len(flags) == 0 {
		flags = l.CLI.App.Flags
	}

	for _, flag := range flags {
		name, _ := reflections.GetField(flag, "Name")
		envVar, _ := reflections.GetField(flag, "EnvVar")

		nameStr, _ := name.(string)
		envVarStr, _ := envVar.(string)
		if envVarStr == "" || !slices.Contains(flagNames(nameStr), cliName) {
			continue
		}

		for envName := range strings.SplitSeq(envVarStr, ",") {
			if os.Getenv(strings.TrimSpace(envName)) != "" {
				return true
			}
		}
	}

	return false
}

// flagNames splits a urfave/cli flag name such as "file, f".
func flagNames(name string) []string {
	var names []string
	for n := range strings.SplitSeq(name, ",") {
		names = append(names, strings.TrimSpace(n))
	}
	return names
}

func (l Loader) fieldValueIsEmpty(fieldName string) bool {
	value, _ := reflections.GetField(l.Config, fieldName)
	fieldKind, _ := reflections.GetFieldKind(l.Config, fieldName)

	switch fieldKind {
	case reflect.String:
		return value == ""
	case reflect.Slice:
		return reflect.ValueOf(value).Len() == 0
	case reflect.Bool:
		return value == false
	case reflect.Int:
		return value == 0
	default:
		panic(fmt.Sprintf("Can't determine empty-ness for field type %s", fieldKind))
	}
}

func (l Loader) validateField(fieldName, label, validationRules string) error {
	for rule := range strings.SplitSeq(validationRules, ",") {
		ruleName, ruleArg, _ := strings.Cut(rule, "=")

		switch ruleName {
		case "required":
			if l.fieldValueIsEmpty(fieldName) {
				return l.Errorf("Missing %s.", label)
			}

		case "file-exists":
			value, _ := reflections.GetField(l.Config, fieldName)
			if valueAsString, ok := value.(string); ok && valueAsString != "" {
				if _, err := os.Stat(valueAsString); err != nil {
					return fmt.Errorf("couldn't find %s located at %s: %w", label, valueAsString, err)
				}
			}

		case "oneof":
			value, _ := reflections.GetField(l.Config, fieldName)
			allowed := strings.Split(ruleArg, "|")
			if valueAsString, ok := value.(string); ok && !slices.Contains(allowed, valueAsString) {
				return l.Errorf("Invalid %s %q, must be one of: %s.", label, valueAsString, strings.Join(allowed, ", "))
			}

		default:
			return fmt.Errorf("unknown config validation rule %q", rule)
		}
	}

	return nil
}

func (l Loader) normalizeField(fieldName, normalization string) error {
	value, _ := reflections.GetField(l.Config, fieldName)
	fieldKind, _ := reflections.GetFieldKind(l.Config, fieldName)

	switch normalization {
	case "filepath":
		if fieldKind != reflect.String {
			return fmt.Errorf("filepath normalization only works on string fields")
		}

		normalizedPath, err := osutil.NormalizeFilePath(value.(string))
		if err != nil {
			return err
		}
		return reflections.SetField(l.Config, fieldName, normalizedPath)

	case "lowercase":
		if fieldKind != reflect.String {
			return fmt.Errorf("lowercase normalization only works on string fields")
		}
		return reflections.SetField(l.Config, fieldName, strings.ToLower(strings.TrimSpace(value.(string))))

	default:
		return fmt.Errorf("unknown normalization %q", normalization)
	}
}

func (l Loader) logger() logger.Logger {
	if l.Logger == nil {
		return logger.Discard
	}
	return l.Logger
}
