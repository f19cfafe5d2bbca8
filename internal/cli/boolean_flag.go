package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	booleanFlagTypeName         = "bool"
	booleanFlagAcceptedLiterals = "true, false, yes, no, on, off, 1, 0"
)

var booleanFlagLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

func parseBooleanLiteral(input string) (bool, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return true, true
	}
	parsed, known := booleanFlagLiterals[normalized]
	return parsed, known
}

// booleanFlag is a pflag.Value that accepts yes/no and on/off in addition to true/false.
type booleanFlag struct {
	target *bool
	name   string
}

func (flag *booleanFlag) Set(input string) error {
	parsed, known := parseBooleanLiteral(input)
	if !known {
		return fmt.Errorf("invalid boolean value %q for --%s; accepted values: %s", input, flag.name, booleanFlagAcceptedLiterals)
	}
	*flag.target = parsed
	return nil
}

func (flag *booleanFlag) String() string {
	if flag == nil || flag.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*flag.target)
}

func (flag *booleanFlag) Type() string {
	return booleanFlagTypeName
}

// registerBooleanFlag adds a boolean flag that may be given bare, as --name=value or as
// --name value once the arguments pass through normalizeBooleanFlagArguments.
func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	*target = defaultValue
	flagSet.Var(&booleanFlag{target: target, name: name}, name, usage)
	registered := flagSet.Lookup(name)
	registered.DefValue = strconv.FormatBool(defaultValue)
	registered.NoOptDefVal = strconv.FormatBool(true)
}

// normalizeBooleanFlagArguments rewrites "--name value" into "--name=value" for every boolean
// flag of command and its children when value is a boolean literal. Other values stay
// positional arguments.
func normalizeBooleanFlagArguments(command *cobra.Command, arguments []string) []string {
	booleanFlags := map[string]struct{}{}
	collectBooleanFlagNames(command, booleanFlags)
	if len(booleanFlags) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		argument := arguments[index]
		if argument == "--" {
			return append(normalized, arguments[index:]...)
		}
		flagName, isLongFlag := strings.CutPrefix(argument, "--")
		_, isBoolean := booleanFlags[flagName]
		if !isLongFlag || !isBoolean || strings.Contains(flagName, "=") || index+1 >= len(arguments) {
			normalized = append(normalized, argument)
			continue
		}
		value := arguments[index+1]
		if _, known := parseBooleanLiteral(value); known && strings.TrimSpace(value) != "" {
			normalized = append(normalized, fmt.Sprintf("--%s=%s", flagName, value))
			index++
			continue
		}
		normalized = append(normalized, argument)
	}
	return normalized
}

func collectBooleanFlagNames(command *cobra.Command, target map[string]struct{}) {
	if command == nil {
		return
	}
	collect := func(flag *pflag.Flag) {
		if flag.Value.Type() == booleanFlagTypeName {
			target[flag.Name] = struct{}{}
		}
	}
	command.PersistentFlags().VisitAll(collect)
	command.Flags().VisitAll(collect)
	for _, child := range command.Commands() {
		collectBooleanFlagNames(child, target)
	}
}
