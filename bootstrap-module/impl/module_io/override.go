package module_io

// Resolve runs the override chain for a single setting. The most authoritative
// value present wins: a value parsed from the command line beats a value
// supplied by an embedding caller, which beats the built-in default. Absent
// values are nil pointers.
func Resolve[T any](defaultValue T, callerValue *T, cliValue *T) T {
	if cliValue != nil {
		return *cliValue
	}
	if callerValue != nil {
		return *callerValue
	}
	return defaultValue
}
