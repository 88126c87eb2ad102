package sentrycli

import "runtime"

// Command builds an uploader argument vector, prefixing "cmd /c" on Windows
// so that .bat and .cmd wrappers resolve.
func Command(executable string, args ...string) []string {
	return commandFor(runtime.GOOS, executable, args...)
}

func commandFor(goos, executable string, args ...string) []string {
	out := make([]string, 0, len(args)+3)
	if goos == "windows" {
		out = append(out, "cmd", "/c")
	}
	out = append(out, executable)
	return append(out, args...)
}

// PropertiesEnvFor returns the env entries that point the uploader at a
// properties file. An empty path yields none.
func PropertiesEnvFor(path string) []string {
	if path == "" {
		return nil
	}
	return []string{PropertiesEnv + "=" + path}
}
